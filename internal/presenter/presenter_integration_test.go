// File: internal/presenter/presenter_integration_test.go
package presenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/onboardkit/onboardkit/pkg/config"
)

// requireBrowser skips the test when no Chrome binary is available. These
// tests launch a real headless browser against a local httptest server.
func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser integration test in short mode.")
	}
	for _, name := range []string{
		"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("Chrome not found in PATH, skipping integration test.")
}

func integrationConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Browser.Headless = true
	cfg.Network.PostLoadWait = 0
	return cfg
}

func TestPresentDeliversBridgePayload(t *testing.T) {
	requireBrowser(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/welcome-v2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>
<script>
  window.addEventListener('load', () => {
    window.OnboardKit.complete({name: 'Alice', age: 30});
  });
</script>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p := New(integrationConfig(), zaptest.NewLogger(t))
	data, err := p.Present(ctx, srv.URL+"/welcome-v2")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Alice", "age": "30"}, data)
	assert.Equal(t, StateDismissed, p.State())
}

func TestPresentAutoExtractsFormFields(t *testing.T) {
	requireBrowser(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>
<form>
  <input name="name" value="Alice">
  <input name="hidden" type="hidden" value="ignored">
  <span data-onboard-key="plan">pro</span>
</form>
<script>
  window.addEventListener('load', () => { window.OnboardKit.complete(); });
</script>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p := New(integrationConfig(), zaptest.NewLogger(t))
	data, err := p.Present(ctx, srv.URL+"/signup")
	require.NoError(t, err)

	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "pro", data["plan"])
	assert.NotContains(t, data, "hidden", "invisible fields are not extracted")
}

func TestPresentSentinelNavigationFallback(t *testing.T) {
	requireBrowser(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/flow", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>
<script>
  window.addEventListener('load', () => { location.href = '/onboarding-complete'; });
</script>
</body></html>`))
	})
	mux.HandleFunc("/onboarding-complete", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>done</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p := New(integrationConfig(), zaptest.NewLogger(t))
	data, err := p.Present(ctx, srv.URL+"/flow")
	require.NoError(t, err)

	assert.Nil(t, data, "sentinel fallback completes without a payload")
	assert.Equal(t, StateDismissed, p.State())
}
