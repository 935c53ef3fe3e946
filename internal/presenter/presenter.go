// File: internal/presenter/presenter.go

// Package presenter owns the embedded browser window that displays the
// hosted onboarding page and relays the page's completion signal back to
// the SDK.
package presenter

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/onboardkit/onboardkit/internal/bridge"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// BridgeBinding is the CDP binding name the bootstrap script calls with the
// JSON-encoded completion payload.
const BridgeBinding = "__onboardkit_complete"

// CompletionSentinel is the fallback completion signal: a navigation to any
// URL containing this substring dismisses the flow. Pages that cannot invoke
// the bridge (e.g. a plain redirect at the end of a hosted form) use this.
const CompletionSentinel = "onboarding-complete"

// State models the controller lifecycle: NotLoaded -> Loading -> Ready ->
// Dismissed. A failed load leaves the controller in Loading; the window stays
// up until the page resolves or the host cancels.
type State int32

const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateNotLoaded:
		return "not_loaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDismissed:
		return "dismissed"
	}
	return fmt.Sprintf("unknown(%d)", int32(s))
}

// result carries the best-available completion data. Data is nil when the
// flow completed through the sentinel fallback without a payload.
type result struct {
	data map[string]string
}

// Presenter drives a single onboarding presentation in a dedicated browser
// window. It is single-use: create one per ShowOnboarding call.
type Presenter struct {
	cfg    *config.Config
	logger *zap.Logger
	id     string

	state atomic.Int32

	completeOnce sync.Once
	completeCh   chan result
}

// New creates a presenter for one presentation.
func New(cfg *config.Config, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Presenter{
		cfg:        cfg,
		logger:     logger.Named("presenter").With(zap.String("presentation_id", id[:8])),
		id:         id,
		completeCh: make(chan result, 1),
	}
}

// ID returns the unique identifier for this presentation.
func (p *Presenter) ID() string {
	return p.id
}

// State returns the current controller state.
func (p *Presenter) State() State {
	return State(p.state.Load())
}

// TargetURL constructs the page address from the configured base URL and the
// flow identifier.
func TargetURL(baseURL, identifier string) string {
	return strings.TrimRight(baseURL, "/") + "/" + identifier
}

// ContainsSentinel reports whether a navigated URL carries the fallback
// completion marker.
func ContainsSentinel(url string) bool {
	return strings.Contains(url, CompletionSentinel)
}

// Present opens the browser window, loads targetURL, and blocks until the
// page signals completion, the window is closed, or ctx is cancelled.
//
// The returned mapping may be nil (sentinel fallback, no payload). A non-nil
// error means the presentation ended without a completion signal; load
// failures alone are logged and do NOT end the presentation.
func (p *Presenter) Present(ctx context.Context, targetURL string) (map[string]string, error) {
	// The allocator owns the browser process for this presentation.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, p.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	// Cancelling the tab context tears down the CDP listeners along with the
	// window, so the completion handler cannot outlive the presentation.
	defer cancelTab()

	p.listen(tabCtx)

	if err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return cdpruntime.AddBinding(BridgeBinding).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(bootstrapScript).Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("failed to prepare browser session: %w", err)
	}

	p.state.Store(int32(StateLoading))
	p.logger.Info("Loading onboarding page.", zap.String("url", targetURL))

	// The 30s load timeout bounds only the initial navigation, not the
	// presentation: a slow or failed load leaves the window (and whatever
	// the page manages to render) in place.
	loadCtx, cancelLoad := context.WithTimeout(tabCtx, p.loadTimeout())
	err := chromedp.Run(loadCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	cancelLoad()

	switch {
	case err == nil:
		p.state.Store(int32(StateReady))
		p.logger.Debug("Onboarding page ready.")
		if wait := p.cfg.Network.PostLoadWait; wait > 0 {
			select {
			case <-time.After(wait):
			case <-tabCtx.Done():
			}
		}
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		// No retry and no auto-dismiss: the page itself may still recover
		// (meta refresh, service worker), and the host can cancel.
		p.logger.Warn("Onboarding page failed to load; leaving window open.", zap.Error(err))
	}

	select {
	case res := <-p.completeCh:
		p.state.Store(int32(StateDismissed))
		p.logger.Info("Onboarding flow completed.", zap.Int("fields", len(res.data)))
		return res.data, nil
	case <-ctx.Done():
		p.state.Store(int32(StateDismissed))
		return nil, ctx.Err()
	case <-tabCtx.Done():
		p.state.Store(int32(StateDismissed))
		return nil, fmt.Errorf("browser window closed before completion: %w", tabCtx.Err())
	}
}

// listen wires the two completion triggers: the bridge binding call and the
// sentinel navigation fallback.
func (p *Presenter) listen(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *cdpruntime.EventBindingCalled:
			if ev.Name != BridgeBinding {
				return
			}
			p.complete(bridge.Decode(ev.Payload))
		case *page.EventFrameNavigated:
			if ev.Frame != nil && ContainsSentinel(ev.Frame.URL) {
				p.logger.Debug("Sentinel navigation detected.", zap.String("url", ev.Frame.URL))
				p.complete(nil)
			}
		case *page.EventNavigatedWithinDocument:
			if ContainsSentinel(ev.URL) {
				p.logger.Debug("Sentinel fragment navigation detected.", zap.String("url", ev.URL))
				p.complete(nil)
			}
		}
	})
}

// complete delivers the completion result at most once per presentation.
func (p *Presenter) complete(data map[string]string) {
	p.completeOnce.Do(func() {
		p.completeCh <- result{data: data}
	})
}

func (p *Presenter) loadTimeout() time.Duration {
	if p.cfg.Network.LoadTimeout > 0 {
		return p.cfg.Network.LoadTimeout
	}
	return 30 * time.Second
}

// allocatorOptions assembles the browser launch flags. Unlike a scraping
// setup this window is user-facing: headful by default, cache-preferring
// (the hosted page is mostly static), no automation banner.
func (p *Presenter) allocatorOptions() []chromedp.ExecAllocatorOption {
	var opts []chromedp.ExecAllocatorOption
	for _, opt := range chromedp.DefaultExecAllocatorOptions[:] {
		if flag, ok := opt.(chromedp.Flag); ok {
			switch flag.Name {
			case "enable-automation", "headless":
				continue
			}
		}
		opts = append(opts, opt)
	}

	b := p.cfg.Browser
	opts = append(opts,
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("window-size", fmt.Sprintf("%d,%d", b.WindowWidth, b.WindowHeight)),
	)
	if b.Kiosk {
		opts = append(opts, chromedp.Flag("kiosk", true))
	}

	// Custom arguments from config, "--name=value" or bare "--name".
	for _, arg := range b.Args {
		parts := strings.SplitN(arg, "=", 2)
		flagName := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(flagName, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(flagName, true))
		}
	}

	// Flags required for running inside containers (e.g. Docker on Linux).
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}

	return opts
}
