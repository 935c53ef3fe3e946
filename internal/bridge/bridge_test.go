// File: internal/bridge/bridge_test.go
package bridge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDecodeCoercesValueTypes(t *testing.T) {
	got := Decode(`{"name": "Alice", "age": 30}`)
	want := map[string]string{"name": "Alice", "age": "30"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"Empty", ""},
		{"NotJSON", "this is not json"},
		{"JSONArray", `["a", "b"]`},
		{"JSONString", `"just a string"`},
		{"JSONNumber", `42`},
		{"Truncated", `{"name": "Ali`},
		{"Null", `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.payload)
			assert.NotNil(t, got, "malformed payload must yield a mapping, not nil")
			assert.Empty(t, got)
		})
	}
}

func TestNormalizeVariants(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"StringPassthrough", "hello", "hello"},
		{"BoolTrue", true, "true"},
		{"BoolFalse", false, "false"},
		{"IntegralFloat", float64(30), "30"},
		{"NegativeIntegralFloat", float64(-7), "-7"},
		{"FractionalFloat", 1.5, "1.5"},
		{"Zero", float64(0), "0"},
		{"Nil", nil, ""},
		{"Int", 12, "12"},
		{"Int64", int64(-99), "-99"},
		{"NestedObject", map[string]any{"a": float64(1)}, `{"a":1}`},
		{"NestedArray", []any{"x", float64(2)}, `["x",2]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(map[string]any{"k": tc.in})
			assert.Equal(t, tc.want, got["k"])
		})
	}
}

func TestNormalizeEmptyObjectIsEmptyMapping(t *testing.T) {
	got := Normalize(map[string]any{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeFullFormPayload(t *testing.T) {
	payload := `{
		"name": "Alice",
		"age": 30,
		"newsletter": true,
		"company": null,
		"preferences": {"theme": "dark"}
	}`

	got := Decode(payload)
	want := map[string]string{
		"name":        "Alice",
		"age":         "30",
		"newsletter":  "true",
		"company":     "",
		"preferences": `{"theme":"dark"}`,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded mapping mismatch (-want +got):\n%s", diff)
	}
}
