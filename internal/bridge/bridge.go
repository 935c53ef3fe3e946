// File: internal/bridge/bridge.go

// Package bridge normalizes the single completion payload the hosted page
// sends back through the browser binding. The conversion to a flat
// string-to-string mapping is one-way and lossy: type information is
// discarded deliberately.
package bridge

import (
	"encoding/json"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses one JSON object payload into a string-to-string mapping.
// Absent, empty, or malformed payloads yield an empty mapping, never an
// error; a garbled page must still be able to complete the flow.
func Decode(payload string) map[string]string {
	if payload == "" {
		return map[string]string{}
	}

	var raw map[string]any
	if err := jsonAPI.UnmarshalFromString(payload, &raw); err != nil {
		return map[string]string{}
	}
	return Normalize(raw)
}

// Normalize converts an arbitrary JSON object into a string-to-string
// mapping. Strings pass through unchanged; every other variant is rendered
// through its canonical string form.
func Normalize(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = coerce(v)
	}
	return out
}

// coerce renders a single decoded JSON value as a display string. One
// defined rule per variant.
func coerce(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		// encoding/json and jsoniter both decode JSON numbers as float64.
		// 'f' with -1 precision renders integral values without a decimal
		// point ("30", not "30.000000") and keeps the shortest exact form
		// for fractions.
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		// Nested objects and arrays are re-encoded as compact JSON.
		encoded, err := jsonAPI.MarshalToString(val)
		if err != nil {
			return ""
		}
		return encoded
	}
}
