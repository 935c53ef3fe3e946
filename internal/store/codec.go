// File: internal/store/codec.go
package store

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeMapping serializes a string-to-string mapping for storage. The
// encoded form round-trips exactly through DecodeMapping.
func EncodeMapping(m map[string]string) ([]byte, error) {
	encoded, err := jsonAPI.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping: %w", err)
	}
	return encoded, nil
}

// DecodeMapping deserializes a stored mapping blob.
func DecodeMapping(raw []byte) (map[string]string, error) {
	var m map[string]string
	if err := jsonAPI.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal mapping: %w", err)
	}
	if m == nil {
		// A stored "null" is malformed for our purposes; a present record
		// always decodes to a concrete mapping.
		return nil, fmt.Errorf("stored mapping decoded to null")
	}
	return m, nil
}
