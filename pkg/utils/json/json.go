// Package json centralizes JSON encoding on sonic so the codec can be
// swapped in one place.
package json

import (
	"github.com/bytedance/sonic"
)

// Marshal encodes v as JSON.
func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent encodes v as indented JSON for human-facing output.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v interface{}) error {
	return sonic.Unmarshal(data, v)
}

// MarshalString encodes v and returns the result as a string, swallowing
// the error. Only for log/debug formatting.
func MarshalString(v interface{}) string {
	s, _ := sonic.MarshalString(v)
	return s
}
