// Package json centralizes JSON encoding on the sonic implementation.
package json

import "github.com/bytedance/sonic"

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// MarshalString encodes v as a JSON string.
func MarshalString(v any) (string, error) {
	return sonic.MarshalString(v)
}

// UnmarshalString decodes a JSON string into v.
func UnmarshalString(data string, v any) error {
	return sonic.UnmarshalString(data, v)
}
