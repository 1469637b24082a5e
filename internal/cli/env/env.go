// Package env provides environment variable lookup helpers with fallback
// keys and basic type coercion for deployment overrides.
package env

import (
	"os"
	"strconv"
	"strings"
)

// LookupEnv returns the first non-empty trimmed value among the given keys.
func LookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

// LookupEnvInt looks up the keys and parses the first value as an integer.
func LookupEnvInt(keys ...string) (int, bool) {
	if value, ok := LookupEnv(keys...); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n, true
		}
	}
	return 0, false
}

// LookupEnvBool looks up the keys and interprets the first value as a
// boolean. "true", "1" and "yes" (case-insensitive) count as true.
func LookupEnvBool(keys ...string) (bool, bool) {
	if value, ok := LookupEnv(keys...); ok {
		v := strings.ToLower(value)
		return v == "true" || v == "1" || v == "yes", true
	}
	return false, false
}

// LookupEnvFloat looks up the keys and parses the first value as a float.
func LookupEnvFloat(keys ...string) (float64, bool) {
	if value, ok := LookupEnv(keys...); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
