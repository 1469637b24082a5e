// Package util provides small filesystem path helpers shared across the
// application.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath normalizes a configured path for consistent reuse:
//   - "$XDG_CONFIG_HOME/..." expands the XDG base directory (falling back
//     to ~/.config when unset)
//   - "~/..." expands to the user's home directory
//   - the result is cleaned
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "$XDG_CONFIG_HOME") {
		xdg := os.Getenv("XDG_CONFIG_HOME")
		if xdg == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve path: %w", err)
			}
			xdg = filepath.Join(home, ".config")
		}
		remainder := strings.TrimLeft(strings.TrimPrefix(path, "$XDG_CONFIG_HOME"), "/\\")
		if remainder == "" {
			return filepath.Clean(xdg), nil
		}
		return filepath.Clean(filepath.Join(xdg, filepath.FromSlash(remainder))), nil
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve path: %w", err)
		}
		remainder := strings.TrimLeft(strings.TrimPrefix(path, "~"), "/\\")
		if remainder == "" {
			return filepath.Clean(home), nil
		}
		return filepath.Clean(filepath.Join(home, filepath.FromSlash(remainder))), nil
	}

	return filepath.Clean(path), nil
}
