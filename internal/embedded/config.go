// Package embedded provides access to the generated default configuration.
package embedded

import "github.com/tokenwatch/tokenwatch/internal/config"

// DefaultConfigTemplate returns the default config YAML generated from
// config.NewDefaultConfig().
func DefaultConfigTemplate() []byte {
	return config.GenerateDefaultConfigYAML()
}
