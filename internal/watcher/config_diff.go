package watcher

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tokenwatch/tokenwatch/internal/config"
)

// buildConfigChangeDetails computes a redacted, human-readable list of
// config changes. DSNs are masked so credentials never reach the logs.
func buildConfigChangeDetails(oldCfg, newCfg *config.Config) []string {
	changes := make([]string, 0, 8)
	if newCfg == nil {
		return changes
	}
	if oldCfg == nil {
		return []string{"config loaded"}
	}

	if oldCfg.Port != newCfg.Port {
		changes = append(changes, fmt.Sprintf("port: %d -> %d", oldCfg.Port, newCfg.Port))
	}
	if oldCfg.Debug != newCfg.Debug {
		changes = append(changes, fmt.Sprintf("debug: %t -> %t", oldCfg.Debug, newCfg.Debug))
	}
	if oldCfg.LoggingToFile != newCfg.LoggingToFile {
		changes = append(changes, fmt.Sprintf("logging-to-file: %t -> %t", oldCfg.LoggingToFile, newCfg.LoggingToFile))
	}
	if !reflect.DeepEqual(oldCfg.AllowOrigins, newCfg.AllowOrigins) {
		changes = append(changes, fmt.Sprintf("allow-origins: [%s] -> [%s]",
			strings.Join(oldCfg.AllowOrigins, ","), strings.Join(newCfg.AllowOrigins, ",")))
	}
	if oldCfg.MaxRequestBodyBytes != newCfg.MaxRequestBodyBytes {
		changes = append(changes, fmt.Sprintf("max-request-body-bytes: %d -> %d",
			oldCfg.MaxRequestBodyBytes, newCfg.MaxRequestBodyBytes))
	}

	if oldCfg.Usage.DSN != newCfg.Usage.DSN {
		changes = append(changes, fmt.Sprintf("usage.dsn: %s -> %s (restart required)",
			config.RedactDSN(oldCfg.Usage.DSN), config.RedactDSN(newCfg.Usage.DSN)))
	}
	if oldCfg.Usage.RetentionDays != newCfg.Usage.RetentionDays {
		changes = append(changes, fmt.Sprintf("usage.retention-days: %d -> %d",
			oldCfg.Usage.RetentionDays, newCfg.Usage.RetentionDays))
	}
	if oldCfg.Usage.Timezone != newCfg.Usage.Timezone {
		changes = append(changes, fmt.Sprintf("usage.timezone: %s -> %s",
			oldCfg.Usage.Timezone, newCfg.Usage.Timezone))
	}
	if oldCfg.Usage.DefaultPrice != newCfg.Usage.DefaultPrice {
		changes = append(changes, fmt.Sprintf("usage.default-price: %g -> %g",
			oldCfg.Usage.DefaultPrice, newCfg.Usage.DefaultPrice))
	}
	if computePricingHash(oldCfg.Usage.Pricing) != computePricingHash(newCfg.Usage.Pricing) {
		changes = append(changes, fmt.Sprintf("usage.pricing: %d model(s) -> %d model(s)",
			len(oldCfg.Usage.Pricing), len(newCfg.Usage.Pricing)))
	}

	return changes
}
