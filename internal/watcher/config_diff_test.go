package watcher

import (
	"strings"
	"testing"

	"github.com/tokenwatch/tokenwatch/internal/config"
)

func TestBuildConfigChangeDetailsNoChange(t *testing.T) {
	cfg := config.NewDefaultConfig()
	if changes := buildConfigChangeDetails(cfg, cfg); len(changes) != 0 {
		t.Errorf("changes = %v, want none", changes)
	}
}

func TestBuildConfigChangeDetailsInitialLoad(t *testing.T) {
	changes := buildConfigChangeDetails(nil, config.NewDefaultConfig())
	if len(changes) != 1 || changes[0] != "config loaded" {
		t.Errorf("changes = %v, want [config loaded]", changes)
	}
}

func TestBuildConfigChangeDetails(t *testing.T) {
	oldCfg := config.NewDefaultConfig()
	newCfg := config.NewDefaultConfig()
	newCfg.Port = 9000
	newCfg.Debug = true
	newCfg.Usage.RetentionDays = 7
	newCfg.Usage.Pricing = map[string]float64{"gpt-4o": 0.01}

	changes := buildConfigChangeDetails(oldCfg, newCfg)
	joined := strings.Join(changes, "\n")

	for _, want := range []string{"port:", "debug:", "usage.retention-days:", "usage.pricing:"} {
		if !strings.Contains(joined, want) {
			t.Errorf("changes missing %q: %v", want, changes)
		}
	}
}

func TestComputePricingHash(t *testing.T) {
	if computePricingHash(nil) != "" {
		t.Error("empty pricing should hash to empty string")
	}

	a := map[string]float64{"gpt-4o": 0.0075, "claude-3-opus": 0.045}
	b := map[string]float64{"claude-3-opus": 0.045, "gpt-4o": 0.0075}
	if computePricingHash(a) != computePricingHash(b) {
		t.Error("hash depends on map iteration order")
	}

	c := map[string]float64{"gpt-4o": 0.01, "claude-3-opus": 0.045}
	if computePricingHash(a) == computePricingHash(c) {
		t.Error("rate change not reflected in hash")
	}
}

func TestBuildConfigChangeDetailsRedactsDSN(t *testing.T) {
	oldCfg := config.NewDefaultConfig()
	newCfg := config.NewDefaultConfig()
	newCfg.Usage.DSN = "postgres://admin:hunter2@db:5432/usage"

	changes := buildConfigChangeDetails(oldCfg, newCfg)
	joined := strings.Join(changes, "\n")

	if strings.Contains(joined, "hunter2") {
		t.Errorf("DSN credentials leaked into change log: %v", changes)
	}
	if !strings.Contains(joined, "restart required") {
		t.Errorf("DSN change should note restart: %v", changes)
	}
}
