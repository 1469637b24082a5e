package util

import (
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv("XDG_CONFIG_HOME", "/home/alice/.config")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain path cleaned", "/var//log/../log/tw", "/var/log/tw"},
		{"relative untouched", "configs/app.yaml", filepath.Clean("configs/app.yaml")},
		{"home expansion", "~/data/usage.sqlite", "/home/alice/data/usage.sqlite"},
		{"bare tilde", "~", "/home/alice"},
		{"xdg expansion", "$XDG_CONFIG_HOME/tokenwatch/config.yaml", "/home/alice/.config/tokenwatch/config.yaml"},
		{"bare xdg", "$XDG_CONFIG_HOME", "/home/alice/.config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.in)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolvePathXDGFallback(t *testing.T) {
	t.Setenv("HOME", "/home/bob")
	t.Setenv("XDG_CONFIG_HOME", "")

	got, err := ResolvePath("$XDG_CONFIG_HOME/tokenwatch")
	if err != nil {
		t.Fatalf("ResolvePath error: %v", err)
	}
	if want := "/home/bob/.config/tokenwatch"; got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}
}
