package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		configYAML string
		want       *Config
	}{
		{
			name: "full config",
			configYAML: `
source: assets/material
out: assets
icons:
  - edit
  - start
`,
			want: &Config{
				Source: "assets/material",
				Out:    "assets",
				Icons:  []string{"edit", "start"},
			},
		},
		{
			name: "partial config",
			configYAML: `
out: build/resources
`,
			want: &Config{Out: "build/resources"},
		},
		{
			name:       "no config file",
			configYAML: "",
			want:       &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)

			// Reset cached path
			configHomePath = ""

			if tt.configYAML != "" {
				dir := filepath.Join(tmpDir, "iconconv")
				if err := os.MkdirAll(dir, 0755); err != nil {
					t.Fatalf("Failed to create config directory: %v", err)
				}
				if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(tt.configYAML), 0644); err != nil {
					t.Fatalf("Failed to write config file: %v", err)
				}
			}

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestLoadProfile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configHomePath = ""

	dir := filepath.Join(tmpDir, "iconconv")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("out: default-out\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config-dev.yml"), []byte("out: dev-out\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("dev")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Out != "dev-out" {
		t.Errorf("Out = %q, want %q", cfg.Out, "dev-out")
	}

	// Unknown profile falls back to the default config
	cfg, err = Load("ci")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Out != "default-out" {
		t.Errorf("Out = %q, want %q", cfg.Out, "default-out")
	}
}
