package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
indent = "\t"

[naming]
strip_marker = ""

[diagnostics]
fatal = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Indent != "\t" || !cfg.Diagnostics.Fatal || cfg.Naming.StripMarker != "" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	def := Default()
	if cfg.Output.RuntimeHelper != def.Output.RuntimeHelper || cfg.Naming.GetterPrefix != "get" || cfg.Diagnostics.Max != def.Diagnostics.Max {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if !cfg.Output.Declarations {
		t.Fatalf("declarations should stay enabled")
	}
	if cfg.Path != path {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "[output]\nwidth = 3\n",
		"empty indent":   "[output]\nindent = \"\"\n",
		"bad indent":     "[output]\nindent = \"--\"\n",
		"same prefixes":  "[naming]\nsetter_prefix = \"get\"\n",
		"negative max":   "[diagnostics]\nmax = -1\n",
		"empty helper":   "[output]\nruntime_helper = \"\"\n",
		"missing prefix": "[naming]\nadder_prefix = \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[diagnostics]\nmax = 7\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Diagnostics.Max != 7 {
		t.Fatalf("max = %d, want 7", cfg.Diagnostics.Max)
	}
}
