package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config search path at empty directories so tests
// never pick up a real .sbomdiff.yaml.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := isolate(t)

	data := []byte("format: json\nignore_proprietary: true\nfull: true\nlog_format: json\n")
	if err := os.WriteFile(filepath.Join(dir, ".sbomdiff.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if !cfg.IgnoreProprietary {
		t.Error("IgnoreProprietary = false, want true")
	}
	if !cfg.Full {
		t.Error("Full = false, want true")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)

	if err := os.WriteFile(filepath.Join(dir, ".sbomdiff.yaml"), []byte("full: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Full {
		t.Error("Full = false, want true")
	}
	if cfg.Format != "both" {
		t.Errorf("Format = %q, want both", cfg.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	if err := os.WriteFile(filepath.Join(dir, ".sbomdiff.yaml"), []byte("format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SBOMDIFF_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)

	if err := os.WriteFile(filepath.Join(dir, ".sbomdiff.yaml"), []byte("format: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{"defaults", *DefaultConfig(), ""},
		{"text format", Config{Format: "text", LogFormat: "console"}, ""},
		{"bad format", Config{Format: "xml", LogFormat: "console"}, "format"},
		{"bad log format", Config{Format: "both", LogFormat: "pretty"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}
