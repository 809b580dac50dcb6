package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eivindmo/statbank/internal/ssb"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Language != ssb.LanguageEN {
		t.Fatalf("Language = %q, want %q", cfg.Language, ssb.LanguageEN)
	}
	if cfg.BaseURL != ssb.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, ssb.DefaultBaseURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("Timeout = %s, want 15s", cfg.Timeout)
	}
	if cfg.ValueColumn != "value" {
		t.Fatalf("ValueColumn = %q, want value", cfg.ValueColumn)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
language = "  no  "
base_url = "https://example.invalid/api/v0"
timeout_seconds = 30
value_column = "verdi"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Language != ssb.LanguageNO {
		t.Fatalf("Language = %q, want %q", cfg.Language, ssb.LanguageNO)
	}
	if cfg.BaseURL != "https://example.invalid/api/v0" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.ValueColumn != "verdi" {
		t.Fatalf("ValueColumn = %q, want verdi", cfg.ValueColumn)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
language = "   "
base_url = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Language != ssb.LanguageEN {
		t.Fatalf("Language = %q, want default %q", cfg.Language, ssb.LanguageEN)
	}
	if cfg.BaseURL != ssb.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want default", cfg.BaseURL)
	}
}

func TestLoad_UnsupportedLanguageFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`language = "sv"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error for unsupported language")
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`language = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}
