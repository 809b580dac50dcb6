package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/eivindmo/statbank/internal/ssb"
)

// Config captures the settings statbank reads at startup.
type Config struct {
	Language    ssb.Language
	BaseURL     string
	Timeout     time.Duration
	ValueColumn string
}

const (
	defaultConfigPath  = "~/.config/statbank/config.toml"
	defaultLanguage    = ssb.LanguageEN
	defaultTimeoutSecs = 15
	defaultValueColumn = "value"
)

// Load locates and parses the statbank config, falling back to
// defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Language:    defaultLanguage,
		BaseURL:     ssb.DefaultBaseURL,
		Timeout:     defaultTimeoutSecs * time.Second,
		ValueColumn: defaultValueColumn,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Language       string `toml:"language"`
		BaseURL        string `toml:"base_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		ValueColumn    string `toml:"value_column"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if lang := ssb.Language(strings.TrimSpace(raw.Language)); lang != "" {
		if !lang.Valid() {
			return Config{}, fmt.Errorf("config language %q is not supported", raw.Language)
		}
		cfg.Language = lang
	}
	if base := strings.TrimSpace(raw.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if col := strings.TrimSpace(raw.ValueColumn); col != "" {
		cfg.ValueColumn = col
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
