// Package config holds the process-wide configuration for aicommit.
// Values come from (highest precedence first) command-line flags, the
// environment, the TOML config file, and built-in defaults. The
// environment is read exactly once at load time; nothing reads env vars
// at call time.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend variant names accepted in config and flags.
const (
	BackendJan    = "jan"
	BackendOllama = "ollama"
)

// Config is the main configuration. Read-only after Load.
type Config struct {
	Backend        string  `toml:"backend"`
	Candidates     int     `toml:"candidates"`
	MaxChars       int     `toml:"max_chars"`
	DiffLimit      int     `toml:"diff_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Ollama         Service `toml:"ollama"`
	Jan            Service `toml:"jan"`
}

// Service is the endpoint and model for one backend variant.
type Service struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aicommit", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aicommit", "config.toml")
}

// Default returns the default configuration with environment overrides
// applied.
func Default() *Config {
	cfg := &Config{
		Backend:        BackendJan,
		Candidates:     3,
		MaxChars:       75,
		DiffLimit:      5000,
		TimeoutSeconds: 30,
		Ollama: Service{
			Host:  "http://localhost:11434",
			Model: "llama3.1",
		},
		Jan: Service{
			Host:  "http://localhost:1337",
			Model: "llama 3.1",
		},
	}
	cfg.applyEnv()
	return cfg
}

// Load reads the config file at path (or the default path if empty) and
// applies environment overrides. A missing file is an error; callers
// fall back to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies model and host overrides. OLLAMA_MODEL and JAN_MODEL
// are the long-standing override names; hosts use the AICOMMIT_ prefix.
func (c *Config) applyEnv() {
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Ollama.Model = v
	}
	if v := os.Getenv("JAN_MODEL"); v != "" {
		c.Jan.Model = v
	}
	if v := os.Getenv("AICOMMIT_OLLAMA_HOST"); v != "" {
		c.Ollama.Host = v
	}
	if v := os.Getenv("AICOMMIT_JAN_HOST"); v != "" {
		c.Jan.Host = v
	}
}

// Timeout returns the per-request inference timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Active returns the Service for the configured backend variant.
func (c *Config) Active() Service {
	if c.Backend == BackendOllama {
		return c.Ollama
	}
	return c.Jan
}

// CreateDefault writes the default configuration to the default path,
// creating parent directories as needed.
func CreateDefault() (string, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}
	return path, nil
}

// Print writes the configuration as TOML.
func Print(c *Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
