// Package config handles reading and writing ~/.fincoach/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Analysis sources. SourcePerUser fetches stored per-user analysis and plan
// by id; SourceAI asks the backend to generate a narrative plan instead.
const (
	SourcePerUser = "per-user"
	SourceAI      = "ai"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	API      APIConfig      `yaml:"api"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Flow     FlowConfig     `yaml:"flow"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig points the client at the advisory backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // seconds
}

// AnalysisConfig selects which backend contract serves analysis and plan.
type AnalysisConfig struct {
	Source string `yaml:"source"` // "per-user" | "ai"
}

// FlowConfig controls stage navigation.
type FlowConfig struct {
	RedirectDelayMs int `yaml:"redirect_delay_ms"`
}

// JournalConfig controls the local sqlite activity journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

const configFile = "config.yaml"

// DefaultDir returns ~/.fincoach, or .fincoach in the working directory when
// the home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fincoach"
	}
	return filepath.Join(home, ".fincoach")
}

// ReadConfig reads config.yaml from dir over the defaults, so keys the file
// omits keep their default values.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml in dir, creating dir if needed.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 30,
		},
		Analysis: AnalysisConfig{
			Source: SourcePerUser,
		},
		Flow: FlowConfig{
			RedirectDelayMs: 1500,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads config.yaml from dir, falling back to defaults when the file
// does not exist, then applies environment overrides and validates.
func Load(dir string) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}
	cfg.fillDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces values set explicitly but unusably, such as an empty
// base_url. A zero redirect delay is valid and means redirect immediately.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.Analysis.Source == "" {
		c.Analysis.Source = def.Analysis.Source
	}
	if c.Flow.RedirectDelayMs < 0 {
		c.Flow.RedirectDelayMs = def.Flow.RedirectDelayMs
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("FINCOACH_API_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("FINCOACH_TIMEOUT")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.Timeout = secs
		}
	}
	if v := strings.TrimSpace(os.Getenv("FINCOACH_LOG_LEVEL")); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate reports configuration values the client cannot run with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL)
	}
	switch c.Analysis.Source {
	case SourcePerUser, SourceAI:
	default:
		return fmt.Errorf("analysis.source must be %q or %q, got %q", SourcePerUser, SourceAI, c.Analysis.Source)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

// RedirectDelay returns the post-login redirect delay as a duration.
func (c *Config) RedirectDelay() time.Duration {
	return time.Duration(c.Flow.RedirectDelayMs) * time.Millisecond
}
