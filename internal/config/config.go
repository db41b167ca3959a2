// Package config loads advisor settings from TOML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/draft-advisor/internal/evaluation"
	"github.com/ramonehamilton/draft-advisor/internal/recommendations"
)

// Source names where the battle corpus is loaded from.
const (
	SourceDir    = "dir"
	SourceSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	// Battle corpus location
	Data DataConfig `toml:"data"`

	// REST API settings
	Server ServerConfig `toml:"server"`

	// Hero-set recommendation tunables
	Hero recommendations.HeroTunables `toml:"hero"`

	// Skill-set recommendation tunables
	Skill recommendations.SkillTunables `toml:"skill"`

	// Synergy evaluation sweep
	Evaluation EvaluationConfig `toml:"evaluation"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DataConfig contains corpus settings.
type DataConfig struct {
	Source       string `toml:"source"`        // "dir" or "sqlite"
	BattlesDir   string `toml:"battles_dir"`   // Directory of battle JSON files
	CatalogPath  string `toml:"catalog_path"`  // Skill catalog JSON
	DatabasePath string `toml:"database_path"` // SQLite corpus store
	Watch        bool   `toml:"watch"`         // Reload when battle files change
	Debounce     string `toml:"debounce"`      // Quiet period before a reload (e.g., "2s")
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      float64  `toml:"rate_limit"` // Requests per second per client (0 = unlimited)
	RateBurst      int      `toml:"rate_burst"`
}

// EvaluationConfig contains sweep settings.
type EvaluationConfig struct {
	TrainRatio float64         `toml:"train_ratio"`
	Grid       evaluation.Grid `toml:"grid"`
	ChartPath  string          `toml:"chart_path"` // Default output for --chart
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:       SourceDir,
			BattlesDir:   "battles",
			CatalogPath:  "skill_hero_map.json",
			DatabasePath: "draft-advisor.db",
			Watch:        true,
			Debounce:     "2s",
		},
		Server: ServerConfig{
			Port:           5000,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			RateLimit:      20,
			RateBurst:      40,
		},
		Hero:  recommendations.DefaultHeroTunables(),
		Skill: recommendations.DefaultSkillTunables(),
		Evaluation: EvaluationConfig{
			TrainRatio: evaluation.DefaultTrainRatio,
			Grid:       evaluation.DefaultGrid(),
			ChartPath:  "evaluation.html",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// DefaultPath returns ~/.draft-advisor/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".draft-advisor", "config.toml"), nil
}

// Load reads the configuration at path, or DefaultPath when path is empty.
// A missing file yields the defaults; keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads a .env file from the working directory when present and
// overrides settings from the environment.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DRAFT_ADVISOR_BATTLES_DIR"); v != "" {
		c.Data.BattlesDir = v
	}
	if v := os.Getenv("DRAFT_ADVISOR_CATALOG"); v != "" {
		c.Data.CatalogPath = v
	}
	if v := os.Getenv("DRAFT_ADVISOR_DB"); v != "" {
		c.Data.DatabasePath = v
	}
	if v := os.Getenv("DRAFT_ADVISOR_SOURCE"); v != "" {
		c.Data.Source = v
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceDir:
		if c.Data.BattlesDir == "" {
			return fmt.Errorf("battles_dir is required for source %q", SourceDir)
		}
	case SourceSQLite:
		if c.Data.DatabasePath == "" {
			return fmt.Errorf("database_path is required for source %q", SourceSQLite)
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}

	if _, err := time.ParseDuration(c.Data.Debounce); err != nil {
		return fmt.Errorf("invalid debounce %q: %w", c.Data.Debounce, err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %g", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limiting, got %d", c.Server.RateBurst)
	}

	if err := c.Hero.Validate(); err != nil {
		return err
	}
	if err := c.Skill.Validate(); err != nil {
		return err
	}

	if c.Evaluation.TrainRatio <= 0 || c.Evaluation.TrainRatio >= 1 {
		return fmt.Errorf("train ratio must be between 0 and 1, got %g", c.Evaluation.TrainRatio)
	}
	return c.Evaluation.Grid.Validate()
}

// GetDebounce returns the watcher debounce as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Data.Debounce)
}
