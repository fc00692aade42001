// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Calendar CalendarConfig `toml:"calendar"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte"
	NarrowWidth int    `toml:"narrow_width"` // terminal width below which the compact layout kicks in
}

// ScheduleConfig holds drop placement settings.
type ScheduleConfig struct {
	DayHourMin int `toml:"day_hour_min"` // e.g., 9: earliest default hour for day-cell drops
	DayHourMax int `toml:"day_hour_max"` // e.g., 20: latest hour still used as-is for day-cell drops
}

// CalendarConfig holds month view settings.
type CalendarConfig struct {
	MonthCap       int `toml:"month_cap"`        // visible activities per month cell
	MonthCapNarrow int `toml:"month_cap_narrow"` // visible activities per cell on narrow terminals
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "openai", "ollama", etc.
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayHourMin: 9,
			DayHourMax: 20,
		},
		Calendar: CalendarConfig{
			MonthCap:       3,
			MonthCapNarrow: 2,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:       "frappe",
			NarrowWidth: 100,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wayfarer.db"
	}
	return filepath.Join(home, ".local", "share", "wayfarer", "wayfarer.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "wayfarer", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WAYFARER_DAY_HOUR_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.DayHourMin = n
		}
	}
	if v := os.Getenv("WAYFARER_DAY_HOUR_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.DayHourMax = n
		}
	}
	if v := os.Getenv("WAYFARER_MONTH_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Calendar.MonthCap = n
		}
	}
	if v := os.Getenv("WAYFARER_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("WAYFARER_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("WAYFARER_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("WAYFARER_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WAYFARER_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Schedule.DayHourMin < 0 || c.Schedule.DayHourMin > 23 {
		return fmt.Errorf("invalid day_hour_min: %d (must be 0-23)", c.Schedule.DayHourMin)
	}
	if c.Schedule.DayHourMax < 0 || c.Schedule.DayHourMax > 23 {
		return fmt.Errorf("invalid day_hour_max: %d (must be 0-23)", c.Schedule.DayHourMax)
	}
	if c.Schedule.DayHourMax < c.Schedule.DayHourMin {
		return errors.New("day_hour_max must not be before day_hour_min")
	}
	if c.Calendar.MonthCap < 1 {
		return fmt.Errorf("invalid month_cap: %d (must be at least 1)", c.Calendar.MonthCap)
	}
	if c.Calendar.MonthCapNarrow < 1 {
		return fmt.Errorf("invalid month_cap_narrow: %d (must be at least 1)", c.Calendar.MonthCapNarrow)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}

// Save writes the configuration to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
