package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete nbdiff worker configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Limits  LimitsConfig  `json:"limits" mapstructure:"limits"`
	Store   StoreConfig   `json:"store" mapstructure:"store"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls the recommendation pattern scan
type ScanConfig struct {
	// MaxLines caps how many leading lines of each code cell are scanned
	MaxLines int `json:"maxLines" mapstructure:"maxLines"`
	// RulesPath points at a RECOMMEND.toml ruleset; empty uses built-in rules
	RulesPath string `json:"rulesPath" mapstructure:"rulesPath"`
}

// LimitsConfig contains worker resource limits
type LimitsConfig struct {
	// MaxCells caps the number of cells accepted per document
	MaxCells int `json:"maxCells" mapstructure:"maxCells"`
}

// StoreConfig controls the optional snapshot/audit store
type StoreConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			MaxLines:  20,
			RulesPath: "",
		},
		Limits: LimitsConfig{
			MaxCells: 10000,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    ".nbdiff/nbdiff.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .nbdiff/config.json under root
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("scan.maxLines", 20)
	v.SetDefault("limits.maxCells", 10000)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", ".nbdiff/nbdiff.db")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".nbdiff"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .nbdiff/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".nbdiff")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Scan.MaxLines <= 0 {
		return &ConfigError{Field: "scan.maxLines", Message: "must be positive"}
	}
	if c.Limits.MaxCells <= 0 {
		return &ConfigError{Field: "limits.maxCells", Message: "must be positive"}
	}
	switch c.Logging.Format {
	case "json", "human":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be json or human"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
