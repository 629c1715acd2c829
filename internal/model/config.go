package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// DashboardConfig holds the default date filter applied on startup.
// Zero values mean "all".
type DashboardConfig struct {
	FilterYear  int `mapstructure:"filter_year" yaml:"filter_year"`
	FilterMonth int `mapstructure:"filter_month" yaml:"filter_month"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath    string          `mapstructure:"db_path" yaml:"db_path"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/progetta/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "progetta", "config.yaml")
}

// defaultDBPath returns the default database location next to the config.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "progetta.db")
	}
	return filepath.Join(home, ".config", "progetta", "progetta.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath: defaultDBPath(),
		Display: DisplayConfig{
			Theme:    "default",
			Currency: "EUR",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.currency", "EUR")
	v.SetDefault("dashboard.filter_year", 0)
	v.SetDefault("dashboard.filter_month", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("display", cfg.Display)
	v.Set("dashboard", cfg.Dashboard)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
