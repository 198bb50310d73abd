// Package config loads ulabox-report settings.
// Values come from ulabox-report.yaml, then a .env file for the DSN, then CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ulabox-report/pkg/models"
)

// DSNEnv is read when no DSN is configured.
const DSNEnv = "ULABOX_DSN"

// Config holds all configuration for ulabox-report.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	Source     SourceConfig      `mapstructure:"source"`
	Thresholds models.Thresholds `mapstructure:"thresholds"`
	Report     ReportConfig      `mapstructure:"report"`
	Generate   GenerateConfig    `mapstructure:"generate"`
}

// SourceConfig selects where orders are loaded from: a CSV file or a database table.
type SourceConfig struct {
	File      string `mapstructure:"file"`
	Delimiter string `mapstructure:"delimiter"`
	DSN       string `mapstructure:"dsn"`
	Table     string `mapstructure:"table"`
}

// ReportConfig controls rendering.
type ReportConfig struct {
	OutDir      string    `mapstructure:"out_dir"`
	XLSX        bool      `mapstructure:"xlsx"`
	Charts      bool      `mapstructure:"charts"`
	Progress    bool      `mapstructure:"progress"`
	Percentiles []float64 `mapstructure:"percentiles"`
}

// GenerateConfig controls the synthetic dataset generator.
type GenerateConfig struct {
	Orders    int     `mapstructure:"orders"`
	Customers int     `mapstructure:"customers"`
	Seed      uint64  `mapstructure:"seed"`
	FreeShare float64 `mapstructure:"free_share"`
	Out       string  `mapstructure:"out"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Source: SourceConfig{
			File:      "ulabox_orders_with_categories_partials_2017.csv",
			Delimiter: ",",
			Table:     "ulabox_orders",
		},
		Thresholds: models.DefaultThresholds(),
		Report: ReportConfig{
			OutDir:      "report",
			Charts:      true,
			Progress:    true,
			Percentiles: []float64{25, 50, 90},
		},
		Generate: GenerateConfig{
			Orders:    30000,
			Customers: 10000,
			Seed:      2017,
			FreeShare: 0.003,
			Out:       "orders.csv",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./ulabox-report.yaml
// 3. ~/.config/ulabox-report/ulabox-report.yaml
func Load(configFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("ulabox-report")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ulabox-report"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Source.DSN == "" {
		cfg.Source.DSN = os.Getenv(DSNEnv)
	}
	return cfg, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if len([]rune(c.Source.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character")
	}
	return nil
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Source.File == "" && c.Source.DSN == "" {
		return fmt.Errorf("either a CSV file or a DSN is required")
	}
	if c.Report.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	for _, p := range c.Report.Percentiles {
		if p < 0 || p > 100 {
			return fmt.Errorf("percentile %v outside [0, 100]", p)
		}
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Orders < 1 {
		return fmt.Errorf("orders must be at least 1")
	}
	if c.Generate.Customers < 1 || c.Generate.Customers > c.Generate.Orders {
		return fmt.Errorf("customers must be within [1, orders]")
	}
	if c.Generate.FreeShare < 0 || c.Generate.FreeShare > 1 {
		return fmt.Errorf("free_share must be within [0, 1]")
	}
	if c.Generate.Out == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// DelimiterRune returns the configured field separator.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Source.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}
