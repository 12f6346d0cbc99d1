// Package config loads and validates the backtest configuration file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/trademaster/trademaster/internal/core"
)

const dateLayout = "2006-01-02"

// Config is the full configuration document. The backtest fields sit at
// the top level; infrastructure concerns live in their own sections.
type Config struct {
	StartDate    time.Time
	EndDate      time.Time
	InitialCash  float64
	StrategyName string
	Baseline     []string // one or many benchmark codes
	Universe     []string // optional tradable codes

	Data    DataConfig
	Report  ReportConfig
	Metrics MetricsConfig
	Archive ArchiveConfig
}

// DataConfig selects the market data source and its cache.
type DataConfig struct {
	Source    string `mapstructure:"source"`
	CachePath string `mapstructure:"cache_path"` // empty disables the cache
}

// ReportConfig controls chart output.
type ReportConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	OutputDir string `mapstructure:"output_dir"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// ArchiveConfig controls result archival.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // for localfs
	S3      S3Config `mapstructure:"s3"`   // for s3
}

// S3Config holds S3 connection settings.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Load reads the configuration from file. Every required field that is
// absent fails fast with an error naming the field.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{
		Data: DataConfig{
			Source: "eastmoney",
		},
		Report: ReportConfig{
			Enabled:   true,
			OutputDir: "results",
		},
	}

	for _, field := range []string{"start_date", "end_date", "initial_cash", "strategy_name", "baseline"} {
		if !v.IsSet(field) {
			return nil, core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("missing required config field: %s", field))
		}
	}

	var err error
	if cfg.StartDate, err = time.Parse(dateLayout, v.GetString("start_date")); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("start_date must be YYYY-MM-DD: %w", err))
	}
	if cfg.EndDate, err = time.Parse(dateLayout, v.GetString("end_date")); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("end_date must be YYYY-MM-DD: %w", err))
	}

	cfg.InitialCash = v.GetFloat64("initial_cash")
	cfg.StrategyName = v.GetString("strategy_name")
	cfg.Baseline = normalizeBaseline(v.Get("baseline"))
	cfg.Universe = v.GetStringSlice("universe")

	if err := v.UnmarshalKey("data", &cfg.Data); err != nil {
		return nil, fmt.Errorf("unmarshaling data section: %w", err)
	}
	if err := v.UnmarshalKey("report", &cfg.Report); err != nil {
		return nil, fmt.Errorf("unmarshaling report section: %w", err)
	}
	if err := v.UnmarshalKey("metrics", &cfg.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshaling metrics section: %w", err)
	}
	if err := v.UnmarshalKey("archive", &cfg.Archive); err != nil {
		return nil, fmt.Errorf("unmarshaling archive section: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeBaseline accepts a single identifier or a list and always
// yields a list.
func normalizeBaseline(raw any) []string {
	switch val := raw.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.EndDate.Before(c.StartDate) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("end_date %s precedes start_date %s",
				c.EndDate.Format(dateLayout), c.StartDate.Format(dateLayout)))
	}
	if c.InitialCash <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_cash must be positive, got %f", c.InitialCash))
	}
	if c.StrategyName == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("missing required config field: strategy_name"))
	}
	if len(c.Baseline) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("missing required config field: baseline"))
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when archive type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type: %s", c.Archive.Type))
		}
	}

	return nil
}
