package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	SnapshotDriver      string   `mapstructure:"SNAPSHOT_DRIVER"`
	SnapshotPath        string   `mapstructure:"SNAPSHOT_PATH"`
	SnapshotDatabaseURL string   `mapstructure:"SNAPSHOT_DATABASE_URL"`
	CheckupWindowMonths int      `mapstructure:"CHECKUP_WINDOW_MONTHS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SNAPSHOT_DRIVER", "fs")
	v.SetDefault("SNAPSHOT_PATH", "./data")
	v.SetDefault("CHECKUP_WINDOW_MONTHS", 6)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SNAPSHOT_DRIVER")
	v.BindEnv("SNAPSHOT_PATH")
	v.BindEnv("SNAPSHOT_DATABASE_URL")
	v.BindEnv("CHECKUP_WINDOW_MONTHS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.SnapshotDriver == "postgres" && cfg.SnapshotDatabaseURL == "" {
		return nil, fmt.Errorf("SNAPSHOT_DATABASE_URL is required for the postgres snapshot driver")
	}
	if cfg.CheckupWindowMonths < 1 {
		return nil, fmt.Errorf("CHECKUP_WINDOW_MONTHS must be at least 1")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CheckupWindow converts the configured month count to a duration, a month
// counted as 30 days.
func (c *Config) CheckupWindow() time.Duration {
	return time.Duration(c.CheckupWindowMonths) * 30 * 24 * time.Hour
}
