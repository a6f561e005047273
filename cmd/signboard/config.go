package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/signboard/internal/httpserver"
	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/tui"
)

const (
	defaultRequestRate = 2.0
	clock24h           = "24h"
	clock12h           = "12h"
)

// boardConfig holds the client configuration. Tenant settings come from the
// backend, not from here.
type boardConfig struct {
	BoardURL      string        `mapstructure:"board-url"`
	LogLevel      string        `mapstructure:"log-level"`
	LogFile       string        `mapstructure:"log-file"`
	StatusEnabled bool          `mapstructure:"status-enabled"`
	StatusAddr    string        `mapstructure:"status-addr"`
	ProbeEnabled  bool          `mapstructure:"probe-enabled"`
	ProbeURL      string        `mapstructure:"probe-url"`
	ConfigRefresh time.Duration `mapstructure:"config-refresh"`
	ClockFormat   string        `mapstructure:"clock-format"`
	RequestRate   float64       `mapstructure:"request-rate"`
}

func loadBoardConfig(configPath string) (boardConfig, error) {
	var cfg boardConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SIGNBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("board-url", "")
	v.SetDefault("log-level", logging.InfoLevel)
	v.SetDefault("log-file", logging.DefaultPath())
	v.SetDefault("status-enabled", true)
	v.SetDefault("status-addr", httpserver.DefaultAddr)
	v.SetDefault("probe-enabled", true)
	v.SetDefault("probe-url", tui.DefaultProbeURL)
	v.SetDefault("config-refresh", time.Duration(0))
	v.SetDefault("clock-format", clock24h)
	v.SetDefault("request-rate", defaultRequestRate)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "signboard", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.ConfigRefresh < 0 {
		return cfg, fmt.Errorf("config-refresh must not be negative, got %s", cfg.ConfigRefresh)
	}
	return cfg, nil
}

// clockLayout maps clock-format to a time layout. Unknown values fall back
// to 24h.
func clockLayout(format string) string {
	if strings.EqualFold(format, clock12h) {
		return "3:04 PM"
	}
	return "15:04"
}
