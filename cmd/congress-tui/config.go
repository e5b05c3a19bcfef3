package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/miguel-rf/congress-alpha/internal/api"
)

const (
	defaultUpdateInterval = 5 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultPageSize       = 20
	defaultLogLevel       = "info"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	APIURL         string        `mapstructure:"api-url"`
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	PageSize       int           `mapstructure:"page-size"`
	LogFile        string        `mapstructure:"log-file"`
	LogLevel       string        `mapstructure:"log-level"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CONGRESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-url", api.DefaultBaseURL)
	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("request-timeout", defaultRequestTimeout)
	v.SetDefault("page-size", defaultPageSize)
	v.SetDefault("log-file", filepath.Join(home, ".config", "congress-alpha", "tui.log"))
	v.SetDefault("log-level", defaultLogLevel)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "congress-alpha", "config.yml"))
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

	if cfg.PageSize < 1 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.UpdateInterval < time.Second {
		cfg.UpdateInterval = time.Second
	}

	return cfg, nil
}
