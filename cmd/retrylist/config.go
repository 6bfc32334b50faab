package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/retrylist/internal/logging"
	"github.com/tinytelemetry/retrylist/internal/model"
	"github.com/tinytelemetry/retrylist/internal/refresh"
	"gopkg.in/yaml.v3"
)

const (
	defaultFetchDelay  = model.DefaultFetchDelay
	defaultHistoryBars = model.DefaultHistoryBars
	defaultBindHost    = "127.0.0.1"
	defaultAPIPort     = 3000
	defaultLogLevel    = "info"
)

// appConfig is internal runtime configuration.
type appConfig struct {
	FetchDelay    time.Duration `mapstructure:"fetch-delay" yaml:"-"`
	EmptyAsError  bool          `mapstructure:"empty-as-error" yaml:"empty-as-error"`
	OutcomeSeed   uint64        `mapstructure:"outcome-seed" yaml:"outcome-seed"`
	OutcomeScript []int         `mapstructure:"outcome-script" yaml:"outcome-script"`
	HistoryBars   int           `mapstructure:"history-bars" yaml:"history-bars"`
	APIEnabled    bool          `mapstructure:"api-enabled" yaml:"api-enabled"`
	APIPort       int           `mapstructure:"api-port" yaml:"api-port"`
	APIAddr       string        `mapstructure:"api-addr" yaml:"api-addr"`
	LogFile       string        `mapstructure:"log-file" yaml:"log-file"`
	LogLevel      string        `mapstructure:"log-level" yaml:"log-level"`
	ConfigPath    string        `mapstructure:"-" yaml:"-"` // not from config file
}

func (c appConfig) emptyPolicy() refresh.EmptyPolicy {
	if c.EmptyAsError {
		return refresh.EmptyAsError
	}
	return refresh.EmptyAsList
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("RETRYLIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("fetch-delay", defaultFetchDelay)
	v.SetDefault("empty-as-error", false)
	v.SetDefault("outcome-seed", 0)
	v.SetDefault("outcome-script", []int{})
	v.SetDefault("history-bars", defaultHistoryBars)
	v.SetDefault("api-enabled", false)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("log-file", logging.DefaultFile())
	v.SetDefault("log-level", defaultLogLevel)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "retrylist", "config.yml"))
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
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.FetchDelay < 0 {
		return cfg, fmt.Errorf("invalid fetch-delay: %s", cfg.FetchDelay)
	}
	if cfg.HistoryBars <= 0 {
		return cfg, fmt.Errorf("invalid history-bars: %d", cfg.HistoryBars)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	for _, r := range cfg.OutcomeScript {
		if r < 0 || r >= model.DefaultOutcomeRange {
			return cfg, fmt.Errorf("invalid outcome-script draw %d: want 0..%d", r, model.DefaultOutcomeRange-1)
		}
	}

	if strings.HasPrefix(cfg.LogFile, "~/") {
		cfg.LogFile = filepath.Join(home, cfg.LogFile[2:])
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

// printConfig writes cfg as YAML that loadConfig reads back unchanged.
func printConfig(w io.Writer, cfg appConfig) error {
	// yaml.v3 encodes durations as integer nanoseconds; viper wants "1s".
	out := struct {
		appConfig `yaml:",inline"`

		FetchDelay string `yaml:"fetch-delay"`
	}{appConfig: cfg, FetchDelay: cfg.FetchDelay.String()}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
