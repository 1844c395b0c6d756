// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

// Package config loads the comm server configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// BusConfig describes how to reach the HHC: a local serial port or a
// WebSocket bridge. Port and URL are mutually exclusive; Port wins when
// both are set.
type BusConfig struct {
	Port          string        `mapstructure:"port"`
	Baud          int           `mapstructure:"baud"`
	URL           string        `mapstructure:"url"`
	Username      string        `mapstructure:"username"`
	SkipTLSVerify bool          `mapstructure:"skipTlsVerify"`
	ReadTimeout   time.Duration `mapstructure:"readTimeout"`
}

// PollConfig holds the scheduling cadences. The ADC poll mirrors the info
// and temperature timers but ships disabled; enable it when the analog
// input is wired up.
type PollConfig struct {
	InfoPeriod        time.Duration `mapstructure:"infoPeriod"`
	TemperaturePeriod time.Duration `mapstructure:"temperaturePeriod"`
	ADCPeriod         time.Duration `mapstructure:"adcPeriod"`
	EnableADC         bool          `mapstructure:"enableAdc"`
}

// CommandConfig bounds the leg command queue. A full queue rejects the
// submit instead of blocking the producer.
type CommandConfig struct {
	QueueSize int `mapstructure:"queueSize"`
}

// LumberjackConfig configures the optional rolling log file.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig selects log level, format and sinks.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// Config is the top-level configuration.
type Config struct {
	Bus     BusConfig     `mapstructure:"bus"`
	Poll    PollConfig    `mapstructure:"poll"`
	Command CommandConfig `mapstructure:"command"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// setDefaults registers every config key. AutomaticEnv only surfaces keys
// viper already knows, so a key missing here cannot be set from the
// environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bus.port", "")
	v.SetDefault("bus.baud", 115200)
	v.SetDefault("bus.url", "")
	v.SetDefault("bus.username", "")
	v.SetDefault("bus.skipTlsVerify", false)
	v.SetDefault("bus.readTimeout", 500*time.Millisecond)
	v.SetDefault("poll.infoPeriod", 30*time.Second)
	v.SetDefault("poll.temperaturePeriod", 1*time.Second)
	v.SetDefault("poll.adcPeriod", 100*time.Millisecond)
	v.SetDefault("poll.enableAdc", false)
	v.SetDefault("command.queueSize", 16)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 50)
	v.SetDefault("logging.file.maxBackups", 5)
	v.SetDefault("logging.file.maxAge", 14)
	v.SetDefault("logging.file.compress", false)
}

// Load reads configuration from the given file plus ELKAPOD_* environment
// variables. An empty path yields the defaults, which are usable as-is
// once a bus endpoint is supplied.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ELKAPOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Bus.Baud <= 0 {
		return fmt.Errorf("bus.baud must be positive, got %d", c.Bus.Baud)
	}
	if c.Poll.InfoPeriod <= 0 {
		return fmt.Errorf("poll.infoPeriod must be positive, got %v", c.Poll.InfoPeriod)
	}
	if c.Poll.TemperaturePeriod <= 0 {
		return fmt.Errorf("poll.temperaturePeriod must be positive, got %v", c.Poll.TemperaturePeriod)
	}
	if c.Poll.EnableADC && c.Poll.ADCPeriod <= 0 {
		return fmt.Errorf("poll.adcPeriod must be positive, got %v", c.Poll.ADCPeriod)
	}
	if c.Command.QueueSize < 1 {
		return fmt.Errorf("command.queueSize must be at least 1, got %d", c.Command.QueueSize)
	}
	return nil
}
