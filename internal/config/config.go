// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads application configuration from a yaml file and
// MEDCHECK_* environment overrides. Rule dictionaries are loaded separately
// by the rules package.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the optional PostgreSQL result store parameters.
type DatabaseConfig struct {
	// DSN empty disables persistence.
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
}

// CacheConfig holds the optional Redis change-detection cache parameters.
type CacheConfig struct {
	// Addr empty disables the cache.
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// FetchConfig holds the URL fetcher tunables.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// LogConfig holds logger tunables.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig   `mapstructure:"server"`
	DB     DatabaseConfig `mapstructure:"db"`
	Cache  CacheConfig    `mapstructure:"cache"`
	Fetch  FetchConfig    `mapstructure:"fetch"`
	Log    LogConfig      `mapstructure:"log"`
	// RuleOverlay is an optional yaml dictionary merged over the built-in
	// rule set at startup.
	RuleOverlay string `mapstructure:"rule_overlay"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DatabaseConfig{MaxConns: 4},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Fetch: FetchConfig{
			Timeout:       15 * time.Second,
			RatePerSecond: 2,
			UserAgent:     "medcheck/1.0",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the config file at path (optional; empty path loads defaults
// and environment only) and applies MEDCHECK_* environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("db.max_conns", defaults.DB.MaxConns)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("fetch.rate_per_second", defaults.Fetch.RatePerSecond)
	v.SetDefault("fetch.user_agent", defaults.Fetch.UserAgent)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
