// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads ringpipe settings from the environment.
//
// Variables use the RINGPIPE_ prefix. A .env file in the working directory
// is loaded first when present; variables already set in the process
// environment win over it.
//
//	RINGPIPE_TASK_BUFFER_CAPACITY=1024
//	RINGPIPE_WORKERS=10
//	RINGPIPE_SINK=zap
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"code.hybscloud.com/ringpipe/internal/logging"
	"code.hybscloud.com/ringpipe/pipeline"
)

// Prefix is prepended to every variable name.
const Prefix = "RINGPIPE_"

// Sink selectors.
const (
	SinkStdout = "stdout"
	SinkZap    = "zap"
)

// Config is the full binary configuration.
type Config struct {
	TaskBufferCapacity int           `env:"TASK_BUFFER_CAPACITY" envDefault:"1024"`
	LogBufferCapacity  int           `env:"LOG_BUFFER_CAPACITY" envDefault:"1024"`
	Producers          int           `env:"PRODUCERS" envDefault:"5"`
	Workers            int           `env:"WORKERS" envDefault:"10"`
	Loggers            int           `env:"LOGGERS" envDefault:"2"`
	MinItems           int           `env:"MIN_ITEMS_PER_PRODUCER" envDefault:"1000"`
	MaxItems           int           `env:"MAX_ITEMS_PER_PRODUCER" envDefault:"10000"`
	PollInterval       time.Duration `env:"POLL_INTERVAL" envDefault:"1us"`
	Seed               uint64        `env:"SEED" envDefault:"0"`

	Sink        string `env:"SINK" envDefault:"stdout"`
	MetricsAddr string `env:"METRICS_ADDR"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEV" envDefault:"false"`
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(nil)
}

// Parse reads the configuration from environment, or from the given map
// when it is non-nil.
func Parse(environment map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{Prefix: Prefix, Environment: environment}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the pipeline sizing and the sink selector.
func (c *Config) Validate() error {
	if err := c.Pipeline().Validate(); err != nil {
		return err
	}
	switch c.Sink {
	case SinkStdout, SinkZap:
		return nil
	default:
		return fmt.Errorf("%w: unknown sink %q", pipeline.ErrInvalidConfig, c.Sink)
	}
}

// Pipeline returns the pipeline sizing.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		TaskBufferCapacity: c.TaskBufferCapacity,
		LogBufferCapacity:  c.LogBufferCapacity,
		Producers:          c.Producers,
		Workers:            c.Workers,
		Loggers:            c.Loggers,
		MinItems:           c.MinItems,
		MaxItems:           c.MaxItems,
		PollInterval:       c.PollInterval,
		Seed:               c.Seed,
	}
}

// Logging returns the diagnostic logger configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Development = c.LogDevelopment
	return cfg
}
