// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/ringpipe"
)

// ErrInvalidConfig is returned by Validate and New for unusable settings.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config sizes the pipeline.
type Config struct {
	TaskBufferCapacity int // Task queue slots
	LogBufferCapacity  int // Log queue slots

	Producers int
	Workers   int
	Loggers   int

	// Each producer draws its quota once from [MinItems, MaxItems].
	MinItems int
	MaxItems int

	// PollInterval is the sleep between ready-flag checks.
	PollInterval time.Duration

	// Seed makes quotas and data reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns the default sizing.
func DefaultConfig() Config {
	return Config{
		TaskBufferCapacity: 1024,
		LogBufferCapacity:  1024,
		Producers:          5,
		Workers:            10,
		Loggers:            2,
		MinItems:           1000,
		MaxItems:           10000,
		PollInterval:       ringpipe.DefaultPollInterval,
	}
}

// Validate reports the first unusable setting wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.TaskBufferCapacity < 1:
		return fmt.Errorf("%w: task buffer capacity %d < 1", ErrInvalidConfig, c.TaskBufferCapacity)
	case c.LogBufferCapacity < 1:
		return fmt.Errorf("%w: log buffer capacity %d < 1", ErrInvalidConfig, c.LogBufferCapacity)
	case c.Producers < 1:
		return fmt.Errorf("%w: producer count %d < 1", ErrInvalidConfig, c.Producers)
	case c.Workers < 1:
		return fmt.Errorf("%w: worker count %d < 1", ErrInvalidConfig, c.Workers)
	case c.Loggers < 1:
		return fmt.Errorf("%w: logger count %d < 1", ErrInvalidConfig, c.Loggers)
	case c.MinItems < 0:
		return fmt.Errorf("%w: min items %d < 0", ErrInvalidConfig, c.MinItems)
	case c.MaxItems < c.MinItems:
		return fmt.Errorf("%w: max items %d < min items %d", ErrInvalidConfig, c.MaxItems, c.MinItems)
	case c.PollInterval < 0:
		return fmt.Errorf("%w: poll interval %v < 0", ErrInvalidConfig, c.PollInterval)
	}
	return nil
}
