// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe

import "time"

// Options configures ring creation.
type Options struct {
	// Capacity (exact, not rounded)
	capacity int

	// Waiting hints
	pollInterval time.Duration // Sleep between ready-flag checks
	spinLimit    int           // CPU-pause rounds before sleeping
}

// Builder creates rings with fluent configuration.
//
// Example:
//
//	// Defaults: 1µs poll interval, short spin before sleeping
//	r := ringpipe.Build[Task](ringpipe.New(1024))
//
//	// Latency-tolerant ring that sleeps sooner and longer
//	r := ringpipe.Build[Task](ringpipe.New(64).SpinLimit(0).PollInterval(50 * time.Microsecond))
type Builder struct {
	opts Options
}

// New creates a ring builder with the given capacity.
//
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("ringpipe: capacity must be >= 1")
	}
	return &Builder{opts: Options{
		capacity:     capacity,
		pollInterval: DefaultPollInterval,
		spinLimit:    defaultSpinLimit,
	}}
}

// PollInterval sets the sleep between ready-flag checks once spinning
// is exhausted. Zero keeps the reader polling without sleeping.
// Panics if d < 0.
func (b *Builder) PollInterval(d time.Duration) *Builder {
	if d < 0 {
		panic("ringpipe: poll interval must be >= 0")
	}
	b.opts.pollInterval = d
	return b
}

// SpinLimit sets how many CPU-pause rounds a blocked operation performs
// before it starts sleeping. Applies to both semaphores and the
// ready-flag poll.
// Panics if n < 0.
func (b *Builder) SpinLimit(n int) *Builder {
	if n < 0 {
		panic("ringpipe: spin limit must be >= 0")
	}
	b.opts.spinLimit = n
	return b
}

// Capacity returns the configured capacity.
func (b *Builder) Capacity() int {
	return b.opts.capacity
}

// Build creates a Ring[T] from the builder configuration.
func Build[T any](b *Builder) *Ring[T] {
	return newRing[T](b.opts.capacity, b.opts.pollInterval, b.opts.spinLimit)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
