// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe

import (
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// DefaultPollInterval is the sleep between ready-flag checks once spinning
// has been exhausted. The expected stall is the gap between two atomic
// operations of a concurrent Publish, not an I/O wait.
const DefaultPollInterval = time.Microsecond

// Ring is a bounded circular buffer of typed slots shared by many writers
// and many readers.
//
// Capacity is enforced by two counting semaphores: empty (starts at
// capacity) gates writers and filled (starts at 0) gates readers. Logical
// indices are handed out by blind fetch-and-add on the in and out counters,
// so every index is owned by exactly one writer and one reader. The slot
// for logical index i is buffer[i % capacity].
//
// A reader can be admitted by filled before the writer owning the same
// index finished Publish (a different writer posted filled first). Each
// slot therefore carries a ready word that the reader polls:
//
//	2*lap     free for the writer of lap
//	2*lap + 1 ready for the reader of lap
//
// where lap = i / capacity. The payload is written before the word is
// stored with release semantics, so a reader that observes ready always
// sees the complete payload.
//
// Memory: capacity slots, one cache line each for small T
type Ring[T any] struct {
	_         pad
	in        atomix.Uint64 // Writer reservations (FAA)
	_         pad
	out       atomix.Uint64 // Reader reservations (FAA)
	_         pad
	empty     Semaphore
	filled    Semaphore
	buffer    []ringSlot[T]
	capacity  uint64
	poll      time.Duration
	spinLimit int
}

type ringSlot[T any] struct {
	seq  atomix.Uint64 // Ready word, see Ring
	data T
	_    padShort // Pad to cache line
}

// Stats is a snapshot of a ring's counters.
type Stats struct {
	In     uint64 // Write reservations granted so far
	Out    uint64 // Read reservations granted so far
	Empty  int64  // Units available to writers
	Filled int64  // Units available to readers
}

// Pending returns the number of logical slots reserved for writing
// but not yet reserved for reading.
func (s Stats) Pending() uint64 {
	return s.In - s.Out
}

// NewRing creates a ring with exactly capacity slots.
// Capacity is not rounded; any value >= 1 is accepted.
func NewRing[T any](capacity int) *Ring[T] {
	return newRing[T](capacity, DefaultPollInterval, defaultSpinLimit)
}

func newRing[T any](capacity int, poll time.Duration, spinLimit int) *Ring[T] {
	if capacity < 1 {
		panic("ringpipe: capacity must be >= 1")
	}

	r := &Ring[T]{
		buffer:    make([]ringSlot[T], capacity),
		capacity:  uint64(capacity),
		poll:      poll,
		spinLimit: spinLimit,
	}
	r.empty.spinLimit = spinLimit
	r.empty.count.StoreRelaxed(int64(capacity))
	r.filled.spinLimit = spinLimit

	return r
}

// ReserveWrite blocks until a slot is free and returns the caller's
// exclusive logical write index.
func (r *Ring[T]) ReserveWrite() uint64 {
	r.empty.Acquire()
	return r.in.AddAcqRel(1) - 1
}

// TryReserveWrite is the non-blocking form of ReserveWrite.
// Returns ErrWouldBlock if the ring is full.
func (r *Ring[T]) TryReserveWrite() (uint64, error) {
	if !r.empty.TryAcquire() {
		return 0, ErrWouldBlock
	}
	return r.in.AddAcqRel(1) - 1, nil
}

// Publish stores elem at logical index i and makes it visible to the
// reader of i. i must come from ReserveWrite on this ring and may be
// published only once.
//
// If the slot still holds the previous lap's payload, Publish waits until
// that lap's reader has drained it.
func (r *Ring[T]) Publish(i uint64, elem *T) {
	slot := r.slot(i)
	free := (i / r.capacity) * 2

	if slot.seq.LoadAcquire() != free {
		r.await(&slot.seq, free)
	}

	slot.data = *elem
	// Payload first, then the flag, then the semaphore post.
	slot.seq.StoreRelease(free + 1)
	r.filled.Release()
}

// ReserveRead blocks until a slot has been published and returns the
// caller's exclusive logical read index.
func (r *Ring[T]) ReserveRead() uint64 {
	r.filled.Acquire()
	return r.out.AddAcqRel(1) - 1
}

// TryReserveRead is the non-blocking form of ReserveRead.
// Returns ErrWouldBlock if nothing has been published.
func (r *Ring[T]) TryReserveRead() (uint64, error) {
	if !r.filled.TryAcquire() {
		return 0, ErrWouldBlock
	}
	return r.out.AddAcqRel(1) - 1, nil
}

// Acquire returns the payload at logical index i, waiting for the writer
// of i to finish Publish if necessary. i must come from ReserveRead on this
// ring. The slot is cleared and handed back to writers.
func (r *Ring[T]) Acquire(i uint64) T {
	slot := r.slot(i)
	ready := (i/r.capacity)*2 + 1

	if slot.seq.LoadAcquire() != ready {
		r.await(&slot.seq, ready)
	}

	elem := slot.data
	var zero T
	slot.data = zero
	slot.seq.StoreRelease(ready + 1)
	r.empty.Release()
	return elem
}

// Ready reports whether the payload for logical index i is visible.
func (r *Ring[T]) Ready(i uint64) bool {
	return r.slot(i).seq.LoadAcquire() == (i/r.capacity)*2+1
}

// await polls seq until it equals want: CPU pauses first, then short
// sleeps of the configured poll interval.
func (r *Ring[T]) await(seq *atomix.Uint64, want uint64) {
	sw := spin.Wait{}
	for n := 0; seq.LoadAcquire() != want; n++ {
		if n < r.spinLimit {
			sw.Once()
			continue
		}
		time.Sleep(r.poll)
	}
}

func (r *Ring[T]) slot(i uint64) *ringSlot[T] {
	if r.buffer == nil {
		panic("ringpipe: use of released ring")
	}
	return &r.buffer[i%r.capacity]
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// Stats returns a snapshot of the ring counters.
// Out is loaded before In so that In >= Out holds in every snapshot.
func (r *Ring[T]) Stats() Stats {
	out := r.out.LoadAcquire()
	in := r.in.LoadAcquire()
	return Stats{
		In:     in,
		Out:    out,
		Empty:  r.empty.Value(),
		Filled: r.filled.Value(),
	}
}

// Check verifies 0 <= in-out <= capacity and empty+filled <= capacity.
// Only meaningful while no reservation is in flight: a unit taken from a
// semaphore but not yet counted in in or out is invisible to it. Failed
// TryReserveWrite and TryReserveRead calls never change a count and may
// run concurrently.
func (r *Ring[T]) Check() error {
	s := r.Stats()
	if s.Out > s.In || s.Pending() > r.capacity {
		return fmt.Errorf("%w: in=%d out=%d capacity=%d", ErrProtocolViolation, s.In, s.Out, r.capacity)
	}
	if s.Empty+s.Filled > int64(r.capacity) {
		return fmt.Errorf("%w: empty=%d filled=%d capacity=%d", ErrProtocolViolation, s.Empty, s.Filled, r.capacity)
	}
	return nil
}

// Release drops the slot storage. The caller must ensure no goroutine
// uses the ring afterwards; any later operation panics.
func (r *Ring[T]) Release() {
	r.buffer = nil
}
