// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringpipe provides a bounded slot buffer coordinated only by
// counting semaphores and atomic fetch-and-add, with no mutex on the data
// path.
//
// A [Ring] is written in two steps and read in two steps:
//
//	Writer: ReserveWrite → Publish
//	Reader: ReserveRead  → Acquire
//
// ReserveWrite waits on the empty semaphore and claims a logical index with
// one fetch-and-add on the in counter. Publish stores the payload, sets the
// slot's ready flag with release ordering, and posts the filled semaphore.
// ReserveRead waits on filled and claims an index from the out counter.
// Acquire waits for that slot's ready flag, copies the payload out, and
// posts empty.
//
// # Quick Start
//
//	r := ringpipe.NewRing[Event](1024)
//
//	// Writer
//	i := r.ReserveWrite()
//	r.Publish(i, &ev)
//
//	// Reader
//	j := r.ReserveRead()
//	ev := r.Acquire(j)
//
// The [Put] and [Take] helpers combine both steps:
//
//	ringpipe.Put(r, &ev)
//	ev := ringpipe.Take(r)
//
// Builder API for non-default waiting behavior:
//
//	r := ringpipe.Build[Event](ringpipe.New(1024).PollInterval(10 * time.Microsecond))
//
// # The Reserved-But-Unpublished Window
//
// Writers finish Publish in no particular order. The filled semaphore can
// admit a reader whose index belongs to a writer that is still copying its
// payload, because some other writer posted filled first. Acquire handles
// this by polling the ready flag of its own slot: a few CPU pauses first,
// then sleeps of the poll interval. Since every post happens strictly after
// the matching flag store, the flag always becomes true eventually.
//
// The ready flag is a per-slot sequence word tagged with the ring lap
// (index / capacity). A writer that wraps onto a slot whose previous lap
// has not been drained yet waits for it before writing, so a slow reader
// can never have its payload overwritten.
//
// # Blocking and Non-Blocking Forms
//
// ReserveWrite and ReserveRead block without timeout. TryReserveWrite and
// TryReserveRead return [ErrWouldBlock] instead:
//
//	i, err := r.TryReserveWrite()
//	if ringpipe.IsWouldBlock(err) {
//	    // Ring is full - handle backpressure
//	}
//
// [ErrWouldBlock] is sourced from [code.hybscloud.com/iox]. A ring whose
// counters break 0 <= in-out <= capacity reports [ErrProtocolViolation]
// from Check.
//
// # Capacity
//
// Capacity is exact; it is not rounded to a power of two. The physical
// slot for logical index i is i % capacity. Minimum capacity is 1.
//
// # Termination
//
// There is no cancellation. Blocked operations wait until the counterpart
// arrives. Callers shut consumers down by publishing a sentinel payload per
// consumer, which is ordered after every payload published before it.
// A consumer that never receives its sentinel blocks forever.
//
// # Race Detection
//
// Slot payloads are plain fields ordered by atomix acquire-release on the
// ready word. Go's race detector cannot observe that happens-before edge,
// so concurrent tests are skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package ringpipe
