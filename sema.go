// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// defaultSpinLimit is the number of CPU-pause rounds a blocked Acquire
// performs before it starts yielding through iox.Backoff.
const defaultSpinLimit = 64

// Semaphore is a lock-free counting semaphore.
//
// The count is a single atomic word that never goes negative. Acquire
// claims a unit with a compare-and-swap from a positive count, so two
// callers can never both own the last unit and a failed attempt leaves
// no trace. Release is a single increment and never blocks.
//
// A blocked Acquire spins briefly and then suspends through iox.Backoff
// until a unit becomes available. Whichever waiter polls first after a
// Release obtains the unit; there is no FIFO hand-off between waiters.
//
// The zero value is a semaphore with count 0.
type Semaphore struct {
	_         pad
	count     atomix.Int64
	_         pad
	spinLimit int
}

// NewSemaphore creates a semaphore with n available units.
// Panics if n < 0.
func NewSemaphore(n int) *Semaphore {
	if n < 0 {
		panic("ringpipe: semaphore count must be >= 0")
	}
	s := &Semaphore{spinLimit: defaultSpinLimit}
	s.count.StoreRelaxed(int64(n))
	return s
}

// TryAcquire claims one unit without blocking.
// Reports whether a unit was claimed. It fails only when the count is
// zero; losing a race to another claimer retries.
func (s *Semaphore) TryAcquire() bool {
	for {
		v := s.count.LoadAcquire()
		if v <= 0 {
			return false
		}
		if s.count.CompareAndSwapAcqRel(v, v-1) {
			return true
		}
	}
}

// Acquire claims one unit, blocking until one is available.
// There is no timeout; a unit that is never released blocks forever.
func (s *Semaphore) Acquire() {
	if s.TryAcquire() {
		return
	}
	sw := spin.Wait{}
	for range s.spinLimit {
		sw.Once()
		if s.TryAcquire() {
			return
		}
	}
	backoff := iox.Backoff{}
	for !s.TryAcquire() {
		backoff.Wait()
	}
}

// Release posts one unit, letting one blocked Acquire proceed.
func (s *Semaphore) Release() {
	s.count.AddAcqRel(1)
}

// Value returns a snapshot of the available unit count.
// The result may be stale by the time the caller inspects it.
func (s *Semaphore) Value() int64 {
	return s.count.LoadRelaxed()
}
