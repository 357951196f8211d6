// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe

// Writer is the producer side of a slot buffer.
//
// Writing is split in two steps: ReserveWrite claims an exclusive logical
// index (blocking while the buffer is full) and Publish stores the payload
// and makes it visible. Between the two steps the slot is reserved but
// not readable.
//
// Example:
//
//	i := w.ReserveWrite()
//	w.Publish(i, &entry)
type Writer[T any] interface {
	// ReserveWrite blocks until capacity is available and returns the
	// caller's logical write index. Never fails.
	ReserveWrite() uint64

	// Publish copies *elem into the slot for index i and sets its
	// ready flag. Each reserved index must be published exactly once.
	Publish(i uint64, elem *T)
}

// Reader is the consumer side of a slot buffer.
//
// ReserveRead claims an exclusive logical index once something has been
// published, and Acquire waits for that specific index to be ready.
// A reader must not assume lower indices become ready first.
type Reader[T any] interface {
	// ReserveRead blocks until a published slot is available and returns
	// the caller's logical read index. Never fails.
	ReserveRead() uint64

	// Acquire returns the payload at index i once its ready flag is set,
	// then returns the slot to writers.
	Acquire(i uint64) T
}

// Buffer is the combined writer-reader interface.
type Buffer[T any] interface {
	Writer[T]
	Reader[T]
	Cap() int
}

// Put reserves a write index on w and publishes *elem there.
// Returns the logical index used.
func Put[T any](w Writer[T], elem *T) uint64 {
	i := w.ReserveWrite()
	w.Publish(i, elem)
	return i
}

// Take reserves a read index on r and returns the payload stored there.
func Take[T any](r Reader[T]) T {
	return r.Acquire(r.ReserveRead())
}

var _ Buffer[int] = (*Ring[int])(nil)
