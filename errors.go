// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringpipe

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking reservation cannot proceed.
//
// For TryReserveWrite: the ring is full (backpressure)
// For TryReserveRead: nothing has been published yet
//
// ErrWouldBlock is a control flow signal, not a failure. The blocking
// ReserveWrite and ReserveRead never return it.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrProtocolViolation indicates a ring invariant was found broken.
// It signals a construction bug; nothing attempts to repair the ring.
var ErrProtocolViolation = errors.New("ringpipe: protocol violation")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
