// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"runtime/debug"
)

// Role names the kind of a unit.
type Role uint8

const (
	RoleProducer Role = iota + 1
	RoleWorker
	RoleLogger
)

func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleWorker:
		return "worker"
	case RoleLogger:
		return "logger"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ExitError reports a unit that terminated abnormally, either by returning
// an error or by panicking. Abnormal exits are reported, never retried.
type ExitError struct {
	Role  Role
	ID    ID
	Err   error  // Returned error, nil on panic
	Panic any    // Recovered value, nil on error return
	Stack []byte // Stack at the panic site
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %d exited abnormally: %v", e.Role, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %d panicked: %v", e.Role, e.ID, e.Panic)
}

func (e *ExitError) Unwrap() error { return e.Err }

// supervise runs fn and converts an error return or a panic into an
// *ExitError. A nil result is a normal exit.
func supervise(role Role, id ID, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExitError{Role: role, ID: id, Panic: r, Stack: debug.Stack()}
		}
	}()
	if e := fn(); e != nil {
		return &ExitError{Role: role, ID: id, Err: e}
	}
	return nil
}
