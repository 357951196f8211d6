// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"

	"code.hybscloud.com/ringpipe"
)

// Logger drains the log queue into a Sink. It is the only unit that
// performs I/O.
type Logger struct {
	id     ID
	logs   ringpipe.Reader[LogEntry]
	sink   Sink
	logged int
}

// NewLogger creates a logger reading from logs and emitting to sink.
func NewLogger(id ID, logs ringpipe.Reader[LogEntry], sink Sink) *Logger {
	return &Logger{id: id, logs: logs, sink: sink}
}

// Run emits one record per entry until it takes a sentinel.
// A sink error stops the logger.
func (l *Logger) Run() error {
	for {
		entry := ringpipe.Take(l.logs)
		if entry.IsSentinel() {
			return nil
		}
		if err := l.sink.Emit(entry); err != nil {
			return fmt.Errorf("emit entry from worker %d: %w", entry.WorkerID, err)
		}
		l.logged++
	}
}

// ID returns the logger identity.
func (l *Logger) ID() ID { return l.id }

// Logged returns the number of records emitted.
// Only valid after Run has returned.
func (l *Logger) Logged() int { return l.logged }
