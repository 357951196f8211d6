// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Sink receives one record per non-sentinel log entry.
// Loggers call Emit concurrently; implementations must allow that.
type Sink interface {
	Emit(e LogEntry) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e LogEntry) error

// Emit calls f(e).
func (f SinkFunc) Emit(e LogEntry) error { return f(e) }

// WriterSink writes one text line per entry:
//
//	[LOG] Worker 3 processed 12345 produced by 1
//
// Each line is a single Write call.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a line sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes the line for e.
func (s *WriterSink) Emit(e LogEntry) error {
	_, err := fmt.Fprintf(s.w, "[LOG] Worker %d processed %d produced by %d\n", e.WorkerID, e.Data, e.ProducerID)
	return err
}

// ZapSink emits each entry as a structured Info record.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink creates a sink that logs through log.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

// Emit logs e.
func (s *ZapSink) Emit(e LogEntry) error {
	s.log.Info("processed",
		zap.Uint32("worker", uint32(e.WorkerID)),
		zap.Int("data", e.Data),
		zap.Uint32("producer", uint32(e.ProducerID)),
	)
	return nil
}
