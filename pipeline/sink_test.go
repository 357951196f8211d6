// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/ringpipe/pipeline"
)

func TestWriterSinkFormat(t *testing.T) {
	var buf bytes.Buffer
	s := pipeline.NewWriterSink(&buf)

	require.NoError(t, s.Emit(pipeline.LogEntry{ProducerID: 1, WorkerID: 3, Data: 12345}))
	require.NoError(t, s.Emit(pipeline.LogEntry{ProducerID: 2, WorkerID: 4, Data: 0}))

	assert.Equal(t,
		"[LOG] Worker 3 processed 12345 produced by 1\n"+
			"[LOG] Worker 4 processed 0 produced by 2\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriterSinkPropagatesError(t *testing.T) {
	s := pipeline.NewWriterSink(failingWriter{})
	assert.EqualError(t, s.Emit(pipeline.LogEntry{}), "closed")
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := pipeline.NewZapSink(zap.New(core))

	require.NoError(t, s.Emit(pipeline.LogEntry{ProducerID: 7, WorkerID: 8, Data: 99}))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "processed", entry.Message)
	assert.Equal(t, map[string]any{
		"worker":   uint32(8),
		"data":     int64(99),
		"producer": uint32(7),
	}, entry.ContextMap())
}

func TestSinkFunc(t *testing.T) {
	var got pipeline.LogEntry
	s := pipeline.SinkFunc(func(e pipeline.LogEntry) error {
		got = e
		return nil
	})
	want := pipeline.LogEntry{ProducerID: 1, WorkerID: 2, Data: 3}
	require.NoError(t, s.Emit(want))
	assert.Equal(t, want, got)
}
