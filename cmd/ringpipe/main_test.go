// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/ringpipe/internal/config"
	"code.hybscloud.com/ringpipe/pipeline"
)

func TestNewSink(t *testing.T) {
	sink, closeSink, err := newSink(&config.Config{Sink: config.SinkStdout})
	require.NoError(t, err)
	assert.IsType(t, &pipeline.WriterSink{}, sink)
	closeSink()

	sink, closeSink, err = newSink(&config.Config{Sink: config.SinkZap})
	require.NoError(t, err)
	assert.IsType(t, &pipeline.ZapSink{}, sink)
	closeSink()
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := pipeline.NewMetrics(reg)
	m.Logged.Add(5)

	core, logs := observer.New(zapcore.InfoLevel)
	srv, err := serveMetrics("127.0.0.1:0", reg, zap.New(core))
	require.NoError(t, err)
	defer srv.Close()

	served := logs.FilterMessage("serving metrics").All()
	require.Len(t, served, 1)
	addr := served[0].ContextMap()["addr"].(string)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ringpipe_records_logged_total 5")
}

func TestServeMetricsBadAddress(t *testing.T) {
	_, err := serveMetrics("not-an-address", prometheus.NewRegistry(), zap.NewNop())
	assert.Error(t, err)
}
