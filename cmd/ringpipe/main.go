// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ringpipe runs the producer → worker → logger pipeline once,
// configured from RINGPIPE_* environment variables.
//
// Exit codes: 0 when every unit finished normally, 1 when any unit exited
// abnormally or a queue invariant failed, 2 on a configuration error.
package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"code.hybscloud.com/ringpipe/internal/config"
	"code.hybscloud.com/ringpipe/internal/logging"
	"code.hybscloud.com/ringpipe/pipeline"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ringpipe:", err)
		return exitConfig
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, "ringpipe:", err)
		return exitConfig
	}
	defer log.Sync()

	sink, closeSink, err := newSink(cfg)
	if err != nil {
		log.Error("create sink", zap.Error(err))
		return exitConfig
	}
	defer closeSink()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if cfg.MetricsAddr != "" {
		srv, err := serveMetrics(cfg.MetricsAddr, reg, log)
		if err != nil {
			log.Error("start metrics listener", zap.Error(err))
			return exitConfig
		}
		defer srv.Close()
	}

	p, err := pipeline.New(cfg.Pipeline(),
		pipeline.WithLogger(log),
		pipeline.WithSink(sink),
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
	)
	if err != nil {
		log.Error("create pipeline", zap.Error(err))
		return exitConfig
	}

	if err := p.Run(); err != nil {
		var xe *pipeline.ExitError
		if errors.As(err, &xe) {
			log.Error("pipeline finished with abnormal exits", zap.Error(err))
		} else {
			log.Error("pipeline failed", zap.Error(err))
		}
		return exitFailure
	}
	return exitOK
}

func newSink(cfg *config.Config) (pipeline.Sink, func(), error) {
	switch cfg.Sink {
	case config.SinkZap:
		records, err := logging.NewRecordLogger("stdout")
		if err != nil {
			return nil, nil, err
		}
		return pipeline.NewZapSink(records), func() { _ = records.Sync() }, nil
	default:
		return pipeline.NewWriterSink(os.Stdout), func() {}, nil
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return srv, nil
}
