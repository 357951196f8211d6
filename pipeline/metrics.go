// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exit status label values.
const (
	exitNormal   = "normal"
	exitAbnormal = "abnormal"
)

// Metrics holds the pipeline's Prometheus collectors.
//
// Units keep private counters while running; the orchestrator folds them
// into these collectors after each drain step, so nothing beyond the two
// queues is shared with the units.
type Metrics struct {
	Produced  prometheus.Counter
	Processed prometheus.Counter
	Logged    prometheus.Counter

	Sentinels *prometheus.CounterVec // by queue
	Exits     *prometheus.CounterVec // by role, status

	State   prometheus.Gauge
	Pending *prometheus.GaugeVec // by queue, in-out at each transition
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a private registry, which keeps tests and multiple
// pipelines in one process from colliding.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		Produced: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ringpipe",
			Name:      "tasks_produced_total",
			Help:      "Tasks published by producers",
		}),
		Processed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ringpipe",
			Name:      "tasks_processed_total",
			Help:      "Log entries published by workers",
		}),
		Logged: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ringpipe",
			Name:      "records_logged_total",
			Help:      "Records emitted to the sink by loggers",
		}),
		Sentinels: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ringpipe",
			Name:      "sentinels_injected_total",
			Help:      "Termination sentinels published by the orchestrator",
		}, []string{"queue"}),
		Exits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ringpipe",
			Name:      "unit_exits_total",
			Help:      "Unit terminations by role and status",
		}, []string{"role", "status"}),
		State: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "ringpipe",
			Name:      "pipeline_state",
			Help:      "Current orchestrator state (0=init .. 8=released)",
		}),
		Pending: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ringpipe",
			Name:      "queue_pending",
			Help:      "Reserved but not yet drained slots per queue",
		}, []string{"queue"}),
	}
}
