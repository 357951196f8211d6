// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"math/rand/v2"
	"os"

	"code.hybscloud.com/atomix"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRun is returned by Run on a pipeline that has been run before.
var ErrAlreadyRun = errors.New("pipeline: already run")

// Pipeline is the orchestrator. It owns both queues, starts every unit,
// and drives the sentinel termination protocol:
//
//	init → buffers_ready → producers_running → producers_drained →
//	workers_terminating → workers_drained → loggers_terminating →
//	loggers_drained → released
//
// Payloads never pass through the orchestrator; it only publishes
// sentinels.
type Pipeline struct {
	cfg     Config
	log     *zap.Logger
	sink    Sink
	metrics *Metrics
	runID   uuid.UUID

	runs  atomix.Uint64
	state atomix.Uint64

	tasks *TaskQueue
	logs  *LogQueue

	report Report
}

// Report summarizes a finished run.
type Report struct {
	Produced  int // Tasks published by producers
	Processed int // Log entries published by workers
	Logged    int // Records emitted by loggers
	Abnormal  int // Units that exited abnormally
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the orchestrator's logger. Units never log.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithSink sets the sink loggers emit to. Defaults to a WriterSink on
// os.Stdout.
func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// WithMetrics sets the collectors the run reports to.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithRunID overrides the generated run ID.
func WithRunID(id uuid.UUID) Option {
	return func(p *Pipeline) { p.runID = id }
}

// New validates cfg and creates a pipeline in StateInit.
// Queues are allocated by Run.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, runID: uuid.New()}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.sink == nil {
		p.sink = NewWriterSink(os.Stdout)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	p.log = p.log.With(zap.Stringer("run", p.runID))

	return p, nil
}

// Run executes the pipeline to completion.
//
// Run returns nil only if every unit exited normally and both queues pass
// their invariant check. Otherwise it returns the joined *ExitError values
// and any ringpipe.ErrProtocolViolation. Abnormal exits are not retried.
//
// Each abnormal exit is logged and counted the moment the unit ends, not
// at its drain step, so it is visible even if the run then stalls.
//
// There is no timeout. A unit that never takes its sentinel blocks the
// corresponding drain step forever. Downstream deaths can also stall an
// upstream drain: when every logger has exited abnormally, workers block
// once the log queue is full, producers block once the task queue is full,
// and Run never returns from producers_running. The same happens when
// every worker dies.
func (p *Pipeline) Run() error {
	if p.runs.AddAcqRel(1) != 1 {
		return ErrAlreadyRun
	}
	cfg := p.cfg

	p.tasks = NewTaskQueue(cfg.TaskBufferCapacity, cfg.PollInterval)
	p.logs = NewLogQueue(cfg.LogBufferCapacity, cfg.PollInterval)
	p.transition(StateBuffersReady)

	p.log.Info("pipeline starting",
		zap.Int("producers", cfg.Producers),
		zap.Int("workers", cfg.Workers),
		zap.Int("loggers", cfg.Loggers),
		zap.Int("task_capacity", cfg.TaskBufferCapacity),
		zap.Int("log_capacity", cfg.LogBufferCapacity),
	)

	// Consumers start first so producers never fill an unattended queue.
	loggers := make([]*Logger, cfg.Loggers)
	loggerStage := newStage(RoleLogger, cfg.Loggers, p.reportExit)
	for i := range loggers {
		l := NewLogger(ID(i+1), p.logs, p.sink)
		loggers[i] = l
		loggerStage.spawn(i, l.ID(), l.Run)
	}

	workers := make([]*Worker, cfg.Workers)
	workerStage := newStage(RoleWorker, cfg.Workers, p.reportExit)
	for i := range workers {
		w := NewWorker(ID(i+1), p.tasks, p.logs)
		workers[i] = w
		workerStage.spawn(i, w.ID(), w.Run)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	producers := make([]*Producer, cfg.Producers)
	producerStage := newStage(RoleProducer, cfg.Producers, p.reportExit)
	for i := range producers {
		id := ID(i + 1)
		rng := rand.New(rand.NewPCG(seed, uint64(id)))
		pr := NewProducer(id, p.tasks, DrawQuota(rng, cfg.MinItems, cfg.MaxItems), rng)
		producers[i] = pr
		p.log.Debug("producer quota", zap.Uint32("producer", uint32(id)), zap.Int("quota", pr.Quota()))
		producerStage.spawn(i, id, pr.Run)
	}
	p.transition(StateProducersRunning)

	var errs []error

	errs = append(errs, p.drain(producerStage))
	for _, pr := range producers {
		p.report.Produced += pr.Emitted()
	}
	p.metrics.Produced.Add(float64(p.report.Produced))
	p.transition(StateProducersDrained)

	p.transition(StateWorkersTerminating)
	InjectTaskSentinels(p.tasks, cfg.Workers)
	p.metrics.Sentinels.WithLabelValues("task").Add(float64(cfg.Workers))

	errs = append(errs, p.drain(workerStage))
	for _, w := range workers {
		p.report.Processed += w.Processed()
	}
	p.metrics.Processed.Add(float64(p.report.Processed))
	p.transition(StateWorkersDrained)

	p.transition(StateLoggersTerminating)
	InjectLogSentinels(p.logs, cfg.Loggers)
	p.metrics.Sentinels.WithLabelValues("log").Add(float64(cfg.Loggers))

	errs = append(errs, p.drain(loggerStage))
	for _, l := range loggers {
		p.report.Logged += l.Logged()
	}
	p.metrics.Logged.Add(float64(p.report.Logged))
	p.transition(StateLoggersDrained)

	errs = append(errs, p.release())
	p.transition(StateReleased)

	p.log.Info("pipeline released",
		zap.Int("produced", p.report.Produced),
		zap.Int("processed", p.report.Processed),
		zap.Int("logged", p.report.Logged),
		zap.Int("abnormal", p.report.Abnormal),
	)
	return errors.Join(errs...)
}

// drain waits for every unit of s and tallies abnormal exits. Each exit
// was already reported by reportExit.
func (p *Pipeline) drain(s *stage) error {
	err := s.wait()
	for _, e := range s.errs {
		if e != nil {
			p.report.Abnormal++
		}
	}
	return err
}

// reportExit records a unit's exit as it happens. Runs on the unit's
// goroutine.
func (p *Pipeline) reportExit(role Role, err error) {
	if err == nil {
		p.metrics.Exits.WithLabelValues(role.String(), exitNormal).Inc()
		return
	}
	p.metrics.Exits.WithLabelValues(role.String(), exitAbnormal).Inc()

	fields := []zap.Field{zap.Stringer("role", role), zap.Error(err)}
	var xe *ExitError
	if errors.As(err, &xe) {
		fields = append(fields, zap.Uint32("id", uint32(xe.ID)))
		if xe.Panic != nil {
			fields = append(fields, zap.ByteString("stack", xe.Stack))
		}
	}
	p.log.Error("unit exited abnormally", fields...)
}

// release checks both queues and drops their storage.
func (p *Pipeline) release() error {
	err := errors.Join(p.tasks.Check(), p.logs.Check())
	if err != nil {
		p.log.Error("queue invariant violated", zap.Error(err))
	}
	if n := p.tasks.Stats().Pending(); n > 0 {
		p.log.Warn("undrained task entries", zap.Uint64("pending", n))
	}
	if n := p.logs.Stats().Pending(); n > 0 {
		p.log.Warn("undrained log entries", zap.Uint64("pending", n))
	}
	p.tasks.Release()
	p.logs.Release()
	return err
}

func (p *Pipeline) transition(to State) {
	from := State(p.state.LoadAcquire())
	p.state.StoreRelease(uint64(to))

	p.metrics.State.Set(float64(to))
	p.metrics.Pending.WithLabelValues("task").Set(float64(p.tasks.Stats().Pending()))
	p.metrics.Pending.WithLabelValues("log").Set(float64(p.logs.Stats().Pending()))

	p.log.Debug("state transition", zap.Stringer("from", from), zap.Stringer("to", to))
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.LoadAcquire())
}

// RunID returns the identifier attached to this run's log lines.
func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

// Config returns the validated configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Report returns the run summary. Only valid after Run has returned.
func (p *Pipeline) Report() Report {
	return p.report
}

// stage is the set of units of one role. Each unit writes only its own
// errs slot; the slice is read after wait.
type stage struct {
	role   Role
	g      errgroup.Group
	errs   []error
	onExit func(Role, error)
}

// newStage creates a stage of n units. onExit, if non-nil, is called on
// each unit's goroutine as soon as the unit ends.
func newStage(role Role, n int, onExit func(Role, error)) *stage {
	return &stage{role: role, errs: make([]error, n), onExit: onExit}
}

func (s *stage) spawn(slot int, id ID, fn func() error) {
	s.g.Go(func() error {
		err := supervise(s.role, id, fn)
		s.errs[slot] = err
		if s.onExit != nil {
			s.onExit(s.role, err)
		}
		return err
	})
}

// wait blocks until every unit has exited and joins their errors.
func (s *stage) wait() error {
	if s.g.Wait() == nil {
		return nil
	}
	return errors.Join(s.errs...)
}
