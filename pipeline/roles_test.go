// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline_test

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/ringpipe"
	"code.hybscloud.com/ringpipe/pipeline"
)

func TestDrawQuotaRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[int]bool{}
	for range 1000 {
		q := pipeline.DrawQuota(rng, 3, 6)
		require.GreaterOrEqual(t, q, 3)
		require.LessOrEqual(t, q, 6)
		seen[q] = true
	}
	assert.Len(t, seen, 4, "every value in [3, 6] should be drawn")

	assert.Equal(t, 5, pipeline.DrawQuota(rng, 5, 5))
}

func TestDrawQuotaFullRange(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.MinItems, cfg.MaxItems = 0, math.MaxInt
	require.NoError(t, cfg.Validate())

	rng := rand.New(rand.NewPCG(3, 4))
	for range 1000 {
		q := pipeline.DrawQuota(rng, cfg.MinItems, cfg.MaxItems)
		require.GreaterOrEqual(t, q, 0)
	}
	assert.Equal(t, math.MaxInt, pipeline.DrawQuota(rng, math.MaxInt, math.MaxInt))
	assert.Equal(t, 0, pipeline.DrawQuota(rng, 0, 0))

	q := pipeline.DrawQuota(rng, math.MaxInt-1, math.MaxInt)
	assert.Contains(t, []int{math.MaxInt - 1, math.MaxInt}, q)
}

func TestProducerPublishesQuota(t *testing.T) {
	tasks := pipeline.NewTaskQueue(16, time.Microsecond)
	p := pipeline.NewProducer(3, tasks, 10, rand.New(rand.NewPCG(9, 3)))

	require.NoError(t, p.Run())
	assert.Equal(t, pipeline.ID(3), p.ID())
	assert.Equal(t, 10, p.Quota())
	assert.Equal(t, 10, p.Emitted())

	for range 10 {
		e := ringpipe.Take(tasks)
		assert.Equal(t, pipeline.ID(3), e.ProducerID)
		assert.GreaterOrEqual(t, e.Data, 0)
		assert.False(t, e.IsSentinel())
	}
	_, err := tasks.TryReserveRead()
	assert.True(t, ringpipe.IsWouldBlock(err), "producer must not emit a sentinel")
}

func TestWorkerForwardsUnchanged(t *testing.T) {
	tasks := pipeline.NewTaskQueue(4, time.Microsecond)
	logs := pipeline.NewLogQueue(4, time.Microsecond)

	for _, e := range []pipeline.TaskEntry{{ProducerID: 1, Data: 10}, {ProducerID: 2, Data: 0}} {
		ringpipe.Put(tasks, &e)
	}
	pipeline.InjectTaskSentinels(tasks, 1)

	w := pipeline.NewWorker(5, tasks, logs)
	require.NoError(t, w.Run())
	assert.Equal(t, 2, w.Processed())

	assert.Equal(t, pipeline.LogEntry{ProducerID: 1, WorkerID: 5, Data: 10}, ringpipe.Take(logs))
	assert.Equal(t, pipeline.LogEntry{ProducerID: 2, WorkerID: 5, Data: 0}, ringpipe.Take(logs))
	assert.Equal(t, uint64(2), logs.Stats().In, "sentinel must not produce a log entry")
}

func TestLoggerEmitsInDrainOrder(t *testing.T) {
	logs := pipeline.NewLogQueue(8, time.Microsecond)
	for i := range 5 {
		e := pipeline.LogEntry{ProducerID: 1, WorkerID: 2, Data: i}
		ringpipe.Put(logs, &e)
	}
	pipeline.InjectLogSentinels(logs, 1)

	sink := &collectSink{}
	l := pipeline.NewLogger(1, logs, sink)
	require.NoError(t, l.Run())
	assert.Equal(t, 5, l.Logged())

	var data []int
	for _, e := range sink.Entries() {
		data = append(data, e.Data)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, data)
}

// TestSentinelPerWorker verifies W sentinels stop exactly W workers and
// none of them turns into a log entry.
func TestSentinelPerWorker(t *testing.T) {
	skipIfRace(t)

	const workers = 4
	tasks := pipeline.NewTaskQueue(8, time.Microsecond)
	logs := pipeline.NewLogQueue(64, time.Microsecond)

	var g errgroup.Group
	var exited atomix.Int64
	ws := make([]*pipeline.Worker, workers)
	for i := range ws {
		ws[i] = pipeline.NewWorker(pipeline.ID(i+1), tasks, logs)
		g.Go(func() error {
			defer exited.Add(1)
			return ws[i].Run()
		})
	}

	for i := range 20 {
		e := pipeline.TaskEntry{ProducerID: 1, Data: i}
		ringpipe.Put(tasks, &e)
	}
	pipeline.InjectTaskSentinels(tasks, workers)

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatalf("timeout: %d of %d workers exited", exited.Load(), workers)
	}

	assert.Equal(t, int64(workers), exited.Load())
	processed := 0
	for _, w := range ws {
		processed += w.Processed()
	}
	assert.Equal(t, 20, processed)
	assert.Equal(t, uint64(20), logs.Stats().In, "sentinels must not produce log entries")
	assert.Equal(t, uint64(0), tasks.Stats().Pending())
}

// TestMissingSentinelBlocksDrain injects one sentinel fewer than the number
// of workers and verifies the drain does not complete. The timeout is the
// test's; the pipeline itself never times out.
func TestMissingSentinelBlocksDrain(t *testing.T) {
	skipIfRace(t)

	const workers = 3
	tasks := pipeline.NewTaskQueue(4, time.Microsecond)
	logs := pipeline.NewLogQueue(4, time.Microsecond)

	var g errgroup.Group
	var exited atomix.Int64
	for i := range workers {
		w := pipeline.NewWorker(pipeline.ID(i+1), tasks, logs)
		g.Go(func() error {
			defer exited.Add(1)
			return w.Run()
		})
	}

	pipeline.InjectTaskSentinels(tasks, workers-1)

	drained := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(drained)
	}()

	require.Eventually(t, func() bool { return exited.Load() == workers-1 }, 5*time.Second, time.Millisecond)
	assert.Never(t, func() bool {
		select {
		case <-drained:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 5*time.Millisecond, "drain completed with a missing sentinel")
	assert.Equal(t, int64(workers-1), exited.Load())

	// Release the stuck worker so the goroutine does not leak
	pipeline.InjectTaskSentinels(tasks, 1)
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout: last worker did not take the late sentinel")
	}
}
