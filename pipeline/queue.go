// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"time"

	"code.hybscloud.com/ringpipe"
)

// TaskQueue carries tasks from producers to workers.
type TaskQueue = ringpipe.Ring[TaskEntry]

// LogQueue carries processed entries from workers to loggers.
type LogQueue = ringpipe.Ring[LogEntry]

// NewTaskQueue creates a task queue with the given capacity and
// ready-flag poll interval.
func NewTaskQueue(capacity int, poll time.Duration) *TaskQueue {
	return ringpipe.Build[TaskEntry](ringpipe.New(capacity).PollInterval(poll))
}

// NewLogQueue creates a log queue with the given capacity and
// ready-flag poll interval.
func NewLogQueue(capacity int, poll time.Duration) *LogQueue {
	return ringpipe.Build[LogEntry](ringpipe.New(capacity).PollInterval(poll))
}

// InjectTaskSentinels publishes n sentinel tasks, one per worker to stop.
// Blocks while the queue is full.
func InjectTaskSentinels(q ringpipe.Writer[TaskEntry], n int) {
	for range n {
		e := TaskEntry{ProducerID: OrchestratorID, Data: Sentinel}
		ringpipe.Put(q, &e)
	}
}

// InjectLogSentinels publishes n sentinel log entries, one per logger to
// stop. Blocks while the queue is full.
func InjectLogSentinels(q ringpipe.Writer[LogEntry], n int) {
	for range n {
		e := LogEntry{ProducerID: OrchestratorID, WorkerID: OrchestratorID, Data: Sentinel}
		ringpipe.Put(q, &e)
	}
}
