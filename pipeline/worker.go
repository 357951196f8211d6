// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import "code.hybscloud.com/ringpipe"

// Worker moves tasks from the task queue to the log queue.
// It performs no I/O.
type Worker struct {
	id        ID
	tasks     ringpipe.Reader[TaskEntry]
	logs      ringpipe.Writer[LogEntry]
	processed int
}

// NewWorker creates a worker reading tasks and writing log entries.
func NewWorker(id ID, tasks ringpipe.Reader[TaskEntry], logs ringpipe.Writer[LogEntry]) *Worker {
	return &Worker{id: id, tasks: tasks, logs: logs}
}

// Run processes tasks until it takes a sentinel. The sentinel itself
// produces no log entry.
func (w *Worker) Run() error {
	for {
		task := ringpipe.Take(w.tasks)
		if task.IsSentinel() {
			return nil
		}
		entry := w.process(task)
		ringpipe.Put(w.logs, &entry)
		w.processed++
	}
}

// process derives the log entry for task. Data passes through unchanged.
func (w *Worker) process(task TaskEntry) LogEntry {
	return LogEntry{
		ProducerID: task.ProducerID,
		WorkerID:   w.id,
		Data:       task.Data,
	}
}

// ID returns the worker identity.
func (w *Worker) ID() ID { return w.id }

// Processed returns the number of log entries published.
// Only valid after Run has returned.
func (w *Worker) Processed() int { return w.processed }
