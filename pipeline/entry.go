// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

// Sentinel is the reserved Data value that tells a worker or logger to
// terminate. Generated data is always non-negative.
const Sentinel = -1

// OrchestratorID identifies the orchestrator as the origin of sentinels.
const OrchestratorID ID = 0

// ID identifies a unit within its role. Units are numbered from 1.
type ID uint32

// TaskEntry is a work item written by a producer and read by one worker.
type TaskEntry struct {
	ProducerID ID
	Data       int
}

// IsSentinel reports whether e is a termination request.
func (e TaskEntry) IsSentinel() bool { return e.Data == Sentinel }

// LogEntry is a processed item written by a worker and read by one logger.
type LogEntry struct {
	ProducerID ID
	WorkerID   ID
	Data       int
}

// IsSentinel reports whether e is a termination request.
func (e LogEntry) IsSentinel() bool { return e.Data == Sentinel }
