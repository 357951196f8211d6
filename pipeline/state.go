// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import "fmt"

// State is a step of the orchestrator lifecycle. States advance strictly
// in declaration order and never repeat.
type State uint32

const (
	StateInit State = iota
	StateBuffersReady
	StateProducersRunning
	StateProducersDrained
	StateWorkersTerminating
	StateWorkersDrained
	StateLoggersTerminating
	StateLoggersDrained
	StateReleased
)

var stateNames = [...]string{
	StateInit:               "init",
	StateBuffersReady:       "buffers_ready",
	StateProducersRunning:   "producers_running",
	StateProducersDrained:   "producers_drained",
	StateWorkersTerminating: "workers_terminating",
	StateWorkersDrained:     "workers_drained",
	StateLoggersTerminating: "loggers_terminating",
	StateLoggersDrained:     "loggers_drained",
	StateReleased:           "released",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}
