// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipeline runs producers, workers and loggers over two chained
// ringpipe queues.
//
//	Producer → TaskQueue → Worker → LogQueue → Logger → Sink
//
// Each unit is a goroutine whose only shared state is the two queues.
// Workers never perform I/O; loggers are the only units that touch the
// Sink. The orchestrator ([Pipeline]) starts the units, waits for the
// producers, then stops workers and loggers by publishing exactly one
// [Sentinel] per unit and waiting for each stage to drain.
//
// Basic usage:
//
//	cfg := pipeline.DefaultConfig()
//	p, err := pipeline.New(cfg, pipeline.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := p.Run(); err != nil {
//	    // One *ExitError per abnormal unit, joined
//	}
//
// Units can also be driven individually with [NewProducer], [NewWorker]
// and [NewLogger] over queues from [NewTaskQueue] and [NewLogQueue].
// Sentinel accounting is then the caller's responsibility: a worker or
// logger that never takes a sentinel never returns.
package pipeline
