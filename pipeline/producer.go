// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"math"
	"math/rand/v2"

	"code.hybscloud.com/ringpipe"
)

// Producer publishes a fixed quota of synthetic tasks.
//
// A producer never emits a sentinel; stopping workers is the
// orchestrator's job.
type Producer struct {
	id      ID
	quota   int
	rng     *rand.Rand
	tasks   ringpipe.Writer[TaskEntry]
	emitted int
}

// NewProducer creates a producer that will publish quota tasks to tasks.
// rng must not be shared with any other unit.
func NewProducer(id ID, tasks ringpipe.Writer[TaskEntry], quota int, rng *rand.Rand) *Producer {
	return &Producer{id: id, quota: quota, rng: rng, tasks: tasks}
}

// DrawQuota picks a quota uniformly from [lo, hi], 0 <= lo <= hi.
// The span is computed unsigned so hi = math.MaxInt does not overflow.
func DrawQuota(rng *rand.Rand, lo, hi int) int {
	return lo + int(rng.Uint64N(uint64(hi-lo)+1))
}

// Run publishes the quota and returns. Blocks while the task queue is full.
func (p *Producer) Run() error {
	for range p.quota {
		e := TaskEntry{
			ProducerID: p.id,
			Data:       int(p.rng.Int32N(math.MaxInt32)),
		}
		ringpipe.Put(p.tasks, &e)
		p.emitted++
	}
	return nil
}

// ID returns the producer identity.
func (p *Producer) ID() ID { return p.id }

// Quota returns the number of tasks this producer publishes.
func (p *Producer) Quota() int { return p.quota }

// Emitted returns the number of tasks published so far.
// Only valid after Run has returned.
func (p *Producer) Emitted() int { return p.emitted }
