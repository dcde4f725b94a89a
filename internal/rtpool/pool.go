/*
Copyright (C) 2026  coldt contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package rtpool is the parallel shared execution runtime: a fixed-size
// worker pool, ordered job scheduler, writer-preferring shared mutex and
// an interrupt-aware monitor thread, in the spirit of the fan-out pattern
// memcp's storage package builds with gls.Go(...) plus a channel, but
// generalized into a reusable scheduler instead of one-off goroutines.
package rtpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dc0d/onexit"
	"github.com/jtolds/gls"
)

var ctxMgr = gls.NewContextManager()

// CurrentThreadIndex recovers the worker index of the calling goroutine,
// the same goroutine-local-storage trick as memcp's gls.Go(...) call
// sites in storage/scan.go, storage/compute.go and storage/partition.go.
// Only the pool's persistent workers (threads 1..N-1) are tagged; it
// reports false on any other goroutine. Panic capture and the monitor
// thread do not call it.
func CurrentThreadIndex() (int, bool) {
	v, ok := ctxMgr.GetValue("thread")
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// Pool is a fixed-size, process-wide worker team. Thread 0 is always the
// calling goroutine of Execute/ParallelRegion/etc; threads 1..N-1 are
// persistent goroutines parked on a sleep condition variable between jobs.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond // wakes parked workers when a new generation starts
	doneCond *sync.Cond // wakes the joiner when all workers finish a generation

	nthreads   int
	generation uint64
	job        ThreadJob
	active     int // workers (excluding thread 0) still running the current generation
	stopAt     int // workers with index >= stopAt should exit (shutdown job)
	errs       []*EngineError

	running atomic.Bool // true while a job occupies the whole team (rejects nesting)
	monitor *Monitor

	closeOnce sync.Once
}

var defaultPool *Pool
var defaultOnce sync.Once

// Default returns the process-wide singleton pool, sized from
// runtime.NumCPU() the first time it is requested.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(runtime.NumCPU())
	})
	return defaultPool
}

// NewPool starts n-1 background worker goroutines (thread 0 is the
// caller) and a monitor thread. The pool is not a singleton itself --
// Default() is -- so tests can build private pools.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{nthreads: n, errs: make([]*EngineError, n), stopAt: n}
	p.cond = sync.NewCond(&p.mu)
	p.doneCond = sync.NewCond(&p.mu)
	for t := 1; t < n; t++ {
		go p.workerLoop(t)
	}
	p.monitor = newMonitor(p)
	onexit.Register(p.Shutdown)
	return p
}

// NumThreads reports the current team size.
func (p *Pool) NumThreads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nthreads
}

func (p *Pool) jobActive() bool { return p.running.Load() }

func (p *Pool) workerLoop(idx int) {
	ctxMgr.SetValues(gls.Values{"thread": idx}, func() {
		lastGen := uint64(0)
		for {
			p.mu.Lock()
			for p.generation == lastGen && idx < p.stopAt {
				p.cond.Wait()
			}
			if idx >= p.stopAt {
				p.mu.Unlock()
				return // shutdown job: this worker index was retired
			}
			gen := p.generation
			j := p.job
			p.mu.Unlock()
			lastGen = gen

			p.runJob(j, idx)

			p.mu.Lock()
			p.active--
			if p.active == 0 {
				p.doneCond.Broadcast()
			}
			p.mu.Unlock()
		}
	})
}

// runJob drains GetNextTask until nil, capturing the first panic into
// p.errs[idx] and stopping early if the monitor observed an interrupt.
func (p *Pool) runJob(j ThreadJob, idx int) {
	defer func() {
		if r := recover(); r != nil {
			p.errs[idx] = capture(r)
		}
	}()
	for {
		if p.monitor.Interrupted() {
			p.errs[idx] = New(KeyboardInterrupt, "interrupted")
			return
		}
		task := j.GetNextTask(idx)
		if task == nil {
			return
		}
		task(idx)
	}
}

// Execute runs job j across the whole team and blocks until every worker
// has returned to the sleep job, mirroring execute_job(j)'s three steps:
// swap current job, wake workers, join.
func (p *Pool) Execute(j ThreadJob) error {
	if !p.running.CompareAndSwap(false, true) {
		return New(NotImplementedError, "nested parallel region rejected")
	}
	defer p.running.Store(false)

	p.mu.Lock()
	n := p.nthreads
	p.job = j
	p.generation++
	p.active = n - 1
	for i := range p.errs {
		p.errs[i] = nil
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	// thread 0 (the caller) is part of the team
	p.runJob(j, 0)

	p.mu.Lock()
	for p.active > 0 {
		p.doneCond.Wait()
	}
	p.mu.Unlock()

	for _, e := range p.errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Resize grows or shrinks the team. Growing spawns fresh worker
// goroutines; shrinking retires the highest-indexed workers via the
// shutdown-job mechanism (stopAt), leaving the rest asleep.
func (p *Pool) Resize(n int) {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	old := p.nthreads
	p.nthreads = n
	p.stopAt = n
	p.errs = make([]*EngineError, n)
	p.cond.Broadcast() // wake any worker whose index now falls outside the team
	p.mu.Unlock()
	for t := old; t < n; t++ {
		go p.workerLoop(t)
	}
}

// Shutdown retires every background worker and stops the monitor. Safe to
// call more than once; registered with onexit so the pool always winds
// down cleanly at process exit the way memcp registers its trace-file
// close hook in storage/settings.go.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() {
		p.monitor.Stop()
		p.mu.Lock()
		p.stopAt = 0
		p.cond.Broadcast()
		p.mu.Unlock()
	})
}

// ParallelRegion runs fn once on every thread in the team.
func (p *Pool) ParallelRegion(fn func(threadIndex int)) error {
	return p.Execute(newFuncJob(p.NumThreads(), fn))
}

// ParallelForStatic partitions [0,n) into chunks of chunkSize, distributed
// round-robin by thread index.
func (p *Pool) ParallelForStatic(n, chunkSize int, fn func(start, end, threadIndex int)) error {
	if n <= 0 {
		return nil
	}
	return p.Execute(newStaticForJob(n, chunkSize, p.NumThreads(), fn))
}

// ParallelForDynamic doles out iterations [0,n) from an atomic counter.
func (p *Pool) ParallelForDynamic(n int, fn func(i, threadIndex int)) error {
	if n <= 0 {
		return nil
	}
	return p.Execute(newDynamicForJob(n, fn))
}
