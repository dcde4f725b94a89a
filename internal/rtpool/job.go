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
package rtpool

import "sync/atomic"

// Task is a single unit of work handed to one worker.
type Task func(threadIndex int)

// ThreadJob is polled by each worker via GetNextTask until it returns nil,
// at which point the worker drops back to the sleep job.
type ThreadJob interface {
	GetNextTask(threadIndex int) Task
}

// funcJob runs fn exactly once per thread -- the backing job for
// ParallelRegion.
type funcJob struct {
	fn   func(threadIndex int)
	done []uint32
}

func newFuncJob(n int, fn func(threadIndex int)) *funcJob {
	return &funcJob{fn: fn, done: make([]uint32, n)}
}

func (j *funcJob) GetNextTask(threadIndex int) Task {
	if atomic.CompareAndSwapUint32(&j.done[threadIndex], 0, 1) {
		return j.fn
	}
	return nil
}

// staticForJob partitions [0,n) into chunks of chunkSize, distributed
// round-robin by thread index -- a deterministic mapping from chunk to
// thread, the same contract parallel_for_static names.
type staticForJob struct {
	n         int
	chunkSize int
	nthreads  int
	fn        func(start, end, threadIndex int)
	next      []int32 // per-thread cursor over chunk indices owned by it
}

func newStaticForJob(n, chunkSize, nthreads int, fn func(start, end, threadIndex int)) *staticForJob {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &staticForJob{n: n, chunkSize: chunkSize, nthreads: nthreads, fn: fn, next: make([]int32, nthreads)}
}

func (j *staticForJob) GetNextTask(threadIndex int) Task {
	nchunks := (j.n + j.chunkSize - 1) / j.chunkSize
	// chunk c belongs to thread c % nthreads; find this thread's next owned chunk
	for {
		cur := int(atomic.LoadInt32(&j.next[threadIndex]))
		chunk := cur*j.nthreads + threadIndex
		if chunk >= nchunks {
			return nil
		}
		if !atomic.CompareAndSwapInt32(&j.next[threadIndex], int32(cur), int32(cur+1)) {
			continue
		}
		start := chunk * j.chunkSize
		end := start + j.chunkSize
		if end > j.n {
			end = j.n
		}
		return func(threadIndex int) { j.fn(start, end, threadIndex) }
	}
}

// dynamicForJob doles out single iterations from a shared atomic counter.
type dynamicForJob struct {
	n       int
	counter int64
	fn      func(i, threadIndex int)
}

func newDynamicForJob(n int, fn func(i, threadIndex int)) *dynamicForJob {
	return &dynamicForJob{n: n, fn: fn}
}

func (j *dynamicForJob) GetNextTask(threadIndex int) Task {
	i := atomic.AddInt64(&j.counter, 1) - 1
	if i >= int64(j.n) {
		return nil
	}
	return func(threadIndex int) { j.fn(int(i), threadIndex) }
}
