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

import "sync"

// OrderedBody is the three-phase per-iteration contract of
// parallel_for_ordered, the primitive the chunked CSV reader is built on.
// The ordered phase runs under a single global mutex in strictly
// increasing i order, even though the parallel phase may finish
// out of order; finalize then runs concurrently again. C is the
// per-thread context (e.g. a chunked reader's thread-local buffer).
type OrderedBody[C any] struct {
	NewContext func(threadIndex int) C
	Parallel   func(ctx C, i int, threadIndex int)
	// Ordered runs serially in increasing i. It may call setN to shrink
	// the total iteration count (set_n_iterations), which
	// takes effect at the next iteration boundary.
	Ordered func(ctx C, i int, setN func(k int))
	// Finalize runs concurrently again, after Ordered(i) has committed.
	Finalize func(ctx C, i int, threadIndex int)
}

// ParallelForOrdered runs n iterations across nthreads goroutines (thread
// 0 is the caller's goroutine conceptually, but since the ordered phase
// must interleave across all participants this primitive manages its own
// goroutine team rather than reusing the pool's persistent workers -- the
// pool's single-job guard still rejects this running nested inside
// another pool job). This is the load-bearing primitive the design notes
// call out: the ordered phase mutates shared state (column allocations)
// that later parallel phases must observe, so it must not be replaced by
// a naive barrier.
func ParallelForOrdered[C any](p *Pool, n, nthreads int, body OrderedBody[C]) error {
	if n <= 0 {
		return nil
	}
	if nthreads <= 0 {
		nthreads = p.NumThreads()
	}
	if nthreads > n {
		nthreads = n
	}
	if !p.running.CompareAndSwap(false, true) {
		return New(NotImplementedError, "nested parallel region rejected")
	}
	defer p.running.Store(false)

	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	nextOrdered := 0
	limit := n
	errs := make([]*EngineError, nthreads)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range errs {
			if e != nil {
				return true
			}
		}
		return false
	}

	setN := func(k int) {
		// caller already holds mu (invoked from inside Ordered, under lock)
		if k < limit {
			limit = k
		}
	}

	var wg sync.WaitGroup
	wg.Add(nthreads)
	for t := 0; t < nthreads; t++ {
		t := t
		go func() {
			defer wg.Done()
			ctx := body.NewContext(t)
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs[t] = capture(r)
					cond.Broadcast()
					mu.Unlock()
				}
			}()
			for i := t; ; i += nthreads {
				mu.Lock()
				l := limit
				mu.Unlock()
				if i >= l || p.monitor.Interrupted() || failed() {
					if p.monitor.Interrupted() {
						mu.Lock()
						if errs[t] == nil {
							errs[t] = New(KeyboardInterrupt, "interrupted")
						}
						mu.Unlock()
					}
					break
				}

				body.Parallel(ctx, i, t)

				mu.Lock()
				for nextOrdered != i && errs[t] == nil && i < limit {
					anyErr := false
					for _, e := range errs {
						if e != nil {
							anyErr = true
							break
						}
					}
					if anyErr {
						break
					}
					cond.Wait()
				}
				// setN may have lowered limit past i while this iteration
				// was in its parallel phase
				stop := i >= limit
				for _, e := range errs {
					if e != nil {
						stop = true
						break
					}
				}
				if stop {
					mu.Unlock()
					break
				}
				body.Ordered(ctx, i, setN)
				nextOrdered = i + 1
				cond.Broadcast()
				mu.Unlock()

				body.Finalize(ctx, i, t)
			}
		}()
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
