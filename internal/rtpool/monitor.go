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

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor is the single low-priority background thread described in
// the runtime's own approach: it wakes every ~20ms while a job is active, calls into the
// progress/reporting hook, and drains the interrupt signal. Go gives us
// an async-signal-safe channel from os/signal instead of a raw
// sig_atomic_t, which plays the same role as an install-time
// signal handler that "sets an interrupt flag but performs no other
// work".
type Monitor struct {
	pool       *Pool
	interrupt  atomic.Bool
	sigCh      chan os.Signal
	stop       chan struct{}
	stopOnce   sync.Once
	onProgress atomic.Pointer[func()]
}

const monitorTick = 20 * time.Millisecond

func newMonitor(p *Pool) *Monitor {
	m := &Monitor{pool: p, sigCh: make(chan os.Signal, 1), stop: make(chan struct{})}
	signal.Notify(m.sigCh, os.Interrupt)
	go m.loop()
	return m
}

// SetProgressHook installs the function called on every tick while a job
// is active -- the seam the chunked reader uses to report rows-so-far.
func (m *Monitor) SetProgressHook(fn func()) {
	if fn == nil {
		m.onProgress.Store(nil)
		return
	}
	m.onProgress.Store(&fn)
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(monitorTick)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			signal.Stop(m.sigCh)
			return
		case <-m.sigCh:
			m.interrupt.Store(true)
		case <-ticker.C:
			if m.pool.jobActive() {
				if hook := m.onProgress.Load(); hook != nil {
					(*hook)()
				}
			}
		}
	}
}

// Interrupted reports whether SIGINT (or an explicit Cancel) was
// observed since the last Reset.
func (m *Monitor) Interrupted() bool { return m.interrupt.Load() }

// Cancel lets callers (e.g. a context.Context-aware caller) request
// cooperative cancellation without a real SIGINT.
func (m *Monitor) Cancel() { m.interrupt.Store(true) }

// Reset clears the interrupt flag once a raised error has been consumed,
// so the pool can run further jobs afterward.
func (m *Monitor) Reset() { m.interrupt.Store(false) }

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Monitor exposes the pool's monitor thread for callers that want to hook
// progress reporting or cancellation.
func (p *Pool) Monitor() *Monitor { return p.monitor }
