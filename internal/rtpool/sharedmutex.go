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

// SharedMutex is a writer-preferring reader/writer lock: any number of
// shared holders may run concurrently with no other holder; exactly one
// exclusive holder may run; a waiting writer blocks new readers, which
// prevents writer starvation under a read-heavy workload such as
// CSV chunk workers repeatedly taking the shared lock to read column
// metadata while the ordered phase occasionally grows buffers exclusively.
type SharedMutex struct {
	mu           sync.Mutex
	cond         *sync.Cond
	readers      int
	writerActive bool
	writersWait  int
}

func NewSharedMutex() *SharedMutex {
	m := &SharedMutex{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// RLock acquires a shared hold. It blocks while a writer is active or
// waiting, so queued writers are not starved by a steady stream of new
// readers.
func (m *SharedMutex) RLock() {
	m.mu.Lock()
	for m.writerActive || m.writersWait > 0 {
		m.cond.Wait()
	}
	m.readers++
	m.mu.Unlock()
}

func (m *SharedMutex) RUnlock() {
	m.mu.Lock()
	m.readers--
	if m.readers == 0 {
		m.cond.Broadcast()
	}
	m.mu.Unlock()
}

// Lock acquires the exclusive hold, waiting for all current readers
// (and any writer ahead of it) to drain.
func (m *SharedMutex) Lock() {
	m.mu.Lock()
	m.writersWait++
	for m.writerActive || m.readers > 0 {
		m.cond.Wait()
	}
	m.writersWait--
	m.writerActive = true
	m.mu.Unlock()
}

func (m *SharedMutex) Unlock() {
	m.mu.Lock()
	m.writerActive = false
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Upgrade releases the shared hold and reacquires exclusively. Because
// the release and acquire are not atomic, the section is logically
// broken: the caller must re-validate any invariant it relied on before
// continuing.
func (m *SharedMutex) Upgrade() {
	m.RUnlock()
	m.Lock()
}
