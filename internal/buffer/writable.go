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
package buffer

import (
	"sync"
	"sync/atomic"
)

// WritableBuffer lets many parallel writers reserve disjoint output
// ranges without taking a lock on the copy itself: PrepWrite reserves an
// offset under an atomic counter, and the later WriteAt needs no further
// synchronization because no two reservations ever overlap. This is the
// buffer-layer half of the chunked reader's string-column output path
// (reserve a slot in each string column's output buffer, then write into it).
type WritableBuffer struct {
	mu     sync.Mutex // guards growth only, not individual writes
	owned  *Owned
	cursor int64
}

func NewWritableBuffer(initialCap int64) *WritableBuffer {
	return &WritableBuffer{owned: NewOwned(initialCap)}
}

// PrepWrite reserves sz bytes and returns the offset to write at. Safe to
// call concurrently: growth is serialized under mu, but the returned
// offsets never overlap.
func (w *WritableBuffer) PrepWrite(sz int64) int64 {
	off := atomic.AddInt64(&w.cursor, sz) - sz
	w.mu.Lock()
	if off+sz > w.owned.Size() {
		newCap := w.owned.Size()
		if newCap == 0 {
			newCap = 4096
		}
		for newCap < off+sz {
			newCap *= 2
		}
		w.owned.Resize(newCap)
	}
	w.mu.Unlock()
	return off
}

// WriteAt copies src into the previously reserved [offset, offset+len(src))
// range. No lock is needed here: PrepWrite already serialized growth and
// guaranteed disjoint ranges.
func (w *WritableBuffer) WriteAt(offset int64, src []byte) {
	copy(w.owned.Rptr()[offset:offset+int64(len(src))], src)
}

// Bytes returns the buffer truncated to the high-water mark written so
// far (PrepWrite may have over-allocated capacity via doubling).
func (w *WritableBuffer) Bytes() []byte {
	n := atomic.LoadInt64(&w.cursor)
	return w.owned.Rptr()[:n]
}

func (w *WritableBuffer) Len() int64 { return atomic.LoadInt64(&w.cursor) }

// Buffer exposes the underlying owned buffer for cases that want the
// full Buffer contract (e.g. materialize() writing into it directly).
func (w *WritableBuffer) Buffer() *Owned { return w.owned }
