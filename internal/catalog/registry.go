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
package catalog

import (
	"cmp"
	"sort"
	"sync/atomic"
	"unsafe"
)

// Keyed is the contract a Registry's entries satisfy: each entry names
// its own lookup key.
type Keyed[K cmp.Ordered] interface {
	Key() K
}

// Registry is a read-optimized map: lookups are O(log N) and never
// block; inserts and removals build a fresh slice and swap it in (an
// insert re-sorts it, O(N log N)), while replacing an existing key
// swaps the entry pointer in place, and all of these are safe to race
// against any number of concurrent readers. Reads vastly outnumber writes here -- looking up a
// previously seen source happens on every call to read(), while a
// write only happens the first time a given source is read -- which is
// exactly the access pattern this shape is for.
type Registry[T Keyed[K], K cmp.Ordered] struct {
	p atomic.Pointer[[]*T]
}

func NewRegistry[T Keyed[K], K cmp.Ordered]() *Registry[T, K] {
	r := &Registry[T, K]{}
	empty := make([]*T, 0)
	r.p.Store(&empty)
	return r
}

func (r *Registry[T, K]) All() []*T {
	return *r.p.Load()
}

func (r *Registry[T, K]) Get(key K) *T {
	v, _, _ := r.find(key)
	return v
}

func (r *Registry[T, K]) find(key K) (*T, int, *[]*T) {
	items := r.p.Load()
	lower, upper := 0, len(*items)
	for lower < upper {
		pivot := (lower + upper) / 2
		itemKey := (*(*items)[pivot]).Key()
		switch {
		case key == itemKey:
			return (*items)[pivot], pivot, items
		case key < itemKey:
			upper = pivot
		default:
			lower = pivot + 1
		}
	}
	return nil, -1, items
}

// Set inserts v, or replaces the existing entry with the same key, and
// returns the entry it replaced (nil if this was an insert).
func (r *Registry[T, K]) Set(v *T) *T {
	for {
		item, pivot, handle := r.find((*v).Key())
		if pivot != -1 {
			if atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&(*handle)[pivot])), unsafe.Pointer(item), unsafe.Pointer(v)) {
				return item
			}
			continue
		}

		newHandle := make([]*T, 0, len(*handle)+1)
		newHandle = append(newHandle, (*handle)...)
		newHandle = append(newHandle, v)
		sort.Slice(newHandle, func(i, j int) bool {
			return (*newHandle[i]).Key() < (*newHandle[j]).Key()
		})
		if r.p.CompareAndSwap(handle, &newHandle) {
			return nil
		}
	}
}

func (r *Registry[T, K]) Remove(key K) *T {
	for {
		item, pivot, handle := r.find(key)
		if pivot == -1 {
			return nil
		}
		newHandle := make([]*T, 0, len(*handle)-1)
		newHandle = append(newHandle, (*handle)[:pivot]...)
		newHandle = append(newHandle, (*handle)[pivot+1:]...)
		if r.p.CompareAndSwap(handle, &newHandle) {
			return item
		}
	}
}
