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

// Package xindex is a secondary key index over a DataTable's nkeys
// prefix, adapted from memcp's storage/index.go (which keeps a
// btree.BTreeG[indexPair] over a shard's delta rows alongside a sorted
// StorageInt over its main rows). Here the whole table is immutable once
// read(), so there is no main/delta split -- one btree covers every row,
// built lazily and used both to enforce key uniqueness ("enforced on
// key-set) and to answer ordered range lookups.
package xindex

import (
	"fmt"

	"github.com/google/btree"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// Key is the tuple of key-column values for one row, compared
// lexicographically the way memcp's indexPair sorts "equal-cols
// alphabetically" before a range query.
type Key struct {
	Values []column.Element
	Row    int64
}

func less(a, b Key) bool {
	for i := range a.Values {
		c := compareElement(a.Values[i], b.Values[i])
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func compareElement(a, b column.Element) int {
	if !a.Valid && !b.Valid {
		return 0
	}
	if !a.Valid {
		return -1
	}
	if !b.Valid {
		return 1
	}
	switch {
	case a.S != "" || b.S != "":
		if a.S < b.S {
			return -1
		} else if a.S > b.S {
			return 1
		}
		return 0
	default:
		av, bv := a.I, b.I
		if a.F != 0 || b.F != 0 {
			fa, fb := a.F, b.F
			if fa < fb {
				return -1
			} else if fa > fb {
				return 1
			}
			return 0
		}
		if av < bv {
			return -1
		} else if av > bv {
			return 1
		}
		return 0
	}
}

// Index is a btree-backed secondary index over one or more columns.
type Index struct {
	cols []column.Column
	tree *btree.BTreeG[Key]
}

// Build scans the given key columns in parallel chunks (grounded in
// memcp's "scan" then "build" two-phase pattern from storage/shard.go's
// rebuild) and inserts each row's key tuple into the btree. Chunk results
// are collected locally and merged under a single ReplaceOrInsert pass
// since google/btree's BTreeG is not safe for concurrent writers.
func Build(p *rtpool.Pool, cols []column.Column) (*Index, error) {
	idx := &Index{cols: cols, tree: btree.NewG(32, less)}
	if len(cols) == 0 {
		return idx, nil
	}
	n := cols[0].Nrows()
	type chunkResult struct{ keys []Key }
	nthreads := p.NumThreads()
	if nthreads < 1 {
		nthreads = 1
	}
	results := make([]chunkResult, nthreads)
	err := p.ParallelForStatic(int(n), 4096, func(start, end, threadIndex int) {
		for i := int64(start); i < int64(end); i++ {
			vals := make([]column.Element, len(cols))
			for c, col := range cols {
				vals[c] = col.GetElement(i)
			}
			results[threadIndex].keys = append(results[threadIndex].keys, Key{Values: vals, Row: i})
		}
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		for _, k := range r.keys {
			idx.tree.ReplaceOrInsert(k)
		}
	}
	return idx, nil
}

// CheckUnique reports the row numbers of the first duplicate key found,
// if any -- used to enforce a DataTable's nkeys prefix being a unique
// key, since uniqueness is enforced on the key set.
func (idx *Index) CheckUnique() (dupRowA, dupRowB int64, dup bool) {
	var prev *Key
	var found bool
	idx.tree.Ascend(func(k Key) bool {
		if prev != nil && !less(*prev, k) && !less(k, *prev) {
			dupRowA, dupRowB, found = prev.Row, k.Row, true
			return false
		}
		kk := k
		prev = &kk
		return true
	})
	return dupRowA, dupRowB, found
}

// Lookup returns every row matching the given key values exactly.
func (idx *Index) Lookup(values []column.Element) []int64 {
	pivot := Key{Values: values, Row: -1}
	var rows []int64
	idx.tree.AscendGreaterOrEqual(pivot, func(k Key) bool {
		for i, v := range values {
			if compareElement(k.Values[i], v) != 0 {
				return false
			}
		}
		rows = append(rows, k.Row)
		return true
	})
	return rows
}

func (idx *Index) String() string {
	return fmt.Sprintf("xindex(%d cols, %d rows)", len(idx.cols), idx.tree.Len())
}
