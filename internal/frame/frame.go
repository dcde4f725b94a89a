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

// Package frame is the DataTable layer: an ordered tuple of columns
// sharing one nrows, with unique non-empty names and an optional unique
// key prefix. memcp's storage/table.go keeps a schema-level Columns
// slice plus per-shard storage; there is no sharding concept here since
// a DataTable is a single immutable in-memory result, so this package
// collapses that into one flat struct and borrows table.go's column
// bookkeeping style (name list, mutex-guarded mutation) instead of its
// shard list.
package frame

import (
	"fmt"
	"sync"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/rtpool"
	"github.com/memcolumn/coldt/internal/xindex"
)

// DataTable is an ordered tuple of columns with a common row count, a
// unique ordered name sequence, and an optional key prefix of width
// nkeys enforced on demand rather than on every mutation.
type DataTable struct {
	mu      sync.Mutex
	names   []string
	columns []column.Column
	nrows   int64
	nkeys   int
}

// New validates the DataTable invariants up front: equal nrows across
// columns, unique non-empty names, nkeys within bounds.
func New(names []string, cols []column.Column, nkeys int) (*DataTable, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("frame: %d names for %d columns", len(names), len(cols))
	}
	if nkeys < 0 || nkeys > len(cols) {
		return nil, fmt.Errorf("frame: nkeys %d out of range [0,%d]", nkeys, len(cols))
	}
	seen := make(map[string]struct{}, len(names))
	var nrows int64 = -1
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("frame: column %d has empty name", i)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("frame: duplicate column name %q", n)
		}
		seen[n] = struct{}{}
		if nrows == -1 {
			nrows = cols[i].Nrows()
		} else if cols[i].Nrows() != nrows {
			return nil, fmt.Errorf("frame: column %q has %d rows, expected %d", n, cols[i].Nrows(), nrows)
		}
	}
	if nrows == -1 {
		nrows = 0
	}
	dt := &DataTable{
		names:   append([]string(nil), names...),
		columns: append([]column.Column(nil), cols...),
		nrows:   nrows,
		nkeys:   nkeys,
	}
	return dt, nil
}

func (dt *DataTable) Nrows() int64   { return dt.nrows }
func (dt *DataTable) Ncols() int     { return len(dt.columns) }
func (dt *DataTable) Nkeys() int     { return dt.nkeys }
func (dt *DataTable) Names() []string {
	return append([]string(nil), dt.names...)
}

func (dt *DataTable) Stypes() []column.Stype {
	out := make([]column.Stype, len(dt.columns))
	for i, c := range dt.columns {
		out[i] = c.Stype()
	}
	return out
}

// Column looks a column up by name, returning nil if absent.
func (dt *DataTable) Column(name string) column.Column {
	for i, n := range dt.names {
		if n == name {
			return dt.columns[i]
		}
	}
	return nil
}

func (dt *DataTable) ColumnAt(i int) column.Column { return dt.columns[i] }

// Key returns the key columns (the first Nkeys columns), or nil if the
// table has no declared key.
func (dt *DataTable) Key() []column.Column {
	if dt.nkeys == 0 {
		return nil
	}
	return dt.columns[:dt.nkeys]
}

// CheckKeyUnique builds a secondary index over the key prefix and
// reports whether it is actually a unique key, matching the DataTable
// invariant's "not enforced on read, enforced on key-set" wording: the
// check is opt-in, run only when a caller actually demands the
// guarantee rather than on every construction.
func (dt *DataTable) CheckKeyUnique(p *rtpool.Pool) (ok bool, rowA, rowB int64, err error) {
	if dt.nkeys == 0 {
		return true, 0, 0, nil
	}
	idx, err := xindex.Build(p, dt.Key())
	if err != nil {
		return false, 0, 0, err
	}
	a, b, dup := idx.CheckUnique()
	return !dup, a, b, nil
}

// ToTuples renders the whole table row-major, the Go analogue of
// Frame.to_tuples().
func (dt *DataTable) ToTuples() [][]column.Element {
	out := make([][]column.Element, dt.nrows)
	for r := range out {
		row := make([]column.Element, len(dt.columns))
		for c, col := range dt.columns {
			row[c] = col.GetElement(int64(r))
		}
		out[r] = row
	}
	return out
}

// ToList renders the table column-major, the Go analogue of
// Frame.to_list().
func (dt *DataTable) ToList() [][]column.Element {
	out := make([][]column.Element, len(dt.columns))
	for c, col := range dt.columns {
		vals := make([]column.Element, dt.nrows)
		for r := range vals {
			vals[r] = col.GetElement(int64(r))
		}
		out[c] = vals
	}
	return out
}
