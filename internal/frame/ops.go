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
package frame

import (
	"fmt"

	"github.com/memcolumn/coldt/internal/column"
)

// Rbind stacks frames vertically by chaining each name's columns in a
// concatColumn rather than copying bytes, the same "build a virtual view first,
// materialize lazily" posture the column package uses throughout. Every
// frame must share dt's names and stypes unless force is true, in which
// case columns are cast to the widest stype seen per name.
func (dt *DataTable) Rbind(force bool, others ...*DataTable) (*DataTable, error) {
	all := append([]*DataTable{dt}, others...)
	totalRows := int64(0)
	for _, f := range all {
		totalRows += f.nrows
	}
	outCols := make([]column.Column, len(dt.columns))
	for ci, name := range dt.names {
		targetStype := dt.columns[ci].Stype()
		if force {
			for _, f := range all[1:] {
				if oc := f.Column(name); oc != nil && oc.Stype() > targetStype {
					targetStype = oc.Stype()
				}
			}
		}
		parts := make([]column.Column, 0, len(all))
		for _, f := range all {
			oc := f.Column(name)
			if oc == nil {
				if !force {
					return nil, fmt.Errorf("frame: rbind: column %q missing in a frame", name)
				}
				oc = column.NewConst(targetStype, f.nrows, column.NA())
			}
			if force && oc.Stype() != targetStype {
				oc = column.NewCast(oc, targetStype)
			} else if !force && oc.Stype() != targetStype {
				return nil, fmt.Errorf("frame: rbind: column %q stype mismatch (use force=true)", name)
			}
			parts = append(parts, oc)
		}
		outCols[ci] = newConcat(parts)
	}
	out, err := New(dt.names, outCols, 0)
	if err != nil {
		return nil, err
	}
	if out.nrows != totalRows {
		return nil, fmt.Errorf("frame: rbind: row count invariant violated")
	}
	return out, nil
}

// concatColumn is a virtual column that chains several columns end to
// end without copying, used by Rbind. It is the multi-source analogue
// of column.RowIndexed: a logical row maps to (part index, local row).
type concatColumn struct {
	parts  []column.Column
	bounds []int64 // cumulative row counts, bounds[0]=0
	stype  column.Stype
}

func newConcat(parts []column.Column) *concatColumn {
	bounds := make([]int64, len(parts)+1)
	stype := column.Void
	for i, p := range parts {
		bounds[i+1] = bounds[i] + p.Nrows()
		if p.Stype() > stype {
			stype = p.Stype()
		}
	}
	return &concatColumn{parts: parts, bounds: bounds, stype: stype}
}

func (c *concatColumn) Nrows() int64      { return c.bounds[len(c.bounds)-1] }
func (c *concatColumn) Stype() column.Stype { return c.stype }
func (c *concatColumn) GetElement(i int64) column.Element {
	lo, hi := 0, len(c.parts)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.bounds[mid+1] <= i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return c.parts[lo].GetElement(i - c.bounds[lo])
}

// Cbind concatenates frames horizontally. Row counts must agree unless
// force is true, in which case shorter frames are padded with NA rows
// by concatenating each column with an NA column.Const -- no bytes are
// copied for the padding.
func (dt *DataTable) Cbind(force bool, others ...*DataTable) (*DataTable, error) {
	all := append([]*DataTable{dt}, others...)
	maxRows := int64(0)
	totalCols := 0
	for _, f := range all {
		if f.nrows > maxRows {
			maxRows = f.nrows
		}
		totalCols += f.Ncols()
	}
	names := make([]string, 0, totalCols)
	cols := make([]column.Column, 0, totalCols)
	seen := make(map[string]struct{}, totalCols)
	for _, f := range all {
		if f.nrows != maxRows && !force {
			return nil, fmt.Errorf("frame: cbind: row count mismatch (use force=true)")
		}
		for i, n := range f.names {
			c := f.columns[i]
			if f.nrows < maxRows {
				pad := column.NewConst(c.Stype(), maxRows-f.nrows, column.NA())
				c = newConcat([]column.Column{c, pad})
			}
			name := n
			for k := 1; ; k++ {
				if _, dup := seen[name]; !dup {
					break
				}
				name = fmt.Sprintf("%s.%d", n, k)
			}
			seen[name] = struct{}{}
			names = append(names, name)
			cols = append(cols, c)
		}
	}
	out, err := New(names, cols, 0)
	if err != nil {
		return nil, err
	}
	if out.Ncols() != totalCols {
		return nil, fmt.Errorf("frame: cbind: column count invariant violated")
	}
	return out, nil
}

// Head returns the first n rows as a new, row-indexed view.
func (dt *DataTable) Head(n int64) *DataTable { return dt.slice(0, min64(n, dt.nrows)) }

// Tail returns the last n rows.
func (dt *DataTable) Tail(n int64) *DataTable {
	n = min64(n, dt.nrows)
	return dt.slice(dt.nrows-n, n)
}

func (dt *DataTable) slice(start, length int64) *DataTable {
	ri := column.NewSliceRowIndex(start, 1, length)
	cols := make([]column.Column, len(dt.columns))
	for i, c := range dt.columns {
		cols[i] = column.NewRowIndexed(c, ri)
	}
	out, _ := New(dt.names, cols, dt.nkeys)
	return out
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Copy returns a shallow copy: same column references, independent
// name/nrows/nkeys bookkeeping, mirroring memcp's "columns are
// reference-shareable" lifecycle rule.
func (dt *DataTable) Copy() *DataTable {
	out, _ := New(dt.names, dt.columns, dt.nkeys)
	return out
}

// Repeat tiles a frame vertically n times using column.Repeat on every
// column, so a 1,000,000x repeat of a single-row frame costs O(1)
// memory exactly like Repeat(Const) does at the column level.
func Repeat(dt *DataTable, n int64) *DataTable {
	cols := make([]column.Column, len(dt.columns))
	for i, c := range dt.columns {
		cols[i] = column.NewRepeat(c, n)
	}
	out, _ := New(dt.names, cols, 0)
	return out
}
