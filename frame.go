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
package coldt

import (
	"fmt"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// Frame is the public, language-neutral Frame contract: an ordered
// tuple of named columns sharing one row count. It wraps
// internal/frame.DataTable -- the engine's working representation --
// behind a stable API so callers never touch virtual-column or buffer
// internals directly.
type Frame struct {
	dt *frame.DataTable
}

func wrap(dt *frame.DataTable) *Frame { return &Frame{dt: dt} }

// NewFrame builds a Frame from a mapping of column name to a Go-native
// slice ([]int64, []float64, []string, or []bool), the Go analogue of
// Frame(columns: mapping name->values). All slices must share one
// length. Column order follows names, not map iteration order.
func NewFrame(names []string, columns map[string]interface{}) (*Frame, error) {
	cols := make([]column.Column, len(names))
	for i, name := range names {
		v, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("coldt: column %q not present in columns map", name)
		}
		sc, err := columnFromSlice(v)
		if err != nil {
			return nil, fmt.Errorf("coldt: column %q: %w", name, err)
		}
		cols[i] = sc
	}
	dt, err := frame.New(names, cols, 0)
	if err != nil {
		return nil, err
	}
	return wrap(dt), nil
}

func columnFromSlice(v interface{}) (*column.StorageColumn, error) {
	switch vv := v.(type) {
	case []int64:
		sc := column.NewStorageColumn(column.Int64, int64(len(vv)))
		for i, x := range vv {
			sc.SetInt(int64(i), x)
		}
		return sc, nil
	case []float64:
		sc := column.NewStorageColumn(column.Float64, int64(len(vv)))
		for i, x := range vv {
			sc.SetFloat(int64(i), x)
		}
		return sc, nil
	case []bool:
		sc := column.NewStorageColumn(column.Bool8, int64(len(vv)))
		for i, x := range vv {
			if x {
				sc.SetInt(int64(i), 1)
			} else {
				sc.SetInt(int64(i), 0)
			}
		}
		return sc, nil
	case []string:
		sc := column.NewStorageColumn(column.Str64, int64(len(vv)))
		b := column.NewStrBuilder(sc)
		for i, x := range vv {
			b.WriteString(b.Reserve(int64(i), len(x)), x)
		}
		b.Finish()
		return sc, nil
	default:
		return nil, fmt.Errorf("unsupported column value type %T", v)
	}
}

func (f *Frame) Nrows() int64          { return f.dt.Nrows() }
func (f *Frame) Ncols() int            { return f.dt.Ncols() }
func (f *Frame) Names() []string       { return f.dt.Names() }
func (f *Frame) Stypes() []column.Stype { return f.dt.Stypes() }

// Key returns the values making up the declared key prefix's columns,
// or nil if the frame has no key.
func (f *Frame) Key() []column.Column { return f.dt.Key() }

// CheckKeyUnique verifies the key prefix (if any) is actually unique,
// the on-demand check DataTable.CheckKeyUnique performs.
func (f *Frame) CheckKeyUnique(p *rtpool.Pool) (ok bool, rowA, rowB int64, err error) {
	return f.dt.CheckKeyUnique(p)
}

func (f *Frame) ToList() [][]column.Element   { return f.dt.ToList() }
func (f *Frame) ToTuples() [][]column.Element { return f.dt.ToTuples() }

// Rbind stacks frames vertically. force relaxes the requirement that
// every frame share exactly the same names/stypes, casting mismatched
// columns up to their widest common stype instead.
func (f *Frame) Rbind(force bool, others ...*Frame) (*Frame, error) {
	dts := make([]*frame.DataTable, len(others))
	for i, o := range others {
		dts[i] = o.dt
	}
	out, err := f.dt.Rbind(force, dts...)
	if err != nil {
		return nil, err
	}
	return wrap(out), nil
}

// Cbind concatenates frames horizontally.
func (f *Frame) Cbind(force bool, others ...*Frame) (*Frame, error) {
	dts := make([]*frame.DataTable, len(others))
	for i, o := range others {
		dts[i] = o.dt
	}
	out, err := f.dt.Cbind(force, dts...)
	if err != nil {
		return nil, err
	}
	return wrap(out), nil
}

func (f *Frame) Head(n int64) *Frame { return wrap(f.dt.Head(n)) }
func (f *Frame) Tail(n int64) *Frame { return wrap(f.dt.Tail(n)) }
func (f *Frame) Copy() *Frame        { return wrap(f.dt.Copy()) }

// Repeat tiles f vertically n times at O(1) memory cost.
func Repeat(f *Frame, n int64) *Frame { return wrap(frame.Repeat(f.dt, n)) }
