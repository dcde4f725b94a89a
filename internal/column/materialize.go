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
package column

import "github.com/memcolumn/coldt/internal/rtpool"

// Materialize turns any column into a storage column. Fixed-width
// stypes fill their buffer in parallel via ParallelForStatic, since each
// row is independent; string stypes use ParallelForOrdered because their
// offsets are cumulative and must be assigned in row order, exactly as
// the virtual-column dispatch rules specify.
func Materialize(p *rtpool.Pool, c Column) (*StorageColumn, error) {
	if sc, ok := c.(*StorageColumn); ok {
		return sc, nil
	}
	n := c.Nrows()
	out := NewStorageColumn(c.Stype(), n)
	if c.Stype().Ltype() == LString {
		if err := materializeString(p, c, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	err := p.ParallelForStatic(int(n), 4096, func(start, end, _ int) {
		for i := int64(start); i < int64(end); i++ {
			e := c.GetElement(i)
			if !e.Valid {
				out.SetNA(i)
				continue
			}
			switch c.Stype().Ltype() {
			case LReal:
				out.SetFloat(i, e.F)
			default:
				out.SetInt(i, e.I)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type strMatCtx struct{}

func materializeString(p *rtpool.Pool, c Column, out *StorageColumn) error {
	b := NewStrBuilder(out)
	nthreads := p.NumThreads()
	err := rtpool.ParallelForOrdered(p, int(c.Nrows()), nthreads, rtpool.OrderedBody[strMatCtx]{
		NewContext: func(int) strMatCtx { return strMatCtx{} },
		Parallel:   func(strMatCtx, int, int) {}, // reading c.GetElement is cheap; do it in Ordered directly
		Ordered: func(_ strMatCtx, i int, setN func(int)) {
			e := c.GetElement(int64(i))
			if !e.Valid {
				b.ReserveNA(int64(i))
				return
			}
			off := b.Reserve(int64(i), len(e.S))
			b.WriteString(off, e.S)
		},
		Finalize: func(strMatCtx, int, int) {},
	})
	if err != nil {
		return err
	}
	b.Finish()
	return nil
}
