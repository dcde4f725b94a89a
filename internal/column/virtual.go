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

// The virtual-column hierarchy is written here as a small closed set of
// tagged structs rather than a class hierarchy, per the design notes'
// guidance for systems languages without runtime inheritance dispatch.

// Const returns v (or NA) for every row.
type Const struct {
	stype Stype
	nrows int64
	value Element
}

func NewConst(stype Stype, nrows int64, value Element) *Const {
	return &Const{stype: stype, nrows: nrows, value: value}
}

func (c *Const) Nrows() int64          { return c.nrows }
func (c *Const) Stype() Stype          { return c.stype }
func (c *Const) GetElement(i int64) Element {
	if i < 0 || i >= c.nrows {
		return NA()
	}
	return c.value
}

// Range returns start + i*step, narrowed to stype with documented
// wraparound on overflow.
type Range struct {
	stype       Stype
	nrows       int64
	start, step int64
}

// NewRange builds the Range(start, stop, step) virtual column,
// pre-computing the row count the same way Python's range() does.
func NewRange(start, stop, step int64, stype Stype) *Range {
	if step == 0 {
		panic("range: step must not be zero")
	}
	var n int64
	if step > 0 {
		if stop > start {
			n = (stop - start + step - 1) / step
		}
	} else {
		if stop < start {
			n = (start - stop - step - 1) / (-step)
		}
	}
	return &Range{stype: stype, nrows: n, start: start, step: step}
}

func (r *Range) Nrows() int64 { return r.nrows }
func (r *Range) Stype() Stype { return r.stype }
func (r *Range) GetElement(i int64) Element {
	if i < 0 || i >= r.nrows {
		return NA()
	}
	return IntElement(narrow(r.start+i*r.step, r.stype))
}

func narrow(v int64, stype Stype) int64 {
	switch stype {
	case Int8:
		return int64(int8(v))
	case Int16:
		return int64(int16(v))
	case Int32:
		return int64(int32(v))
	default:
		return v
	}
}

// Repeat returns base.GetElement(i mod base.Nrows()). ntimes=0 is
// disallowed; a 1-row base collapses to Const at construction time so the
// repeated form never recurses into an infinite chain.
type Repeat struct {
	base    Column
	nrows   int64
}

// NewRepeat implements the dispatch rule: a 1-row base becomes
// Const(v, ntimes); any wider base becomes an actual Repeat wrapper.
func NewRepeat(base Column, ntimes int64) Column {
	if ntimes == 0 {
		panic("repeat: ntimes must be > 0")
	}
	if base.Nrows() == 1 {
		return NewConst(base.Stype(), ntimes, base.GetElement(0))
	}
	if ntimes == 1 {
		return base
	}
	return &Repeat{base: base, nrows: base.Nrows() * ntimes}
}

func (r *Repeat) Nrows() int64 { return r.nrows }
func (r *Repeat) Stype() Stype { return r.base.Stype() }
func (r *Repeat) GetElement(i int64) Element {
	if i < 0 || i >= r.nrows {
		return NA()
	}
	return r.base.GetElement(i % r.base.Nrows())
}

// RowIndexed returns NA if ri[i]==NA, else base.GetElement(ri[i]).
type RowIndexed struct {
	base Column
	ri   RowIndex
}

// NewRowIndexed composes ri with base's own row index when base is
// itself a RowIndexed, satisfying the composition invariant
// RowIndexed(RowIndexed(V,R1),R2) ≡ RowIndexed(V, R1∘R2) without the
// caller needing to special-case it.
func NewRowIndexed(base Column, ri RowIndex) Column {
	if ri.IsIdentity() && ri.Length() == base.Nrows() {
		return base
	}
	if inner, ok := base.(*RowIndexed); ok {
		return &RowIndexed{base: inner.base, ri: Compose(inner.ri, ri)}
	}
	return &RowIndexed{base: base, ri: ri}
}

func (r *RowIndexed) Nrows() int64 { return r.ri.Length() }
func (r *RowIndexed) Stype() Stype { return r.base.Stype() }
func (r *RowIndexed) GetElement(i int64) Element {
	j := r.ri.At(i)
	if j == RowIndexNA {
		return NA()
	}
	return r.base.GetElement(j)
}

// NewSliced is the specialization of RowIndexed for a slice -- it is
// simply NewRowIndexed with a SLICE RowIndex; kept as a named
// constructor because the chunked reader and Frame.head/tail/copy call
// it by this more specific name.
func NewSliced(base Column, start, step, length int64) Column {
	return NewRowIndexed(base, NewSliceRowIndex(start, step, length))
}

// Cast performs a numeric-to-numeric cast with target-type saturation
// semantics for signed narrowing, truncation for float-to-int, and NA
// propagation.
type Cast struct {
	base   Column
	target Stype
}

func NewCast(base Column, target Stype) Column {
	if base.Stype() == target {
		return base
	}
	return &Cast{base: base, target: target}
}

func (c *Cast) Nrows() int64 { return c.base.Nrows() }
func (c *Cast) Stype() Stype { return c.target }
func (c *Cast) GetElement(i int64) Element {
	e := c.base.GetElement(i)
	if !e.Valid {
		return NA()
	}
	switch c.target.Ltype() {
	case LInt, LBool:
		var v int64
		if c.base.Stype().Ltype() == LReal {
			v = int64(e.F) // truncation for float-to-int
		} else {
			v = e.I
		}
		return IntElement(saturate(v, c.target))
	case LReal:
		if c.base.Stype().Ltype() == LReal {
			return FloatElement(e.F)
		}
		return FloatElement(float64(e.I))
	case LString:
		return StrElement(formatElement(e, c.base.Stype()))
	default:
		return NA()
	}
}

func saturate(v int64, target Stype) int64 {
	switch target {
	case Int8:
		if v > 127 {
			return 127
		}
		if v < -128 {
			return -128
		}
		return v
	case Int16:
		if v > 32767 {
			return 32767
		}
		if v < -32768 {
			return -32768
		}
		return v
	case Int32:
		if v > 2147483647 {
			return 2147483647
		}
		if v < -2147483648 {
			return -2147483648
		}
		return v
	case Bool8:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return v
	}
}
