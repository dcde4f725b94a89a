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

import (
	"github.com/memcolumn/coldt/internal/buffer"
)

// StorageColumn is a materialized, fixed-width-per-stype column: a data
// buffer (and, for strings, a separate concatenated-bytes buffer),
// plus an optional stats cache. NA sentinels follow the usual convention: min-int for
// signed integers, NaN for floats, and a negative offset for strings.
type StorageColumn struct {
	stype Stype
	nrows int64
	data  buffer.Buffer // fixed-width elements, or nrows+1 int32/int64 offsets for strings
	str   buffer.Buffer // concatenated string bytes, nil for non-string stypes
	stats Stats
}

func NewStorageColumn(stype Stype, nrows int64) *StorageColumn {
	c := &StorageColumn{stype: stype, nrows: nrows}
	switch stype.Ltype() {
	case LString:
		c.data = buffer.NewOwned((nrows + 1) * stype.ElemSize())
		c.str = buffer.NewOwned(0)
	default:
		c.data = buffer.NewOwned(nrows * stype.ElemSize())
	}
	return c
}

// WrapStorageColumn builds a StorageColumn directly over existing
// buffers instead of allocating fresh ones -- used when a column's
// bytes are already sitting in a mapped or read file, such as a Jay
// payload, and copying them into a new Owned buffer would be wasted work.
func WrapStorageColumn(stype Stype, nrows int64, data, str buffer.Buffer) *StorageColumn {
	return &StorageColumn{stype: stype, nrows: nrows, data: data, str: str}
}

func (c *StorageColumn) Nrows() int64 { return c.nrows }
func (c *StorageColumn) Stype() Stype { return c.stype }
func (c *StorageColumn) Stats() *Stats {
	return &c.stats
}

// DataBuffer and StrBuffer expose the column's raw backing buffers for
// serialization (the Jay writer copies their bytes verbatim).
func (c *StorageColumn) DataBuffer() buffer.Buffer { return c.data }
func (c *StorageColumn) StrBuffer() buffer.Buffer  { return c.str }

// Invalidate drops the cached stats -- called after any mutation so a
// stale stats cache is never observed.
func (c *StorageColumn) Invalidate() { c.stats.Invalidate() }

func (c *StorageColumn) GetElement(i int64) Element {
	switch c.stype {
	case Bool8:
		v := buffer.GetElement[int8](c.data, i)
		if v == NAInt8 {
			return NA()
		}
		return BoolElement(v != 0)
	case Int8:
		v := buffer.GetElement[int8](c.data, i)
		if v == NAInt8 {
			return NA()
		}
		return IntElement(int64(v))
	case Int16:
		v := buffer.GetElement[int16](c.data, i)
		if v == NAInt16 {
			return NA()
		}
		return IntElement(int64(v))
	case Int32:
		v := buffer.GetElement[int32](c.data, i)
		if v == NAInt32 {
			return NA()
		}
		return IntElement(int64(v))
	case Int64:
		v := buffer.GetElement[int64](c.data, i)
		if v == NAInt64 {
			return NA()
		}
		return IntElement(v)
	case Float32:
		v := buffer.GetElement[float32](c.data, i)
		if IsNAFloat32(v) {
			return NA()
		}
		return FloatElement(float64(v))
	case Float64:
		v := buffer.GetElement[float64](c.data, i)
		if IsNAFloat64(v) {
			return NA()
		}
		return FloatElement(v)
	case Str32:
		return c.getStr32(i)
	case Str64:
		return c.getStr64(i)
	default:
		return NA()
	}
}

// abs32/abs64 strip the NA sign bit off a string offset.
func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (c *StorageColumn) getStr32(i int64) Element {
	start := abs32(buffer.GetElement[int32](c.data, i))
	endRaw := buffer.GetElement[int32](c.data, i+1)
	if endRaw < 0 {
		return NA() // sign bit on the end offset marks this row NA
	}
	return StrElement(string(c.str.Rptr()[start:endRaw]))
}

func (c *StorageColumn) getStr64(i int64) Element {
	start := abs64(buffer.GetElement[int64](c.data, i))
	endRaw := buffer.GetElement[int64](c.data, i+1)
	if endRaw < 0 {
		return NA()
	}
	return StrElement(string(c.str.Rptr()[start:endRaw]))
}

// SetInt/SetFloat/SetBool/SetNA write a single element at index i into a
// fixed-width column -- used by the chunked reader's finalize phase and
// by materialize().
func (c *StorageColumn) SetInt(i int64, v int64) {
	switch c.stype {
	case Int8:
		buffer.SetElement[int8](c.data, i, int8(v))
	case Int16:
		buffer.SetElement[int16](c.data, i, int16(v))
	case Int32:
		buffer.SetElement[int32](c.data, i, int32(v))
	case Int64:
		buffer.SetElement[int64](c.data, i, v)
	case Bool8:
		if v != 0 {
			buffer.SetElement[int8](c.data, i, 1)
		} else {
			buffer.SetElement[int8](c.data, i, 0)
		}
	}
}

func (c *StorageColumn) SetFloat(i int64, v float64) {
	switch c.stype {
	case Float32:
		buffer.SetElement[float32](c.data, i, float32(v))
	case Float64:
		buffer.SetElement[float64](c.data, i, v)
	}
}

func (c *StorageColumn) SetNA(i int64) {
	switch c.stype {
	case Int8:
		buffer.SetElement[int8](c.data, i, NAInt8)
	case Int16:
		buffer.SetElement[int16](c.data, i, NAInt16)
	case Int32:
		buffer.SetElement[int32](c.data, i, NAInt32)
	case Int64:
		buffer.SetElement[int64](c.data, i, NAInt64)
	case Bool8:
		buffer.SetElement[int8](c.data, i, NAInt8)
	case Float32:
		buffer.SetElement[float32](c.data, i, NAFloat32())
	case Float64:
		buffer.SetElement[float64](c.data, i, NAFloat64())
	}
}

// StrBuilder accumulates string column output: PrepWrite reserves a byte
// range in the str buffer for row i's value (or marks it NA), and the
// caller (typically the chunked reader's finalize phase) writes the
// bytes independently. This mirrors the reserve-a-slot-via-
// prep_write" / "write fixed-width values and strings ... from the
// thread-local buffers" split between ordered and finalize phases.
type StrBuilder struct {
	col    *StorageColumn
	sink   *buffer.WritableBuffer
}

func NewStrBuilder(col *StorageColumn) *StrBuilder {
	return &StrBuilder{col: col, sink: buffer.NewWritableBuffer(4096)}
}

// ReserveNA must be called in strictly increasing row order (from the
// chunked reader's ordered phase): it records row i as NA by writing the
// negative of the current cumulative byte offset into o[i+1], so the
// next row's start (abs(o[i+1])) still lines up with the running total.
func (b *StrBuilder) ReserveNA(i int64) {
	cur := b.sink.Len()
	b.setOffset(i+1, -cur)
}

// Reserve allocates n bytes for row i's string payload and returns the
// byte offset to WriteString into later. Must also be called in strictly
// increasing row order -- the cumulative offsets array this builds is
// only correct because prep_write's atomic counter advances in the same
// order the ordered phase calls Reserve.
func (b *StrBuilder) Reserve(i int64, n int) int64 {
	off := b.sink.PrepWrite(int64(n))
	b.setOffset(i+1, off+int64(n))
	return off
}

func (b *StrBuilder) WriteString(off int64, s string) {
	b.sink.WriteAt(off, []byte(s))
}

func (b *StrBuilder) setOffset(i int64, v int64) {
	switch b.col.stype {
	case Str32:
		buffer.SetElement[int32](b.col.data, i, int32(v))
	case Str64:
		buffer.SetElement[int64](b.col.data, i, v)
	}
}

// Finish copies the accumulated bytes into the column's str buffer. The
// offsets array is already in its final form -- no postprocessing pass
// needed.
func (b *StrBuilder) Finish() {
	data := b.sink.Bytes()
	sb := buffer.NewOwned(int64(len(data)))
	copy(sb.Rptr(), data)
	b.col.str = sb
}
