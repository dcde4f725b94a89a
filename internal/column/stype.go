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

// Package column implements the columnar data model: typed storage
// columns, the virtual-column hierarchy (const/range/repeat/row-indexed/
// cast), row indices and materialization. It follows memcp's tagged
// per-type storage files (storage-int.go, storage-float.go,
// storage-string.go) in spirit -- one concrete Go type per stype rather
// than a single boxed value -- but each storage column here has the
// fixed element width this design requires, instead of memcp's
// variable bit-packed integer compression.
package column

import "math"

// Stype is the storage type of a column's elements.
type Stype uint8

const (
	Void Stype = iota
	Bool8
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Str32
	Str64
)

func (s Stype) String() string {
	switch s {
	case Void:
		return "void"
	case Bool8:
		return "bool8"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Str32:
		return "str32"
	case Str64:
		return "str64"
	default:
		return "unknown"
	}
}

// Ltype is the coarser logical-type bucket over stypes.
type Ltype uint8

const (
	LBool Ltype = iota
	LInt
	LReal
	LString
	LObject
)

func (s Stype) Ltype() Ltype {
	switch s {
	case Bool8:
		return LBool
	case Int8, Int16, Int32, Int64:
		return LInt
	case Float32, Float64:
		return LReal
	case Str32, Str64:
		return LString
	default:
		return LObject
	}
}

// ElemSize is the fixed per-element width of the stype's data buffer (for
// strings, the width of one offset entry; the string bytes themselves
// live in a separate, variable-length str_buffer).
func (s Stype) ElemSize() int64 {
	switch s {
	case Void:
		return 0
	case Bool8, Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32, Str32:
		return 4
	case Int64, Float64, Str64:
		return 8
	default:
		return 0
	}
}

// NA sentinels: min-int for signed integers, NaN for floats, and a
// negative offset for strings (handled at the storage-column level since
// it depends on the running cumulative offset, not a fixed constant).
const (
	NAInt8  = int8(math.MinInt8)
	NAInt16 = int16(math.MinInt16)
	NAInt32 = int32(math.MinInt32)
	NAInt64 = int64(math.MinInt64)
)

func NAFloat32() float32 { return float32(math.NaN()) }
func NAFloat64() float64 { return math.NaN() }

func IsNAFloat64(v float64) bool { return math.IsNaN(v) }
func IsNAFloat32(v float32) bool { return math.IsNaN(float64(v)) }
