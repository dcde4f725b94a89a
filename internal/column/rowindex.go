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

// RowIndexNA is the sentinel meaning "this logical row is an NA synthesized by
// the mapping" for a RowIndex lookup.
const RowIndexNA int64 = -1

// RowIndexKind distinguishes the two representations a RowIndex can take.
type RowIndexKind uint8

const (
	RISlice RowIndexKind = iota
	RIArray
)

// RowIndex maps a logical row i to a physical row j. A SLICE is stored
// as (start, step, length); an ARR32/ARR64-equivalent is stored as a
// plain []int64 (Go's int64 covers both physical widths a 32/64-bit split
// into ARR32/ARR64 -- the width distinction in the source is a memory
// optimization this implementation does not need to expose).
type RowIndex struct {
	Kind         RowIndexKind
	start, step  int64
	length       int64
	arr          []int64
}

func NewSliceRowIndex(start, step, length int64) RowIndex {
	return RowIndex{Kind: RISlice, start: start, step: step, length: length}
}

func NewArrayRowIndex(arr []int64) RowIndex {
	return RowIndex{Kind: RIArray, arr: arr, length: int64(len(arr))}
}

func (r RowIndex) Length() int64 { return r.length }

// At returns the physical row for logical row i, or RowIndexNA.
func (r RowIndex) At(i int64) int64 {
	if i < 0 || i >= r.length {
		return RowIndexNA
	}
	switch r.Kind {
	case RISlice:
		return r.start + i*r.step
	default:
		return r.arr[i]
	}
}

// Compose returns a ∘ b: the RowIndex that maps logical row i of the
// result to a.At(b.At(i)), so RowIndexed(RowIndexed(V, a), b) is
// value-equal to RowIndexed(V, a ∘ b).
func Compose(a, b RowIndex) RowIndex {
	if a.Kind == RISlice && b.Kind == RISlice {
		return NewSliceRowIndex(a.At(b.start), a.step*b.step, b.length)
	}
	out := make([]int64, b.length)
	for i := int64(0); i < b.length; i++ {
		j := b.At(i)
		if j == RowIndexNA {
			out[i] = RowIndexNA
		} else {
			out[i] = a.At(j)
		}
	}
	return NewArrayRowIndex(out)
}

// IsIdentity reports whether r maps every logical row i to itself -- used
// by the universal invariant "for RowIndices where R[i]=i, RowIndexed(V,R)
// is value-equal to V".
func (r RowIndex) IsIdentity() bool {
	if r.Kind == RISlice {
		return r.start == 0 && r.step == 1
	}
	for i, v := range r.arr {
		if v != int64(i) {
			return false
		}
	}
	return true
}
