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

// Element is a tagged-union out-parameter for Column.GetElement -- the Go
// rendering of the overloaded "get_element(i, out) -> (value,
// is_valid)" contract. Rather than one method per physical type (which
// Go cannot overload), a single struct carries whichever field the
// column's Ltype uses; Valid mirrors the bool return.
type Element struct {
	Valid bool
	I     int64   // Bool8/Int8/Int16/Int32/Int64, sign-extended
	F     float64 // Float32/Float64
	S     string  // Str32/Str64
}

var naElement = Element{Valid: false}

func NA() Element                  { return naElement }
func IntElement(v int64) Element   { return Element{Valid: true, I: v} }
func FloatElement(v float64) Element { return Element{Valid: true, F: v} }
func StrElement(v string) Element  { return Element{Valid: true, S: v} }
func BoolElement(v bool) Element {
	if v {
		return Element{Valid: true, I: 1}
	}
	return Element{Valid: true, I: 0}
}

// Column is the contract every storage and virtual column satisfies.
type Column interface {
	Nrows() int64
	Stype() Stype
	GetElement(i int64) Element
}

// Stats holds the optional per-column statistics cache. It is invalidated on
// any mutation, and recomputed through the runtime's parallel primitives
// by Compute (see stats.go).
type Stats struct {
	Min, Max, Sum, Mean, Stdev float64
	Count                      int64 // non-NA count
	NUnique                    int64
	valid                      bool
}

func (s *Stats) Invalidate() { s.valid = false }
func (s *Stats) Valid() bool { return s != nil && s.valid }
