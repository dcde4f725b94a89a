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
package csvread

// BumpKind categorizes a PT -> PT widening, using the "Normal" /
// "Simple" / "Reread" taxonomy.
type BumpKind int

const (
	// NoBump: target is not wider than source.
	NoBump BumpKind = iota
	// NormalBump: lossless reinterpretation of already-written bytes
	// (Int32 -> Int64 -> Float64): existing values still parse under
	// the wider type without revisiting the source text.
	NormalBump
	// SimpleBump: the new parser interprets the same text differently,
	// but rows already accepted under the narrower type remain valid
	// as-is (e.g. Bool01 -> Int32, since "0"/"1" are valid ints too).
	SimpleBump
	// RereadBump: existing column bytes do not represent the new type
	// at all (anything -> Str32) and the column must be reparsed from
	// the start under the wider type.
	RereadBump
)

// rank gives each PT its position in the total bump order; a bump is
// only legal from a lower rank to a higher one -- downgrades within a
// read are rejected.
func (pt PT) rank() int {
	switch pt {
	case PTMu:
		return 0
	case PTBool01:
		return 1
	case PTBoolU:
		return 2
	case PTBoolT:
		return 3
	case PTBoolL:
		return 4
	case PTInt32:
		return 5
	case PTInt64:
		return 6
	case PTFloat64:
		return 7
	case PTStr32:
		return 8
	default:
		return 9
	}
}

// Bump classifies the transition from 'from' to 'to'. Callers should
// only ever invoke this with to.rank() > from.rank() (ParseField only
// ever widens its hint); a same-or-narrower request is NoBump.
func Bump(from, to PT) BumpKind {
	if to.rank() <= from.rank() {
		return NoBump
	}
	if to == PTStr32 {
		return RereadBump
	}
	if from == PTMu {
		return NormalBump
	}
	fromNumeric := from >= PTInt32
	toNumeric := to >= PTInt32
	if fromNumeric && toNumeric {
		return NormalBump
	}
	return SimpleBump
}

// Dominates reports whether pt strictly dominates other in the bump
// order, the property TestBumpDominance checks directly.
func (pt PT) Dominates(other PT) bool { return pt.rank() > other.rank() }
