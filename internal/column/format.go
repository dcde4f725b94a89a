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

import "strconv"

// formatElement renders a non-NA element as text, used by Cast when
// casting any numeric ltype to a string stype.
func formatElement(e Element, src Stype) string {
	switch src.Ltype() {
	case LBool:
		if e.I != 0 {
			return "True"
		}
		return "False"
	case LInt:
		return strconv.FormatInt(e.I, 10)
	case LReal:
		bitSize := 64
		if src == Float32 {
			bitSize = 32
		}
		return strconv.FormatFloat(e.F, 'g', -1, bitSize)
	default:
		return e.S
	}
}
