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

import (
	"strconv"
	"strings"

	"github.com/memcolumn/coldt/internal/column"
)

// PT names the parser-type variants of the column-type parser set, ordered so
// that PT(i) can represent everything PT(j) can for j < i -- the same
// total order the bump table in bump.go walks.
type PT int

const (
	PTMu PT = iota // empty/NA
	PTBool01
	PTBoolU
	PTBoolT
	PTBoolL
	PTInt32
	PTInt64
	PTFloat64
	PTStr32
)

// ParseResult is what a field parser produces: the inferred type
// (possibly unchanged), the decoded value or NA, and the field's raw
// unescaped text. Text is kept regardless of PT so a later column-wide
// bump to Str32 can format every already-tokenized row from its
// original bytes instead of whatever scalar Elem happened to hold.
type ParseResult struct {
	PT   PT
	Elem column.Element
	Text string
}

// ParseField tries each parser from hint upward until one accepts the
// field, mirroring "leaves unchanged on failure so the next parser can
// try" -- hint lets a column that has already bumped skip parsers that
// previously failed, instead of restarting from Mu every time.
func ParseField(text string, quoted bool, isNA bool, hint PT) ParseResult {
	if isNA {
		return ParseResult{PT: hint, Elem: column.NA()}
	}
	if quoted {
		return ParseResult{PT: PTStr32, Elem: column.StrElement(text)}
	}
	if hint <= PTBool01 {
		if v, ok := parseBool01(text); ok {
			return ParseResult{PT: PTBool01, Elem: column.BoolElement(v)}
		}
	}
	if hint <= PTBoolU {
		if v, ok := parseBoolWord(text, "TRUE", "FALSE"); ok {
			return ParseResult{PT: PTBoolU, Elem: column.BoolElement(v)}
		}
	}
	if hint <= PTBoolT {
		if v, ok := parseBoolWord(text, "True", "False"); ok {
			return ParseResult{PT: PTBoolT, Elem: column.BoolElement(v)}
		}
	}
	if hint <= PTBoolL {
		if v, ok := parseBoolWord(text, "true", "false"); ok {
			return ParseResult{PT: PTBoolL, Elem: column.BoolElement(v)}
		}
	}
	if hint <= PTInt32 {
		if v, ok := parseInt(text); ok && v >= -2147483648 && v <= 2147483647 {
			return ParseResult{PT: PTInt32, Elem: column.IntElement(v)}
		}
	}
	if hint <= PTInt64 {
		if v, ok := parseInt(text); ok {
			return ParseResult{PT: PTInt64, Elem: column.IntElement(v)}
		}
	}
	if hint <= PTFloat64 {
		if v, ok := parseFloat(text); ok {
			return ParseResult{PT: PTFloat64, Elem: column.FloatElement(v)}
		}
	}
	return ParseResult{PT: PTStr32, Elem: column.StrElement(text)}
}

func parseBool01(s string) (bool, bool) {
	switch s {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

func parseBoolWord(s, t, f string) (bool, bool) {
	if s == t {
		return true, true
	}
	if s == f {
		return false, true
	}
	return false, false
}

// parseInt accepts an optional leading sign and digits, plus
// thousands-separator variants (grouped-digit integers)
// by stripping ',' grouping characters before the plain parse.
func parseInt(s string) (int64, bool) {
	cleaned := s
	if strings.ContainsAny(s, ",") && looksGrouped(s) {
		cleaned = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func looksGrouped(s string) bool {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// parseFloat covers Float64Plain and Float64Ext (the ±inf/nan variants
// the parser set names); Float32Hex/Float64Hex (C99 hex-float literals) are
// recognized via Go's strconv.ParseFloat, which already accepts them.
func parseFloat(s string) (float64, bool) {
	switch strings.ToLower(s) {
	case "inf", "+inf", "infinity":
		return posInf(), true
	case "-inf", "-infinity":
		return negInf(), true
	case "nan":
		return column.NAFloat64(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func posInf() float64 { return 1.0 / zero() }
func negInf() float64 { return -1.0 / zero() }
func zero() float64   { return 0.0 }

// Stype returns the storage type a PT materializes as.
func (pt PT) Stype() column.Stype {
	switch pt {
	case PTMu:
		return column.Void
	case PTBool01, PTBoolU, PTBoolT, PTBoolL:
		return column.Bool8
	case PTInt32:
		return column.Int32
	case PTInt64:
		return column.Int64
	case PTFloat64:
		return column.Float64
	default:
		return column.Str32
	}
}
