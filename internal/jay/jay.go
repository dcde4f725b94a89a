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

// Package jay reads and writes the Jay binary frame format: an 8-byte
// header, a sequence of 8-byte-aligned column buffers, a JSON metadata
// record, and an 8-byte trailer. It follows the same on-disk/on-wire
// serialization style used elsewhere in this codebase (JSON-encoded
// schema metadata, raw-bytes column dumps) rather than introducing a
// new encoding per concern.
package jay

import (
	"io"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/rtpool"
)

var header = [8]byte{'J', 'A', 'Y', '1', 0, 0, 0, 0}

// oneJaySuffix and jay1Suffix are the two accepted 4-byte trailer suffixes; files
// this package writes always use jay1Suffix, but files produced by
// other Jay writers may use the older one.
var (
	oneJaySuffix = [4]byte{'1', 'J', 'A', 'Y'}
	jay1Suffix   = [4]byte{'J', 'A', 'Y', '1'}
)

const alignment = 8

func alignUp(n int64) int64 {
	if r := n % alignment; r != 0 {
		return n + (alignment - r)
	}
	return n
}

// columnMeta is the per-column entry in the metadata record.
type columnMeta struct {
	Name          string `json:"name"`
	Stype         string `json:"type"`
	Nrows         int64  `json:"nrows"`
	DataOffset    int64  `json:"data_offset"`
	DataLength    int64  `json:"data_length"`
	DataRawLength int64  `json:"data_raw_length,omitempty"`
	StrOffset     int64  `json:"str_offset,omitempty"`
	StrLength     int64  `json:"str_length,omitempty"`
	StrRawLength  int64  `json:"str_raw_length,omitempty"`
	HasStr        bool   `json:"has_str,omitempty"`
	// Codec names the compressor applied to this column's buffers, or
	// "" when they are stored verbatim and can be mapped zero-copy.
	Codec string `json:"codec,omitempty"`

	NullCount *int64   `json:"nullcount,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

type metaRecord struct {
	Nkeys   int          `json:"nkeys"`
	Columns []columnMeta `json:"columns"`
}

func stypeFromName(s string) (column.Stype, bool) {
	for _, t := range []column.Stype{
		column.Void, column.Bool8, column.Int8, column.Int16, column.Int32,
		column.Int64, column.Float32, column.Float64, column.Str32, column.Str64,
	} {
		if t.String() == s {
			return t, true
		}
	}
	return column.Void, false
}

// errShortTrailer is returned when the input is too small to even hold
// a header and a trailer.
var errShortTrailer = rtpool.New(rtpool.IOError, "jay: input too short to contain a header and trailer")

func isValidTrailerSuffix(b [4]byte) bool {
	return b == oneJaySuffix || b == jay1Suffix
}

func writeZeroPadding(w io.Writer, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}
