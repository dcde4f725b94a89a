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

// Package coldt is the public entry point: Read/IRead parse CSV text
// from any of the shapes MultiSource understands into a Frame, and
// Frame exposes the shaping operations (rbind, cbind, head, tail,
// copy, repeat) plus the Jay binary round-trip.
package coldt

import (
	"io"

	"github.com/memcolumn/coldt/internal/csvread"
	"github.com/memcolumn/coldt/internal/logx"
	"github.com/memcolumn/coldt/internal/source"
)

// ReadOptions is the read()/iread() option bag. The zero value picks
// sensible defaults: auto dialect detection, auto header detection,
// "NA" as the sole na_strings entry, and multi_source_strategy "warn".
type ReadOptions struct {
	Sep, Dec, Quotechar byte
	Header              string // "true", "false", "auto"
	Columns             []string
	MaxNrows            int64
	NAStrings           []string
	Fill                bool
	SkipToLine          int
	SkipToString        string
	SkipBlankLines      bool
	StripWhitespace     bool
	Encoding            csvread.Encoding
	NThreads            int
	MemoryLimit         string // unit-suffixed, e.g. "2GiB"
	MultiSourceStrategy source.Strategy
	Logger              logx.Logger

	// WaitForPath is a wait, in seconds, for a not-yet-materialized path
	// or list entry. Read and IRead do not pass it on: the wait in effect
	// is source.Input.WaitForPath, or MultiSource's default when that is
	// zero.
	WaitForPath int64
}

func (o ReadOptions) csvOptions() csvread.Options {
	return csvread.Options{
		Sep:             o.Sep,
		Quote:           o.Quotechar,
		Dec:             o.Dec,
		Header:          orDefault(o.Header, "auto"),
		MaxNrows:        o.MaxNrows,
		NAStrings:       o.NAStrings,
		Fill:            o.Fill,
		StripWhitespace: o.StripWhitespace,
		SkipBlankLines:  o.SkipBlankLines,
		Encoding:        o.Encoding,
		NThreads:        o.NThreads,
		ColumnNames:     o.Columns,
	}
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// logger returns o.Logger, or a StdLogger writing to w when unset, so
// "warnings are routed through the optional logger when present;
// otherwise emitted once at end-of-read" always has somewhere to go.
func (o ReadOptions) logger(w io.Writer) logx.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logx.NewStdLogger(w)
}
