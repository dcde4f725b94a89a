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

// Package csvread is the CSV tokenizer, field-parser set and the
// chunked parallel reader built on them. It replaces memcp's
// storage/csv.go line-channel loader (which splits on bufio.ScanLines
// and strings.Split, assuming one line per row and no quoting) with a
// quote-aware, speculatively-typed, multi-threaded reader, generalizing
// the same "stream lines, batch-insert" posture into a chunk-ordered
// parallel pipeline.
package csvread

import "strings"

// Dialect holds the separator, quote character, decimal mark and
// whitespace/blank-line handling the tokenizer needs -- the settings
// a dialect-aware tokenizer carries alongside its scan pointer.
type Dialect struct {
	Sep            byte
	Quote          byte
	Dec            byte
	StripWhite     bool
	SkipEmptyLines bool
	QuoteRule      int // 0: doubled quotes, 1: backslash escape, 2: permissive, 3: none
}

var candidateSeps = []byte{',', '\t', ';', '|', ' '}

// DetectDialect scans the first few lines of text and picks the
// separator that produces the most consistent field count, the same
// "most frequent and most consistent" heuristic data.table's fread
// uses, simplified to a small fixed candidate set.
func DetectDialect(sample string) Dialect {
	lines := splitSampleLines(sample, 10)
	best := Dialect{Sep: ',', Quote: '"', Dec: '.', StripWhite: true, SkipEmptyLines: true, QuoteRule: 0}
	bestScore := -1
	for _, sep := range candidateSeps {
		counts := make(map[int]int)
		for _, ln := range lines {
			if ln == "" {
				continue
			}
			n := strings.Count(ln, string(sep)) + 1
			counts[n]++
		}
		// score: (most common field count) * (field count), rewarding
		// separators that both split consistently and split a lot
		maxCount, maxFields := 0, 0
		for fields, cnt := range counts {
			if cnt > maxCount || (cnt == maxCount && fields > maxFields) {
				maxCount, maxFields = cnt, fields
			}
		}
		if maxFields < 2 {
			continue
		}
		score := maxCount * maxFields
		if score > bestScore {
			bestScore = score
			best.Sep = sep
		}
	}
	if strings.Contains(sample, "\\\"") {
		best.QuoteRule = 1
	}
	return best
}

func splitSampleLines(s string, max int) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s) && len(lines) < max; i++ {
		if s[i] == '\n' {
			lines = append(lines, strings.TrimRight(s[start:i], "\r"))
			start = i + 1
		}
	}
	if start < len(s) && len(lines) < max {
		lines = append(lines, s[start:])
	}
	return lines
}
