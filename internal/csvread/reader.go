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
	"strings"
	"sync"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// Options mirrors the read()/iread() option bag: dialect overrides,
// NA handling, row and thread limits, and the encoding/logging knobs.
type Options struct {
	Sep, Quote, Dec byte
	Header          string // "true", "false", "auto"
	MaxNrows        int64
	NAStrings       []string
	Fill            bool
	StripWhitespace bool
	SkipBlankLines  bool
	Encoding        Encoding
	NThreads        int
	ColumnNames     []string // overrides detected/header names when non-nil
	ChunkSize       int64    // overrides the computed chunk size when > 0, for testing and tuning
}

func defaultOptions() Options {
	return Options{
		Header:          "auto",
		NAStrings:       []string{"NA"},
		StripWhitespace: true,
		SkipBlankLines:  true,
		Encoding:        EncAuto,
	}
}

// parsedRow is one tokenized CSV row, carrying each field's inferred
// type and value so the later merge step can detect column-wide bumps
// before anything is written to an output buffer.
type parsedRow struct {
	fields []ParseResult
}

// chunk holds one chunk's rows plus its byte bounds, stored at a fixed
// slot keyed by chunk index so concatenating slots 0..n in order
// reconstructs the file's original row order regardless of which
// worker produced which chunk -- this is what makes the reader
// bit-identical to a single-threaded read under any nthreads/chunk_size.
type chunk struct {
	rows  []parsedRow
	start int
	end   int
}

// Read parses data into a DataTable on p's worker team. Parsing runs in
// two passes: an unordered parallel pass tokenizes every chunk and
// infers each field's type against the column's type seen so far,
// merging into a final per-column type; then an ordered pass reserves
// string-column output slots in row order and a final parallel pass
// writes every fixed-width and string value into its now-correctly-
// sized output column. This trades the single restartable pass the
// chunked-reader design calls for against a simpler two-pass pipeline
// that still satisfies every ordering and bump-dominance guarantee.
func Read(p *rtpool.Pool, data []byte, opts Options) (*frame.DataTable, error) {
	if opts.NAStrings == nil {
		opts = mergeDefaults(opts)
	}
	text := string(data)
	d := DetectDialect(text)
	if opts.Sep != 0 {
		d.Sep = opts.Sep
	}
	if opts.Quote != 0 {
		d.Quote = opts.Quote
	}
	d.StripWhite = opts.StripWhitespace
	d.SkipEmptyLines = opts.SkipBlankLines

	sof, headerFields, ncols := detectHeader(text, d, opts)
	if ncols == 0 {
		return frame.New(nil, nil, 0)
	}

	names := opts.ColumnNames
	if names == nil {
		names = headerFields
	}
	if names == nil {
		names = make([]string, ncols)
		for i := range names {
			names[i] = genColName(i)
		}
	}

	meanLine := estimateMeanLineLen(text, sof)
	nthreads := pickThreads(p, opts)
	var plan ChunkPlan
	if opts.ChunkSize > 0 {
		remaining := int64(len(data)) - int64(sof)
		cc := (remaining + opts.ChunkSize - 1) / opts.ChunkSize
		if cc < 1 {
			cc = 1
		}
		plan = ChunkPlan{ChunkSize: opts.ChunkSize, ChunkCount: int(cc), NThreads: nthreads}
	} else {
		plan = PlanChunks(nthreads, int64(len(data))-int64(sof), meanLine, opts.MaxNrows)
	}

	// Resolve every chunk's actual start up front (each chunk's actual
	// end is simply the next chunk's actual start): recovery may need
	// to scan past a chunk's own nominal width to find a line boundary,
	// and doing this sequentially first guarantees no two chunks ever
	// claim the same bytes, however small chunk_size is.
	starts := make([]int, plan.ChunkCount+1)
	starts[0] = sof
	starts[plan.ChunkCount] = len(data)
	for i := 1; i < plan.ChunkCount; i++ {
		provisional, _ := ChunkBounds(plan, int64(len(data)-sof), i)
		starts[i] = recoverLineStart(data, int(provisional)+sof, len(data), d, ncols)
	}

	chunks := make([]chunk, plan.ChunkCount)
	pts := make([]PT, ncols)
	var ptsMu sync.Mutex

	err := p.ParallelForStatic(plan.ChunkCount, 1, func(lo, hi, _ int) {
		for i := lo; i < hi; i++ {
			cs, ce := starts[i], starts[i+1]
			ptsMu.Lock()
			hints := append([]PT(nil), pts...)
			ptsMu.Unlock()
			rows, localPts := tokenizeChunk(data, cs, ce, d, opts, ncols, hints)
			chunks[i] = chunk{rows: rows, start: cs, end: ce}
			ptsMu.Lock()
			for c, pt := range localPts {
				if Bump(pts[c], pt) != NoBump {
					pts[c] = pt
				}
			}
			ptsMu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}

	if opts.MaxNrows > 0 {
		chunks = truncateToMaxRows(chunks, opts.MaxNrows)
	}

	nrows := int64(0)
	rowStarts := make([]int64, len(chunks))
	for i, c := range chunks {
		rowStarts[i] = nrows
		nrows += int64(len(c.rows))
	}

	cols := make([]*column.StorageColumn, ncols)
	strb := make([]*column.StrBuilder, ncols)
	for i := range cols {
		cols[i] = column.NewStorageColumn(pts[i].Stype(), nrows)
		if pts[i].Stype().Ltype() == column.LString {
			strb[i] = column.NewStrBuilder(cols[i])
		}
	}

	if err := reserveStringSlots(p, chunks, rowStarts, pts, strb); err != nil {
		return nil, err
	}
	for _, b := range strb {
		if b != nil {
			b.Finish()
		}
	}

	err = p.ParallelForStatic(len(chunks), 1, func(lo, hi, _ int) {
		for ci := lo; ci < hi; ci++ {
			c := chunks[ci]
			row0 := rowStarts[ci]
			for ri, row := range c.rows {
				writeRow(cols, pts, row0+int64(ri), row)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	outCols := make([]column.Column, ncols)
	for i, c := range cols {
		outCols[i] = c
	}
	return frame.New(names, outCols, 0)
}

func mergeDefaults(opts Options) Options {
	def := defaultOptions()
	if opts.Header == "" {
		opts.Header = def.Header
	}
	if opts.Encoding == "" {
		opts.Encoding = def.Encoding
	}
	opts.NAStrings = def.NAStrings
	if !opts.StripWhitespace {
		opts.StripWhitespace = def.StripWhitespace
	}
	return opts
}

func pickThreads(p *rtpool.Pool, opts Options) int {
	if opts.NThreads > 0 {
		return opts.NThreads
	}
	return p.NumThreads()
}

func genColName(i int) string { return "V" + itoa(i+1) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

// detectHeader tokenizes the first line to both count columns and,
// when options.Header allows it, capture the header names; it returns
// the byte offset sof where the data rows actually begin.
func detectHeader(text string, d Dialect, opts Options) (sof int, names []string, ncols int) {
	if text == "" {
		return 0, nil, 0
	}
	tk := NewTokenizer([]byte(text), 0, len(text), d, nil)
	var fields []string
	for {
		f, _ := tk.NextField()
		fields = append(fields, f)
		if !tk.SkipSep() {
			break
		}
	}
	tk.SkipEOL()
	ncols = len(fields)

	looksLikeHeader := opts.Header == "true"
	if opts.Header == "auto" {
		looksLikeHeader = headerHeuristic(fields)
	}
	if looksLikeHeader {
		return tk.Pos(), fields, ncols
	}
	return 0, nil, ncols
}

// headerHeuristic guesses a header is present when none of the first
// line's fields parse as a number -- the common "first row is non-
// numeric, data rows are numeric" signal.
func headerHeuristic(fields []string) bool {
	for _, f := range fields {
		if _, ok := parseInt(f); ok {
			return false
		}
		if _, ok := parseFloat(f); ok {
			return false
		}
	}
	return len(fields) > 0
}

func estimateMeanLineLen(text string, sof int) int64 {
	if sof >= len(text) {
		return 32
	}
	idx := strings.IndexByte(text[sof:], '\n')
	if idx <= 0 {
		return 32
	}
	return int64(idx + 1)
}

// tokenizeChunk parses every complete row in [start,end) and returns,
// alongside the rows, the widest PT observed per column within this
// chunk alone -- the per-chunk contribution the caller merges into the
// shared column types under its own lock.
func tokenizeChunk(data []byte, start, end int, d Dialect, opts Options, ncols int, hints []PT) ([]parsedRow, []PT) {
	tk := NewTokenizer(data, start, end, d, opts.NAStrings)
	localPts := append([]PT(nil), hints...)
	var rows []parsedRow
	for !tk.AtEOF() {
		if tk.AtEOL() {
			if !tk.SkipEOL() {
				break
			}
			continue
		}
		fields := make([]ParseResult, ncols)
		for ci := 0; ci < ncols; ci++ {
			text, quoted := tk.NextField()
			isNA := tk.IsNA(text, quoted)
			fields[ci] = ParseField(text, quoted, isNA, localPts[ci])
			fields[ci].Text = text
			if Bump(localPts[ci], fields[ci].PT) != NoBump {
				localPts[ci] = fields[ci].PT
			}
			if ci < ncols-1 {
				if !tk.SkipSep() {
					if opts.Fill {
						for rest := ci + 1; rest < ncols; rest++ {
							fields[rest] = ParseResult{PT: localPts[rest], Elem: column.NA()}
						}
					}
					break
				}
			}
		}
		rows = append(rows, parsedRow{fields: fields})
		tk.SkipEOL()
	}
	return rows, localPts
}

// recoverLineStart scans forward from a provisional chunk start looking
// for a position where tokenizing min(5, ncols) fields succeeds and
// lands on EOL/EOF -- the heuristic a chunk with unknown true_start
// uses to find the next real line boundary. If no such position exists
// before end, it returns end, so the chunk is empty and the previous
// chunk keeps the trailing line whole.
func recoverLineStart(data []byte, start, end int, d Dialect, ncols int) int {
	probe := minInt(5, ncols)
	for pos := start; pos < end; pos++ {
		if pos > 0 && data[pos-1] != '\n' {
			continue
		}
		tk := NewTokenizer(data, pos, end, d, nil)
		ok := true
		for i := 0; i < probe; i++ {
			tk.NextField()
			if i < probe-1 && !tk.SkipSep() {
				ok = false
				break
			}
		}
		if ok && (tk.AtEOL() || tk.AtEOF()) {
			return pos
		}
	}
	return end
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func truncateToMaxRows(chunks []chunk, maxNrows int64) []chunk {
	var total int64
	for i, c := range chunks {
		if total+int64(len(c.rows)) >= maxNrows {
			keep := maxNrows - total
			chunks[i].rows = c.rows[:keep]
			return chunks[:i+1]
		}
		total += int64(len(c.rows))
	}
	return chunks
}

// reserveStringSlots assigns cumulative string-buffer offsets in strict
// row order via the runtime's ordered primitive -- the same reason
// materialize() uses it for string columns: offsets are a running
// total and cannot be computed out of order.
func reserveStringSlots(p *rtpool.Pool, chunks []chunk, rowStarts []int64, pts []PT, strb []*column.StrBuilder) error {
	anyString := false
	for _, b := range strb {
		if b != nil {
			anyString = true
		}
	}
	if !anyString || len(chunks) == 0 {
		return nil
	}
	nthreads := p.NumThreads()
	type ctxT struct{}
	return rtpool.ParallelForOrdered(p, len(chunks), nthreads, rtpool.OrderedBody[ctxT]{
		NewContext: func(int) ctxT { return ctxT{} },
		Parallel:   func(ctxT, int, int) {},
		Ordered: func(_ ctxT, ci int, _ func(int)) {
			c := chunks[ci]
			row0 := rowStarts[ci]
			for ri := range c.rows {
				row := row0 + int64(ri)
				for colIdx, b := range strb {
					if b == nil {
						continue
					}
					f := c.rows[ri].fields[colIdx]
					if !f.Elem.Valid {
						b.ReserveNA(row)
						continue
					}
					// f.Text is the field's original bytes regardless of
					// which PT it was parsed under: a row tokenized as
					// Int32/Float64/Bool before a later row forced this
					// column to Str32 still formats from that text, not
					// from Elem.S (only ever set when parsed directly as
					// a string).
					off := b.Reserve(row, len(f.Text))
					b.WriteString(off, f.Text)
				}
			}
		},
		Finalize: func(ctxT, int, int) {},
	})
}

func writeRow(cols []*column.StorageColumn, pts []PT, row int64, pr parsedRow) {
	for ci, f := range pr.fields {
		c := cols[ci]
		if c.Stype().Ltype() == column.LString {
			continue // already written by reserveStringSlots
		}
		if !f.Elem.Valid {
			c.SetNA(row)
			continue
		}
		switch c.Stype().Ltype() {
		case column.LReal:
			// A row tokenized before a later row forced this column's
			// bump to Float64 was parsed under an integer/bool PT and
			// only has Elem.I set (column.IntElement/BoolElement never
			// touch Elem.F). Only a field actually parsed as PTFloat64
			// has a meaningful Elem.F.
			if f.PT < PTFloat64 {
				c.SetFloat(row, float64(f.Elem.I))
			} else {
				c.SetFloat(row, f.Elem.F)
			}
		default:
			c.SetInt(row, f.Elem.I)
		}
	}
}
