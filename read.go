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
package coldt

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/memcolumn/coldt/internal/catalog"
	"github.com/memcolumn/coldt/internal/csvread"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
	"github.com/memcolumn/coldt/internal/source"
)

// sources is the process-wide registry of recently read sources plus
// warn-dedup bookkeeping, shared by every Read/IRead call in this
// process so rereading the same file repeatedly does not spam the
// logger with the same shape-changed warning on every call.
var sources = catalog.NewSources()

// Read parses input (text, a path, a glob, a URL, a shell command, a
// list of paths, or an io.Reader) into a single Frame, applying
// multi_source_strategy when the input resolves to more than one
// concrete source.
func Read(p *rtpool.Pool, input source.Input, opts ReadOptions) (*Frame, error) {
	var stderrLog bytes.Buffer
	logger := opts.logger(&stderrLog)
	if sl, ok := logger.(interface{ Close() error }); ok {
		defer sl.Close()
	}

	ms, err := source.Normalize(input, opts.MultiSourceStrategy, loggerWarner{logger})
	if err != nil {
		return nil, err
	}

	dt, err := ms.ReadSingle(func(s source.Source) (*frame.DataTable, error) {
		return readSource(p, s, opts, logger)
	})
	if err != nil {
		return nil, err
	}
	return wrap(dt), nil
}

// IRead returns an iterator walking every source an input resolves to,
// one Frame per call -- the read_next() path iread()-style bindings
// drive.
func IRead(p *rtpool.Pool, input source.Input, opts ReadOptions) (*FrameIterator, error) {
	var stderrLog bytes.Buffer
	logger := opts.logger(&stderrLog)

	ms, err := source.Normalize(input, opts.MultiSourceStrategy, loggerWarner{logger})
	if err != nil {
		return nil, err
	}

	it := ms.Iterator(func(s source.Source) (*frame.DataTable, error) {
		return readSource(p, s, opts, logger)
	})
	closer, _ := logger.(closeLogger)
	return &FrameIterator{it: it, logger: closer}, nil
}

// closeLogger is the subset of StdLogger that FrameIterator.Next
// flushes once the iterator is exhausted.
type closeLogger interface{ Close() error }

// FrameIterator is the public handle on read_next() semantics.
type FrameIterator struct {
	it     *source.Iterator
	logger closeLogger
}

// Next returns the next source's Frame, or ok=false once exhausted.
func (fi *FrameIterator) Next() (*Frame, bool, error) {
	dt, ok, err := fi.it.Next()
	if err != nil || !ok {
		if fi.logger != nil {
			fi.logger.Close()
		}
		return nil, false, err
	}
	return wrap(dt), true, nil
}

type loggerWarner struct{ l interface{ Warnf(string, ...interface{}) } }

func (w loggerWarner) Warnf(format string, args ...interface{}) { w.l.Warnf(format, args...) }

func readSource(p *rtpool.Pool, s source.Source, opts ReadOptions, logger interface {
	Warnf(string, ...interface{})
}) (*frame.DataTable, error) {
	data, key, err := fetchBytes(s, opts)
	if err != nil {
		return nil, err
	}
	data = applySkipTo(data, opts.SkipToLine, opts.SkipToString)

	dt, err := csvread.Read(p, data, opts.csvOptions())
	if err != nil {
		return nil, err
	}

	if key != "" {
		if prev, ok := sources.Lookup(key); ok && (prev.Nrows != dt.Nrows() || prev.Ncols != dt.Ncols()) {
			if sources.WarnOnce(key, "shape changed since last read") {
				logger.Warnf("%s: shape changed since last read (was %dx%d, now %dx%d)", key, prev.Nrows, prev.Ncols, dt.Nrows(), dt.Ncols())
			}
		}
		sources.Record(key, dt.Nrows(), dt.Ncols(), readAtNow())
	}
	return dt, nil
}

// readAtNow exists so the one non-deterministic call in this file is
// isolated to a single, obviously-named function.
func readAtNow() time.Time { return time.Now().UTC() }

func fetchBytes(s source.Source, opts ReadOptions) ([]byte, string, error) {
	switch s.Kind {
	case source.KindText:
		return []byte(s.Text), "", nil
	case source.KindPath:
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, "", rtpool.Wrap(rtpool.IOError, err)
		}
		return data, s.Path, nil
	case source.KindURL:
		resp, err := http.Get(s.URL)
		if err != nil {
			return nil, "", rtpool.Wrap(rtpool.IOError, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, "", rtpool.Newf(rtpool.IOError, "%s: http status %d", s.URL, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", rtpool.Wrap(rtpool.IOError, err)
		}
		return data, s.URL, nil
	case source.KindCommand:
		cmd := exec.Command("/bin/sh", "-c", s.Command)
		data, err := cmd.Output()
		if err != nil {
			return nil, "", rtpool.Wrap(rtpool.IOError, err)
		}
		return data, s.Command, nil
	case source.KindReader:
		data, err := io.ReadAll(s.Reader)
		if err != nil {
			return nil, "", rtpool.Wrap(rtpool.IOError, err)
		}
		return data, "", nil
	default:
		return nil, "", rtpool.Newf(rtpool.TypeError, "unknown source kind %v", s.Kind)
	}
}

// applySkipTo advances past skipToLine newline-delimited lines or to
// the first occurrence of skipToString, whichever is requested,
// treating the result as the new start-of-file before chunking -- the
// documented resolution for how skip_to_* composes with max_nrows.
func applySkipTo(data []byte, skipToLine int, skipToString string) []byte {
	if skipToString != "" {
		if i := bytes.Index(data, []byte(skipToString)); i >= 0 {
			return data[i:]
		}
		return data
	}
	if skipToLine <= 0 {
		return data
	}
	lines := 0
	for i, b := range data {
		if b == '\n' {
			lines++
			if lines == skipToLine {
				return data[i+1:]
			}
		}
	}
	return data
}
