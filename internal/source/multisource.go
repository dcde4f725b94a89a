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
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// Strategy governs what happens when an Input resolves to more than
// one Source, mirroring the multi_source_strategy read() option.
type Strategy string

const (
	// StrategyOne silently reads only the first resolved source.
	StrategyOne Strategy = "one"
	// StrategyWarn reads only the first but logs how many were dropped.
	StrategyWarn Strategy = "warn"
	// StrategyError refuses to proceed when more than one source resolved.
	StrategyError Strategy = "error"
	// StrategyAll reads every resolved source and rbinds the results.
	StrategyAll Strategy = "all"
)

// defaultWaitForPath bounds how long path/glob resolution waits for a
// not-yet-materialized file to appear before giving up when
// Input.WaitForPath is zero; a negative Input.WaitForPath disables
// waiting (the file must already exist).
const defaultWaitForPath = 5 * time.Second

// Input is the raw, many-shaped argument read()/iread() accepts.
// Exactly one field may be set; Normalize rejects any other
// combination as a TypeError, matching "exactly one of the
// source-family parameters may be set; mixing is an error".
type Input struct {
	Text    *string
	Path    *string
	Glob    *string
	URL     *string
	Command *string
	List    []string
	Reader  io.Reader

	// WaitForPath overrides defaultWaitForPath; negative disables waiting.
	WaitForPath time.Duration
}

// Warner receives diagnostics MultiSource itself produces; it is the same shape
// internal/logx.Logger.Warnf uses, kept local here so this package does
// not need to import logx.
type Warner interface {
	Warnf(format string, args ...interface{})
}

type nullWarner struct{}

func (nullWarner) Warnf(string, ...interface{}) {}

// MultiSource holds the ordered sequence of sources one Input
// normalized to, plus the strategy governing how ReadSingle combines
// them when there is more than one.
type MultiSource struct {
	Sources  []Source
	Strategy Strategy
}

// Normalize resolves an Input to a MultiSource. A glob or a list
// expands to multiple sources; every other family yields exactly one.
func Normalize(in Input, strategy Strategy, warn Warner) (*MultiSource, error) {
	if warn == nil {
		warn = nullWarner{}
	}
	if strategy == "" {
		strategy = StrategyWarn
	}

	set := 0
	if in.Text != nil {
		set++
	}
	if in.Path != nil {
		set++
	}
	if in.Glob != nil {
		set++
	}
	if in.URL != nil {
		set++
	}
	if in.Command != nil {
		set++
	}
	if in.List != nil {
		set++
	}
	if in.Reader != nil {
		set++
	}
	if set == 0 {
		return nil, rtpool.New(rtpool.ValueError, "no input given: set exactly one of text, path, glob, url, command, list, or reader")
	}
	if set > 1 {
		return nil, rtpool.New(rtpool.TypeError, "exactly one of the source-family parameters may be set; mixing is an error")
	}

	wait := in.WaitForPath
	if wait == 0 {
		wait = defaultWaitForPath
	}

	var out []Source
	switch {
	case in.Text != nil:
		out = []Source{{ID: newID(), Kind: KindText, Text: *in.Text}}

	case in.Path != nil:
		if err := waitForPath(*in.Path, wait); err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		out = []Source{{ID: newID(), Kind: KindPath, Path: *in.Path}}

	case in.Glob != nil:
		matches, err := filepath.Glob(*in.Glob)
		if err != nil {
			return nil, rtpool.Wrap(rtpool.ValueError, err)
		}
		if len(matches) == 0 {
			return nil, rtpool.Newf(rtpool.IOError, "glob %q matched no files", *in.Glob)
		}
		for _, m := range matches {
			out = append(out, Source{ID: newID(), Kind: KindPath, Path: m, Origin: *in.Glob})
		}

	case in.URL != nil:
		out = []Source{{ID: newID(), Kind: KindURL, URL: *in.URL}}

	case in.Command != nil:
		out = []Source{{ID: newID(), Kind: KindCommand, Command: *in.Command}}

	case in.List != nil:
		for i, item := range in.List {
			if err := waitForPath(item, wait); err != nil {
				return nil, rtpool.Wrap(rtpool.IOError, err)
			}
			out = append(out, Source{ID: newID(), Kind: KindPath, Path: item, Origin: fmt.Sprintf("list[%d]", i)})
		}

	case in.Reader != nil:
		out = []Source{{ID: newID(), Kind: KindReader, Reader: in.Reader}}
	}

	if strategy == StrategyWarn && len(out) > 1 {
		warn.Warnf("input resolved to %d sources; reading only the first (%s)", len(out), out[0])
	}

	return &MultiSource{Sources: out, Strategy: strategy}, nil
}

// waitForPath blocks until path exists or timeout elapses. It is a
// bounded, single-shot wait (not a streaming watch): once the file
// appears, or the deadline passes, the watcher is torn down.
func waitForPath(path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if timeout <= 0 {
		return fmt.Errorf("%s: no such file", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("%s: no such file and directory %s is not watchable: %w", path, dir, err)
	}

	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("%s: watcher closed before file appeared", path)
			}
			if ev.Name == path && (ev.Op&(fsnotify.Create|fsnotify.Write) != 0) {
				if _, err := os.Stat(path); err == nil {
					return nil
				}
			}
		case err, ok := <-w.Errors:
			if ok && err != nil {
				return err
			}
		case <-deadline:
			return fmt.Errorf("%s: timed out waiting for file to appear", path)
		}
	}
}

// ReadFunc turns one resolved Source into a frame, however its kind
// dictates the bytes are obtained (open the path, fetch the URL, run
// the command, or read the reader directly).
type ReadFunc func(Source) (*frame.DataTable, error)

// ReadSingle applies Strategy to decide whether to read just the first
// source, refuse, or read and rbind every source together.
func (ms *MultiSource) ReadSingle(read ReadFunc) (*frame.DataTable, error) {
	if len(ms.Sources) == 0 {
		return nil, rtpool.New(rtpool.ValueError, "no sources to read")
	}
	if len(ms.Sources) == 1 {
		return read(ms.Sources[0])
	}
	switch ms.Strategy {
	case StrategyError:
		return nil, rtpool.Newf(rtpool.ValueError, "input resolved to %d sources but multi_source_strategy is %q", len(ms.Sources), ms.Strategy)
	case StrategyAll:
		var frames []*frame.DataTable
		for _, s := range ms.Sources {
			f, err := read(s)
			if err != nil {
				return nil, err
			}
			frames = append(frames, f)
		}
		return frames[0].Rbind(true, frames[1:]...)
	default: // StrategyOne, StrategyWarn
		return read(ms.Sources[0])
	}
}

// Iterator drives the read_next() path an iread()-style binding polls:
// one source per call, regardless of Strategy (iread always walks the
// full sequence; Strategy only governs the single-Frame read_single()
// call above).
type Iterator struct {
	ms   *MultiSource
	read ReadFunc
	idx  int
}

func (ms *MultiSource) Iterator(read ReadFunc) *Iterator {
	return &Iterator{ms: ms, read: read}
}

// Next returns the next source's frame, or ok=false once exhausted.
func (it *Iterator) Next() (f *frame.DataTable, ok bool, err error) {
	if it.idx >= len(it.ms.Sources) {
		return nil, false, nil
	}
	s := it.ms.Sources[it.idx]
	it.idx++
	f, err = it.read(s)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}
