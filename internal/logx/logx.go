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

// Package logx carries the reader's optional logger and the
// memory-usage report, following the same plain Fprintf-based style
// used for memory reporting elsewhere rather than reaching for a
// structured-logging framework.
package logx

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/docker/go-units"
)

// Logger is the options.logger contract: the warnings a read raises (a
// source whose shape changed since its previous read, an input that
// resolved to more than one source) go through Warnf when a logger is
// given. The CSV reader itself raises no column-bump or fill warnings.
// Infof carries diagnostic lines and Progress a completion fraction;
// nothing in a read calls either.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Progress(fraction float64)
}

// StdLogger writes to an io.Writer (os.Stderr by default). Infof and
// Progress lines are written at once; warnings are buffered and written
// together by Close.
type StdLogger struct {
	mu       sync.Mutex
	w        io.Writer
	warnings []string
}

func NewStdLogger(w io.Writer) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StdLogger{w: w}
}

func (l *StdLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *StdLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *StdLogger) Progress(fraction float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "progress: %.0f%%\n", fraction*100)
}

// Close flushes any buffered warnings to w, one per line.
func (l *StdLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.warnings) == 0 {
		return nil
	}
	var b strings.Builder
	for _, w := range l.warnings {
		b.WriteString("warning: ")
		b.WriteString(w)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(l.w, b.String())
	l.warnings = nil
	return err
}

// NullLogger discards everything; used when options.logger is unset and
// the caller does not want even the end-of-read warning flush (e.g. a
// library embedder routing warnings its own way instead).
type NullLogger struct{}

func (NullLogger) Warnf(string, ...interface{}) {}
func (NullLogger) Infof(string, ...interface{}) {}
func (NullLogger) Progress(float64)             {}

// MemStats renders current heap usage the way storage.PrintMemUsage
// does, but via docker/go-units' human-readable byte formatting instead
// of a hand-rolled MiB division.
func MemStats() string {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf(
		"alloc=%s total_alloc=%s sys=%s num_gc=%d",
		units.BytesSize(float64(m.Alloc)),
		units.BytesSize(float64(m.TotalAlloc)),
		units.BytesSize(float64(m.Sys)),
		m.NumGC,
	)
}

// ParseMemoryLimit parses the options.memory_limit string ("2GiB",
// "500MB", a bare byte count) via go-units, the same dependency
// MemStats formats with.
func ParseMemoryLimit(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return units.RAMInBytes(s)
}
