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
package buffer

import (
	"bufio"
	"io"
	"sync"

	lz4 "github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/memcolumn/coldt/internal/rtpool"
)

// Codec selects the background compressor a Sink feeds into. memcp keeps
// several persistence backends side by side (storage/persistence-files.go,
// persistence-s3.go, persistence-ceph.go); a Sink plays the analogous role
// for column payloads that are written once and read back wholesale, so it
// offers the same kind of pluggable backend instead of hard-coding one.
type Codec uint8

const (
	CodecLZ4 Codec = iota
	CodecXZ
)

// Sink is the "optional sink variant [that] streams to a background
// compressor" pattern. Writes are queued to a channel and drained by a
// single goroutine so producer threads never block on the compressor's
// own (typically much slower) throughput for long.
type Sink struct {
	queue  chan []byte
	done   chan struct{}
	werr   error
	werrMu sync.Mutex
	closer io.Closer
}

// NewSink starts the background compressor goroutine writing into w.
func NewSink(w io.Writer, codec Codec) *Sink {
	s := &Sink{queue: make(chan []byte, 64), done: make(chan struct{})}
	bw := bufio.NewWriter(w)
	var cw io.WriteCloser
	switch codec {
	case CodecXZ:
		xw, err := xz.NewWriter(bw)
		if err != nil {
			s.werr = rtpool.Wrap(rtpool.IOError, err)
		}
		cw = nopCloseWriter{xw}
	default:
		cw = lz4.NewWriter(bw)
	}
	s.closer = cw
	go s.run(bw, cw)
	return s
}

type nopCloseWriter struct{ io.Writer }

func (nopCloseWriter) Close() error { return nil }

func (s *Sink) run(bw *bufio.Writer, cw io.WriteCloser) {
	defer close(s.done)
	for b := range s.queue {
		if _, err := cw.Write(b); err != nil {
			s.setErr(rtpool.Wrap(rtpool.IOError, err))
		}
	}
	if err := cw.Close(); err != nil {
		s.setErr(rtpool.Wrap(rtpool.IOError, err))
	}
	if err := bw.Flush(); err != nil {
		s.setErr(rtpool.Wrap(rtpool.IOError, err))
	}
}

func (s *Sink) setErr(err error) {
	s.werrMu.Lock()
	if s.werr == nil {
		s.werr = err
	}
	s.werrMu.Unlock()
}

// Write queues a copy of b for background compression.
func (s *Sink) Write(b []byte) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	s.queue <- cp
	return len(b), nil
}

// Close drains the queue and waits for the compressor to finish, then
// returns the first write error observed, if any.
func (s *Sink) Close() error {
	close(s.queue)
	<-s.done
	s.werrMu.Lock()
	defer s.werrMu.Unlock()
	return s.werr
}
