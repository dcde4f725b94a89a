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

// Package source normalizes the many shapes read()/iread() accept a
// CSV input as (inline text, a path, a glob, a URL, a shell command, a
// list, or anything already implementing io.Reader) into an ordered
// sequence of concrete Source values a reader can consume one at a
// time.
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates which family of input a Source came from.
type Kind uint8

const (
	KindText Kind = iota
	KindPath
	KindURL
	KindCommand
	KindReader
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPath:
		return "path"
	case KindURL:
		return "url"
	case KindCommand:
		return "command"
	case KindReader:
		return "reader"
	default:
		return "unknown"
	}
}

// Source is one resolved, concrete input: exactly one of its payload
// fields is meaningful, selected by Kind. ID lets logs and error
// messages refer to a specific source stably even across a
// multi_source_strategy=all run where several are read in sequence.
type Source struct {
	ID      uuid.UUID
	Kind    Kind
	Text    string
	Path    string
	URL     string
	Command string
	Reader  io.Reader
	// Origin names where this source came from for diagnostics, e.g.
	// the glob pattern or list index it was expanded from.
	Origin string
}

func (s Source) String() string {
	switch s.Kind {
	case KindText:
		n := len(s.Text)
		if n > 32 {
			n = 32
		}
		return fmt.Sprintf("text(%q...)", s.Text[:n])
	case KindPath:
		return fmt.Sprintf("path(%s)", s.Path)
	case KindURL:
		return fmt.Sprintf("url(%s)", s.URL)
	case KindCommand:
		return fmt.Sprintf("command(%s)", s.Command)
	case KindReader:
		return "reader(...)"
	default:
		return "source(?)"
	}
}

// newID mirrors the counter-seeded UUIDv4 generator the persistence
// layer uses to avoid a crypto/rand stall on boot: a monotonic counter
// mixed with the current time, variant bits fixed up afterward.
var idCounter uint64 = uint64(time.Now().UnixNano())

func newID() uuid.UUID {
	ctr := atomic.AddUint64(&idCounter, 1)
	now := uint64(time.Now().UnixNano())
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], ctr)
	binary.LittleEndian.PutUint64(b[8:16], ctr^now^(now<<17))
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}
