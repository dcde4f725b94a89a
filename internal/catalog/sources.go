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
package catalog

import (
	"hash/fnv"
	"time"
)

// SourceEntry records the last time a given source key (typically a
// resolved path or URL) was read, and its shape, so a caller can tell
// diagnostics apart without rereading the file.
type SourceEntry struct {
	SourceKey string
	Nrows     int64
	Ncols     int
	ReadAtUTC time.Time
}

func (e SourceEntry) Key() string { return e.SourceKey }

// Sources is the process-wide catalog of recently read sources.
type Sources struct {
	entries *Registry[SourceEntry, string]
	warned  Bitset
}

func NewSources() *Sources {
	return &Sources{entries: NewRegistry[SourceEntry, string]()}
}

// Record stores (or overwrites) the shape last seen for key.
func (s *Sources) Record(key string, nrows int64, ncols int, at time.Time) {
	s.entries.Set(&SourceEntry{SourceKey: key, Nrows: nrows, Ncols: ncols, ReadAtUTC: at})
}

func (s *Sources) Lookup(key string) (*SourceEntry, bool) {
	e := s.entries.Get(key)
	return e, e != nil
}

// WarnOnce reports whether (key, message) has already been warned about
// in this process; if not, it marks it warned and returns true so the
// caller knows to actually emit the warning this time.
func (s *Sources) WarnOnce(key, message string) bool {
	h := fnv.New32a()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(message))
	return !s.warned.TestAndSet(h.Sum32())
}
