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
	"os"

	"github.com/memcolumn/coldt/internal/jay"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// JayOption re-exports internal/jay's write-time compression choice so
// callers never need to import the internal package directly.
type JayOption = jay.Option

func WithLZ4() JayOption { return jay.WithLZ4() }
func WithXZ() JayOption  { return jay.WithXZ() }

// ToJay writes f to path in the Jay binary format.
func (f *Frame) ToJay(p *rtpool.Pool, path string, opts ...JayOption) error {
	out, err := os.Create(path)
	if err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}
	defer out.Close()
	return jay.Write(p, out, f.dt, opts...)
}

// OpenJay reads a Jay file back into a Frame. Column buffers are mapped
// zero-copy over the file's bytes when it was written uncompressed.
func OpenJay(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}
	dt, err := jay.Read(data)
	if err != nil {
		return nil, err
	}
	return wrap(dt), nil
}
