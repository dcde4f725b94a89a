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

// Package buffer implements the engine's buffer layer: contiguous byte
// regions in one of four ownership flavors (owned, external, mmap,
// view), plus a writable-buffer hierarchy used by the string sink of the
// CSV reader. The raw byte-reinterpretation technique (unsafe.Slice over
// a []byte to get a typed view) follows storage/storage-int.go's
// Serialize/Deserialize, which reinterprets a []uint64 chunk as raw
// bytes for I/O.
package buffer

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/memcolumn/coldt/internal/rtpool"
)

// Buffer is a contiguous byte region. Resize is illegal on non-owned
// buffers (External, Mmap read-only, View); out-of-range element access
// is an assertion (programmer error), not a recoverable condition.
type Buffer interface {
	Size() int64
	Resize(n int64)
	Rptr() []byte
	Wptr() []byte // panics if the buffer is read-only
	Writable() bool
}

// Owned is a heap-allocated, resizable buffer.
type Owned struct {
	data []byte
}

func NewOwned(n int64) *Owned {
	return &Owned{data: make([]byte, n)}
}

func (b *Owned) Size() int64    { return int64(len(b.data)) }
func (b *Owned) Rptr() []byte   { return b.data }
func (b *Owned) Wptr() []byte   { return b.data }
func (b *Owned) Writable() bool { return true }

func (b *Owned) Resize(n int64) {
	if n < 0 {
		panic(rtpool.New(rtpool.ValueError, "negative buffer size"))
	}
	if int64(cap(b.data)) >= n {
		old := int64(len(b.data))
		b.data = b.data[:n]
		if n > old {
			clear(b.data[old:])
		}
		return
	}
	defer func() {
		if r := recover(); r != nil {
			panic(rtpool.Newf(rtpool.MemoryError, "allocation failure resizing buffer to %d bytes: %v", n, r))
		}
	}()
	nd := make([]byte, n)
	copy(nd, b.data)
	b.data = nd
}

func clear(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// External wraps a non-owning, fixed-size region borrowed from the
// caller under a lifetime contract the caller must uphold.
type External struct {
	data []byte
}

func NewExternal(data []byte) *External { return &External{data: data} }

func (b *External) Size() int64  { return int64(len(b.data)) }
func (b *External) Rptr() []byte { return b.data }
func (b *External) Wptr() []byte { return b.data }
func (b *External) Writable() bool { return true }
func (b *External) Resize(int64) {
	panic(rtpool.New(rtpool.NotImplementedError, "cannot resize an external buffer"))
}

// Mmap is a file-backed buffer, read-only unless explicitly opened
// writable.
type Mmap struct {
	data     []byte
	f        *os.File
	writable bool
}

// NewMmap reads the whole file into an owned-looking read-only region.
// A real mmap(2) syscall is platform-specific; this keeps the Buffer
// contract (Resize illegal, Rptr valid) without pulling in cgo, while
// still modeling the "file-backed read-only" ownership flavor this design
// names.
func NewMmap(path string, writable bool) (*Mmap, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}
	data := make([]byte, st.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		f.Close()
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}
	return &Mmap{data: data, f: f, writable: writable}, nil
}

func (b *Mmap) Size() int64  { return int64(len(b.data)) }
func (b *Mmap) Rptr() []byte { return b.data }
func (b *Mmap) Wptr() []byte {
	if !b.writable {
		panic(rtpool.New(rtpool.NotImplementedError, "mmap buffer is read-only"))
	}
	return b.data
}
func (b *Mmap) Writable() bool { return b.writable }
func (b *Mmap) Resize(int64) {
	panic(rtpool.New(rtpool.NotImplementedError, "cannot resize a memory-mapped buffer"))
}

// Flush persists a writable mmap buffer back to disk.
func (b *Mmap) Flush() error {
	if !b.writable {
		return nil
	}
	if _, err := b.f.WriteAt(b.data, 0); err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}
	return b.f.Sync()
}

func (b *Mmap) Close() error { return b.f.Close() }

// View is a (parent, offset, length) triple sharing the parent's
// lifetime; it never outlives its parent and cannot be resized.
type View struct {
	parent Buffer
	offset int64
	length int64
}

func NewView(parent Buffer, offset, length int64) *View {
	if offset < 0 || length < 0 || offset+length > parent.Size() {
		panic(rtpool.Newf(rtpool.ValueError, "view (offset=%d, length=%d) exceeds parent size %d", offset, length, parent.Size()))
	}
	return &View{parent: parent, offset: offset, length: length}
}

func (v *View) Size() int64    { return v.length }
func (v *View) Rptr() []byte   { return v.parent.Rptr()[v.offset : v.offset+v.length] }
func (v *View) Writable() bool { return v.parent.Writable() }
func (v *View) Wptr() []byte {
	if !v.parent.Writable() {
		panic(rtpool.New(rtpool.NotImplementedError, "view over a read-only buffer"))
	}
	return v.parent.Wptr()[v.offset : v.offset+v.length]
}
func (v *View) Resize(int64) {
	panic(rtpool.New(rtpool.NotImplementedError, "cannot resize a view buffer"))
}

// GetElement reinterprets the byte region at logical index i as a T,
// the generic equivalent of storage/storage-int.go's raw chunk access.
func GetElement[T any](b Buffer, i int64) T {
	var zero T
	sz := int64(unsafe.Sizeof(zero))
	data := b.Rptr()
	off := i * sz
	if off < 0 || off+sz > int64(len(data)) {
		panic(fmt.Sprintf("buffer: index %d out of range (size %d, elem %d)", i, len(data), sz))
	}
	return *(*T)(unsafe.Pointer(&data[off]))
}

// SetElement writes v at logical index i.
func SetElement[T any](b Buffer, i int64, v T) {
	sz := int64(unsafe.Sizeof(v))
	data := b.Wptr()
	off := i * sz
	if off < 0 || off+sz > int64(len(data)) {
		panic(fmt.Sprintf("buffer: index %d out of range (size %d, elem %d)", i, len(data), sz))
	}
	*(*T)(unsafe.Pointer(&data[off])) = v
}
