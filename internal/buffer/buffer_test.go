package buffer

import (
	"bytes"
	"sync"
	"testing"
)

func TestOwnedResizeGrowsAndZeroFills(t *testing.T) {
	b := NewOwned(4)
	SetElement[int32](b, 0, 42)
	b.Resize(16)
	if got := GetElement[int32](b, 0); got != 42 {
		t.Fatalf("expected preserved value 42, got %d", got)
	}
	if got := GetElement[int32](b, 1); got != 0 {
		t.Fatalf("expected zero-filled growth, got %d", got)
	}
}

func TestExternalResizePanics(t *testing.T) {
	b := NewExternal(make([]byte, 8))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic resizing an external buffer")
		}
	}()
	b.Resize(16)
}

func TestViewRespectsParentBounds(t *testing.T) {
	parent := NewOwned(16)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing an out-of-bounds view")
		}
	}()
	NewView(parent, 10, 10)
}

func TestViewSharesParentBytes(t *testing.T) {
	parent := NewOwned(16)
	SetElement[byte](parent, 8, 0x42)
	v := NewView(parent, 4, 8)
	if got := GetElement[byte](v, 4); got != 0x42 {
		t.Fatalf("expected view to see parent byte, got %x", got)
	}
}

func TestWritableBufferConcurrentPrepWriteDoesNotOverlap(t *testing.T) {
	w := NewWritableBuffer(16)
	var wg sync.WaitGroup
	n := 200
	offsets := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			off := w.PrepWrite(8)
			offsets[i] = off
			w.WriteAt(off, []byte("12345678"))
		}(i)
	}
	wg.Wait()
	seen := make(map[int64]bool)
	for _, off := range offsets {
		if seen[off] {
			t.Fatalf("offset %d reserved twice", off)
		}
		seen[off] = true
	}
	data := w.Bytes()
	if int64(len(data)) != int64(n)*8 {
		t.Fatalf("expected %d bytes written, got %d", n*8, len(data))
	}
	for _, off := range offsets {
		if !bytes.Equal(data[off:off+8], []byte("12345678")) {
			t.Fatalf("corrupted write at offset %d", off)
		}
	}
}

func TestSinkRoundtripsThroughLZ4(t *testing.T) {
	var out bytes.Buffer
	s := NewSink(&out, CodecLZ4)
	s.Write([]byte("hello, columnar world"))
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected compressed output")
	}
}
