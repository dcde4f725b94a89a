package catalog

import (
	"sync"
	"testing"
)

func TestBitsetSetAndGet(t *testing.T) {
	var b Bitset
	if b.Get(5) {
		t.Fatal("expected bit 5 unset initially")
	}
	b.Set(5, true)
	if !b.Get(5) {
		t.Fatal("expected bit 5 set")
	}
	b.Set(5, false)
	if b.Get(5) {
		t.Fatal("expected bit 5 cleared")
	}
}

func TestBitsetGrowsAcrossWords(t *testing.T) {
	var b Bitset
	b.Set(200, true)
	if !b.Get(200) {
		t.Fatal("expected bit 200 set after growth")
	}
	if b.Get(199) {
		t.Fatal("expected neighboring bit to remain unset")
	}
}

func TestBitsetTestAndSet(t *testing.T) {
	var b Bitset
	if b.TestAndSet(3) {
		t.Fatal("expected first TestAndSet to report unset")
	}
	if !b.TestAndSet(3) {
		t.Fatal("expected second TestAndSet to report already-set")
	}
}

func TestBitsetCount(t *testing.T) {
	var b Bitset
	for _, i := range []uint32{1, 2, 3, 130} {
		b.Set(i, true)
	}
	if got := b.Count(); got != 4 {
		t.Fatalf("expected count 4, got %d", got)
	}
}

func TestBitsetReset(t *testing.T) {
	var b Bitset
	b.Set(10, true)
	b.Reset()
	if b.Get(10) {
		t.Fatal("expected bit cleared after Reset")
	}
	if b.Count() != 0 {
		t.Fatal("expected count 0 after Reset")
	}
}

func TestBitsetConcurrentSet(t *testing.T) {
	var b Bitset
	var wg sync.WaitGroup
	for i := uint32(0); i < 256; i++ {
		wg.Add(1)
		go func(i uint32) {
			defer wg.Done()
			b.Set(i, true)
		}(i)
	}
	wg.Wait()
	if got := b.Count(); got != 256 {
		t.Fatalf("expected count 256 after concurrent sets, got %d", got)
	}
}
