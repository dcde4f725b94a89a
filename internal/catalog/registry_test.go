package catalog

import (
	"sync"
	"testing"
)

type entry struct {
	k string
	v int
}

func (e entry) Key() string { return e.k }

func TestRegistrySetAndGet(t *testing.T) {
	r := NewRegistry[entry, string]()
	r.Set(&entry{k: "b", v: 2})
	r.Set(&entry{k: "a", v: 1})
	r.Set(&entry{k: "c", v: 3})

	got := r.Get("a")
	if got == nil || got.v != 1 {
		t.Fatalf("expected entry a=1, got %+v", got)
	}
	if r.Get("z") != nil {
		t.Fatal("expected nil for missing key")
	}
}

func TestRegistrySetReplacesExisting(t *testing.T) {
	r := NewRegistry[entry, string]()
	r.Set(&entry{k: "a", v: 1})
	old := r.Set(&entry{k: "a", v: 2})
	if old == nil || old.v != 1 {
		t.Fatalf("expected Set to return the replaced entry, got %+v", old)
	}
	if got := r.Get("a"); got.v != 2 {
		t.Fatalf("expected updated value 2, got %d", got.v)
	}
}

func TestRegistryAllIsSorted(t *testing.T) {
	r := NewRegistry[entry, string]()
	r.Set(&entry{k: "c", v: 3})
	r.Set(&entry{k: "a", v: 1})
	r.Set(&entry{k: "b", v: 2})

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].k >= all[i].k {
			t.Fatalf("expected sorted keys, got %v", all)
		}
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry[entry, string]()
	r.Set(&entry{k: "a", v: 1})
	removed := r.Remove("a")
	if removed == nil || removed.v != 1 {
		t.Fatalf("expected removed entry a=1, got %+v", removed)
	}
	if r.Get("a") != nil {
		t.Fatal("expected entry gone after Remove")
	}
	if r.Remove("a") != nil {
		t.Fatal("expected nil removing an absent key")
	}
}

func TestRegistryConcurrentSetGet(t *testing.T) {
	r := NewRegistry[entry, string]()
	var wg sync.WaitGroup
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Set(&entry{k: k, v: i})
				r.Get(k)
			}
		}(k)
	}
	wg.Wait()
	if len(r.All()) != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), len(r.All()))
	}
}
