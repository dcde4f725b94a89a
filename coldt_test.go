package coldt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/memcolumn/coldt/internal/rtpool"
	"github.com/memcolumn/coldt/internal/source"
)

func TestReadTextProducesFrame(t *testing.T) {
	p := rtpool.NewPool(2)
	text := "a,b,c\n1,2.5,x\n2,3.5,y\n3,,z\n"
	in := source.Input{Text: &text}

	f, err := Read(p, in, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if f.Nrows() != 3 || f.Ncols() != 3 {
		t.Fatalf("shape mismatch: nrows=%d ncols=%d", f.Nrows(), f.Ncols())
	}
	names := f.Names()
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestReadThenToJayRoundtrips(t *testing.T) {
	p := rtpool.NewPool(2)
	text := "n,s\n1,foo\n2,\n,bar\n"
	in := source.Input{Text: &text}

	f, err := Read(p, in, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.jay")
	if err := f.ToJay(p, path); err != nil {
		t.Fatal(err)
	}

	got, err := OpenJay(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nrows() != f.Nrows() || got.Ncols() != f.Ncols() {
		t.Fatalf("roundtrip shape mismatch: got %dx%d want %dx%d", got.Nrows(), got.Ncols(), f.Nrows(), f.Ncols())
	}
}

func TestNewFrameFromNativeSlices(t *testing.T) {
	f, err := NewFrame([]string{"id", "value"}, map[string]interface{}{
		"id":    []int64{1, 2, 3},
		"value": []string{"x", "y", "z"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.Nrows() != 3 {
		t.Fatalf("expected 3 rows, got %d", f.Nrows())
	}
	tuples := f.ToTuples()
	if tuples[1][1].S != "y" {
		t.Fatalf("expected row 1 value y, got %+v", tuples[1][1])
	}
}

func TestFrameHeadTailCopy(t *testing.T) {
	f, err := NewFrame([]string{"n"}, map[string]interface{}{
		"n": []int64{1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.Head(2).Nrows() != 2 || f.Tail(2).Nrows() != 2 {
		t.Fatal("expected head/tail of 2 rows each")
	}
	cp := f.Copy()
	if cp.Nrows() != f.Nrows() {
		t.Fatal("expected Copy to preserve row count")
	}
}

func TestRepeatTilesFrame(t *testing.T) {
	f, err := NewFrame([]string{"n"}, map[string]interface{}{"n": []int64{7}})
	if err != nil {
		t.Fatal(err)
	}
	r := Repeat(f, 5)
	if r.Nrows() != 5 {
		t.Fatalf("expected 5 rows, got %d", r.Nrows())
	}
}

func TestIReadWalksMultipleSources(t *testing.T) {
	p := rtpool.NewPool(1)
	a := "a\n1\n2\n"
	b := "a\n3\n4\n"
	tmp := t.TempDir()
	pa := filepath.Join(tmp, "a.csv")
	pb := filepath.Join(tmp, "b.csv")
	writeFile(t, pa, a)
	writeFile(t, pb, b)

	in := source.Input{List: []string{pa, pb}}
	it, err := IRead(p, in, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var total int64
	for {
		f, ok, err := it.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		total += f.Nrows()
	}
	if total != 4 {
		t.Fatalf("expected 4 total rows across both sources, got %d", total)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
