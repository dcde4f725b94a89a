package frame

import (
	"testing"

	"github.com/memcolumn/coldt/internal/column"
)

func intCol(vals []int64) *column.StorageColumn {
	c := column.NewStorageColumn(column.Int64, int64(len(vals)))
	for i, v := range vals {
		c.SetInt(int64(i), v)
	}
	return c
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	a := intCol([]int64{1, 2})
	b := intCol([]int64{3, 4})
	_, err := New([]string{"x", "x"}, []column.Column{a, b}, 0)
	if err == nil {
		t.Fatal("expected error for duplicate names")
	}
}

func TestNewRejectsMismatchedNrows(t *testing.T) {
	a := intCol([]int64{1, 2, 3})
	b := intCol([]int64{1, 2})
	_, err := New([]string{"a", "b"}, []column.Column{a, b}, 0)
	if err == nil {
		t.Fatal("expected error for row count mismatch")
	}
}

func TestRbindPreservesTotalRowCount(t *testing.T) {
	f1, err := New([]string{"a"}, []column.Column{intCol([]int64{1, 2, 3})}, 0)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := New([]string{"a"}, []column.Column{intCol([]int64{4, 5})}, 0)
	if err != nil {
		t.Fatal(err)
	}
	out, err := f1.Rbind(false, f2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Nrows() != 5 {
		t.Fatalf("expected 5 rows, got %d", out.Nrows())
	}
	want := []int64{1, 2, 3, 4, 5}
	col := out.Column("a")
	for i, w := range want {
		e := col.GetElement(int64(i))
		if !e.Valid || e.I != w {
			t.Errorf("row %d: want %d got %+v", i, w, e)
		}
	}
}

func TestCbindPreservesColumnAndRowCount(t *testing.T) {
	f1, _ := New([]string{"a"}, []column.Column{intCol([]int64{1, 2})}, 0)
	f2, _ := New([]string{"b"}, []column.Column{intCol([]int64{3, 4})}, 0)
	out, err := f1.Cbind(false, f2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Ncols() != 2 || out.Nrows() != 2 {
		t.Fatalf("expected 2 cols and 2 rows, got %d cols %d rows", out.Ncols(), out.Nrows())
	}
}

func TestCbindRejectsRowMismatchWithoutForce(t *testing.T) {
	f1, _ := New([]string{"a"}, []column.Column{intCol([]int64{1, 2, 3})}, 0)
	f2, _ := New([]string{"b"}, []column.Column{intCol([]int64{3, 4})}, 0)
	_, err := f1.Cbind(false, f2)
	if err == nil {
		t.Fatal("expected error for mismatched row counts")
	}
}

func TestHeadTail(t *testing.T) {
	f, _ := New([]string{"a"}, []column.Column{intCol([]int64{10, 20, 30, 40, 50})}, 0)
	h := f.Head(2)
	if h.Nrows() != 2 || h.Column("a").GetElement(0).I != 10 || h.Column("a").GetElement(1).I != 20 {
		t.Fatalf("head(2) mismatch")
	}
	tl := f.Tail(2)
	if tl.Nrows() != 2 || tl.Column("a").GetElement(0).I != 40 || tl.Column("a").GetElement(1).I != 50 {
		t.Fatalf("tail(2) mismatch")
	}
}

func TestRepeatTilesFrame(t *testing.T) {
	f, _ := New([]string{"a", "b"}, []column.Column{intCol([]int64{1, 2}), intCol([]int64{3, 4})}, 0)
	rep := Repeat(f, 3)
	if rep.Nrows() != 6 {
		t.Fatalf("expected 6 rows, got %d", rep.Nrows())
	}
	want := []int64{1, 2, 1, 2, 1, 2}
	col := rep.Column("a")
	for i, w := range want {
		if col.GetElement(int64(i)).I != w {
			t.Errorf("row %d: want %d got %d", i, w, col.GetElement(int64(i)).I)
		}
	}
}

func TestGroupByGroupsEqualKeys(t *testing.T) {
	f, _ := New([]string{"k", "v"}, []column.Column{
		intCol([]int64{1, 2, 1, 2, 1}),
		intCol([]int64{10, 20, 30, 40, 50}),
	}, 0)
	g := GroupBy(f, []string{"k"})
	if g.Ngroups() != 2 {
		t.Fatalf("expected 2 groups, got %d", g.Ngroups())
	}
	total := 0
	for i := 0; i < g.Ngroups(); i++ {
		total += len(g.GroupRows(i))
	}
	if total != 5 {
		t.Fatalf("expected 5 rows across groups, got %d", total)
	}
}
