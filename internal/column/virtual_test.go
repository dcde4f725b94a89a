package column

import (
	"testing"

	"github.com/memcolumn/coldt/internal/rtpool"
)

func buildInts(vals []int64) *StorageColumn {
	c := NewStorageColumn(Int64, int64(len(vals)))
	for i, v := range vals {
		c.SetInt(int64(i), v)
	}
	return c
}

func collect(c Column) []Element {
	out := make([]Element, c.Nrows())
	for i := range out {
		out[i] = c.GetElement(int64(i))
	}
	return out
}

func TestRangeForward(t *testing.T) {
	r := NewRange(0, 10, 3, Int64)
	if r.Nrows() != 4 {
		t.Fatalf("expected 4 rows, got %d", r.Nrows())
	}
	want := []int64{0, 3, 6, 9}
	for i, w := range want {
		e := r.GetElement(int64(i))
		if !e.Valid || e.I != w {
			t.Errorf("index %d: want %d got %+v", i, w, e)
		}
	}
}

func TestRangeBackward(t *testing.T) {
	r := NewRange(10, 0, -3, Int64)
	if r.Nrows() != 4 {
		t.Fatalf("expected 4 rows, got %d", r.Nrows())
	}
	want := []int64{10, 7, 4, 1}
	for i, w := range want {
		e := r.GetElement(int64(i))
		if !e.Valid || e.I != w {
			t.Errorf("index %d: want %d got %+v", i, w, e)
		}
	}
}

func TestRepeatSingleRowCollapsesToConst(t *testing.T) {
	base := buildInts([]int64{42})
	rep := NewRepeat(base, 1_000_000)
	if _, ok := rep.(*Const); !ok {
		t.Fatalf("expected Repeat(1-row base) to collapse to Const, got %T", rep)
	}
	if rep.Nrows() != 1_000_000 {
		t.Fatalf("expected 1000000 rows, got %d", rep.Nrows())
	}
	for _, i := range []int64{0, 500000, 999999} {
		e := rep.GetElement(i)
		if !e.Valid || e.I != 42 {
			t.Errorf("index %d: expected 42, got %+v", i, e)
		}
	}
}

func TestRepeatOfOneIsIdentity(t *testing.T) {
	base := buildInts([]int64{1, 2, 3})
	rep := NewRepeat(base, 1)
	if rep != Column(base) {
		t.Fatalf("Repeat(C,1) should be C itself")
	}
}

func TestRowIndexedIdentityEqualsBase(t *testing.T) {
	base := buildInts([]int64{5, 6, 7})
	ri := NewSliceRowIndex(0, 1, 3)
	wrapped := NewRowIndexed(base, ri)
	if wrapped != Column(base) {
		t.Fatalf("identity row index should collapse to base")
	}
}

func TestRowIndexedComposition(t *testing.T) {
	base := buildInts([]int64{10, 20, 30, 40, 50})
	r1 := NewSliceRowIndex(1, 1, 4) // rows 1..4 -> 20,30,40,50
	r2 := NewArrayRowIndex([]int64{0, 2, 3})

	composed := NewRowIndexed(NewRowIndexed(base, r1), r2)
	direct := NewRowIndexed(base, Compose(r1, r2))

	if composed.Nrows() != direct.Nrows() {
		t.Fatalf("nrows mismatch: %d vs %d", composed.Nrows(), direct.Nrows())
	}
	for i := int64(0); i < composed.Nrows(); i++ {
		a, b := composed.GetElement(i), direct.GetElement(i)
		if a != b {
			t.Errorf("index %d: %+v != %+v", i, a, b)
		}
	}
}

func TestRowIndexedPropagatesNA(t *testing.T) {
	base := buildInts([]int64{1, 2, 3})
	ri := NewArrayRowIndex([]int64{0, RowIndexNA, 2})
	wrapped := NewRowIndexed(base, ri)
	if wrapped.GetElement(1).Valid {
		t.Fatal("expected NA at logical row 1")
	}
}

func TestCastSaturatesOnNarrowing(t *testing.T) {
	base := buildInts([]int64{200, -200, 5})
	cast := NewCast(base, Int8)
	want := []int64{127, -128, 5}
	for i, w := range want {
		e := cast.GetElement(int64(i))
		if !e.Valid || e.I != w {
			t.Errorf("index %d: want %d got %+v", i, w, e)
		}
	}
}

func TestMaterializeMatchesVirtualColumn(t *testing.T) {
	p := rtpool.NewPool(4)
	v := NewRange(0, 100, 1, Int64)
	mat, err := Materialize(p, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mat.Nrows() != v.Nrows() {
		t.Fatalf("nrows mismatch")
	}
	for i := int64(0); i < v.Nrows(); i++ {
		if mat.GetElement(i) != v.GetElement(i) {
			t.Errorf("index %d differs after materialize", i)
		}
	}
}

func TestMaterializeStringColumnOrdersOffsetsCorrectly(t *testing.T) {
	p := rtpool.NewPool(4)
	strs := []string{"alpha", "", "gamma", "delta-longer-value"}
	src := &fakeStrColumn{vals: strs, valid: []bool{true, true, false, true}}
	mat, err := Materialize(p, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range strs {
		e := mat.GetElement(int64(i))
		if i == 2 {
			if e.Valid {
				t.Errorf("expected NA at row 2")
			}
			continue
		}
		if !e.Valid || e.S != strs[i] {
			t.Errorf("row %d: want %q got %+v", i, strs[i], e)
		}
	}
}

type fakeStrColumn struct {
	vals  []string
	valid []bool
}

func (f *fakeStrColumn) Nrows() int64 { return int64(len(f.vals)) }
func (f *fakeStrColumn) Stype() Stype { return Str32 }
func (f *fakeStrColumn) GetElement(i int64) Element {
	if !f.valid[i] {
		return NA()
	}
	return StrElement(f.vals[i])
}
