package csvread

import (
	"testing"

	"github.com/memcolumn/coldt/internal/rtpool"
)

func TestParallelOrderMatchesSingleThreaded(t *testing.T) {
	text := "a,b,c\n1,2,3\n4,5,6\n7,8,9\n"
	p := rtpool.NewPool(4)
	dt, err := Read(p, []byte(text), Options{ChunkSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if dt.Nrows() != 3 {
		t.Fatalf("expected 3 rows, got %d", dt.Nrows())
	}
	want := map[string][]int64{
		"a": {1, 4, 7},
		"b": {2, 5, 8},
		"c": {3, 6, 9},
	}
	for name, vals := range want {
		col := dt.Column(name)
		if col == nil {
			t.Fatalf("missing column %q", name)
		}
		for i, v := range vals {
			e := col.GetElement(int64(i))
			if !e.Valid || e.I != v {
				t.Errorf("%s[%d]: want %d got %+v", name, i, v, e)
			}
		}
	}
}

func TestTypeBumpProducesInt64(t *testing.T) {
	text := "x\n1\n2\n9999999999\n"
	p := rtpool.NewPool(2)
	dt, err := Read(p, []byte(text), Options{})
	if err != nil {
		t.Fatal(err)
	}
	col := dt.Column("x")
	if col.GetElement(2).I != 9999999999 {
		t.Fatalf("expected the large value to survive the bump, got %+v", col.GetElement(2))
	}
}

func TestRereadBumpToStringKeepsEarlierRows(t *testing.T) {
	text := "x\n1\n2\nhello\n"
	p := rtpool.NewPool(1)
	dt, err := Read(p, []byte(text), Options{})
	if err != nil {
		t.Fatal(err)
	}
	col := dt.Column("x")
	want := []string{"1", "2", "hello"}
	for i, w := range want {
		if got := col.GetElement(int64(i)).S; got != w {
			t.Errorf("x[%d]: want %q got %q", i, w, got)
		}
	}
}

func TestNormalBumpToFloatKeepsEarlierRows(t *testing.T) {
	text := "x\n1\n2\n3.5\n"
	p := rtpool.NewPool(1)
	dt, err := Read(p, []byte(text), Options{})
	if err != nil {
		t.Fatal(err)
	}
	col := dt.Column("x")
	want := []float64{1, 2, 3.5}
	for i, w := range want {
		if got := col.GetElement(int64(i)).F; got != w {
			t.Errorf("x[%d]: want %v got %v", i, w, got)
		}
	}
}

func TestQuoteRuleZeroHandlesEmbeddedComma(t *testing.T) {
	text := "name,note\nalice,\"hello, world\"\nbob,plain\n"
	p := rtpool.NewPool(2)
	dt, err := Read(p, []byte(text), Options{})
	if err != nil {
		t.Fatal(err)
	}
	col := dt.Column("note")
	if col.GetElement(0).S != "hello, world" {
		t.Fatalf("want %q, got %q", "hello, world", col.GetElement(0).S)
	}
	if col.GetElement(1).S != "plain" {
		t.Fatalf("want %q, got %q", "plain", col.GetElement(1).S)
	}
}

func TestNAStringRecognized(t *testing.T) {
	text := "x,y\n1,NA\n,2\n"
	p := rtpool.NewPool(1)
	dt, err := Read(p, []byte(text), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if dt.Column("y").GetElement(0).Valid {
		t.Fatal("expected NA at row 0 of y")
	}
	if dt.Column("x").GetElement(1).Valid {
		t.Fatal("expected NA at row 1 of x (empty field)")
	}
}

func TestBumpDominance(t *testing.T) {
	if !PTInt64.Dominates(PTInt32) {
		t.Fatal("Int64 should dominate Int32")
	}
	if !PTFloat64.Dominates(PTInt64) {
		t.Fatal("Float64 should dominate Int64")
	}
	if !PTStr32.Dominates(PTFloat64) {
		t.Fatal("Str32 should dominate Float64")
	}
	if Bump(PTInt32, PTInt64) != NormalBump {
		t.Fatal("Int32 -> Int64 should be a normal bump")
	}
	if Bump(PTInt64, PTStr32) != RereadBump {
		t.Fatal("Int64 -> Str32 should require a reread")
	}
}

func TestDetectDialectPicksComma(t *testing.T) {
	d := DetectDialect("a,b,c\n1,2,3\n4,5,6\n")
	if d.Sep != ',' {
		t.Fatalf("expected comma separator, got %q", d.Sep)
	}
}
