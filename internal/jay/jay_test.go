package jay

import (
	"bytes"
	"testing"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

func buildIntNullFrame(t *testing.T) *frame.DataTable {
	t.Helper()
	n := column.NewStorageColumn(column.Int32, 4)
	n.SetInt(0, 1)
	n.SetInt(1, 2)
	n.SetNA(2)
	n.SetInt(3, 4)

	s := column.NewStorageColumn(column.Str32, 4)
	b := column.NewStrBuilder(s)
	b.WriteString(b.Reserve(0, 1), "a")
	b.WriteString(b.Reserve(1, 0), "")
	b.WriteString(b.Reserve(2, 1), "b")
	b.WriteString(b.Reserve(3, 3), "ccc")
	b.Finish()

	dt, err := frame.New([]string{"n", "s"}, []column.Column{n, s}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return dt
}

func TestWriteReadRoundtrip(t *testing.T) {
	dt := buildIntNullFrame(t)
	p := rtpool.NewPool(2)

	var buf bytes.Buffer
	if err := Write(p, &buf, dt); err != nil {
		t.Fatal(err)
	}

	got, err := Read(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if got.Nrows() != 4 || got.Ncols() != 2 {
		t.Fatalf("shape mismatch: nrows=%d ncols=%d", got.Nrows(), got.Ncols())
	}

	n := got.Column("n")
	if n == nil {
		t.Fatal("missing column n")
	}
	wantN := []struct {
		valid bool
		v     int64
	}{{true, 1}, {true, 2}, {false, 0}, {true, 4}}
	for i, w := range wantN {
		e := n.GetElement(int64(i))
		if e.Valid != w.valid {
			t.Fatalf("n[%d]: valid=%v want %v", i, e.Valid, w.valid)
		}
		if w.valid && e.I != w.v {
			t.Fatalf("n[%d]: got %d want %d", i, e.I, w.v)
		}
	}

	s := got.Column("s")
	if s == nil {
		t.Fatal("missing column s")
	}
	wantS := []string{"a", "", "b", "ccc"}
	for i, w := range wantS {
		e := s.GetElement(int64(i))
		if !e.Valid || e.S != w {
			t.Fatalf("s[%d]: got %+v want %q", i, e, w)
		}
	}
}

func TestReadRejectsBadHeader(t *testing.T) {
	data := make([]byte, 32)
	_, err := Read(data)
	if err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestWriteReadRoundtripLZ4(t *testing.T) {
	dt := buildIntNullFrame(t)
	p := rtpool.NewPool(2)

	var buf bytes.Buffer
	if err := Write(p, &buf, dt, WithLZ4()); err != nil {
		t.Fatal(err)
	}

	got, err := Read(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Nrows() != 4 || got.Ncols() != 2 {
		t.Fatalf("shape mismatch: nrows=%d ncols=%d", got.Nrows(), got.Ncols())
	}
	s := got.Column("s")
	wantS := []string{"a", "", "b", "ccc"}
	for i, w := range wantS {
		e := s.GetElement(int64(i))
		if !e.Valid || e.S != w {
			t.Fatalf("s[%d]: got %+v want %q", i, e, w)
		}
	}
}

func TestWriteReadRoundtripXZ(t *testing.T) {
	dt := buildIntNullFrame(t)
	p := rtpool.NewPool(1)

	var buf bytes.Buffer
	if err := Write(p, &buf, dt, WithXZ()); err != nil {
		t.Fatal(err)
	}

	got, err := Read(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	n := got.Column("n")
	wantN := []struct {
		valid bool
		v     int64
	}{{true, 1}, {true, 2}, {false, 0}, {true, 4}}
	for i, w := range wantN {
		e := n.GetElement(int64(i))
		if e.Valid != w.valid {
			t.Fatalf("n[%d]: valid=%v want %v", i, e.Valid, w.valid)
		}
		if w.valid && e.I != w.v {
			t.Fatalf("n[%d]: got %d want %d", i, e.I, w.v)
		}
	}
}

func TestReadAcceptsBothTrailerSuffixes(t *testing.T) {
	dt := buildIntNullFrame(t)
	p := rtpool.NewPool(1)

	var buf bytes.Buffer
	if err := Write(p, &buf, dt); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	// flip the trailer to the "1JAY" suffix variant and confirm Read
	// still accepts it.
	copy(data[len(data)-4:], oneJaySuffix[:])
	if _, err := Read(data); err != nil {
		t.Fatalf("expected the 1JAY trailer suffix to be accepted: %v", err)
	}
}
