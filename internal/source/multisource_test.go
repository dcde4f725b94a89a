package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
)

func strVal(s string) *string { return &s }

func intFrame(vals []int64) *frame.DataTable {
	c := column.NewStorageColumn(column.Int64, int64(len(vals)))
	for i, v := range vals {
		c.SetInt(int64(i), v)
	}
	dt, err := frame.New([]string{"x"}, []column.Column{c}, 0)
	if err != nil {
		panic(err)
	}
	return dt
}

func TestNormalizeRejectsMixedInput(t *testing.T) {
	_, err := Normalize(Input{Text: strVal("a,b\n1,2\n"), Path: strVal("foo.csv")}, StrategyWarn, nil)
	if err == nil {
		t.Fatal("expected an error when more than one source family is set")
	}
}

func TestNormalizeRejectsEmptyInput(t *testing.T) {
	_, err := Normalize(Input{}, StrategyWarn, nil)
	if err == nil {
		t.Fatal("expected an error when no source family is set")
	}
}

func TestNormalizeTextYieldsSingleSource(t *testing.T) {
	ms, err := Normalize(Input{Text: strVal("a,b\n1,2\n")}, StrategyWarn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms.Sources) != 1 || ms.Sources[0].Kind != KindText {
		t.Fatalf("expected one text source, got %+v", ms.Sources)
	}
}

func TestNormalizeGlobExpandsToMultipleSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*.csv")
	ms, err := Normalize(Input{Glob: &pattern}, StrategyAll, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms.Sources) != 2 {
		t.Fatalf("expected 2 sources from glob, got %d", len(ms.Sources))
	}
}

func TestNormalizePathMissingFileErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.csv")
	_, err := Normalize(Input{Path: &missing, WaitForPath: -1}, StrategyWarn, nil)
	if err == nil {
		t.Fatal("expected an error for a missing path with waiting disabled")
	}
}

type recordingWarner struct{ msgs []string }

func (w *recordingWarner) Warnf(format string, args ...interface{}) {
	w.msgs = append(w.msgs, format)
}

func TestNormalizeWarnStrategyWarnsOnMultipleSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*.csv")
	w := &recordingWarner{}
	ms, err := Normalize(Input{Glob: &pattern}, StrategyWarn, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || !strings.Contains(w.msgs[0], "resolved to") {
		t.Fatalf("expected one warning about dropped sources, got %+v", w.msgs)
	}
	if len(ms.Sources) != 2 {
		t.Fatalf("normalize should still keep every resolved source, got %d", len(ms.Sources))
	}
}

func TestReadSingleErrorStrategyRejectsMultiple(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*.csv")
	ms, err := Normalize(Input{Glob: &pattern}, StrategyError, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ms.ReadSingle(func(s Source) (*frame.DataTable, error) {
		return intFrame([]int64{1}), nil
	})
	if err == nil {
		t.Fatal("expected StrategyError to reject multiple resolved sources")
	}
}

func TestReadSingleAllStrategyRbindsEverySource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*.csv")
	ms, err := Normalize(Input{Glob: &pattern}, StrategyAll, nil)
	if err != nil {
		t.Fatal(err)
	}
	dt, err := ms.ReadSingle(func(s Source) (*frame.DataTable, error) {
		return intFrame([]int64{1, 2}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if dt.Nrows() != 4 {
		t.Fatalf("expected rbind of both sources to total 4 rows, got %d", dt.Nrows())
	}
}

func TestIteratorWalksEverySourceRegardlessOfStrategy(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "*.csv")
	ms, err := Normalize(Input{Glob: &pattern}, StrategyOne, nil)
	if err != nil {
		t.Fatal(err)
	}
	it := ms.Iterator(func(s Source) (*frame.DataTable, error) {
		return intFrame([]int64{1}), nil
	})
	count := 0
	for {
		_, ok, err := it.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected the iterator to visit both sources, got %d", count)
	}
}
