package catalog

import (
	"testing"
	"time"
)

func TestSourcesRecordAndLookup(t *testing.T) {
	s := NewSources()
	if _, ok := s.Lookup("a.csv"); ok {
		t.Fatal("expected no entry before Record")
	}
	now := time.Unix(1700000000, 0).UTC()
	s.Record("a.csv", 100, 4, now)

	got, ok := s.Lookup("a.csv")
	if !ok {
		t.Fatal("expected entry after Record")
	}
	if got.Nrows != 100 || got.Ncols != 4 || !got.ReadAtUTC.Equal(now) {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestSourcesRecordOverwrites(t *testing.T) {
	s := NewSources()
	t1 := time.Unix(1, 0).UTC()
	t2 := time.Unix(2, 0).UTC()
	s.Record("a.csv", 10, 2, t1)
	s.Record("a.csv", 20, 3, t2)

	got, _ := s.Lookup("a.csv")
	if got.Nrows != 20 || got.Ncols != 3 || !got.ReadAtUTC.Equal(t2) {
		t.Fatalf("expected overwritten entry, got %+v", got)
	}
}

func TestSourcesWarnOnceDedups(t *testing.T) {
	s := NewSources()
	if !s.WarnOnce("a.csv", "column x bumped int->float") {
		t.Fatal("expected first WarnOnce to report should-warn")
	}
	if s.WarnOnce("a.csv", "column x bumped int->float") {
		t.Fatal("expected second WarnOnce for same key+message to suppress")
	}
	if !s.WarnOnce("a.csv", "column y bumped int->float") {
		t.Fatal("expected a different message to warn independently")
	}
	if !s.WarnOnce("b.csv", "column x bumped int->float") {
		t.Fatal("expected a different source key to warn independently")
	}
}
