package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestStdLoggerBuffersWarningsUntilClose(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf)
	l.Warnf("column %s bumped from int to float on row %d", "x", 7)
	if buf.Len() != 0 {
		t.Fatalf("expected no output before Close, got %q", buf.String())
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "bumped from int to float") {
		t.Fatalf("expected the warning to be flushed, got %q", buf.String())
	}
}

func TestStdLoggerInfofWritesImmediately(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf)
	l.Infof("read %d rows", 100)
	if !strings.Contains(buf.String(), "read 100 rows") {
		t.Fatalf("expected immediate Infof output, got %q", buf.String())
	}
}

func TestNullLoggerDiscardsEverything(t *testing.T) {
	var l NullLogger
	l.Warnf("anything")
	l.Infof("anything")
	l.Progress(0.5)
}

func TestParseMemoryLimit(t *testing.T) {
	n, err := ParseMemoryLimit("2GiB")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2*1024*1024*1024 {
		t.Fatalf("expected 2GiB in bytes, got %d", n)
	}
}

func TestParseMemoryLimitEmptyIsZero(t *testing.T) {
	n, err := ParseMemoryLimit("")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected 0 for an unset limit, got %d", n)
	}
}

func TestMemStatsReportsNonEmptyString(t *testing.T) {
	s := MemStats()
	if !strings.Contains(s, "alloc=") {
		t.Fatalf("expected alloc field in %q", s)
	}
}
