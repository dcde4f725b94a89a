package source

import "testing"

func TestSourceStringDescribesKind(t *testing.T) {
	s := Source{Kind: KindPath, Path: "/tmp/x.csv"}
	if got := s.String(); got != "path(/tmp/x.csv)" {
		t.Fatalf("unexpected String(): %q", got)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	a := newID()
	b := newID()
	if a == b {
		t.Fatal("expected two consecutive ids to differ")
	}
}

func TestKindStringNamesEveryVariant(t *testing.T) {
	kinds := []Kind{KindText, KindPath, KindURL, KindCommand, KindReader}
	for _, k := range kinds {
		if k.String() == "unknown" {
			t.Fatalf("kind %d missing a name", k)
		}
	}
}
