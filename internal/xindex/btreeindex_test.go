package xindex

import (
	"testing"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/rtpool"
)

func intCol(vals []int64) *column.StorageColumn {
	c := column.NewStorageColumn(column.Int64, int64(len(vals)))
	for i, v := range vals {
		c.SetInt(int64(i), v)
	}
	return c
}

func TestBuildAndLookup(t *testing.T) {
	p := rtpool.NewPool(4)
	col := intCol([]int64{5, 3, 9, 3, 1})
	idx, err := Build(p, []column.Column{col})
	if err != nil {
		t.Fatal(err)
	}
	rows := idx.Lookup([]column.Element{column.IntElement(3)})
	if len(rows) != 2 {
		t.Fatalf("expected 2 matching rows, got %d: %v", len(rows), rows)
	}
}

func TestCheckUniqueDetectsDuplicate(t *testing.T) {
	p := rtpool.NewPool(2)
	col := intCol([]int64{1, 2, 2, 3})
	idx, err := Build(p, []column.Column{col})
	if err != nil {
		t.Fatal(err)
	}
	_, _, dup := idx.CheckUnique()
	if !dup {
		t.Fatal("expected duplicate to be detected")
	}
}

func TestCheckUniquePassesWhenDistinct(t *testing.T) {
	p := rtpool.NewPool(2)
	col := intCol([]int64{1, 2, 3, 4})
	idx, err := Build(p, []column.Column{col})
	if err != nil {
		t.Fatal(err)
	}
	_, _, dup := idx.CheckUnique()
	if dup {
		t.Fatal("did not expect a duplicate")
	}
}
