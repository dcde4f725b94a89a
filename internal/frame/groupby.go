/*
Copyright (C) 2026  coldt contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package frame

import (
	"sort"

	"github.com/memcolumn/coldt/internal/column"
)

// Groupby is the compact offsets-array representation of equivalence
// classes on rows: the rows Order[Offsets[g]:Offsets[g+1]] form
// group g, named after memcp's own "group by" query step but built here
// as a one-shot standalone structure rather than a query-plan node,
// since there is no query planner in this package.
type Groupby struct {
	Offsets []int64 // length ngroups+1
	Order   []int64 // permutation of [0,nrows) grouping equal keys together
	Keys    [][]column.Element
}

func (g *Groupby) Ngroups() int { return len(g.Offsets) - 1 }

// GroupRows returns the physical row numbers belonging to group g, in
// Order's permuted sequence.
func (g *Groupby) GroupRows(group int) []int64 {
	return g.Order[g.Offsets[group]:g.Offsets[group+1]]
}

// GroupBy partitions dt's rows by the given key columns. It sorts a row
// permutation by key tuple (stable, so ties preserve original row
// order) and then scans for boundaries -- the same sort-then-scan shape
// memcp's index rebuild uses for its btree, just without persisting an
// index afterwards.
func GroupBy(dt *DataTable, keyNames []string) *Groupby {
	keyCols := make([]column.Column, len(keyNames))
	for i, n := range keyNames {
		keyCols[i] = dt.Column(n)
	}
	n := int(dt.nrows)
	order := make([]int64, n)
	for i := range order {
		order[i] = int64(i)
	}
	rowKey := func(r int64) []column.Element {
		vals := make([]column.Element, len(keyCols))
		for i, c := range keyCols {
			vals[i] = c.GetElement(r)
		}
		return vals
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lessKey(rowKey(order[i]), rowKey(order[j]))
	})

	var offsets []int64
	var keys [][]column.Element
	offsets = append(offsets, 0)
	for i := 0; i < n; i++ {
		if i == 0 {
			keys = append(keys, rowKey(order[i]))
			continue
		}
		if !equalKey(rowKey(order[i-1]), rowKey(order[i])) {
			offsets = append(offsets, int64(i))
			keys = append(keys, rowKey(order[i]))
		}
	}
	offsets = append(offsets, int64(n))
	return &Groupby{Offsets: offsets, Order: order, Keys: keys}
}

func lessKey(a, b []column.Element) bool {
	for i := range a {
		c := compareElements(a[i], b[i])
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func equalKey(a, b []column.Element) bool {
	for i := range a {
		if compareElements(a[i], b[i]) != 0 {
			return false
		}
	}
	return true
}

func compareElements(a, b column.Element) int {
	if !a.Valid && !b.Valid {
		return 0
	}
	if !a.Valid {
		return -1
	}
	if !b.Valid {
		return 1
	}
	if a.S != "" || b.S != "" {
		switch {
		case a.S < b.S:
			return -1
		case a.S > b.S:
			return 1
		default:
			return 0
		}
	}
	av, bv := float64(a.I)+a.F, float64(b.I)+b.F
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
