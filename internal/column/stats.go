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
package column

import (
	"math"
	"sync"

	"github.com/memcolumn/coldt/internal/rtpool"
)

// ComputeStats fills c's stats cache via the runtime's parallel
// primitives, since stats must be computed via the
// runtime's parallel primitives"). It takes the column's shared mutex
// for read while scanning and for write while committing, matching the
// shared-resource policy.
func ComputeStats(p *rtpool.Pool, mu *rtpool.SharedMutex, c *StorageColumn) *Stats {
	mu.RLock()

	n := c.Nrows()
	var mtx sync.Mutex
	min, max, sum := math.Inf(1), math.Inf(-1), 0.0
	count := int64(0)
	seen := make(map[string]struct{})

	p.ParallelForStatic(int(n), 4096, func(start, end, _ int) {
		localMin, localMax, localSum := math.Inf(1), math.Inf(-1), 0.0
		localCount := int64(0)
		localSeen := make(map[string]struct{})
		for i := int64(start); i < int64(end); i++ {
			e := c.GetElement(i)
			if !e.Valid {
				continue
			}
			localCount++
			var v float64
			switch c.Stype().Ltype() {
			case LReal:
				v = e.F
			case LString:
				localSeen[e.S] = struct{}{}
				continue
			default:
				v = float64(e.I)
			}
			if v < localMin {
				localMin = v
			}
			if v > localMax {
				localMax = v
			}
			localSum += v
		}
		mtx.Lock()
		if localMin < min {
			min = localMin
		}
		if localMax > max {
			max = localMax
		}
		sum += localSum
		count += localCount
		for k := range localSeen {
			seen[k] = struct{}{}
		}
		mtx.Unlock()
	})

	mu.RUnlock()
	mu.Lock()
	defer mu.Unlock()

	st := c.Stats()
	st.Count = count
	if c.Stype().Ltype() == LString {
		st.NUnique = int64(len(seen))
	} else if count > 0 {
		st.Min, st.Max, st.Sum = min, max, sum
		st.Mean = sum / float64(count)
		var variance float64
		p.ParallelForStatic(int(n), 4096, func(start, end, _ int) {
			local := 0.0
			for i := int64(start); i < int64(end); i++ {
				e := c.GetElement(i)
				if !e.Valid {
					continue
				}
				v := e.F
				if c.Stype().Ltype() != LReal {
					v = float64(e.I)
				}
				d := v - st.Mean
				local += d * d
			}
			mtx.Lock()
			variance += local
			mtx.Unlock()
		})
		st.Stdev = math.Sqrt(variance / float64(count))
	}
	st.valid = true
	return st
}
