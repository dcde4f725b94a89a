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
package csvread

// ChunkPlan is the outcome of the chunking-strategy formulas:
// how many chunks to split the input into, how large each nominally
// is, and how many worker threads to actually use (which may be fewer
// than requested if the input is too small to keep them all busy).
type ChunkPlan struct {
	ChunkSize  int64
	ChunkCount int
	NThreads   int
}

const (
	minChunkSize = 1 << 16
	maxChunkSize = 1 << 20
)

// PlanChunks implements the clamp/round formulas verbatim: an initial
// chunk size derived from the mean line length, a shrink when
// max_nrows bounds the input further than its raw byte size does, and
// a final rounding of chunk_count to a multiple of nthreads so no
// worker sits idle on an uneven split.
func PlanChunks(nthreads int, size int64, meanLineLen int64, maxNrows int64) ChunkPlan {
	if meanLineLen < 1 {
		meanLineLen = 1
	}
	if nthreads < 1 {
		nthreads = 1
	}
	chunkSize := clamp64(1000*meanLineLen, minChunkSize, maxChunkSize)
	if chunkSize < 10*meanLineLen {
		chunkSize = 10 * meanLineLen
	}

	s := size
	if maxNrows > 0 {
		bound := int64(float64(maxNrows) * float64(meanLineLen) * 1.5)
		if bound < s {
			s = bound + 2*chunkSize // two extra chunks of safety margin
		}
	}

	chunkCount := s / chunkSize
	if chunkCount < 1 {
		chunkCount = 1
	}

	if int64(nthreads) < chunkCount {
		// round chunk_count up to a multiple of nthreads, then
		// recompute chunk_size so chunk_count*chunk_size still covers s
		rem := chunkCount % int64(nthreads)
		if rem != 0 {
			chunkCount += int64(nthreads) - rem
		}
		if chunkCount > 0 {
			chunkSize = (s + chunkCount - 1) / chunkCount
		}
	} else {
		nthreads = int(chunkCount)
	}

	return ChunkPlan{ChunkSize: chunkSize, ChunkCount: int(chunkCount), NThreads: nthreads}
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChunkBounds returns the provisional (start, end) byte offsets of
// chunk i in an input of the given size under plan -- "provisional"
// because line-start recovery may move start forward for any chunk
// whose true_start is not already known (chunk 0 always is).
func ChunkBounds(plan ChunkPlan, size int64, i int) (start, end int64) {
	start = int64(i) * plan.ChunkSize
	end = start + plan.ChunkSize
	if i == plan.ChunkCount-1 || end > size {
		end = size
	}
	if start > size {
		start = size
	}
	return start, end
}
