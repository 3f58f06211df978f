// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "gonum.org/v1/gonum/mat"

// Matrix is the STM distance matrix (§3, §4.3): a square, pre-allocated
// cache of pairwise STM distances addressed by logical position, backed by
// a dense gonum matrix and a sliding physical origin so the same storage is
// reused for the lifetime of the classifier.
//
// Only the lower triangle (row = max logical index, column = min logical
// index) of each pair is ever written: when instance at logical position p
// is appended, its distance to every older surviving instance is computed
// once and stored in physical row originIdx+p. At reports both orderings
// of a pair by normalizing to that triangle, giving the symmetric view
// described by invariant 7 in §8 without duplicating storage.
type Matrix struct {
	dense  *mat.Dense
	limit  int // W: matrix is allocated (limit+1) x (limit+1)
	origin int
}

// NewMatrix allocates a matrix sized for an STM capacity of limit.
func NewMatrix(limit int) *Matrix {
	return &Matrix{
		dense: mat.NewDense(limit+1, limit+1, nil),
		limit: limit,
	}
}

// OriginIdx returns the current physical origin.
func (m *Matrix) OriginIdx() int {
	return m.origin
}

// Reset reinitializes the matrix to a fresh, zeroed state with origin 0.
func (m *Matrix) Reset() {
	m.dense = mat.NewDense(m.limit+1, m.limit+1, nil)
	m.origin = 0
}

// At returns the cached distance between the instances at logical
// positions i and j. The diagonal is always 0.
func (m *Matrix) At(i, j int) float64 {
	if i == j {
		return 0
	}
	hi, lo := i, j
	if lo > hi {
		hi, lo = lo, hi
	}
	return m.dense.At(m.origin+hi, m.origin+lo)
}

// Row returns the distances from the instance at logical position i to
// every logical position in [0, length), reusing dst's storage when its
// capacity allows. Used by the size adaptor (§4.6) to read a cached row
// directly instead of recomputing distances.
func (m *Matrix) Row(i, length int, dst []float64) []float64 {
	if cap(dst) < length {
		dst = make([]float64, length)
	}
	dst = dst[:length]
	for j := 0; j < length; j++ {
		dst[j] = m.At(i, j)
	}
	return dst
}

// NeedsRewrite reports whether writing the row for a newest STM length of
// newSTMLen would overflow the physical storage, per §4.3 step 1.
func (m *Matrix) NeedsRewrite(newSTMLen int) bool {
	return m.origin+newSTMLen-1 >= m.limit
}

// Rewrite compacts the liveLen already-populated logical rows back to
// physical origin 0 and resets the origin. liveLen is the STM length
// before the newest instance being inserted, i.e. the number of rows that
// currently hold valid distances.
func (m *Matrix) Rewrite(liveLen int) {
	for i := 0; i < liveLen; i++ {
		for j := 0; j <= i; j++ {
			v := m.dense.At(m.origin+i, m.origin+j)
			m.dense.Set(i, j, v)
		}
	}
	m.origin = 0
}

// AppendRow writes the distance vector for the newest STM instance. newLen
// is the STM length after appending that instance; dists has length newLen
// and dists[j] is the distance from the new instance to the STM instance at
// logical position j (dists[newLen-1] is the self-distance, 0). AppendRow
// performs the §4.3 step-1 rewrite check itself before writing.
func (m *Matrix) AppendRow(newLen int, dists []float64) {
	if m.NeedsRewrite(newLen) {
		m.Rewrite(newLen - 1)
	}
	newIdx := newLen - 1
	row := m.origin + newIdx
	for col := 0; col <= newIdx; col++ {
		m.dense.Set(row, m.origin+col, dists[col])
	}
}

// Trim slides the origin forward by diff after diff oldest STM rows have
// been removed from the buffer. No data moves; the physical rows that
// backed the removed logical positions simply become unreachable until the
// next Rewrite or Reset reclaims them.
func (m *Matrix) Trim(diff int) {
	m.origin += diff
}
