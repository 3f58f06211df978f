// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"testing"

	"github.com/gonum-community/samknn/instance"
)

func TestBufferAppendDeleteFront(t *testing.T) {
	b := &Buffer{}
	for i := 0; i < 5; i++ {
		b.Append(instance.New([]float64{float64(i)}, 0))
	}
	removed := b.DeleteFront(2)
	if len(removed) != 2 || removed[0].At(0) != 0 || removed[1].At(0) != 1 {
		t.Fatalf("unexpected removed: %+v", removed)
	}
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	if b.At(0).At(0) != 2 {
		t.Fatalf("At(0) = %v, want 2", b.At(0).At(0))
	}
}

func TestBufferDeleteAtReverseOrder(t *testing.T) {
	b := &Buffer{}
	for i := 0; i < 5; i++ {
		b.Append(instance.New([]float64{float64(i)}, 0))
	}
	for _, i := range []int{4, 2, 0} {
		b.DeleteAt(i)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.At(0).At(0) != 1 || b.At(1).At(0) != 3 {
		t.Fatalf("unexpected contents: %v %v", b.At(0).At(0), b.At(1).At(0))
	}
}

func TestBufferReplaceClass(t *testing.T) {
	b := &Buffer{}
	b.Append(instance.New([]float64{0}, 0))
	b.Append(instance.New([]float64{1}, 1))
	b.Append(instance.New([]float64{2}, 0))
	b.ReplaceClass(0, []*instance.Instance{instance.New([]float64{99}, 0)})
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.At(0).Class() != 1 {
		t.Fatalf("expected class-1 entry preserved first")
	}
	if b.At(1).At(0) != 99 {
		t.Fatalf("expected replaced centroid to be appended")
	}
}

func pt(v float64) *instance.Instance { return instance.New([]float64{v}, 0) }

func TestMatrixSymmetricAndDiagonal(t *testing.T) {
	m := NewMatrix(4)
	// Simulate appending 3 points with distances |i-j|.
	vals := []float64{0, 1, 2}
	for n := 1; n <= len(vals); n++ {
		dists := make([]float64, n)
		for j := 0; j < n; j++ {
			dists[j] = absf(vals[n-1] - vals[j])
		}
		m.AppendRow(n, dists)
	}
	for i := 0; i < 3; i++ {
		if m.At(i, i) != 0 {
			t.Errorf("At(%d,%d) = %v, want 0", i, i, m.At(i, i))
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("asymmetric: At(%d,%d)=%v At(%d,%d)=%v", i, j, m.At(i, j), j, i, m.At(j, i))
			}
		}
	}
	if m.At(0, 2) != 2 {
		t.Errorf("At(0,2) = %v, want 2", m.At(0, 2))
	}
}

func TestMatrixRewriteOnOverflow(t *testing.T) {
	// limit=4 -> physical size 5x5, valid physical rows 0..4.
	m := NewMatrix(4)
	vals := []float64{0, 1, 2, 3}
	for n := 1; n <= len(vals); n++ {
		dists := make([]float64, n)
		for j := 0; j < n; j++ {
			dists[j] = absf(vals[n-1] - vals[j])
		}
		m.AppendRow(n, dists)
	}
	// Trim the first entry out (simulate STM trim by 1): origin becomes 1,
	// STM logically holds vals[1..3] at logical positions 0..2.
	m.Trim(1)
	if m.OriginIdx() != 1 {
		t.Fatalf("OriginIdx = %d, want 1", m.OriginIdx())
	}
	// Append a 5th point; origin(1)+newLen(4)-1 = 4 >= limit(4) -> rewrite.
	newLen := 4
	dists := make([]float64, newLen)
	all := append(append([]float64{}, vals[1:]...), 10)
	for j := 0; j < newLen; j++ {
		dists[j] = absf(all[newLen-1] - all[j])
	}
	m.AppendRow(newLen, dists)
	if m.OriginIdx() != 0 {
		t.Fatalf("expected rewrite to reset origin, got %d", m.OriginIdx())
	}
	// Logical positions now 0..3 correspond to vals 1,2,3,10.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := absf(all[i] - all[j])
			if got := m.At(i, j); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
