// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clean

import (
	"testing"

	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/memory"
	"github.com/gonum-community/samknn/metric"
)

func TestIncrementalRemovesContradictingLTMPoint(t *testing.T) {
	h := &instance.Header{Kinds: []instance.Kind{instance.Numeric, instance.Numeric}}
	k := metric.New(h, h.AllAttrs(), metric.Euclidean)

	stm := &memory.Buffer{}
	// 5 tightly clustered class-0 points near the origin; the newest one,
	// which Incremental cleans against, sits at the origin itself.
	for i := 0; i < 5; i++ {
		stm.Append(instance.New([]float64{0.01 * float64(4-i), 0}, 0))
	}
	ltm := &memory.Buffer{}
	ltm.Append(instance.New([]float64{0, 0.01}, 1)) // contradicting class-1 point near origin

	Incremental(k, stm, ltm, 3)

	if ltm.Len() != 0 {
		t.Fatalf("LTM len = %d, want 0 after cleaning", ltm.Len())
	}
}

func TestNoOpWhenSTMTooSmall(t *testing.T) {
	h := &instance.Header{Kinds: []instance.Kind{instance.Numeric}}
	k := metric.New(h, h.AllAttrs(), metric.Euclidean)
	stm := &memory.Buffer{}
	stm.Append(instance.New([]float64{0}, 0))
	ltm := &memory.Buffer{}
	ltm.Append(instance.New([]float64{0}, 1))

	Incremental(k, stm, ltm, 3)
	if ltm.Len() != 1 {
		t.Fatalf("LTM len = %d, want 1 (no-op expected)", ltm.Len())
	}
}

func TestNoOpWhenLTMEmpty(t *testing.T) {
	h := &instance.Header{Kinds: []instance.Kind{instance.Numeric}}
	k := metric.New(h, h.AllAttrs(), metric.Euclidean)
	stm := &memory.Buffer{}
	for i := 0; i < 5; i++ {
		stm.Append(instance.New([]float64{float64(i)}, 0))
	}
	ltm := &memory.Buffer{}
	Incremental(k, stm, ltm, 2)
	if ltm.Len() != 0 {
		t.Fatalf("LTM len = %d, want 0", ltm.Len())
	}
}

func TestCleanNeverIncreasesLTM(t *testing.T) {
	h := &instance.Header{Kinds: []instance.Kind{instance.Numeric}}
	k := metric.New(h, h.AllAttrs(), metric.Euclidean)
	stm := &memory.Buffer{}
	for i := 0; i < 6; i++ {
		stm.Append(instance.New([]float64{float64(i)}, i%2))
	}
	ltm := &memory.Buffer{}
	for i := 0; i < 4; i++ {
		ltm.Append(instance.New([]float64{float64(i) + 0.5}, (i+1)%2))
	}
	before := ltm.Len()
	Incremental(k, stm, ltm, 2)
	if ltm.Len() > before {
		t.Fatalf("LTM grew from %d to %d", before, ltm.Len())
	}
}
