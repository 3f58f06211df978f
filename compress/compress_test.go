// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compress

import (
	"math/rand"
	"testing"

	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/memory"
)

func TestClusterDownHalvesEachClass(t *testing.T) {
	ltm := &memory.Buffer{}
	for i := 0; i < 7; i++ {
		ltm.Append(instance.New([]float64{float64(i), 0}, 0))
	}
	for i := 0; i < 4; i++ {
		ltm.Append(instance.New([]float64{float64(i), 10}, 1))
	}
	rng := rand.New(rand.NewSource(42))
	ClusterDown(ltm, 2, rng)

	var c0, c1 int
	for _, x := range ltm.All() {
		switch x.Class() {
		case 0:
			c0++
		case 1:
			c1++
		}
	}
	if c0 != 4 { // ceil(7/2)
		t.Errorf("class 0 count = %d, want 4", c0)
	}
	if c1 != 2 { // ceil(4/2)
		t.Errorf("class 1 count = %d, want 2", c1)
	}
}

func TestClusterDownLeavesSingletonClassAlone(t *testing.T) {
	ltm := &memory.Buffer{}
	ltm.Append(instance.New([]float64{1, 1}, 0))
	rng := rand.New(rand.NewSource(1))
	ClusterDown(ltm, 1, rng)
	if ltm.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ltm.Len())
	}
}

func TestClusterDownNeverIncreasesSize(t *testing.T) {
	ltm := &memory.Buffer{}
	for i := 0; i < 10; i++ {
		ltm.Append(instance.New([]float64{float64(i)}, i%3))
	}
	before := ltm.Len()
	rng := rand.New(rand.NewSource(7))
	ClusterDown(ltm, 3, rng)
	if ltm.Len() > before {
		t.Fatalf("LTM grew from %d to %d", before, ltm.Len())
	}
}
