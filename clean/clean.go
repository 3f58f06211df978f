// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clean implements the consistency cleaning rule (§4.4): removing
// LTM points that would vote for a different class than STM does within
// the kNN radius of an STM anchor.
package clean

import (
	"sort"

	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/knn"
	"github.com/gonum-community/samknn/memory"
	"github.com/gonum-community/samknn/metric"
)

type neighbor struct {
	idx  int
	dist float64
}

// cleanOne applies the contradiction rule for a single anchor p against ltm,
// using stmRef as the STM context from which p's same-class neighbors are
// drawn. It is a no-op when ltm is empty or len(stmRef) <= k, per §4.4.
func cleanOne(kernel *metric.Kernel, p *instance.Instance, stmRef []*instance.Instance, ltm *memory.Buffer, k int) {
	if ltm.Len() == 0 || len(stmRef) <= k {
		return
	}

	var same []neighbor
	for i, s := range stmRef {
		if s == p || s.Class() != p.Class() {
			continue
		}
		same = append(same, neighbor{i, kernel.Dist(p, s)})
	}
	if len(same) == 0 {
		return
	}
	sort.Slice(same, func(a, b int) bool { return same[a].dist < same[b].dist })
	kk := k
	if kk > len(same) {
		kk = len(same)
	}
	maxSameClassDist := same[kk-1].dist

	ltmItems := ltm.All()
	ldists := kernel.DistTo(p, ltmItems)
	kk2 := k
	if kk2 > len(ltmItems) {
		kk2 = len(ltmItems)
	}
	nearestLTM := knn.NArgMin(kk2, ldists, 0, len(ltmItems)-1)

	var toRemove []int
	for _, qi := range nearestLTM {
		q := ltmItems[qi]
		if q.Class() != p.Class() && ldists[qi] <= maxSameClassDist {
			toRemove = append(toRemove, qi)
		}
	}
	// Delete in reverse index order to preserve the validity of the
	// remaining indices as earlier entries are removed.
	sort.Sort(sort.Reverse(sort.IntSlice(toRemove)))
	for _, qi := range toRemove {
		ltm.DeleteAt(qi)
	}
}

// Incremental cleans ltm against the single newest STM instance. It is the
// call site invoked after every training step, before the size adaptor
// runs (§4.7 step 5).
func Incremental(kernel *metric.Kernel, stm *memory.Buffer, ltm *memory.Buffer, k int) {
	if stm.Len() == 0 {
		return
	}
	cleanOne(kernel, stm.At(stm.Len()-1), stm.All(), ltm, k)
}

// Batch cleans ltm against a just-discarded batch of former STM instances,
// one at a time, using stmRef (the STM remaining after the batch was
// removed) as each anchor's same-class-neighbor context.
func Batch(kernel *metric.Kernel, stmRef *memory.Buffer, ltm *memory.Buffer, k int, batch []*instance.Instance) {
	ref := stmRef.All()
	for _, p := range batch {
		cleanOne(kernel, p, ref, ltm, k)
	}
}
