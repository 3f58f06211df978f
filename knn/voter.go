// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package knn implements the kNN voter (§4.2): k-smallest selection with
// stable tie-breaking, and uniform/distance-weighted class voting.
package knn

import "sort"

// NArgMin returns the indices of the k smallest values of d within
// [lo, hi] (inclusive), ordered by increasing value. Ties are broken by
// earlier index — first-seen semantics — which is critical: a naive sort
// that is not index-stable on equal distances would silently reorder
// otherwise-equivalent neighbors from one call to the next.
func NArgMin(k int, d []float64, lo, hi int) []int {
	n := hi - lo + 1
	if n <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = lo + i
	}
	sort.Slice(idx, func(a, b int) bool {
		da, db := d[idx[a]], d[idx[b]]
		if da != db {
			return da < db
		}
		return idx[a] < idx[b]
	})
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}

// WeightedVote accumulates, per class label, either 1 (uniform voting) or
// 1/max(distance, 1e-9) (distance-weighted voting) for each neighbor index
// in idx. classOf maps a neighbor index to its class label. startIdx is the
// physical-to-logical offset applied when indexing d (§9: the spec treats
// startIdx as that offset and applies it uniformly rather than the source's
// inconsistent per-branch handling); the uniform branch never reads d, so it
// is unaffected by startIdx.
//
// The returned slice has length maxClassSeen+1.
func WeightedVote(d []float64, idx []int, classOf func(i int) int, startIdx int, weighted bool, maxClassSeen int) []float64 {
	votes := make([]float64, maxClassSeen+1)
	for _, i := range idx {
		c := classOf(i)
		if weighted {
			dist := d[i-startIdx]
			if dist < 1e-9 {
				dist = 1e-9
			}
			votes[c] += 1 / dist
		} else {
			votes[c]++
		}
	}
	return votes
}

// ArgmaxVote returns the class index with the highest vote, breaking ties
// by smallest class index.
func ArgmaxVote(v []float64) int {
	best := 0
	for c := 1; c < len(v); c++ {
		if v[c] > v[best] {
			best = c
		}
	}
	return best
}
