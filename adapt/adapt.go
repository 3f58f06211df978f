// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adapt implements the STM size adaptor (§4.6): bisection over a
// geometric progression of STM suffix sizes to minimize an interleaved
// test-train error estimate, with a prediction-history cache shared across
// calls and the recalculate/incremental variants described in the spec.
package adapt

import (
	"github.com/gonum-community/samknn/knn"
	"github.com/gonum-community/samknn/memory"
)

// Adaptor holds the configuration and prediction-history cache for STM size
// bisection. The zero value is usable once K and MinSTMSize are set.
type Adaptor struct {
	K          int
	MinSTMSize int
	Weighted   bool // distance-weighted voting when estimating error; mirrors the classifier's own voting mode
	Recalculate bool // "-r" variant: prune stale cache keys every call instead of reusing an off-by-one key

	cache map[int][]int // offset (from current STM start) -> interleaved test-train outcome bits
}

// candidateSizes enumerates S = {n, floor(n/2), floor(n/4), ...} down to
// but not below 2*minSTMSize, largest first.
func candidateSizes(n, minSTMSize int) []int {
	sizes := []int{n}
	for s := n / 2; s >= 2*minSTMSize; s /= 2 {
		sizes = append(sizes, s)
	}
	return sizes
}

func errorRate(hist []int) float64 {
	if len(hist) == 0 {
		return 1
	}
	var correct int
	for _, b := range hist {
		correct += b
	}
	return 1 - float64(correct)/float64(len(hist))
}

// Adapt evaluates every candidate STM suffix size and, if a strictly
// shorter suffix has lower estimated error than the current full STM size,
// trims the cache bookkeeping for that decision and returns the number of
// entries the caller should trim from the front of the STM (0 means no
// trim). Per §4.6, n < 2*MinSTMSize is a no-op: Adapt returns 0 and the
// STM keeps its size n.
func (a *Adaptor) Adapt(stm *memory.Buffer, matrix *memory.Matrix, numClasses int) int {
	n := stm.Len()
	if n < 2*a.MinSTMSize {
		return 0
	}
	if a.cache == nil {
		a.cache = make(map[int][]int)
	}

	sizes := candidateSizes(n, a.MinSTMSize)

	if a.Recalculate {
		a.pruneCache(sizes, n)
	}

	errs := make([]float64, len(sizes))
	for i, s := range sizes {
		off := n - s
		hist := a.historyForOffset(off, n, stm, matrix, numClasses)
		errs[i] = errorRate(hist)
	}

	if !a.Recalculate {
		a.reviseSuspiciousCandidates(sizes, errs, n, stm, matrix, numClasses)
	}

	best := 0
	for i := 1; i < len(errs); i++ {
		if errs[i] < errs[best] {
			best = i
		}
	}
	selected := sizes[best]
	if selected >= n {
		return 0
	}
	diff := n - selected
	a.afterTrim(diff)
	return diff
}

// pruneCache discards cache entries whose candidate size is no longer in
// the current enumeration S (the Recalculate variant, §4.6).
func (a *Adaptor) pruneCache(sizes []int, n int) {
	valid := make(map[int]bool, len(sizes))
	for _, s := range sizes {
		valid[n-s] = true
	}
	for off := range a.cache {
		if !valid[off] {
			delete(a.cache, off)
		}
	}
}

// historyForOffset returns the (possibly cached, possibly extended)
// interleaved test-train outcome history for the STM suffix starting at
// logical offset off, predicting STM[off+K..n) one instance at a time
// using k-NN over STM[off..i) with distances read from the cached matrix.
func (a *Adaptor) historyForOffset(off, n int, stm *memory.Buffer, matrix *memory.Matrix, numClasses int) []int {
	hist, startAt := a.seed(off, n)
	return a.extend(off, startAt, n, hist, stm, matrix, numClasses)
}

// seed returns the best known starting point for offset off's history: the
// cached entry if present, or — in the incremental (non-Recalculate)
// variant — the off-1 entry with its first bit dropped, since the suffix
// STM[off..) differs from STM[off-1..) by exactly that leading element.
func (a *Adaptor) seed(off, n int) (hist []int, startAt int) {
	if existing, ok := a.cache[off]; ok {
		return existing, off + a.K + len(existing)
	}
	if !a.Recalculate {
		if prev, ok := a.cache[off-1]; ok && len(prev) > 0 {
			h := append([]int(nil), prev[1:]...)
			return h, off + a.K + len(h)
		}
	}
	return nil, off + a.K
}

func (a *Adaptor) extend(off, startAt, n int, hist []int, stm *memory.Buffer, matrix *memory.Matrix, numClasses int) []int {
	for i := startAt; i < n; i++ {
		hist = append(hist, a.predictBit(i, off, stm, matrix, numClasses))
	}
	a.cache[off] = hist
	return hist
}

// fullRecompute recomputes offset off's history from scratch, ignoring any
// cached or incrementally-reused state, overwriting the cache entry.
func (a *Adaptor) fullRecompute(off, n int, stm *memory.Buffer, matrix *memory.Matrix, numClasses int) []int {
	delete(a.cache, off)
	return a.extend(off, off+a.K, n, nil, stm, matrix, numClasses)
}

func (a *Adaptor) predictBit(i, off int, stm *memory.Buffer, matrix *memory.Matrix, numClasses int) int {
	row := matrix.Row(i, i, nil)
	idx := knn.NArgMin(a.K, row, off, i-1)
	classOf := func(j int) int { return stm.At(j).Class() }
	votes := knn.WeightedVote(row, idx, classOf, 0, a.Weighted, numClasses-1)
	pred := knn.ArgmaxVote(votes)
	if pred == stm.At(i).Class() {
		return 1
	}
	return 0
}

// reviseSuspiciousCandidates is the incremental variant's correction step
// (§4.6): any candidate whose estimated error beats the full-size baseline
// is recomputed from scratch once, since its cached incremental estimate
// may be stale, and the error table is updated in place for re-selection.
func (a *Adaptor) reviseSuspiciousCandidates(sizes []int, errs []float64, n int, stm *memory.Buffer, matrix *memory.Matrix, numClasses int) {
	baseline := errs[0] // sizes[0] == n, the full STM
	for i := 1; i < len(sizes); i++ {
		if errs[i] < baseline {
			off := n - sizes[i]
			hist := a.fullRecompute(off, n, stm, matrix, numClasses)
			errs[i] = errorRate(hist)
		}
	}
}

// afterTrim re-keys the history cache after the caller has trimmed diff
// entries from the front of the STM. Per §4.6 this removes the entry for
// the smallest surviving key diff times, re-keying the remaining entries
// by subtracting the new minimum after each removal; the spec flags this
// bookkeeping as a faithful-reproduction target rather than a proven-
// optimal rule.
func (a *Adaptor) afterTrim(diff int) {
	for n := 0; n < diff; n++ {
		if len(a.cache) == 0 {
			break
		}
		delete(a.cache, smallestKey(a.cache))
		if len(a.cache) == 0 {
			break
		}
		min := smallestKey(a.cache)
		rekeyed := make(map[int][]int, len(a.cache))
		for k, v := range a.cache {
			rekeyed[k-min] = v
		}
		a.cache = rekeyed
	}
}

func smallestKey(m map[int][]int) int {
	first := true
	var min int
	for k := range m {
		if first || k < min {
			min = k
			first = false
		}
	}
	return min
}

// Reset discards the prediction-history cache, e.g. on classifier Reset.
func (a *Adaptor) Reset() {
	a.cache = nil
}
