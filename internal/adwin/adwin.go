// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adwin implements the ADWIN (ADaptive WINdowing) change detector
// (§6): an online detector fed a stream of 0/1 outcomes that reports
// whether the recent mean has shifted enough, with high confidence, to
// indicate the underlying concept changed.
//
// No worked ADWIN implementation was present anywhere in the retrieved
// example pack, so this is a from-scratch reproduction of the published
// algorithm (Bifet & Gavaldà, "Learning from Time-Changing Data with
// Adaptive Windowing"), using an exponential histogram of buckets to bound
// memory and a Hoeffding-bound cut test. Its small exported-config,
// unexported-state struct shape follows gonum's stat/running package (an
// incremental-statistics struct with exported tuning fields and a Reset
// method), the nearest idiom the teacher offers for "maintain a running
// estimate over a stream."
package adwin

import "math"

const (
	defaultDelta      = 0.002
	defaultMaxBuckets = 5
)

type bucket struct {
	count float64
	sum   float64
}

// Detector is an ADWIN change detector over a 0/1 stream.
type Detector struct {
	// Delta is the confidence parameter: smaller values require stronger
	// evidence before reporting a change. Zero means the default 0.002.
	Delta float64
	// MaxBuckets bounds how many same-size buckets the exponential
	// histogram keeps per level before merging the oldest two. Zero means
	// the default 5.
	MaxBuckets int

	levels [][]bucket // levels[l] holds buckets of 2^l points each, oldest first within the level
	width  int
	total  float64
}

// Reset discards all accumulated state.
func (d *Detector) Reset() {
	d.levels = nil
	d.width = 0
	d.total = 0
}

func (d *Detector) delta() float64 {
	if d.Delta == 0 {
		return defaultDelta
	}
	return d.Delta
}

func (d *Detector) maxBuckets() int {
	if d.MaxBuckets == 0 {
		return defaultMaxBuckets
	}
	return d.MaxBuckets
}

// Width reports the number of points currently in the window.
func (d *Detector) Width() int { return d.width }

// Mean reports the current window mean, or 0 if the window is empty.
func (d *Detector) Mean() float64 {
	if d.width == 0 {
		return 0
	}
	return d.total / float64(d.width)
}

// Feed adds bit (expected to be 0 or 1, though any float64 outcome works)
// to the window and reports whether a change was detected, in which case
// the older portion of the window has already been dropped.
func (d *Detector) Feed(bit float64) bool {
	d.insert(bit)
	d.compress()
	return d.checkCuts()
}

func (d *Detector) insert(v float64) {
	if len(d.levels) == 0 {
		d.levels = make([][]bucket, 1)
	}
	d.levels[0] = append(d.levels[0], bucket{count: 1, sum: v})
	d.width++
	d.total += v
}

func (d *Detector) compress() {
	mb := d.maxBuckets()
	for l := 0; l < len(d.levels); l++ {
		if len(d.levels[l]) <= mb {
			continue
		}
		a, b := d.levels[l][0], d.levels[l][1]
		d.levels[l] = d.levels[l][2:]
		merged := bucket{count: a.count + b.count, sum: a.sum + b.sum}
		if l+1 == len(d.levels) {
			d.levels = append(d.levels, nil)
		}
		d.levels[l+1] = append(d.levels[l+1], merged)
	}
}

// flatten returns the buckets in chronological (oldest-first) order, along
// with the (level, position-within-level) each came from so a detected cut
// can be translated back into a removal from the level structure.
func (d *Detector) flatten() ([]bucket, [][2]int) {
	var bs []bucket
	var locs [][2]int
	for l := len(d.levels) - 1; l >= 0; l-- {
		for i, b := range d.levels[l] {
			bs = append(bs, b)
			locs = append(locs, [2]int{l, i})
		}
	}
	return bs, locs
}

// checkCuts scans every contiguous older/newer split of the window and
// drops the older side the first time its mean differs from the newer
// side's by more than the Hoeffding-bound cut threshold.
func (d *Detector) checkCuts() bool {
	if d.width < 2 {
		return false
	}
	bs, _ := d.flatten()

	var n0 float64
	var sum0 float64
	for i := 0; i < len(bs)-1; i++ {
		n0 += bs[i].count
		sum0 += bs[i].sum
		n1 := float64(d.width) - n0
		sum1 := d.total - sum0
		if n0 < 1 || n1 < 1 {
			continue
		}
		mean0 := sum0 / n0
		mean1 := sum1 / n1
		eps := d.cutThreshold(n0, n1)
		if math.Abs(mean0-mean1) > eps {
			d.dropOlderThan(i + 1)
			return true
		}
	}
	return false
}

// cutThreshold computes the Hoeffding-bound threshold for declaring the
// means of two sub-windows of size n0 and n1 different, at confidence
// level Delta (Bonferroni-corrected by the current window width, the
// standard ADWIN correction for testing many candidate cuts).
func (d *Detector) cutThreshold(n0, n1 float64) float64 {
	m := 1 / (1/n0 + 1/n1)
	dd := d.delta() / float64(1+d.width)
	if dd <= 0 {
		dd = d.delta()
	}
	return math.Sqrt(1 / (2 * m) * math.Log(4/dd))
}

// dropOlderThan removes the oldest nBuckets flattened buckets from the
// window.
func (d *Detector) dropOlderThan(nBuckets int) {
	bs, locs := d.flatten()
	for i := 0; i < nBuckets; i++ {
		d.width -= int(bs[i].count)
		d.total -= bs[i].sum
	}
	// Remove, per level, every flattened bucket at or before (lvl, idx) in
	// chronological order; since flatten walks levels from highest to
	// lowest and each level oldest-first, the buckets to drop within a
	// level are always a prefix of that level's slice.
	dropCount := make(map[int]int)
	for i := 0; i < nBuckets; i++ {
		dropCount[locs[i][0]]++
	}
	for l, n := range dropCount {
		d.levels[l] = d.levels[l][n:]
	}
}
