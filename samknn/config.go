// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package samknn composes the distance kernel, memory buffers, STM
// distance matrix, kNN voter, cleaner, LTM compressor and size adaptor into
// the SAM-kNN classifier's public train/predict contract (§4.7, §4.8, §6).
package samknn

import "github.com/gonum-community/samknn/metric"

// Config holds the classifier's recognized options (§6), as plain exported
// fields following the teacher's Settings-struct convention (e.g.
// gonum.org/v1/gonum/diff/fd.Settings) rather than functional options.
// Zero-value fields are replaced by their documented defaults in
// NewClassifier.
type Config struct {
	// K is the number of neighbors used by every kNN vote. Default 5.
	K int
	// Limit is the total capacity W = maxSTMSize + maxLTMSize. Default 1000.
	Limit int
	// MinSTMSize bounds how far the size adaptor may shrink the STM.
	// Default 50.
	MinSTMSize int
	// RelativeLTMSize is the fraction of Limit reserved for the LTM,
	// p in [0,1]. Default 0.4.
	RelativeLTMSize float64
	// RecalculateError selects the adaptor's Recalculate variant (§4.6).
	RecalculateError bool
	// UniformWeighted disables distance weighting in every kNN vote.
	UniformWeighted bool
	// AdaptationInterval is how many training steps elapse between size
	// adaptor invocations. Default 1.
	AdaptationInterval int
	// Metric selects the Lp norm the distance kernel uses. Default
	// metric.Euclidean.
	Metric metric.Norm
}

func (c Config) withDefaults() Config {
	if c.K == 0 {
		c.K = 5
	}
	if c.Limit == 0 {
		c.Limit = 1000
	}
	if c.MinSTMSize == 0 {
		c.MinSTMSize = 50
	}
	if c.RelativeLTMSize == 0 {
		c.RelativeLTMSize = 0.4
	}
	if c.AdaptationInterval == 0 {
		c.AdaptationInterval = 1
	}
	return c
}
