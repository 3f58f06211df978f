// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ensemble implements the parallel bag of SAM-kNN learners (§4.9,
// §5): per-member Poisson-weighted training, performance-weighted voting,
// and ADWIN-triggered member replacement, over a fork-join worker pool
// whose send/answer-channel shape is adapted from the teacher's
// gonum.org/v1/gonum/diff/fd.Gradient.
package ensemble

import (
	"math/rand"
	"runtime"

	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/internal/adwin"
	"github.com/gonum-community/samknn/samknn"
)

// Config holds the ensemble's recognized options (§6), in addition to the
// per-member samknn.Config template every member is built from.
type Config struct {
	// Member is the base configuration every member's Classifier is built
	// with before per-member randomization (RandomizeK, RandomizeFeatures)
	// is applied.
	Member samknn.Config

	// EnsembleSize is M, the number of members. Default 10.
	EnsembleSize int
	// Lambda is the Poisson bagging rate. Default 6.
	Lambda float64
	// DisableWeightedVote turns Predict's per-member accuracy scaling off.
	DisableWeightedVote bool
	// NoDriftDetection disables the ADWIN replacement step entirely.
	NoDriftDetection bool
	// RandomizeK draws each member's K uniformly from [1, Member.K] instead
	// of sharing Member.K across every member.
	RandomizeK bool
	// RandomizeFeatures restricts each member to a random attribute subset
	// via samknn.Classifier.RandomizeFeatures, sized to half the attribute
	// count (rounded up, minimum 1).
	RandomizeFeatures bool
	// NumberOfJobs bounds the fork-join worker pool. -1 (or 0) means auto:
	// min(EnsembleSize, runtime.GOMAXPROCS(0)).
	NumberOfJobs int
}

func (c Config) withDefaults() Config {
	if c.EnsembleSize == 0 {
		c.EnsembleSize = 10
	}
	if c.Lambda == 0 {
		c.Lambda = 6
	}
	return c
}

type member struct {
	clf    *samknn.Classifier
	rng    *rand.Rand
	lambda float64
}

// Ensemble is the parallel bag of SAM-kNN members.
type Ensemble struct {
	cfg     Config
	rng     *rand.Rand
	header  *instance.Header
	members []*member
	workers int

	detector *adwin.Detector

	lastPredInstance *instance.Instance
	lastPredVotes    []float64
}

// NewEnsemble builds an ensemble of cfg.EnsembleSize members, each seeded
// from rng. A nil rng is replaced with a freshly seeded one.
func NewEnsemble(cfg Config, rng *rand.Rand) *Ensemble {
	cfg = cfg.withDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	e := &Ensemble{
		cfg: cfg,
		rng: rng,
	}
	if !cfg.NoDriftDetection {
		e.detector = &adwin.Detector{}
	}
	e.members = make([]*member, cfg.EnsembleSize)
	for i := range e.members {
		e.members[i] = e.newMember()
	}
	e.workers = e.effectiveWorkers()
	return e
}

func (e *Ensemble) newMember() *member {
	seed := e.rng.Int63()
	mrng := rand.New(rand.NewSource(seed))
	lambda := e.cfg.Lambda

	mcfg := e.cfg.Member
	if e.cfg.RandomizeK && mcfg.K > 1 {
		mcfg.K = 1 + mrng.Intn(mcfg.K)
	}
	return &member{
		clf:    samknn.NewClassifier(mcfg, mrng),
		rng:    mrng,
		lambda: lambda,
	}
}

func (e *Ensemble) effectiveWorkers() int {
	n := e.cfg.NumberOfJobs
	if p := runtime.GOMAXPROCS(0); n <= 0 || n > p {
		n = p
	}
	if n > len(e.members) {
		n = len(e.members)
	}
	if n < 1 {
		n = 1
	}
	return n
}

// SetContext propagates the stream header to every member and, when
// RandomizeFeatures is set, assigns each member an independent random
// attribute subset of half the attribute count (minimum 1).
func (e *Ensemble) SetContext(header *instance.Header) {
	e.header = header
	nFeat := header.NumAttrs()
	if e.cfg.RandomizeFeatures {
		nFeat = (header.NumAttrs() + 1) / 2
		if nFeat < 1 {
			nFeat = 1
		}
	}
	for _, m := range e.members {
		m.clf.SetContext(header)
		if e.cfg.RandomizeFeatures {
			m.clf.RandomizeFeatures(nFeat)
		}
	}
}

// Reset discards every member's learned state and the shared ADWIN
// detector.
func (e *Ensemble) Reset() {
	for _, m := range e.members {
		m.clf.Reset()
	}
	if e.detector != nil {
		e.detector.Reset()
	}
	e.lastPredInstance = nil
	e.lastPredVotes = nil
}
