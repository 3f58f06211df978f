// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ensemble

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gonum-community/samknn/instance"
)

type trainJob struct {
	idx int
}

type trainResult struct {
	idx int
	err error
}

// Train draws a Poisson weight for every member and, for each member whose
// draw is positive, trains it on x over a bounded worker pool (§4.9). A
// worker panic is recovered and surfaced as a fatal error from Train, per
// §7: the ensemble cannot reason about a member that crashed mid-train.
// After the pool joins, Train feeds the shared ADWIN detector the
// ensemble's own correctness bit for x and, on a detected change, resets
// and re-randomizes the highest-error members.
func (e *Ensemble) Train(x *instance.Instance) error {
	var toTrain []int
	for i, m := range e.members {
		k := distuv.Poisson{Lambda: m.lambda, Source: m.rng}.Rand()
		if k > 0 {
			toTrain = append(toTrain, i)
		}
	}

	if err := e.runTrainJobs(x, toTrain); err != nil {
		return err
	}

	if e.detector == nil {
		return nil
	}
	// Reuses the pre-training prediction memoized by a preceding Predict(x)
	// call under the standard prequential predict-then-train pairing; if
	// Train is called without a prior Predict, this recomputes against the
	// now-updated members instead, which is an acceptable drift-detection
	// input but not the intended evaluation semantics.
	votes := e.Predict(x)
	correct := 0.0
	if argmax(votes) == x.Class() {
		correct = 1
	}
	if e.detector.Feed(correct) {
		e.replaceWorstMembers()
	}
	return nil
}

func (e *Ensemble) runTrainJobs(x *instance.Instance, idxs []int) error {
	if len(idxs) == 0 {
		return nil
	}

	if e.workers <= 1 {
		for _, i := range idxs {
			if err := trainOne(e.members[i], x); err != nil {
				return err
			}
		}
		return nil
	}

	sendChan := make(chan trainJob, len(idxs))
	ansChan := make(chan trainResult, len(idxs))
	quit := make(chan struct{})
	defer close(quit)

	for w := 0; w < e.workers; w++ {
		go func(sendChan <-chan trainJob, ansChan chan<- trainResult, quit <-chan struct{}) {
			for {
				select {
				case <-quit:
					return
				case job, ok := <-sendChan:
					if !ok {
						return
					}
					ansChan <- trainResult{idx: job.idx, err: trainOne(e.members[job.idx], x)}
				}
			}
		}(sendChan, ansChan, quit)
	}

	for _, i := range idxs {
		sendChan <- trainJob{idx: i}
	}
	close(sendChan)

	var firstErr error
	for range idxs {
		res := <-ansChan
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
	}
	return firstErr
}

// trainOne trains a single member, converting a panic (e.g. a malformed
// instance reaching the classifier) into an error so a worker failure
// never takes down the pool.
func trainOne(m *member, x *instance.Instance) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ensemble: member training panicked: %v", r)
		}
	}()
	m.clf.Train(x)
	return nil
}

// replaceWorstMembers resets and re-randomizes the nRemovals = max(M/10,1)
// members with the highest current error (lowest accCurrentConcept), per
// §4.9. No member is reset twice in one pass.
func (e *Ensemble) replaceWorstMembers() {
	n := len(e.members) / 10
	if n < 1 {
		n = 1
	}
	idx := make([]int, len(e.members))
	for i := range idx {
		idx[i] = i
	}
	// Partial selection sort for the n worst (highest error, i.e. lowest
	// accCurrentConcept) members; n is always small relative to M.
	for i := 0; i < n && i < len(idx); i++ {
		worst := i
		for j := i + 1; j < len(idx); j++ {
			if e.members[idx[j]].clf.AccCurrentConcept() < e.members[idx[worst]].clf.AccCurrentConcept() {
				worst = j
			}
		}
		idx[i], idx[worst] = idx[worst], idx[i]
		e.members[idx[i]] = e.newMember()
		if e.header != nil {
			e.members[idx[i]].clf.SetContext(e.header)
			if e.cfg.RandomizeFeatures {
				nFeat := (e.header.NumAttrs() + 1) / 2
				if nFeat < 1 {
					nFeat = 1
				}
				e.members[idx[i]].clf.RandomizeFeatures(nFeat)
			}
		}
	}
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
