// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ensemble

import (
	"fmt"

	"github.com/gonum-community/samknn/instance"
)

type predictJob struct {
	idx int
}

type predictResult struct {
	idx   int
	votes []float64
	err   error
}

// Predict combines every member's vote into a single accumulator: each
// member's vote is normalized to sum 1 and, unless DisableWeightedVote is
// set or the member's accuracy is 0, scaled by its accCurrentConcept
// (§4.9). Predict memoizes its result by the identity of x, so a
// subsequent Train call on the same object (the standard prequential
// predict-then-train pairing) does not recompute it. A member whose
// worker panics contributes a zero vote rather than failing the call
// (§7's "defensive fallback" for predict-time errors).
func (e *Ensemble) Predict(x *instance.Instance) []float64 {
	if e.lastPredInstance == x {
		return e.lastPredVotes
	}

	results := e.runPredictJobs(x)

	numClasses := 0
	for _, r := range results {
		if len(r.votes) > numClasses {
			numClasses = len(r.votes)
		}
	}
	acc := make([]float64, numClasses)
	for i, r := range results {
		if r.err != nil || len(r.votes) == 0 {
			continue
		}
		var sum float64
		for _, v := range r.votes {
			sum += v
		}
		if sum == 0 {
			continue
		}
		scale := 1.0
		if !e.cfg.DisableWeightedVote {
			a := e.members[i].clf.AccCurrentConcept()
			if a != 0 {
				scale = a
			}
		}
		for c, v := range r.votes {
			acc[c] += scale * v / sum
		}
	}

	e.lastPredInstance = x
	e.lastPredVotes = acc
	return acc
}

func (e *Ensemble) runPredictJobs(x *instance.Instance) []predictResult {
	results := make([]predictResult, len(e.members))

	if e.workers <= 1 {
		for i, m := range e.members {
			results[i] = predictOne(i, m, x)
		}
		return results
	}

	sendChan := make(chan predictJob, len(e.members))
	ansChan := make(chan predictResult, len(e.members))
	quit := make(chan struct{})
	defer close(quit)

	for w := 0; w < e.workers; w++ {
		go func(sendChan <-chan predictJob, ansChan chan<- predictResult, quit <-chan struct{}) {
			for {
				select {
				case <-quit:
					return
				case job, ok := <-sendChan:
					if !ok {
						return
					}
					ansChan <- predictOne(job.idx, e.members[job.idx], x)
				}
			}
		}(sendChan, ansChan, quit)
	}

	for i := range e.members {
		sendChan <- predictJob{idx: i}
	}
	close(sendChan)

	for range e.members {
		r := <-ansChan
		results[r.idx] = r
	}
	return results
}

func predictOne(idx int, m *member, x *instance.Instance) (res predictResult) {
	res.idx = idx
	defer func() {
		if r := recover(); r != nil {
			res.votes = nil
			res.err = fmt.Errorf("ensemble: member predict panicked: %v", r)
		}
	}()
	res.votes = m.clf.Predict(x)
	return res
}
