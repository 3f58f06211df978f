// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samknn

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/gonum-community/samknn/adapt"
	"github.com/gonum-community/samknn/clean"
	"github.com/gonum-community/samknn/compress"
	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/knn"
	"github.com/gonum-community/samknn/memory"
	"github.com/gonum-community/samknn/metric"
)

// Classifier is a single SAM-kNN learner (§4.7-§4.9): a short-term memory
// of the current concept, a long-term memory of compressed past concepts,
// and the combined view over both, each voting through the shared kNN
// machinery, reconciled by whichever memory has predicted best so far.
type Classifier struct {
	cfg    Config
	rng    *rand.Rand
	header *instance.Header
	attrs  []int
	kernel *metric.Kernel

	stm     *memory.Buffer
	ltm     *memory.Buffer
	matrix  *memory.Matrix
	adaptor *adapt.Adaptor

	maxSTMSize   int
	maxLTMSize   int
	maxClassSeen int
	step         int

	stmHist []int
	ltmHist []int
	cmHist  []int

	lastVotedInstance *instance.Instance
	lastVotedSTM      []float64

	accCurrentConcept float64
}

// NewClassifier returns a Classifier configured per cfg, using rng for
// every stochastic decision it makes (feature randomization and LTM
// compression). A nil rng is replaced with a freshly seeded one.
func NewClassifier(cfg Config, rng *rand.Rand) *Classifier {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	cfg = cfg.withDefaults()
	c := &Classifier{
		cfg:    cfg,
		rng:    rng,
		stm:    &memory.Buffer{},
		ltm:    &memory.Buffer{},
		matrix: memory.NewMatrix(cfg.Limit),
	}
	c.adaptor = &adapt.Adaptor{
		K:           c.cfg.K,
		MinSTMSize:  c.cfg.MinSTMSize,
		Weighted:    !c.cfg.UniformWeighted,
		Recalculate: c.cfg.RecalculateError,
	}
	return c
}

// SetContext tells the classifier the shape of the stream it will see:
// attribute kinds and count. It resets the attribute subset to every
// attribute; call RandomizeFeatures afterwards to restrict it.
func (c *Classifier) SetContext(header *instance.Header) {
	c.header = header
	c.attrs = header.AllAttrs()
	c.rebuildKernel()

	w := c.cfg.Limit
	c.maxLTMSize = int(c.cfg.RelativeLTMSize * float64(w))
	c.maxSTMSize = w - c.maxLTMSize
}

// RandomizeFeatures restricts the classifier to a uniformly random nFeat-
// sized subset of the header's attributes, drawn from the full enumeration
// of nFeat-subsets via gonum's combin package. nFeat >= NumAttrs leaves the
// full attribute set in place.
func (c *Classifier) RandomizeFeatures(nFeat int) {
	all := c.header.NumAttrs()
	if nFeat >= all {
		c.attrs = c.header.AllAttrs()
		c.rebuildKernel()
		return
	}
	combos := combin.Combinations(all, nFeat)
	c.attrs = combos[c.rng.Intn(len(combos))]
	c.rebuildKernel()
}

func (c *Classifier) rebuildKernel() {
	c.kernel = metric.New(c.header, c.attrs, c.cfg.Metric)
}

// AccCurrentConcept reports the accuracy of whichever memory most recently
// won the vote, over the history recorded so far for the current concept.
func (c *Classifier) AccCurrentConcept() float64 {
	return c.accCurrentConcept
}

// MaxClassSeen returns the largest class value observed by Train so far.
func (c *Classifier) MaxClassSeen() int {
	return c.maxClassSeen
}

// Reset discards all learned state but keeps the configured context.
func (c *Classifier) Reset() {
	c.stm.Reset()
	c.ltm.Reset()
	c.matrix.Reset()
	c.adaptor.Reset()
	c.stmHist = nil
	c.ltmHist = nil
	c.cmHist = nil
	c.maxClassSeen = 0
	c.step = 0
	c.lastVotedInstance = nil
	c.lastVotedSTM = nil
	c.accCurrentConcept = 0
}

// AfterLearning drops the STM distance vector cached by the last Predict
// call. The STM, LTM and distance matrix are kept, so the classifier stays
// usable for further Predict and Train calls.
func (c *Classifier) AfterLearning() {
	c.lastVotedInstance = nil
	c.lastVotedSTM = nil
}

func boolBit(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func sumInts(xs []int) int {
	var s int
	for _, x := range xs {
		s += x
	}
	return s
}

// Predict returns the per-class vote totals for x from whichever of STM,
// LTM or CM has the best running accuracy (STM preferred on ties, then
// LTM, per §4.7). The empty-STM case returns a uniform vote over every
// class seen so far. Predict must be followed by Train on the same x
// (by pointer identity) for the STM distance-vector reuse optimization in
// Train to apply.
func (c *Classifier) Predict(x *instance.Instance) []float64 {
	if c.stm.Len() == 0 {
		v := make([]float64, c.maxClassSeen+1)
		for i := range v {
			v[i] = 1
		}
		c.accCurrentConcept = 1 / float64(c.maxClassSeen+1)
		return v
	}

	dSTM := c.kernel.DistTo(x, c.stm.All())
	c.lastVotedInstance = x
	c.lastVotedSTM = dSTM

	kSTM := c.cfg.K
	if kSTM > len(dSTM) {
		kSTM = len(dSTM)
	}
	idxSTM := knn.NArgMin(kSTM, dSTM, 0, len(dSTM)-1)
	vSTM := knn.WeightedVote(dSTM, idxSTM, func(i int) int { return c.stm.At(i).Class() }, 0, !c.cfg.UniformWeighted, c.maxClassSeen)

	var dLTM []float64
	var vLTM []float64
	if c.ltm.Len() > 0 {
		dLTM = c.kernel.DistTo(x, c.ltm.All())
		kLTM := c.cfg.K
		if kLTM > len(dLTM) {
			kLTM = len(dLTM)
		}
		idxLTM := knn.NArgMin(kLTM, dLTM, 0, len(dLTM)-1)
		vLTM = knn.WeightedVote(dLTM, idxLTM, func(i int) int { return c.ltm.At(i).Class() }, 0, !c.cfg.UniformWeighted, c.maxClassSeen)
	} else {
		vLTM = make([]float64, c.maxClassSeen+1)
	}

	dCM := append(append([]float64(nil), dSTM...), dLTM...)
	var vCM []float64
	if len(dCM) > 0 {
		kCM := c.cfg.K
		if kCM > len(dCM) {
			kCM = len(dCM)
		}
		stmLen := c.stm.Len()
		idxCM := knn.NArgMin(kCM, dCM, 0, len(dCM)-1)
		vCM = knn.WeightedVote(dCM, idxCM, func(i int) int {
			if i < stmLen {
				return c.stm.At(i).Class()
			}
			return c.ltm.At(i - stmLen).Class()
		}, 0, !c.cfg.UniformWeighted, c.maxClassSeen)
	} else {
		vCM = make([]float64, c.maxClassSeen+1)
	}

	corrSTM := sumInts(c.stmHist)
	corrLTM := sumInts(c.ltmHist)
	corrCM := sumInts(c.cmHist)

	var chosen []float64
	var winCorr int
	switch {
	case corrSTM >= corrLTM && corrSTM >= corrCM:
		chosen = vSTM
	case corrLTM >= corrCM:
		chosen = vLTM
	default:
		chosen = vCM
	}

	trueClass := x.Class()
	stmBit := boolBit(knn.ArgmaxVote(vSTM) == trueClass)
	ltmBit := boolBit(knn.ArgmaxVote(vLTM) == trueClass)
	cmBit := boolBit(knn.ArgmaxVote(vCM) == trueClass)
	c.stmHist = append(c.stmHist, stmBit)
	c.ltmHist = append(c.ltmHist, ltmBit)
	c.cmHist = append(c.cmHist, cmBit)

	switch {
	case corrSTM >= corrLTM && corrSTM >= corrCM:
		winCorr = corrSTM + stmBit
	case corrLTM >= corrCM:
		winCorr = corrLTM + ltmBit
	default:
		winCorr = corrCM + cmBit
	}
	c.accCurrentConcept = float64(winCorr) / float64(len(c.stmHist))

	return chosen
}

// Train incorporates x into the classifier: append to STM, run the
// memory-size check, extend the distance matrix, clean the LTM against the
// new instance, and periodically run the size adaptor (§4.7, §4.8).
func (c *Classifier) Train(x *instance.Instance) {
	c.step++
	if x.Class() > c.maxClassSeen {
		c.maxClassSeen = x.Class()
	}
	c.stm.Append(x)

	shifted := c.memorySizeCheck()
	if shifted > 0 {
		// memorySizeCheck moved the STM origin, so any distance vector
		// cached from a preceding Predict(x) no longer lines up with STM
		// positions; discard it and fall back to full recomputation below.
		c.lastVotedInstance = nil
		c.lastVotedSTM = nil
	}

	var dists []float64
	if c.lastVotedInstance == x {
		dists = append(append([]float64(nil), c.lastVotedSTM...), 0)
	} else {
		prior := c.stm.All()[:c.stm.Len()-1]
		dists = append(c.kernel.DistTo(x, prior), 0)
	}
	c.matrix.AppendRow(c.stm.Len(), dists)
	c.lastVotedInstance = nil
	c.lastVotedSTM = nil

	clean.Incremental(c.kernel, c.stm, c.ltm, c.cfg.K)

	if c.cfg.AdaptationInterval > 0 && c.step%c.cfg.AdaptationInterval == 0 {
		diff := c.adaptor.Adapt(c.stm, c.matrix, c.maxClassSeen+1)
		if diff > 0 {
			batch := c.stm.DeleteFront(diff)
			c.matrix.Trim(diff)
			c.trimHistories(diff)
			if c.maxLTMSize > 0 {
				clean.Batch(c.kernel, c.stm, c.ltm, c.cfg.K, batch)
				for _, b := range batch {
					c.ltm.Append(b)
				}
			}
		}
	}
}

func (c *Classifier) trimHistories(n int) {
	if n > len(c.stmHist) {
		n = len(c.stmHist)
	}
	c.stmHist = c.stmHist[n:]
	c.ltmHist = c.ltmHist[n:]
	c.cmHist = c.cmHist[n:]
}

// memorySizeCheck enforces §4.8: when STM+LTM exceeds the configured
// capacity, either compress an over-full LTM directly, or shift a batch of
// the oldest STM entries out and then compress. It reports how many STM
// entries (if any) were shifted out of the front, so Train can invalidate a
// stale pre-shift distance-vector reuse. When maxLTMSize is 0, the shifted
// batch is discarded outright rather than migrated, per the documented
// boundary behavior that LTM is never populated and CM == STM always.
func (c *Classifier) memorySizeCheck() int {
	if c.stm.Len()+c.ltm.Len() <= c.maxSTMSize+c.maxLTMSize {
		return 0
	}
	if c.ltm.Len() > c.maxLTMSize {
		compress.ClusterDown(c.ltm, c.maxClassSeen+1, c.rng)
		return 0
	}

	shift := c.cfg.Limit / 10
	if shift > 200 {
		shift = 200
	}
	if need := c.maxLTMSize - c.ltm.Len() + 1; need > shift {
		shift = need
	}
	// Never evict the instance just appended by Train: it has not yet had
	// its distance row written, so it must still be the STM's tail entry
	// when memorySizeCheck returns.
	if shift > c.stm.Len()-1 {
		shift = c.stm.Len() - 1
	}
	if shift <= 0 {
		return 0
	}

	batch := c.stm.DeleteFront(shift)
	c.matrix.Trim(shift)
	c.trimHistories(shift)
	if c.maxLTMSize > 0 {
		for _, b := range batch {
			c.ltm.Append(b)
		}
		compress.ClusterDown(c.ltm, c.maxClassSeen+1, c.rng)
		c.adaptor.Reset()
	}
	return shift
}
