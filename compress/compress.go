// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compress implements the LTM compressor (§4.5, "clusterDown"):
// class-wise kMeans++ halving of the long-term memory when it overflows.
package compress

import (
	"math/rand"

	"github.com/gonum-community/samknn/instance"
	"github.com/gonum-community/samknn/internal/kmeans"
	"github.com/gonum-community/samknn/memory"
)

// MaxIterations bounds the Lloyd's-algorithm refinement the compressor runs
// per class. The source does not expose this as a tunable; a small fixed
// bound keeps compression cheap relative to a single training step.
const MaxIterations = 20

// ClusterDown replaces, for every class label in [0, numClasses), the LTM's
// subset of that class with at most ceil(n/2) kMeans++ centroids (n being
// the class's current LTM count). Classes with at most one member are left
// untouched. The total LTM size strictly decreases whenever some class had
// more than one member (§8 invariant 5).
func ClusterDown(ltm *memory.Buffer, numClasses int, rng *rand.Rand) {
	for c := 0; c < numClasses; c++ {
		var members []*instance.Instance
		for _, x := range ltm.All() {
			if x.Class() == c {
				members = append(members, x)
			}
		}
		if len(members) <= 1 {
			continue
		}

		points := make([]kmeans.Point, len(members))
		for i, m := range members {
			points[i] = kmeans.Point{Weight: 1, Features: append([]float64(nil), m.Attrs()...)}
		}

		k := (len(members) + 1) / 2
		if k < 1 {
			k = 1
		}

		centroids := kmeans.InitCentroids(k, points, rng)
		centroids = kmeans.Refine(centroids, points, MaxIterations, rng)

		newMembers := make([]*instance.Instance, len(centroids))
		for i, cen := range centroids {
			newMembers[i] = instance.New(cen.Features, c)
		}
		ltm.ReplaceClass(c, newMembers)
	}
}
