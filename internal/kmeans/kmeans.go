// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kmeans implements the kMeans++ black-box collaborator used by the
// LTM compressor (§4.5, §6): centroid seeding via the kMeans++ weighted
// sampling scheme and Lloyd's-algorithm refinement. The centroid
// initialization and empty-cluster reinitialization are adapted from
// github.com/cdipaolo/goml's cluster.KMeans.Learn (other_examples pack file
// 72f37602_cdipaolo-goml__cluster-kmeans.go.go), generalized from a batch
// classifier method into a standalone, reusable stateless helper.
package kmeans

import "math/rand"

// Point is a weighted feature vector to be clustered. InitCentroids and
// Refine do not read Weight: every point counts once, and the output
// Centroid.Weight is a count of assigned points, not a sum of their
// weights.
type Point struct {
	Weight   float64
	Features []float64
}

// Centroid is a cluster center produced by InitCentroids or Refine. Weight
// is the number of points currently assigned to it (set by Refine; 1 for a
// freshly seeded, unrefined centroid).
type Centroid struct {
	Weight   float64
	Features []float64
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// InitCentroids seeds k centroids from points using kMeans++: the first
// centroid is picked uniformly at random, and each subsequent one is picked
// with probability proportional to its squared distance to the nearest
// already-chosen centroid. If k exceeds len(points), it is reduced to
// len(points).
func InitCentroids(k int, points []Point, rng *rand.Rand) []Centroid {
	n := len(points)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	centroids := make([]Centroid, k)
	first := points[rng.Intn(n)]
	centroids[0] = Centroid{Weight: 1, Features: append([]float64(nil), first.Features...)}

	distSq := make([]float64, n)
	for i := 1; i < k; i++ {
		var sum float64
		for j, p := range points {
			best := sqDist(p.Features, centroids[0].Features)
			for l := 1; l < i; l++ {
				if d := sqDist(p.Features, centroids[l].Features); d < best {
					best = d
				}
			}
			distSq[j] = best
			sum += best
		}
		if sum == 0 {
			centroids[i] = Centroid{Weight: 1, Features: append([]float64(nil), points[i%n].Features...)}
			continue
		}
		target := rng.Float64() * sum
		j := 0
		acc := distSq[0]
		for acc < target && j < n-1 {
			j++
			acc += distSq[j]
		}
		centroids[i] = Centroid{Weight: 1, Features: append([]float64(nil), points[j].Features...)}
	}
	return centroids
}

// Refine runs up to maxIter iterations of Lloyd's algorithm starting from
// centroids, reassigning each point to its nearest centroid and recomputing
// centroids as the mean of their assigned points. An empty cluster is
// reinitialized to a random point (matching goml's reinit-on-empty-class
// behavior) rather than left degenerate. Refine stops early once no point's
// assignment changes.
func Refine(centroids []Centroid, points []Point, maxIter int, rng *rand.Rand) []Centroid {
	k := len(centroids)
	if k == 0 || len(points) == 0 {
		return centroids
	}
	features := len(points[0].Features)
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bd := sqDist(p.Features, centroids[0].Features)
			for c := 1; c < k; c++ {
				if d := sqDist(p.Features, centroids[c].Features); d < bd {
					bd = d
					best = c
				}
			}
			if assign[i] != best {
				changed = true
				assign[i] = best
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, features)
		}
		for i, p := range points {
			c := assign[i]
			counts[c]++
			for f := 0; f < features; f++ {
				sums[c][f] += p.Features[f]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = Centroid{Weight: 0, Features: append([]float64(nil), points[rng.Intn(len(points))].Features...)}
				continue
			}
			feat := make([]float64, features)
			for f := 0; f < features; f++ {
				feat[f] = sums[c][f] / float64(counts[c])
			}
			centroids[c] = Centroid{Weight: float64(counts[c]), Features: feat}
		}
		if !changed && iter > 0 {
			break
		}
	}
	return centroids
}
