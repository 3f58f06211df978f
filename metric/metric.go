// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metric implements the distance kernel §4.1: one-to-one and
// one-to-many distance over a mixed numeric/nominal attribute subset, for
// the Euclidean, Manhattan and Chebyshev Lp norms.
package metric

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gonum-community/samknn/instance"
)

// Norm selects the Lp norm used to combine per-attribute distance
// components. Manhattan and Chebyshev are defined symmetrically with
// Euclidean over the same per-attribute component vector (§4.1).
type Norm int

const (
	Euclidean Norm = iota
	Manhattan
	Chebyshev
)

func (n Norm) p() float64 {
	switch n {
	case Manhattan:
		return 1
	case Chebyshev:
		return math.Inf(1)
	default:
		return 2
	}
}

// Kernel computes distances over a fixed attribute subset of a stream
// described by an instance.Header. Attribute normalization is disabled by
// construction: the source's normalization path is commented out and is
// OPTIONAL future behavior, never applied here (§4.1, Non-goals).
type Kernel struct {
	kinds []instance.Kind
	attrs []int
	norm  Norm
}

// New builds a Kernel over the given header, restricted to attrs (the
// randomized or full feature subset), using norm.
func New(header *instance.Header, attrs []int, norm Norm) *Kernel {
	k := &Kernel{
		kinds: header.Kinds,
		attrs: append([]int(nil), attrs...),
		norm:  norm,
	}
	return k
}

// Attrs returns the attribute subset the kernel was built over.
func (k *Kernel) Attrs() []int {
	return k.attrs
}

// component returns the per-attribute distance contribution of attribute
// idx between a and b: the raw difference for a numeric attribute, or a
// 0/1 mismatch indicator for a nominal one.
func (k *Kernel) component(idx int, a, b *instance.Instance) float64 {
	if k.kinds[idx] == instance.Nominal {
		if a.At(idx) != b.At(idx) {
			return 1
		}
		return 0
	}
	return a.At(idx) - b.At(idx)
}

// components writes the per-attribute components of a and b into dst,
// reusing dst's storage when its capacity allows; DistTo passes the same
// vector for every instance of its buffer. Kernel itself holds no scratch
// storage.
func (k *Kernel) components(a, b *instance.Instance, dst []float64) []float64 {
	if cap(dst) < len(k.attrs) {
		dst = make([]float64, len(k.attrs))
	}
	dst = dst[:len(k.attrs)]
	for i, idx := range k.attrs {
		dst[i] = k.component(idx, a, b)
	}
	return dst
}

// Dist returns the distance between two instances over the kernel's
// attribute subset.
func (k *Kernel) Dist(a, b *instance.Instance) float64 {
	comps := k.components(a, b, make([]float64, len(k.attrs)))
	return floats.Norm(comps, k.norm.p())
}

// DistTo returns the distance from a to every instance in buf, in order.
// The returned slice has length len(buf).
func (k *Kernel) DistTo(a *instance.Instance, buf []*instance.Instance) []float64 {
	out := make([]float64, len(buf))
	comps := make([]float64, len(k.attrs))
	p := k.norm.p()
	for i, b := range buf {
		comps = k.components(a, b, comps)
		out[i] = floats.Norm(comps, p)
	}
	return out
}
