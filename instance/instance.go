// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instance defines the minimal labeled-feature-vector contract the
// SAM-kNN core depends on. The full stream instance/attribute container
// (parsing, sparse encoding, missing values) is an external collaborator;
// this package only fixes the shape the core reads: a fixed-length
// attribute vector, a class value, and a header describing attribute kinds.
package instance

// Kind is the declared type of an attribute.
type Kind int

const (
	// Numeric attributes contribute their raw difference to distance
	// computations.
	Numeric Kind = iota
	// Nominal attributes contribute a 0/1 mismatch indicator.
	Nominal
)

// Header describes the attributes of a stream: how many there are, their
// kinds, and a NumClasses field for the number of class values. The core
// neither reads nor updates NumClasses; a classifier tracks the largest
// class value it has trained on itself (see samknn.Classifier.MaxClassSeen).
type Header struct {
	Kinds      []Kind
	NumClasses int
}

// NumAttrs reports the number of attributes described by the header.
func (h *Header) NumAttrs() int {
	return len(h.Kinds)
}

// AllAttrs returns the indices of every attribute in the header, in order.
// It is the default attribute subset before any feature randomization.
func (h *Header) AllAttrs() []int {
	idx := make([]int, h.NumAttrs())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Instance is an immutable labeled feature vector. Nominal attribute values
// are pre-encoded as small non-negative integers promoted to float64, the
// same representation numeric attributes use, so the core never special
// cases storage — only distance computation distinguishes the two kinds.
//
// Instances are shared by reference between the input stream, the STM and
// the LTM (see package memory): once constructed, an Instance is never
// mutated, which is what makes that sharing safe.
type Instance struct {
	attrs []float64
	class int
}

// New returns an Instance with the given attribute vector and class value.
// The caller must not mutate attrs afterwards.
func New(attrs []float64, class int) *Instance {
	return &Instance{attrs: attrs, class: class}
}

// At returns the value of attribute i.
func (in *Instance) At(i int) float64 {
	return in.attrs[i]
}

// NumAttrs reports the length of the instance's attribute vector.
func (in *Instance) NumAttrs() int {
	return len(in.attrs)
}

// Class returns the instance's class value.
func (in *Instance) Class() int {
	return in.class
}

// Attrs returns the instance's backing attribute slice. Callers must treat
// the result as read-only.
func (in *Instance) Attrs() []float64 {
	return in.attrs
}
