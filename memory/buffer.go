// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memory implements the STM/LTM instance buffer (§3, §4.3) and the
// STM distance matrix's reusable, sliding-origin triangular cache.
package memory

import "github.com/gonum-community/samknn/instance"

// Buffer is an ordered, append-only window of instance references
// supporting delete-from-front, arbitrary-index delete (for the cleaner,
// §4.4) and random access by logical position. STM preserves arrival
// order; LTM uses the same type even though its order carries no meaning
// (§3).
//
// Instances are held by reference; Buffer never copies or mutates an
// instance.Instance, which is what makes sharing a single Instance between
// the input stream, STM and LTM safe (§5).
type Buffer struct {
	items []*instance.Instance
}

// Len reports the number of instances currently held.
func (b *Buffer) Len() int {
	return len(b.items)
}

// At returns the instance at logical position i (0 is the oldest surviving
// entry).
func (b *Buffer) At(i int) *instance.Instance {
	return b.items[i]
}

// Append adds x to the tail of the buffer.
func (b *Buffer) Append(x *instance.Instance) {
	b.items = append(b.items, x)
}

// All returns the buffer's contents in logical order. Callers must treat
// the result as read-only.
func (b *Buffer) All() []*instance.Instance {
	return b.items
}

// DeleteFront removes the n oldest entries and returns them, oldest first,
// so the caller can migrate them elsewhere (e.g. STM -> LTM, §3 Lifecycles).
func (b *Buffer) DeleteFront(n int) []*instance.Instance {
	removed := append([]*instance.Instance(nil), b.items[:n]...)
	b.items = b.items[n:]
	return removed
}

// DeleteAt removes the entry at logical position i. The cleaner (§4.4)
// deletes in reverse index order across a batch so that earlier indices
// remain valid as later ones are removed.
func (b *Buffer) DeleteAt(i int) {
	b.items = append(b.items[:i], b.items[i+1:]...)
}

// Reset discards the buffer's contents.
func (b *Buffer) Reset() {
	b.items = nil
}

// ReplaceClass replaces every entry whose class equals c with newItems,
// preserving the relative order of entries of other classes and appending
// newItems after them. Used by the LTM compressor (§4.5) to swap a class's
// subset for its kMeans++ centroids without disturbing other classes.
func (b *Buffer) ReplaceClass(c int, newItems []*instance.Instance) {
	kept := b.items[:0:0]
	for _, x := range b.items {
		if x.Class() != c {
			kept = append(kept, x)
		}
	}
	b.items = append(kept, newItems...)
}
