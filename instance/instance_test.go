// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaderAllAttrs(t *testing.T) {
	h := &Header{Kinds: []Kind{Numeric, Nominal, Numeric}}
	got := h.AllAttrs()
	want := []int{0, 1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllAttrs mismatch (-want +got):\n%s", diff)
	}
	if h.NumAttrs() != 3 {
		t.Errorf("NumAttrs = %d, want 3", h.NumAttrs())
	}
}

func TestInstanceAccessors(t *testing.T) {
	in := New([]float64{1, 2, 3}, 5)
	if in.NumAttrs() != 3 {
		t.Errorf("NumAttrs = %d, want 3", in.NumAttrs())
	}
	if in.Class() != 5 {
		t.Errorf("Class = %d, want 5", in.Class())
	}
	for i, want := range []float64{1, 2, 3} {
		if got := in.At(i); got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
}
