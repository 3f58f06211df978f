// Copyright ©2026 The SAM-kNN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adwin

import "testing"

func TestNoChangeOnConstantStream(t *testing.T) {
	d := &Detector{}
	for i := 0; i < 500; i++ {
		if d.Feed(1) {
			t.Fatalf("unexpected change signal at step %d on constant stream", i)
		}
	}
}

func TestDetectsAbruptShift(t *testing.T) {
	d := &Detector{Delta: 0.01}
	var detected bool
	for i := 0; i < 300; i++ {
		d.Feed(1)
	}
	for i := 0; i < 300; i++ {
		if d.Feed(0) {
			detected = true
			break
		}
	}
	if !detected {
		t.Fatal("expected a change signal after an abrupt shift from 1s to 0s")
	}
}

func TestWidthShrinksAfterDetectedChange(t *testing.T) {
	d := &Detector{Delta: 0.01}
	for i := 0; i < 300; i++ {
		d.Feed(1)
	}
	widthBefore := d.Width()
	shrank := false
	for i := 0; i < 300; i++ {
		d.Feed(0)
		if d.Width() < widthBefore {
			shrank = true
			break
		}
	}
	if !shrank {
		t.Fatal("expected window width to shrink once a change was detected")
	}
}

func TestReset(t *testing.T) {
	d := &Detector{}
	d.Feed(1)
	d.Feed(0)
	d.Reset()
	if d.Width() != 0 {
		t.Fatalf("Width = %d, want 0 after Reset", d.Width())
	}
}
