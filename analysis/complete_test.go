// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"reflect"
	"testing"
)

func TestCompleteModuleNames(t *testing.T) {
	s := newTestSession()
	got := s.Complete("zl")
	if !reflect.DeepEqual(got, []string{"zlib"}) {
		t.Errorf("Complete(zl) = %v", got)
	}
	if got := s.Complete("nosuchprefix"); len(got) != 0 {
		t.Errorf("Complete(nosuchprefix) = %v", got)
	}
}

func TestCompleteMembers(t *testing.T) {
	s := newTestSession()
	got := s.Complete("zlib.co")
	if !reflect.DeepEqual(got, []string{"zlib.compress"}) {
		t.Errorf("Complete(zlib.co) = %v", got)
	}
	// An empty final segment yields every member.
	got = s.Complete("zlib.")
	want := map[string]bool{"zlib.compress": true, "zlib.MAX_WBITS": true}
	for _, w := range got {
		delete(want, w)
	}
	if len(want) != 0 {
		t.Errorf("Complete(zlib.) = %v, missing %v", got, want)
	}
}

func TestCompleteProjectModule(t *testing.T) {
	s := newTestSession()
	analyzeModule(s, "m", module("m",
		classDef(1, "Widget",
			assign(2, "size", lit(2, int64(3))),
		),
	))
	got := s.Complete("m.Wid")
	if !reflect.DeepEqual(got, []string{"m.Widget"}) {
		t.Errorf("Complete(m.Wid) = %v", got)
	}
	// Member resolution descends into classes too.
	got = s.Complete("m.Widget.si")
	if !reflect.DeepEqual(got, []string{"m.Widget.size"}) {
		t.Errorf("Complete(m.Widget.si) = %v", got)
	}
}
