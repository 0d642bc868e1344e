// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"reflect"
	"testing"
)

func TestAnalysisDirectories(t *testing.T) {
	s := newTestSession()
	var events []DirEvent
	s.OnDirectoryChange(func(ev DirEvent) { events = append(events, ev) })

	s.AddAnalysisDirectory("/proj/src")
	s.AddAnalysisDirectory("/proj/src") // duplicate is a no-op
	s.AddAnalysisDirectory("/proj/lib")
	s.AddAnalysisDirectory("")
	if got := s.AnalysisDirectories(); !reflect.DeepEqual(got, []string{"/proj/src", "/proj/lib"}) {
		t.Errorf("directories = %v", got)
	}

	s.RemoveAnalysisDirectory("/proj/src")
	s.RemoveAnalysisDirectory("/nonexistent") // absent is silent
	if got := s.AnalysisDirectories(); !reflect.DeepEqual(got, []string{"/proj/lib"}) {
		t.Errorf("directories after removal = %v", got)
	}

	want := []DirEvent{
		{Path: "/proj/src", Added: true},
		{Path: "/proj/lib", Added: true},
		{Path: "/proj/src", Added: false},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestErrorfAccumulates(t *testing.T) {
	s := newTestSession()
	s.errorf("first: %d", 1)
	s.errorf("second: %d", 2)
	if len(s.Errs) != 2 {
		t.Fatalf("Errs = %v", s.Errs)
	}
	if s.Errs[0].Error() != "first: 1" {
		t.Errorf("Errs[0] = %v", s.Errs[0])
	}
}
