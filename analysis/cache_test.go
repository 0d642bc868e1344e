// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"testing"

	"scry.dev/scry/ns"
)

func TestMemoBuildsOnce(t *testing.T) {
	m := newMemo()
	builds := 0
	build := func() ns.Namespace {
		builds++
		return ns.NewClass("c", nil)
	}
	v1 := m.get("k", build)
	v2 := m.get("k", build)
	if builds != 1 {
		t.Fatalf("build ran %d times, want 1", builds)
	}
	if v1 != v2 {
		t.Error("get returned distinct values for one key")
	}
}

func TestMemoReentrantPlaceholder(t *testing.T) {
	m := newMemo()
	var inner ns.Namespace
	outer := m.get("k", func() ns.Namespace {
		// A cyclic reference resolves to the placeholder, not a
		// recursive build.
		inner = m.get("k", func() ns.Namespace {
			t.Fatal("re-entrant get ran build")
			return nil
		})
		return ns.NewClass("c", nil)
	})
	if inner != nil {
		t.Errorf("re-entrant get = %v, want nil placeholder", inner)
	}
	if outer == nil {
		t.Fatal("outer get returned the placeholder")
	}
	if v, ok := m.lookup("k"); !ok || v != outer {
		t.Errorf("lookup after build = %v, %v", v, ok)
	}
}

func TestMemoTwoPhasePut(t *testing.T) {
	m := newMemo()
	shell := ns.NewClass("shell", nil)
	m.get("k", func() ns.Namespace {
		m.put("k", shell)
		if v, _ := m.lookup("k"); v != shell {
			t.Error("published shell not visible during build")
		}
		return shell
	})
	if v, _ := m.lookup("k"); v != shell {
		t.Error("shell lost after build")
	}
}

func TestMemoReset(t *testing.T) {
	m := newMemo()
	m.get("k", func() ns.Namespace { return ns.NewClass("c", nil) })
	m.reset()
	if _, ok := m.lookup("k"); ok {
		t.Error("entry survived reset")
	}
}
