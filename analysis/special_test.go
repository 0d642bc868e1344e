// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"testing"

	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
)

func intSet(s *Session) ns.Set {
	return ns.NewSet(s.builtin.prim[interp.BuiltinInt].Instance())
}

func TestSpecializeValidatesArgs(t *testing.T) {
	s := newTestSession()
	fn := func(s *Session, args []ns.Set) ns.Set { return ns.Set{} }
	if err := s.Specialize("", "f", fn, false); err == nil {
		t.Error("empty module accepted")
	}
	if err := s.Specialize("m", "", fn, false); err == nil {
		t.Error("empty function accepted")
	}
	if err := s.Specialize("m", "f", nil, false); err == nil {
		t.Error("nil fn accepted")
	}
	if err := s.SpecializeToInstance("m", "f", "nodot", false); err == nil {
		t.Error("unqualified type name accepted")
	}
}

// An override with Analyze false replaces the call result entirely;
// the body's own returns do not leak into call sites.
func TestSpecializeOverridesCall(t *testing.T) {
	s := newTestSession()
	e := analyzeModule(s, "m", module("m",
		funcDef(1, "f", ret(2, lit(2, "text"))),
	))
	err := s.Specialize("m", "f", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	use := analyzeModule(s, "use", module("use",
		importStmt(1, "m"),
		assign(2, "y", call(2, attr(2, nm(2, "m"), "f"))),
	))
	want := intSet(s)
	if got := varValues(use, "y"); !got.Equal(want) {
		t.Errorf("specialized call = %v, want %v", got, want)
	}
	_ = e
}

func TestSpecializePendingAppliesOnce(t *testing.T) {
	s := newTestSession()
	calls := 0
	err := s.Specialize("late", "f", func(s *Session, args []ns.Set) ns.Set {
		calls++
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.pending["late"]) != 1 {
		t.Fatal("override not queued for an unknown module")
	}

	e := analyzeModule(s, "late", module("late",
		funcDef(1, "f"),
		assign(2, "y", call(2, nm(2, "f"))),
	))
	if s.pending["late"] != nil {
		t.Error("pending entry not consumed")
	}
	if calls == 0 {
		t.Error("queued override never applied")
	}
	if varValues(e, "y").Empty() {
		t.Error("specialized result missing")
	}

	// Re-adding another module does not re-deliver the consumed
	// entry.
	if _, err := s.AddModule("late2", "", nil); err != nil {
		t.Fatal(err)
	}
	if len(s.pending["late"]) != 0 {
		t.Error("consumed entry re-queued")
	}
}

func TestSpecializePendingDottedChild(t *testing.T) {
	s := newTestSession()
	err := s.Specialize("pkg.sub", "f", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	// Adding the parent consumes dotted pendings nested under it.
	analyzeModule(s, "pkg", module("pkg"))
	ref, _ := s.GetModule("pkg")
	if ref.specials["sub.f"] == nil {
		t.Fatalf("dotted pending not installed on parent: %v", ref.specials)
	}
	if len(s.pending) != 0 {
		t.Errorf("pending table not drained: %v", s.pending)
	}
}

func TestSpecializeDottedPrefixFallback(t *testing.T) {
	s := newTestSession()
	analyzeModule(s, "decimal", module("decimal"))

	// "decimal.Decimal" is not a registered module; the override
	// lands on module "decimal" as "Decimal.new".
	err := s.Specialize("decimal.Decimal", "new", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	ref, _ := s.GetModule("decimal")
	if ref.specials["Decimal.new"] == nil {
		t.Fatalf("dotted-prefix override not installed: %v", ref.specials)
	}
}

func TestSpecializeMethodDispatch(t *testing.T) {
	s := newTestSession()
	err := s.Specialize("m", "C.make", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	e := analyzeModule(s, "m", module("m",
		classDef(1, "C",
			funcDef(2, "make", ret(3, lit(3, "text"))),
		),
		assign(4, "c", call(4, nm(4, "C"))),
		assign(5, "y", call(5, attr(5, nm(5, "c"), "make"))),
	))
	want := intSet(s)
	if got := varValues(e, "y"); !got.Equal(want) {
		t.Errorf("method override = %v, want %v", got, want)
	}
}

func TestSpecializeReplayOnReload(t *testing.T) {
	s := newTestSession()
	err := s.Specialize("m", "f", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	e := analyzeModule(s, "m", module("m",
		funcDef(1, "f"),
		assign(2, "y", call(2, nm(2, "f"))),
	))
	if varValues(e, "y").Empty() {
		t.Fatal("setup: override not effective")
	}

	s.Reload()
	if err := s.Analyze(nil); err != nil {
		t.Fatal(err)
	}
	if varValues(e, "y").Empty() {
		t.Error("override lost across Reload")
	}
	// Exactly one log entry; replay does not duplicate.
	if len(s.speclog) != 1 {
		t.Errorf("speclog length = %d, want 1", len(s.speclog))
	}
}

func TestSpecializeToInstance(t *testing.T) {
	s := newTestSession()
	err := s.SpecializeToInstance("net", "connect", "net.Socket", false)
	if err != nil {
		t.Fatal(err)
	}
	analyzeModule(s, "net", module("net",
		classDef(1, "Socket"),
		funcDef(2, "connect"),
	))
	use := analyzeModule(s, "use", module("use",
		importStmt(1, "net"),
		assign(2, "conn", call(2, attr(2, nm(2, "net"), "connect"))),
	))
	conn := varValues(use, "conn")
	if conn.Len() != 1 {
		t.Fatalf("conn = %v", conn)
	}
	inst, ok := conn.Elems()[0].(*ns.Instance)
	if !ok || inst.Of.Nm != "Socket" {
		t.Errorf("conn = %v, want Socket instance", conn)
	}
}

// Analyze true runs both the override and generic body inference.
func TestSpecializeAlsoAnalyze(t *testing.T) {
	s := newTestSession()
	err := s.Specialize("m", "f", func(s *Session, args []ns.Set) ns.Set {
		return intSet(s)
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	e := analyzeModule(s, "m", module("m",
		funcDef(1, "f", ret(2, lit(2, "text"))),
		assign(3, "y", call(3, nm(3, "f"))),
	))
	y := varValues(e, "y")
	if y.Len() != 2 {
		t.Fatalf("y = %v, want int instance plus str const", y)
	}
}
