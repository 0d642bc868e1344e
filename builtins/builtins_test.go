// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtins_test

import (
	"testing"

	"scry.dev/scry/analysis"
	"scry.dev/scry/builtins"
	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
	"scry.dev/scry/syntax"
	"scry.dev/scry/syntax/expr"
	"scry.dev/scry/syntax/stmt"
)

func newSession(t *testing.T) *analysis.Session {
	t.Helper()
	s := analysis.NewSession(builtins.New(), &analysis.Options{
		Limits: ns.Limits{MaxSet: 16},
	})
	if err := builtins.InstallDefaults(s); err != nil {
		t.Fatal(err)
	}
	return s
}

func pos(line int) syntax.Pos { return syntax.Pos{Line: int32(line)} }

func nm(line int, name string) *expr.Name {
	return &expr.Name{Position: pos(line), Name: name}
}

func lit(line int, v interface{}) *expr.BasicLiteral {
	return &expr.BasicLiteral{Position: pos(line), Value: v}
}

func assign(line int, name string, rhs expr.Expr) *stmt.Assign {
	return &stmt.Assign{Position: pos(line), Left: []expr.Expr{nm(line, name)}, Right: rhs}
}

func call(line int, fn expr.Expr, args ...expr.Expr) *expr.Call {
	return &expr.Call{Position: pos(line), Func: fn, Args: args}
}

func attr(line int, e expr.Expr, name string) *expr.Attr {
	return &expr.Attr{Position: pos(line), Expr: e, Name: name}
}

func analyze(t *testing.T, s *analysis.Session, name string, body ...stmt.Stmt) *analysis.Entry {
	t.Helper()
	e, err := s.AddModule(name, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	e.SetTree(&stmt.Module{Name: name, Body: body})
	if err := s.Analyze(nil); err != nil {
		t.Fatal(err)
	}
	return e
}

func values(e *analysis.Entry, name string) ns.Set {
	if def, ok := e.Scope.Vars[name]; ok {
		return def.Values
	}
	return ns.Set{}
}

func TestHostModules(t *testing.T) {
	ip := builtins.New()
	for _, name := range []string{"builtins", "sys", "copy"} {
		if _, ok := ip.ImportModule(name); !ok {
			t.Errorf("module %s missing", name)
		}
	}
	if _, ok := ip.ImportModule("nosuch"); ok {
		t.Error("unknown module importable")
	}
	for b := interp.Builtin(0); int(b) < interp.NumBuiltins; b++ {
		if b == interp.BuiltinLong || b == interp.BuiltinEllipsis {
			continue
		}
		if ip.BuiltinType(b) == nil {
			t.Errorf("primitive %d missing", b)
		}
	}
}

func TestSysPathIsStrList(t *testing.T) {
	s := newSession(t)
	set := s.ResolveImport("sys.path", true)
	if set.Len() != 1 {
		t.Fatalf("sys.path = %v", set)
	}
	seq, ok := set.Elems()[0].(*ns.Seq)
	if !ok {
		t.Fatalf("sys.path = %T, want *ns.Seq", set.Elems()[0])
	}
	if seq.Elem.Len() != 1 || seq.Elem.Elems()[0].Name() != "str" {
		t.Errorf("sys.path elements = %v, want str", seq.Elem)
	}
}

func TestStrMethodReturns(t *testing.T) {
	s := newSession(t)
	e := analyze(t, s, "m",
		assign(1, "up", call(1, attr(1, lit(1, "hello"), "upper"))),
	)
	up := values(e, "up")
	if up.Len() != 1 {
		t.Fatalf("up = %v", up)
	}
	if inst, ok := up.Elems()[0].(*ns.Instance); !ok || inst.Of.Nm != "str" {
		t.Errorf("up = %v, want str instance", up)
	}
}

func TestCopySpecialization(t *testing.T) {
	s := newSession(t)
	e := analyze(t, s, "m",
		&stmt.Import{Position: pos(1), Path: "copy"},
		assign(2, "xs", &expr.ListLiteral{Position: pos(2),
			Elems: []expr.Expr{lit(2, int64(1))}}),
		assign(3, "ys", call(3, attr(3, nm(3, "copy"), "deepcopy"), nm(3, "xs"))),
		assign(4, "zs", call(4, attr(4, nm(4, "copy"), "copy"), nm(4, "xs"))),
	)
	xs := values(e, "xs")
	if xs.Empty() {
		t.Fatal("setup: xs empty")
	}
	if !values(e, "ys").Equal(xs) {
		t.Errorf("deepcopy = %v, want %v", values(e, "ys"), xs)
	}
	if !values(e, "zs").Equal(xs) {
		t.Errorf("copy = %v, want %v", values(e, "zs"), xs)
	}
}

func TestGetattrSpecialization(t *testing.T) {
	s := newSession(t)
	e := analyze(t, s, "m",
		&stmt.ClassDef{Position: pos(1), Name: "C", Body: []stmt.Stmt{
			assign(2, "field", lit(2, int64(5))),
		}},
		assign(3, "c", call(3, nm(3, "C"))),
		assign(4, "v", call(4, nm(4, "getattr"), nm(4, "c"), lit(4, "field"))),
		assign(5, "d", call(5, nm(5, "getattr"), nm(5, "c"), lit(5, "nosuch"), lit(5, "fallback"))),
		assign(6, "w", call(6, nm(6, "getattr"), nm(6, "c"), nm(6, "c"))),
	)
	v := values(e, "v")
	if v.Len() != 1 {
		t.Fatalf("getattr by constant name = %v", v)
	}
	if c, ok := v.Elems()[0].(*ns.Const); !ok || c.Value != int64(5) {
		t.Errorf("v = %v, want the field constant", v)
	}
	// Unknown attribute: only the default remains.
	d := values(e, "d")
	found := false
	for _, n := range d.Elems() {
		if c, ok := n.(*ns.Const); ok && c.Value == "fallback" {
			found = true
		}
	}
	if !found {
		t.Errorf("d = %v, want the default", d)
	}
	// A non-constant name widens to anything.
	if !values(e, "w").IsAny() {
		t.Errorf("getattr with dynamic name = %v, want AnySet", values(e, "w"))
	}
}

func TestIterSpecialization(t *testing.T) {
	s := newSession(t)
	e := analyze(t, s, "m",
		assign(1, "xs", &expr.ListLiteral{Position: pos(1),
			Elems: []expr.Expr{lit(1, int64(1))}}),
		assign(2, "it", call(2, nm(2, "iter"), nm(2, "xs"))),
		assign(3, "it2", call(3, nm(3, "iter"), nm(3, "xs"))),
		&stmt.For{Position: pos(4), Target: nm(4, "el"), Expr: nm(4, "it"),
			Body: []stmt.Stmt{
				assign(5, "got", nm(5, "el")),
			}},
	)
	it := values(e, "it")
	if it.Len() != 1 {
		t.Fatalf("iter(xs) = %v", it)
	}
	iter, ok := it.Elems()[0].(*ns.Iterator)
	if !ok {
		t.Fatalf("iter(xs) = %T, want *ns.Iterator", it.Elems()[0])
	}
	if iter.Elem.Empty() {
		t.Error("iterator carries no elements")
	}
	// Same source, same interned iterator.
	if !values(e, "it2").Equal(it) {
		t.Errorf("repeated iter(xs) = %v, want %v", values(e, "it2"), it)
	}
	// A for loop over the iterator sees the list's elements.
	got := values(e, "got")
	if got.Len() != 1 {
		t.Fatalf("got = %v", got)
	}
	if c, ok := got.Elems()[0].(*ns.Const); !ok || c.Value != int64(1) {
		t.Errorf("got = %v, want the list element", got)
	}
}

func TestSuperSpecialization(t *testing.T) {
	s := newSession(t)
	e := analyze(t, s, "m",
		&stmt.ClassDef{Position: pos(1), Name: "Base", Body: []stmt.Stmt{
			assign(2, "tag", lit(2, "base")),
		}},
		&stmt.ClassDef{Position: pos(3), Name: "D",
			Bases: []expr.Expr{nm(3, "Base")},
			Body: []stmt.Stmt{
				assign(4, "tag", lit(4, "d")),
			}},
		assign(5, "sup", call(5, nm(5, "super"), nm(5, "D"))),
		assign(6, "tag", attr(6, nm(6, "sup"), "tag")),
	)
	sup := values(e, "sup")
	if sup.Len() != 1 {
		t.Fatalf("sup = %v", sup)
	}
	if _, ok := sup.Elems()[0].(*ns.Super); !ok {
		t.Fatalf("sup = %T, want *ns.Super", sup.Elems()[0])
	}
	// The super-binding resolves against the bases, skipping D's own
	// override.
	tag := values(e, "tag")
	want := false
	for _, n := range tag.Elems() {
		if c, ok := n.(*ns.Const); ok && c.Value == "base" {
			want = true
		}
		if c, ok := n.(*ns.Const); ok && c.Value == "d" {
			t.Errorf("super lookup saw the derived override: %v", tag)
		}
	}
	if !want {
		t.Errorf("tag = %v, want the base value", tag)
	}
}

func TestCompleteOverBuiltins(t *testing.T) {
	s := newSession(t)
	found := false
	for _, w := range s.Complete("sys.pl") {
		if w == "sys.platform" {
			found = true
		}
	}
	if !found {
		t.Errorf("Complete(sys.pl) = %v", s.Complete("sys.pl"))
	}
}
