// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
	"scry.dev/scry/syntax"
	"scry.dev/scry/syntax/expr"
	"scry.dev/scry/syntax/stmt"
)

// A minimal host type system for tests, enough to exercise every
// classification kind.

type hostObj struct{ name string }

func (o *hostObj) ObjectName() string { return o.name }

type hostType struct {
	hostObj
	bases []interp.Type
	attrs map[string]interp.Object
	order []string
}

func newHostType(name string, bases ...interp.Type) *hostType {
	return &hostType{hostObj: hostObj{name}, bases: bases, attrs: map[string]interp.Object{}}
}

func (t *hostType) BaseTypes() []interp.Type { return t.bases }
func (t *hostType) AttrNames() []string      { return t.order }

func (t *hostType) Attr(name string) (interp.Object, bool) {
	o, ok := t.attrs[name]
	return o, ok
}

func (t *hostType) set(name string, o interp.Object) {
	if _, ok := t.attrs[name]; !ok {
		t.order = append(t.order, name)
	}
	t.attrs[name] = o
}

type hostFunc struct {
	hostObj
	rets []interp.Object
}

func (f *hostFunc) ReturnTypes() []interp.Object { return f.rets }

type hostConst struct {
	hostObj
	typ interp.Type
	val interface{}
}

func (c *hostConst) TypeOf() interp.Type { return c.typ }
func (c *hostConst) Value() interface{}  { return c.val }

type hostMulti struct {
	hostObj
	objs []interp.Object
}

func (m *hostMulti) Objects() []interp.Object { return m.objs }

type hostContainer struct {
	hostObj
	typ   interp.Type
	index []interp.Type
}

func (c *hostContainer) ContainerType() interp.Type { return c.typ }
func (c *hostContainer) IndexTypes() []interp.Type  { return c.index }

type hostModule struct {
	hostObj
	attrs map[string]interp.Object
	order []string
}

func newHostModule(name string) *hostModule {
	return &hostModule{hostObj: hostObj{name}, attrs: map[string]interp.Object{}}
}

func (m *hostModule) AttrNames() []string { return m.order }

func (m *hostModule) Attr(name string) (interp.Object, bool) {
	o, ok := m.attrs[name]
	return o, ok
}

func (m *hostModule) set(name string, o interp.Object) {
	if _, ok := m.attrs[name]; !ok {
		m.order = append(m.order, name)
	}
	m.attrs[name] = o
}

type hostInterp struct {
	mods  map[string]*hostModule
	prims [interp.NumBuiltins]interp.Type
}

func (h *hostInterp) ModuleNames() []string {
	names := make([]string, 0, len(h.mods))
	for name := range h.mods {
		names = append(names, name)
	}
	return names
}

func (h *hostInterp) ImportModule(name string) (interp.Module, bool) {
	m, ok := h.mods[name]
	if !ok {
		return nil, false
	}
	if m == nil {
		// Known name with nothing importable behind it.
		return nil, true
	}
	return m, true
}

func (h *hostInterp) NewModuleContext(name string) interface{} { return nil }

func (h *hostInterp) BuiltinType(b interp.Builtin) interp.Type { return h.prims[b] }

func (h *hostInterp) TypeOf(o interp.Object) (interp.Type, bool) {
	if c, ok := o.(interp.Constant); ok {
		return c.TypeOf(), true
	}
	return nil, false
}

func (h *hostInterp) Specialize(base interp.Type, index []interp.Type) interp.Type {
	return base
}

// newHostInterp builds the standard test host: primitive types, a
// builtins module, and a zlib module with one function and one
// constant.
func newHostInterp() *hostInterp {
	h := &hostInterp{mods: map[string]*hostModule{}}
	obj := newHostType("object")
	h.prims[interp.BuiltinObject] = obj
	for b, name := range map[interp.Builtin]string{
		interp.BuiltinBool:  "bool",
		interp.BuiltinInt:   "int",
		interp.BuiltinFloat: "float",
		interp.BuiltinStr:   "str",
		interp.BuiltinBytes: "bytes",
		interp.BuiltinNone:  "NoneType",
		interp.BuiltinList:  "list",
		interp.BuiltinTuple: "tuple",
		interp.BuiltinDict:  "dict",
	} {
		h.prims[b] = newHostType(name, obj)
	}

	bi := newHostModule("builtins")
	for _, t := range h.prims {
		if t != nil {
			bi.set(t.ObjectName(), t)
		}
	}
	bi.set("len", &hostFunc{hostObj{"len"}, []interp.Object{h.prims[interp.BuiltinInt]}})
	h.mods["builtins"] = bi

	zlib := newHostModule("zlib")
	zlib.set("compress", &hostFunc{hostObj{"compress"}, []interp.Object{h.prims[interp.BuiltinBytes]}})
	zlib.set("MAX_WBITS", &hostConst{hostObj{"MAX_WBITS"}, h.prims[interp.BuiltinInt], int64(15)})
	h.mods["zlib"] = zlib

	return h
}

func newTestSession() *Session {
	return NewSession(newHostInterp(), &Options{Limits: ns.Limits{MaxSet: 8}})
}

// AST construction helpers.

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

func module(name string, body ...stmt.Stmt) *stmt.Module {
	return &stmt.Module{Name: name, Body: body}
}

func funcDef(line int, name string, body ...stmt.Stmt) *stmt.FuncDef {
	return &stmt.FuncDef{Position: pos(line), Name: name, Body: body}
}

func classDef(line int, name string, body ...stmt.Stmt) *stmt.ClassDef {
	return &stmt.ClassDef{Position: pos(line), Name: name, Body: body}
}

func ret(line int, e expr.Expr) *stmt.Return {
	return &stmt.Return{Position: pos(line), Expr: e}
}

func importStmt(line int, path string) *stmt.Import {
	return &stmt.Import{Position: pos(line), Path: path}
}

// analyzeModule registers one source module and drives it to a fixed
// point.
func analyzeModule(s *Session, name string, tree *stmt.Module) *Entry {
	e, err := s.AddModule(name, "/test/"+name+".py", nil)
	if err != nil {
		panic(err)
	}
	e.SetTree(tree)
	if err := s.Analyze(nil); err != nil {
		panic(err)
	}
	return e
}

// varValues reads the inferred value set of a top-level variable.
func varValues(e *Entry, name string) ns.Set {
	if def, ok := e.Scope.Vars[name]; ok {
		return def.Values
	}
	return ns.Set{}
}
