// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ns defines data structures representing inferred abstract
// values, called namespaces.
//
// A Namespace is one possible runtime value-kind of an expression: a
// class, an instance of a class, a function, a module, a constant,
// and so on. A Set is a deduplicated union of namespaces, "everything
// this expression may be". The analysis package produces and consumes
// these; ns itself holds no analysis behavior.
package ns

import (
	"scry.dev/scry/syntax/stmt"
)

type Namespace interface {
	ns()
	Name() string
}

// Class is a class or builtin type.
type Class struct {
	Nm    string
	Bases []*Class
	// Members holds host-declared members. Members discovered by
	// analyzing assignments live in the analysis session, keyed by
	// the class, so they can carry dependency edges.
	Members map[string]Set
	// Host is the host type-system object this class wraps, if any.
	// Typed as interface{} to break the package import cycle.
	Host interface{}

	inst *Instance
}

func NewClass(name string, host interface{}) *Class {
	c := &Class{Nm: name, Host: host}
	c.inst = &Instance{Of: c}
	return c
}

// Instance returns the canonical instance value of the class. Classes
// built by NewClass share one instance, so instance sets deduplicate.
func (c *Class) Instance() *Instance {
	if c.inst == nil {
		c.inst = &Instance{Of: c}
	}
	return c.inst
}

// Instance is a value whose type is a known class.
type Instance struct {
	Of *Class
}

// Func is a function. User-defined functions carry their Decl;
// host builtin functions carry HostReturns instead.
type Func struct {
	Nm         string // qualified name within the module, "f" or "Cls.f"
	ModuleName string
	Decl       *stmt.FuncDef

	// Owner is the *analysis.Entry that defined the function, and Ret
	// its *analysis.VariableDef of observed returns. Both are typed
	// as interface{} to break the package import cycle.
	Owner interface{}
	Ret   interface{}

	HostReturns Set
}

// AttrSource yields a module's members. Implemented by analysis
// scopes and by host-module adapters.
type AttrSource interface {
	Attr(name string) Set
	AttrNames() []string
}

// Module is a loaded module value.
type Module struct {
	Nm    string
	Attrs AttrSource
}

// Const is a constant of a known class. Value may be nil when only
// the type is known.
type Const struct {
	Of    *Class
	Value interface{}
}

// Multi is a multi-member aggregate: one of several possible
// underlying values. Member lookups union over the alternatives.
type Multi struct {
	Alts []Namespace
}

// Iterator yields elements of Elem.
type Iterator struct {
	Elem Set
}

// Seq is an instance of a sequence class (list, tuple) with element
// tracking.
type Seq struct {
	Of   *Class
	Elem Set
}

// Super is a super-binding: member lookup starts at the bases of Of.
type Super struct {
	Of *Class
}

// top is the "any" marker: the capped representation of a set that
// grew past the analysis limits.
type top struct{}

// Any is the sole top value.
var Any Namespace = top{}

var (
	_ = Namespace((*Class)(nil))
	_ = Namespace((*Instance)(nil))
	_ = Namespace((*Func)(nil))
	_ = Namespace((*Module)(nil))
	_ = Namespace((*Const)(nil))
	_ = Namespace((*Multi)(nil))
	_ = Namespace((*Iterator)(nil))
	_ = Namespace((*Seq)(nil))
	_ = Namespace((*Super)(nil))
)

func (*Class) ns()    {}
func (*Instance) ns() {}
func (*Func) ns()     {}
func (*Module) ns()   {}
func (*Const) ns()    {}
func (*Multi) ns()    {}
func (*Iterator) ns() {}
func (*Seq) ns()      {}
func (*Super) ns()    {}
func (top) ns()       {}

func (c *Class) Name() string    { return c.Nm }
func (i *Instance) Name() string { return i.Of.Nm }
func (f *Func) Name() string     { return f.Nm }
func (m *Module) Name() string   { return m.Nm }
func (c *Const) Name() string    { return c.Of.Nm }
func (m *Multi) Name() string    { return "<multiple>" }
func (i *Iterator) Name() string { return "<iterator>" }
func (s *Seq) Name() string      { return s.Of.Nm }
func (s *Super) Name() string    { return "super" }
func (top) Name() string         { return "<any>" }
