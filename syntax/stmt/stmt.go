// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stmt defines data structures representing statements of
// the analyzed language.
package stmt

import (
	"scry.dev/scry/syntax"
	"scry.dev/scry/syntax/expr"
)

type Stmt interface {
	stmt()
	Pos() syntax.Pos // implements syntax.Node
}

// Module is the top-level statement tree of one source file.
type Module struct {
	Position syntax.Pos
	Name     string
	Body     []Stmt
}

// FuncDef is a function definition. The body is analyzed as its own
// scheduling unit; the definition statement only binds the name.
type FuncDef struct {
	Position syntax.Pos
	Name     string
	Params   []string
	Body     []Stmt
}

// ClassDef is a class definition. The body is evaluated in a class
// scope whose variables become the class members.
type ClassDef struct {
	Position syntax.Pos
	Name     string
	Bases    []expr.Expr
	Body     []Stmt
}

// Assign assigns Right to every target in Left. A *expr.TupleLiteral
// target destructures element-wise.
type Assign struct {
	Position syntax.Pos
	Left     []expr.Expr
	Right    expr.Expr
}

// Return returns Expr (which may be nil) from the enclosing function.
type Return struct {
	Position syntax.Pos
	Expr     expr.Expr
}

// Simple is an expression evaluated for its effect on inference.
type Simple struct {
	Position syntax.Pos
	Expr     expr.Expr
}

// Import is one dotted import, "import a.b.c as x". Name is the bound
// identifier; empty means the default (first path segment, or the last
// when no dots).
type Import struct {
	Position syntax.Pos
	Name     string
	Path     string
}

// ImportFrom is "from Module import Names...".
type ImportFrom struct {
	Position syntax.Pos
	Module   string
	Names    []*Import // Path is the member name here
}

// If evaluates both branches; the analyzer does not prune on the
// condition.
type If struct {
	Position syntax.Pos
	Cond     expr.Expr
	Body     []Stmt
	Else     []Stmt
}

type While struct {
	Position syntax.Pos
	Cond     expr.Expr
	Body     []Stmt
}

// For is "for Target in Expr". Target receives the element values of
// whatever Expr is inferred to iterate.
type For struct {
	Position syntax.Pos
	Target   expr.Expr
	Expr     expr.Expr
	Body     []Stmt
}

var (
	_ = Stmt((*Module)(nil))
	_ = Stmt((*FuncDef)(nil))
	_ = Stmt((*ClassDef)(nil))
	_ = Stmt((*Assign)(nil))
	_ = Stmt((*Return)(nil))
	_ = Stmt((*Simple)(nil))
	_ = Stmt((*Import)(nil))
	_ = Stmt((*ImportFrom)(nil))
	_ = Stmt((*If)(nil))
	_ = Stmt((*While)(nil))
	_ = Stmt((*For)(nil))
)

func (s *Module) stmt()     {}
func (s *FuncDef) stmt()    {}
func (s *ClassDef) stmt()   {}
func (s *Assign) stmt()     {}
func (s *Return) stmt()     {}
func (s *Simple) stmt()     {}
func (s *Import) stmt()     {}
func (s *ImportFrom) stmt() {}
func (s *If) stmt()         {}
func (s *While) stmt()      {}
func (s *For) stmt()        {}

func (s *Module) Pos() syntax.Pos     { return s.Position }
func (s *FuncDef) Pos() syntax.Pos    { return s.Position }
func (s *ClassDef) Pos() syntax.Pos   { return s.Position }
func (s *Assign) Pos() syntax.Pos     { return s.Position }
func (s *Return) Pos() syntax.Pos     { return s.Position }
func (s *Simple) Pos() syntax.Pos     { return s.Position }
func (s *Import) Pos() syntax.Pos     { return s.Position }
func (s *ImportFrom) Pos() syntax.Pos { return s.Position }
func (s *If) Pos() syntax.Pos         { return s.Position }
func (s *While) Pos() syntax.Pos      { return s.Position }
func (s *For) Pos() syntax.Pos        { return s.Position }
