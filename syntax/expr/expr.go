// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr defines data structures representing expressions of
// the analyzed language.
package expr

import (
	"scry.dev/scry/syntax"
)

type Expr interface {
	expr()
	Pos() syntax.Pos // implements syntax.Node
}

// Name is a bare identifier reference.
type Name struct {
	Position syntax.Pos
	Name     string
}

// Attr is a member access, x.Name.
type Attr struct {
	Position syntax.Pos
	Expr     Expr
	Name     string
}

// Call is a call expression. Keyword and star arguments are flattened
// into Args; the analyzer treats them all as positional possibilities.
type Call struct {
	Position syntax.Pos
	Func     Expr
	Args     []Expr
}

// Index is a subscript expression, x[i].
type Index struct {
	Position syntax.Pos
	Expr     Expr
	Index    Expr
}

// Binary is a binary operation. The analyzer does not interpret Op;
// the result is approximated by the operands.
type Binary struct {
	Position syntax.Pos
	Op       string
	Left     Expr
	Right    Expr
}

// BasicLiteral is a constant literal.
//
// Value holds one of: bool, int64, float64, complex128, string,
// []byte, or nil (the language's none value).
type BasicLiteral struct {
	Position syntax.Pos
	Value    interface{}
}

// StringBytes returns the byte form of a string-like literal and
// whether the literal is string-like.
func (e *BasicLiteral) StringBytes() ([]byte, bool) {
	switch v := e.Value.(type) {
	case string:
		return []byte(v), true
	case []byte:
		return v, true
	}
	return nil, false
}

// ListLiteral is a [a, b, ...] literal.
type ListLiteral struct {
	Position syntax.Pos
	Elems    []Expr
}

// TupleLiteral is a (a, b, ...) literal, and also the target form of a
// destructuring assignment.
type TupleLiteral struct {
	Position syntax.Pos
	Elems    []Expr
}

// Bad is a placeholder for an expression the front end could not
// build. It evaluates to nothing.
type Bad struct {
	Position syntax.Pos
	Error    error
}

var (
	_ = Expr((*Name)(nil))
	_ = Expr((*Attr)(nil))
	_ = Expr((*Call)(nil))
	_ = Expr((*Index)(nil))
	_ = Expr((*Binary)(nil))
	_ = Expr((*BasicLiteral)(nil))
	_ = Expr((*ListLiteral)(nil))
	_ = Expr((*TupleLiteral)(nil))
	_ = Expr((*Bad)(nil))
)

func (e *Name) expr()         {}
func (e *Attr) expr()         {}
func (e *Call) expr()         {}
func (e *Index) expr()        {}
func (e *Binary) expr()       {}
func (e *BasicLiteral) expr() {}
func (e *ListLiteral) expr()  {}
func (e *TupleLiteral) expr() {}
func (e *Bad) expr()          {}

func (e *Name) Pos() syntax.Pos         { return e.Position }
func (e *Attr) Pos() syntax.Pos         { return e.Position }
func (e *Call) Pos() syntax.Pos         { return e.Position }
func (e *Index) Pos() syntax.Pos        { return e.Position }
func (e *Binary) Pos() syntax.Pos       { return e.Position }
func (e *BasicLiteral) Pos() syntax.Pos { return e.Position }
func (e *ListLiteral) Pos() syntax.Pos  { return e.Position }
func (e *TupleLiteral) Pos() syntax.Pos { return e.Position }
func (e *Bad) Pos() syntax.Pos          { return e.Position }
