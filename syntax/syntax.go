// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines an Abstract Syntax Tree, an AST, for the
// analyzed scripting language.
//
// Nodes in the AST are represented by Node objects. The particular
// nodes for expressions and statements are defined in the respective
// packages:
//
//	syntax/expr
//	syntax/stmt
//
// The analyzer only consumes these trees. A host front end (parser,
// project system, notebook) builds one stmt.Module per source file
// and hands it to the analysis session.
package syntax

import "fmt"

// A Node is a node in the syntax tree.
type Node interface {
	Pos() Pos
}

// Pos is a position in a source file. The zero Pos means unknown.
type Pos struct {
	Line   int32 // line number, valid values start at 1
	Column int16
}

func (p Pos) String() string {
	if p.Line == 0 {
		return "<unknown line>"
	}
	if p.Column == 0 {
		return fmt.Sprintf("%d", p.Line)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
