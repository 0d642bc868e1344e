// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"strings"

	"scry.dev/scry/interp"
	"scry.dev/scry/ns"
	"scry.dev/scry/syntax"
	"scry.dev/scry/syntax/expr"
	"scry.dev/scry/syntax/stmt"
)

// evalUnit evaluates one scheduled unit: a module top level or a
// function body. Evaluation never fails; malformed content simply
// contributes nothing beyond what was inferred before the defect.
func (s *Session) evalUnit(u *Unit) {
	switch n := u.Node.(type) {
	case *stmt.Module:
		s.stmts(u, u.Scope, n.Body)
	case *stmt.FuncDef:
		s.stmts(u, u.Scope, n.Body)
	case stmt.Stmt:
		s.stmt(u, u.Scope, n)
	}
}

func (s *Session) stmts(u *Unit, sc *Scope, body []stmt.Stmt) {
	for _, st := range body {
		s.stmt(u, sc, st)
	}
}

func (s *Session) stmt(u *Unit, sc *Scope, st stmt.Stmt) {
	switch st := st.(type) {
	case *stmt.Assign:
		val := s.expr(u, sc, st.Right)
		for _, lhs := range st.Left {
			s.assignTo(u, sc, lhs, val)
		}

	case *stmt.FuncDef:
		fn := s.funcDef(sc, st)
		s.assignVar(u, sc, st.Name, ns.NewSet(fn), st.Pos())

	case *stmt.ClassDef:
		cls := s.classDef(u, sc, st)
		s.assignVar(u, sc, st.Name, ns.NewSet(cls), st.Pos())

	case *stmt.Return:
		val := s.noneSet()
		if st.Expr != nil {
			val = s.expr(u, sc, st.Expr)
		}
		for fs := sc; fs != nil; fs = fs.Parent {
			if fs.Fn == nil {
				continue
			}
			if ret, ok := fs.Fn.Ret.(*VariableDef); ok {
				if ret.assign(val, s.limits) {
					s.dirty(ret)
				}
			}
			break
		}

	case *stmt.Simple:
		s.expr(u, sc, st.Expr)

	case *stmt.Import:
		if st.Name != "" {
			val := s.ResolveImport(st.Path, true)
			if val.Empty() {
				s.watchImport(u, st.Path)
			}
			s.assignVar(u, sc, st.Name, val, st.Pos())
			break
		}
		// "import a.b.c" binds a to the top of the chain.
		top := s.ResolveImport(st.Path, false)
		if top.Empty() {
			s.watchImport(u, st.Path)
		}
		name := st.Path
		if i := strings.Index(name, "."); i >= 0 {
			name = name[:i]
		}
		if name != "" {
			s.assignVar(u, sc, name, top, st.Pos())
		}

	case *stmt.ImportFrom:
		base := s.ResolveImport(st.Module, true)
		if base.Empty() {
			s.watchImport(u, st.Module)
		}
		for _, item := range st.Names {
			val := s.attrRead(u, base, item.Path)
			name := item.Name
			if name == "" {
				name = item.Path
			}
			s.assignVar(u, sc, name, val, item.Pos())
		}

	case *stmt.If:
		if st.Cond != nil {
			s.expr(u, sc, st.Cond)
		}
		// Both branches contribute; the analyzer does not prune.
		s.stmts(u, sc, st.Body)
		s.stmts(u, sc, st.Else)

	case *stmt.While:
		if st.Cond != nil {
			s.expr(u, sc, st.Cond)
		}
		s.stmts(u, sc, st.Body)

	case *stmt.For:
		elem := s.iterElem(s.expr(u, sc, st.Expr))
		s.assignTo(u, sc, st.Target, elem)
		s.stmts(u, sc, st.Body)
	}
}

// funcDef builds (or finds) the function value for a definition and
// schedules its body. The value is interned per AST node so repeated
// evaluation of the definition is idempotent.
func (s *Session) funcDef(sc *Scope, st *stmt.FuncDef) *ns.Func {
	if n, ok := s.nodeVals[st]; ok {
		return n.(*ns.Func)
	}
	name := st.Name
	if sc.Class != nil {
		name = sc.Class.Nm + "." + name
	}
	fn := &ns.Func{
		Nm:         name,
		ModuleName: sc.Entry.Name,
		Decl:       st,
		Owner:      sc.Entry,
		Ret:        newVariableDef(),
	}
	fnScope := newScope(sc, sc.Entry)
	fnScope.Fn = fn
	for _, p := range st.Params {
		fnScope.Define(p)
	}
	s.nodeVals[st] = fn
	s.fnScopes[fn] = fnScope
	// Analyze the body even if nothing calls it.
	s.queue.pushBack(&Unit{Scope: fnScope, Node: st})
	return fn
}

// classDef builds the class value for a definition and evaluates the
// class body inline; the body scope's defs become the class members.
func (s *Session) classDef(u *Unit, sc *Scope, st *stmt.ClassDef) *ns.Class {
	var cls *ns.Class
	if n, ok := s.nodeVals[st]; ok {
		cls = n.(*ns.Class)
	} else {
		cls = ns.NewClass(st.Name, nil)
		s.nodeVals[st] = cls
	}
	for _, be := range st.Bases {
		for _, n := range s.expr(u, sc, be).Elems() {
			if b, ok := n.(*ns.Class); ok && !containsClass(cls.Bases, b) {
				cls.Bases = append(cls.Bases, b)
			}
		}
	}
	if len(cls.Bases) == 0 && s.builtin.object != nil && cls != s.builtin.object {
		cls.Bases = []*ns.Class{s.builtin.object}
	}

	clsScope := newScope(sc, sc.Entry)
	clsScope.Class = cls
	if defs := s.attrDefs[cls]; defs != nil {
		// Re-evaluation reuses the accumulated member defs.
		clsScope.Vars = defs
	}
	s.stmts(u, clsScope, st.Body)
	s.attrDefs[cls] = clsScope.Vars
	return cls
}

func containsClass(list []*ns.Class, c *ns.Class) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// assignTo assigns val to an assignment target.
func (s *Session) assignTo(u *Unit, sc *Scope, lhs expr.Expr, val ns.Set) {
	switch lhs := lhs.(type) {
	case *expr.Name:
		s.assignVar(u, sc, lhs.Name, val, lhs.Pos())

	case *expr.TupleLiteral:
		elem := s.iterElem(val)
		for _, t := range lhs.Elems {
			s.assignTo(u, sc, t, elem)
		}

	case *expr.Attr:
		for _, n := range s.expr(u, sc, lhs.Expr).Elems() {
			switch n := n.(type) {
			case *ns.Instance:
				s.setClassAttr(n.Of, lhs.Name, val)
			case *ns.Class:
				s.setClassAttr(n, lhs.Name, val)
			case *ns.Seq:
				s.setClassAttr(n.Of, lhs.Name, val)
			case *ns.Module:
				if sa, ok := n.Attrs.(*scopeAttrs); ok {
					def := sa.scope.Define(lhs.Name)
					if def.assign(val, s.limits) {
						s.dirty(def)
					}
				}
			}
		}
	}
}

func (s *Session) assignVar(u *Unit, sc *Scope, name string, val ns.Set, pos syntax.Pos) {
	def := sc.Define(name)
	def.addAssign(Loc{Path: entryPath(sc), Pos: pos})
	if def.assign(val, s.limits) {
		s.dirty(def)
	}
}

func (s *Session) setClassAttr(c *ns.Class, name string, val ns.Set) {
	defs := s.attrDefs[c]
	if defs == nil {
		defs = make(map[string]*VariableDef)
		s.attrDefs[c] = defs
	}
	def := defs[name]
	if def == nil {
		def = newVariableDef()
		defs[name] = def
	}
	if def.assign(val, s.limits) {
		s.dirty(def)
	}
}

// dirty re-enqueues every unit that read def.
func (s *Session) dirty(def *VariableDef) {
	for k := range def.readers {
		s.queue.pushBack(&Unit{Scope: k.scope, Node: k.node})
	}
}

func (s *Session) expr(u *Unit, sc *Scope, e expr.Expr) ns.Set {
	switch e := e.(type) {
	case nil:
		return ns.Set{}

	case *expr.Name:
		if def := sc.Lookup(e.Name); def != nil {
			def.addRef(Loc{Path: entryPath(sc), Pos: e.Pos()})
			def.addReader(u)
			if def.Values.Empty() {
				// A phantom from an earlier miss; builtins still
				// apply until the binding materializes.
				return s.builtinName(u, e.Name)
			}
			return def.Values
		}
		// Unbound so far. Record the read at module scope so a later
		// binding wakes this unit, and fall back to builtins.
		root := sc
		for root.Parent != nil {
			root = root.Parent
		}
		def := root.Define(e.Name)
		def.addRef(Loc{Path: entryPath(sc), Pos: e.Pos()})
		def.addReader(u)
		return def.Values.Union(s.builtinName(u, e.Name), s.limits)

	case *expr.Attr:
		return s.attrRead(u, s.expr(u, sc, e.Expr), e.Name)

	case *expr.Call:
		fn := s.expr(u, sc, e.Func)
		args := make([]ns.Set, len(e.Args))
		for i, a := range e.Args {
			args[i] = s.expr(u, sc, a)
		}
		return s.call(u, e, fn, args)

	case *expr.Index:
		obj := s.expr(u, sc, e.Expr)
		s.expr(u, sc, e.Index)
		return s.indexValue(obj)

	case *expr.Binary:
		l := s.expr(u, sc, e.Left)
		r := s.expr(u, sc, e.Right)
		return l.Union(r, s.limits)

	case *expr.BasicLiteral:
		return s.constValue(e.Value)

	case *expr.ListLiteral:
		var elem ns.Set
		for _, el := range e.Elems {
			elem = elem.Union(s.expr(u, sc, el), s.limits)
		}
		return ns.NewSet(s.seqValue(e, s.builtin.list, elem))

	case *expr.TupleLiteral:
		var elem ns.Set
		for _, el := range e.Elems {
			elem = elem.Union(s.expr(u, sc, el), s.limits)
		}
		return ns.NewSet(s.seqValue(e, s.builtin.tuple, elem))
	}
	return ns.Set{}
}

// seqValue interns the Seq for a literal node and widens its element
// set, so re-evaluation converges instead of minting fresh values.
func (s *Session) seqValue(node syntax.Node, cls *ns.Class, elem ns.Set) *ns.Seq {
	if n, ok := s.nodeVals[node]; ok {
		seq := n.(*ns.Seq)
		seq.Elem = seq.Elem.Union(elem, s.limits)
		return seq
	}
	seq := &ns.Seq{Of: cls, Elem: elem}
	s.nodeVals[node] = seq
	return seq
}

// call evaluates a call site. Specializations are consulted before
// generic inference; a specialization with Analyze false suppresses
// symbolic execution of the body entirely.
func (s *Session) call(u *Unit, node syntax.Node, fnSet ns.Set, args []ns.Set) ns.Set {
	if fnSet.IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, n := range fnSet.Elems() {
		switch f := n.(type) {
		case *ns.Func:
			if sp := s.specialFor(f); sp != nil {
				out = out.Union(sp.Fn(s, args), s.limits)
				if !sp.Analyze {
					continue
				}
			}
			out = out.Union(s.callFunc(u, f, args), s.limits)

		case *ns.Class:
			out = out.Union(s.instantiate(node, f, args), s.limits)

		case *ns.Multi:
			out = out.Union(s.call(u, node, ns.NewSet(f.Alts...), args), s.limits)
		}
	}
	return out
}

// callFunc is generic call-site inference: flow the argument sets
// into the parameter defs and read the accumulated return set. A
// growing parameter re-enqueues the body at the front of the queue;
// the return def records this unit as a reader.
func (s *Session) callFunc(u *Unit, f *ns.Func, args []ns.Set) ns.Set {
	if f.Decl == nil {
		return f.HostReturns
	}
	fnScope := s.fnScopes[f]
	if fnScope == nil {
		return ns.Set{}
	}
	changed := false
	for i, p := range f.Decl.Params {
		if i >= len(args) {
			break
		}
		def := fnScope.Define(p)
		if def.assign(args[i], s.limits) {
			changed = true
		}
	}
	if changed {
		s.queue.pushFront(&Unit{Scope: fnScope, Node: f.Decl})
	}
	ret, ok := f.Ret.(*VariableDef)
	if !ok {
		return ns.Set{}
	}
	ret.addReader(u)
	return ret.Values
}

// instantiate models calling a class: the result is its instance,
// with element tracking when the class is a sequence type.
func (s *Session) instantiate(node syntax.Node, c *ns.Class, args []ns.Set) ns.Set {
	if c == s.builtin.list || c == s.builtin.tuple {
		var elem ns.Set
		if len(args) > 0 {
			elem = s.iterElem(args[0])
		}
		return ns.NewSet(s.seqValue(node, c, elem))
	}
	return ns.NewSet(c.Instance())
}

// attrRead looks up a member across every value of objs.
func (s *Session) attrRead(u *Unit, objs ns.Set, name string) ns.Set {
	if objs.IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, n := range objs.Elems() {
		switch n := n.(type) {
		case *ns.Module:
			if sa, ok := n.Attrs.(*scopeAttrs); ok {
				// Define even when absent: the reader edge wakes this
				// unit if the module binds the name later.
				def := sa.scope.Define(name)
				def.addReader(u)
				if !def.Values.Empty() {
					out = out.Union(def.Values, s.limits)
					continue
				}
			} else {
				out = out.Union(n.Attrs.Attr(name), s.limits)
			}
			// Child package of a dotted module name.
			child := s.moduleValue(n.Nm + "." + name)
			if child.Empty() {
				s.watchModule(u, n.Nm+"."+name)
			}
			out = out.Union(child, s.limits)

		case *ns.Class:
			out = out.Union(s.classAttr(u, n, name, nil), s.limits)

		case *ns.Instance:
			out = out.Union(s.classAttr(u, n.Of, name, nil), s.limits)

		case *ns.Seq:
			out = out.Union(s.classAttr(u, n.Of, name, nil), s.limits)

		case *ns.Const:
			out = out.Union(s.classAttr(u, n.Of, name, nil), s.limits)

		case *ns.Super:
			for _, b := range n.Of.Bases {
				out = out.Union(s.classAttr(u, b, name, nil), s.limits)
			}

		case *ns.Multi:
			out = out.Union(s.attrRead(u, ns.NewSet(n.Alts...), name), s.limits)
		}
	}
	return out
}

// classAttr resolves a member on a class, walking bases depth-first
// with cycle protection.
func (s *Session) classAttr(u *Unit, c *ns.Class, name string, seen map[*ns.Class]bool) ns.Set {
	if seen[c] {
		return ns.Set{}
	}
	if seen == nil {
		seen = make(map[*ns.Class]bool)
	}
	seen[c] = true
	def := s.attrDefs[c][name]
	if def == nil && u != nil {
		// Phantom def: the reader edge wakes this unit if the
		// attribute is assigned later.
		defs := s.attrDefs[c]
		if defs == nil {
			defs = make(map[string]*VariableDef)
			s.attrDefs[c] = defs
		}
		def = newVariableDef()
		defs[name] = def
	}
	if def != nil {
		def.addReader(u)
		if !def.Values.Empty() {
			return def.Values
		}
	}
	if set, ok := c.Members[name]; ok {
		return set
	}
	var out ns.Set
	for _, b := range c.Bases {
		out = out.Union(s.classAttr(u, b, name, seen), s.limits)
		if !out.Empty() {
			break
		}
	}
	return out
}

// iterElem approximates iterating a value set.
func (s *Session) iterElem(set ns.Set) ns.Set {
	if set.IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, n := range set.Elems() {
		switch n := n.(type) {
		case *ns.Seq:
			out = out.Union(n.Elem, s.limits)
		case *ns.Iterator:
			out = out.Union(n.Elem, s.limits)
		case *ns.Const:
			if n.Of == s.builtin.prim[interp.BuiltinStr] {
				out = out.Union(ns.NewSet(n.Of.Instance()), s.limits)
			}
		case *ns.Instance:
			if n.Of == s.builtin.prim[interp.BuiltinStr] {
				out = out.Union(ns.NewSet(n), s.limits)
			}
		case *ns.Multi:
			out = out.Union(s.iterElem(ns.NewSet(n.Alts...)), s.limits)
		}
	}
	return out
}

// indexValue approximates subscripting.
func (s *Session) indexValue(set ns.Set) ns.Set {
	if set.IsAny() {
		return ns.AnySet
	}
	var out ns.Set
	for _, n := range set.Elems() {
		switch n := n.(type) {
		case *ns.Seq:
			out = out.Union(n.Elem, s.limits)
		case *ns.Const:
			if n.Of == s.builtin.prim[interp.BuiltinStr] {
				out = out.Union(ns.NewSet(n.Of.Instance()), s.limits)
			}
		case *ns.Multi:
			out = out.Union(s.indexValue(ns.NewSet(n.Alts...)), s.limits)
		}
	}
	return out
}

// constValue interns the namespace of a literal constant.
func (s *Session) constValue(v interface{}) ns.Set {
	var b interp.Builtin
	switch v.(type) {
	case nil:
		b = interp.BuiltinNone
	case bool:
		b = interp.BuiltinBool
	case int64:
		b = interp.BuiltinInt
	case float64:
		b = interp.BuiltinFloat
	case complex128:
		b = interp.BuiltinComplex
	case string:
		b = interp.BuiltinStr
	case []byte:
		b = interp.BuiltinBytes
	default:
		return ns.NewSet(s.unknown.Instance())
	}
	cls := s.builtin.prim[b]
	if cls == nil {
		return ns.NewSet(s.unknown.Instance())
	}
	if v == nil {
		return ns.NewSet(cls.Instance())
	}
	return ns.NewSet(s.internConst(cls, v))
}

// builtinName resolves an unbound name against the host's builtins
// module.
func (s *Session) builtinName(u *Unit, name string) ns.Set {
	return s.attrRead(u, s.moduleValue("builtins"), name)
}

func (s *Session) noneSet() ns.Set {
	if cls := s.builtin.prim[interp.BuiltinNone]; cls != nil {
		return ns.NewSet(cls.Instance())
	}
	return ns.Set{}
}

func entryPath(sc *Scope) string {
	if sc != nil && sc.Entry != nil {
		return sc.Entry.Path
	}
	return ""
}
