// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"strings"

	"scry.dev/scry/ns"
)

// SpecialFn overrides the abstract result of calling one function.
// It receives the argument value sets and returns the call's value
// set. Overrides exist for functions whose generic inference is
// wasteful or explosive (deep-copy, getattr, super).
type SpecialFn func(s *Session, args []ns.Set) ns.Set

// Special is one registered override.
type Special struct {
	Module string
	Name   string // qualified within the module, "f" or "Cls.f"
	Fn     SpecialFn
	// Analyze requests generic inference of the body in addition to
	// the override. False is the lever that stops runaway state
	// growth: the body is never symbolically executed.
	Analyze bool
}

// Specialize registers an override for module.function. If the module
// is already loaded the override is installed immediately; otherwise
// it is queued and applied when the module appears. Either way it is
// appended to the replay log so Reload reapplies it.
//
// A dotted module target whose exact name is unknown falls back to
// its prefix up to the last dot: Specialize("decimal.Decimal",
// "__new__", ...) installs "Decimal.__new__" on module "decimal".
func (s *Session) Specialize(module, function string, fn SpecialFn, alsoAnalyze bool) error {
	if module == "" || function == "" || fn == nil {
		return fmt.Errorf("analysis: Specialize: module, function and fn are all required")
	}
	sp := &Special{Module: module, Name: function, Fn: fn, Analyze: alsoAnalyze}
	s.specMu.Lock()
	s.speclog = append(s.speclog, sp)
	s.applySpecial(sp)
	s.specMu.Unlock()
	return nil
}

// SpecializeToInstance registers an override whose calls evaluate to
// an instance of the fully-qualified type named by typeName
// ("socket.socket").
func (s *Session) SpecializeToInstance(module, function, typeName string, alsoAnalyze bool) error {
	if !strings.Contains(typeName, ".") {
		return fmt.Errorf("analysis: SpecializeToInstance: %q is not a fully-qualified type name", typeName)
	}
	fn := func(s *Session, args []ns.Set) ns.Set {
		var out ns.Set
		for _, n := range s.ResolveImport(typeName, true).Elems() {
			if c, ok := n.(*ns.Class); ok {
				out = out.Union(ns.NewSet(c.Instance()), s.limits)
			}
		}
		return out
	}
	return s.Specialize(module, function, fn, alsoAnalyze)
}

// applySpecial installs sp on its loaded module, or on its dotted
// prefix module, or queues it pending. Callers hold specMu.
func (s *Session) applySpecial(sp *Special) {
	if ref := s.loadedRef(sp.Module); ref != nil {
		installSpecial(ref, sp.Name, sp)
		return
	}
	if i := strings.LastIndex(sp.Module, "."); i > 0 {
		if _, known := s.GetModule(sp.Module); !known {
			if ref := s.loadedRef(sp.Module[:i]); ref != nil {
				installSpecial(ref, sp.Module[i+1:]+"."+sp.Name, sp)
				return
			}
		}
	}
	s.pending[sp.Module] = append(s.pending[sp.Module], sp)
}

// applyPending replays overrides queued for a module that just
// appeared, including dotted targets nested under it. Each pending
// override is applied exactly once; re-adding a module later does not
// re-apply consumed entries (Reload replays the full log instead).
func (s *Session) applyPending(name string) {
	s.specMu.Lock()
	defer s.specMu.Unlock()
	ref := s.loadedRef(name)
	if ref == nil {
		return
	}
	for _, sp := range s.pending[name] {
		installSpecial(ref, sp.Name, sp)
	}
	delete(s.pending, name)
	dotted := name + "."
	for key, sps := range s.pending {
		if !strings.HasPrefix(key, dotted) {
			continue
		}
		rest := key[len(dotted):]
		for _, sp := range sps {
			installSpecial(ref, rest+"."+sp.Name, sp)
		}
		delete(s.pending, key)
	}
}

// replayLog rebuilds the pending and applied tables from the log,
// used after Reload. Callers must not hold specMu.
func (s *Session) replayLog() {
	s.specMu.Lock()
	defer s.specMu.Unlock()
	s.pending = make(map[string][]*Special)
	for _, sp := range s.speclog {
		s.applySpecial(sp)
	}
}

// specialFor returns the override installed for a function value.
func (s *Session) specialFor(f *ns.Func) *Special {
	if f.ModuleName == "" || f.Nm == "" {
		return nil
	}
	s.mu.Lock()
	ref := s.modules[f.ModuleName]
	s.mu.Unlock()
	if ref == nil {
		return nil
	}
	s.specMu.Lock()
	defer s.specMu.Unlock()
	return ref.specials[f.Nm]
}

func (s *Session) loadedRef(name string) *ModuleRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref := s.modules[name]; ref != nil && ref.loaded {
		return ref
	}
	return nil
}

// installSpecial writes to ref.specials; callers hold specMu, which
// also guards every specials map.
func installSpecial(ref *ModuleRef, name string, sp *Special) {
	if ref.specials == nil {
		ref.specials = make(map[string]*Special)
	}
	ref.specials[name] = sp
}
