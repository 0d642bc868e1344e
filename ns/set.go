// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ns

import (
	"sort"
	"strings"
)

// Limits bounds the growth of inferred sets. The zero value means
// unlimited.
type Limits struct {
	// MaxSet caps Set cardinality. A union whose result would hold
	// more than MaxSet namespaces collapses to AnySet and stays
	// collapsed: further unions of a capped set are AnySet.
	MaxSet int
}

// Set is an immutable deduplicated set of namespaces. The zero Set is
// empty. Namespaces are deduplicated by identity; constants are
// interned by the analysis session so equal host constants share one
// namespace.
type Set struct {
	elems []Namespace
}

// AnySet is the capped representation: "could be anything".
var AnySet = Set{elems: []Namespace{Any}}

// NewSet builds a set from elems, deduplicating and dropping nils.
// A set containing Any is AnySet.
func NewSet(elems ...Namespace) Set {
	var s Set
	for _, n := range elems {
		if n == nil {
			continue
		}
		if n == Any {
			return AnySet
		}
		if !s.Contains(n) {
			s.elems = append(s.elems, n)
		}
	}
	return s
}

func (s Set) Len() int    { return len(s.elems) }
func (s Set) Empty() bool { return len(s.elems) == 0 }

// IsAny reports whether the set is the capped top representation.
func (s Set) IsAny() bool {
	return len(s.elems) == 1 && s.elems[0] == Any
}

// Elems returns the underlying elements. Callers must not modify the
// returned slice.
func (s Set) Elems() []Namespace { return s.elems }

func (s Set) Contains(n Namespace) bool {
	for _, e := range s.elems {
		if e == n {
			return true
		}
	}
	return false
}

// Union returns s ∪ t under l. Union is commutative, associative, and
// idempotent; capping preserves that, because any ordering of unions
// whose total exceeds the limit collapses to AnySet.
func (s Set) Union(t Set, l Limits) Set {
	if s.IsAny() || t.IsAny() {
		return AnySet
	}
	if t.Empty() {
		return s
	}
	if s.Empty() {
		return t
	}
	merged := s
	grown := false
	for _, n := range t.elems {
		if merged.Contains(n) {
			continue
		}
		if !grown {
			// Copy on first growth; sets are shared by value.
			merged = Set{elems: append([]Namespace(nil), merged.elems...)}
			grown = true
		}
		merged.elems = append(merged.elems, n)
	}
	if l.MaxSet > 0 && len(merged.elems) > l.MaxSet {
		return AnySet
	}
	return merged
}

// UnionAll folds Union over sets.
func UnionAll(l Limits, sets ...Set) Set {
	var u Set
	for _, s := range sets {
		u = u.Union(s, l)
	}
	return u
}

// Equal reports set equality, ignoring element order.
func (s Set) Equal(t Set) bool {
	if len(s.elems) != len(t.elems) {
		return false
	}
	for _, n := range s.elems {
		if !t.Contains(n) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	if s.Empty() {
		return "{}"
	}
	names := make([]string, 0, len(s.elems))
	for _, n := range s.elems {
		names = append(names, n.Name())
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}
