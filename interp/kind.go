// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

// HostKind is the classification of a host object, determined once
// per object by KindOf. The set is closed: the analyzer's value
// conversion is a total match over these kinds.
type HostKind int

const (
	KindUnknown HostKind = iota
	KindType
	KindMethod // before KindFunction: a Method is also a Function
	KindFunction
	KindProperty
	KindModule
	KindConstant
	KindMultiple
	KindContainer
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindType:      "type",
	KindMethod:    "method",
	KindFunction:  "function",
	KindProperty:  "property",
	KindModule:    "module",
	KindConstant:  "constant",
	KindMultiple:  "multiple",
	KindContainer: "container",
}

func (k HostKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// KindOf probes o's capabilities. Method is checked before Function
// and Container before Constant so the narrower capability wins.
func KindOf(o Object) HostKind {
	switch o.(type) {
	case Type:
		return KindType
	case Method:
		return KindMethod
	case Function:
		return KindFunction
	case Property:
		return KindProperty
	case Module:
		return KindModule
	case Multiple:
		return KindMultiple
	case Container:
		return KindContainer
	case Constant:
		return KindConstant
	}
	return KindUnknown
}
