// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interp defines the capability surface a host interpreter
// provides to the analyzer: enumerating builtin modules, importing
// them by name, and describing arbitrary host objects.
//
// The analyzer never executes host code. Every method here is
// expected to be synchronous and in-memory. Host objects are used as
// cache keys, so every Object implementation must be comparable in
// the Go sense (pointer types are).
package interp

// Object is an opaque value owned by the host type system. The
// analyzer learns what an object is by probing the narrower
// capability interfaces below; see KindOf.
type Object interface {
	ObjectName() string
}

// Type is a host class or builtin type.
type Type interface {
	Object
	BaseTypes() []Type
	AttrNames() []string
	Attr(name string) (Object, bool)
}

// Function is a callable host object. ReturnTypes describes what a
// call evaluates to, as host objects to be classified in turn.
type Function interface {
	Object
	ReturnTypes() []Object
}

// Method is a method descriptor: a function reached through a type.
type Method interface {
	Function
	DeclaringType() Type
}

// Property is a computed attribute; Get is the host object a read
// produces.
type Property interface {
	Object
	Get() Object
}

// Module is a host builtin module.
type Module interface {
	Object
	AttrNames() []string
	Attr(name string) (Object, bool)
}

// Constant is a fixed host value of a known type.
type Constant interface {
	Object
	TypeOf() Type
	Value() interface{}
}

// Multiple is an ambiguity wrapper: the host cannot say which of
// several objects a name refers to (platform-conditional modules and
// the like).
type Multiple interface {
	Object
	Objects() []Object
}

// Container is a generic reflectable container instance: a value of
// a parameterized type carrying its index types.
type Container interface {
	Object
	ContainerType() Type
	IndexTypes() []Type
}

// Builtin names an entry of the host's primitive type table.
type Builtin int

const (
	BuiltinBool Builtin = iota
	BuiltinInt
	BuiltinLong
	BuiltinFloat
	BuiltinComplex
	BuiltinStr
	BuiltinBytes
	BuiltinEllipsis
	BuiltinNone
	BuiltinList
	BuiltinTuple
	BuiltinDict
	BuiltinObject
	builtinMax
)

// NumBuiltins is the size of the primitive type table.
const NumBuiltins = int(builtinMax)

// Interpreter enumerates and imports the host's builtin modules and
// answers type queries the capability interfaces cannot.
type Interpreter interface {
	// ModuleNames lists every builtin module name, dotted names
	// included.
	ModuleNames() []string

	// ImportModule loads a builtin module. The bool reports whether
	// the name is known to the host.
	ImportModule(name string) (Module, bool)

	// NewModuleContext creates an opaque per-module context the host
	// may use to scope object identity. May return nil.
	NewModuleContext(name string) interface{}

	// BuiltinType resolves an entry of the primitive type table.
	// May return nil for primitives the host does not model.
	BuiltinType(b Builtin) Type

	// TypeOf reports the declared type of an arbitrary object, the
	// classification of last resort.
	TypeOf(o Object) (Type, bool)

	// Specialize constructs a generic/specialized type from a base
	// type and index types. Hosts without generics return base.
	Specialize(base Type, index []Type) Type
}
