// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtins is a small concrete host interpreter: it models
// the core builtin modules of a Python-like runtime (builtins, sys,
// copy) well enough to analyze programs against, and registers the
// stock specializations for functions whose generic inference would
// be useless or explosive.
package builtins

import (
	"scry.dev/scry/interp"
)

type object struct {
	name string
}

func (o *object) ObjectName() string { return o.name }

// Type is a host builtin type.
type Type struct {
	object
	bases []interp.Type
	attrs map[string]interp.Object
	order []string
}

func newType(name string, bases ...interp.Type) *Type {
	return &Type{
		object: object{name: name},
		bases:  bases,
		attrs:  make(map[string]interp.Object),
	}
}

func (t *Type) BaseTypes() []interp.Type { return t.bases }
func (t *Type) AttrNames() []string      { return append([]string(nil), t.order...) }

func (t *Type) Attr(name string) (interp.Object, bool) {
	o, ok := t.attrs[name]
	return o, ok
}

func (t *Type) set(name string, o interp.Object) {
	if _, ok := t.attrs[name]; !ok {
		t.order = append(t.order, name)
	}
	t.attrs[name] = o
}

// Function is a host builtin function with declared return types.
type Function struct {
	object
	returns []interp.Object
}

func newFunction(name string, returns ...interp.Object) *Function {
	return &Function{object: object{name: name}, returns: returns}
}

func (f *Function) ReturnTypes() []interp.Object { return f.returns }

// Method is a method descriptor on a builtin type.
type Method struct {
	Function
	on *Type
}

func newMethod(on *Type, name string, returns ...interp.Object) *Method {
	m := &Method{Function: Function{object: object{name: name}, returns: returns}, on: on}
	on.set(name, m)
	return m
}

func (m *Method) DeclaringType() interp.Type { return m.on }

// Property is a computed attribute on a builtin type.
type Property struct {
	object
	get interp.Object
}

func (p *Property) Get() interp.Object { return p.get }

// Constant is a fixed builtin value.
type Constant struct {
	object
	typ *Type
	val interface{}
}

func newConstant(name string, typ *Type, val interface{}) *Constant {
	return &Constant{object: object{name: name}, typ: typ, val: val}
}

func (c *Constant) TypeOf() interp.Type { return c.typ }
func (c *Constant) Value() interface{} { return c.val }

// Container is a builtin value of a parameterized type, such as
// sys.path being a list of str.
type Container struct {
	object
	typ   *Type
	index []interp.Type
}

func (c *Container) ContainerType() interp.Type { return c.typ }
func (c *Container) IndexTypes() []interp.Type  { return append([]interp.Type(nil), c.index...) }

// Module is a host builtin module.
type Module struct {
	object
	attrs map[string]interp.Object
	order []string
}

func newModule(name string) *Module {
	return &Module{object: object{name: name}, attrs: make(map[string]interp.Object)}
}

func (m *Module) AttrNames() []string { return append([]string(nil), m.order...) }

func (m *Module) Attr(name string) (interp.Object, bool) {
	o, ok := m.attrs[name]
	return o, ok
}

func (m *Module) set(name string, o interp.Object) {
	if _, ok := m.attrs[name]; !ok {
		m.order = append(m.order, name)
	}
	m.attrs[name] = o
}

var (
	_ interp.Type      = (*Type)(nil)
	_ interp.Function  = (*Function)(nil)
	_ interp.Method    = (*Method)(nil)
	_ interp.Property  = (*Property)(nil)
	_ interp.Constant  = (*Constant)(nil)
	_ interp.Container = (*Container)(nil)
	_ interp.Module    = (*Module)(nil)
)

// Interp is the concrete host interpreter.
type Interp struct {
	modules map[string]*Module
	prims   [interp.NumBuiltins]*Type
}

var _ interp.Interpreter = (*Interp)(nil)

// New builds the builtin module set.
func New() *Interp {
	ip := &Interp{modules: make(map[string]*Module)}

	obj := newType("object")
	ip.prims[interp.BuiltinObject] = obj
	names := [interp.NumBuiltins]string{
		interp.BuiltinBool:     "bool",
		interp.BuiltinInt:      "int",
		interp.BuiltinLong:     "long",
		interp.BuiltinFloat:    "float",
		interp.BuiltinComplex:  "complex",
		interp.BuiltinStr:      "str",
		interp.BuiltinBytes:    "bytes",
		interp.BuiltinEllipsis: "ellipsis",
		interp.BuiltinNone:     "NoneType",
		interp.BuiltinList:     "list",
		interp.BuiltinTuple:    "tuple",
		interp.BuiltinDict:     "dict",
	}
	for b, name := range names {
		if name == "" || ip.prims[b] != nil {
			continue
		}
		ip.prims[interp.Builtin(b)] = newType(name, obj)
	}

	str := ip.prims[interp.BuiltinStr]
	newMethod(str, "upper", str)
	newMethod(str, "lower", str)
	newMethod(str, "strip", str)
	newMethod(str, "split", ip.prims[interp.BuiltinList])
	newMethod(ip.prims[interp.BuiltinList], "append", ip.prims[interp.BuiltinNone])
	newMethod(ip.prims[interp.BuiltinList], "pop", obj)
	newMethod(ip.prims[interp.BuiltinDict], "keys", ip.prims[interp.BuiltinList])
	flt := ip.prims[interp.BuiltinFloat]
	flt.set("real", &Property{object: object{name: "real"}, get: newConstant("real", flt, nil)})

	bi := newModule("builtins")
	for b := interp.Builtin(0); int(b) < interp.NumBuiltins; b++ {
		if t := ip.prims[b]; t != nil && t.name != "NoneType" && t.name != "ellipsis" {
			bi.set(t.name, t)
		}
	}
	bi.set("None", newConstant("None", ip.prims[interp.BuiltinNone], nil))
	bi.set("True", newConstant("True", ip.prims[interp.BuiltinBool], true))
	bi.set("False", newConstant("False", ip.prims[interp.BuiltinBool], false))
	bi.set("Ellipsis", newConstant("Ellipsis", ip.prims[interp.BuiltinEllipsis], nil))
	bi.set("len", newFunction("len", ip.prims[interp.BuiltinInt]))
	bi.set("repr", newFunction("repr", str))
	bi.set("isinstance", newFunction("isinstance", ip.prims[interp.BuiltinBool]))
	bi.set("getattr", newFunction("getattr"))
	bi.set("iter", newFunction("iter"))
	bi.set("super", newFunction("super"))
	bi.set("print", newFunction("print", ip.prims[interp.BuiltinNone]))
	ip.modules["builtins"] = bi

	sys := newModule("sys")
	sys.set("version", newConstant("version", str, "3.11.0 (scry)"))
	sys.set("platform", newConstant("platform", str, "scry"))
	sys.set("maxsize", newConstant("maxsize", ip.prims[interp.BuiltinInt], int64(1<<62)))
	sys.set("path", &Container{
		object: object{name: "path"},
		typ:    ip.prims[interp.BuiltinList],
		index:  []interp.Type{str},
	})
	ip.modules["sys"] = sys

	cp := newModule("copy")
	cp.set("copy", newFunction("copy"))
	cp.set("deepcopy", newFunction("deepcopy"))
	ip.modules["copy"] = cp

	return ip
}

func (ip *Interp) ModuleNames() []string {
	names := make([]string, 0, len(ip.modules))
	for name := range ip.modules {
		names = append(names, name)
	}
	return names
}

func (ip *Interp) ImportModule(name string) (interp.Module, bool) {
	m, ok := ip.modules[name]
	if !ok {
		return nil, false
	}
	return m, true
}

func (ip *Interp) NewModuleContext(name string) interface{} { return nil }

func (ip *Interp) BuiltinType(b interp.Builtin) interp.Type {
	if b < 0 || int(b) >= interp.NumBuiltins || ip.prims[b] == nil {
		return nil
	}
	return ip.prims[b]
}

func (ip *Interp) TypeOf(o interp.Object) (interp.Type, bool) {
	if c, ok := o.(interp.Constant); ok {
		return c.TypeOf(), true
	}
	return nil, false
}

func (ip *Interp) Specialize(base interp.Type, index []interp.Type) interp.Type {
	return base
}
