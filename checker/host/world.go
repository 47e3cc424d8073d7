package host

import (
	"fmt"
)

// World is a registry of class declarations plus the built-in seed types
// every world shares: Object, Enum[E], String, and the boxed primitives.
type World struct {
	classes map[string]*ClassDecl
	object  *ClassDecl
	enum    *ClassDecl
	boxes   map[string]*ClassDecl
}

func NewWorld() *World {
	w := &World{
		classes: make(map[string]*ClassDecl),
		boxes:   make(map[string]*ClassDecl),
	}
	w.object = w.NewClass("Object")

	// Enum[E extends Enum[E]]: the self-recursive bound matters to the
	// projection engine, so it is seeded here rather than left to callers.
	w.enum = w.NewClass("Enum", "E")
	e := w.enum.ParamNamed("E")
	e.Bound = &ClassType{Decl: w.enum, Args: []Type{e.Use()}}

	w.NewClass("String")
	number := w.NewClass("Number")
	for prim, boxed := range boxedNames {
		decl := w.NewClass(boxed)
		if prim != "boolean" && prim != "char" {
			decl.Supers = []*ClassType{number.Use()}
		}
		w.boxes[prim] = decl
	}
	return w
}

var boxedNames = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"char":    "Character",
	"double":  "Double",
	"float":   "Float",
	"int":     "Integer",
	"long":    "Long",
	"short":   "Short",
}

// NewClass registers a class declaration. Type parameters are bounded by
// Object until the caller tightens them.
func (w *World) NewClass(name string, paramNames ...string) *ClassDecl {
	if _, exists := w.classes[name]; exists {
		panic(fmt.Sprintf("host: class %q declared twice", name))
	}
	d := &ClassDecl{Name: name}
	for i, pn := range paramNames {
		d.Params = append(d.Params, &TypeParam{
			Owner: name,
			Name:  pn,
			Index: i,
			Bound: w.objectBound(),
		})
	}
	w.classes[name] = d
	return d
}

func (w *World) objectBound() Type {
	if w.object == nil {
		return nil // only during the Object seed itself
	}
	return w.object.Use()
}

func (w *World) Class(name string) *ClassDecl {
	return w.classes[name]
}

func (w *World) Object() *ClassDecl { return w.object }
func (w *World) Enum() *ClassDecl   { return w.enum }

// ClassType builds a use of a registered class. Raw when a generic class is
// given no arguments.
func (w *World) ClassType(name string, args ...Type) *ClassType {
	d := w.classes[name]
	if d == nil {
		panic(fmt.Sprintf("host: unknown class %q", name))
	}
	if len(args) == 0 {
		return d.RawUse()
	}
	if len(args) != len(d.Params) {
		panic(fmt.Sprintf("host: %s expects %d arguments, got %d", name, len(d.Params), len(args)))
	}
	return &ClassType{Decl: d, Args: args}
}

// Boxed returns the class standing in for a primitive in reference
// position, or nil for an unknown primitive name.
func (w *World) Boxed(p *PrimitiveType) *ClassType {
	d := w.boxes[p.Name]
	if d == nil {
		return nil
	}
	return d.Use()
}

// IsEnumDecl reports whether decl is the seeded Enum declaration itself.
func (w *World) IsEnumDecl(decl *ClassDecl) bool {
	return decl == w.enum
}
