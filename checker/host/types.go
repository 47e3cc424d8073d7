// Package host is the nominal, qualifier-free side of the type system: class
// declarations, their generic signatures, and the structural queries the
// augmented-type engine consumes (erasure, subtyping, supertype enumeration,
// underlying joins and meets). The engine queries this package and never
// re-derives any of its answers.
package host

import (
	"strings"
)

type Kind int

const (
	KindClass Kind = iota
	KindArray
	KindTypeParam
	KindWildcard
	KindPrimitive
	KindNull
	KindIntersection
	KindUnion
)

// Type is a nominal type use. Values are immutable once built.
type Type interface {
	Kind() Kind
	String() string
}

var (
	_ Type = (*ClassType)(nil)
	_ Type = (*ArrayType)(nil)
	_ Type = (*ParamType)(nil)
	_ Type = (*WildcardType)(nil)
	_ Type = (*PrimitiveType)(nil)
	_ Type = (*NullType)(nil)
	_ Type = (*IntersectionType)(nil)
	_ Type = (*UnionType)(nil)
)

// ClassType is a (possibly parameterized) use of a class declaration.
// Raw marks a generic declaration used without arguments.
type ClassType struct {
	Decl *ClassDecl
	Args []Type
	Raw  bool
}

func (t *ClassType) Kind() Kind { return KindClass }
func (t *ClassType) String() string {
	if len(t.Args) == 0 {
		return t.Decl.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Decl.Name + "[" + strings.Join(parts, ", ") + "]"
}

type ArrayType struct {
	Elem Type
}

func (t *ArrayType) Kind() Kind     { return KindArray }
func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

// ParamType is a use of a declared type parameter.
type ParamType struct {
	Param *TypeParam
}

func (t *ParamType) Kind() Kind     { return KindTypeParam }
func (t *ParamType) String() string { return t.Param.Name }

type WildcardType struct {
	// Extends is the upper bound; nil means unbounded (Object).
	Extends Type
	// Super is the lower bound; nil when absent.
	Super Type
}

func (t *WildcardType) Kind() Kind { return KindWildcard }
func (t *WildcardType) String() string {
	switch {
	case t.Super != nil:
		return "? super " + t.Super.String()
	case t.Extends != nil:
		return "? extends " + t.Extends.String()
	default:
		return "?"
	}
}

type PrimitiveType struct {
	Name string
}

func (t *PrimitiveType) Kind() Kind     { return KindPrimitive }
func (t *PrimitiveType) String() string { return t.Name }

type NullType struct{}

func (t *NullType) Kind() Kind     { return KindNull }
func (t *NullType) String() string { return "null" }

type IntersectionType struct {
	Bounds []Type
}

func (t *IntersectionType) Kind() Kind { return KindIntersection }
func (t *IntersectionType) String() string {
	parts := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		parts[i] = b.String()
	}
	return strings.Join(parts, " & ")
}

type UnionType struct {
	Alts []Type
}

func (t *UnionType) Kind() Kind { return KindUnion }
func (t *UnionType) String() string {
	parts := make([]string, len(t.Alts))
	for i, a := range t.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// TypeParam is the declaration of a type parameter. Identity is the
// declaration itself; ID gives a stable unique key for substitution maps.
type TypeParam struct {
	// Owner is the qualified name of the declaring class or member,
	// e.g. "List" or "List.map".
	Owner string
	Name  string
	Index int
	// Bound is the declared upper bound; defaults to Object.
	Bound Type
}

func (p *TypeParam) ID() string { return p.Owner + "#" + p.Name }

func (p *TypeParam) Use() *ParamType { return &ParamType{Param: p} }

type MemberKind int

const (
	Field MemberKind = iota
	Method
	Constructor
	// PackageMember, Initializer, TypeParamMember and OtherMember exist so
	// member-viewing can recognise non-substitutable elements.
	PackageMember
	Initializer
	TypeParamMember
	OtherMember
)

// Member is a field, method or constructor declaration.
type Member struct {
	Kind       MemberKind
	Name       string
	Owner      *ClassDecl
	Static     bool
	Variadic   bool
	TypeParams []*TypeParam
	// Params are the declared formal parameter types; nil for fields.
	Params []Type
	// Result is the field type or method return type.
	Result Type
}

func (m *Member) String() string {
	if m.Owner != nil {
		return m.Owner.Name + "." + m.Name
	}
	return m.Name
}

// ClassDecl is a class or interface declaration.
type ClassDecl struct {
	Name   string
	Params []*TypeParam
	// Supers are the declared direct supertypes, possibly referencing
	// Params. Object is implicit for every other class.
	Supers []*ClassType
	// Outer is the lexically enclosing declaration, nil for top level.
	Outer   *ClassDecl
	Static  bool
	Members []*Member
}

// Use returns the declaration's own type: C[X, Y] for class C[X, Y].
func (d *ClassDecl) Use() *ClassType {
	if len(d.Params) == 0 {
		return &ClassType{Decl: d}
	}
	args := make([]Type, len(d.Params))
	for i, p := range d.Params {
		args[i] = p.Use()
	}
	return &ClassType{Decl: d, Args: args}
}

// RawUse returns the argument-less use of a generic declaration.
func (d *ClassDecl) RawUse() *ClassType {
	return &ClassType{Decl: d, Raw: len(d.Params) > 0}
}

func (d *ClassDecl) ParamNamed(name string) *TypeParam {
	for _, p := range d.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (d *ClassDecl) Member(name string) *Member {
	for _, m := range d.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}
