// Package types implements the augmented-type algebra of the checker: host
// nominal types paired with one qualifier per hierarchy on every node, and
// the structural operations a pluggable checker needs over them (supertype
// projection, member viewing, lattice joins and meets, bound traversal,
// varargs expansion).
package types

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
	"github.com/qualia-framework/qualia/util"
)

// Type is an augmented type: a host nominal type plus primary qualifiers.
// The underlying host type is fixed at construction; only the qualifier map
// and kind-specific sub-structure ever change. Accessors hand out live
// sub-structure, so callers that mutate must Copy first.
type Type interface {
	fmt.Stringer

	// Underlying is the host-level nominal type; nil only for Executable.
	Underlying() host.Type

	Qual(hierarchy string) (qual.Qualifier, bool)
	QualIn(top qual.Qualifier) (qual.Qualifier, bool)
	// Quals returns the primary qualifiers, ordered by hierarchy name.
	Quals() []qual.Qualifier
	SetQual(q qual.Qualifier)
	SetQuals(qs []qual.Qualifier)
	ClearQuals()

	isAugmented()
	base() *typeBase
}

var (
	_ Type = (*Declared)(nil)
	_ Type = (*Array)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*Wildcard)(nil)
	_ Type = (*Intersection)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Null)(nil)
	_ Type = (*Primitive)(nil)
	_ Type = (*Executable)(nil)
)

// typeBase carries what every augmented node shares: the immutable host
// type and the mutable qualifier map, at most one qualifier per hierarchy.
type typeBase struct {
	underlying host.Type
	quals      map[string]qual.Qualifier
}

func newBase(u host.Type) typeBase {
	return typeBase{underlying: u}
}

func (b *typeBase) isAugmented() {}

func (b *typeBase) base() *typeBase { return b }

func (b *typeBase) Underlying() host.Type { return b.underlying }

func (b *typeBase) Qual(hierarchy string) (qual.Qualifier, bool) {
	q, ok := b.quals[hierarchy]
	return q, ok
}

func (b *typeBase) QualIn(top qual.Qualifier) (qual.Qualifier, bool) {
	return b.Qual(top.Hierarchy)
}

func (b *typeBase) Quals() []qual.Qualifier {
	if len(b.quals) == 0 {
		return nil
	}
	out := make([]qual.Qualifier, 0, len(b.quals))
	for _, q := range b.quals {
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b qual.Qualifier) int {
		return strings.Compare(a.Hierarchy, b.Hierarchy)
	})
	return out
}

// SetQual replaces whatever qualifier the node carries in q's hierarchy.
func (b *typeBase) SetQual(q qual.Qualifier) {
	if q.IsZero() {
		return
	}
	if b.quals == nil {
		b.quals = make(map[string]qual.Qualifier, 2)
	}
	b.quals[q.Hierarchy] = q
}

func (b *typeBase) SetQuals(qs []qual.Qualifier) {
	for _, q := range qs {
		b.SetQual(q)
	}
}

func (b *typeBase) ClearQuals() {
	b.quals = nil
}

func (b *typeBase) copyBase() typeBase {
	out := typeBase{underlying: b.underlying}
	if len(b.quals) > 0 {
		out.quals = make(map[string]qual.Qualifier, len(b.quals))
		for k, v := range b.quals {
			out.quals[k] = v
		}
	}
	return out
}

func (b *typeBase) qualPrefix() string {
	qs := b.Quals()
	if len(qs) == 0 {
		return ""
	}
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return strings.Join(parts, " ") + " "
}

// Declared is a use of a class or interface declaration.
type Declared struct {
	typeBase
	Args []Type
	// Enclosing is the augmented enclosing type for non-static nested
	// declarations; nil otherwise.
	Enclosing *Declared
	// WasRaw marks a use derived from an argument-less generic; the
	// raw-type fix-up after projection keys off it.
	WasRaw bool
}

func (t *Declared) Decl() *host.ClassDecl {
	return t.underlying.(*host.ClassType).Decl
}

func (t *Declared) String() string {
	s := t.qualPrefix() + t.Decl().Name
	if len(t.Args) > 0 {
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		s += "[" + strings.Join(parts, ", ") + "]"
	}
	return s
}

type Array struct {
	typeBase
	Component Type
}

func (t *Array) String() string {
	return t.qualPrefix() + t.Component.String() + "[]"
}

// TypeVar is a use of a declared type parameter. Upper and Lower are always
// non-nil (Lower defaults to an unqualified Null). Recursive bounds may
// alias this very node.
type TypeVar struct {
	typeBase
	Param *host.TypeParam
	Upper Type
	Lower Type
}

func (t *TypeVar) String() string {
	return t.qualPrefix() + t.Param.Name
}

type Wildcard struct {
	typeBase
	// Extends is the effective upper bound, never nil.
	Extends Type
	// Super is the lower bound; nil when absent.
	Super Type
	// Uninferred marks a call-site type argument that was never solved.
	Uninferred bool
}

func (t *Wildcard) String() string {
	s := t.qualPrefix() + "?"
	if t.Super != nil {
		return s + " super " + t.Super.String()
	}
	return s + " extends " + t.Extends.String()
}

type Intersection struct {
	typeBase
	Bounds []Type
}

func (t *Intersection) String() string {
	parts := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		parts[i] = b.String()
	}
	return t.qualPrefix() + strings.Join(parts, " & ")
}

type Union struct {
	typeBase
	Alts []Type
}

func (t *Union) String() string {
	parts := make([]string, len(t.Alts))
	for i, a := range t.Alts {
		parts[i] = a.String()
	}
	return t.qualPrefix() + strings.Join(parts, " | ")
}

type Null struct {
	typeBase
}

func (t *Null) String() string { return t.qualPrefix() + "null" }

// Primitive covers the host's leaf kinds: numeric primitives and whatever
// else the host treats as atomic.
type Primitive struct {
	typeBase
}

func (t *Primitive) String() string {
	return t.qualPrefix() + t.underlying.String()
}

// Executable is the augmented signature of a method or constructor. Its
// Underlying is nil; qualifiers on the node itself are not meaningful, only
// those on its component types.
type Executable struct {
	typeBase
	Member     *host.Member
	TypeParams []*TypeVar
	Params     []Type
	Result     Type
}

func (t *Executable) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	if t.Result != nil {
		s += " -> " + t.Result.String()
	}
	return s
}

// children yields the direct sub-structure of t, including type-variable
// bounds. Used by deep searches, which must bring their own cycle guard.
func children(t Type) iter.Seq[Type] {
	switch t := t.(type) {
	case *Declared:
		return slices.Values(t.Args)
	case *Array:
		return util.SingleIter(t.Component)
	case *TypeVar:
		return util.ConcatIter(util.SingleIter(t.Upper), util.SingleIter(t.Lower))
	case *Wildcard:
		if t.Super != nil {
			return util.ConcatIter(util.SingleIter(t.Extends), util.SingleIter(t.Super))
		}
		return util.SingleIter(t.Extends)
	case *Intersection:
		return slices.Values(t.Bounds)
	case *Union:
		return slices.Values(t.Alts)
	case *Executable:
		seqs := []iter.Seq[Type]{slices.Values(t.Params)}
		if t.Result != nil {
			seqs = append(seqs, util.SingleIter(t.Result))
		}
		return util.ConcatIter(seqs...)
	default:
		return func(func(Type) bool) {}
	}
}
