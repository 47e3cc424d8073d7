package types

import (
	"github.com/qualia-framework/qualia/checker/host"
)

// Factory is the hook surface a concrete checker plugs into the engine.
// BaseFactory gives the qualifier-free behavior; checkers wrap it to apply
// defaulting, capture conversion, or post-viewing adjustments.
type Factory interface {
	// TypeFor builds the augmented type of a member declaration: the field
	// type, or an Executable for methods and constructors.
	TypeFor(m *host.Member) Type

	// DeclarationType builds the declaration's own type, C[X, Y] for
	// class C[X, Y].
	DeclarationType(d *host.ClassDecl) *Declared

	// PostAsMemberOf runs after member viewing and may adjust result in
	// place.
	PostAsMemberOf(result Type, receiver Type, member *host.Member)

	// ApplyCaptureConversion closes wildcards before a type is used as a
	// member-viewing receiver.
	ApplyCaptureConversion(t Type) Type

	// UninferredWildcard stands in for a type argument inference never
	// solved.
	UninferredWildcard(tv *TypeVar) *Wildcard
}

type BaseFactory struct {
	World *host.World
}

var _ Factory = (*BaseFactory)(nil)

func (f *BaseFactory) TypeFor(m *host.Member) Type {
	switch m.Kind {
	case host.Method, host.Constructor:
		open := make(map[string]*TypeVar)
		ex := &Executable{Member: m}
		for _, tp := range m.TypeParams {
			ex.TypeParams = append(ex.TypeParams, fromHostWith(f.World, tp.Use(), nil, nil, open).(*TypeVar))
		}
		for _, p := range m.Params {
			ex.Params = append(ex.Params, fromHostWith(f.World, p, nil, nil, open))
		}
		if m.Result != nil {
			ex.Result = fromHostWith(f.World, m.Result, nil, nil, open)
		}
		return ex
	default:
		if m.Result == nil {
			return nil
		}
		return fromHostWith(f.World, m.Result, nil, nil, make(map[string]*TypeVar))
	}
}

func (f *BaseFactory) DeclarationType(d *host.ClassDecl) *Declared {
	return fromHostWith(f.World, d.Use(), nil, nil, make(map[string]*TypeVar)).(*Declared)
}

func (f *BaseFactory) PostAsMemberOf(Type, Type, *host.Member) {}

func (f *BaseFactory) ApplyCaptureConversion(t Type) Type { return t }

func (f *BaseFactory) UninferredWildcard(tv *TypeVar) *Wildcard {
	bound := tv.Param.Bound
	if bound == nil {
		bound = f.World.Object().Use()
	}
	out := &Wildcard{
		typeBase:   newBase(&host.WildcardType{Extends: bound}),
		Uninferred: true,
	}
	out.Extends = Copy(tv.Upper)
	return out
}

// FromHost converts a host type use into its unqualified augmented form.
func (ctx *Context) FromHost(t host.Type) Type {
	return fromHostWith(ctx.world, t, nil, nil, make(map[string]*TypeVar))
}

// fromHostSubst converts t while replacing type-parameter uses from subst,
// which maps host.TypeParam IDs to already-augmented replacements.
func (ctx *Context) fromHostSubst(t host.Type, subst map[string]Type) Type {
	hostSubst := make(map[string]host.Type, len(subst))
	for id, repl := range subst {
		if u := repl.Underlying(); u != nil {
			hostSubst[id] = u
		}
	}
	return fromHostWith(ctx.world, t, subst, hostSubst, make(map[string]*TypeVar))
}

var hostNull = &host.NullType{}

// fromHostWith does the conversion. open shares type-variable nodes within
// one conversion, which is what lets a self-recursive bound alias its own
// node instead of diverging.
func fromHostWith(w *host.World, t host.Type, subst map[string]Type, hostSubst map[string]host.Type, open map[string]*TypeVar) Type {
	switch t := t.(type) {
	case *host.ClassType:
		out := &Declared{
			typeBase: newBase(host.SubstRef(t, hostSubst)),
			WasRaw:   t.Raw,
		}
		for _, a := range t.Args {
			out.Args = append(out.Args, fromHostWith(w, a, subst, hostSubst, open))
		}
		if t.Decl.Outer != nil && !t.Decl.Static {
			out.Enclosing = fromHostWith(w, t.Decl.Outer.Use(), subst, hostSubst, open).(*Declared)
		}
		return out
	case *host.ArrayType:
		out := &Array{typeBase: newBase(host.SubstRef(t, hostSubst))}
		out.Component = fromHostWith(w, t.Elem, subst, hostSubst, open)
		return out
	case *host.ParamType:
		if repl, ok := subst[t.Param.ID()]; ok {
			return Copy(repl)
		}
		if tv, ok := open[t.Param.ID()]; ok {
			return tv
		}
		tv := &TypeVar{typeBase: newBase(t), Param: t.Param}
		open[t.Param.ID()] = tv
		bound := t.Param.Bound
		if bound == nil {
			bound = w.Object().Use()
		}
		tv.Upper = fromHostWith(w, bound, subst, hostSubst, open)
		tv.Lower = &Null{typeBase: newBase(hostNull)}
		return tv
	case *host.WildcardType:
		out := &Wildcard{typeBase: newBase(host.SubstRef(t, hostSubst))}
		extends := t.Extends
		if extends == nil {
			extends = w.Object().Use()
		}
		out.Extends = fromHostWith(w, extends, subst, hostSubst, open)
		if t.Super != nil {
			out.Super = fromHostWith(w, t.Super, subst, hostSubst, open)
		}
		return out
	case *host.PrimitiveType:
		return &Primitive{typeBase: newBase(t)}
	case *host.NullType:
		return &Null{typeBase: newBase(t)}
	case *host.IntersectionType:
		out := &Intersection{typeBase: newBase(host.SubstRef(t, hostSubst))}
		for _, b := range t.Bounds {
			out.Bounds = append(out.Bounds, fromHostWith(w, b, subst, hostSubst, open))
		}
		return out
	case *host.UnionType:
		out := &Union{typeBase: newBase(host.SubstRef(t, hostSubst))}
		for _, a := range t.Alts {
			out.Alts = append(out.Alts, fromHostWith(w, a, subst, hostSubst, open))
		}
		return out
	default:
		return nil
	}
}
