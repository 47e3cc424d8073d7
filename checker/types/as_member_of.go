package types

import (
	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qualerr"
)

// AsMemberOf views a member's declared type from a receiver: the type
// parameters of the member's owner (and of every enclosing generic
// declaration a non-static member can see) are replaced by the arguments
// the receiver actually carries. memberType is the declared type from
// Factory.TypeFor and is never mutated.
//
// Members that cannot mention type parameters pass through unchanged:
// static members, and the non-substitutable kinds (packages, initializers,
// type parameters themselves).
func (ctx *Context) AsMemberOf(receiver Type, member *host.Member, memberType Type) Type {
	switch member.Kind {
	case host.PackageMember, host.Initializer, host.TypeParamMember, host.OtherMember:
		return memberType
	}
	if receiver == nil || member.Static {
		return Copy(memberType)
	}
	res := ctx.viewMember(receiver, member, memberType)
	ctx.factory.PostAsMemberOf(res, receiver, member)
	return res
}

// viewMember dispatches on the receiver's kind. Variables and wildcards
// defer to their upper bound, capture-converted first; intersections and
// unions to the first operand that can see the member.
func (ctx *Context) viewMember(receiver Type, member *host.Member, memberType Type) Type {
	switch r := receiver.(type) {
	case *TypeVar:
		return ctx.viewMember(ctx.factory.ApplyCaptureConversion(Copy(r.Upper)), member, memberType)
	case *Wildcard:
		// An uninferred call-site wildcard has no bound worth recursing
		// into: every enclosing type parameter gets a placeholder instead.
		if r.Uninferred {
			return ctx.substituteUninferred(member, memberType)
		}
		return ctx.viewMember(ctx.factory.ApplyCaptureConversion(Copy(r.Extends)), member, memberType)
	case *Intersection:
		for _, b := range r.Bounds {
			if u := b.Underlying(); u != nil && ctx.world.IsSubtypeErased(u, member.Owner.RawUse()) {
				return ctx.viewMember(b, member, memberType)
			}
		}
		return Copy(memberType)
	case *Union:
		for _, alt := range r.Alts {
			if u := alt.Underlying(); u != nil && ctx.world.IsSubtypeErased(u, member.Owner.RawUse()) {
				return ctx.viewMember(alt, member, memberType)
			}
		}
		return Copy(memberType)
	case *Array:
		// clone() is the one array member whose signature depends on the
		// receiver: it returns the receiver's own array type.
		if member.Kind == host.Method && member.Name == "clone" {
			if ex, ok := memberType.(*Executable); ok {
				out := Copy(ex).(*Executable)
				out.Result = Copy(receiver)
				return out
			}
		}
		return Copy(memberType)
	case *Declared:
		return ctx.viewMemberOfDeclared(r, member, memberType)
	default:
		ctx.addFailure(qualerr.ShapeViolation,
			"cannot view %s.%s through receiver %s", member.Owner.Name, member.Name, receiver)
		return Copy(memberType)
	}
}

// substituteUninferred maps every type parameter the member can see to an
// uninferred placeholder from the factory.
func (ctx *Context) substituteUninferred(member *host.Member, memberType Type) Type {
	sub := NewSubstitution()
	for encl := member.Owner; encl != nil; {
		for _, p := range encl.Params {
			tv := ctx.FromHost(p.Use()).(*TypeVar)
			sub = sub.With(p, ctx.factory.UninferredWildcard(tv))
		}
		if encl.Static {
			break
		}
		encl = encl.Outer
	}
	if sub.Len() == 0 {
		return Copy(memberType)
	}
	return ctx.Substitute(sub, memberType)
}

func (ctx *Context) viewMemberOfDeclared(receiver *Declared, member *host.Member, memberType Type) Type {
	sub := NewSubstitution()
	for encl := member.Owner; encl != nil; {
		if len(encl.Params) > 0 {
			if base := ctx.asOuterSuper(receiver, encl); base != nil {
				sub = ctx.addTypeVarMappings(sub, base, encl)
			}
		}
		if encl.Static {
			break
		}
		encl = encl.Outer
	}
	if sub.Len() == 0 {
		return Copy(memberType)
	}
	return ctx.Substitute(sub, memberType)
}

// addTypeVarMappings records one enclosing level's parameters. A raw base
// maps each parameter to its erased upper bound; a non-raw base whose
// resolved arguments disagree with the declaration's arity is an internal
// inconsistency.
func (ctx *Context) addTypeVarMappings(sub Substitution, base *Declared, decl *host.ClassDecl) Substitution {
	if base.WasRaw && len(base.Args) == 0 {
		for _, p := range decl.Params {
			bound := p.Bound
			if bound == nil {
				bound = ctx.world.Object().Use()
			}
			sub = sub.With(p, ctx.FromHost(ctx.world.Erasure(bound)))
		}
		return sub
	}
	if len(base.Args) != len(decl.Params) {
		ctx.addFailure(qualerr.CardinalityViolation,
			"%s resolved %d arguments for the %d parameters of %s",
			base, len(base.Args), len(decl.Params), decl.Name)
		return sub
	}
	for i, p := range decl.Params {
		sub = sub.With(p, base.Args[i])
	}
	return sub
}

// asOuterSuper projects the receiver, or the innermost of its enclosing
// types that reaches decl, onto decl. nil when no level reaches it.
func (ctx *Context) asOuterSuper(receiver *Declared, decl *host.ClassDecl) *Declared {
	for cur := receiver; cur != nil; cur = cur.Enclosing {
		if !ctx.world.DeclReachable(cur.Decl(), decl) {
			continue
		}
		shape := ctx.factory.DeclarationType(decl)
		res := ctx.AsSuperShaped(Copy(cur), shape)
		if d, ok := res.(*Declared); ok {
			return d
		}
		return nil
	}
	return nil
}
