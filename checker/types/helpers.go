package types

import (
	"strings"

	set "github.com/hashicorp/go-set/v3"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qualerr"
	"github.com/qualia-framework/qualia/util"
)

// SameTypeVarDeclaration reports whether two variable uses stem from the
// same declaration.
func SameTypeVarDeclaration(a, b *TypeVar) bool {
	return a != nil && b != nil && a.Param == b.Param
}

// SuperTypeClosure enumerates every augmented supertype of t breadth first,
// arguments substituted along the way, each declaration visited once.
func (ctx *Context) SuperTypeClosure(t *Declared) []*Declared {
	seen := set.New[*host.ClassDecl](8)
	seen.Insert(t.Decl())
	var out []*Declared
	work := []*Declared{t}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		for _, sup := range ctx.directSupertypes(cur) {
			if !seen.Insert(sup.Decl()) {
				continue
			}
			out = append(out, sup)
			work = append(work, sup)
		}
	}
	return out
}

// OverriddenMethods pairs each method that method overrides with the
// supertype declaring it, the supertype seen from origin's declaration
// type.
func (ctx *Context) OverriddenMethods(origin *host.ClassDecl, method *host.Member) []util.Pair[*Declared, *host.Member] {
	declType := ctx.factory.DeclarationType(origin)
	var out []util.Pair[*Declared, *host.Member]
	for _, sup := range ctx.SuperTypeClosure(declType) {
		for _, cand := range sup.Decl().Members {
			if cand.Owner == sup.Decl() && ctx.world.Overrides(method, cand, origin) {
				out = append(out, util.NewPair(sup, cand))
			}
		}
	}
	return out
}

// CorrespondingTypeVars reports whether two variable uses refer to the same
// logical parameter: the same declaration, or same-index parameters of an
// override pair.
func (ctx *Context) CorrespondingTypeVars(a, b *TypeVar) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Param == b.Param {
		return true
	}
	if a.Param.Index != b.Param.Index {
		return false
	}
	ma, oka := ctx.memberOfParamOwner(a.Param.Owner)
	mb, okb := ctx.memberOfParamOwner(b.Param.Owner)
	if !oka || !okb {
		return false
	}
	return ctx.world.Overrides(ma, mb, ma.Owner) || ctx.world.Overrides(mb, ma, mb.Owner)
}

func (ctx *Context) memberOfParamOwner(owner string) (*host.Member, bool) {
	cls, mem, ok := strings.Cut(owner, ".")
	if !ok {
		return nil, false
	}
	d := ctx.world.Class(cls)
	if d == nil {
		return nil, false
	}
	m := d.Member(mem)
	return m, m != nil
}

// CallSite describes one invocation for type-argument resolution.
type CallSite struct {
	// TypeArgs are explicit type arguments; empty means infer.
	TypeArgs []Type
	Args     []Type
}

// Inference solves method type arguments when a call spells none. The
// engine does not ship a solver; drivers plug one in.
type Inference interface {
	Infer(ctx *Context, call CallSite, member *host.Member, preType *Executable) (map[string]Type, error)
}

// FindTypeArguments resolves a call's method type arguments, keyed by
// TypeParam.ID: explicit arguments pair positionally with the declared
// parameters, otherwise inference runs, and whatever stays unsolved
// becomes an uninferred wildcard so viewing can proceed.
func (ctx *Context) FindTypeArguments(call CallSite, member *host.Member, preType *Executable, inf Inference) map[string]Type {
	out := make(map[string]Type, len(member.TypeParams))
	if len(member.TypeParams) == 0 {
		return out
	}
	if len(call.TypeArgs) > 0 {
		if len(call.TypeArgs) != len(member.TypeParams) {
			ctx.addFailure(qualerr.CardinalityViolation,
				"%d explicit type arguments for %d parameters of %s", len(call.TypeArgs), len(member.TypeParams), member)
			return out
		}
		for i, tp := range member.TypeParams {
			out[tp.ID()] = call.TypeArgs[i]
		}
		return out
	}
	if inf != nil {
		solved, err := inf.Infer(ctx, call, member, preType)
		if err != nil {
			ctx.addFailure(qualerr.Internal, "inference for %s: %v", member, err)
		}
		for id, t := range solved {
			out[id] = t
		}
	}
	for i, tp := range member.TypeParams {
		if _, ok := out[tp.ID()]; ok {
			continue
		}
		var tv *TypeVar
		if i < len(preType.TypeParams) {
			tv = preType.TypeParams[i]
		} else {
			tv = ctx.FromHost(tp.Use()).(*TypeVar)
		}
		out[tp.ID()] = ctx.factory.UninferredWildcard(tv)
	}
	return out
}

// HasExplicitExtendsBound reports whether the wildcard was written with an
// extends bound, as opposed to the implicit Object.
func HasExplicitExtendsBound(w *Wildcard) bool {
	hw, ok := w.Underlying().(*host.WildcardType)
	return ok && hw.Extends != nil
}

func HasExplicitSuperBound(w *Wildcard) bool {
	hw, ok := w.Underlying().(*host.WildcardType)
	return ok && hw.Super != nil
}

func IsUnboundedWildcard(w *Wildcard) bool {
	hw, ok := w.Underlying().(*host.WildcardType)
	return ok && hw.Extends == nil && hw.Super == nil
}
