package types

import (
	"github.com/benbjohnson/immutable"

	"github.com/qualia-framework/qualia/checker/host"
)

// Substitution maps type-parameter declarations, keyed by TypeParam.ID, to
// augmented replacements. The map is persistent: With returns an extended
// substitution without touching the receiver, which is what lets member
// viewing stack one layer per enclosing generic declaration.
type Substitution struct {
	m *immutable.Map[string, Type]
}

func NewSubstitution() Substitution {
	return Substitution{m: immutable.NewMap[string, Type](nil)}
}

func (s Substitution) With(param *host.TypeParam, repl Type) Substitution {
	if s.m == nil {
		s = NewSubstitution()
	}
	return Substitution{m: s.m.Set(param.ID(), repl)}
}

func (s Substitution) Get(param *host.TypeParam) (Type, bool) {
	if s.m == nil {
		return nil, false
	}
	return s.m.Get(param.ID())
}

func (s Substitution) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Substitute rewrites every mapped type-variable use in t with a copy of
// its replacement. Primaries on the replaced use override the replacement's
// own, per hierarchy. Unmapped variables are rebuilt once per substitution
// so recursive bounds keep aliasing one node. t is not mutated.
func (ctx *Context) Substitute(s Substitution, t Type) Type {
	if t == nil {
		return nil
	}
	if s.Len() == 0 {
		return Copy(t)
	}
	hostSubst := make(map[string]host.Type, s.Len())
	itr := s.m.Iterator()
	for !itr.Done() {
		id, repl, _ := itr.Next()
		if u := repl.Underlying(); u != nil {
			hostSubst[id] = u
		}
	}
	a := &substApplier{ctx: ctx, s: s, hostSubst: hostSubst, fresh: make(map[string]*TypeVar)}
	return a.apply(t)
}

type substApplier struct {
	ctx       *Context
	s         Substitution
	hostSubst map[string]host.Type
	fresh     map[string]*TypeVar
}

func (a *substApplier) apply(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *TypeVar:
		if repl, ok := a.s.Get(t.Param); ok {
			out := Copy(repl)
			out.SetQuals(t.Quals())
			return out
		}
		if cached, ok := a.fresh[t.Param.ID()]; ok {
			return cached
		}
		out := &TypeVar{typeBase: t.copyBase(), Param: t.Param}
		a.fresh[t.Param.ID()] = out
		out.Upper = a.apply(t.Upper)
		out.Lower = a.apply(t.Lower)
		return out
	case *Executable:
		out := &Executable{typeBase: t.copyBase(), Member: t.Member}
		for _, tp := range t.TypeParams {
			// A mapped method type parameter is solved; it no longer
			// appears in the signature's parameter list.
			if _, mapped := a.s.Get(tp.Param); mapped {
				continue
			}
			out.TypeParams = append(out.TypeParams, a.apply(tp).(*TypeVar))
		}
		for _, p := range t.Params {
			out.Params = append(out.Params, a.apply(p))
		}
		if t.Result != nil {
			out.Result = a.apply(t.Result)
		}
		return out
	default:
		out := mapChildren(t, a.apply)
		if u := out.base().underlying; u != nil {
			out.base().underlying = host.SubstRef(u, a.hostSubst)
		}
		return out
	}
}
