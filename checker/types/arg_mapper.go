package types

import (
	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/util"
)

// typeParamIndexMap relates sub's type-parameter indices to the argument
// positions they surface at in super, composed along the declared supertype
// path. Pair.Fst is the index in sub, Pair.Snd the position in super. Only
// parameters that flow through unchanged appear; a parameter consumed by a
// concrete argument (class Mine extends Base[String]) does not.
//
// The mapping depends only on the world, so results are cached in the
// unit's State.
func (ctx *Context) typeParamIndexMap(sub, super *host.ClassDecl) []util.Pair[int, int] {
	key := argMapKey{sub: sub.Name, super: super.Name}
	if cached, ok := ctx.state.argMaps.Get(key); ok {
		return cached
	}
	m := typeParamIndexMap(ctx.world, sub, super)
	ctx.state.argMaps.Add(key, m)
	return m
}

func typeParamIndexMap(w *host.World, sub, super *host.ClassDecl) []util.Pair[int, int] {
	if sub == super {
		out := make([]util.Pair[int, int], len(sub.Params))
		for i := range sub.Params {
			out[i] = util.NewPair(i, i)
		}
		return out
	}
	for _, s := range w.DeclaredSupers(sub) {
		if !w.DeclReachable(s.Decl, super) {
			continue
		}
		inner := typeParamIndexMap(w, s.Decl, super)
		var out []util.Pair[int, int]
		for _, kj := range inner {
			if kj.Fst >= len(s.Args) {
				continue
			}
			if p, ok := s.Args[kj.Fst].(*host.ParamType); ok && p.Param.Owner == sub.Name {
				out = append(out, util.NewPair(p.Param.Index, kj.Snd))
			}
		}
		return out
	}
	return nil
}
