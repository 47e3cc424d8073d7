package types

import (
	"slices"
	"strings"

	"github.com/qualia-framework/qualia/checker/qual"
	"github.com/qualia-framework/qualia/checker/qualerr"
)

// EffectiveQualIn resolves the qualifier a type contributes in one
// hierarchy: its own primary, or the first primary found walking upper
// bounds of type variables and wildcards. Intersections contribute the meet
// of their bounds. With tolerateAbsence false, a type that bottoms out with
// nothing in the hierarchy records a MissingQualifier failure.
func (ctx *Context) EffectiveQualIn(t Type, top qual.Qualifier, tolerateAbsence bool) (qual.Qualifier, bool) {
	seen := make(map[Type]struct{})
	for source := t; source != nil; {
		if _, dup := seen[source]; dup {
			break
		}
		seen[source] = struct{}{}
		if q, ok := source.QualIn(top); ok {
			return q, true
		}
		switch s := source.(type) {
		case *TypeVar:
			source = s.Upper
		case *Wildcard:
			source = s.Extends
		case *Intersection:
			return ctx.glbOfBoundQuals(s, top, tolerateAbsence)
		default:
			source = nil
		}
	}
	if !tolerateAbsence {
		ctx.addFailure(qualerr.MissingQualifier,
			"no qualifier in hierarchy %q on %s or its upper bounds", top.Hierarchy, t)
	}
	return qual.Qualifier{}, false
}

func (ctx *Context) glbOfBoundQuals(inter *Intersection, top qual.Qualifier, tolerateAbsence bool) (qual.Qualifier, bool) {
	var cur qual.Qualifier
	have := false
	for _, b := range inter.Bounds {
		q, ok := ctx.EffectiveQualIn(b, top, true)
		if !ok {
			continue
		}
		if !have {
			cur, have = q, true
		} else {
			cur = ctx.hier.Glb(cur, q)
		}
	}
	if have {
		return cur, true
	}
	if !tolerateAbsence {
		ctx.addFailure(qualerr.MissingQualifier,
			"no qualifier in hierarchy %q on any bound of %s", top.Hierarchy, inter)
	}
	return qual.Qualifier{}, false
}

// EffectiveQuals collects the effective qualifier of every hierarchy that
// resolves on t, ordered by hierarchy name.
func (ctx *Context) EffectiveQuals(t Type) []qual.Qualifier {
	var out []qual.Qualifier
	for _, top := range ctx.hier.Tops() {
		if q, ok := ctx.EffectiveQualIn(t, top, true); ok {
			out = append(out, q)
		}
	}
	return out
}

// EffectiveLowerBoundQuals walks lower bounds instead: type variables step
// to their lower bound, wildcards to their super bound. Primaries on the
// variables walked through override what the bound itself carries, outer
// use first.
func (ctx *Context) EffectiveLowerBoundQuals(t Type) []qual.Qualifier {
	overlay := make(map[string]qual.Qualifier)
	note := func(qs []qual.Qualifier) {
		for _, q := range qs {
			if _, taken := overlay[q.Hierarchy]; !taken {
				overlay[q.Hierarchy] = q
			}
		}
	}
	seen := make(map[Type]struct{})
	var base []qual.Qualifier
walk:
	for source := t; source != nil; {
		if _, dup := seen[source]; dup {
			break
		}
		seen[source] = struct{}{}
		switch s := source.(type) {
		case *TypeVar:
			note(s.Quals())
			source = s.Lower
		case *Wildcard:
			note(s.Quals())
			source = s.Super
		case *Intersection:
			note(s.Quals())
			for _, top := range ctx.hier.Tops() {
				var cur qual.Qualifier
				have := false
				for _, b := range s.Bounds {
					if q, ok := qual.FindInHierarchy(ctx.EffectiveLowerBoundQuals(b), top); ok {
						if !have {
							cur, have = q, true
						} else {
							cur = ctx.hier.Glb(cur, q)
						}
					}
				}
				if have {
					base = append(base, cur)
				}
			}
			break walk
		default:
			base = source.Quals()
			break walk
		}
	}
	merged := make(map[string]qual.Qualifier, len(base)+len(overlay))
	for _, q := range base {
		merged[q.Hierarchy] = q
	}
	for h, q := range overlay {
		merged[h] = q
	}
	out := make([]qual.Qualifier, 0, len(merged))
	for _, q := range merged {
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b qual.Qualifier) int {
		return strings.Compare(a.Hierarchy, b.Hierarchy)
	})
	return out
}

// ContainsQualifier reports whether q appears anywhere inside t, bounds
// included. Recursive bounds terminate through the visited set.
func ContainsQualifier(t Type, q qual.Qualifier) bool {
	return containsQual(t, q, make(map[Type]struct{}))
}

func containsQual(t Type, q qual.Qualifier, seen map[Type]struct{}) bool {
	if t == nil {
		return false
	}
	if _, dup := seen[t]; dup {
		return false
	}
	seen[t] = struct{}{}
	if cur, ok := t.Qual(q.Hierarchy); ok && cur == q {
		return true
	}
	for child := range children(t) {
		if containsQual(child, q, seen) {
			return true
		}
	}
	return false
}
