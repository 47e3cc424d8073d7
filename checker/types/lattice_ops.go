package types

import (
	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
	"github.com/qualia-framework/qualia/checker/qualerr"
)

// LeastUpperBound combines two augmented types onto the join of their
// underlying types: both operands are projected onto the join's shape and
// their qualifiers folded pairwise, top-down.
func (ctx *Context) LeastUpperBound(a, b Type) Type {
	if a == nil || b == nil {
		ctx.addFailure(qualerr.Internal, "LeastUpperBound on nil operand")
		return nil
	}
	return ctx.LeastUpperBoundShaped(a, b, ctx.world.LeastUpperBound(a.Underlying(), b.Underlying()))
}

// LeastUpperBoundShaped is LeastUpperBound onto a caller-chosen underlying
// join, for drivers that already computed it.
func (ctx *Context) LeastUpperBoundShaped(a, b Type, under host.Type) Type {
	if under == nil {
		ctx.addFailure(qualerr.Internal, "LeastUpperBound of %s and %s has no underlying join", a, b)
		return nil
	}
	shape := ctx.FromHost(under)
	v := &lubVisitor{ctx: ctx, visited: make(map[Type]struct{})}
	v.combine(shape, a, b)
	return shape
}

type lubVisitor struct {
	ctx     *Context
	visited map[Type]struct{}
}

func (v *lubVisitor) combine(shape, a, b Type) {
	if _, isNull := a.(*Null); isNull {
		v.fillFrom(shape, b)
		v.lubPrimaries(shape, a, b)
		return
	}
	if _, isNull := b.(*Null); isNull {
		v.fillFrom(shape, a)
		v.lubPrimaries(shape, a, b)
		return
	}
	pa := v.ctx.AsSuperShaped(a, shape)
	pb := v.ctx.AsSuperShaped(b, shape)
	if pa == nil || pb == nil {
		return
	}
	v.merge(shape, pa, pb)
}

// fillFrom handles a null operand: the join's structure comes entirely from
// the other operand.
func (v *lubVisitor) fillFrom(shape, src Type) {
	p := v.ctx.AsSuperShaped(src, shape)
	if p != nil {
		v.merge(shape, p, p)
	}
}

func (v *lubVisitor) merge(shape, x, y Type) {
	if shape == nil || x == nil || y == nil {
		return
	}
	if _, dup := v.visited[shape]; dup {
		return
	}
	v.visited[shape] = struct{}{}
	v.lubPrimaries(shape, x, y)
	switch s := shape.(type) {
	case *Declared:
		xD, okX := x.(*Declared)
		yD, okY := y.(*Declared)
		if okX && okY && len(s.Args) == len(xD.Args) && len(s.Args) == len(yD.Args) {
			for i := range s.Args {
				v.merge(s.Args[i], xD.Args[i], yD.Args[i])
			}
		}
	case *Array:
		xA, okX := x.(*Array)
		yA, okY := y.(*Array)
		if okX && okY {
			v.merge(s.Component, xA.Component, yA.Component)
		}
	case *TypeVar:
		xT, okX := x.(*TypeVar)
		yT, okY := y.(*TypeVar)
		if okX && okY {
			v.merge(s.Upper, xT.Upper, yT.Upper)
			v.merge(s.Lower, xT.Lower, yT.Lower)
		}
	case *Wildcard:
		xW, okX := x.(*Wildcard)
		yW, okY := y.(*Wildcard)
		if okX && okY {
			v.merge(s.Extends, xW.Extends, yW.Extends)
			if s.Super != nil && xW.Super != nil && yW.Super != nil {
				v.merge(s.Super, xW.Super, yW.Super)
			}
		}
	case *Intersection:
		xI, okX := x.(*Intersection)
		yI, okY := y.(*Intersection)
		if okX && okY && len(s.Bounds) == len(xI.Bounds) && len(s.Bounds) == len(yI.Bounds) {
			for i := range s.Bounds {
				v.merge(s.Bounds[i], xI.Bounds[i], yI.Bounds[i])
			}
		}
	case *Union:
		xU, okX := x.(*Union)
		yU, okY := y.(*Union)
		if okX && okY && len(s.Alts) == len(xU.Alts) && len(s.Alts) == len(yU.Alts) {
			for i := range s.Alts {
				v.merge(s.Alts[i], xU.Alts[i], yU.Alts[i])
			}
		}
	}
}

func (v *lubVisitor) lubPrimaries(shape, x, y Type) {
	for _, top := range v.ctx.hier.Tops() {
		qx, okX := v.ctx.EffectiveQualIn(x, top, true)
		qy, okY := v.ctx.EffectiveQualIn(y, top, true)
		switch {
		case okX && okY:
			shape.SetQual(v.ctx.hier.Lub(qx, qy))
		case okX:
			shape.SetQual(qx)
		case okY:
			shape.SetQual(qy)
		}
	}
}

// GreatestLowerBound combines two augmented types onto the meet of their
// underlying types. When one underlying is below the other the meet keeps
// the subtype's shape; unrelated operands meet in an intersection whose
// bounds are the operands themselves and whose primaries are the
// per-hierarchy meet of the operands' effective lower-bound qualifiers.
func (ctx *Context) GreatestLowerBound(a, b Type) Type {
	if a == nil || b == nil {
		ctx.addFailure(qualerr.Internal, "GreatestLowerBound on nil operand")
		return nil
	}
	w := ctx.world
	au, bu := a.Underlying(), b.Underlying()
	// the full relation: invariant generics make List[A] and Collection[B]
	// unrelated even when their erasures are not
	if w.IsSubtype(au, bu) {
		return ctx.glbSubtype(a, b)
	}
	if w.IsSubtype(bu, au) {
		return ctx.glbSubtype(b, a)
	}
	under := w.GreatestLowerBound(au, bu)
	if w.IsSameType(under, au) {
		return ctx.glbSubtype(a, b)
	}
	if w.IsSameType(under, bu) {
		return ctx.glbSubtype(b, a)
	}
	inter, ok := under.(*host.IntersectionType)
	if !ok {
		ctx.addFailure(qualerr.ShapeViolation,
			"underlying meet of %s and %s is %s, not an intersection", a, b, under)
		return nil
	}
	aLow := ctx.EffectiveLowerBoundQuals(a)
	bLow := ctx.EffectiveLowerBoundQuals(b)
	res := &Intersection{typeBase: newBase(inter)}
	for _, top := range ctx.hier.Tops() {
		qa, okA := qual.FindInHierarchy(aLow, top)
		qb, okB := qual.FindInHierarchy(bLow, top)
		switch {
		case okA && okB:
			res.SetQual(ctx.hier.Glb(qa, qb))
		case okA:
			res.SetQual(qa)
		case okB:
			res.SetQual(qb)
		}
	}
	for _, bound := range inter.Bounds {
		res.Bounds = append(res.Bounds, ctx.glbPickBound(bound, a, b))
	}
	return res
}

// glbPickBound matches one underlying intersection bound back to the
// operand (or operand bound) it came from.
func (ctx *Context) glbPickBound(bound host.Type, a, b Type) Type {
	for _, op := range []Type{a, b} {
		if u := op.Underlying(); u != nil && ctx.world.IsSameType(u, bound) {
			return Copy(op)
		}
		opI, ok := op.(*Intersection)
		if !ok {
			continue
		}
		for _, ob := range opI.Bounds {
			if u := ob.Underlying(); u != nil && ctx.world.IsSameType(u, bound) {
				return Copy(ob)
			}
		}
	}
	// erasure adjustments can synthesize a bound neither operand spelled
	ctx.logger.Warn("intersection bound matches neither GLB operand",
		"bound", bound.String(), "a", a.String(), "b", b.String())
	return ctx.FromHost(bound)
}

// glbSubtype computes the meet when sub's erasure is below super's: the
// shape is sub's, the primaries the per-hierarchy meet. A variable without
// a primary falls back to its bounds: if the supertype's qualifier is not
// above the variable's whole range it caps the result.
func (ctx *Context) glbSubtype(sub, super Type) Type {
	glb := Copy(sub)
	glb.ClearQuals()
	_, subIsVar := sub.(*TypeVar)
	_, superIsVar := super.(*TypeVar)
	for _, top := range ctx.hier.Tops() {
		subQ, subOk := sub.QualIn(top)
		superQ, superOk := super.QualIn(top)
		switch {
		case subOk && superOk:
			glb.SetQual(ctx.hier.Glb(subQ, superQ))
		case !subOk && !superOk:
			if !subIsVar || !superIsVar {
				ctx.addFailure(qualerr.MissingQualifier,
					"GLB: no qualifier in %q on either %s or %s", top.Hierarchy, sub, super)
			}
			// both are variables; their bounds carry the hierarchy
		case !subOk:
			if !subIsVar {
				ctx.addFailure(qualerr.MissingQualifier,
					"GLB: no qualifier in %q on non-variable %s", top.Hierarchy, sub)
				continue
			}
			low := ctx.EffectiveLowerBoundQuals(sub)
			if lq, ok := qual.FindInHierarchy(low, top); !ok || !ctx.hier.IsSubtype(lq, superQ) {
				glb.SetQual(superQ)
			}
		default:
			ctx.addFailure(qualerr.MissingQualifier,
				"GLB: subtype %s qualified in %q but supertype %s is not", sub, top.Hierarchy, super)
		}
	}
	return glb
}
