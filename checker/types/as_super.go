package types

import (
	"log/slog"
	"slices"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qualerr"
	"github.com/qualia-framework/qualia/util"
)

// AsSuper copies t onto the shape of superShape: the result has superShape's
// nominal structure with t's qualifiers transported along the supertype
// path. t's erasure must reach superShape's; a shape mismatch records a
// ShapeViolation and returns nil. Neither argument is mutated.
//
// Relaxations over strict supertype shapes: a type-variable or wildcard
// shape accepts anything below its upper bound, and a type-variable or
// wildcard subject projects through its upper bound.
func (ctx *Context) AsSuper(t, superShape Type) Type {
	if t == nil || superShape == nil {
		ctx.addFailure(qualerr.Internal, "AsSuper on nil operand (type=%v, shape=%v)", t, superShape)
		return nil
	}
	v := &superVisitor{ctx: ctx, logger: ctx.logger.With("op", "asSuper")}
	v.logger.Debug("projecting", "type", t.String(), "shape", superShape.String())
	return v.visit(t, superShape)
}

// AsSuperShaped is AsSuper plus the two fix-ups a caller projecting onto a
// factory-materialized shape wants: null subjects adopt the shape directly,
// raw projections out of a parameterized subject get their arguments
// reconstructed, and projections onto the Enum declaration get the
// self-recursive argument's qualifiers pushed to its bound.
func (ctx *Context) AsSuperShaped(t, shape Type) Type {
	if t == nil || shape == nil {
		ctx.addFailure(qualerr.Internal, "AsSuperShaped on nil operand (type=%v, shape=%v)", t, shape)
		return nil
	}
	if _, isNull := t.(*Null); isNull {
		res := Copy(shape)
		res.SetQuals(t.Quals())
		return res
	}
	res := ctx.AsSuper(t, shape)
	if res == nil {
		return nil
	}
	ctx.fixUpRawResult(t, res, shape)
	if resD, ok := res.(*Declared); ok && ctx.world.IsEnumDecl(resD.Decl()) {
		if shapeD, ok := shape.(*Declared); ok && ctx.world.IsEnumDecl(shapeD.Decl()) && isDeclarationUse(shapeD) {
			return ctx.fixEnumProjection(resD, shapeD)
		}
	}
	return res
}

// isDeclarationUse recognises C[X, Y]: the declaration's own type, all
// arguments still type variables.
func isDeclarationUse(d *Declared) bool {
	if len(d.Args) == 0 {
		return false
	}
	for _, a := range d.Args {
		if _, ok := a.(*TypeVar); !ok {
			return false
		}
	}
	return true
}

// fixEnumProjection handles MyEnum projected onto the Enum declaration.
// Enum[E extends Enum[E]] recurses through its own argument, so the
// projected argument (MyEnum again) must not replace the declaration's
// variable; its qualifiers move onto the variable's bound instead.
func (ctx *Context) fixEnumProjection(res *Declared, shape *Declared) Type {
	if len(res.Args) == 0 {
		return res
	}
	fixed := Copy(shape).(*Declared)
	fixed.ClearQuals()
	fixed.SetQuals(res.Quals())
	srcArg := res.Args[0]
	dstArg := fixed.Args[0]
	dstArg.ClearQuals()
	if tv, ok := dstArg.(*TypeVar); ok {
		tv.Upper.SetQuals(srcArg.Quals())
	} else {
		dstArg.SetQuals(ctx.EffectiveQuals(srcArg))
	}
	return fixed
}

// fixUpRawResult repairs a raw projection of a parameterized subject: the
// supertype path went through a raw declared super, dropping arguments that
// the subject actually has. The index map reconstructs them in the
// target's order. When the mapping cannot account for the target's arity
// the result is left raw rather than half-filled.
func (ctx *Context) fixUpRawResult(original, res, shape Type) {
	resD, ok := res.(*Declared)
	if !ok {
		return
	}
	origD, ok := original.(*Declared)
	if !ok {
		return
	}
	if !resD.WasRaw || len(resD.Args) != 0 || len(origD.Args) == 0 {
		return
	}
	mapping := ctx.typeParamIndexMap(origD.Decl(), resD.Decl())
	if len(mapping) == 0 || len(mapping) != len(origD.Args) {
		return
	}
	shapeArity := 0
	if shapeD, ok := shape.(*Declared); ok {
		shapeArity = len(shapeD.Args)
	}
	if len(mapping) != shapeArity {
		resD.Args = nil
		ctx.logger.Warn("argument mapping does not cover projection arity, leaving type raw",
			"type", origD.String(), "target", resD.Decl().Name)
		return
	}
	ordered := slices.Clone(mapping)
	slices.SortFunc(ordered, func(a, b util.Pair[int, int]) int { return a.Snd - b.Snd })
	args := make([]Type, 0, len(ordered))
	for _, m := range ordered {
		args = append(args, Copy(origD.Args[m.Fst]))
	}
	resD.Args = args
}

type superVisitor struct {
	ctx    *Context
	logger *slog.Logger
}

func (v *superVisitor) visit(t, shape Type) Type {
	if _, isNull := t.(*Null); isNull {
		v.ctx.addFailure(qualerr.ShapeViolation, "cannot project null onto %s", shape)
		return nil
	}

	if tv, ok := t.(*TypeVar); ok {
		if sv, ok := shape.(*TypeVar); ok && SameTypeVarDeclaration(tv, sv) {
			return Copy(t)
		}
	}

	switch s := shape.(type) {
	case *TypeVar:
		// t need only be below the variable's upper bound; the result
		// keeps the variable's shape with t's primaries.
		res := Copy(s).(*TypeVar)
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	case *Wildcard:
		return v.ontoWildcard(t, s)
	}

	switch t := t.(type) {
	case *TypeVar:
		res := v.visit(t.Upper, shape)
		if res == nil {
			return nil
		}
		res.SetQuals(t.Quals())
		return res
	case *Wildcard:
		res := v.visit(t.Extends, shape)
		if res == nil {
			return nil
		}
		res.SetQuals(t.Quals())
		return res
	case *Union:
		return v.unionOnto(t, shape)
	case *Intersection:
		return v.intersectionOnto(t, shape)
	case *Primitive:
		return v.primitiveOnto(t, shape)
	case *Array:
		return v.arrayOnto(t, shape)
	case *Declared:
		return v.declaredOnto(t, shape)
	default:
		v.ctx.addFailure(qualerr.ShapeViolation, "cannot project %s onto %s", t, shape)
		return nil
	}
}

func (v *superVisitor) ontoWildcard(t Type, shape *Wildcard) Type {
	res := Copy(shape).(*Wildcard)
	w := v.ctx.world
	if res.Super != nil {
		if tu := t.Underlying(); tu != nil && w.IsSubtypeErased(tu, res.Super.Underlying()) {
			res.Super = v.visit(t, res.Super)
		}
	} else if tu := t.Underlying(); tu != nil && w.IsSubtypeErased(tu, res.Extends.Underlying()) {
		res.Extends = v.visit(t, res.Extends)
	}
	res.ClearQuals()
	res.SetQuals(t.Quals())
	return res
}

func (v *superVisitor) unionOnto(t *Union, shape Type) Type {
	if su, ok := shape.(*Union); ok && len(su.Alts) == len(t.Alts) {
		res := Copy(su).(*Union)
		for i, alt := range t.Alts {
			if v.ctx.world.IsSubtypeErased(alt.Underlying(), res.Alts[i].Underlying()) {
				res.Alts[i] = v.visit(alt, res.Alts[i])
			}
		}
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	}
	var res Type
	for _, alt := range t.Alts {
		if v.ctx.world.IsSubtypeErased(alt.Underlying(), shape.Underlying()) {
			res = v.visit(alt, shape)
			break
		}
	}
	if res == nil {
		v.ctx.addFailure(qualerr.ShapeViolation, "no union alternative of %s reaches %s", t, shape)
		return nil
	}
	// Every alternative flows to the shape, so the shape's primaries are
	// the least upper bound across all of them.
	for _, top := range v.ctx.hier.Tops() {
		cur, have := v.ctx.EffectiveQualIn(t.Alts[0], top, true)
		if !have {
			continue
		}
		for _, alt := range t.Alts[1:] {
			q, ok := v.ctx.EffectiveQualIn(alt, top, true)
			if !ok {
				have = false
				break
			}
			cur = v.ctx.hier.Lub(cur, q)
		}
		if have {
			res.SetQual(cur)
		}
	}
	res.SetQuals(t.Quals())
	return res
}

func (v *superVisitor) intersectionOnto(t *Intersection, shape Type) Type {
	if si, ok := shape.(*Intersection); ok {
		res := Copy(si).(*Intersection)
		for i, sb := range res.Bounds {
			for _, b := range t.Bounds {
				if v.ctx.world.IsSubtypeErased(b.Underlying(), sb.Underlying()) {
					res.Bounds[i] = v.visit(b, sb)
					break
				}
			}
		}
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	}
	for _, b := range t.Bounds {
		if v.ctx.world.IsSubtypeErased(b.Underlying(), shape.Underlying()) {
			res := v.visit(b, shape)
			if res != nil {
				res.SetQuals(t.Quals())
			}
			return res
		}
	}
	v.ctx.addFailure(qualerr.ShapeViolation, "no bound of %s reaches %s", t, shape)
	return nil
}

func (v *superVisitor) primitiveOnto(t *Primitive, shape Type) Type {
	if _, ok := shape.(*Primitive); ok {
		res := Copy(shape)
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	}
	boxed := v.ctx.world.Boxed(t.Underlying().(*host.PrimitiveType))
	if boxed == nil {
		v.ctx.addFailure(qualerr.ShapeViolation, "primitive %s has no boxed form to reach %s", t, shape)
		return nil
	}
	boxedAug := v.ctx.FromHost(boxed)
	boxedAug.SetQuals(t.Quals())
	return v.visit(boxedAug, shape)
}

func (v *superVisitor) arrayOnto(t *Array, shape Type) Type {
	switch s := shape.(type) {
	case *Array:
		res := &Array{typeBase: newBase(s.Underlying())}
		if v.ctx.world.IsSubtypeErased(t.Component.Underlying(), s.Component.Underlying()) {
			res.Component = v.visit(t.Component, s.Component)
		} else {
			res.Component = Copy(t.Component)
		}
		if res.Component == nil {
			return nil
		}
		res.SetQuals(t.Quals())
		return res
	case *Declared:
		if !v.ctx.world.IsSubtypeErased(t.Underlying(), s.Underlying()) {
			v.ctx.addFailure(qualerr.ShapeViolation, "array %s does not reach %s", t, s)
			return nil
		}
		res := Copy(s)
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	default:
		v.ctx.addFailure(qualerr.ShapeViolation, "cannot project array %s onto %s", t, shape)
		return nil
	}
}

func (v *superVisitor) declaredOnto(t *Declared, shape Type) Type {
	switch s := shape.(type) {
	case *Intersection:
		res := Copy(s).(*Intersection)
		for i, sb := range res.Bounds {
			if v.ctx.world.IsSubtypeErased(t.Underlying(), sb.Underlying()) {
				res.Bounds[i] = v.visit(t, sb)
			}
		}
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	case *Union:
		res := Copy(s).(*Union)
		res.ClearQuals()
		res.SetQuals(t.Quals())
		return res
	case *Primitive:
		res := Copy(s)
		res.ClearQuals()
		res.SetQuals(v.ctx.EffectiveQuals(t))
		return res
	case *Declared:
		if t.Decl() == s.Decl() {
			return Copy(t)
		}
		for _, sup := range v.ctx.directSupertypes(t) {
			if v.ctx.world.IsSubtypeErased(sup.Underlying(), s.Underlying()) {
				return v.visit(sup, s)
			}
		}
		v.ctx.addFailure(qualerr.ShapeViolation, "%s is not below %s", t, s)
		return nil
	default:
		v.ctx.addFailure(qualerr.ShapeViolation, "cannot project %s onto %s", t, shape)
		return nil
	}
}

// directSupertypes lifts the host's direct-supertype enumeration to
// augmented types: declared supers converted with the subject's arguments
// substituted in, carrying the subject's primaries. Raw subjects get raw
// supers.
func (ctx *Context) directSupertypes(t *Declared) []*Declared {
	decl := t.Decl()
	supers := ctx.world.DeclaredSupers(decl)
	out := make([]*Declared, 0, len(supers))
	if t.WasRaw || (len(decl.Params) > 0 && len(t.Args) == 0) {
		for _, sup := range supers {
			supAug := ctx.FromHost(ctx.world.Erasure(sup)).(*Declared)
			supAug.SetQuals(t.Quals())
			out = append(out, supAug)
		}
		return out
	}
	subst := make(map[string]Type, len(decl.Params))
	for i, p := range decl.Params {
		if i < len(t.Args) {
			subst[p.ID()] = t.Args[i]
		}
	}
	for _, sup := range supers {
		supAug := ctx.fromHostSubst(sup, subst).(*Declared)
		supAug.SetQuals(t.Quals())
		out = append(out, supAug)
	}
	return out
}
