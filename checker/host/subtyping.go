package host

import (
	"sort"

	set "github.com/hashicorp/go-set/v3"
	xset "github.com/xtgo/set"
)

// Erasure strips generic arguments, reducing a type to its raw shape.
func (w *World) Erasure(t Type) Type {
	switch t := t.(type) {
	case *ClassType:
		return &ClassType{Decl: t.Decl, Raw: len(t.Decl.Params) > 0}
	case *ArrayType:
		return &ArrayType{Elem: w.Erasure(t.Elem)}
	case *ParamType:
		if t.Param.Bound == nil {
			return w.object.RawUse()
		}
		return w.Erasure(t.Param.Bound)
	case *WildcardType:
		if t.Extends != nil {
			return w.Erasure(t.Extends)
		}
		return w.object.RawUse()
	case *IntersectionType:
		return w.Erasure(t.Bounds[0])
	case *UnionType:
		return w.Erasure(t.Alts[0])
	default:
		return t
	}
}

func (w *World) IsSameType(a, b Type) bool {
	switch a := a.(type) {
	case *ClassType:
		b, ok := b.(*ClassType)
		if !ok || a.Decl != b.Decl || a.Raw != b.Raw || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !w.IsSameType(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && w.IsSameType(a.Elem, b.Elem)
	case *ParamType:
		b, ok := b.(*ParamType)
		return ok && a.Param == b.Param
	case *WildcardType:
		b, ok := b.(*WildcardType)
		if !ok {
			return false
		}
		return w.sameOrBothNil(a.Extends, b.Extends) && w.sameOrBothNil(a.Super, b.Super)
	case *PrimitiveType:
		b, ok := b.(*PrimitiveType)
		return ok && a.Name == b.Name
	case *NullType:
		_, ok := b.(*NullType)
		return ok
	case *IntersectionType:
		b, ok := b.(*IntersectionType)
		if !ok || len(a.Bounds) != len(b.Bounds) {
			return false
		}
		for i := range a.Bounds {
			if !w.IsSameType(a.Bounds[i], b.Bounds[i]) {
				return false
			}
		}
		return true
	case *UnionType:
		b, ok := b.(*UnionType)
		if !ok || len(a.Alts) != len(b.Alts) {
			return false
		}
		for i := range a.Alts {
			if !w.IsSameType(a.Alts[i], b.Alts[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (w *World) sameOrBothNil(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return w.IsSameType(a, b)
}

// IsSubtype implements the nominal subtype relation over fully applied
// types: invariant generics, covariant arrays, null below every reference
// type, type parameters via their bounds.
func (w *World) IsSubtype(a, b Type) bool {
	if w.IsSameType(a, b) {
		return true
	}
	switch a := a.(type) {
	case *NullType:
		_, prim := b.(*PrimitiveType)
		return !prim
	case *PrimitiveType:
		return false
	case *ParamType:
		if a.Param.Bound == nil {
			return w.isObject(b)
		}
		return w.IsSubtype(a.Param.Bound, b)
	case *IntersectionType:
		if bi, ok := b.(*IntersectionType); ok {
			for _, bound := range bi.Bounds {
				if !w.IsSubtype(a, bound) {
					return false
				}
			}
			return true
		}
		for _, bound := range a.Bounds {
			if w.IsSubtype(bound, b) {
				return true
			}
		}
		return false
	case *UnionType:
		for _, alt := range a.Alts {
			if !w.IsSubtype(alt, b) {
				return false
			}
		}
		return true
	case *ArrayType:
		if w.isObject(b) {
			return true
		}
		bArr, ok := b.(*ArrayType)
		return ok && w.IsSubtype(a.Elem, bArr.Elem)
	case *ClassType:
		if w.isObject(b) {
			return true
		}
		if bi, ok := b.(*IntersectionType); ok {
			for _, bound := range bi.Bounds {
				if !w.IsSubtype(a, bound) {
					return false
				}
			}
			return true
		}
		bClass, ok := b.(*ClassType)
		if !ok {
			return false
		}
		if a.Raw || bClass.Raw {
			return w.IsSubtypeErased(a, b)
		}
		for _, sup := range w.DirectSupertypes(a) {
			if w.IsSameType(sup, b) || w.IsSubtype(sup, b) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsSubtypeErased is the erasure-level reachability relation the projector
// uses to decide which direct supertype to recurse into.
func (w *World) IsSubtypeErased(a, b Type) bool {
	ae, be := w.Erasure(a), w.Erasure(b)
	if w.IsSameType(ae, be) {
		return true
	}
	switch ae := ae.(type) {
	case *NullType:
		_, prim := be.(*PrimitiveType)
		return !prim
	case *PrimitiveType:
		boxed := w.Boxed(ae)
		return boxed != nil && w.IsSubtypeErased(boxed, be)
	case *ArrayType:
		if w.isObject(be) {
			return true
		}
		bArr, ok := be.(*ArrayType)
		return ok && w.IsSubtypeErased(ae.Elem, bArr.Elem)
	case *ClassType:
		if w.isObject(be) {
			return true
		}
		beClass, ok := be.(*ClassType)
		if !ok {
			return false
		}
		return w.reachableDecl(ae.Decl, beClass.Decl, set.New[*ClassDecl](8))
	default:
		return false
	}
}

func (w *World) reachableDecl(from, to *ClassDecl, seen *set.Set[*ClassDecl]) bool {
	if from == to {
		return true
	}
	if !seen.Insert(from) {
		return false
	}
	for _, sup := range w.declSupers(from) {
		if w.reachableDecl(sup.Decl, to, seen) {
			return true
		}
	}
	return false
}

func (w *World) isObject(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Decl == w.object
}

// declSupers returns the declared supers plus the implicit Object.
func (w *World) declSupers(d *ClassDecl) []*ClassType {
	if len(d.Supers) > 0 {
		return d.Supers
	}
	if d == w.object {
		return nil
	}
	return []*ClassType{w.object.Use()}
}

// DeclaredSupers exposes the declared supers (with the implicit Object) as
// written, still referencing the declaration's own type parameters.
func (w *World) DeclaredSupers(d *ClassDecl) []*ClassType {
	return w.declSupers(d)
}

// DeclReachable reports whether to is a (transitive) superdeclaration of
// from.
func (w *World) DeclReachable(from, to *ClassDecl) bool {
	return w.reachableDecl(from, to, set.New[*ClassDecl](8))
}

// DirectSupertypes returns the immediate supertypes of t, with the
// declaration's type parameters substituted by t's arguments. Raw types
// get erased supertypes.
func (w *World) DirectSupertypes(t Type) []Type {
	switch t := t.(type) {
	case *ClassType:
		supers := w.declSupers(t.Decl)
		out := make([]Type, 0, len(supers))
		if t.Raw {
			for _, sup := range supers {
				out = append(out, w.Erasure(sup))
			}
			return out
		}
		subst := make(map[string]Type, len(t.Decl.Params))
		for i, p := range t.Decl.Params {
			if i < len(t.Args) {
				subst[p.ID()] = t.Args[i]
			}
		}
		for _, sup := range supers {
			out = append(out, SubstRef(sup, subst))
		}
		return out
	case *ArrayType:
		return []Type{w.object.Use()}
	case *ParamType:
		if t.Param.Bound == nil {
			return []Type{w.object.Use()}
		}
		return []Type{t.Param.Bound}
	default:
		return nil
	}
}

// SubstRef replaces ParamType uses keyed by TypeParam.ID. It never touches
// declarations, only type uses.
func SubstRef(t Type, subst map[string]Type) Type {
	switch t := t.(type) {
	case *ParamType:
		if repl, ok := subst[t.Param.ID()]; ok {
			return repl
		}
		return t
	case *ClassType:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = SubstRef(a, subst)
		}
		return &ClassType{Decl: t.Decl, Args: args, Raw: t.Raw}
	case *ArrayType:
		return &ArrayType{Elem: SubstRef(t.Elem, subst)}
	case *WildcardType:
		out := &WildcardType{}
		if t.Extends != nil {
			out.Extends = SubstRef(t.Extends, subst)
		}
		if t.Super != nil {
			out.Super = SubstRef(t.Super, subst)
		}
		return out
	case *IntersectionType:
		bounds := make([]Type, len(t.Bounds))
		for i, b := range t.Bounds {
			bounds[i] = SubstRef(b, subst)
		}
		return &IntersectionType{Bounds: bounds}
	case *UnionType:
		alts := make([]Type, len(t.Alts))
		for i, a := range t.Alts {
			alts[i] = SubstRef(a, subst)
		}
		return &UnionType{Alts: alts}
	default:
		return t
	}
}

// SuperClosure returns every direct and indirect supertype of t, with
// arguments substituted, in breadth-first order.
func (w *World) SuperClosure(t *ClassType) []*ClassType {
	var out []*ClassType
	seenDecls := set.New[*ClassDecl](8)
	work := []*ClassType{t}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		for _, supAny := range w.DirectSupertypes(cur) {
			sup, ok := supAny.(*ClassType)
			if !ok || !seenDecls.Insert(sup.Decl) {
				continue
			}
			out = append(out, sup)
			work = append(work, sup)
		}
	}
	return out
}

// AsSuperClass projects t onto the given declaration, carrying substituted
// arguments along the supertype path. Returns nil when target is not
// reachable from t.
func (w *World) AsSuperClass(t *ClassType, target *ClassDecl) *ClassType {
	if t.Decl == target {
		return t
	}
	for _, supAny := range w.DirectSupertypes(t) {
		sup, ok := supAny.(*ClassType)
		if !ok {
			continue
		}
		if r := w.AsSuperClass(sup, target); r != nil {
			return r
		}
	}
	return nil
}

// LeastUpperBound computes the join of two underlying types: the least
// common parameterized supertype, degrading to the raw common erasure when
// the two projections disagree on arguments, and to Object when nothing
// narrower is shared.
func (w *World) LeastUpperBound(a, b Type) Type {
	if w.IsSubtype(a, b) {
		return b
	}
	if w.IsSubtype(b, a) {
		return a
	}
	aArr, aIsArr := a.(*ArrayType)
	bArr, bIsArr := b.(*ArrayType)
	if aIsArr && bIsArr {
		return &ArrayType{Elem: w.LeastUpperBound(aArr.Elem, bArr.Elem)}
	}
	aClass, aOk := w.Erasure(a).(*ClassType)
	bClass, bOk := w.Erasure(b).(*ClassType)
	if !aOk || !bOk {
		return w.object.Use()
	}
	aFull, _ := a.(*ClassType)
	bFull, _ := b.(*ClassType)
	if aFull == nil {
		aFull = aClass
	}
	if bFull == nil {
		bFull = bClass
	}
	bDecls := set.New[*ClassDecl](8)
	bDecls.Insert(bFull.Decl)
	for _, sup := range w.SuperClosure(bFull) {
		bDecls.Insert(sup.Decl)
	}
	candidates := append([]*ClassType{aFull}, w.SuperClosure(aFull)...)
	for _, c := range candidates {
		if c.Decl == w.object || !bDecls.Contains(c.Decl) {
			continue
		}
		pa := w.AsSuperClass(aFull, c.Decl)
		pb := w.AsSuperClass(bFull, c.Decl)
		if pa != nil && pb != nil && w.IsSameType(pa, pb) {
			return pa
		}
		return c.Decl.RawUse()
	}
	return w.object.Use()
}

// GreatestLowerBound computes the meet of two underlying types. Unrelated
// types meet in an explicit intersection; operand intersections contribute
// their bounds directly.
func (w *World) GreatestLowerBound(a, b Type) Type {
	if w.IsSubtype(a, b) {
		return a
	}
	if w.IsSubtype(b, a) {
		return b
	}
	bounds := boundList(append(flattenBounds(a), flattenBounds(b)...))
	sort.Sort(bounds)
	n := xset.Uniq(bounds)
	return &IntersectionType{Bounds: bounds[:n]}
}

func flattenBounds(t Type) []Type {
	if i, ok := t.(*IntersectionType); ok {
		return i.Bounds
	}
	return []Type{t}
}

// boundList canonicalises intersection bounds: sorted by rendering, which
// also makes adjacent duplicates collapsible.
type boundList []Type

func (b boundList) Len() int           { return len(b) }
func (b boundList) Less(i, j int) bool { return b[i].String() < b[j].String() }
func (b boundList) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Overrides reports whether method overrides super when viewed in the
// class origin: same name and arity, and super's owner reachable from
// origin.
func (w *World) Overrides(method, super *Member, origin *ClassDecl) bool {
	if method.Kind != Method || super.Kind != Method {
		return false
	}
	if method.Name != super.Name || len(method.Params) != len(super.Params) {
		return false
	}
	if method.Static || super.Static {
		return false
	}
	return w.reachableDecl(origin, super.Owner, set.New[*ClassDecl](8))
}
