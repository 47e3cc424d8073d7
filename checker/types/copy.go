package types

// Copy deep-copies t. Recursive structure (a type variable whose bound
// mentions the variable itself) is preserved: the copy aliases its own
// nodes exactly where the original did.
func Copy(t Type) Type {
	return copyWith(t, make(map[Type]Type))
}

func copyWith(t Type, seen map[Type]Type) Type {
	if t == nil {
		return nil
	}
	if done, ok := seen[t]; ok {
		return done
	}
	switch t := t.(type) {
	case *Declared:
		out := &Declared{typeBase: t.copyBase(), WasRaw: t.WasRaw}
		seen[t] = out
		out.Args = copySlice(t.Args, seen)
		if t.Enclosing != nil {
			out.Enclosing = copyWith(t.Enclosing, seen).(*Declared)
		}
		return out
	case *Array:
		out := &Array{typeBase: t.copyBase()}
		seen[t] = out
		out.Component = copyWith(t.Component, seen)
		return out
	case *TypeVar:
		out := &TypeVar{typeBase: t.copyBase(), Param: t.Param}
		seen[t] = out
		out.Upper = copyWith(t.Upper, seen)
		out.Lower = copyWith(t.Lower, seen)
		return out
	case *Wildcard:
		out := &Wildcard{typeBase: t.copyBase(), Uninferred: t.Uninferred}
		seen[t] = out
		out.Extends = copyWith(t.Extends, seen)
		out.Super = copyWith(t.Super, seen)
		return out
	case *Intersection:
		out := &Intersection{typeBase: t.copyBase()}
		seen[t] = out
		out.Bounds = copySlice(t.Bounds, seen)
		return out
	case *Union:
		out := &Union{typeBase: t.copyBase()}
		seen[t] = out
		out.Alts = copySlice(t.Alts, seen)
		return out
	case *Null:
		out := &Null{typeBase: t.copyBase()}
		seen[t] = out
		return out
	case *Primitive:
		out := &Primitive{typeBase: t.copyBase()}
		seen[t] = out
		return out
	case *Executable:
		out := &Executable{typeBase: t.copyBase(), Member: t.Member}
		seen[t] = out
		for _, tp := range t.TypeParams {
			out.TypeParams = append(out.TypeParams, copyWith(tp, seen).(*TypeVar))
		}
		out.Params = copySlice(t.Params, seen)
		out.Result = copyWith(t.Result, seen)
		return out
	default:
		return t
	}
}

func copySlice(ts []Type, seen map[Type]Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = copyWith(t, seen)
	}
	return out
}

// mapChildren rebuilds t with f applied to its direct children, qualifiers
// and underlying carried over. Type variables pass through untouched:
// structural rewrites that want to see them intercept before recursing.
func mapChildren(t Type, f func(Type) Type) Type {
	switch t := t.(type) {
	case *Declared:
		out := &Declared{typeBase: t.copyBase(), WasRaw: t.WasRaw, Enclosing: t.Enclosing}
		if t.Args != nil {
			out.Args = make([]Type, len(t.Args))
			for i, a := range t.Args {
				out.Args[i] = f(a)
			}
		}
		return out
	case *Array:
		return &Array{typeBase: t.copyBase(), Component: f(t.Component)}
	case *Wildcard:
		out := &Wildcard{typeBase: t.copyBase(), Uninferred: t.Uninferred}
		out.Extends = f(t.Extends)
		if t.Super != nil {
			out.Super = f(t.Super)
		}
		return out
	case *Intersection:
		out := &Intersection{typeBase: t.copyBase()}
		out.Bounds = make([]Type, len(t.Bounds))
		for i, b := range t.Bounds {
			out.Bounds[i] = f(b)
		}
		return out
	case *Union:
		out := &Union{typeBase: t.copyBase()}
		out.Alts = make([]Type, len(t.Alts))
		for i, a := range t.Alts {
			out.Alts[i] = f(a)
		}
		return out
	case *Null:
		return &Null{typeBase: t.copyBase()}
	case *Primitive:
		return &Primitive{typeBase: t.copyBase()}
	default:
		return t
	}
}
