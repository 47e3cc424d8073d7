package types

import (
	"github.com/qualia-framework/qualia/checker/qualerr"
)

// ArrayDepth counts nested array dimensions; 0 for a non-array.
func ArrayDepth(t Type) int {
	depth := 0
	for {
		arr, ok := t.(*Array)
		if !ok {
			return depth
		}
		depth++
		t = arr.Component
	}
}

// InnerMostComponent strips every array dimension.
func InnerMostComponent(t Type) Type {
	for {
		arr, ok := t.(*Array)
		if !ok {
			return t
		}
		t = arr.Component
	}
}

// ExpandVarargs rewrites a variadic signature's parameter list against
// already-typed arguments: the trailing array parameter is kept whole when
// the final argument is an array of matching depth, or when the formal's
// component is a type variable (which may yet be instantiated to an
// array); otherwise it is repeated as its component type once per
// remaining argument.
func (ctx *Context) ExpandVarargs(m *Executable, argTypes []Type) []Type {
	return ctx.expandVarargs(m, argTypes, func(varargs *Array, last Type) bool {
		lastArr, ok := last.(*Array)
		if !ok {
			return false
		}
		if ArrayDepth(varargs) == ArrayDepth(lastArr) {
			return true
		}
		_, tv := varargs.Component.(*TypeVar)
		return tv
	})
}

// ExpandVarargsForCall is the call-site variant: an explicit null in the
// final position also passes as the whole array.
func (ctx *Context) ExpandVarargsForCall(m *Executable, argTypes []Type) []Type {
	return ctx.expandVarargs(m, argTypes, func(varargs *Array, last Type) bool {
		if _, isNull := last.(*Null); isNull {
			return true
		}
		lastArr, ok := last.(*Array)
		return ok && ArrayDepth(varargs) == ArrayDepth(lastArr)
	})
}

func (ctx *Context) expandVarargs(m *Executable, argTypes []Type, passesWhole func(*Array, Type) bool) []Type {
	params := m.Params
	if m.Member == nil || !m.Member.Variadic || len(params) == 0 {
		return params
	}
	varargs, ok := params[len(params)-1].(*Array)
	if !ok {
		ctx.addFailure(qualerr.ShapeViolation, "variadic %s has non-array last parameter %s", m, params[len(params)-1])
		return params
	}
	if len(argTypes) == len(params) && passesWhole(varargs, argTypes[len(argTypes)-1]) {
		return params
	}
	if len(argTypes) < len(params)-1 {
		ctx.addFailure(qualerr.CardinalityViolation,
			"%d arguments cannot satisfy %d fixed parameters of %s", len(argTypes), len(params)-1, m)
		return params
	}
	out := make([]Type, 0, len(argTypes))
	for _, p := range params[:len(params)-1] {
		out = append(out, Copy(p))
	}
	for i := len(params) - 1; i < len(argTypes); i++ {
		out = append(out, Copy(varargs.Component))
	}
	return out
}

// ParameterAt returns the declared type an argument at index is checked
// against, reaching into the component type for variadic positions.
func (ctx *Context) ParameterAt(m *Executable, index int) Type {
	params := m.Params
	if m.Member != nil && m.Member.Variadic && len(params) > 0 && index >= len(params)-1 {
		if arr, ok := params[len(params)-1].(*Array); ok {
			return Copy(arr.Component)
		}
	}
	if index < 0 || index >= len(params) {
		ctx.addFailure(qualerr.CardinalityViolation, "parameter index %d out of range for %s", index, m)
		return nil
	}
	return Copy(params[index])
}
