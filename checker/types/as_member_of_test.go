package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qualerr"
)

func TestAsMemberOfSubstitutesReceiverArguments(t *testing.T) {
	ctx, lat := newTestCtx(t)
	list := ctx.World().Class("List")
	get := list.Member("get")
	receiver := mustParse(t, ctx, lat, "List[@NonNull String]")

	res := ctx.AsMemberOf(receiver, get, ctx.Factory().TypeFor(get))
	ex, ok := res.(*Executable)
	require.True(t, ok)
	d, ok := ex.Result.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "String", d.Decl().Name)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
}

func TestAsMemberOfThroughSupertypePath(t *testing.T) {
	ctx, lat := newTestCtx(t)
	coll := ctx.World().Class("Collection")
	pick := coll.Member("pick")
	receiver := mustParse(t, ctx, lat, "ArrayList[@Untainted String]")

	res := ctx.AsMemberOf(receiver, pick, ctx.Factory().TypeFor(pick))
	ex := res.(*Executable)
	d, ok := ex.Result.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "String", d.Decl().Name)
	q, ok := d.Qual("taint")
	require.True(t, ok)
	assert.Equal(t, "Untainted", q.Name)
}

func TestAsMemberOfStaticUnchanged(t *testing.T) {
	ctx, lat := newTestCtx(t)
	list := ctx.World().Class("List")
	empty := &host.Member{Kind: host.Method, Name: "empty", Owner: list, Static: true, Result: list.RawUse()}
	receiver := mustParse(t, ctx, lat, "List[@NonNull String]")

	declared := ctx.Factory().TypeFor(empty)
	res := ctx.AsMemberOf(receiver, empty, declared)
	assert.Equal(t, declared.String(), res.String())
}

func TestAsMemberOfRawReceiverErasesToBound(t *testing.T) {
	ctx, lat := newTestCtx(t)
	list := ctx.World().Class("List")
	get := list.Member("get")
	receiver := mustParse(t, ctx, lat, "List")

	res := ctx.AsMemberOf(receiver, get, ctx.Factory().TypeFor(get))
	ex := res.(*Executable)
	d, ok := ex.Result.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "Object", d.Decl().Name)
	assert.Empty(t, ctx.Failures())
}

func TestAsMemberOfUninferredWildcardReceiver(t *testing.T) {
	ctx, _ := newTestCtx(t)
	list := ctx.World().Class("List")
	get := list.Member("get")
	tv := ctx.FromHost(list.Params[0].Use()).(*TypeVar)
	receiver := ctx.Factory().UninferredWildcard(tv)

	res := ctx.AsMemberOf(receiver, get, ctx.Factory().TypeFor(get))
	ex := res.(*Executable)
	wc, ok := ex.Result.(*Wildcard)
	require.True(t, ok)
	assert.True(t, wc.Uninferred)
	assert.Empty(t, ctx.Failures())
}

func TestAsMemberOfUnexpectedReceiverFails(t *testing.T) {
	ctx, lat := newTestCtx(t)
	list := ctx.World().Class("List")
	get := list.Member("get")
	receiver := mustParse(t, ctx, lat, "int")

	res := ctx.AsMemberOf(receiver, get, ctx.Factory().TypeFor(get))
	require.NotNil(t, res)
	require.NotEmpty(t, ctx.Failures())
	code, ok := qualerr.CodeOf(ctx.Failures()[0])
	require.True(t, ok)
	assert.Equal(t, qualerr.ShapeViolation, code)
}

func TestAsMemberOfArityMismatchFails(t *testing.T) {
	ctx, _ := newTestCtx(t)
	list := ctx.World().Class("List")
	base := ctx.Factory().DeclarationType(list)
	base.Args = base.Args[:0]
	base.WasRaw = false

	sub := ctx.addTypeVarMappings(NewSubstitution(), base, list)
	assert.Equal(t, 0, sub.Len())
	require.NotEmpty(t, ctx.Failures())
	code, ok := qualerr.CodeOf(ctx.Failures()[0])
	require.True(t, ok)
	assert.Equal(t, qualerr.CardinalityViolation, code)
}

func TestAsMemberOfArrayClone(t *testing.T) {
	ctx, lat := newTestCtx(t)
	w := ctx.World()
	clone := &host.Member{Kind: host.Method, Name: "clone", Owner: w.Object(), Result: w.Object().Use()}
	receiver := mustParse(t, ctx, lat, "@NonNull String[]")

	res := ctx.AsMemberOf(receiver, clone, ctx.Factory().TypeFor(clone))
	ex := res.(*Executable)
	arr, ok := ex.Result.(*Array)
	require.True(t, ok)
	q, ok := arr.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
}

func TestAsMemberOfTypeVarReceiver(t *testing.T) {
	ctx, lat := newTestCtx(t)
	w := ctx.World()
	list := w.Class("List")
	get := list.Member("get")
	param := &host.TypeParam{
		Owner: "caller", Name: "T", Index: 0,
		Bound: w.ClassType("List", w.ClassType("String")),
	}
	receiver := ctx.FromHost(param.Use()).(*TypeVar)
	receiver.Upper.(*Declared).Args[0].SetQual(mustQual(t, lat, "NonNull"))

	res := ctx.AsMemberOf(receiver, get, ctx.Factory().TypeFor(get))
	ex := res.(*Executable)
	d, ok := ex.Result.(*Declared)
	require.True(t, ok)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
}

func TestAsMemberOfDoesNotMutateDeclaredType(t *testing.T) {
	ctx, lat := newTestCtx(t)
	list := ctx.World().Class("List")
	get := list.Member("get")
	declared := ctx.Factory().TypeFor(get)
	before := declared.String()
	receiver := mustParse(t, ctx, lat, "List[@NonNull String]")

	_ = ctx.AsMemberOf(receiver, get, declared)
	assert.Equal(t, before, declared.String())
}
