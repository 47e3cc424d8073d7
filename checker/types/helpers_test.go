package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/util"
)

func TestSuperTypeClosure(t *testing.T) {
	ctx, lat := newTestCtx(t)
	start := mustParse(t, ctx, lat, "ArrayList[@NonNull String]").(*Declared)

	closure := ctx.SuperTypeClosure(start)
	var names []string
	for _, sup := range closure {
		names = append(names, sup.Decl().Name)
	}
	assert.Equal(t, []string{"List", "Collection", "Object"}, names)

	// arguments substitute along the way
	list := closure[0]
	d, ok := list.Args[0].(*Declared)
	require.True(t, ok)
	assert.Equal(t, "String", d.Decl().Name)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
}

func TestOverriddenMethods(t *testing.T) {
	ctx, _ := newTestCtx(t)
	myList := ctx.World().Class("MyList")
	myGet := myList.Member("get")

	overridden := ctx.OverriddenMethods(myList, myGet)
	require.Len(t, overridden, 1)
	assert.Equal(t, "List", overridden[0].Fst.Decl().Name)
	assert.Equal(t, "get", overridden[0].Snd.Name)
	// the supertype is seen from MyList: List[String]
	arg, ok := overridden[0].Fst.Args[0].(*Declared)
	require.True(t, ok)
	assert.Equal(t, "String", arg.Decl().Name)
}

func TestCorrespondingTypeVars(t *testing.T) {
	ctx, _ := newTestCtx(t)
	w := ctx.World()
	list := w.Class("List")
	myList := w.Class("MyList")

	listR := &host.TypeParam{Owner: "List.map", Name: "R", Index: 0, Bound: w.Object().Use()}
	listMap := &host.Member{Kind: host.Method, Name: "map", Owner: list,
		TypeParams: []*host.TypeParam{listR},
		Params:     []host.Type{list.ParamNamed("E").Use()}, Result: listR.Use()}
	myR := &host.TypeParam{Owner: "MyList.map", Name: "R", Index: 0, Bound: w.Object().Use()}
	myMap := &host.Member{Kind: host.Method, Name: "map", Owner: myList,
		TypeParams: []*host.TypeParam{myR},
		Params:     []host.Type{w.ClassType("String")}, Result: myR.Use()}
	list.Members = append(list.Members, listMap)
	myList.Members = append(myList.Members, myMap)

	a := ctx.FromHost(listR.Use()).(*TypeVar)
	b := ctx.FromHost(myR.Use()).(*TypeVar)
	assert.True(t, ctx.CorrespondingTypeVars(a, b))
	assert.True(t, ctx.CorrespondingTypeVars(a, a))

	listE := ctx.FromHost(list.ParamNamed("E").Use()).(*TypeVar)
	assert.False(t, ctx.CorrespondingTypeVars(a, listE))
}

func TestFindTypeArgumentsExplicit(t *testing.T) {
	ctx, lat := newTestCtx(t)
	w := ctx.World()
	list := w.Class("List")
	listR := &host.TypeParam{Owner: "List.first", Name: "R", Index: 0, Bound: w.Object().Use()}
	first := &host.Member{Kind: host.Method, Name: "first", Owner: list,
		TypeParams: []*host.TypeParam{listR}, Result: listR.Use()}
	pre := ctx.Factory().TypeFor(first).(*Executable)

	str := mustParse(t, ctx, lat, "@NonNull String")
	targs := ctx.FindTypeArguments(CallSite{TypeArgs: []Type{str}}, first, pre, nil)
	require.Len(t, targs, 1)
	assert.Equal(t, str, targs[listR.ID()])
}

func TestFindTypeArgumentsUninferredFallback(t *testing.T) {
	ctx, _ := newTestCtx(t)
	w := ctx.World()
	list := w.Class("List")
	listR := &host.TypeParam{Owner: "List.pick2", Name: "R", Index: 0, Bound: w.ClassType("String")}
	pick2 := &host.Member{Kind: host.Method, Name: "pick2", Owner: list,
		TypeParams: []*host.TypeParam{listR}, Result: listR.Use()}
	pre := ctx.Factory().TypeFor(pick2).(*Executable)

	targs := ctx.FindTypeArguments(CallSite{}, pick2, pre, nil)
	require.Len(t, targs, 1)
	wc, ok := targs[listR.ID()].(*Wildcard)
	require.True(t, ok)
	assert.True(t, wc.Uninferred)
	// the wildcard adopts the unsolved variable's upper bound
	d, ok := wc.Extends.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "String", d.Decl().Name)
}

func TestWildcardClassifiers(t *testing.T) {
	ctx, lat := newTestCtx(t)
	extends := mustParse(t, ctx, lat, "? extends String").(*Wildcard)
	super := mustParse(t, ctx, lat, "? super String").(*Wildcard)
	unbounded := mustParse(t, ctx, lat, "?").(*Wildcard)

	assert.True(t, HasExplicitExtendsBound(extends))
	assert.False(t, HasExplicitExtendsBound(unbounded))
	assert.True(t, HasExplicitSuperBound(super))
	assert.True(t, IsUnboundedWildcard(unbounded))
	assert.False(t, IsUnboundedWildcard(extends))
}

func TestTypeParamIndexMap(t *testing.T) {
	ctx, _ := newTestCtx(t)
	w := ctx.World()

	swap := ctx.typeParamIndexMap(w.Class("Pair"), w.Class("Base"))
	assert.ElementsMatch(t, []util.Pair[int, int]{util.NewPair(1, 0), util.NewPair(0, 1)}, swap)

	chain := ctx.typeParamIndexMap(w.Class("ArrayList"), w.Class("Collection"))
	assert.Equal(t, []util.Pair[int, int]{util.NewPair(0, 0)}, chain)

	identity := ctx.typeParamIndexMap(w.Class("List"), w.Class("List"))
	assert.Equal(t, []util.Pair[int, int]{util.NewPair(0, 0)}, identity)

	// second lookup hits the cache and must agree
	again := ctx.typeParamIndexMap(w.Class("Pair"), w.Class("Base"))
	assert.Equal(t, swap, again)
}
