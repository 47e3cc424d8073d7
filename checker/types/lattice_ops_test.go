package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualia-framework/qualia/checker/qualerr"
)

func TestLeastUpperBoundSiblings(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull ArrayList[@NonNull String]")
	b := mustParse(t, ctx, lat, "@Nullable MyList")

	res := ctx.LeastUpperBound(a, b)
	require.NotNil(t, res)
	d, ok := res.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "List", d.Decl().Name)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "Nullable", q.Name)
}

func TestLeastUpperBoundWithNull(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull List[String]")
	b := mustParse(t, ctx, lat, "@Nullable null")

	res := ctx.LeastUpperBound(a, b)
	require.NotNil(t, res)
	d := res.(*Declared)
	assert.Equal(t, "List", d.Decl().Name)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "Nullable", q.Name)
}

func TestLeastUpperBoundIdempotent(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull List[@Untainted String]")
	b := mustParse(t, ctx, lat, "@NonNull List[@Untainted String]")

	res := ctx.LeastUpperBound(a, b)
	require.NotNil(t, res)
	assert.Equal(t, a.String(), res.String())
}

func TestGreatestLowerBoundSubtypePath(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@Nullable @Tainted List[String]")
	b := mustParse(t, ctx, lat, "@NonNull @Untainted Collection[String]")

	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	d, ok := res.(*Declared)
	require.True(t, ok)
	assert.Equal(t, "List", d.Decl().Name)
	q, ok := d.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
	tq, ok := d.Qual("taint")
	require.True(t, ok)
	assert.Equal(t, "Untainted", tq.Name)
	assert.Empty(t, ctx.Failures())
}

func TestGreatestLowerBoundSelf(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull @Untainted List[@Untainted String]")
	b := mustParse(t, ctx, lat, "@NonNull @Untainted List[@Untainted String]")

	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	assert.Equal(t, a.String(), res.String())
}

func TestGreatestLowerBoundUnrelated(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull String")
	b := mustParse(t, ctx, lat, "@Nullable MyList")

	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	inter, ok := res.(*Intersection)
	require.True(t, ok)
	require.Len(t, inter.Bounds, 2)
	// primaries are the meet of the operands' lower-bound qualifier sets
	q, ok := inter.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)

	// each bound keeps its operand's qualifiers
	for _, b := range inter.Bounds {
		d := b.(*Declared)
		bq, ok := d.Qual("nullness")
		require.True(t, ok)
		if d.Decl().Name == "String" {
			assert.Equal(t, "NonNull", bq.Name)
		} else {
			assert.Equal(t, "Nullable", bq.Name)
		}
	}
}

func TestGreatestLowerBoundInvariantArguments(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "@NonNull List[String]")
	b := mustParse(t, ctx, lat, "@NonNull Collection[Integer]")

	// erasures are related but the full types are not: invariant type
	// arguments force the meet into an intersection
	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	inter, ok := res.(*Intersection)
	require.True(t, ok)
	require.Len(t, inter.Bounds, 2)
	names := []string{}
	for _, bound := range inter.Bounds {
		names = append(names, bound.(*Declared).Decl().Name)
	}
	assert.ElementsMatch(t, []string{"List", "Collection"}, names)
	q, ok := inter.Qual("nullness")
	require.True(t, ok)
	assert.Equal(t, "NonNull", q.Name)
}

func TestGreatestLowerBoundBareVariables(t *testing.T) {
	ctx, _ := newTestCtx(t)
	w := ctx.World()
	pa := ctx.World().Class("List").ParamNamed("E")
	a := ctx.FromHost(pa.Use())
	pb := w.Class("Collection").ParamNamed("E")
	b := ctx.FromHost(pb.Use())

	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	// both operands are unqualified variables: the hierarchies stay on the
	// bounds and no failure is recorded
	assert.Empty(t, ctx.Failures())
}

func TestGreatestLowerBoundMissingQualifier(t *testing.T) {
	ctx, lat := newTestCtx(t)
	a := mustParse(t, ctx, lat, "List[String]")
	b := mustParse(t, ctx, lat, "@NonNull @Untainted Collection[String]")

	res := ctx.GreatestLowerBound(a, b)
	require.NotNil(t, res)
	require.NotEmpty(t, ctx.Failures())
	code, ok := qualerr.CodeOf(ctx.Failures()[0])
	require.True(t, ok)
	assert.Equal(t, qualerr.MissingQualifier, code)
}
