package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRoundTrips(t *testing.T) {
	ctx, lat := newTestCtx(t)
	for _, expr := range []string{
		"String",
		"@NonNull String",
		"@NonNull @Untainted String",
		"List[@Nullable String]",
		"@NonNull List[@Nullable String]",
		"@NonNull String[]",
		"String[][]",
		"List[@NonNull String][]",
		"Pair[String, Integer]",
		"? extends @NonNull String",
		"? super String",
		"null",
		"int",
	} {
		t.Run(expr, func(t *testing.T) {
			ty, err := ctx.ParseType(lat, expr)
			require.NoError(t, err)
			assert.Equal(t, expr, ty.String())
		})
	}
}

func TestParseTypeUnbounded(t *testing.T) {
	ctx, lat := newTestCtx(t)
	ty, err := ctx.ParseType(lat, "?")
	require.NoError(t, err)
	wc, ok := ty.(*Wildcard)
	require.True(t, ok)
	assert.Equal(t, "? extends Object", wc.String())
}

func TestParseTypeErrors(t *testing.T) {
	ctx, lat := newTestCtx(t)
	for _, expr := range []string{
		"",
		"@Bogus String",
		"NoSuchClass",
		"List[String",
		"Pair[String]",
		"String trailing",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ctx.ParseType(lat, expr)
			assert.Error(t, err)
		})
	}
}
