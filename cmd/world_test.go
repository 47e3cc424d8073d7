package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualia-framework/qualia/checker/host"
)

const sampleWorld = `
hierarchies:
  - name: nullness
    qualifiers: [Nullable, NonNull]
    poly: PolyNull
classes:
  - name: Collection
    params: [E]
    members:
      - name: pick
        kind: method
        result: E
  - name: List
    params: [E]
    extends:
      - "Collection[E]"
    members:
      - name: get
        kind: method
        params: [int]
        result: E
      - name: addAll
        kind: method
        variadic: true
        params:
          - "E[]"
        result: Object
      - name: head
        kind: field
        result: E
`

func writeWorld(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadContextBuildsWorld(t *testing.T) {
	ctx, lattice, err := loadContext(writeWorld(t, sampleWorld))
	require.NoError(t, err)

	list := ctx.World().Class("List")
	require.NotNil(t, list)
	require.Len(t, list.Supers, 1)
	assert.Equal(t, "Collection[E]", list.Supers[0].String())

	get := list.Member("get")
	require.NotNil(t, get)
	assert.Equal(t, host.Method, get.Kind)
	require.Len(t, get.Params, 1)
	assert.Equal(t, "int", get.Params[0].String())
	assert.Equal(t, "E", get.Result.String())

	addAll := list.Member("addAll")
	require.NotNil(t, addAll)
	assert.True(t, addAll.Variadic)
	assert.Equal(t, "E[]", addAll.Params[0].String())

	head := list.Member("head")
	require.NotNil(t, head)
	assert.Equal(t, host.Field, head.Kind)

	nonNull, ok := lattice.Resolve("NonNull")
	require.True(t, ok)
	assert.Equal(t, "nullness", nonNull.Hierarchy)
	poly, ok := lattice.Resolve("PolyNull")
	require.True(t, ok)
	assert.True(t, lattice.IsPolymorphic(poly))
}

func TestLoadContextParsesQualifiedExpressions(t *testing.T) {
	ctx, lattice, err := loadContext(writeWorld(t, sampleWorld))
	require.NoError(t, err)

	parsed, err := ctx.ParseType(lattice, "@NonNull List[@Nullable String]")
	require.NoError(t, err)
	assert.Equal(t, "@NonNull List[@Nullable String]", parsed.String())
}

func TestLoadContextRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		world string
	}{
		{"empty hierarchy", "hierarchies:\n  - name: bare\n    qualifiers: []\n"},
		{"unknown supertype", "classes:\n  - name: A\n    extends: [Missing]\n"},
		{"seeded name reused", "classes:\n  - name: Object\n"},
		{"bad member kind", "classes:\n  - name: A\n    members:\n      - name: x\n        kind: enum\n"},
		{"arity mismatch", "classes:\n  - name: A\n    params: [X]\n  - name: B\n    extends: [\"A[Object, Object]\"]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := loadContext(writeWorld(t, tc.world))
			assert.Error(t, err)
		})
	}
}

func TestParseRefWildcardsAndArrays(t *testing.T) {
	w := host.NewWorld()
	coll := w.NewClass("Collection", "E")
	scope := paramScope(coll.Params)

	ref, err := parseRef(w, scope, "Collection[? extends String][]")
	require.NoError(t, err)
	arr, ok := ref.(*host.ArrayType)
	require.True(t, ok)
	assert.Equal(t, "Collection[? extends String][]", arr.String())

	ref, err = parseRef(w, scope, "String[][]")
	require.NoError(t, err)
	assert.Equal(t, "String[][]", ref.String())

	ref, err = parseRef(w, scope, "? super E")
	require.NoError(t, err)
	wc, ok := ref.(*host.WildcardType)
	require.True(t, ok)
	require.NotNil(t, wc.Super)
	assert.Equal(t, "E", wc.Super.String())

	_, err = parseRef(w, scope, "Collection[E] trailing")
	assert.Error(t, err)
}
