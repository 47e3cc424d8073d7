package qual

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLattice() *NamedLattice {
	return NewLattice().
		AddLinear("nullness", "Nullable", "NonNull").
		WithPoly("nullness", "PolyNull").
		AddLinear("taint", "Tainted", "Untainted")
}

func TestLinearOrder(t *testing.T) {
	l := testLattice()
	nullable, _ := l.Resolve("Nullable")
	nonNull, _ := l.Resolve("NonNull")

	assert.True(t, l.IsSubtype(nonNull, nullable))
	assert.False(t, l.IsSubtype(nullable, nonNull))
	assert.True(t, l.IsSubtype(nonNull, nonNull))

	assert.Equal(t, nullable, l.Lub(nullable, nonNull))
	assert.Equal(t, nonNull, l.Glb(nullable, nonNull))
}

func TestTopsAndBottoms(t *testing.T) {
	l := testLattice()
	tops := l.Tops()
	assert.Len(t, tops, 2)
	assert.Equal(t, "Nullable", tops[0].Name)
	assert.Equal(t, "Tainted", tops[1].Name)

	nonNull, _ := l.Resolve("NonNull")
	assert.Equal(t, tops[0], l.TopFor(nonNull))
	assert.Equal(t, nonNull, l.BottomFor(tops[0]))
}

func TestPolymorphicMarker(t *testing.T) {
	l := testLattice()
	poly, ok := l.Resolve("PolyNull")
	assert.True(t, ok)
	assert.True(t, l.IsPolymorphic(poly))

	nonNull, _ := l.Resolve("NonNull")
	assert.False(t, l.IsPolymorphic(nonNull))
	// combining with poly falls back to the lattice extremes
	assert.Equal(t, l.TopFor(poly), l.Lub(poly, nonNull))
	assert.Equal(t, l.BottomFor(poly), l.Glb(poly, nonNull))
}

func TestFindInHierarchy(t *testing.T) {
	l := testLattice()
	nonNull, _ := l.Resolve("NonNull")
	tainted, _ := l.Resolve("Tainted")

	got, ok := FindInHierarchy([]Qualifier{tainted, nonNull}, l.TopFor(nonNull))
	assert.True(t, ok)
	assert.Equal(t, nonNull, got)

	_, ok = FindInHierarchy([]Qualifier{tainted}, l.TopFor(nonNull))
	assert.False(t, ok)
}
