// Package qual defines the contract between the augmented-type engine and a
// pluggable set of qualifier hierarchies. The engine never interprets
// qualifiers itself; it only combines them through a Hierarchy.
package qual

// Qualifier is one value from a hierarchy's lattice, attached to a type node
// orthogonally to its nominal shape. The zero value means "no qualifier".
type Qualifier struct {
	// Hierarchy names the lattice this qualifier belongs to, e.g. "nullness".
	Hierarchy string
	Name      string
}

func (q Qualifier) IsZero() bool {
	return q == Qualifier{}
}

func (q Qualifier) String() string {
	if q.IsZero() {
		return "@<none>"
	}
	return "@" + q.Name
}

// Hierarchy is a finite set of independent qualifier lattices. All binary
// operations expect both operands to belong to the same lattice; mixing
// hierarchies is a caller bug.
type Hierarchy interface {
	// Tops returns the top qualifier of every lattice in the set, in a
	// stable order.
	Tops() []Qualifier

	// TopFor returns the top of the lattice q belongs to.
	TopFor(q Qualifier) Qualifier

	// BottomFor returns the bottom of the lattice top belongs to.
	BottomFor(top Qualifier) Qualifier

	// IsSubtype reports whether sub is below (or equal to) super.
	IsSubtype(sub, super Qualifier) bool

	Lub(a, b Qualifier) Qualifier
	Glb(a, b Qualifier) Qualifier

	// IsPolymorphic reports whether q is its lattice's polymorphic marker.
	IsPolymorphic(q Qualifier) bool
}

// FindInHierarchy returns the qualifier among qs that belongs to the same
// lattice as top, if any.
func FindInHierarchy(qs []Qualifier, top Qualifier) (Qualifier, bool) {
	for _, q := range qs {
		if q.Hierarchy == top.Hierarchy {
			return q, true
		}
	}
	return Qualifier{}, false
}
