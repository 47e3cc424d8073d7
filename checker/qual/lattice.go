package qual

import (
	"fmt"
	"slices"
)

// NamedLattice is a Hierarchy backed by linear chains of named qualifiers.
// Chains are declared top-first; a chain may additionally carry a
// polymorphic marker that sits outside the chain order.
//
// A linear chain covers every lattice the engine's own tests need; drivers
// with diamond-shaped hierarchies supply their own Hierarchy instead.
type NamedLattice struct {
	order  []string
	chains map[string][]string
	polys  map[string]string
	byName map[string]Qualifier
}

var _ Hierarchy = (*NamedLattice)(nil)

func NewLattice() *NamedLattice {
	return &NamedLattice{
		chains: make(map[string][]string),
		polys:  make(map[string]string),
		byName: make(map[string]Qualifier),
	}
}

// AddLinear declares a hierarchy as a chain of qualifiers, top first.
// Qualifier names must be unique across the whole lattice so that surface
// syntax like "@NonNull" resolves without naming its hierarchy.
func (l *NamedLattice) AddLinear(hierarchy string, topToBottom ...string) *NamedLattice {
	if len(topToBottom) == 0 {
		panic("qual: AddLinear needs at least one qualifier")
	}
	l.order = append(l.order, hierarchy)
	l.chains[hierarchy] = topToBottom
	for _, name := range topToBottom {
		l.byName[name] = Qualifier{Hierarchy: hierarchy, Name: name}
	}
	return l
}

// WithPoly registers the polymorphic marker of a previously added hierarchy.
func (l *NamedLattice) WithPoly(hierarchy, name string) *NamedLattice {
	if _, ok := l.chains[hierarchy]; !ok {
		panic(fmt.Sprintf("qual: unknown hierarchy %q", hierarchy))
	}
	l.polys[hierarchy] = name
	l.byName[name] = Qualifier{Hierarchy: hierarchy, Name: name}
	return l
}

// Resolve maps a bare qualifier name to its Qualifier value.
func (l *NamedLattice) Resolve(name string) (Qualifier, bool) {
	q, ok := l.byName[name]
	return q, ok
}

func (l *NamedLattice) Tops() []Qualifier {
	tops := make([]Qualifier, 0, len(l.order))
	for _, hierarchy := range l.order {
		tops = append(tops, Qualifier{Hierarchy: hierarchy, Name: l.chains[hierarchy][0]})
	}
	return tops
}

func (l *NamedLattice) TopFor(q Qualifier) Qualifier {
	chain := l.chain(q)
	return Qualifier{Hierarchy: q.Hierarchy, Name: chain[0]}
}

func (l *NamedLattice) BottomFor(top Qualifier) Qualifier {
	chain := l.chain(top)
	return Qualifier{Hierarchy: top.Hierarchy, Name: chain[len(chain)-1]}
}

// rank is the distance from the top of the chain. Polymorphic markers rank
// as if they were at the top so that combining them is never lossy.
func (l *NamedLattice) rank(q Qualifier) int {
	if l.polys[q.Hierarchy] == q.Name {
		return 0
	}
	chain := l.chain(q)
	i := slices.Index(chain, q.Name)
	if i < 0 {
		panic(fmt.Sprintf("qual: %s is not part of hierarchy %q", q, q.Hierarchy))
	}
	return i
}

func (l *NamedLattice) chain(q Qualifier) []string {
	chain, ok := l.chains[q.Hierarchy]
	if !ok {
		panic(fmt.Sprintf("qual: unknown hierarchy %q for %s", q.Hierarchy, q))
	}
	return chain
}

func (l *NamedLattice) IsSubtype(sub, super Qualifier) bool {
	l.checkSame(sub, super)
	if l.IsPolymorphic(sub) || l.IsPolymorphic(super) {
		return sub == super
	}
	return l.rank(sub) >= l.rank(super)
}

func (l *NamedLattice) Lub(a, b Qualifier) Qualifier {
	l.checkSame(a, b)
	if a == b {
		return a
	}
	if l.IsPolymorphic(a) || l.IsPolymorphic(b) {
		return l.TopFor(a)
	}
	if l.rank(a) <= l.rank(b) {
		return a
	}
	return b
}

func (l *NamedLattice) Glb(a, b Qualifier) Qualifier {
	l.checkSame(a, b)
	if a == b {
		return a
	}
	if l.IsPolymorphic(a) || l.IsPolymorphic(b) {
		return l.BottomFor(a)
	}
	if l.rank(a) >= l.rank(b) {
		return a
	}
	return b
}

func (l *NamedLattice) IsPolymorphic(q Qualifier) bool {
	return !q.IsZero() && l.polys[q.Hierarchy] == q.Name
}

func (l *NamedLattice) checkSame(a, b Qualifier) {
	if a.Hierarchy != b.Hierarchy {
		panic(fmt.Sprintf("qual: %s and %s belong to different hierarchies", a, b))
	}
}
