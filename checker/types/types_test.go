package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
)

func testLattice() *qual.NamedLattice {
	return qual.NewLattice().
		AddLinear("nullness", "Nullable", "NonNull").
		WithPoly("nullness", "PolyNull").
		AddLinear("taint", "Tainted", "Untainted")
}

// testWorld builds the collection-style class graph the engine tests share:
//
//	Collection[E] { pick() E }
//	List[E] extends Collection[E] { get(int) E; add(E) boolean; addAll(E...) boolean }
//	ArrayList[E] extends List[E]
//	MyList extends List[String] { get(int) String }
//	Base[X, Y]; Pair[A, B] extends Base[B, A]
//	Color extends Enum[Color]
func testWorld(t *testing.T) *host.World {
	t.Helper()
	w := host.NewWorld()
	intT := &host.PrimitiveType{Name: "int"}
	boolT := &host.PrimitiveType{Name: "boolean"}

	coll := w.NewClass("Collection", "E")
	collE := coll.ParamNamed("E")
	coll.Members = []*host.Member{
		{Kind: host.Method, Name: "pick", Owner: coll, Result: collE.Use()},
	}

	list := w.NewClass("List", "E")
	listE := list.ParamNamed("E")
	list.Supers = []*host.ClassType{w.ClassType("Collection", listE.Use())}
	list.Members = []*host.Member{
		{Kind: host.Method, Name: "get", Owner: list, Params: []host.Type{intT}, Result: listE.Use()},
		{Kind: host.Method, Name: "add", Owner: list, Params: []host.Type{listE.Use()}, Result: boolT},
		{Kind: host.Method, Name: "addAll", Owner: list, Variadic: true,
			Params: []host.Type{&host.ArrayType{Elem: listE.Use()}}, Result: boolT},
		{Kind: host.Method, Name: "size", Owner: list, Result: intT},
	}

	arrayList := w.NewClass("ArrayList", "E")
	arrayList.Supers = []*host.ClassType{w.ClassType("List", arrayList.ParamNamed("E").Use())}

	myList := w.NewClass("MyList")
	myList.Supers = []*host.ClassType{w.ClassType("List", w.ClassType("String"))}
	myList.Members = []*host.Member{
		{Kind: host.Method, Name: "get", Owner: myList, Params: []host.Type{intT}, Result: w.ClassType("String")},
	}

	w.NewClass("Base", "X", "Y")
	pair := w.NewClass("Pair", "A", "B")
	pair.Supers = []*host.ClassType{
		w.ClassType("Base", pair.ParamNamed("B").Use(), pair.ParamNamed("A").Use()),
	}

	color := w.NewClass("Color")
	color.Supers = []*host.ClassType{
		{Decl: w.Enum(), Args: []host.Type{&host.ClassType{Decl: color}}},
	}
	return w
}

func newTestCtx(t *testing.T) (*Context, *qual.NamedLattice) {
	t.Helper()
	lat := testLattice()
	return NewContext(testWorld(t), lat, nil, nil), lat
}

func mustParse(t *testing.T, ctx *Context, lat *qual.NamedLattice, expr string) Type {
	t.Helper()
	ty, err := ctx.ParseType(lat, expr)
	require.NoError(t, err)
	return ty
}

func mustQual(t *testing.T, lat *qual.NamedLattice, name string) qual.Qualifier {
	t.Helper()
	q, ok := lat.Resolve(name)
	require.True(t, ok, "qualifier %q", name)
	return q
}
