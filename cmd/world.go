package cmd

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
	"github.com/qualia-framework/qualia/checker/types"
	"github.com/qualia-framework/qualia/internal/log"
)

// worldFile is the YAML surface for a class world plus its qualifier
// lattices. Chains are listed top first, supers and member signatures in
// the same bracket syntax the type expressions use.
type worldFile struct {
	Hierarchies []hierarchySpec `yaml:"hierarchies"`
	Classes     []classSpec     `yaml:"classes"`
}

type hierarchySpec struct {
	Name       string   `yaml:"name"`
	Qualifiers []string `yaml:"qualifiers"`
	Poly       string   `yaml:"poly,omitempty"`
}

type classSpec struct {
	Name    string       `yaml:"name"`
	Params  []string     `yaml:"params,omitempty"`
	Extends []string     `yaml:"extends,omitempty"`
	Members []memberSpec `yaml:"members,omitempty"`
}

type memberSpec struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"` // field | method | constructor
	Static     bool     `yaml:"static,omitempty"`
	Variadic   bool     `yaml:"variadic,omitempty"`
	TypeParams []string `yaml:"typeParams,omitempty"`
	Params     []string `yaml:"params,omitempty"`
	Result     string   `yaml:"result,omitempty"`
}

func loadContext(path string) (*types.Context, *qual.NamedLattice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read world file: %w", err)
	}
	var spec worldFile
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, nil, fmt.Errorf("could not parse world file: %w", err)
	}
	lattice := qual.NewLattice()
	for _, h := range spec.Hierarchies {
		if len(h.Qualifiers) == 0 {
			return nil, nil, fmt.Errorf("hierarchy %q declares no qualifiers", h.Name)
		}
		lattice.AddLinear(h.Name, h.Qualifiers...)
		if h.Poly != "" {
			lattice.WithPoly(h.Name, h.Poly)
		}
	}
	world, err := buildWorld(spec.Classes)
	if err != nil {
		return nil, nil, err
	}
	return types.NewContext(world, lattice, nil, log.DefaultLogger), lattice, nil
}

// buildWorld declares every class first so supers and signatures can
// reference classes in any order.
func buildWorld(specs []classSpec) (*host.World, error) {
	w := host.NewWorld()
	for _, c := range specs {
		if w.Class(c.Name) != nil {
			return nil, fmt.Errorf("class %q is already part of the seeded world", c.Name)
		}
		w.NewClass(c.Name, c.Params...)
	}
	for _, c := range specs {
		decl := w.Class(c.Name)
		scope := paramScope(decl.Params)
		for _, sup := range c.Extends {
			ref, err := parseRef(w, scope, sup)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", c.Name, err)
			}
			class, ok := ref.(*host.ClassType)
			if !ok {
				return nil, fmt.Errorf("class %s: supertype %q is not a class", c.Name, sup)
			}
			decl.Supers = append(decl.Supers, class)
		}
		for _, m := range c.Members {
			member, err := buildMember(w, decl, scope, m)
			if err != nil {
				return nil, fmt.Errorf("class %s: member %s: %w", c.Name, m.Name, err)
			}
			decl.Members = append(decl.Members, member)
		}
	}
	return w, nil
}

func buildMember(w *host.World, decl *host.ClassDecl, outer map[string]*host.TypeParam, m memberSpec) (*host.Member, error) {
	member := &host.Member{
		Name:     m.Name,
		Owner:    decl,
		Static:   m.Static,
		Variadic: m.Variadic,
	}
	switch m.Kind {
	case "field":
		member.Kind = host.Field
	case "method", "":
		member.Kind = host.Method
	case "constructor":
		member.Kind = host.Constructor
	default:
		return nil, fmt.Errorf("unknown member kind %q", m.Kind)
	}
	scope := make(map[string]*host.TypeParam, len(outer)+len(m.TypeParams))
	if !m.Static {
		for name, p := range outer {
			scope[name] = p
		}
	}
	for i, name := range m.TypeParams {
		p := &host.TypeParam{
			Owner: decl.Name + "." + m.Name,
			Name:  name,
			Index: i,
			Bound: w.Object().Use(),
		}
		member.TypeParams = append(member.TypeParams, p)
		scope[name] = p
	}
	for _, param := range m.Params {
		ref, err := parseRef(w, scope, param)
		if err != nil {
			return nil, err
		}
		member.Params = append(member.Params, ref)
	}
	if m.Result != "" {
		ref, err := parseRef(w, scope, m.Result)
		if err != nil {
			return nil, err
		}
		member.Result = ref
	}
	return member, nil
}

func paramScope(params []*host.TypeParam) map[string]*host.TypeParam {
	scope := make(map[string]*host.TypeParam, len(params))
	for _, p := range params {
		scope[p.Name] = p
	}
	return scope
}

// parseRef reads one host-level type reference: a class (optionally with
// bracketed arguments), a type parameter from scope, a primitive, "null",
// a "? extends"/"? super" wildcard, with [] array suffixes.
func parseRef(w *host.World, scope map[string]*host.TypeParam, expr string) (host.Type, error) {
	p := &refParser{world: w, scope: scope, in: strings.TrimSpace(expr)}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return nil, fmt.Errorf("type %q: trailing input at offset %d", p.in, p.pos)
	}
	return t, nil
}

type refParser struct {
	world *host.World
	scope map[string]*host.TypeParam
	in    string
	pos   int
}

func (p *refParser) parse() (host.Type, error) {
	t, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !strings.HasPrefix(p.in[p.pos:], "[]") {
			break
		}
		p.pos += 2
		t = &host.ArrayType{Elem: t}
	}
	return t, nil
}

func (p *refParser) parseBase() (host.Type, error) {
	p.skipSpace()
	if p.eat('?') {
		out := &host.WildcardType{}
		if p.eatWord("extends") {
			b, err := p.parse()
			if err != nil {
				return nil, err
			}
			out.Extends = b
		} else if p.eatWord("super") {
			b, err := p.parse()
			if err != nil {
				return nil, err
			}
			out.Super = b
		}
		return out, nil
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("type %q: name expected at offset %d", p.in, p.pos)
	}
	if name == "null" {
		return &host.NullType{}, nil
	}
	if param, ok := p.scope[name]; ok {
		return param.Use(), nil
	}
	if d := p.world.Class(name); d != nil {
		var args []host.Type
		p.skipSpace()
		// "[]" is an array suffix, not an empty argument list
		if strings.HasPrefix(p.in[p.pos:], "[") && !strings.HasPrefix(p.in[p.pos:], "[]") && p.eat('[') {
			for {
				a, err := p.parse()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				p.skipSpace()
				if p.eat(',') {
					continue
				}
				if p.eat(']') {
					break
				}
				return nil, fmt.Errorf("type %q: ',' or ']' expected at offset %d", p.in, p.pos)
			}
		}
		if len(args) == 0 {
			return d.RawUse(), nil
		}
		if len(args) != len(d.Params) {
			return nil, fmt.Errorf("type %q: %s expects %d arguments, got %d", p.in, name, len(d.Params), len(args))
		}
		return &host.ClassType{Decl: d, Args: args}, nil
	}
	prim := &host.PrimitiveType{Name: name}
	if p.world.Boxed(prim) != nil {
		return prim, nil
	}
	return nil, fmt.Errorf("type %q: unknown name %q", p.in, name)
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *refParser) eat(c byte) bool {
	if p.pos < len(p.in) && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *refParser) eatWord(w string) bool {
	p.skipSpace()
	rest := p.in[p.pos:]
	if !strings.HasPrefix(rest, w) {
		return false
	}
	if len(rest) > len(w) && isRefIdentChar(rest[len(w)]) {
		return false
	}
	p.pos += len(w)
	return true
}

func (p *refParser) ident() string {
	start := p.pos
	for p.pos < len(p.in) && isRefIdentChar(p.in[p.pos]) {
		p.pos++
	}
	return p.in[start:p.pos]
}

func isRefIdentChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
