package types

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
)

// QualResolver maps surface qualifier names to hierarchy values.
// *qual.NamedLattice satisfies it.
type QualResolver interface {
	Resolve(name string) (qual.Qualifier, bool)
}

// ParseType reads the surface syntax the command-line tools and tests use
// for augmented types: @Qual prefixes qualify the outermost type, generic
// arguments sit in brackets, [] suffixes build arrays, wildcards are
// "? extends T" and "? super T", and "null" plus the primitive names are
// recognised.
//
//	@NonNull List[@Nullable String]
//	Map[String, ? extends @Tainted Number][]
func (ctx *Context) ParseType(r QualResolver, expr string) (Type, error) {
	p := &typeParser{ctx: ctx, resolver: r, in: expr}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return nil, errors.Errorf("parse %q: trailing input at offset %d", p.in, p.pos)
	}
	return t, nil
}

type typeParser struct {
	ctx      *Context
	resolver QualResolver
	in       string
	pos      int
}

func (p *typeParser) parseType() (Type, error) {
	var qs []qual.Qualifier
	for {
		p.skipSpace()
		if !p.eat('@') {
			break
		}
		name := p.ident()
		if name == "" {
			return nil, p.errf("qualifier name expected")
		}
		q, ok := p.resolver.Resolve(name)
		if !ok {
			return nil, p.errf("unknown qualifier %q", name)
		}
		qs = append(qs, q)
	}
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
		t = &Array{typeBase: newBase(&host.ArrayType{Elem: t.Underlying()}), Component: t}
	}
	t.SetQuals(qs)
	return t, nil
}

func (p *typeParser) parseBase() (Type, error) {
	p.skipSpace()
	if p.eat('?') {
		hw := &host.WildcardType{}
		out := &Wildcard{}
		switch {
		case p.eatWord("extends"):
			b, err := p.parseType()
			if err != nil {
				return nil, err
			}
			hw.Extends = b.Underlying()
			out.Extends = b
		case p.eatWord("super"):
			b, err := p.parseType()
			if err != nil {
				return nil, err
			}
			hw.Super = b.Underlying()
			out.Super = b
			out.Extends = p.ctx.FromHost(p.ctx.world.Object().Use())
		default:
			out.Extends = p.ctx.FromHost(p.ctx.world.Object().Use())
		}
		out.typeBase = newBase(hw)
		return out, nil
	}
	name := p.ident()
	if name == "" {
		return nil, p.errf("type name expected")
	}
	if name == "null" {
		return &Null{typeBase: newBase(hostNull)}, nil
	}
	if d := p.ctx.world.Class(name); d != nil {
		return p.parseDeclared(d)
	}
	prim := &host.PrimitiveType{Name: name}
	if p.ctx.world.Boxed(prim) != nil {
		return &Primitive{typeBase: newBase(prim)}, nil
	}
	return nil, p.errf("unknown type %q", name)
}

func (p *typeParser) parseDeclared(d *host.ClassDecl) (Type, error) {
	var args []Type
	p.skipSpace()
	// "[]" is an array suffix, not an empty argument list
	if strings.HasPrefix(p.in[p.pos:], "[") && !strings.HasPrefix(p.in[p.pos:], "[]") && p.eat('[') {
		for {
			a, err := p.parseType()
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
			return nil, p.errf("',' or ']' expected")
		}
	}
	if len(args) != 0 && len(args) != len(d.Params) {
		return nil, p.errf("%s expects %d arguments, got %d", d.Name, len(d.Params), len(args))
	}
	out := &Declared{Args: args}
	if len(args) == 0 {
		use := d.RawUse()
		out.typeBase = newBase(use)
		out.WasRaw = use.Raw
	} else {
		hostArgs := make([]host.Type, len(args))
		for i, a := range args {
			hostArgs[i] = a.Underlying()
		}
		out.typeBase = newBase(&host.ClassType{Decl: d, Args: hostArgs})
	}
	if d.Outer != nil && !d.Static {
		out.Enclosing = p.ctx.FromHost(d.Outer.Use()).(*Declared)
	}
	return out, nil
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) eat(c byte) bool {
	if p.pos < len(p.in) && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) eatWord(w string) bool {
	p.skipSpace()
	rest := p.in[p.pos:]
	if !strings.HasPrefix(rest, w) {
		return false
	}
	if len(rest) > len(w) && isIdentChar(rest[len(w)]) {
		return false
	}
	p.pos += len(w)
	return true
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.in) && isIdentChar(p.in[p.pos]) {
		p.pos++
	}
	return p.in[start:p.pos]
}

func isIdentChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (p *typeParser) errf(format string, args ...any) error {
	return errors.Errorf("parse %q at offset %d: "+format, append([]any{p.in, p.pos}, args...)...)
}
