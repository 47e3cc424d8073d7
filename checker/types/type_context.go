package types

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/qual"
	"github.com/qualia-framework/qualia/checker/qualerr"
	ilog "github.com/qualia-framework/qualia/internal/log"
	"github.com/qualia-framework/qualia/util"
)

const argMapCacheSize = 256

// Context carries what one analysis unit hands to every operation: the host
// world, the qualifier hierarchy, the checker's factory hooks, and shared
// State. A Context must not be shared across goroutines; derive one per
// unit instead.
type Context struct {
	world   *host.World
	hier    qual.Hierarchy
	factory Factory
	logger  *slog.Logger

	state *State
}

// State accumulates across every Context of the same analysis unit.
// A non-empty Failures list means the unit's results cannot be trusted.
type State struct {
	Failures []error

	// argMaps caches type-parameter index mappings between declaration
	// pairs; they are pure in the world so safe to reuse.
	argMaps *lru.Cache[argMapKey, []util.Pair[int, int]]
}

type argMapKey struct {
	sub, super string
}

func NewContext(w *host.World, h qual.Hierarchy, f Factory, logger *slog.Logger) *Context {
	if logger == nil {
		logger = ilog.DefaultLogger
	}
	if f == nil {
		f = &BaseFactory{World: w}
	}
	cache, err := lru.New[argMapKey, []util.Pair[int, int]](argMapCacheSize)
	if err != nil {
		panic(err)
	}
	return &Context{
		world:   w,
		hier:    h,
		factory: f,
		logger:  logger.With("section", "checker.types"),
		state:   &State{argMaps: cache},
	}
}

func (ctx *Context) World() *host.World       { return ctx.world }
func (ctx *Context) Hierarchy() qual.Hierarchy { return ctx.hier }
func (ctx *Context) Factory() Factory          { return ctx.factory }

// Failures returns the unit's accumulated engine failures.
func (ctx *Context) Failures() []error { return ctx.state.Failures }

// HasFailures reports whether any operation on this unit recorded an
// internal failure; results computed after one cannot be trusted.
func (ctx *Context) HasFailures() bool { return len(ctx.state.Failures) > 0 }

func (ctx *Context) addFailure(code qualerr.ErrCode, format string, args ...any) {
	f := qualerr.New(code, format, args...)
	ctx.logger.Error("engine failure", "code", code.String(), "err", f.Error())
	ctx.state.Failures = append(ctx.state.Failures, f)
}
