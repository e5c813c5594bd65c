package symbolic

import (
	"log"
)

// Engine differentiates and simplifies expressions under a set of options.
// An Engine is immutable and safe for concurrent use, provided its Tracer is.
type Engine struct {
	chain ChainRule
	ident IdentityRule
	trace Tracer
}

// ChainRule selects how Derive treats sin of a non-trivial argument.
type ChainRule int8

const (
	// Literal differentiates sin(u) to cos(u) without multiplying by the
	// derivative of u. This is exact only when u is the variable itself.
	Literal ChainRule = iota
	// Full differentiates sin(u) to cos(u) * du.
	Full
)

func (c ChainRule) String() string {
	switch c {
	case Literal:
		return "literal"
	case Full:
		return "full"
	default:
		return "invalid"
	}
}

// IdentityRule selects which operations Simplify removes a left identity
// from.
type IdentityRule int8

const (
	// LiteralIdentity removes the identity of every operation from the left
	// as well as the right, so 0 - x becomes x and 1 / x becomes x. Those two
	// rewrites change the value of the expression.
	LiteralIdentity IdentityRule = iota
	// SoundIdentity removes a left identity only from addition and
	// multiplication.
	SoundIdentity
)

func (r IdentityRule) String() string {
	switch r {
	case LiteralIdentity:
		return "literal"
	case SoundIdentity:
		return "sound"
	default:
		return "invalid"
	}
}

// Option is an option used when creating an Engine.
type Option interface {
	engineOption(*Engine)
}

type (
	chainopt ChainRule
	identopt IdentityRule
	traceopt struct{ t Tracer }
)

func (o chainopt) engineOption(e *Engine) { e.chain = ChainRule(o) }
func (o identopt) engineOption(e *Engine) { e.ident = IdentityRule(o) }
func (o traceopt) engineOption(e *Engine) { e.trace = o.t }

// FullChainRule makes Derive apply the general chain rule to sin.
func FullChainRule() Option {
	return chainopt(Full)
}

// LiteralChainRule makes Derive apply the restricted rule d sin(u) = cos(u).
// This is the default.
func LiteralChainRule() Option {
	return chainopt(Literal)
}

// WithChainRule sets the chain rule mode.
func WithChainRule(c ChainRule) Option {
	if c != Literal && c != Full {
		panic("symbolic: invalid chain rule " + c.String())
	}
	return chainopt(c)
}

// SoundIdentities makes Simplify leave 0 - x and 1 / x as they are.
func SoundIdentities() Option {
	return identopt(SoundIdentity)
}

// LiteralIdentities makes Simplify remove left identities from every
// operation. This is the default.
func LiteralIdentities() Option {
	return identopt(LiteralIdentity)
}

// WithIdentityRule sets the left identity mode.
func WithIdentityRule(r IdentityRule) Option {
	if r != LiteralIdentity && r != SoundIdentity {
		panic("symbolic: invalid identity rule " + r.String())
	}
	return identopt(r)
}

// WithTracer reports every rewrite the engine performs to t. A nil t
// disables tracing, which is the default.
func WithTracer(t Tracer) Option {
	return traceopt{t}
}

// New creates an engine with the given options applied in order.
func New(opts ...Option) *Engine {
	var e Engine
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.engineOption(&e)
	}
	return &e
}

// ChainRule returns the engine's chain rule mode.
func (e *Engine) ChainRule() ChainRule {
	return e.chain
}

// IdentityRule returns the engine's left identity mode.
func (e *Engine) IdentityRule() IdentityRule {
	return e.ident
}

var defaultEngine = New()

// Tracer receives a report of each rewrite rule that fires.
type Tracer interface {
	// Rewrite is called when rule rewrites before to after. Rule names are
	// "left-identity", "right-identity", "mul-zero", "div-zero", "collect",
	// "fold", "sin-zero", and "derive".
	Rewrite(rule string, before, after Expr)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(rule string, before, after Expr)

func (f TracerFunc) Rewrite(rule string, before, after Expr) {
	f(rule, before, after)
}

// LogTracer returns a Tracer that writes one line per rewrite to l.
func LogTracer(l *log.Logger) Tracer {
	return TracerFunc(func(rule string, before, after Expr) {
		l.Printf("%s: %v => %v", rule, before, after)
	})
}

func (e *Engine) rewrote(rule string, before, after Expr) {
	if e.trace != nil {
		e.trace.Rewrite(rule, before, after)
	}
}
