package symbolic

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expressions. It holds variable values,
// named constant values, and the precision of calculations. It is not safe to
// use a Context concurrently.
type Context struct {
	names  map[Var]*big.Float
	consts map[string]*big.Float
	// cache holds built-in constants computed at prec.
	cache map[string]*big.Float
	prec  uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name Var
		val  *big.Float
	}
	varsopt  map[Var]*big.Float
	namedopt struct {
		name string
		val  *big.Float
	}
	precopt uint
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (namedopt) ctxOption() {}
func (precopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name Var, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[Var]*big.Float) ContextOption {
	return varsopt(vars)
}

// SetConst sets the value of a named constant in the context. Constants set
// this way take precedence over the built-in values of pi and e.
func SetConst(name string, val *big.Float) ContextOption {
	return namedopt{name, val}
}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		names:  make(map[Var]*big.Float, len(ctx.names)),
		consts: make(map[string]*big.Float, len(ctx.consts)),
		cache:  make(map[string]*big.Float, len(builtinConsts)),
		prec:   ctx.prec,
	}
	// First, check for a precision setting. Loop backward so we apply the last
	// precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy values. (We always need a copy in case of Set.) If we have the
	// same precision, we can just copy pointers, since stored values are
	// never modified.
	for name, val := range ctx.names {
		if n.prec != ctx.prec {
			val = new(big.Float).SetPrec(n.prec).Set(val)
		}
		n.names[name] = val
	}
	for name, val := range ctx.consts {
		if n.prec != ctx.prec {
			val = new(big.Float).SetPrec(n.prec).Set(val)
		}
		n.consts[name] = val
	}
	if n.prec == ctx.prec {
		// Otherwise built-ins are recomputed at the new precision.
		for name, val := range ctx.cache {
			n.cache[name] = val
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case namedopt:
			n.consts[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case precopt:
			// Already done. Do nothing.
		default:
			panic("symbolic: unknown option type")
		}
	}
	return &n
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name Var, value *big.Float) *Context {
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name Var) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or a division of zero by zero, then the
// result is nil.
func (ctx *Context) Eval(e Expr) (*big.Float, error) {
	r := new(big.Float).SetPrec(ctx.prec)
	if err := ctx.eval(r, e); err != nil {
		return nil, err
	}
	return r, nil
}

// eval sets z to the value of e. z must have the context's precision.
func (ctx *Context) eval(z *big.Float, e Expr) error {
	switch e := e.(type) {
	case Const:
		if math.IsNaN(float64(e)) {
			return &DomainError{Func: "number"}
		}
		z.SetFloat64(float64(e))
	case Named:
		v, err := ctx.constant(string(e))
		if err != nil {
			return err
		}
		z.Set(v)
	case Monomial:
		v := ctx.names[e.Var]
		if v == nil {
			return &NameError{Name: e.Var.String()}
		}
		if math.IsNaN(e.Factor) {
			return &DomainError{Func: "number"}
		}
		powi(z, v, e.Power)
		f := new(big.Float).SetPrec(ctx.prec).SetFloat64(e.Factor)
		return mul(z, f, z)
	case Binary:
		if err := ctx.eval(z, e.Left); err != nil {
			return err
		}
		r := new(big.Float).SetPrec(ctx.prec)
		if err := ctx.eval(r, e.Right); err != nil {
			return err
		}
		return arith(e.Op, z, z, r)
	case Call:
		x := new(big.Float).SetPrec(ctx.prec)
		if err := ctx.eval(x, e.Arg); err != nil {
			return err
		}
		return e.Func.call(z, x)
	default:
		return &UnsupportedError{Action: "evaluate", Node: e, Reason: "unknown expression type"}
	}
	return nil
}

// constant gets the value of a named constant, computing and caching built-in
// constants at the context's precision.
func (ctx *Context) constant(name string) (*big.Float, error) {
	if v := ctx.consts[name]; v != nil {
		return v, nil
	}
	if v := ctx.cache[name]; v != nil {
		return v, nil
	}
	f := builtinConsts[name]
	if f == nil {
		return nil, &NameError{Name: name, Const: true}
	}
	v := f(new(big.Float).SetPrec(ctx.prec))
	ctx.cache[name] = v
	return v, nil
}

var builtinConsts = map[string]func(out *big.Float) *big.Float{
	"pi": bigfloat.Pi,
	"e": func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	},
}

// arith sets z = l op r.
func arith(op Op, z, l, r *big.Float) error {
	switch op {
	case Add:
		// Guard against inf-inf.
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return &DomainError{X: r, Func: "+"}
		}
		z.Add(l, r)
	case Sub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return &DomainError{X: r, Func: "-"}
		}
		z.Sub(l, r)
	case Mul:
		return mul(z, l, r)
	case Div:
		// Guard against invalid divisions, 0/0 or inf/inf.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: r, Func: "/"}
		}
		z.Quo(l, r)
	default:
		return &UnsupportedError{Action: "evaluate", Node: Binary{Op: op, Left: Const(0), Right: Const(0)}, Reason: "unknown operation " + op.String()}
	}
	return nil
}

// mul sets z = l * r, guarding against 0*inf.
func mul(z, l, r *big.Float) error {
	if l.Sign() == 0 && r.IsInf() || l.IsInf() && r.Sign() == 0 {
		return &DomainError{X: r, Func: "*"}
	}
	z.Mul(l, r)
	return nil
}

// powi sets z = x^n by repeated squaring. 0^0 is 1.
func powi(z, x *big.Float, n uint) *big.Float {
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for n > 0 {
		if n&1 == 1 {
			z.Mul(z, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	return z
}

// Eval is a shortcut to evaluate an expression in a new context.
func Eval(e Expr, opts ...ContextOption) (*big.Float, error) {
	return NewContext(opts...).Eval(e)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	e, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return Eval(e, opts...)
}

// NameError is an error from a lookup for a variable or named constant that
// is missing from the evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Const is true if the name is a named constant rather than a variable.
	Const bool
}

func (err *NameError) Error() string {
	if err.Const {
		return "undefined constant: " + strconv.Quote(err.Name)
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}
