package symbolic

import (
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// call sets z to f(x). z must have the precision of the result.
func (f Func) call(z, x *big.Float) error {
	if x.IsInf() {
		return &DomainError{X: x, Arg: 1, Func: f.String()}
	}
	switch f {
	case Sin:
		trig(z, x, false)
	case Cos:
		trig(z, x, true)
	default:
		return &UnsupportedError{Action: "evaluate", Node: Apply(f, Const(0)), Reason: "unknown function " + f.String()}
	}
	return nil
}

// trig sets z to sin(x), or cos(x) if cos is true, by Taylor series after
// reducing x modulo 2pi. The work is done with enough guard bits to cover
// the magnitude of x.
func trig(z, x *big.Float, cos bool) *big.Float {
	prec := z.Prec()
	if prec == 0 {
		prec = x.Prec()
	}
	work := prec + 64
	if exp := x.MantExp(nil); exp > 0 {
		work += uint(exp)
	}

	tau := bigfloat.Pi(new(big.Float).SetPrec(work))
	tau.SetMantExp(tau, 1)
	r := new(big.Float).SetPrec(work).Set(x)
	q := new(big.Float).SetPrec(work).Quo(r, tau)
	k, _ := q.Int(nil)
	q.SetInt(k)
	r.Sub(r, q.Mul(q, tau))

	r2 := new(big.Float).SetPrec(work).Mul(r, r)
	term := new(big.Float).SetPrec(work)
	n := int64(0)
	if cos {
		term.SetInt64(1)
	} else {
		term.Set(r)
		n = 1
	}
	sum := new(big.Float).SetPrec(work).Set(term)
	d := new(big.Float).SetPrec(work)
	limit := -int(work)
	for term.Sign() != 0 {
		// term *= -r^2 / ((n+1)(n+2))
		term.Mul(term, r2)
		d.SetInt64((n + 1) * (n + 2))
		term.Quo(term, d)
		term.Neg(term)
		n += 2
		if term.MantExp(nil) < limit {
			break
		}
		sum.Add(sum, term)
	}
	if z.Prec() == 0 {
		z.SetPrec(prec)
	}
	return z.Set(sum)
}

// DomainError is an error returned when a function or operation is applied to
// arguments outside its domain.
type DomainError struct {
	// X is the out-of-domain argument. It is nil if the argument is not a
	// number at all, e.g. a NaN constant in an expression.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "NaN outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
