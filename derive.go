package symbolic

// Derive differentiates e with respect to v using the default engine.
func Derive(e Expr, v Var) (Expr, error) {
	return defaultEngine.Derive(e, v)
}

// DeriveN differentiates e successively with respect to each of vars using
// the default engine.
func DeriveN(e Expr, vars ...Var) (Expr, error) {
	return defaultEngine.DeriveN(e, vars...)
}

// Derive computes the partial derivative of x with respect to v and returns it
// simplified. If x contains a construct with no differentiation rule, such as
// a division, the result is nil and the error is an *UnsupportedError.
func (e *Engine) Derive(x Expr, v Var) (Expr, error) {
	d, err := e.derive(x, v)
	if err != nil {
		return nil, err
	}
	return e.Simplify(d), nil
}

// DeriveN applies Derive for each variable in turn, so DeriveN(x, 'x', 'y')
// is the mixed partial derivative d/dy d/dx x. With no variables, the result
// is x simplified.
func (e *Engine) DeriveN(x Expr, vars ...Var) (Expr, error) {
	r := e.Simplify(x)
	for _, v := range vars {
		var err error
		r, err = e.Derive(r, v)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// derive builds the raw derivative. Subexpressions are differentiated with
// Derive so that their results are simplified before being combined.
func (e *Engine) derive(x Expr, v Var) (Expr, error) {
	switch x := x.(type) {
	case Const, Named:
		return Const(0), nil
	case Monomial:
		return deriveMonomial(x, v), nil
	case Binary:
		return e.deriveBinary(x, v)
	case Call:
		return e.deriveCall(x, v)
	default:
		return nil, &UnsupportedError{Node: x, Reason: "unknown expression type"}
	}
}

func deriveMonomial(m Monomial, v Var) Expr {
	switch {
	case m.Var != v, m.Power == 0:
		return Const(0)
	case m.Power == 1:
		return Const(m.Factor)
	default:
		return Monomial{Factor: m.Factor * float64(m.Power), Var: m.Var, Power: m.Power - 1}
	}
}

func (e *Engine) deriveBinary(op Binary, v Var) (Expr, error) {
	switch op.Op {
	case Add, Sub:
		l, err := e.Derive(op.Left, v)
		if err != nil {
			return nil, err
		}
		r, err := e.Derive(op.Right, v)
		if err != nil {
			return nil, err
		}
		return Binary{Op: op.Op, Left: l, Right: r}, nil
	case Mul:
		// d(l r) = dl r + dr l
		l, err := e.Derive(op.Left, v)
		if err != nil {
			return nil, err
		}
		r, err := e.Derive(op.Right, v)
		if err != nil {
			return nil, err
		}
		return Sum(Product(l, op.Right), Product(r, op.Left)), nil
	case Div:
		return nil, &UnsupportedError{Node: op, Reason: "quotient rule is not implemented"}
	default:
		return nil, &UnsupportedError{Node: op, Reason: "unknown operation " + op.Op.String()}
	}
}

func (e *Engine) deriveCall(c Call, v Var) (Expr, error) {
	if !FreeVars(c.Arg).Has(v) {
		return Const(0), nil
	}
	switch c.Func {
	case Sin:
		d := Expr(Call{Func: Cos, Arg: c.Arg})
		if e.chain == Full {
			du, err := e.Derive(c.Arg, v)
			if err != nil {
				return nil, err
			}
			d = Product(d, du)
		}
		e.rewrote("derive", c, d)
		return d, nil
	case Cos:
		return nil, &UnsupportedError{Node: c, Reason: "derivative of cos is not implemented"}
	default:
		return nil, &UnsupportedError{Node: c, Reason: "unknown function " + c.Func.String()}
	}
}
