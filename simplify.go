package symbolic

// Simplify rewrites e until no simplification rule applies, using the default
// engine.
func Simplify(e Expr) Expr {
	return defaultEngine.Simplify(e)
}

// Reduce performs one rewriting step on e using the default engine.
func Reduce(e Expr) (Expr, bool) {
	return defaultEngine.Reduce(e)
}

// Simplify rewrites x to its normal form. The result is equivalent to x, and
// Simplify(Simplify(x)) is equal to Simplify(x).
//
// Simplify normalizes children before trying the rules at the root. Every
// root rule produces either a normalized child or a leaf, so a single
// bottom-up pass reaches the same form as applying Reduce until it reports
// no change.
func (e *Engine) Simplify(x Expr) Expr {
	switch x := x.(type) {
	case Binary:
		n := Binary{Op: x.Op, Left: e.Simplify(x.Left), Right: e.Simplify(x.Right)}
		if r, rule, ok := e.rewriteBinary(n); ok {
			e.rewrote(rule, n, r)
			return r
		}
		return n
	case Call:
		n := Call{Func: x.Func, Arg: e.Simplify(x.Arg)}
		if r, rule, ok := rewriteCall(n); ok {
			e.rewrote(rule, n, r)
			return r
		}
		return n
	default:
		return x
	}
}

// Reduce tries a single rewrite. If a rule applies at the root of x, the
// result is that rewrite. Otherwise Reduce tries each child of x
// independently and rebuilds x from the results. The second result is false
// if nothing anywhere in x could be rewritten, in which case the first result
// is x itself.
func (e *Engine) Reduce(x Expr) (Expr, bool) {
	switch x := x.(type) {
	case Binary:
		if r, rule, ok := e.rewriteBinary(x); ok {
			e.rewrote(rule, x, r)
			return r, true
		}
		l, lok := e.Reduce(x.Left)
		r, rok := e.Reduce(x.Right)
		if !lok && !rok {
			return x, false
		}
		return Binary{Op: x.Op, Left: l, Right: r}, true
	case Call:
		if r, rule, ok := rewriteCall(x); ok {
			e.rewrote(rule, x, r)
			return r, true
		}
		a, ok := e.Reduce(x.Arg)
		if !ok {
			return x, false
		}
		return Call{Func: x.Func, Arg: a}, true
	default:
		// Constants, named constants, and monomials are always irreducible.
		return x, false
	}
}

// rewriteBinary applies the first matching root rule to op.
func (e *Engine) rewriteBinary(op Binary) (Expr, string, bool) {
	if op.Op < Add || op.Op > Div {
		return nil, "", false
	}
	id := Identity(op.Op)
	if (e.ident == LiteralIdentity || op.Op.commutative()) && Equal(op.Left, id) {
		return op.Right, "left-identity", true
	}
	if Equal(op.Right, id) {
		return op.Left, "right-identity", true
	}
	switch op.Op {
	case Mul:
		if isZero(op.Left) || isZero(op.Right) {
			return Const(0), "mul-zero", true
		}
		if m, c, ok := monoConst(op.Left, op.Right); ok {
			return Monomial{Factor: m.Factor * float64(c), Var: m.Var, Power: m.Power}, "fold", true
		}
	case Div:
		if isZero(op.Left) {
			return Const(0), "div-zero", true
		}
	case Add:
		l, lok := op.Left.(Monomial)
		r, rok := op.Right.(Monomial)
		if lok && rok && l.Var == r.Var && l.Power == r.Power {
			return Monomial{Factor: l.Factor + r.Factor, Var: l.Var, Power: l.Power}, "collect", true
		}
	}
	return nil, "", false
}

// rewriteCall applies the root rule for function calls.
func rewriteCall(c Call) (Expr, string, bool) {
	if c.Func == Sin && isZero(c.Arg) {
		return Const(0), "sin-zero", true
	}
	return nil, "", false
}

func isZero(e Expr) bool {
	c, ok := e.(Const)
	return ok && c == 0
}

// monoConst matches a monomial and a constant in either order.
func monoConst(a, b Expr) (Monomial, Const, bool) {
	if m, ok := a.(Monomial); ok {
		if c, ok := b.(Const); ok {
			return m, c, true
		}
	}
	if c, ok := a.(Const); ok {
		if m, ok := b.(Monomial); ok {
			return m, c, true
		}
	}
	return Monomial{}, 0, false
}
