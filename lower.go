package symbolic

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// lower converts a parse tree to an expression.
func lower(n *node) (Expr, error) {
	switch n.kind {
	case nodeNum:
		return Const(parsenum(n.name)), nil
	case nodeVar:
		r, _ := utf8.DecodeRuneInString(n.name)
		return Monomial{Factor: 1, Var: Var(r), Power: 1}, nil
	case nodeConst:
		return Named(n.name), nil
	case nodeCall:
		arg, err := lower(n.left)
		if err != nil {
			return nil, err
		}
		return Call{Func: n.fn, Arg: arg}, nil
	case nodeNop:
		return lower(n.left)
	case nodeNeg:
		x, err := lower(n.left)
		if err != nil {
			return nil, err
		}
		switch x := x.(type) {
		case Const:
			return -x, nil
		case Monomial:
			x.Factor = -x.Factor
			return x, nil
		default:
			return Product(Const(-1), x), nil
		}
	case nodePow:
		return lowerpow(n)
	case nodeJux:
		l, err := lower(n.left)
		if err != nil {
			return nil, err
		}
		r, err := lower(n.right)
		if err != nil {
			return nil, err
		}
		// A coefficient: 3 x^2.
		if c, ok := l.(Const); ok {
			if m, ok := r.(Monomial); ok {
				// 0 inf x has no coefficient.
				if f := m.Factor * float64(c); !math.IsNaN(f) {
					m.Factor = f
					return m, nil
				}
			}
		}
		return Product(l, r), nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv:
		l, err := lower(n.left)
		if err != nil {
			return nil, err
		}
		r, err := lower(n.right)
		if err != nil {
			return nil, err
		}
		return Binary{Op: nodeops[n.kind], Left: l, Right: r}, nil
	default:
		panic("symbolic: cannot lower node " + n.String())
	}
}

var nodeops = map[nodeKind]Op{
	nodeAdd: Add,
	nodeSub: Sub,
	nodeMul: Mul,
	nodeDiv: Div,
}

// lowerpow converts var^num to a monomial.
func lowerpow(n *node) (Expr, error) {
	if n.left.kind != nodeVar || n.right.kind != nodeNum {
		return nil, &PowerError{Col: n.pos, Base: n.left.String(), Exp: n.right.String()}
	}
	p, err := strconv.ParseUint(n.right.name, 10, 0)
	if err != nil {
		return nil, &PowerError{Col: n.pos, Base: n.left.String(), Exp: n.right.String()}
	}
	r, _ := utf8.DecodeRuneInString(n.left.name)
	return Monomial{Factor: 1, Var: Var(r), Power: uint(p)}, nil
}

// parsenum converts a number token to a float. The lexer has already
// validated the syntax, so the only possible error is a range error, for
// which ParseFloat returns the correctly signed infinity or zero.
func parsenum(s string) float64 {
	if s == "∞" {
		return math.Inf(1)
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
