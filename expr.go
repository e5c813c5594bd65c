package symbolic

import "strconv"

// Var is a variable name. Variables are single characters.
type Var rune

func (v Var) String() string {
	return string(v)
}

// Expr is an expression tree. The concrete type of an Expr is always one of
// Const, Named, Monomial, Binary, or Call.
//
// Expressions are values. No operation in this package modifies a tree it is
// given; results are always newly built, although they may share unchanged
// subtrees with their inputs.
type Expr interface {
	// String formats the expression in syntax that Parse reads back to an
	// equal tree, with two exceptions. A variable whose name the parser
	// treats as a constant, such as e under the default constants, reads
	// back as that constant. A NaN constant prints as NaN, which does not
	// parse at all.
	String() string

	expr()
}

// Const is a numeric constant.
type Const float64

// Named is a symbolic constant such as pi. It is never reduced to a number
// during simplification and does not depend on any variable.
type Named string

// Monomial is Factor * Var^Power.
//
// A Power of 0 is permitted, and Simplify does not rewrite it to a constant.
type Monomial struct {
	Factor float64
	Var    Var
	Power  uint
}

// Binary is a binary arithmetic operation.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Call is an application of a function to an argument.
type Call struct {
	Func Func
	Arg  Expr
}

func (Const) expr()    {}
func (Named) expr()    {}
func (Monomial) expr() {}
func (Binary) expr()   {}
func (Call) expr()     {}

// Op is a binary operation kind.
type Op int8

const (
	Add Op = iota
	Sub
	Mul
	Div
)

func (op Op) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Identity returns the identity element of op: 0 for Add and Sub, 1 for Mul
// and Div. For Sub and Div it is only a right identity.
func Identity(op Op) Const {
	switch op {
	case Add, Sub:
		return 0
	case Mul, Div:
		return 1
	default:
		panic("symbolic: identity of invalid operation " + op.String())
	}
}

// commutative reports whether the identity of op is also a left identity.
func (op Op) commutative() bool {
	return op == Add || op == Mul
}

// Func is a function that may be applied in a Call.
type Func int8

const (
	Sin Func = iota
	Cos
)

func (f Func) String() string {
	switch f {
	case Sin:
		return "sin"
	case Cos:
		return "cos"
	default:
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
}

// Mono is a shortcut to create a monomial.
func Mono(factor float64, v Var, power uint) Monomial {
	return Monomial{Factor: factor, Var: v, Power: power}
}

// Sum returns l + r.
func Sum(l, r Expr) Binary {
	return Binary{Op: Add, Left: l, Right: r}
}

// Difference returns l - r.
func Difference(l, r Expr) Binary {
	return Binary{Op: Sub, Left: l, Right: r}
}

// Product returns l * r.
func Product(l, r Expr) Binary {
	return Binary{Op: Mul, Left: l, Right: r}
}

// Quotient returns l / r.
func Quotient(l, r Expr) Binary {
	return Binary{Op: Div, Left: l, Right: r}
}

// Apply returns f(arg).
func Apply(f Func, arg Expr) Call {
	return Call{Func: f, Arg: arg}
}
