package symbolic

// Equal reports whether a and b are structurally identical. Numbers are
// compared exactly, so Const(math.NaN()) is not equal to itself.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case Const:
		b, ok := b.(Const)
		return ok && a == b
	case Named:
		b, ok := b.(Named)
		return ok && a == b
	case Monomial:
		b, ok := b.(Monomial)
		return ok && a == b
	case Binary:
		b, ok := b.(Binary)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case Call:
		b, ok := b.(Call)
		return ok && a.Func == b.Func && Equal(a.Arg, b.Arg)
	case nil:
		return b == nil
	default:
		return false
	}
}
