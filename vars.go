package symbolic

import "strings"

// VarSet is a set of variables.
type VarSet map[Var]struct{}

// NewVarSet creates a set containing the given variables.
func NewVarSet(vars ...Var) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in s.
func (s VarSet) Has(v Var) bool {
	_, ok := s[v]
	return ok
}

// Add adds v to s.
func (s VarSet) Add(v Var) {
	s[v] = struct{}{}
}

// Union returns a new set containing the variables of s and t.
func (s VarSet) Union(t VarSet) VarSet {
	r := make(VarSet, len(s)+len(t))
	for v := range s {
		r[v] = struct{}{}
	}
	for v := range t {
		r[v] = struct{}{}
	}
	return r
}

// Difference returns a new set containing the variables of s not in t.
func (s VarSet) Difference(t VarSet) VarSet {
	r := make(VarSet, len(s))
	for v := range s {
		if !t.Has(v) {
			r[v] = struct{}{}
		}
	}
	return r
}

// Sorted returns the variables of s in ascending order.
func (s VarSet) Sorted() []Var {
	r := make([]Var, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	// Sets are small. Insertion sort, as in sortstrs.
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j] < r[j-1]; j-- {
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
	return r
}

func (s VarSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.Sorted() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteRune(rune(v))
	}
	b.WriteByte('}')
	return b.String()
}

// FreeVars returns the set of variables appearing anywhere in e.
func FreeVars(e Expr) VarSet {
	s := make(VarSet)
	collectVars(e, s)
	return s
}

func collectVars(e Expr, s VarSet) {
	switch e := e.(type) {
	case Const, Named:
		// no variables
	case Monomial:
		s.Add(e.Var)
	case Binary:
		collectVars(e.Left, s)
		collectVars(e.Right, s)
	case Call:
		collectVars(e.Arg, s)
	}
}
