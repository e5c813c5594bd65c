package symbolic

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two parse trees are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum, nodeVar, nodeConst:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.fn != m.fn {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg, nodeNop:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeJux:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic("invalid node kind: n=" + n.String() + " m=" + m.String())
	}
	return nil, nil
}

// parsetree parses src to a parse tree without lowering it.
func parsetree(src string, opts ...ParseOption) (*node, error) {
	scan := lex(strings.NewReader(src))
	p := newParsectx(opts)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return n, nil
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestTermPrecMatchesMultiplication(t *testing.T) {
	if p := binop("*").prec; p != termprec.prec {
		t.Errorf("terms have prec %d but * has prec %d", termprec.prec, p)
	}
	if p := binop("×").prec; p != termprec.prec {
		t.Errorf("terms have prec %d but × has prec %d", termprec.prec, p)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"square", "[x]", "x"},
		{"curly", "{x}", "x"},
		{"multi", "([{{[((x))]}}])", "x"},

		{"add", "x+y", "(x)+(y)"},
		{"sub", "x-y", "(x)-(y)"},
		{"mul", "x*y", "(x)*(y)"},
		{"div", "x/y", "(x)/(y)"},
		{"altmul", "x×y", "x*y"},
		{"altdiv", "x÷y", "x/y"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"terms4", "w x y z", "w (x (y z))"},

		{"desc", "w^2*y+z", "((w^2)*y)+z"},
		{"asc", "w+x*y^3", "w+(x*(y^3))"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"negpow", "-x^2", "-(x^2)"},
		{"powterms", "x y^2", "x (y^2)"},
		{"coef", "3x^2", "3 (x^2)"},
		{"negcoef", "-3x", "(-3) x"},
		{"parenterms", "x(y)", "x y"},

		{"call-bare", "sin x", "sin(x)"},
		{"call-terms", "sin x y * z", "sin(x y) * z"},
		{"call-add", "sin x + y", "sin(x) + y"},
		{"call-pow", "sin x^2", "sin(x^2)"},
		{"call-neg", "sin -x", "sin(-x)"},
		{"call-call", "sin cos x", "sin(cos(x))"},
		{"call-mul", "2 sin x", "2 (sin x)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := parsetree(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := parsetree(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.diff(b)
			if d != nil || e != nil {
				t.Errorf("mismatched parse tree:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a, d, c.b, b, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	x, y := Mono(1, 'x', 1), Mono(1, 'y', 1)
	cases := []struct {
		name string
		src  string
		want Expr
	}{
		{"num", "2.5", Const(2.5)},
		{"negnum", "-1", Const(-1)},
		{"inf1", "inf", Const(math.Inf(1))},
		{"inf2", "Inf", Const(math.Inf(1))},
		{"inf3", "∞", Const(math.Inf(1))},
		{"var", "x", x},
		{"unicode", "θ", Mono(1, 'θ', 1)},
		{"pi", "pi", Named("pi")},
		{"e", "e", Named("e")},
		{"negvar", "-x", Mono(-1, 'x', 1)},
		{"pow", "x^3", Mono(1, 'x', 3)},
		{"pow0", "x^0", Mono(1, 'x', 0)},
		{"coef", "3x^2", Mono(3, 'x', 2)},
		{"coefspace", "3 x^2", Mono(3, 'x', 2)},
		{"negcoef", "-2.5 y", Mono(-2.5, 'y', 1)},
		{"parencoef", "(2)x", Mono(2, 'x', 1)},
		{"nestedcoef", "2 3 x", Mono(6, 'x', 1)},
		{"zeroinf", "0 inf x", Product(Const(0), Mono(math.Inf(1), 'x', 1))},
		{"parenpow", "(x)^2", Mono(1, 'x', 2)},
		{"mulcoef", "3*x^2", Product(Const(3), Mono(1, 'x', 2))},
		{"jux", "x y", Product(x, y)},
		{"juxnums", "2 3", Product(Const(2), Const(3))},
		{"add", "x + 1", Sum(x, Const(1))},
		{"sub", "x - y", Difference(x, y)},
		{"div", "x / y", Quotient(x, y)},
		{"negbinary", "-(x + y)", Product(Const(-1), Sum(x, y))},
		{"sin", "sin(x)", Apply(Sin, x)},
		{"cos", "cos x", Apply(Cos, x)},
		{"sinsum", "sin(x + y) * 2", Product(Apply(Sin, Sum(x, y)), Const(2))},
		{"2pi", "2 pi", Product(Const(2), Named("pi"))},
		{"poly", "3x^2 + 2x + 1", Sum(Sum(Mono(3, 'x', 2), Mono(2, 'x', 1)), Const(1))},
		{"2e", "2e", Product(Const(2), Named("e"))},
		{"2e+x", "2e+x", Sum(Product(Const(2), Named("e")), x)},
		{"2E", "2E", Mono(2, 'E', 1)},
		{"2e3x", "2e3x", Mono(2000, 'x', 1)},
		{"2e-1", "2e-1", Const(0.2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !Equal(got, c.want) {
				t.Errorf("%q: want %v, got %v", c.src, c.want, got)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		e    Expr
		want string
	}{
		{"const", Const(2), "2"},
		{"negconst", Const(-0.5), "-0.5"},
		{"inf", Const(math.Inf(1)), "+Inf"},
		{"named", Named("pi"), "pi"},
		{"var", Mono(1, 'x', 1), "x"},
		{"negvar", Mono(-1, 'x', 1), "-x"},
		{"mono", Mono(3, 'x', 2), "3 x^2"},
		{"mono0", Mono(2, 'y', 0), "2 y^0"},
		{"zeromono", Mono(0, 'x', 1), "0 x"},
		{"sum", Sum(Mono(1, 'x', 1), Const(1)), "(x + 1)"},
		{"nested", Product(Sum(Const(1), Const(2)), Mono(1, 'x', 1)), "((1 + 2) * x)"},
		{"call", Apply(Sin, Mono(1, 'x', 1)), "sin(x)"},
		{"callbinary", Apply(Cos, Sum(Mono(1, 'x', 1), Const(1))), "cos(x + 1)"},
		{"nil", Binary{Op: Add, Left: Const(1)}, "(1 + $nil$)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.e.String(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestExprStringLimits(t *testing.T) {
	// A variable named like a constant prints as its name.
	m := Mono(2, 'e', 1)
	if got := m.String(); got != "2 e" {
		t.Errorf("want %q, got %q", "2 e", got)
	}
	got, err := ParseString(m.String())
	if err != nil {
		t.Fatalf("%q failed to parse: %v", m, err)
	}
	if want := Product(Const(2), Named("e")); !Equal(got, want) {
		t.Errorf("%q with default constants: want %v, got %v", m, want, got)
	}
	got, err = ParseString(m.String(), DisableDefaultConsts())
	if err != nil {
		t.Fatalf("%q failed to parse: %v", m, err)
	}
	if !Equal(got, m) {
		t.Errorf("%q without default constants: want %v, got %v", m, m, got)
	}

	nan := Const(math.NaN())
	if got := nan.String(); got != "NaN" {
		t.Errorf("want NaN, got %q", got)
	}
	if _, err := ParseString(nan.String()); err == nil {
		t.Errorf("NaN parsed")
	}
}

func TestExprStringRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"neg", "-x"},
		{"negnum", "-1"},
		{"add", "x+y"},
		{"sub", "x-y"},
		{"mul", "x*y"},
		{"div", "x/y"},
		{"terms", "x y"},
		{"coef", "3x^2"},
		{"negcoef", "-2.5x^3"},
		{"bigcoef", "1e21 x"},
		{"smallcoef", "1e-7 x"},
		{"infcoef", "inf x"},
		{"neginfcoef", "-inf x"},
		{"subneg", "1 - -2x"},
		{"mulneg", "y * -3x^2"},
		{"negcall", "-sin x"},
		{"negsum", "-(x+y)"},
		{"pi", "2 pi"},
		{"call", "sin(x+y)"},
		{"callcall", "sin cos(x) y"},
		{"poly", "3x^2 + 2x + 1"},
		{"mixed", "2 x^2 x + sin(x)/cos(y) - e"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			if !Equal(a, b) {
				t.Errorf("mismatched expressions:\n\t%q parses %v\n\t%q parses %v", c.src, a, s, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyterm", "x()", new(EmptyExpressionError), 3, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "x*", new(EmptyExpressionError), 3, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), 4, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"left", "(x", new(BracketError), 3, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), 2, []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"mismatch", "(x]", new(BracketError), 3, []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"mismatch-mul", "x*(y]", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"nonunary", "*x", new(OperatorError), 1, []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"nonbinary", "x^^2", new(OperatorError), 3, []string{`(?i)\bunary\b`, `\^`}, nil},
		{"sep", "x, y", new(SeparatorError), 2, []string{`","`}, nil},
		{"sepbrackets", "(x, y)", new(SeparatorError), 3, []string{`","`}, nil},
		{"call-eof", "sin", new(CallError), 4, []string{`(?i)\bargument\b`, `\bsin\b`}, nil},
		{"call-close", "(cos)", new(CallError), 5, []string{`(?i)\bargument\b`, `\bcos\b`}, nil},
		{"call-empty", "sin()", new(EmptyExpressionError), 5, []string{`\)`}, nil},
		{"call-mismatch", "sin(x]", new(BracketError), 6, []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"pow-var", "x^y", new(PowerError), 2, []string{`\bx\b`, `\by\b`}, nil},
		{"pow-neg", "x^-1", new(PowerError), 2, []string{`(?i)\bnon-negative\b`}, nil},
		{"pow-frac", "x^0.5", new(PowerError), 2, []string{`0\.5`}, nil},
		{"pow-num", "2^3", new(PowerError), 2, nil, nil},
		{"pow-pow", "x^2^3", new(PowerError), 2, nil, nil},
		{"pow-call", "sin(x)^2", new(PowerError), 7, nil, nil},
		{"ident", "xy", new(IdentError), 1, []string{`"xy"`}, nil},
		{"identlater", "2 + foo", new(IdentError), 5, []string{`"foo"`}, nil},
		{"coefident", "3ex", new(IdentError), 2, []string{`"ex"`}, nil},
		{"lexer", "2^sin(-$)", new(LexError), 9, []string{`\$`}, nil},

		// Cases identified with fuzzing.
		{"op-paren", "(b*)", new(EmptyExpressionError), 4, []string{`\)`}, nil},
		{"haskell", "(+)", new(EmptyExpressionError), 3, []string{`\)`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			var ierr InputError
			if !errors.As(err, &ierr) {
				t.Fatalf("%T is not an InputError", err)
			}
			if ierr.Pos() != c.pos {
				t.Errorf("error %q from %q at %d, want %d", err, c.src, ierr.Pos(), c.pos)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestParseConsts(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		want Expr
	}{
		{"default-e", "e", nil, Named("e")},
		{"disabled-e", "e", []ParseOption{DisableDefaultConsts()}, Mono(1, 'e', 1)},
		{"disabled-2e", "2e", []ParseOption{DisableDefaultConsts()}, Mono(2, 'e', 1)},
		{"custom", "tau", []ParseOption{ParseConst("tau")}, Named("tau")},
		{"custom-shadow", "c", []ParseOption{ParseConst("c")}, Named("c")},
		{"disabled-then-custom", "g", []ParseOption{DisableDefaultConsts(), ParseConst("g")}, Named("g")},
		{"nil-option", "pi", []ParseOption{nil}, Named("pi")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseString(c.src, c.opts...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !Equal(got, c.want) {
				t.Errorf("%q: want %v, got %v", c.src, c.want, got)
			}
		})
	}
	if _, err := ParseString("pi", DisableDefaultConsts()); err == nil {
		t.Errorf("pi parsed with default constants disabled")
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(DisableDefaultConsts(), ParseConst("g"), StopOn(','))
	for i := 0; i < 2; i++ {
		got, err := ParseString("g e", preset)
		if err != nil {
			t.Fatalf("preset parse %d failed: %v", i, err)
		}
		if want := Product(Named("g"), Mono(1, 'e', 1)); !Equal(got, want) {
			t.Errorf("want %v, got %v", want, got)
		}
	}
	// Options after the preset apply on top of it.
	got, err := ParseString("tau*g", preset, ParseConst("tau"))
	if err != nil {
		t.Fatalf("preset with extra constant failed: %v", err)
	}
	if want := Product(Named("tau"), Named("g")); !Equal(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if _, err := ParseString("tau", preset); err == nil {
		t.Errorf("later option leaked into preset")
	}
	// Options before the preset are replaced.
	if _, err := ParseString("tau", ParseConst("tau"), preset); err == nil {
		t.Errorf("earlier option survived preset")
	}
	r := strings.NewReader("g, 1")
	if _, err := Parse(r, preset); err != nil {
		t.Fatalf("preset StopOn parse failed: %v", err)
	}
}

func TestStopOn(t *testing.T) {
	cases := []struct {
		name string
		src  string
		stop string
		want []Expr
	}{
		{"newline", "x\nx", "\n", []Expr{Mono(1, 'x', 1), Mono(1, 'x', 1)}},
		{"comma", "x,y", ",", []Expr{Mono(1, 'x', 1), Mono(1, 'y', 1)}},
		{"semi", "x;2", ";", []Expr{Mono(1, 'x', 1), Const(2)}},
		{"num", "1\n1", "\n", []Expr{Const(1), Const(1)}},
		{"multinl", "x\n\nx", "\n", []Expr{Mono(1, 'x', 1), Mono(1, 'x', 1)}},
		{"brackets", "(x\n+ 1)\ny", "\n", []Expr{Sum(Mono(1, 'x', 1), Const(1)), Mono(1, 'y', 1)}},
		{"operator", "x +\n1\ny", "\n", []Expr{Sum(Mono(1, 'x', 1), Const(1)), Mono(1, 'y', 1)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := strings.NewReader(c.src)
			for i, want := range c.want {
				got, err := Parse(src, StopOn([]rune(c.stop)...))
				if err != nil {
					t.Fatalf("%q iter %d didn't parse: %v", c.src, i, err)
				}
				if !Equal(got, want) {
					t.Errorf("%q iter %d: want %v, got %v", c.src, i, want, got)
				}
			}
			a, err := Parse(src)
			if _, ok := err.(*EmptyExpressionError); !ok {
				t.Errorf("%q after %d iters parsed with error %#v and result %v", c.src, len(c.want), err, a)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^2*y+z+a*b^3"},
		{"descasc-parens", "(((w^2)*y)+z)+a*(b^3)"},
		{"poly", "3x^4 + 2x^3 - x^2 + 7x - 1"},
		{"nums", "1*1.1*1.1e1+1.1e-1+.1*inf+∞"},
		{"calls", "sin(x) cos(y) + sin cos z"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
