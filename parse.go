package symbolic

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = num | var | const | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | Jux | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname Expr
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = var '^' num
// Jux = Expr Expr

// funcnames maps identifiers to the functions they call.
var funcnames = map[string]Func{
	"sin": Sin,
	"cos": Cos,
}

// Parse parses an expression. The given options are applied in order.
//
// Variables are single characters; "x y" is the product of x and y, whereas
// "xy" is an unknown identifier. A number written before a monomial is its
// coefficient, so "3x^2" and "3 x^2" both parse to Mono(3, 'x', 2), but
// "3*x^2" is a Binary multiplication.
func Parse(src io.RuneScanner, opts ...ParseOption) (Expr, error) {
	scan := lex(src)
	p := newParsectx(opts)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenSep:
		switch {
		case p.ceof && tok.text == ",":
		case p.seof && tok.text == ";":
		default:
			return nil, itShouldNotHaveEndedThisWay(tok, -1)
		}
	default:
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: 1}
	}
	return lower(n)
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// MustParse is like ParseString but panics if the expression cannot be
// parsed. It simplifies initialization of global expressions and tests.
func MustParse(src string, opts ...ParseOption) Expr {
	e, err := ParseString(src, opts...)
	if err != nil {
		panic("symbolic: MustParse(" + strconv.Quote(src) + "): " + err.Error())
	}
	return e
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent:
			// (parsed) x -> (parsed) (x)
			// (parsed) x^(expr) -> (parsed) (x^(expr))
			scan.push(tok)
			if !termprec.moreBinding(until) {
				return n, nil
			}
			rhs, err := parseterm(scan, p, termprec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeJux, pos: tok.pos, left: n, right: rhs}
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				scan.push(end)
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenOpen:
			// Multiplication by a bracketed term: 2 (expr) -> (2) (expr).
			if !termprec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parsebracket(scan, p, tok)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeJux, pos: tok.pos, left: n, right: rhs}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("symbolic: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// any encountered token must be valid as the start of a subexpression, and
// whitespace normally lexed as EOF is ignored.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	// Don't use EOF whitespace for LHS.
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text, pos: tok.pos}, nil
	case tokenIdent:
		if fn, ok := funcnames[tok.text]; ok {
			return parsecall(scan, p, until, fn, tok)
		}
		if p.consts[tok.text] {
			return &node{kind: nodeConst, name: tok.text, pos: tok.pos}, nil
		}
		if utf8.RuneCountInString(tok.text) != 1 {
			return nil, &IdentError{Col: tok.pos, Name: tok.text}
		}
		return &node{kind: nodeVar, name: tok.text, pos: tok.pos}, nil
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			scan.push(end)
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		return parsebracket(scan, p, tok)
	case tokenClose:
		// Let the caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		switch tok.text {
		case ",":
			if p.ceof {
				scan.push(tok)
				return nil, nil
			}
		case ";":
			if p.seof {
				scan.push(tok)
				return nil, nil
			}
		default:
			panic("symbolic: invalid separator " + strconv.Quote(tok.text))
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("symbolic: unknown token: " + tok.String())
	}
}

// parsebracket parses a bracketed subexpression following the already
// scanned open bracket.
func parsebracket(scan *lexer, p *parsectx, open lexToken) (*node, error) {
	match := rightbracket(open.text)
	// Neither separators nor whitespace end a bracketed expression.
	inner := *p
	inner.ceof, inner.seof, inner.wseof = false, false, ""
	n, err := parseterm(scan, &inner, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return nil, itShouldNotHaveEndedThisWay(end, match)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return n, nil
}

// parsecall parses the argument to a function. The argument is either a
// bracketed expression or a bare term: "sin x y" is sin(x y).
func parsecall(scan *lexer, p *parsectx, until operator, fn Func, name lexToken) (*node, error) {
	// We respect whitespace here so that sin\nx doesn't string together
	// expressions.
	tok, err := scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		arg, err := parsebracket(scan, p, tok)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, fn: fn, pos: name.pos, left: arg}, nil
	case tokenNum, tokenIdent, tokenOp:
		scan.push(tok)
		if termprec.moreBinding(until) {
			until = termprec
		}
		arg, err := parseterm(scan, p, until)
		if err != nil {
			return nil, err
		}
		if arg == nil {
			end := scan.must()
			scan.push(end)
			return nil, &CallError{Col: end.pos, Func: name.text}
		}
		return &node{kind: nodeCall, fn: fn, pos: name.pos, left: arg}, nil
	case tokenClose, tokenSep, tokenEOF:
		return nil, &CallError{Col: tok.pos, Func: name.text}
	default:
		panic("symbolic: unknown token: " + tok.String())
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("symbolic: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator in the middle of an expression.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("symbolic: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Lower is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the default precedence for parsing terms. Its prec
	// should match that of multiplication.
	termprec = operator{5, true, nodeJux}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
