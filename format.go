package symbolic

import (
	"strconv"
	"strings"
)

// Each String method writes syntax that Parse reads back to an equal tree,
// except as noted on Expr. Binary operations are always parenthesized.

func (c Const) String() string {
	return formatFloat(float64(c))
}

func (n Named) String() string {
	return string(n)
}

func (m Monomial) String() string {
	var b strings.Builder
	m.fmt(&b)
	return b.String()
}

func (op Binary) String() string {
	var b strings.Builder
	op.fmt(&b)
	return b.String()
}

func (c Call) String() string {
	var b strings.Builder
	c.fmt(&b)
	return b.String()
}

func (m Monomial) fmt(b *strings.Builder) {
	switch m.Factor {
	case 1: // just the variable
	case -1:
		b.WriteByte('-')
	default:
		b.WriteString(formatFloat(m.Factor))
		b.WriteByte(' ')
	}
	b.WriteRune(rune(m.Var))
	if m.Power != 1 {
		b.WriteByte('^')
		b.WriteString(strconv.FormatUint(uint64(m.Power), 10))
	}
}

func (op Binary) fmt(b *strings.Builder) {
	b.WriteByte('(')
	format(b, op.Left)
	b.WriteByte(' ')
	b.WriteString(op.Op.String())
	b.WriteByte(' ')
	format(b, op.Right)
	b.WriteByte(')')
}

func (c Call) fmt(b *strings.Builder) {
	b.WriteString(c.Func.String())
	if _, ok := c.Arg.(Binary); ok {
		// Already bracketed.
		format(b, c.Arg)
		return
	}
	b.WriteByte('(')
	format(b, c.Arg)
	b.WriteByte(')')
}

func format(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case Monomial:
		e.fmt(b)
	case Binary:
		e.fmt(b)
	case Call:
		e.fmt(b)
	case nil:
		// Invalid trees use invalid characters, like the parser's nodes.
		b.WriteString("$nil$")
	default:
		b.WriteString(e.String())
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
