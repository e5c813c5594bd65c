package symbolic

import (
	"strconv"
	"strings"
)

// node is a node in the parse tree of an expression. The parser produces
// nodes, and lower turns them into an Expr.
type node struct {
	kind nodeKind

	name string
	fn   Func
	pos  int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum   // name is the number's text
	nodeVar   // name is a single-rune variable
	nodeConst // name is a named constant
	nodeCall  // fn applied to left

	nodeNeg // negate left
	nodeNop // left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
	nodeJux // left right, a multiplication by juxtaposition
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeVar:
		return "Var"
	case nodeConst:
		return "Const"
	case nodeCall:
		return "Call"
	case nodeNeg:
		return "Neg"
	case nodeNop:
		return "Nop"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodePow:
		return "Pow"
	case nodeJux:
		return "Jux"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes the parse tree with alternating round and square brackets
// grouping each term.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, !square)
		}
		b.WriteByte('$')
	case nodeNum, nodeVar, nodeConst:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.fn.String())
		n.left.fmt(b, !square)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b, !square)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(binopText[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	case nodeJux:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	default:
		panic("symbolic: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

var binopText = map[nodeKind]string{
	nodeAdd: "+",
	nodeSub: "-",
	nodeMul: "*",
	nodeDiv: "/",
	nodePow: "^",
}
