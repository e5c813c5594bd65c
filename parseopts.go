package symbolic

import (
	"strconv"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	constopt []string
	noconsts struct{}
	eofopt   struct {
		c, s bool
		ws   string
	}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// consts is the set of identifiers parsed as named constants.
	consts map[string]bool
	// wseof is a string containing the whitespace characters that trigger an
	// EOF token from the lexer.
	wseof string
	// ceof and seof indicate whether commas and semicolons, respectively, are
	// allowed at the end of an expression.
	ceof, seof bool
}

// defaultConsts are the named constants recognized without options. Context
// knows the value of each.
var defaultConsts = []string{"pi", "e"}

// ParseConst makes the parser treat the given identifiers as named constants.
// A single-rune name shadows the variable of the same name.
func ParseConst(names ...string) ParseOption {
	return constopt(append([]string(nil), names...))
}

func (o constopt) parseOption(p parsectx) parsectx {
	// Always make a copy so that options never alias each other's sets.
	m := make(map[string]bool, len(p.consts)+len(o))
	for k := range p.consts {
		m[k] = true
	}
	for _, name := range o {
		m[name] = true
	}
	p.consts = m
	return p
}

// DisableDefaultConsts stops the parser from recognizing pi and e as named
// constants. Constants given with ParseConst after this option still apply.
// Without pi and e, "e" is the variable e, and "pi" is an unknown identifier.
func DisableDefaultConsts() ParseOption {
	return noconsts{}
}

func (noconsts) parseOption(p parsectx) parsectx {
	p.consts = map[string]bool{}
	return p
}

// StopOn tells the parser to treat a list of characters as ending the
// expression. Each rune must be a comma, semicolon, or whitespace codepoint.
// Whitespace does not end an expression where a term is expected, e.g. at the
// beginning of an expression or following an operator or bracket.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default termination behavior, which
// is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	var o eofopt
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		switch {
		case r == ',':
			o.c = true
		case r == ';':
			o.s = true
		case unicode.IsSpace(r):
			if have(r) {
				continue
			}
			v = append(v, r)
		default:
			panic("symbolic: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	o.ws = string(v)
	return &o
}

func (o *eofopt) parseOption(p parsectx) parsectx {
	p.ceof = o.c
	p.seof = o.s
	p.wseof = o.ws
	return p
}

// ParsingPreset combines options into one that may be more efficient when
// using the same non-default options for many calls to Parse. A preset
// replaces the effect of any options applied before it, but options applied
// after it still take effect.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := newParsectx(opts)
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	// Other options copy consts before changing it, so sharing is safe.
	return *o
}

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{consts: make(map[string]bool, len(defaultConsts))}
	for _, name := range defaultConsts {
		p.consts[name] = true
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}
