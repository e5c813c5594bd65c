package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/symbolic"
)

const prompt = "∂> "

const help = `Enter an expression to simplify it. Prefix it with d/dx to differentiate
with respect to x; prefixes may repeat, e.g. d/dx d/dy x^2 y^2.
When every variable has a value, the result is also evaluated.

Commands:
  :help           show this message
  :quit           leave (also Ctrl+D)
  :set x=value    give the variable x a value
  :vars           list variables with values
  :chain [mode]   show or set the chain rule for sin: literal or full
  :identity [mode]
                  show or set which left identities are removed: literal
                  (0 - x and 1 / x too) or sound (+ and * only)
`

// completions are offered by tab completion.
var completions = []string{"sin(", "cos(", "pi", "d/d", ":help", ":quit", ":set ", ":vars", ":chain ", ":identity "}

// repl runs an interactive session with line editing and history.
func (s *session) repl(out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		var r []string
		for _, c := range completions {
			if strings.HasPrefix(c, l) {
				r = append(r, c)
			}
		}
		return r
	})
	if s.cfg.History != "" {
		if f, err := os.Open(s.cfg.History); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(s.cfg.History)
			if err != nil {
				s.log.Printf("saving history: %v", err)
				return
			}
			line.WriteHistory(f)
			f.Close()
		}()
	}

	fmt.Fprintln(out, "Type :help for commands, Ctrl+D to quit")
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if s.handle(input, out) {
			return nil
		}
	}
}

// handle processes one line of interactive input. It returns true when the
// session should end.
func (s *session) handle(input string, out io.Writer) bool {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return false
	case strings.HasPrefix(input, ":"):
		return s.command(input, out)
	}
	vars, src := splitDerivs(input)
	e, err := symbolic.ParseString(src, s.popts...)
	if err != nil {
		fmt.Fprintln(out, err)
		return false
	}
	r, err := s.eng.DeriveN(e, vars...)
	if err != nil {
		fmt.Fprintln(out, err)
		return false
	}
	fmt.Fprintln(out, s.describe(r))
	return false
}

func (s *session) command(input string, out io.Writer) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprint(out, help)
	case ":quit", ":q", ":exit":
		return true
	case ":set":
		name, val, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || utf8.RuneCountInString(name) != 1 {
			fmt.Fprintln(out, `usage: :set x=value`)
			return false
		}
		e, err := symbolic.ParseString(strings.TrimSpace(val), s.popts...)
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		v, err := s.ctx.Eval(e)
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		r, _ := utf8.DecodeRuneInString(name)
		s.ctx.Set(symbolic.Var(r), v)
		s.bound.Add(symbolic.Var(r))
		fmt.Fprintf(out, "%s = %s\n", name, s.number(v))
	case ":vars":
		s.listVars(out)
	case ":chain":
		switch arg {
		case "":
		case "literal", "full":
			s.cfg.ChainRule = arg
			s.eng = symbolic.New(s.cfg.EngineOptions(s.log)...)
		default:
			fmt.Fprintf(out, "unknown chain rule %q\n", arg)
			return false
		}
		fmt.Fprintln(out, s.eng.ChainRule())
	case ":identity":
		switch arg {
		case "":
		case "literal", "sound":
			s.cfg.LeftIdentity = arg
			s.eng = symbolic.New(s.cfg.EngineOptions(s.log)...)
		default:
			fmt.Fprintf(out, "unknown identity rule %q\n", arg)
			return false
		}
		fmt.Fprintln(out, s.eng.IdentityRule())
	default:
		fmt.Fprintf(out, "unknown command %s; try :help\n", cmd)
	}
	return false
}

func (s *session) listVars(out io.Writer) {
	for _, v := range s.bound.Sorted() {
		fmt.Fprintf(out, "%c = %s\n", v, s.number(s.ctx.Lookup(v)))
	}
}

// splitDerivs removes leading d/dv prefixes from input, returning the
// variables in order.
func splitDerivs(input string) ([]symbolic.Var, string) {
	var vars []symbolic.Var
	for strings.HasPrefix(input, "d/d") {
		r, n := utf8.DecodeRuneInString(input[3:])
		if !unicode.IsLetter(r) {
			break
		}
		rest := input[3+n:]
		if rest != "" {
			c, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(c) && c != '(' {
				break
			}
		}
		vars = append(vars, symbolic.Var(r))
		input = strings.TrimLeftFunc(rest, unicode.IsSpace)
	}
	return vars, input
}
