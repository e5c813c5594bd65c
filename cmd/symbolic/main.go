package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/internal/config"
)

func main() {
	log.SetFlags(0)
	var (
		cfgname, inname, chain, ident, verb string
		given                               [][2]string
		vars                                []symbolic.Var
		nl, echo, trace, eval, repl         bool
		prec                                uint
	)
	addgiven := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		given = append(given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	addvar := func(s string) error {
		if utf8.RuneCountInString(s) != 1 {
			return fmt.Errorf("variables are single characters, not %q", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		vars = append(vars, symbolic.Var(r))
		return nil
	}
	flag.StringVar(&cfgname, "config", "", "configuration file (default symbolic.yaml or $SYMBOLIC_CONFIG)")
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "", "result formatting verb for evaluated numbers")
	flag.StringVar(&chain, "chain", "", "chain rule for sin: literal or full")
	flag.StringVar(&ident, "identity", "", "left identities to remove: literal (all operations) or sound (+ and * only)")
	flag.Func("d", "differentiate with respect to a variable (any number of times)", addvar)
	flag.Func("given", "name=value variable definition (any number of times)", addgiven)
	flag.UintVar(&prec, "p", 0, "precision of calculations in bits")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print inputs before results")
	flag.BoolVar(&trace, "trace", false, "log every rewrite")
	flag.BoolVar(&eval, "eval", false, "evaluate results using given variables")
	flag.BoolVar(&repl, "i", false, "start an interactive session")
	flag.Parse()

	cfg, err := config.Load(cfgname, os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	// Flags override the configuration file.
	if chain != "" {
		cfg.ChainRule = chain
	}
	if ident != "" {
		cfg.LeftIdentity = ident
	}
	if verb != "" {
		cfg.Format = strings.TrimPrefix(verb, "%")
	}
	if prec != 0 {
		cfg.Precision = prec
	}
	if trace {
		cfg.Trace = true
	}
	for _, d := range given {
		cfg.Given[d[0]] = d[1]
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	s, err := newSession(cfg, log.New(os.Stderr, "", 0))
	if err != nil {
		log.Fatal(err)
	}
	if repl {
		if err := s.repl(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	var ins []io.RuneScanner
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		ins = append(ins, f)
	}
	for _, arg := range flag.Args() {
		ins = append(ins, strings.NewReader(arg))
	}

	opts := s.popts
	if nl {
		opts = append(opts[:len(opts):len(opts)], symbolic.StopOn('\n'))
	}
	p, err := parseAll(ins, nl, opts)
	if err != nil {
		log.Fatal(err)
	}
	if !s.batch(os.Stdout, p, vars, echo, eval) {
		os.Exit(1)
	}
}

// parsed is one expression read in batch mode, or the error that stopped it
// from being read.
type parsed struct {
	e   symbolic.Expr
	err error
}

// parseAll reads every expression from ins. If nl is set, each line is a
// separate expression, blank lines are skipped, and a parse error affects
// only its own line. Otherwise, a parse error ends the input that contains it.
// The error result is only for failures to read.
func parseAll(ins []io.RuneScanner, nl bool, opts []symbolic.ParseOption) ([]parsed, error) {
	var p []parsed
	for _, in := range ins {
		if nl {
			for {
				line, err := readLine(in)
				if strings.TrimSpace(line) != "" {
					a, perr := symbolic.ParseString(line, opts...)
					p = append(p, parsed{a, perr})
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					return p, err
				}
			}
			continue
		}
		for {
			// First check whether we're done with the input.
			if _, _, err := in.ReadRune(); err != nil {
				if err == io.EOF {
					break
				}
				return p, err
			}
			in.UnreadRune()
			a, err := symbolic.Parse(in, opts...)
			p = append(p, parsed{a, err})
			if err != nil {
				break
			}
		}
	}
	return p, nil
}

// readLine reads through the next newline, returning the line without it.
// The error is io.EOF if the input ended before a newline.
func readLine(in io.RuneScanner) (string, error) {
	var b strings.Builder
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return b.String(), err
		}
		if r == '\n' {
			return b.String(), nil
		}
		b.WriteRune(r)
	}
}

// batch differentiates and prints each parsed expression, reporting errors
// in place. It returns false if any expression failed.
func (s *session) batch(w io.Writer, p []parsed, vars []symbolic.Var, echo, eval bool) bool {
	ok := true
	for _, a := range p {
		if a.err != nil {
			fmt.Fprintln(w, a.err)
			ok = false
			continue
		}
		if echo {
			fmt.Fprintf(w, "%v : ", a.e)
		}
		r, err := s.eng.DeriveN(a.e, vars...)
		if err != nil {
			fmt.Fprintln(w, err)
			ok = false
			continue
		}
		if !eval {
			fmt.Fprintln(w, r)
			continue
		}
		v, err := s.ctx.Eval(r)
		if err != nil {
			fmt.Fprintln(w, err)
			ok = false
			continue
		}
		fmt.Fprintln(w, s.number(v))
	}
	return ok
}

func infile(inname string, std bool) (io.RuneScanner, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}

// session holds the state shared by batch and interactive use.
type session struct {
	cfg   *config.Config
	eng   *symbolic.Engine
	ctx   *symbolic.Context
	popts []symbolic.ParseOption
	log   *log.Logger
	// bound is the set of variables with values.
	bound symbolic.VarSet
}

func newSession(cfg *config.Config, l *log.Logger) (*session, error) {
	copts, err := cfg.ContextOptions()
	if err != nil {
		return nil, err
	}
	s := session{
		cfg:   cfg,
		eng:   symbolic.New(cfg.EngineOptions(l)...),
		ctx:   symbolic.NewContext(copts...),
		popts: cfg.ParseOptions(),
		log:   l,
		bound: symbolic.NewVarSet(),
	}
	for name := range cfg.Given {
		r, _ := utf8.DecodeRuneInString(name)
		s.bound.Add(symbolic.Var(r))
	}
	return &s, nil
}

// number formats an evaluated result with the configured verb.
func (s *session) number(v fmt.Formatter) string {
	return fmt.Sprintf("%"+s.cfg.Format, v)
}

// evaluable reports whether every variable in e has a value.
func (s *session) evaluable(e symbolic.Expr) bool {
	return len(symbolic.FreeVars(e).Difference(s.bound)) == 0
}

// describe renders a result, appending its value when it can be computed.
func (s *session) describe(e symbolic.Expr) string {
	if !s.evaluable(e) {
		return e.String()
	}
	v, err := s.ctx.Eval(e)
	if err != nil {
		var nerr *symbolic.NameError
		if errors.As(err, &nerr) {
			return e.String()
		}
		return fmt.Sprintf("%v = %v", e, err)
	}
	return fmt.Sprintf("%v = %s", e, s.number(v))
}
