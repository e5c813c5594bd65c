package symbolic

import "errors"

// ErrUnsupported is the error that every UnsupportedError unwraps to. Use
// errors.Is(err, ErrUnsupported) to detect an expression Derive cannot handle.
var ErrUnsupported = errors.New("symbolic: unsupported construct")

// UnsupportedError is an error returned when differentiation or evaluation
// reaches a node for which there is no rule.
type UnsupportedError struct {
	// Action is what was attempted. It is "differentiate" if empty.
	Action string
	// Node is the subexpression that could not be differentiated.
	Node Expr
	// Reason names the missing rule.
	Reason string
}

func (err *UnsupportedError) Error() string {
	s := "nil"
	if err.Node != nil {
		s = err.Node.String()
	}
	act := err.Action
	if act == "" {
		act = "differentiate"
	}
	return "cannot " + act + " " + s + ": " + err.Reason
}

func (err *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}
