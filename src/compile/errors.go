package compile

import (
	"errors"
	"fmt"
)

// ErrMalformed tags compilation failures caused by an invalid tree.
var ErrMalformed = errors.New("malformed statement")

// ErrUnsupported tags statements that are valid but cannot be rendered
// for the target dialect.
var ErrUnsupported = errors.New("unsupported for dialect")

// CompileError reports a malformed statement tree. Node identifies the
// offending construct.
type CompileError struct {
	Node string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile: %s: %s", e.Node, e.Msg)
}

func (e *CompileError) Unwrap() error { return ErrMalformed }

func compileErrf(node, format string, args ...any) error {
	return &CompileError{Node: node, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports a construct the target dialect cannot express.
type UnsupportedError struct {
	Dialect   string
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("compile: %s does not support %s", e.Dialect, e.Construct)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// BindError reports a failure to associate execution-time values with a
// compiled statement's parameter slots.
type BindError struct {
	Param string
	Msg   string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind: parameter %q: %s", e.Param, e.Msg)
}

func bindErrf(param, format string, args ...any) error {
	return &BindError{Param: param, Msg: fmt.Sprintf(format, args...)}
}
