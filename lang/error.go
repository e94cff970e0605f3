package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Sentinel errors. Each typed error below matches exactly one of these with
// [errors.Is].
var (
	ErrParse              = NewError("parse error")
	ErrUndefinedParameter = NewError("undefined parameter")
	ErrUnknownFunction    = NewError("unknown function")
	ErrArity              = NewError("wrong number of arguments")
	ErrType               = NewError("type error")
	ErrArithmetic         = NewError("arithmetic error")
	ErrReadInput          = NewError("failed to read input")
	ErrDecodeParams       = NewError("failed to decode parameters")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps err into an Error, returning err itself when it already is
// one.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface as "<msg>: <cause>", omitting
// whichever part is empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so copies
// made by Wrap and With still match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}

// Position locates a byte in expression source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParseError reports malformed expression syntax.
type ParseError struct {
	Pos    Position
	Msg    string
	Source string
}

func (e *ParseError) Error() string {
	return "parse error at " + e.Pos.String() + ": " + e.Msg
}

// Is reports whether target is [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.Int("offset", e.Pos.Offset),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	)
}

// Snippet returns the offending source line followed by a caret under the
// error column.
func (e *ParseError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var b strings.Builder

	num := strconv.Itoa(e.Pos.Line)

	b.WriteString("  " + num + " | " + lines[e.Pos.Line-1] + "\n")
	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(num)+5))

	if e.Pos.Column > 1 {
		b.WriteString(strings.Repeat(" ", e.Pos.Column-1))
	}

	b.WriteString("^")

	return b.String()
}

// UndefinedParameterError reports an identifier missing from the parameter
// environment.
type UndefinedParameterError struct {
	Name string
}

func (e *UndefinedParameterError) Error() string {
	return "undefined parameter " + strconv.Quote(e.Name)
}

// Is reports whether target is [ErrUndefinedParameter].
func (e *UndefinedParameterError) Is(target error) bool {
	return target == ErrUndefinedParameter
}

// UnknownFunctionError reports a call to a name missing from the function
// library.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return "unknown function " + strconv.Quote(e.Name)
}

// Is reports whether target is [ErrUnknownFunction].
func (e *UnknownFunctionError) Is(target error) bool {
	return target == ErrUnknownFunction
}

// ArityError reports a call with the wrong number of arguments.
// Expected describes the accepted counts, such as "2" or "1 to 2".
type ArityError struct {
	Name     string
	Expected string
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %s argument(s), got %d",
		e.Name, e.Expected, e.Actual)
}

// Is reports whether target is [ErrArity].
func (e *ArityError) Is(target error) bool { return target == ErrArity }

// TypeError reports an operand whose kind the operator or function cannot
// accept.
type TypeError struct {
	Op  string
	Msg string
}

func newTypeError(op, format string, args ...any) *TypeError {
	return &TypeError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *TypeError) Error() string {
	return "type error in " + e.Op + ": " + e.Msg
}

// Is reports whether target is [ErrType].
func (e *TypeError) Is(target error) bool { return target == ErrType }

// ArithmeticError reports division by zero, integer overflow, or a result
// that cannot be represented in the operation's numeric kind.
type ArithmeticError struct {
	Op  string
	Msg string
}

func newArithmeticError(op, format string, args ...any) *ArithmeticError {
	return &ArithmeticError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error in " + e.Op + ": " + e.Msg
}

// Is reports whether target is [ErrArithmetic].
func (e *ArithmeticError) Is(target error) bool { return target == ErrArithmetic }
