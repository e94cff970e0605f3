package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrSetSyntax    = errors.New("usage: set NAME=VALUE")
	ErrUnsetSyntax  = errors.New("usage: unset NAME")
)
