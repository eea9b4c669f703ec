package repl

import "github.com/ardnew/litscript/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrCommand      = pkg.NewError("invalid command")
	ErrValues       = pkg.NewError("invalid values")
)
