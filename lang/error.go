package lang

import "github.com/ardnew/litscript/pkg"

var (
	ErrInvalidName    = pkg.NewError("invalid name")
	ErrUnsupported    = pkg.NewError("unsupported capability")
	ErrDisallowed     = pkg.NewError("disallowed placement")
	ErrShrinkPolicy   = pkg.NewError("invalid shrink policy")
	ErrTrampoline     = pkg.NewError("trampoline limit exceeded")
	ErrUnknownName    = pkg.NewError("unknown name")
	ErrLoadDefinition = pkg.NewError("failed to load language definition")
	ErrReprProgram    = pkg.NewError("repr program failed")
)
