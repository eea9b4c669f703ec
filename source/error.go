package source

import "github.com/ardnew/litscript/pkg"

var (
	ErrSyntax  = pkg.NewError("template syntax error")
	ErrCompile = pkg.NewError("failed to compile placeholder")
	ErrEval    = pkg.NewError("failed to evaluate placeholder")
)
