package registry

import "github.com/ardnew/litscript/pkg"

var (
	ErrDefine    = pkg.NewError("invalid type names")
	ErrNotFound  = pkg.NewError("unknown script type")
	ErrNoDefault = pkg.NewError("no default script type registered")
	ErrHeader    = pkg.NewError("invalid header option")
	ErrLoadEntry = pkg.NewError("failed to load script type")
)
