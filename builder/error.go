package builder

import "github.com/ardnew/litscript/pkg"

var (
	ErrOptions  = pkg.NewError("invalid builder options")
	ErrTemplate = pkg.NewError("fragment count must be one more than value count")
)
