package runner

import "github.com/ardnew/litscript/pkg"

var (
	ErrEncoding = pkg.NewError("unsupported text encoding")
	ErrMode     = pkg.NewError("unknown output mode")
	ErrCommand  = pkg.NewError("failed to resolve command")
	ErrSpawn    = pkg.NewError("failed to spawn process")
	ErrTransfer = pkg.NewError("failed to transfer input")
	ErrTempFile = pkg.NewError("failed to write temporary file")
	ErrWait     = pkg.NewError("failed to wait for process")
)
