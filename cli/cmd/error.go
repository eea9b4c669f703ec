package cmd

import (
	"strconv"

	"github.com/ardnew/litscript/pkg"
)

var (
	ErrFlag        = pkg.NewError("invalid flag")
	ErrValues      = pkg.NewError("read template values")
	ErrTemplate    = pkg.NewError("read template")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrWatch       = pkg.NewError("watch template")
	ErrOutput      = pkg.NewError("write script")
	ErrRun         = pkg.NewError("run script")
)

// ExitStatus is the non-zero exit code of a script run by [Run].
type ExitStatus int

func (s ExitStatus) Error() string { return "exit status " + strconv.Itoa(int(s)) }

// Code returns the process exit code for s. Codes that are unknown, such as
// those of a script killed by a signal, are reported as 1.
func (s ExitStatus) Code() int {
	if s <= 0 {
		return 1
	}

	return int(s)
}
