// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o litscript .
//	litscript --pprof-mode cpu render deploy.tmpl
//	go tool pprof litscript ~/.cache/litscript/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Start] returns a [Stopper] that does
// nothing.
package profile

// Tag is the build tag required to enable pprof profiling. It also names
// the profile output directory and the flag prefix.
const Tag = `pprof`
