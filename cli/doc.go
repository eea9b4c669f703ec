// Package cli contains the command line interface for litscript.
//
// # Usage
//
// A template is plain text in the target script language with expressions
// between "{{" and "}}". The interpreter directive on its first line picks
// the script type:
//
//	litscript render deploy.tmpl -v values.yaml -s env='"prod"'
//	litscript run deploy.tmpl -p dryRun=true -- --verbose
//	litscript deploy.tmpl arg1 arg2
//
// Run is the default command. The exit code of the script becomes the exit
// code of litscript.
//
// The repl command evaluates expressions interactively and prints each
// result as it would appear in a script of the chosen type. Press Esc for
// its commands. History is kept in the cache directory.
//
//	litscript repl -v values.yaml -t python
//
// # Script Types
//
// The built-in types are sh, bash, python and node. Additional types are
// loaded from YAML files with --define:
//
//	litscript --define ruby.yaml types
//
// # Configuration File
//
// Flags may be set in $XDG_CONFIG_HOME/litscript/config.yaml (see the init
// command). The file maps flag names to values; command-line flags take
// precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o litscript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/litscript/pprof)
package cli
