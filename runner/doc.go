// Package runner executes generated scripts with an external program.
//
// A [Runner] delivers a script in one of two ways, chosen once per call to
// [Runner.Exec]. The standard input strategy starts the program and writes
// the script to its input:
//
//	bin common... stdin... args...
//
// The temporary file strategy writes the script to a file first and passes
// its path:
//
//	bin common... file... path args...
//
// Every member of the command line is an [Entry], resolved just before the
// process is spawned. Output the caller asked to pipe is buffered as it is
// produced, so a program that writes while it reads its script never
// blocks on a full pipe.
package runner
