package runner

import (
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Command is the command line of a runner. Bin and Common lead every
// invocation; Stdin follows them when the script is piped to the process,
// File when it is passed as a temporary file.
type Command struct {
	Bin    Entry[string]
	Common Entry[[]string]
	Stdin  Entry[[]string]
	File   Entry[[]string]
}

// merge returns c with every set entry of o taking precedence.
func (c Command) merge(o Command) Command {
	return Command{
		Bin:    o.Bin.or(c.Bin),
		Common: o.Common.or(c.Common),
		Stdin:  o.Stdin.or(c.Stdin),
		File:   o.File.or(c.File),
	}
}

// Config configures a [Runner].
type Config struct {
	Command Command

	// Extension is appended to temporary file names, including any dot.
	Extension string

	// Encoding is the IANA name of the text encoding the script is written
	// in. The default is UTF-8.
	Encoding string

	// UseStdin selects the standard input strategy. The default is true.
	UseStdin *bool

	Dir string

	// Env is the environment of spawned processes. A nil Env inherits the
	// environment of the current process.
	Env []string

	// PathPrefix lists directories prepended to PATH of spawned processes.
	PathPrefix []string

	// TempDir holds temporary script files. The default is [os.TempDir].
	TempDir string
}

// DefaultBin is the executable used when a configuration names none.
const DefaultBin = "sh"

// DefaultEncoding is the encoding used when a configuration names none.
const DefaultEncoding = "utf-8"

// Bool returns a pointer to b, for use in configurations and options.
func Bool(b bool) *bool { return &b }

// lookupEncoding returns the encoding named name, or nil for UTF-8, which
// needs no transformation.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, ErrEncoding.Wrap(err).With(slog.String("encoding", name))
	}

	if enc == nil {
		return nil, ErrEncoding.With(slog.String("encoding", name))
	}

	if enc == unicode.UTF8 {
		return nil, nil
	}

	return enc, nil
}
