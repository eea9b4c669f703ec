package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/litscript/log"
)

// logLevel configures the logger level as soon as kong decodes it, so
// errors reported while parsing the rest of the command line already use
// it.
type logLevel string

func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(text))))

	return nil
}

// logFormat configures the logger format as soon as kong decodes it.
type logFormat string

func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(text))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"    enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars { return kong.Vars{} }

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logger flag.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags found in args before kong parses them.
// Boolean flags never pass through UnmarshalText, and a flag placed after
// the command would otherwise be applied too late for early messages.
func (f *logConfig) scan(args []string) {
	toggles := map[string]func(bool) log.Option{
		"pretty": func(v bool) log.Option { f.Pretty = v; return log.WithPretty(v) },
		"caller": func(v bool) log.Option { f.Caller = v; return log.WithCaller(v) },
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		flag, value, assigned := strings.Cut(arg, "=")

		if name, ok := strings.CutPrefix(flag, "--log-"); ok {
			switch name {
			case "level", "format":
				if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					i++
					value = args[i]
				}

				if name == "level" {
					_ = f.Level.UnmarshalText([]byte(value))
				} else {
					_ = f.Format.UnmarshalText([]byte(value))
				}

				continue
			}

			if toggle, ok := toggles[name]; ok {
				if v, ok := boolValue(value, assigned); ok {
					log.Config(toggle(v))
				}
			}

			continue
		}

		if name, ok := strings.CutPrefix(flag, "--no-log-"); ok {
			if toggle, ok := toggles[name]; ok {
				if v, ok := boolValue(value, assigned); ok {
					log.Config(toggle(!v))
				}
			}
		}
	}
}

// boolValue returns the value of a boolean flag, which is true unless
// assigned otherwise.
func boolValue(value string, assigned bool) (bool, bool) {
	if !assigned {
		return true, true
	}

	v, err := strconv.ParseBool(value)

	return v, err == nil
}
