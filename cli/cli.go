package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/litscript/cli/cmd"
	"github.com/ardnew/litscript/langs"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/pkg"
	"github.com/ardnew/litscript/registry"
)

// CLI is the top-level command-line interface for litscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Define []string `help:"YAML script type definition file(s)" placeholder:"FILE" short:"d" type:"existingfile"`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Types  cmd.Types  `cmd:"" help:"List script types"`
	Render cmd.Render `cmd:"" help:"Write the script generated from a template"`
	Repl   cmd.Repl   `cmd:"" help:"Interactively evaluate template expressions"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Run the script generated from a template"`
}

// Run executes the litscript CLI with the given context and arguments on
// the standard streams of the process.
// The exit function is called with the appropriate exit code when kong
// exits early, such as after printing help.
//
// A script that exits with a non-zero code is reported as a
// [cmd.ExitStatus] error.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, cmd.StdStreams(), exit, args...)
}

func run(
	ctx context.Context,
	streams *cmd.Streams,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + configExt)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(streams.Out, streams.Err),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	reg, err := newRegistry(ctx, cli.Define)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)

	ktx.BindTo(ctx, (*context.Context)(nil))
	ktx.Bind(reg, streams)

	// Execute the selected command
	return ktx.Run()
}

// newRegistry returns a registry of the built-in script types extended by
// the type definition files in define, in order.
func newRegistry(ctx context.Context, define []string) (*registry.Registry, error) {
	reg := registry.New()

	err := langs.Register(reg)
	if err != nil {
		return nil, err
	}

	for _, path := range define {
		if _, err := reg.LoadFile(ctx, path); err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "script type loaded", slog.String("file", path))
	}

	return reg, nil
}
