package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/runner"
)

// Run executes the script built from a template and exits with its code.
type Run struct {
	Template `embed:""`

	Args     []string `arg:"" help:"Arguments passed to the script" optional:"" passthrough:""`
	FileMode bool     `help:"Deliver the script in a temporary file instead of standard input"`
}

// Run executes the run command. A non-zero exit of the script is returned
// as an [ExitStatus].
func (r *Run) Run(ctx context.Context, reg *registry.Registry, s *Streams) error {
	sc, err := r.build(ctx, reg, s)
	if err != nil {
		return err
	}

	params := maps.Clone(sc.params)
	if name := sc.Args(); name != "" {
		params[name] = r.Args
	}

	opts := runner.ExecOptions{Args: runner.Literal(r.Args)}
	if r.FileMode {
		opts.UseStdin = runner.Bool(false)
	}

	res, err := sc.Exec(ctx, params, opts)
	if err != nil {
		return ErrRun.Wrap(err).With(slog.String("type", sc.Name()))
	}

	var g errgroup.Group

	g.Go(func() error { return drain(s.Out, res.Stdout) })
	g.Go(func() error { return drain(s.Err, res.Stderr) })

	err = g.Wait()

	code, werr := res.Exit.Wait()

	if err = multierr.Combine(err, werr, res.Close()); err != nil {
		return ErrRun.Wrap(err).With(slog.String("type", sc.Name()))
	}

	log.DebugContext(ctx, "script exited",
		slog.String("type", sc.Name()),
		slog.String("id", res.ID.String()),
		slog.Int("code", code),
	)

	if code != 0 {
		return ExitStatus(code)
	}

	return nil
}

func drain(w io.Writer, r io.Reader) error {
	if r == nil {
		return nil
	}

	_, err := io.Copy(w, r)

	return err
}
