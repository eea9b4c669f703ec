package cmd

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/litscript/cli/cmd/repl"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/registry"
)

// Repl evaluates template expressions interactively, printing each result
// as it would appear in a script.
type Repl struct {
	Values []string `help:"YAML file(s) of template values"               placeholder:"FILE"      short:"v" type:"existingfile"`
	Set    []string `help:"Set a template value to an expression"         placeholder:"NAME=EXPR" short:"s"`
	Type   string   `help:"Script type results are rendered in"                                   short:"t"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, reg *registry.Registry, s *Streams) error {
	// Standard input belongs to the terminal.
	if slices.Contains(r.Values, stdinSource) {
		return ErrFlag.With(slog.String("stdin", "values"))
	}

	env, err := (&Template{Values: r.Values, Set: r.Set}).env(ctx, s.In)
	if err != nil {
		return err
	}

	session, err := repl.NewSession(ctx, reg, r.Type, env, "")
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.Config{
		Session:  session,
		CacheDir: cacheDir,
		Logger:   log.Default(),
		In:       s.In,
		Out:      s.Out,
	})
}
