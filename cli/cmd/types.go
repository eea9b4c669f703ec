package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/runner"
)

// Types lists the registered script types.
type Types struct {
	Pattern string `arg:"" help:"Only list types with a name fuzzily matching PATTERN" optional:""`
}

// Run executes the types command.
func (t *Types) Run(ctx context.Context, reg *registry.Registry, s *Streams) error {
	names := reg.Names()
	if t.Pattern != "" {
		names = reg.Suggest(t.Pattern, len(names))
	}

	var def string
	if e, err := reg.Default(); err == nil {
		def = e.Name
	}

	var (
		re      = lipgloss.NewRenderer(s.Out)
		nameSty = re.NewStyle().Bold(true)
		dimSty  = re.NewStyle().Foreground(lipgloss.Color("8"))
		defSty  = re.NewStyle().Foreground(lipgloss.Color("2"))
		seen    = map[*registry.Entry]bool{}
	)

	for _, name := range names {
		e, err := reg.Lookup(name)
		if err != nil {
			return err
		}

		if seen[e] {
			continue
		}

		seen[e] = true

		line := []string{nameSty.Render(e.Name)}

		if aliases := slices.DeleteFunc(slices.Clone(e.Aliases), func(a string) bool {
			return a == e.Name
		}); len(aliases) > 0 {
			line = append(line, dimSty.Render("("+strings.Join(aliases, ", ")+")"))
		}

		if bin := entryBin(ctx, e); bin != "" {
			line = append(line, bin)
		}

		if e.Name == def {
			line = append(line, defSty.Render("[default]"))
		}

		if _, err := fmt.Fprintln(s.Out, strings.Join(line, " ")); err != nil {
			return ErrOutput.Wrap(err)
		}
	}

	return nil
}

func entryBin(ctx context.Context, e *registry.Entry) string {
	var cfg runner.Config

	switch {
	case e.Defaults.Runner != nil:
		cfg = e.Defaults.Runner.Config()
	case e.Defaults.RunnerConfig != nil:
		cfg = *e.Defaults.RunnerConfig
	default:
		return ""
	}

	if !cfg.Command.Bin.IsSet() {
		return runner.DefaultBin
	}

	bin, err := cfg.Command.Bin.Resolve(ctx)
	if err != nil {
		return ""
	}

	return bin
}
