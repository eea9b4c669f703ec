package langs

import (
	"log/slog"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/pkg"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/runner"
)

// DefaultType is the type used for templates without a directive.
const DefaultType = "sh"

// ErrType is returned when a built-in type cannot be constructed.
var ErrType = pkg.NewError("invalid built-in type")

// Type is a built-in script type. The first of Names is its name.
type Type struct {
	Names      []string
	Definition *lang.Definition
	Runner     runner.Config
}

// Name returns the name of t.
func (t Type) Name() string { return t.Names[0] }

// Options returns builder options sharing one language and one runner.
func (t Type) Options() (builder.Options, error) {
	name := t.Name()

	l, err := lang.New(name, t.Definition)
	if err != nil {
		return builder.Options{}, ErrType.Wrap(err).With(slog.String("type", name))
	}

	r, err := runner.New(name, t.Runner)
	if err != nil {
		return builder.Options{}, ErrType.Wrap(err).With(slog.String("type", name))
	}

	return builder.Options{Name: name, Language: l, Runner: r}, nil
}

// Types returns every built-in type.
func Types() []Type {
	return []Type{Sh(), Bash(), Python(), Node()}
}

// Register defines every built-in type in r and makes [DefaultType] the
// default.
func Register(r *registry.Registry) error {
	for _, t := range Types() {
		opts, err := t.Options()
		if err != nil {
			return err
		}

		if _, err := r.Define(t.Names, nil, opts); err != nil {
			return err
		}
	}

	return r.SetDefault(DefaultType)
}
