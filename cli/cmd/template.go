package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/source"
)

// Template holds the flags of commands that build a script from a
// template file.
type Template struct {
	File      string   `arg:"" help:"Template file, or '-' for standard input"`
	Values    []string `help:"YAML file(s) of template values, or '-' for standard input" placeholder:"FILE"      short:"v"`
	Set       []string `help:"Set a template value to an expression"                      placeholder:"NAME=EXPR" short:"s"`
	Param     []string `help:"Pass a script parameter as an expression"                   placeholder:"NAME=EXPR" short:"p"`
	Type      string   `help:"Script type, overriding the template directive"                                     short:"t"`
	ChunkSize string   `default:"4KiB" help:"Largest piece of script written at once"     placeholder:"SIZE"`
}

// script is a built template ready to be written or run.
type script struct {
	*builder.Builder

	params map[string]any
	chunk  int
}

func (t *Template) build(
	ctx context.Context,
	reg *registry.Registry,
	s *Streams,
) (*script, error) {
	if t.File == stdinSource && slices.Contains(t.Values, stdinSource) {
		return nil, ErrFlag.With(slog.String("stdin", "template and values"))
	}

	chunk, err := parseSize(t.ChunkSize)
	if err != nil {
		return nil, err
	}

	env, err := t.env(ctx, s.In)
	if err != nil {
		return nil, err
	}

	src, err := t.source(s.In)
	if err != nil {
		return nil, err
	}

	values, err := src.Values(ctx, env)
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("file", t.File))
	}

	var b *builder.Builder

	if t.Type != "" {
		tag, err := reg.Tag(t.Type)
		if err != nil {
			return nil, err
		}

		b, err = tag(ctx, src.Fragments(), values...)
		if err != nil {
			return nil, err
		}
	} else if b, err = reg.Script(ctx, src.Fragments(), values...); err != nil {
		return nil, err
	}

	params := make(map[string]any, len(t.Param))

	for _, kv := range t.Param {
		name, v, err := assignment("param", kv, env)
		if err != nil {
			return nil, err
		}

		if !b.HasParam(name) {
			b.Param(name, "")
		}

		params[name] = v
	}

	log.DebugContext(ctx, "template built",
		slog.String("file", t.File),
		slog.String("type", b.Name()),
		slog.Int("params", len(params)),
	)

	return &script{Builder: b, params: params, chunk: chunk}, nil
}

// env returns the template values: every values file in order, then every
// --set assignment, later ones overriding earlier ones.
func (t *Template) env(ctx context.Context, stdin io.Reader) (map[string]any, error) {
	inputs, err := openInputs(t.Values, stdin)
	if err != nil {
		return nil, ErrValues.Wrap(err)
	}
	defer closeInputs(inputs)

	env := map[string]any{}

	for _, in := range inputs {
		var m map[string]any

		err := yaml.NewDecoder(in).DecodeContext(ctx, &m)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, ErrValues.Wrap(err).With(slog.String("file", in.name))
		}

		maps.Copy(env, m)
	}

	for _, kv := range t.Set {
		name, v, err := assignment("set", kv, env)
		if err != nil {
			return nil, err
		}

		env[name] = v
	}

	return env, nil
}

func (t *Template) source(stdin io.Reader) (*source.Source, error) {
	if t.File != stdinSource {
		src, err := source.ParseFile(t.File)
		if err != nil {
			return nil, ErrTemplate.Wrap(err).With(slog.String("file", t.File))
		}

		return src, nil
	}

	text, err := io.ReadAll(stdin)
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("file", t.File))
	}

	src, err := source.Parse(string(text))
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("file", t.File))
	}

	return src, nil
}

// assignment evaluates a NAME=EXPR flag value with env.
func assignment(flag, kv string, env map[string]any) (string, any, error) {
	name, code, ok := strings.Cut(kv, "=")
	if name = strings.TrimSpace(name); !ok || name == "" {
		return "", nil, ErrFlag.With(slog.String("flag", flag), slog.String("value", kv))
	}

	v, err := expr.Eval(code, env)
	if err != nil {
		return "", nil, ErrFlag.Wrap(err).With(
			slog.String("flag", flag),
			slog.String("name", name),
		)
	}

	return name, v, nil
}

// parseSize parses a human-readable byte count such as 4KiB or 1MB.
func parseSize(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, ErrFlag.Wrap(err).With(slog.String("flag", "chunk-size"))
	}

	if n > math.MaxInt {
		return 0, ErrFlag.With(slog.String("flag", "chunk-size"), slog.String("value", s))
	}

	return int(n), nil
}
