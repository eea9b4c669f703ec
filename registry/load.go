package registry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/param"
	"github.com/ardnew/litscript/runner"
)

// EntryFile is the YAML form of a script type.
//
//	name: python
//	aliases: [py]
//	args: argv
//	params:
//	  - {name: argv, dest: ARGV}
//	runner:
//	  bin: python3
//	  stdin: ["-"]
//	  extension: .py
//	language:
//	  consts: {"null": None}
type EntryFile struct {
	Name     string               `yaml:"name"`
	Aliases  []string             `yaml:"aliases"`
	Default  bool                 `yaml:"default"`
	Args     string               `yaml:"args"`
	Params   []ParamFile          `yaml:"params"`
	Runner   RunnerFile           `yaml:"runner"`
	Language *lang.DefinitionFile `yaml:"language"`
}

// ParamFile is the YAML form of a [param.Entry]. A null default is the
// same as none.
type ParamFile struct {
	Name    string `yaml:"name"`
	Dest    string `yaml:"dest"`
	Default any    `yaml:"default"`
}

// RunnerFile is the YAML form of a [runner.Config]. Command members that
// are absent keep the runner defaults.
type RunnerFile struct {
	Bin        string   `yaml:"bin"`
	Common     []string `yaml:"common"`
	Stdin      []string `yaml:"stdin"`
	File       []string `yaml:"file"`
	Extension  string   `yaml:"extension"`
	Encoding   string   `yaml:"encoding"`
	UseStdin   *bool    `yaml:"useStdin"`
	Dir        string   `yaml:"dir"`
	Env        []string `yaml:"env"`
	PathPrefix []string `yaml:"pathPrefix"`
	TempDir    string   `yaml:"tempDir"`
}

// Config returns the runner configuration described by f.
func (f RunnerFile) Config() runner.Config {
	cfg := runner.Config{
		Extension:  f.Extension,
		Encoding:   f.Encoding,
		UseStdin:   f.UseStdin,
		Dir:        f.Dir,
		Env:        f.Env,
		PathPrefix: f.PathPrefix,
		TempDir:    f.TempDir,
	}

	if f.Bin != "" {
		cfg.Command.Bin = runner.Literal(f.Bin)
	}

	for _, m := range []struct {
		dst *runner.Entry[[]string]
		src []string
	}{
		{&cfg.Command.Common, f.Common},
		{&cfg.Command.Stdin, f.Stdin},
		{&cfg.Command.File, f.File},
	} {
		if m.src != nil {
			*m.dst = runner.Literal(m.src)
		}
	}

	return cfg
}

// Options returns the builder options described by f.
func (f EntryFile) Options() (builder.Options, error) {
	opts := builder.Options{Name: f.Name, Args: f.Args}

	if f.Language != nil {
		def, err := f.Language.Definition()
		if err != nil {
			return opts, ErrLoadEntry.Wrap(err).With(slog.String("type", f.Name))
		}

		opts.Definition = def
	}

	cfg := f.Runner.Config()
	opts.RunnerConfig = &cfg

	for _, p := range f.Params {
		opts.Params = append(opts.Params, param.Entry{
			Name:       p.Name,
			Dest:       p.Dest,
			Default:    p.Default,
			HasDefault: p.Default != nil,
		})
	}

	return opts, nil
}

// Load decodes a YAML [EntryFile] from src and defines the type it
// describes.
func (r *Registry) Load(ctx context.Context, src io.Reader) (Tag, error) {
	var file EntryFile

	dec := yaml.NewDecoder(src, yaml.DisallowUnknownField())
	if err := dec.DecodeContext(ctx, &file); err != nil {
		return nil, ErrLoadEntry.Wrap(err)
	}

	if file.Name == "" {
		return nil, ErrLoadEntry.With(slog.String("missing", "name"))
	}

	opts, err := file.Options()
	if err != nil {
		return nil, err
	}

	// Build the language and runner once so every script of this type
	// shares them and configuration errors surface here.
	if opts.Language, err = lang.New(file.Name, opts.Definition); err != nil {
		return nil, ErrLoadEntry.Wrap(err).With(slog.String("type", file.Name))
	}

	if opts.Runner, err = runner.New(file.Name, *opts.RunnerConfig); err != nil {
		return nil, ErrLoadEntry.Wrap(err).With(slog.String("type", file.Name))
	}

	names := append([]string{file.Name}, file.Aliases...)

	tag, err := r.Define(names, nil, opts)
	if err != nil {
		return nil, err
	}

	if file.Default {
		if err := r.SetDefault(file.Name); err != nil {
			return nil, err
		}
	}

	log.DebugContext(ctx, "type loaded",
		slog.String("type", file.Name), slog.Bool("default", file.Default))

	return tag, nil
}

// LoadFile is [Registry.Load] reading the file at path.
func (r *Registry) LoadFile(ctx context.Context, path string) (Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadEntry.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return r.Load(ctx, f)
}
