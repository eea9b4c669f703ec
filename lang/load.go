package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/litscript/seq"
)

// DefinitionFile is the YAML form of a [Definition].
//
// Conversion functions are expr-lang programs. A repr program sees the
// value being converted as value, and may call quote(s), repr(v) and
// kind(v); lang holds the language name. Its result must be a string, or
// nil for no output. Name and key programs see the identifier as name and
// must return a string. An empty key program makes records unsupported.
//
//	shrinkBigInt: none
//	consts:
//	  "null": None
//	format:
//	  declare: {start: "", end: "\n", sep: "\n", assign: " = "}
//	  iterable: {invalid: [iterable]}
//	reprs:
//	  boolean: 'value ? "True" : "False"'
type DefinitionFile struct {
	ShrinkBigInt string             `yaml:"shrinkBigInt"`
	Consts       map[string]*string `yaml:"consts"`
	Format       FormatFile         `yaml:"format"`
	Reprs        map[string]string  `yaml:"reprs"`
}

// FormatFile is the YAML form of a [FormatDefinition].
type FormatFile struct {
	Indent   *string                    `yaml:"indent"`
	EOL      *string                    `yaml:"eol"`
	Declare  DeclareFile                `yaml:"declare"`
	Iterable ListFile                   `yaml:"iterable"`
	Object   ObjectFile                 `yaml:"object"`
	Restrict map[string]RestrictionFile `yaml:"restrict"`
}

// DeclareFile is the YAML form of a [DeclareDefinition].
type DeclareFile struct {
	Name   *string `yaml:"name"`
	Assign *string `yaml:"assign"`
	Start  *string `yaml:"start"`
	End    *string `yaml:"end"`
	Sep    *string `yaml:"sep"`
}

// ListFile is the YAML form of a [ListDefinition].
type ListFile struct {
	Start   *string   `yaml:"start"`
	End     *string   `yaml:"end"`
	Sep     *string   `yaml:"sep"`
	Valid   *[]string `yaml:"valid"`
	Invalid *[]string `yaml:"invalid"`
}

// ObjectFile is the YAML form of an [ObjectDefinition].
type ObjectFile struct {
	Key     *string   `yaml:"key"`
	Assign  *string   `yaml:"assign"`
	Start   *string   `yaml:"start"`
	End     *string   `yaml:"end"`
	Sep     *string   `yaml:"sep"`
	Valid   *[]string `yaml:"valid"`
	Invalid *[]string `yaml:"invalid"`
}

// RestrictionFile is the YAML form of a [Restriction].
type RestrictionFile struct {
	Valid   []string `yaml:"valid"`
	Invalid []string `yaml:"invalid"`
}

// LoadDefinition decodes a YAML [DefinitionFile] from r and compiles it.
func LoadDefinition(ctx context.Context, r io.Reader) (*Definition, error) {
	var file DefinitionFile

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.DecodeContext(ctx, &file); err != nil {
		return nil, ErrLoadDefinition.Wrap(err)
	}

	return file.Definition()
}

// Definition compiles f into a [Definition].
func (f DefinitionFile) Definition() (*Definition, error) {
	if _, err := ParseShrink(f.ShrinkBigInt); err != nil {
		return nil, ErrLoadDefinition.Wrap(err)
	}

	def := &Definition{ShrinkBigInt: f.ShrinkBigInt}

	if f.Consts != nil {
		def.Consts = make(Consts, len(f.Consts))
		for name, v := range f.Consts {
			def.Consts[Const(name)] = v
		}
	}

	if f.Reprs != nil {
		def.Reprs = make(map[Kind]ReprFunc, len(f.Reprs))

		for name, src := range f.Reprs {
			k, err := ParseKind(name)
			if err != nil {
				return nil, ErrLoadDefinition.Wrap(err)
			}

			if src == "" {
				def.Reprs[k] = nil

				continue
			}

			fn, err := compileRepr(src)
			if err != nil {
				return nil, err
			}

			def.Reprs[k] = fn
		}
	}

	format, err := f.Format.definition()
	if err != nil {
		return nil, err
	}

	def.Format = format

	return def, nil
}

func (f FormatFile) definition() (FormatDefinition, error) {
	var (
		def = FormatDefinition{Indent: f.Indent, EOL: f.EOL}
		err error
	)

	def.Declare = DeclareDefinition{
		Assign: f.Declare.Assign,
		Start:  f.Declare.Start,
		End:    f.Declare.End,
		Sep:    f.Declare.Sep,
	}

	if f.Declare.Name != nil && *f.Declare.Name != "" {
		if def.Declare.Name, err = compileName(*f.Declare.Name); err != nil {
			return def, err
		}
	}

	def.Iterable = ListDefinition{
		Start: f.Iterable.Start,
		End:   f.Iterable.End,
		Sep:   f.Iterable.Sep,
	}

	if def.Iterable.Valid, err = containerList(f.Iterable.Valid); err != nil {
		return def, err
	}

	if def.Iterable.Invalid, err = containerList(f.Iterable.Invalid); err != nil {
		return def, err
	}

	def.Object = ObjectDefinition{
		Assign: f.Object.Assign,
		Start:  f.Object.Start,
		End:    f.Object.End,
		Sep:    f.Object.Sep,
	}

	if f.Object.Key != nil {
		if *f.Object.Key == "" {
			def.Object.Keyless = true
		} else if def.Object.Key, err = compileName(*f.Object.Key); err != nil {
			return def, err
		}
	}

	if def.Object.Valid, err = containerList(f.Object.Valid); err != nil {
		return def, err
	}

	if def.Object.Invalid, err = containerList(f.Object.Invalid); err != nil {
		return def, err
	}

	if f.Restrict != nil {
		def.Restrict = make(map[Kind]Restriction, len(f.Restrict))

		for name, r := range f.Restrict {
			k, err := ParseKind(name)
			if err != nil {
				return def, ErrLoadDefinition.Wrap(err)
			}

			var rest Restriction

			if r.Valid != nil {
				if rest.Valid, err = containers(r.Valid); err != nil {
					return def, err
				}
			}

			if rest.Invalid, err = containers(r.Invalid); err != nil {
				return def, err
			}

			def.Restrict[k] = rest
		}
	}

	return def, nil
}

func containers(names []string) ([]Container, error) {
	out := make([]Container, 0, len(names))

	for _, name := range names {
		c, err := ParseContainer(name)
		if err != nil {
			return nil, ErrLoadDefinition.Wrap(err)
		}

		out = append(out, c)
	}

	return out, nil
}

func containerList(names *[]string) (*[]Container, error) {
	if names == nil {
		return nil, nil
	}

	c, err := containers(*names)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// reprEnv describes the variables visible to repr programs.
func reprEnv(
	ctx context.Context,
	v any,
	l *Language,
	s *Stack,
) map[string]any {
	return map[string]any{
		"value": v,
		"lang":  l.Name(),
		"quote": Quote,
		"kind":  func(x any) string { return Classify(x).String() },
		"repr": func(x any) (string, error) {
			return seq.Collect(l.Pull(ctx, x, s))
		},
	}
}

func nameEnv(name string, l *Language) map[string]any {
	return map[string]any{
		"name":  name,
		"lang":  l.Name(),
		"quote": Quote,
	}
}

// programs caches compiled programs keyed by the hash of their environment
// shape and source.
var programs sync.Map

func compile(shape, src string, env map[string]any) (*vm.Program, error) {
	key := xxh3.HashString(shape + "\x00" + src)

	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, ErrLoadDefinition.Wrap(err).With(slog.String("source", src))
	}

	p, _ := programs.LoadOrStore(key, program)

	return p.(*vm.Program), nil
}

func compileRepr(src string) (ReprFunc, error) {
	program, err := compile("repr", src, reprEnv(context.TODO(), nil, Default(), nil))
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, v any, l *Language, s *Stack) (any, error) {
		out, err := expr.Run(program, reprEnv(ctx, v, l, s))
		if err != nil {
			return nil, ErrReprProgram.Wrap(err).With(
				slog.String("source", src),
				slog.String("language", l.Name()),
			)
		}

		return out, nil
	}, nil
}

func compileName(src string) (NameFunc, error) {
	program, err := compile("name", src, nameEnv("", Default()))
	if err != nil {
		return nil, err
	}

	return func(name string, l *Language) (string, error) {
		out, err := expr.Run(program, nameEnv(name, l))
		if err != nil {
			return "", ErrReprProgram.Wrap(err).With(
				slog.String("source", src),
				slog.String("name", name),
			)
		}

		s, ok := out.(string)
		if !ok {
			return "", ErrReprProgram.Wrap(
				fmt.Errorf("name program returned %T, want string", out),
			).With(slog.String("source", src))
		}

		return s, nil
	}, nil
}
