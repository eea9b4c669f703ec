package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/log"
)

// Placeholder is one expression of a template.
type Placeholder struct {
	Code string
	Line int

	program *vm.Program
}

// Source is a parsed template: literal fragments with one placeholder
// between each pair.
type Source struct {
	fragments    []string
	placeholders []Placeholder
}

// Parse splits text into fragments and placeholders and compiles every
// placeholder.
func Parse(text string, opts ...Option) (*Source, error) {
	cfg := config{left: "{{", right: "}}"}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		src  Source
		rest = text
		pos  int
	)

	for {
		i := strings.Index(rest, cfg.left)
		if i < 0 {
			src.fragments = append(src.fragments, rest)

			break
		}

		open := i + len(cfg.left)
		line := lineOf(text, pos+i)

		j := strings.Index(rest[open:], cfg.right)
		if j < 0 {
			return nil, ErrSyntax.Wrap(
				fmt.Errorf("line %d: unterminated placeholder", line),
			).With(slog.Int("line", line))
		}

		code := strings.TrimSpace(rest[open : open+j])
		if code == "" {
			return nil, ErrSyntax.Wrap(
				fmt.Errorf("line %d: empty placeholder", line),
			).With(slog.Int("line", line))
		}

		program, err := compile(code, cfg.dir)
		if err != nil {
			return nil, ErrCompile.Wrap(err).With(
				slog.Int("line", line),
				slog.String("code", code),
			)
		}

		src.fragments = append(src.fragments, rest[:i])
		src.placeholders = append(src.placeholders, Placeholder{
			Code:    code,
			Line:    line,
			program: program,
		})

		next := open + j + len(cfg.right)
		pos += next
		rest = rest[next:]
	}

	log.Trace("template parsed",
		slog.Int("fragments", len(src.fragments)),
		slog.Int("placeholders", len(src.placeholders)),
	)

	return &src, nil
}

// ParseFile parses the template in the file at path. Relative include
// paths resolve against the directory of path unless an option says
// otherwise.
func ParseFile(path string, opts ...Option) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(string(b), append([]Option{WithDir(filepath.Dir(path))}, opts...)...)
}

// Fragments returns the literal text of s.
func (s *Source) Fragments() []string { return s.fragments }

// Placeholders returns the expressions of s in order.
func (s *Source) Placeholders() []Placeholder { return s.placeholders }

// Values evaluates every placeholder with the variables in env. Unknown
// variables are nil.
func (s *Source) Values(ctx context.Context, env map[string]any) ([]any, error) {
	if env == nil {
		env = map[string]any{}
	}

	values := make([]any, len(s.placeholders))

	for i, p := range s.placeholders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := p.Eval(env)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	log.DebugContext(ctx, "placeholders evaluated", slog.Int("count", len(values)))

	return values, nil
}

// Compile compiles a single expression with the template functions.
func Compile(code string, opts ...Option) (Placeholder, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return Placeholder{}, ErrSyntax.Wrap(errors.New("empty expression"))
	}

	program, err := compile(code, cfg.dir)
	if err != nil {
		return Placeholder{}, ErrCompile.Wrap(err).With(slog.String("code", code))
	}

	return Placeholder{Code: code, Line: 1, program: program}, nil
}

// Eval evaluates p with the variables in env.
func (p Placeholder) Eval(env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	v, err := expr.Run(p.program, env)
	if err != nil {
		return nil, ErrEval.Wrap(err).With(
			slog.Int("line", p.Line),
			slog.String("code", p.Code),
		)
	}

	return v, nil
}

// Functions lists the names of the functions available to expressions
// besides the expr builtins.
var Functions = []string{"raw", "include", "symbol", "env"}

func lineOf(text string, pos int) int {
	return 1 + strings.Count(text[:pos], "\n")
}

// programs caches compiled placeholders keyed by the hash of the include
// directory and the code.
var programs sync.Map

func compile(code, dir string) (*vm.Program, error) {
	key := xxh3.HashString(dir + "\x00" + code)

	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(code, append(functions(dir), expr.AllowUndefinedVariables())...)
	if err != nil {
		return nil, err
	}

	p, _ := programs.LoadOrStore(key, program)

	return p.(*vm.Program), nil
}

func functions(dir string) []expr.Option {
	text := func(name string, params []any) (string, error) {
		if len(params) != 1 {
			return "", fmt.Errorf("%s: want 1 argument, got %d", name, len(params))
		}

		s, ok := params[0].(string)
		if !ok {
			return "", fmt.Errorf("%s: want string, got %T", name, params[0])
		}

		return s, nil
	}

	return []expr.Option{
		expr.Function("raw", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("raw: want 1 argument, got %d", len(params))
			}

			return lang.Raw(params[0]), nil
		}),
		expr.Function("include", func(params ...any) (any, error) {
			path, err := text("include", params)
			if err != nil {
				return nil, err
			}

			if dir != "" && !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}

			return lang.Include(path), nil
		}),
		expr.Function("symbol", func(params ...any) (any, error) {
			s, err := text("symbol", params)

			return lang.Symbol(s), err
		}),
		expr.Function("env", func(params ...any) (any, error) {
			s, err := text("env", params)

			return os.Getenv(s), err
		}),
	}
}
