package builder

import (
	"context"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/param"
	"github.com/ardnew/litscript/runner"
	"github.com/ardnew/litscript/seq"
)

// DefaultChunkSize bounds the pieces written by [Builder.Stream] when no
// size is given.
const DefaultChunkSize = 4096

// Section produces a part of a script outside the template body.
type Section func(ctx context.Context, l *lang.Language, s *lang.Stack) seq.Seq

// Sections are the optional parts composed around the declarations and the
// body.
type Sections struct {
	Head Section
	Foot Section
}

// Options configure a [Builder].
type Options struct {
	// Name identifies the script type. It is required.
	Name string

	// Language converts interpolated values. If nil, a language is built
	// from Definition.
	Language   *lang.Language
	Definition *lang.Definition

	// Runner executes the script. If nil, a runner is built from
	// RunnerConfig, or with the defaults if that is nil too.
	Runner       *runner.Runner
	RunnerConfig *runner.Config

	// Params are declared, in order, before the body.
	Params []param.Entry

	// Args names the parameter that receives the arguments of
	// [Builder.Run].
	Args string

	Sections Sections
}

// Builder composes a script from literal fragments and interpolated
// values. Fragments and values alternate, starting and ending with a
// fragment.
type Builder struct {
	name      string
	fragments []string
	values    []any
	language  *lang.Language
	runner    *runner.Runner
	params    *param.Table
	args      string
	sections  Sections
}

// New returns a builder for the template given by fragments and values.
// There must be exactly one more fragment than values.
func New(fragments []string, values []any, opts Options) (*Builder, error) {
	if opts.Name == "" {
		return nil, ErrOptions.With(slog.String("missing", "name"))
	}

	if len(fragments) != len(values)+1 {
		return nil, ErrTemplate.With(
			slog.Int("fragments", len(fragments)),
			slog.Int("values", len(values)),
		)
	}

	l := opts.Language
	if l == nil {
		var err error
		if l, err = lang.New(opts.Name, opts.Definition); err != nil {
			return nil, ErrOptions.Wrap(err)
		}
	}

	r := opts.Runner
	if r == nil {
		var cfg runner.Config
		if opts.RunnerConfig != nil {
			cfg = *opts.RunnerConfig
		}

		var err error
		if r, err = runner.New(opts.Name, cfg); err != nil {
			return nil, ErrOptions.Wrap(err)
		}
	}

	return &Builder{
		name:      opts.Name,
		fragments: fragments,
		values:    values,
		language:  l,
		runner:    r,
		params:    param.New(opts.Params...),
		args:      opts.Args,
		sections:  opts.Sections,
	}, nil
}

// Name returns the script type of b.
func (b *Builder) Name() string { return b.name }

// Language returns the language of b.
func (b *Builder) Language() *lang.Language { return b.language }

// Args returns the name of the parameter bound to script arguments, if any.
func (b *Builder) Args() string { return b.args }

// Runner returns the runner of b.
func (b *Builder) Runner() *runner.Runner { return b.runner }

// Param declares a parameter. See [param.Table.Add].
func (b *Builder) Param(name, dest string, def ...any) {
	b.params.Add(name, dest, def...)
}

// HasParam reports whether a parameter is read from name.
func (b *Builder) HasParam(name string) bool {
	_, ok := b.params.Lookup(name)

	return ok
}

// Params declares parameters in order.
func (b *Builder) Params(entries ...param.Entry) {
	for _, e := range entries {
		b.params.Define(e)
	}
}

func (b *Builder) section(ctx context.Context, s Section, c lang.Container) seq.Seq {
	if s == nil {
		return seq.Empty()
	}

	return func(yield func(string, error) bool) {
		forward(s(ctx, b.language, lang.NewStack(c)), yield)
	}
}

func (b *Builder) declare(ctx context.Context, params map[string]any) seq.Seq {
	return b.language.Declare(ctx, b.params.Entries(params), nil)
}

func (b *Builder) body(ctx context.Context) seq.Seq {
	return func(yield func(string, error) bool) {
		st := lang.NewStack(lang.ContainerBody)

		if !yield(b.fragments[0], nil) {
			return
		}

		for i, v := range b.values {
			if !forward(b.language.Pull(ctx, v, st), yield) {
				return
			}

			if !yield(b.fragments[i+1], nil) {
				return
			}
		}
	}
}

// Compose returns the fragments of the script: the head, the declarations
// of params, the body and the foot.
func (b *Builder) Compose(ctx context.Context, params map[string]any) seq.Seq {
	return func(yield func(string, error) bool) {
		log.DebugContext(ctx, "composing script",
			slog.String("type", b.name),
			slog.Int("values", len(b.values)),
		)

		var n int

		for s, err := range seq.Chain(
			b.section(ctx, b.sections.Head, lang.ContainerHead),
			b.declare(ctx, params),
			b.body(ctx),
			b.section(ctx, b.sections.Foot, lang.ContainerFoot),
		) {
			n += len(s)

			if !yield(s, err) || err != nil {
				return
			}
		}

		log.DebugContext(ctx, "script composed",
			slog.String("type", b.name),
			slog.Int("bytes", n),
		)
	}
}

// Content returns the whole script. Nothing is returned on error, not even
// the text composed before the failure.
func (b *Builder) Content(ctx context.Context, params map[string]any) (string, error) {
	s, err := seq.Collect(b.Compose(ctx, params))
	if err != nil {
		return "", err
	}

	return s, nil
}

// Chunks returns the fragments of the script cut into pieces of at most
// maxSize bytes. A maxSize of zero or less leaves them whole. Fragments
// within the limit pass through untouched.
func (b *Builder) Chunks(ctx context.Context, params map[string]any, maxSize int) seq.Seq {
	return func(yield func(string, error) bool) {
		for s, err := range b.Compose(ctx, params) {
			if err != nil {
				yield("", err)

				return
			}

			if s == "" {
				continue
			}

			for maxSize > 0 && len(s) > maxSize {
				if !yield(s[:maxSize], nil) {
					return
				}

				s = s[maxSize:]
			}

			if !yield(s, nil) {
				return
			}
		}
	}
}

// Stream returns a reader over the script. Composition happens as the
// reader is read, in pieces of at most maxSize bytes. A maxSize of zero
// uses [DefaultChunkSize]; a negative maxSize does not cut fragments.
// Closing the reader stops composition.
func (b *Builder) Stream(ctx context.Context, params map[string]any, maxSize int) io.ReadCloser {
	if maxSize == 0 {
		maxSize = DefaultChunkSize
	}

	pr, pw := io.Pipe()

	go func() {
		for s, err := range b.Chunks(ctx, params, maxSize) {
			if err != nil {
				pw.CloseWithError(err)

				return
			}

			if _, err := io.WriteString(pw, s); err != nil {
				return
			}
		}

		pw.Close()
	}()

	return pr
}

// PipeOptions adjust [Builder.Pipe].
type PipeOptions struct {
	ChunkSize int
	Params    map[string]any

	// End closes the destination once the script has been copied, if it is
	// an [io.Closer].
	End bool
}

// Pipe copies the script to w. The source is detached from w once the
// copy ends, whether or not it succeeded.
func (b *Builder) Pipe(ctx context.Context, w io.Writer, opts PipeOptions) (err error) {
	src := b.Stream(ctx, opts.Params, opts.ChunkSize)

	defer func() {
		err = multierr.Append(err, src.Close())

		if c, ok := w.(io.Closer); ok && opts.End {
			err = multierr.Append(err, c.Close())
		}
	}()

	_, err = io.Copy(w, src)

	return err
}

// Exec runs the script with the runner of b.
func (b *Builder) Exec(
	ctx context.Context,
	params map[string]any,
	opts runner.ExecOptions,
) (*runner.Result, error) {
	src := b.Stream(ctx, params, 0)
	defer src.Close()

	return b.runner.Exec(ctx, src, opts)
}

// Run runs the script with args bound to the arguments parameter of b, if
// it has one.
func (b *Builder) Run(
	ctx context.Context,
	args []string,
	opts runner.ExecOptions,
) (*runner.Result, error) {
	params := map[string]any{}
	if b.args != "" {
		params[b.args] = args
	}

	return b.Exec(ctx, params, opts)
}

func forward(src seq.Seq, yield func(string, error) bool) bool {
	for s, err := range src {
		if !yield(s, err) || err != nil {
			return false
		}
	}

	return true
}
