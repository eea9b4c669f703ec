package runner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mung"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/ardnew/litscript/log"
)

// ExecOptions adjusts a single invocation of [Runner.Exec].
type ExecOptions struct {
	// UseStdin set to false forces the temporary file strategy. It cannot
	// force the standard input strategy on a runner configured without it.
	UseStdin *bool

	// Command entries that are set replace those of the runner.
	Command Command

	// Args trail the command line.
	Args Entry[[]string]

	// Env is appended to the environment of the process.
	Env []string

	Stdout Mode
	Stderr Mode
}

// Result describes a spawned process. Stdout and Stderr are non-nil only
// for outputs in [ModePipe]; they belong to the caller, who must drain or
// close them. Output is buffered without bound while the script is being
// transferred and up to [SpoolLimit] bytes per stream afterwards, so a
// caller that waits for Exit before reading a larger output blocks the
// process.
type Result struct {
	ID     uuid.UUID
	Exit   *Exit
	Stdout io.ReadCloser
	Stderr io.ReadCloser
}

// settle bounds the memory held by the output handles of r.
func (r *Result) settle() {
	for _, h := range []io.ReadCloser{r.Stdout, r.Stderr} {
		if s, ok := h.(*spool); ok {
			s.settle()
		}
	}
}

// Close closes the output handles of r.
func (r *Result) Close() error {
	var err error

	for _, h := range []io.ReadCloser{r.Stdout, r.Stderr} {
		if h != nil {
			err = multierr.Append(err, h.Close())
		}
	}

	return err
}

// Runner spawns a program that executes generated scripts.
type Runner struct {
	name     string
	cfg      Config
	enc      encoding.Encoding
	useStdin bool
}

// New returns a runner called name. It fails with [ErrEncoding] if the
// configured encoding is unknown.
func New(name string, cfg Config) (*Runner, error) {
	enc, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	if !cfg.Command.Bin.IsSet() {
		cfg.Command.Bin = Literal(DefaultBin)
	}

	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}

	return &Runner{
		name:     name,
		cfg:      cfg,
		enc:      enc,
		useStdin: cfg.UseStdin == nil || *cfg.UseStdin,
	}, nil
}

// Name returns the name of r.
func (r *Runner) Name() string { return r.name }

// Config returns the configuration of r.
func (r *Runner) Config() Config { return r.cfg }

// UsesStdin reports whether r delivers scripts on standard input by
// default.
func (r *Runner) UsesStdin() bool { return r.useStdin }

// Exec spawns the program of r and delivers the script read from src.
//
// With the standard input strategy, the process starts first and src is
// copied to its input, which is closed before Exec returns. A failed copy
// returns [ErrTransfer]; the process is left running and reaped in the
// background.
//
// With the temporary file strategy, src is written to a new temporary file
// which is passed on the command line. The file is removed once the
// process exits, or immediately if the process cannot be spawned.
//
// Canceling ctx kills the process.
func (r *Runner) Exec(ctx context.Context, src io.Reader, opts ExecOptions) (*Result, error) {
	id := uuid.New()
	logger := log.With(slog.String("runner", r.name), slog.String("id", id.String()))

	if r.useStdin && (opts.UseStdin == nil || *opts.UseStdin) {
		return r.execStdin(ctx, logger, id, src, opts)
	}

	return r.execFile(ctx, logger, id, src, opts)
}

func (r *Runner) execStdin(
	ctx context.Context,
	logger log.Logger,
	id uuid.UUID,
	src io.Reader,
	opts ExecOptions,
) (*Result, error) {
	argv, err := r.arguments(ctx, opts, nil)
	if err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, ErrSpawn.Wrap(err)
	}

	cmd := r.command(ctx, argv, opts)
	cmd.Stdin = pr

	res, err := r.start(ctx, logger, id, cmd, opts, nil)

	_ = pr.Close()

	if err != nil {
		_ = pw.Close()

		return nil, err
	}

	n, err := r.transfer(pw, src)
	if err != nil {
		logger.DebugContext(ctx, "input transfer failed",
			slog.Int64("bytes", n), slog.Any("error", err))

		_ = res.Close()

		return nil, ErrTransfer.Wrap(err).With(slog.String("runner", r.name))
	}

	logger.DebugContext(ctx, "input transferred", slog.Int64("bytes", n))

	res.settle()

	return res, nil
}

func (r *Runner) execFile(
	ctx context.Context,
	logger log.Logger,
	id uuid.UUID,
	src io.Reader,
	opts ExecOptions,
) (*Result, error) {
	f, err := os.CreateTemp(r.cfg.TempDir, "litscript-*"+r.cfg.Extension)
	if err != nil {
		return nil, ErrTempFile.Wrap(err)
	}

	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("temporary file not removed",
				slog.String("path", path), slog.Any("error", err))
		}
	}

	n, err := r.transfer(f, src)
	if err != nil {
		cleanup()

		return nil, ErrTempFile.Wrap(err).With(slog.String("path", path))
	}

	logger.DebugContext(ctx, "script written",
		slog.String("path", path), slog.Int64("bytes", n))

	argv, err := r.arguments(ctx, opts, &path)
	if err != nil {
		cleanup()

		return nil, err
	}

	res, err := r.start(ctx, logger, id, r.command(ctx, argv, opts), opts, cleanup)
	if err != nil {
		cleanup()

		return nil, err
	}

	res.settle()

	return res, nil
}

// arguments assembles the command line. A nil target selects the standard
// input arguments; otherwise the file arguments followed by target.
func (r *Runner) arguments(ctx context.Context, opts ExecOptions, target *string) ([]string, error) {
	c := r.cfg.Command.merge(opts.Command)

	bin, err := c.Bin.Resolve(ctx)
	if err != nil {
		return nil, ErrCommand.Wrap(err).With(slog.String("entry", "bin"))
	}

	if bin == "" {
		bin = DefaultBin
	}

	argv := []string{bin}

	parts := []struct {
		name  string
		entry Entry[[]string]
	}{
		{"common", c.Common},
		{"stdin", c.Stdin},
		{"file", c.File},
		{"args", opts.Args},
	}

	for _, p := range parts {
		switch {
		case p.name == "stdin" && target != nil:
			continue
		case p.name == "file" && target == nil:
			continue
		}

		args, err := p.entry.Resolve(ctx)
		if err != nil {
			return nil, ErrCommand.Wrap(err).With(slog.String("entry", p.name))
		}

		argv = append(argv, args...)

		if p.name == "file" {
			argv = append(argv, *target)
		}
	}

	return argv, nil
}

func (r *Runner) command(ctx context.Context, argv []string, opts ExecOptions) *exec.Cmd {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.cfg.Dir
	cmd.Env = r.environ(opts.Env)

	return cmd
}

// environ returns the process environment, or nil to inherit the current
// one unchanged.
func (r *Runner) environ(extra []string) []string {
	if r.cfg.Env == nil && len(extra) == 0 && len(r.cfg.PathPrefix) == 0 {
		return nil
	}

	env := r.cfg.Env
	if env == nil {
		env = os.Environ()
	}

	env = append(append([]string{}, env...), extra...)

	if len(r.cfg.PathPrefix) == 0 {
		return env
	}

	at, path := -1, ""

	for i, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			at, path = i, v
		}
	}

	path = "PATH=" + mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(r.cfg.PathPrefix...),
	).String()

	if at < 0 {
		return append(env, path)
	}

	env[at] = path

	return env
}

// transfer copies src into w through the encoder of r and closes w.
func (r *Runner) transfer(w io.WriteCloser, src io.Reader) (n int64, err error) {
	defer func() { err = multierr.Append(err, w.Close()) }()

	if r.enc == nil {
		return io.Copy(w, src)
	}

	tw := transform.NewWriter(w, r.enc.NewEncoder())
	defer func() { err = multierr.Append(err, tw.Close()) }()

	return io.Copy(tw, src)
}

type output struct {
	r, w *os.File
}

func (o output) closeWrite() {
	if o.w != nil {
		_ = o.w.Close()
	}
}

func (o output) closeRead() {
	if o.r != nil {
		_ = o.r.Close()
	}
}

func (o output) handle() io.ReadCloser {
	if o.r == nil {
		return nil
	}

	return newSpool(o.r, SpoolLimit)
}

func openOutput(mode Mode, inherit *os.File) (output, error) {
	switch mode {
	case ModePipe:
		r, w, err := os.Pipe()
		if err != nil {
			return output{}, err
		}

		return output{r: r, w: w}, nil
	case ModeInherit:
		return output{w: inherit}, nil
	case ModeIgnore:
		return output{}, nil
	default:
		return output{}, ErrMode.With(slog.String("mode", mode.String()))
	}
}

// start spawns cmd with the outputs selected by opts. after runs once the
// process has exited, before its exit signal resolves.
func (r *Runner) start(
	ctx context.Context,
	logger log.Logger,
	id uuid.UUID,
	cmd *exec.Cmd,
	opts ExecOptions,
	after func(),
) (*Result, error) {
	stdout, err := openOutput(opts.Stdout, os.Stdout)
	if err != nil {
		return nil, ErrSpawn.Wrap(err)
	}

	stderr, err := openOutput(opts.Stderr, os.Stderr)
	if err != nil {
		stdout.closeRead()
		stdout.closeWrite()

		return nil, ErrSpawn.Wrap(err)
	}

	if stdout.w != nil {
		cmd.Stdout = stdout.w
	}

	if stderr.w != nil {
		cmd.Stderr = stderr.w
	}

	err = cmd.Start()

	for _, o := range []output{stdout, stderr} {
		if o.r != nil {
			o.closeWrite()
		}
	}

	if err != nil {
		stdout.closeRead()
		stderr.closeRead()

		return nil, ErrSpawn.Wrap(err).With(
			slog.String("runner", r.name),
			slog.String("bin", cmd.Path),
		)
	}

	logger.DebugContext(ctx, "process started",
		slog.Int("pid", cmd.Process.Pid),
		slog.Any("args", cmd.Args),
	)

	exit := newExit()

	go func() {
		exit.reap(cmd, after)

		code, err := exit.Wait()
		logger.Debug("process exited", slog.Int("code", code), slog.Any("error", err))
	}()

	return &Result{
		ID:     id,
		Exit:   exit,
		Stdout: stdout.handle(),
		Stderr: stderr.handle(),
	}, nil
}
