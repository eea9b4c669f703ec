package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/registry"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"

	highlightFormatter = "terminal256"
)

// watchDebounce is how long a watched file must stay quiet before the
// template renders again.
var watchDebounce = 100 * time.Millisecond

// Render writes the script built from a template.
type Render struct {
	Template `embed:""`

	Output string `help:"Write the script to FILE instead of standard output" placeholder:"FILE" short:"o" type:"path"`
	Color  string `default:"auto"    enum:"auto,always,never"                   help:"Highlight the script syntax (${enum})"`
	Style  string `default:"monokai" help:"Highlight style"`
	Watch  bool   `help:"Render again whenever the template or a values file changes" short:"w"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, reg *registry.Registry, s *Streams) error {
	if r.Watch {
		return r.watch(ctx, reg, s)
	}

	return r.render(ctx, reg, s)
}

func (r *Render) render(ctx context.Context, reg *registry.Registry, s *Streams) error {
	sc, err := r.build(ctx, reg, s)
	if err != nil {
		return err
	}

	var (
		w   = s.Out
		end bool
	)

	if r.Output != "" {
		f, err := os.Create(r.Output)
		if err != nil {
			return ErrOutput.Wrap(err).With(slog.String("file", r.Output))
		}

		w, end = f, true
	}

	if r.colorize(w) {
		return r.highlight(ctx, w, sc, end)
	}

	err = sc.Pipe(ctx, w, builder.PipeOptions{
		ChunkSize: sc.chunk,
		Params:    sc.params,
		End:       end,
	})
	if err != nil {
		return ErrOutput.Wrap(err).With(slog.String("type", sc.Name()))
	}

	return nil
}

func (r *Render) highlight(ctx context.Context, w io.Writer, sc *script, end bool) (err error) {
	if c, ok := w.(io.Closer); ok && end {
		defer func() {
			if cerr := c.Close(); err == nil && cerr != nil {
				err = ErrOutput.Wrap(cerr)
			}
		}()
	}

	text, err := sc.Content(ctx, sc.params)
	if err != nil {
		return ErrOutput.Wrap(err).With(slog.String("type", sc.Name()))
	}

	err = quick.Highlight(w, text, sc.Name(), highlightFormatter, r.Style)
	if err != nil {
		return ErrOutput.Wrap(err).With(slog.String("style", r.Style))
	}

	return nil
}

func (r *Render) colorize(w io.Writer) bool {
	switch r.Color {
	case colorAlways:
		return true
	case colorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// watch renders once, then again after every quiet period following a
// write to the template or a values file, until ctx is done.
func (r *Render) watch(ctx context.Context, reg *registry.Registry, s *Streams) error {
	if r.File == stdinSource || slices.Contains(r.Values, stdinSource) {
		return ErrFlag.With(slog.String("flag", "watch"), slog.String("stdin", "unwatchable"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	files, err := watchFiles(watcher, append([]string{r.File}, r.Values...))
	if err != nil {
		return err
	}

	r.report(ctx, r.render(ctx, reg, s))

	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	var pending time.Time

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "watch stopped", slog.Any("cause", context.Cause(ctx)))

			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, watched := files[filepath.Clean(event.Name)]; !watched {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.TraceContext(ctx, "watched file changed",
					slog.String("file", event.Name),
					slog.String("op", event.Op.String()),
				)

				pending = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < watchDebounce {
				continue
			}

			pending = time.Time{}

			r.report(ctx, r.render(ctx, reg, s))
		}
	}
}

func (r *Render) report(ctx context.Context, err error) {
	if err != nil {
		log.WarnContext(ctx, "render failed", slog.Any("error", err))

		return
	}

	log.DebugContext(ctx, "rendered", slog.String("file", r.File))
}

// watchFiles adds the directory of every path to watcher and returns the
// set of cleaned absolute paths. Directories are watched instead of files
// so that editors replacing a file by rename are still noticed.
func watchFiles(watcher *fsnotify.Watcher, paths []string) (map[string]struct{}, error) {
	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("file", path))
		}

		files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}

		dirs[dir] = struct{}{}
	}

	return files, nil
}
