package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// Streams are the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the streams of the current process.
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// input is an opened input file. Closing standard input is a no-op.
type input struct {
	name string
	io.ReadCloser
}

// openInputs opens every distinct file in paths, in order.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single reader of stdin,
// placed last so it reads after all regular files. A named file that is
// stdin itself collapses into that reader too.
func openInputs(paths []string, stdin io.Reader) ([]input, error) {
	var (
		inputs   = make([]input, 0, len(paths))
		seen     = make(map[fileKey]struct{})
		hasStdin bool
	)

	stdinKey, stdinKnown := readerKey(stdin)

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			closeInputs(inputs)

			return nil, err
		}

		if stdinKnown && key == stdinKey {
			hasStdin = true

			if file != nil {
				file.Close()
			}

			continue
		}

		if file != nil {
			inputs = append(inputs, input{name: path, ReadCloser: file})
		}
	}

	if hasStdin {
		inputs = append(inputs, input{name: stdinSource, ReadCloser: io.NopCloser(stdin)})
	}

	return inputs, nil
}

func closeInputs(inputs []input) {
	for _, in := range inputs {
		in.Close()
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path if it hasn't been seen before. A
// duplicate returns a nil file and no error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

func readerKey(r io.Reader) (fileKey, bool) {
	f, ok := r.(*os.File)
	if !ok {
		return fileKey{}, false
	}

	info, err := f.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
