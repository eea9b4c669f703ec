package lang

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/litscript/seq"
)

// Escape bypasses classification. Its payload is emitted as is and may be
// a string, a [seq.Seq], an iter.Seq[string], a []string, an [io.Reader],
// nil, another Escape, or a zero-argument function producing one of these
// (optionally with an error as its second result).
type Escape struct {
	payload any
}

// Payload returns the value carried by e.
func (e Escape) Payload() any { return e.payload }

// Raw returns payload wrapped in an [Escape].
func Raw(payload any) Escape { return Escape{payload: payload} }

// Include returns an [Escape] that streams the contents of the file at
// path. The file is opened only when the output is consumed, read ahead
// asynchronously and closed once it is exhausted or the consumer stops.
func Include(path string) Escape {
	return include(func() (io.ReadCloser, error) { return os.Open(path) })
}

// IncludeFS is like [Include] but reads name from fsys.
func IncludeFS(fsys fs.FS, name string) Escape {
	return include(func() (io.ReadCloser, error) { return fsys.Open(name) })
}

func include(open func() (io.ReadCloser, error)) Escape {
	return Raw(func() any {
		return seq.Seq(func(yield func(string, error) bool) {
			f, err := open()
			if err != nil {
				yield("", err)

				return
			}
			defer f.Close()

			ra := readahead.NewReader(f)
			defer ra.Close()

			forward(seq.Reader(ra, 0), yield)
		})
	})
}

// Field is one key and value of a [Record].
type Field struct {
	Key   string
	Value any
}

// Record is an object whose fields are rendered in order.
type Record []Field

// Symbol is an opaque symbolic value. No default conversion exists for
// symbols.
type Symbol string

type undefined struct{}

// Undefined is the absent value. It is distinct from nil, which is null.
var Undefined any = undefined{}

// Deferred is a value that becomes available only after some work
// completes. [Language.Pull] waits for it before converting the result.
type Deferred func(ctx context.Context) (any, error)

// Async starts fn in a new goroutine and returns a [Deferred] that waits
// for its result. Canceling ctx abandons the wait but not fn, which should
// observe ctx itself.
func Async(ctx context.Context, fn func(ctx context.Context) (any, error)) Deferred {
	type result struct {
		v   any
		err error
	}

	done := make(chan result, 1)

	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	return func(wait context.Context) (any, error) {
		select {
		case r := <-done:
			// allow waiting again
			done <- r

			return r.v, r.err
		case <-wait.Done():
			return nil, wait.Err()
		}
	}
}
