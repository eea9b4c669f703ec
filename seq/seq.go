// Package seq provides lazy sequences of text fragments.
//
// A [Seq] yields fragments paired with an error. A non-nil error is always
// the final element; consumers stop reading when they see one.
package seq

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
)

// Seq is a lazy sequence of text fragments.
type Seq = iter.Seq2[string, error]

// DefaultReadSize is the chunk size used by [Reader] when none is given.
const DefaultReadSize = 4096

// Empty returns a sequence with no fragments.
func Empty() Seq {
	return func(func(string, error) bool) {}
}

// Of returns a sequence that yields each of s in order.
func Of(s ...string) Seq {
	return func(yield func(string, error) bool) {
		for _, str := range s {
			if !yield(str, nil) {
				return
			}
		}
	}
}

// Fail returns a sequence that yields only err.
func Fail(err error) Seq {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}

// Chain concatenates seqs lazily. Each sequence is started only after the
// previous one is exhausted, and the first error ends the chain.
func Chain(seqs ...Seq) Seq {
	return func(yield func(string, error) bool) {
		for _, s := range seqs {
			if s == nil {
				continue
			}

			for str, err := range s {
				if !yield(str, err) || err != nil {
					return
				}
			}
		}
	}
}

// Strings lifts a sequence of strings into a [Seq].
func Strings(s iter.Seq[string]) Seq {
	return func(yield func(string, error) bool) {
		for str := range s {
			if !yield(str, nil) {
				return
			}
		}
	}
}

// Chan yields strings received from ch until it is closed. If ctx is done
// first, the sequence ends with the context's error.
func Chan(ctx context.Context, ch <-chan string) Seq {
	return func(yield func(string, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield("", ctx.Err())

				return
			case str, ok := <-ch:
				if !ok || !yield(str, nil) {
					return
				}
			}
		}
	}
}

// Reader yields successive reads of at most size bytes from r. A size of
// zero or less uses [DefaultReadSize]. Nothing is read until the sequence
// is iterated.
func Reader(r io.Reader, size int) Seq {
	if size <= 0 {
		size = DefaultReadSize
	}

	return func(yield func(string, error) bool) {
		buf := make([]byte, size)

		for {
			n, err := r.Read(buf)
			if n > 0 && !yield(string(buf[:n]), nil) {
				return
			}

			switch {
			case errors.Is(err, io.EOF):
				return
			case err != nil:
				yield("", err)

				return
			}
		}
	}
}

// Collect concatenates every fragment of s. On error, it returns the text
// collected so far together with the error.
func Collect(s Seq) (string, error) {
	var sb strings.Builder

	for str, err := range s {
		if err != nil {
			return sb.String(), err
		}

		sb.WriteString(str)
	}

	return sb.String(), nil
}

// WriteTo writes every fragment of s to w and returns the number of bytes
// written.
func WriteTo(w io.Writer, s Seq) (int64, error) {
	var total int64

	for str, err := range s {
		if err != nil {
			return total, err
		}

		if str == "" {
			continue
		}

		n, err := io.WriteString(w, str)
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}
