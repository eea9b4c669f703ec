package runner

import "context"

// Entry is a command line member that is resolved only when a process is
// about to be spawned. The zero Entry is unset and resolves to the zero
// value of T.
type Entry[T any] struct {
	resolve func(context.Context) (T, error)
}

// Literal returns an Entry holding v.
func Literal[T any](v T) Entry[T] {
	return Entry[T]{resolve: func(context.Context) (T, error) { return v, nil }}
}

// Producer returns an Entry that calls fn on every resolution.
func Producer[T any](fn func() T) Entry[T] {
	return Entry[T]{resolve: func(context.Context) (T, error) { return fn(), nil }}
}

// Deferred returns an Entry whose value is computed by fn, which may block
// until ctx is done.
func Deferred[T any](fn func(ctx context.Context) (T, error)) Entry[T] {
	return Entry[T]{resolve: fn}
}

// IsSet reports whether e was constructed with a value.
func (e Entry[T]) IsSet() bool { return e.resolve != nil }

// Resolve returns the value of e.
func (e Entry[T]) Resolve(ctx context.Context) (T, error) {
	if e.resolve == nil {
		var zero T

		return zero, nil
	}

	return e.resolve(ctx)
}

// or returns e if it is set and fallback otherwise.
func (e Entry[T]) or(fallback Entry[T]) Entry[T] {
	if e.IsSet() {
		return e
	}

	return fallback
}
