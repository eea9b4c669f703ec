package seq

import (
	"context"
	"iter"
	"reflect"
)

// Values returns an iterator over the elements of v, treating synchronous
// and asynchronous sequences alike. The second result is false if v is not
// a sequence.
//
// Recognized sequences are slices, arrays, receive-capable channels,
// [iter.Seq] and [iter.Seq2] functions of any element type and [Seq]
// values. For [iter.Seq2], the second element of each pair is yielded. A
// [Seq] forwards its fragments and ends with its first error. Receiving
// from a channel stops with the context's error once ctx is done.
func Values(ctx context.Context, v any) (iter.Seq2[any, error], bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case Seq:
		return fragments(v), true
	case iter.Seq[string]:
		return lift(v), true
	case iter.Seq[any]:
		return lift(v), true
	case []any:
		return lift(sliceOf(v)), true
	case []string:
		return lift(sliceOf(v)), true
	case <-chan string:
		return fromChan(ctx, reflect.ValueOf(v)), true
	case <-chan any:
		return fromChan(ctx, reflect.ValueOf(v)), true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fromIndex(rv), true
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, false
		}

		return fromChan(ctx, rv), true
	case reflect.Func:
		if rv.IsNil() || !isPushFunc(rv.Type()) {
			return nil, false
		}

		if rv.Type().ConvertibleTo(seqType) {
			return fragments(rv.Convert(seqType).Interface().(Seq)), true
		}

		return fromPush(rv), true
	default:
		return nil, false
	}
}

var seqType = reflect.TypeFor[Seq]()

// IsSequence reports whether [Values] accepts v.
func IsSequence(v any) bool {
	if _, ok := v.(Seq); ok {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	case reflect.Chan:
		return rv.Type().ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		return isPushFunc(rv.Type())
	default:
		return false
	}
}

// isPushFunc matches func(func(T) bool) and func(func(K, V) bool).
func isPushFunc(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}

	y := t.In(0)

	return y.Kind() == reflect.Func &&
		(y.NumIn() == 1 || y.NumIn() == 2) &&
		y.NumOut() == 1 &&
		y.Out(0).Kind() == reflect.Bool
}

func sliceOf[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

func lift[T any](s iter.Seq[T]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

func fragments(s Seq) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for str, err := range s {
			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(str, nil) {
				return
			}
		}
	}
}

func fromIndex(rv reflect.Value) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for i := range rv.Len() {
			if !yield(rv.Index(i).Interface(), nil) {
				return
			}
		}
	}
}

func fromChan(ctx context.Context, rv reflect.Value) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
			{Dir: reflect.SelectRecv, Chan: rv},
		}

		for {
			chosen, recv, ok := reflect.Select(cases)
			if chosen == 0 {
				yield(nil, ctx.Err())

				return
			}

			if !ok || !yield(recv.Interface(), nil) {
				return
			}
		}
	}
}

func fromPush(rv reflect.Value) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		cb := reflect.MakeFunc(rv.Type().In(0),
			func(args []reflect.Value) []reflect.Value {
				more := yield(args[len(args)-1].Interface(), nil)

				return []reflect.Value{reflect.ValueOf(more)}
			},
		)

		rv.Call([]reflect.Value{cb})
	}
}
