package lang

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"math/big"
	"reflect"

	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/seq"
)

// MaxTrampoline bounds how many zero-argument functions [Language.Pull]
// calls in a row while resolving a single conversion result.
const MaxTrampoline = 1000

// Language converts values into the literals of one target language.
//
// A Language is immutable and safe for concurrent use. Conversions that
// run concurrently must use separate stacks.
type Language struct {
	name   string
	shrink Shrink
	consts Consts
	reprs  map[Kind]ReprFunc
	format Format
}

// New resolves def against the defaults into a [Language] called name. A
// nil def yields the defaults. It fails with [ErrShrinkPolicy] if the
// shrink policy token is not recognized.
func New(name string, def *Definition) (*Language, error) {
	if def == nil {
		def = &Definition{}
	}

	shrink, err := ParseShrink(def.ShrinkBigInt)
	if err != nil {
		return nil, err
	}

	reprs := defaultReprs()
	maps.Copy(reprs, def.Reprs)

	l := &Language{
		name:   name,
		shrink: shrink,
		consts: def.Consts.resolve(defaultConsts()),
		reprs:  reprs,
		format: def.Format.resolve(defaultFormat()),
	}

	log.Trace("language resolved",
		slog.String("language", name),
		slog.String("shrink", shrink.String()),
	)

	return l, nil
}

// Default returns a language using only the defaults.
func Default() *Language {
	l, _ := New("default", nil)

	return l
}

// Name returns the name of l.
func (l *Language) Name() string { return l.name }

// Shrink returns the big integer policy of l.
func (l *Language) Shrink() Shrink { return l.shrink }

// Format returns the resolved format of l.
func (l *Language) Format() Format {
	f := l.format
	f.Iterable.Restriction = f.Iterable.Restriction.clone()
	f.Object.Restriction = f.Object.Restriction.clone()
	f.Restrict = maps.Clone(f.Restrict)

	return f
}

// Const returns the literal text of c, if l defines one.
func (l *Language) Const(c Const) (string, bool) {
	if s := l.consts[c]; s != nil {
		return *s, true
	}

	return "", false
}

// ReprOf returns the conversion function for k, if l has one.
func (l *Language) ReprOf(k Kind) (ReprFunc, bool) {
	fn := l.reprs[k]

	return fn, fn != nil
}

func (l *Language) unsupported(what string) error {
	return ErrUnsupported.Wrap(
		fmt.Errorf("%s not supported by %s", what, l.name),
	).With(slog.String("language", l.name), slog.String("what", what))
}

// AllowedWithin reports whether values of kind k may be placed in a
// container of type parent. A deny-list match always wins; otherwise an
// allow-list, if any, must contain parent.
func (l *Language) AllowedWithin(k Kind, parent Container) bool {
	return l.format.restriction(k).Allows(parent)
}

func (l *Language) assertAllowed(k Kind, s *Stack) error {
	top, ok := s.Top()
	if !ok || l.AllowedWithin(k, top.Type) {
		return nil
	}

	return ErrDisallowed.Wrap(
		fmt.Errorf("[%s] not allowed in [%s] for %s", k, top.Type, l.name),
	).With(
		slog.String("language", l.name),
		slog.String("kind", k.String()),
		slog.String("container", top.Type.String()),
	)
}

// Repr returns the unnormalized conversion of v within the nesting s.
//
// The payload of an [Escape] is returned unexamined. A constant defined for
// the kind of v is returned verbatim, ignoring placement rules. Big
// integers go through [Language.MaybeShrink]. Every other kind must be
// allowed in the top container of s and have a conversion function.
func (l *Language) Repr(ctx context.Context, v any, s *Stack) (any, error) {
	switch e := v.(type) {
	case Escape:
		return e.payload, nil
	case *Escape:
		return e.payload, nil
	}

	k := Classify(v)

	if c, ok := l.Const(Const(k.String())); ok {
		return c, nil
	}

	if k == KindBigInt {
		return l.MaybeShrink(ctx, bigOf(v), s)
	}

	if err := l.assertAllowed(k, s); err != nil {
		return nil, err
	}

	fn, ok := l.ReprOf(k)
	if !ok {
		return nil, l.unsupported("[" + k.String() + "]")
	}

	return fn(ctx, v, l, s)
}

// MaybeShrink converts n with the number conversion when the shrink policy
// is all, or small and n is within ±(2^53-1). Otherwise it uses the bigint
// conversion. A number conversion receives an int64, or a float64 if n
// does not fit.
func (l *Language) MaybeShrink(ctx context.Context, n *big.Int, s *Stack) (any, error) {
	if l.shrink == ShrinkAll || (l.shrink == ShrinkSmall && isSafeInteger(n)) {
		fn, ok := l.ReprOf(KindNumber)
		if !ok {
			return nil, l.unsupported("[number] (from [bigint])")
		}

		if n.IsInt64() {
			return fn(ctx, n.Int64(), l, s)
		}

		f, _ := new(big.Float).SetInt(n).Float64()

		return fn(ctx, f, l, s)
	}

	fn, ok := l.ReprOf(KindBigInt)
	if !ok {
		return nil, l.unsupported("[bigint]")
	}

	return fn(ctx, n, l, s)
}

// Pull converts v into a sequence of text fragments within the nesting s,
// or within a fresh stack rooted at [ContainerRoot] if s is nil.
//
// A [Deferred] v is awaited first. Function results of the conversion are
// called until something else is returned, at most [MaxTrampoline] times.
// The result is then normalized: nil and "" yield nothing, a string yields
// once, sequences and readers are forwarded fragment by fragment and any
// other value yields a single empty fragment.
func (l *Language) Pull(ctx context.Context, v any, s *Stack) seq.Seq {
	return func(yield func(string, error) bool) {
		st := s
		if st == nil {
			st = NewStack(ContainerRoot)
		}

		v, err := await(ctx, v)
		if err != nil {
			yield("", err)

			return
		}

		res, err := l.Repr(ctx, v, st)
		if err == nil {
			res, err = trampoline(ctx, res)
		}

		if err != nil {
			yield("", err)

			return
		}

		forward(normalize(res), yield)
	}
}

// Declare renders entries through the declaration format within the
// nesting s, or within a fresh stack rooted at [ContainerDeclare] if s is
// nil. Entries are emitted in order, names formatted by the declaration
// name formatter.
func (l *Language) Declare(
	ctx context.Context,
	entries iter.Seq2[string, any],
	s *Stack,
) seq.Seq {
	return func(yield func(string, error) bool) {
		st := s
		if st == nil {
			st = NewStack(ContainerDeclare)
		}

		f := l.format.Declare

		if f.Start != "" && !yield(f.Start, nil) {
			return
		}

		first := true

		for name, v := range entries {
			if f.Name != nil {
				var err error
				if name, err = f.Name(name, l); err != nil {
					yield("", err)

					return
				}
			}

			if !first {
				name = f.Sep + name
			}

			first = false

			if !yield(name+f.Assign, nil) || !forward(l.Pull(ctx, v, st), yield) {
				return
			}
		}

		if f.End != "" {
			yield(f.End, nil)
		}
	}
}

func await(ctx context.Context, v any) (any, error) {
	for {
		d, ok := v.(Deferred)
		if !ok {
			return v, nil
		}

		var err error
		if v, err = d(ctx); err != nil {
			return nil, err
		}
	}
}

func trampoline(ctx context.Context, v any) (any, error) {
	for range MaxTrampoline {
		var err error

		switch fn := v.(type) {
		case Escape:
			v = fn.payload
		case *Escape:
			if fn == nil {
				return nil, nil
			}

			v = fn.payload
		case func() any:
			v = fn()
		case func() (any, error):
			v, err = fn()
		case func() string:
			v = fn()
		case Deferred:
			v, err = fn(ctx)
		case func(context.Context) (any, error):
			v, err = fn(ctx)
		default:
			var called bool
			if v, called, err = call(v); !called {
				return v, nil
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return nil, ErrTrampoline.With(slog.Int("limit", MaxTrampoline))
}

var errorType = reflect.TypeFor[error]()

// call invokes v if it is a non-nil function taking no arguments and
// returning either one value or a value and an error. It reports false,
// returning v unchanged, for anything else.
func call(v any) (any, bool, error) {
	fn := reflect.ValueOf(v)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return v, false, nil
	}

	typ := fn.Type()
	if typ.NumIn() != 0 {
		return v, false, nil
	}

	switch {
	case typ.NumOut() == 1:
	case typ.NumOut() == 2 && typ.Out(1) == errorType:
	default:
		return v, false, nil
	}

	out := fn.Call(nil)

	if len(out) == 2 && !out[1].IsNil() {
		return nil, true, out[1].Interface().(error)
	}

	return out[0].Interface(), true, nil
}

func normalize(v any) seq.Seq {
	switch r := v.(type) {
	case nil:
		return seq.Empty()
	case string:
		if r == "" {
			return seq.Empty()
		}

		return seq.Of(r)
	case seq.Seq:
		return r
	case func(func(string, error) bool):
		return r
	case iter.Seq[string]:
		return seq.Strings(r)
	case []string:
		return seq.Of(r...)
	case io.Reader:
		return func(yield func(string, error) bool) {
			if c, ok := r.(io.Closer); ok {
				defer c.Close()
			}

			forward(seq.Reader(r, 0), yield)
		}
	default:
		return seq.Of("")
	}
}
