package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ardnew/litscript/seq"
)

// validName matches identifiers accepted by [FormatName].
var validName = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// FormatName returns name unchanged if it is a valid identifier, and
// [ErrInvalidName] otherwise.
func FormatName(name string, l *Language) (string, error) {
	if !validName.MatchString(name) {
		return "", ErrInvalidName.Wrap(
			fmt.Errorf("%q is an invalid name for %s", name, l.Name()),
		).With(slog.String("name", name), slog.String("language", l.Name()))
	}

	return name, nil
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote returns s in double quotes with backslashes and double quotes
// escaped.
func Quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// QuoteKey is a [NameFunc] that formats keys with [Quote].
func QuoteKey(name string, _ *Language) (string, error) {
	return Quote(name), nil
}

// ReprString renders strings with [Quote]. Byte slices are rendered as
// their text.
func ReprString(_ context.Context, v any, _ *Language, _ *Stack) (any, error) {
	return Quote(Text(v)), nil
}

// ReprBoolean renders booleans as the true and false constants.
func ReprBoolean(_ context.Context, v any, l *Language, _ *Stack) (any, error) {
	c := ConstFalse
	if truthOf(v) {
		c = ConstTrue
	}

	if s, ok := l.Const(c); ok {
		return s, nil
	}

	return nil, nil
}

// ReprNumber renders integers in base 10 and floats in the shortest form
// that reads back to the same value.
func ReprNumber(_ context.Context, v any, _ *Language, _ *Stack) (any, error) {
	switch n := v.(type) {
	case float64:
		return formatFloat(n), nil
	case float32:
		return formatFloat(float64(n)), nil
	}

	if i, ok := intOf(v); ok {
		return strconv.FormatInt(i, 10), nil
	}

	if u, ok := uintOf(v); ok {
		return strconv.FormatUint(u, 10), nil
	}

	if f, ok := floatOf(v); ok {
		return formatFloat(f), nil
	}

	return fmt.Sprint(v), nil
}

// formatFloat uses plain notation for magnitudes in [1e-6, 1e21) and
// exponent notation otherwise, always with the fewest digits that read
// back to f.
func formatFloat(f float64) string {
	abs := math.Abs(f)

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)

	// 1e-07 -> 1e-7
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")

	return mant + "e" + sign + exp
}

// ReprBigInt renders a big integer in base 10.
func ReprBigInt(_ context.Context, v any, _ *Language, _ *Stack) (any, error) {
	return bigOf(v).String(), nil
}

// ReprDate renders a time as an ISO 8601 UTC timestamp with millisecond
// precision, passed through the string conversion of l.
func ReprDate(ctx context.Context, v any, l *Language, s *Stack) (any, error) {
	t, _ := TimeOf(v)
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")

	fn, ok := l.ReprOf(KindString)
	if !ok {
		return nil, l.unsupported("[string] (from [date])")
	}

	return fn(ctx, iso, l, s)
}

// ReprIterable renders a sequence using the iterable format of l: the start
// token, the elements separated by the separator, then the end token. Empty
// tokens are omitted.
func ReprIterable(ctx context.Context, v any, l *Language, s *Stack) (any, error) {
	values, ok := seq.Values(ctx, v)
	if !ok {
		return nil, l.unsupported(fmt.Sprintf("[iterable] of %T", v))
	}

	f := l.format.Iterable

	return seq.Seq(func(yield func(string, error) bool) {
		if f.Start != "" && !yield(f.Start, nil) {
			return
		}

		more := s.Scoped(ContainerIterable, func() bool {
			first := true

			for e, err := range values {
				if err != nil {
					yield("", err)

					return false
				}

				if !first && !yield(f.Sep, nil) {
					return false
				}

				first = false

				if !forward(l.Pull(ctx, e, s), yield) {
					return false
				}
			}

			return true
		})

		if more && f.End != "" {
			yield(f.End, nil)
		}
	}), nil
}

// ReprObject renders a record using the object format of l. It fails
// with [ErrUnsupported] if l has no key formatter.
func ReprObject(ctx context.Context, v any, l *Language, s *Stack) (any, error) {
	f := l.format.Object
	if f.Key == nil {
		return nil, l.unsupported("[key] of objects")
	}

	entries, ok := fieldsOf(v)
	if !ok {
		return nil, l.unsupported(fmt.Sprintf("[object] of %T", v))
	}

	return seq.Seq(func(yield func(string, error) bool) {
		if f.Start != "" && !yield(f.Start, nil) {
			return
		}

		more := s.Scoped(ContainerObject, func() bool {
			first := true

			for k, e := range entries {
				key, err := f.Key(k, l)
				if err != nil {
					yield("", err)

					return false
				}

				if !first {
					key = f.Sep + key
				}

				first = false

				if !yield(key+f.Assign, nil) || !forward(l.Pull(ctx, e, s), yield) {
					return false
				}
			}

			return true
		})

		if more && f.End != "" {
			yield(f.End, nil)
		}
	}), nil
}

// forward passes every fragment of src to yield and reports whether the
// consumer wants more and no error occurred.
func forward(src seq.Seq, yield func(string, error) bool) bool {
	for str, err := range src {
		if !yield(str, err) || err != nil {
			return false
		}
	}

	return true
}

// defaultFormat is the base every [Language] format resolves against.
func defaultFormat() Format {
	return Format{
		Indent: "  ",
		EOL:    "\n",
		Declare: DeclareFormat{
			Name:   FormatName,
			Assign: " = ",
			Start:  "[",
			End:    "]",
			Sep:    ", ",
		},
		Iterable: ListFormat{
			Start: "[",
			End:   "]",
			Sep:   ", ",
		},
		Object: ObjectFormat{
			Key:    QuoteKey,
			Assign: ": ",
			Start:  "{",
			End:    "}",
			Sep:    ", ",
		},
	}
}

func defaultConsts() Consts {
	return Consts{
		ConstTrue:  String("true"),
		ConstFalse: String("false"),
	}
}

func defaultReprs() map[Kind]ReprFunc {
	return map[Kind]ReprFunc{
		KindString:   ReprString,
		KindBoolean:  ReprBoolean,
		KindNumber:   ReprNumber,
		KindBigInt:   ReprBigInt,
		KindDate:     ReprDate,
		KindIterable: ReprIterable,
		KindObject:   ReprObject,
	}
}

// Integers within these bounds are exactly representable as float64.
var (
	maxSafeInteger = big.NewInt(1<<53 - 1)
	minSafeInteger = big.NewInt(-(1<<53 - 1))
)

func isSafeInteger(n *big.Int) bool {
	return n.Cmp(minSafeInteger) >= 0 && n.Cmp(maxSafeInteger) <= 0
}
