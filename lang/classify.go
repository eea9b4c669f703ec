package lang

import (
	"iter"
	"maps"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/litscript/seq"
)

// Classify returns the kind of v.
//
// An [Escape] is always [KindRepr]. Floats are checked for NaN and the
// infinities before [KindNumber]. Byte slices are strings. Sequences are
// checked before records, so a slice is never an object.
func Classify(v any) Kind {
	switch x := v.(type) {
	case Escape, *Escape:
		return KindRepr
	case nil:
		return KindNull
	case undefined:
		return KindUndefined
	case string, []byte:
		return KindString
	case bool:
		return KindBoolean
	case *big.Int:
		if x == nil {
			return KindNull
		}

		return KindBigInt
	case big.Int:
		return KindBigInt
	case float64:
		return classifyFloat(x)
	case float32:
		return classifyFloat(float64(x))
	case time.Time:
		return classifyTime(x)
	case *time.Time:
		if x == nil {
			return KindNull
		}

		return classifyTime(*x)
	case Symbol:
		return KindSymbol
	case Record:
		return KindObject
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return KindNumber
	case reflect.Float32, reflect.Float64:
		return classifyFloat(rv.Float())
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}

		return KindCustom
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}

		return KindCustom
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}

		if seq.IsSequence(v) {
			return KindIterable
		}

		return KindFunction
	}

	if seq.IsSequence(v) {
		return KindIterable
	}

	return KindCustom
}

func classifyFloat(f float64) Kind {
	switch {
	case math.IsNaN(f):
		return KindNaN
	case math.IsInf(f, -1):
		return KindNegativeInfinity
	case math.IsInf(f, 1):
		return KindPositiveInfinity
	default:
		return KindNumber
	}
}

func classifyTime(t time.Time) Kind {
	if t.IsZero() {
		return KindInvalidDate
	}

	return KindDate
}

// Text returns the text of a string-kinded value, or "" for any other
// value.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}

	return ""
}

func truthOf(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Bool && rv.Bool()
}

func intOf(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	default:
		return 0, false
	}
}

func uintOf(v any) (uint64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	default:
		return 0, false
	}
}

func floatOf(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func bigOf(v any) *big.Int {
	switch x := v.(type) {
	case *big.Int:
		return x
	case big.Int:
		return &x
	default:
		return new(big.Int)
	}
}

// TimeOf returns the time held by a date-kinded value.
func TimeOf(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x != nil {
			return *x, true
		}
	}

	return time.Time{}, false
}

// fieldsOf returns the fields of a record in rendering order: declaration
// order for [Record] and sorted key order for maps.
func fieldsOf(v any) (iter.Seq2[string, any], bool) {
	switch x := v.(type) {
	case Record:
		return func(yield func(string, any) bool) {
			for _, f := range x {
				if !yield(f.Key, f.Value) {
					return
				}
			}
		}, true
	case map[string]any:
		return func(yield func(string, any) bool) {
			for _, k := range slices.Sorted(maps.Keys(x)) {
				if !yield(k, x[k]) {
					return
				}
			}
		}, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	return func(yield func(string, any) bool) {
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})

		for _, k := range keys {
			if !yield(k.String(), rv.MapIndex(k).Interface()) {
				return
			}
		}
	}, true
}
