package lang

import (
	"context"
	"slices"
)

// ReprFunc converts v into its target-language text.
//
// The result may be a string, a [seq.Seq], an iter.Seq[string], a []string,
// an [io.Reader], nil for no output, or a zero-argument function producing
// any of these. See [Language.Pull].
type ReprFunc func(ctx context.Context, v any, l *Language, s *Stack) (any, error)

// NameFunc formats a declaration name or an object key.
type NameFunc func(name string, l *Language) (string, error)

// Const names a constant literal of a language. Every [Kind] name is also
// a valid Const, which makes that kind render as the constant.
type Const string

const (
	ConstTrue             Const = "true"
	ConstFalse            Const = "false"
	ConstNull             Const = "null"
	ConstUndefined        Const = "undefined"
	ConstNaN              Const = "nan"
	ConstPositiveInfinity Const = "positive_infinity"
	ConstNegativeInfinity Const = "negative_infinity"
	ConstInvalidDate      Const = "invalid_date"
)

// Consts maps constants to their literal text. A present key with a nil
// value removes the constant.
type Consts map[Const]*string

// Restriction limits the containers a kind may be placed in. A nil Valid
// allows every container; a nil Invalid denies none. Invalid wins over
// Valid.
type Restriction struct {
	Valid   []Container
	Invalid []Container
}

// Allows reports whether the restriction permits placement in parent.
func (r Restriction) Allows(parent Container) bool {
	if slices.Contains(r.Invalid, parent) {
		return false
	}

	return r.Valid == nil || slices.Contains(r.Valid, parent)
}

func (r Restriction) clone() Restriction {
	return Restriction{
		Valid:   slices.Clone(r.Valid),
		Invalid: slices.Clone(r.Invalid),
	}
}

// DeclareFormat renders a declaration block.
type DeclareFormat struct {
	Name   NameFunc
	Assign string
	Start  string
	End    string
	Sep    string
}

// ListFormat renders an iterable.
type ListFormat struct {
	Start string
	End   string
	Sep   string
	Restriction
}

// ObjectFormat renders a record. A nil Key makes records unsupported.
type ObjectFormat struct {
	Key    NameFunc
	Assign string
	Start  string
	End    string
	Sep    string
	Restriction
}

// Format is the resolved formatting of a [Language].
type Format struct {
	Indent   string
	EOL      string
	Declare  DeclareFormat
	Iterable ListFormat
	Object   ObjectFormat

	// Restrict holds placement rules for kinds other than iterable and
	// object, whose rules live in their own formats.
	Restrict map[Kind]Restriction
}

// restriction returns the placement rule for k.
func (f Format) restriction(k Kind) Restriction {
	switch k {
	case KindIterable:
		return f.Iterable.Restriction
	case KindObject:
		return f.Object.Restriction
	default:
		return f.Restrict[k]
	}
}

// Definition configures a [Language]. Every field is optional and a field
// left nil keeps the default. Fields never merge recursively: a non-nil
// field replaces exactly the value it names.
type Definition struct {
	// ShrinkBigInt is a token accepted by [ParseShrink].
	ShrinkBigInt string

	Consts Consts

	// Reprs replaces conversion functions per kind. A present key with a
	// nil function removes the conversion.
	Reprs map[Kind]ReprFunc

	Format FormatDefinition
}

// FormatDefinition overrides parts of the default [Format].
type FormatDefinition struct {
	Indent   *string
	EOL      *string
	Declare  DeclareDefinition
	Iterable ListDefinition
	Object   ObjectDefinition
	Restrict map[Kind]Restriction
}

// DeclareDefinition overrides parts of the default [DeclareFormat].
type DeclareDefinition struct {
	Name   NameFunc
	Assign *string
	Start  *string
	End    *string
	Sep    *string
}

// ListDefinition overrides parts of the default [ListFormat].
type ListDefinition struct {
	Start   *string
	End     *string
	Sep     *string
	Valid   *[]Container
	Invalid *[]Container
}

// ObjectDefinition overrides parts of the default [ObjectFormat].
type ObjectDefinition struct {
	Key     NameFunc
	Keyless bool // removes the key formatter, Key is ignored
	Assign  *string
	Start   *string
	End     *string
	Sep     *string
	Valid   *[]Container
	Invalid *[]Container
}

// String returns a pointer to s, for use in definitions.
func String(s string) *string { return &s }

// Containers returns a pointer to a list of containers, for use in
// definitions. With no arguments it returns an empty, non-nil list.
func Containers(c ...Container) *[]Container {
	l := append([]Container{}, c...)

	return &l
}

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func overrideList(dst *[]Container, src *[]Container) {
	if src != nil {
		*dst = slices.Clone(*src)
		if *dst == nil {
			*dst = []Container{}
		}
	}
}

// resolve applies d on top of base and returns the result. base is not
// modified.
func (d FormatDefinition) resolve(base Format) Format {
	f := base

	f.Iterable.Restriction = base.Iterable.Restriction.clone()
	f.Object.Restriction = base.Object.Restriction.clone()
	f.Restrict = make(map[Kind]Restriction, len(base.Restrict)+len(d.Restrict))

	for k, r := range base.Restrict {
		f.Restrict[k] = r.clone()
	}

	for k, r := range d.Restrict {
		f.Restrict[k] = r.clone()
	}

	override(&f.Indent, d.Indent)
	override(&f.EOL, d.EOL)

	if d.Declare.Name != nil {
		f.Declare.Name = d.Declare.Name
	}

	override(&f.Declare.Assign, d.Declare.Assign)
	override(&f.Declare.Start, d.Declare.Start)
	override(&f.Declare.End, d.Declare.End)
	override(&f.Declare.Sep, d.Declare.Sep)

	override(&f.Iterable.Start, d.Iterable.Start)
	override(&f.Iterable.End, d.Iterable.End)
	override(&f.Iterable.Sep, d.Iterable.Sep)
	overrideList(&f.Iterable.Valid, d.Iterable.Valid)
	overrideList(&f.Iterable.Invalid, d.Iterable.Invalid)

	switch {
	case d.Object.Keyless:
		f.Object.Key = nil
	case d.Object.Key != nil:
		f.Object.Key = d.Object.Key
	}

	override(&f.Object.Assign, d.Object.Assign)
	override(&f.Object.Start, d.Object.Start)
	override(&f.Object.End, d.Object.End)
	override(&f.Object.Sep, d.Object.Sep)
	overrideList(&f.Object.Valid, d.Object.Valid)
	overrideList(&f.Object.Invalid, d.Object.Invalid)

	return f
}

func (c Consts) resolve(base Consts) Consts {
	out := make(Consts, len(base)+len(c))

	for _, m := range []Consts{base, c} {
		for k, v := range m {
			if v != nil {
				v = String(*v)
			}

			out[k] = v
		}
	}

	return out
}
