// Package lang converts Go values into the literals of a target language.
//
// A [Language] is built from a [Definition] layered over defaults. Each
// value is classified into a [Kind] by [Classify]; the language then uses
// a constant for that kind if it defines one, or calls the kind's
// [ReprFunc]. Containers such as iterables and records convert their
// elements recursively, tracking the nesting on a [Stack] so that a
// [Restriction] can forbid a kind inside a given container.
//
// Conversions are lazy. [Language.Pull] and [Language.Declare] return a
// [seq.Seq] and do no work until it is iterated.
//
//	l, _ := lang.New("python", &lang.Definition{
//		Consts: lang.Consts{
//			lang.ConstTrue:  lang.String("True"),
//			lang.ConstFalse: lang.String("False"),
//			lang.ConstNull:  lang.String("None"),
//		},
//	})
//
//	text, err := seq.Collect(l.Pull(ctx, []any{1, "a", nil}, nil))
//	// [1, "a", None]
//
// # Defaults
//
// Without a definition, strings are double quoted with backslash and
// double quote escaped, iterables render as [a, b], records as {"k": v} and
// declarations as [x = 1, y = "z"]. Only true and false have constants;
// null, NaN, the infinities, undefined and invalid dates are unsupported.
//
// # Escapes
//
// [Raw] and [Include] wrap output that bypasses conversion entirely.
package lang
