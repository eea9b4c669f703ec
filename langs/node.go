package langs

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/iancoleman/strcase"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/runner"
)

// jsString returns s as a JSON string, which is also a JavaScript string
// literal.
func jsString(s string) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return "", err
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// ReprJSString renders a string as a JavaScript literal.
func ReprJSString(_ context.Context, v any, _ *lang.Language, _ *lang.Stack) (any, error) {
	return jsString(lang.Text(v))
}

// ReprJSDate renders a time as a Date constructor call.
func ReprJSDate(_ context.Context, v any, _ *lang.Language, _ *lang.Stack) (any, error) {
	t, _ := lang.TimeOf(v)

	iso, err := jsString(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	if err != nil {
		return nil, err
	}

	return "new Date(" + iso + ")", nil
}

// ReprJSBigInt renders a big integer as a BigInt literal.
func ReprJSBigInt(ctx context.Context, v any, l *lang.Language, s *lang.Stack) (any, error) {
	n, err := lang.ReprBigInt(ctx, v, l, s)
	if err != nil {
		return nil, err
	}

	return n.(string) + "n", nil
}

// JSKey quotes record keys as JavaScript strings.
func JSKey(name string, _ *lang.Language) (string, error) {
	return jsString(name)
}

// ConstName declares parameters as camelCase constants.
func ConstName(name string, l *lang.Language) (string, error) {
	name, err := lang.FormatName(strcase.ToLowerCamel(name), l)
	if err != nil {
		return "", err
	}

	return "const " + name, nil
}

// Node is JavaScript run by Node.js.
func Node() Type {
	return Type{
		Names: []string{"node", "js", "javascript"},
		Definition: &lang.Definition{
			Consts: lang.Consts{
				lang.ConstNull:             lang.String("null"),
				lang.ConstUndefined:        lang.String("undefined"),
				lang.ConstNaN:              lang.String("NaN"),
				lang.ConstPositiveInfinity: lang.String("Infinity"),
				lang.ConstNegativeInfinity: lang.String("-Infinity"),
				lang.ConstInvalidDate:      lang.String("new Date(NaN)"),
			},
			Reprs: map[lang.Kind]lang.ReprFunc{
				lang.KindString: ReprJSString,
				lang.KindDate:   ReprJSDate,
				lang.KindBigInt: ReprJSBigInt,
			},
			Format: lang.FormatDefinition{
				Declare: lang.DeclareDefinition{
					Name:  ConstName,
					Start: lang.String(""),
					End:   lang.String(";\n"),
					Sep:   lang.String(";\n"),
				},
				Object: lang.ObjectDefinition{Key: JSKey},
			},
		},
		Runner: runner.Config{
			Command: runner.Command{
				Bin:   runner.Literal("node"),
				Stdin: runner.Literal([]string{"-"}),
			},
			Extension: ".js",
		},
	}
}
