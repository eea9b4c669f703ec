package langs

import (
	"context"
	"strconv"

	"github.com/iancoleman/strcase"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/runner"
)

// ReprPythonString renders a string as a double-quoted Python literal.
func ReprPythonString(_ context.Context, v any, _ *lang.Language, _ *lang.Stack) (any, error) {
	return strconv.Quote(lang.Text(v)), nil
}

// SnakeName declares parameters in snake_case.
func SnakeName(name string, l *lang.Language) (string, error) {
	return lang.FormatName(strcase.ToSnake(name), l)
}

// Python is Python 3, reading the script from standard input.
func Python() Type {
	return Type{
		Names: []string{"python", "py", "python3"},
		Definition: &lang.Definition{
			Consts: lang.Consts{
				lang.ConstTrue:             lang.String("True"),
				lang.ConstFalse:            lang.String("False"),
				lang.ConstNull:             lang.String("None"),
				lang.ConstNaN:              lang.String(`float("nan")`),
				lang.ConstPositiveInfinity: lang.String(`float("inf")`),
				lang.ConstNegativeInfinity: lang.String(`-float("inf")`),
				lang.ConstInvalidDate:      lang.String("None"),
			},
			Reprs: map[lang.Kind]lang.ReprFunc{
				lang.KindString: ReprPythonString,
			},
			Format: lang.FormatDefinition{
				Declare: lang.DeclareDefinition{
					Name:  SnakeName,
					Start: lang.String(""),
					End:   lang.String("\n"),
					Sep:   lang.String("\n"),
				},
			},
		},
		Runner: runner.Config{
			Command: runner.Command{
				Bin:   runner.Literal("python3"),
				Stdin: runner.Literal([]string{"-"}),
			},
			Extension: ".py",
		},
	}
}
