package langs

import (
	"context"

	"github.com/kballard/go-shellquote"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/runner"
)

// ReprShellWord renders a string as a single shell word, quoting only when
// it has to.
func ReprShellWord(_ context.Context, v any, _ *lang.Language, _ *lang.Stack) (any, error) {
	return shellquote.Join(lang.Text(v)), nil
}

func shellDefinition(list lang.ListDefinition) *lang.Definition {
	return &lang.Definition{
		ShrinkBigInt: "none",
		Consts: lang.Consts{
			lang.ConstNull: lang.String("''"),
		},
		Reprs: map[lang.Kind]lang.ReprFunc{
			lang.KindString: ReprShellWord,
		},
		Format: lang.FormatDefinition{
			Declare: lang.DeclareDefinition{
				Assign: lang.String("="),
				Start:  lang.String(""),
				End:    lang.String("\n"),
				Sep:    lang.String("\n"),
			},
			Iterable: list,
			Object:   lang.ObjectDefinition{Keyless: true},
		},
	}
}

func shellRunner(bin string) runner.Config {
	return runner.Config{
		Command: runner.Command{
			Bin:   runner.Literal(bin),
			Stdin: runner.Literal([]string{"-s", "--"}),
		},
		Extension: ".sh",
	}
}

// Sh is the POSIX shell. Lists are space separated words and may only
// appear in the script body, as in a for loop.
func Sh() Type {
	return Type{
		Names: []string{"sh"},
		Definition: shellDefinition(lang.ListDefinition{
			Start: lang.String(""),
			End:   lang.String(""),
			Sep:   lang.String(" "),
			Valid: lang.Containers(lang.ContainerBody),
		}),
		Runner: shellRunner("sh"),
	}
}

// Bash renders lists as indexed arrays, which may also be declared.
func Bash() Type {
	return Type{
		Names: []string{"bash"},
		Definition: shellDefinition(lang.ListDefinition{
			Start: lang.String("("),
			End:   lang.String(")"),
			Sep:   lang.String(" "),
			Valid: lang.Containers(lang.ContainerBody, lang.ContainerDeclare),
		}),
		Runner: shellRunner("bash"),
	}
}
