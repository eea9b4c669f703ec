package lang_test

import (
	"context"
	"fmt"

	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/param"
	"github.com/ardnew/litscript/seq"
)

func Example() {
	python, err := lang.New("python", &lang.Definition{
		Consts: lang.Consts{
			lang.ConstTrue:  lang.String("True"),
			lang.ConstFalse: lang.String("False"),
			lang.ConstNull:  lang.String("None"),
		},
	})
	if err != nil {
		panic(err)
	}

	text, err := seq.Collect(python.Pull(context.Background(), []any{1, "a", nil, true}, nil))
	fmt.Println(text, err)
	// Output: [1, "a", None, True] <nil>
}

func ExampleLanguage_Declare() {
	params := param.New()
	params.Add("name", "", "world")
	params.Add("count", "n", 3)

	text, _ := seq.Collect(lang.Default().Declare(
		context.Background(),
		params.Entries(map[string]any{"count": 5}),
		nil,
	))
	fmt.Println(text)
	// Output: [name = "world", n = 5]
}

func ExampleRaw() {
	l := lang.Default()

	text, _ := seq.Collect(l.Pull(context.Background(), []any{lang.Raw("$HOME"), "~"}, nil))
	fmt.Println(text)
	// Output: [$HOME, "~"]
}
