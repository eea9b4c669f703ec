package lang

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ardnew/litscript/param"
	"github.com/ardnew/litscript/seq"
)

const pythonish = `
shrinkBigInt: none
consts:
  "null": None
  "true": "True"
  "false": "False"
format:
  declare: {start: "", end: "\n", sep: "\n", assign: " = "}
  iterable: {invalid: [iterable]}
  object:
    key: 'quote(name)'
reprs:
  string: '"<" + value + ">"'
  symbol: '"Symbol(" + repr(string(value)) + ")"'
  custom: 'kind(value)'
  number: 'value.Missing'
  bigint: ""
`

func loadLanguage(t *testing.T, src string) *Language {
	t.Helper()

	def, err := LoadDefinition(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}

	l, err := New("py", def)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return l
}

func TestLoadDefinition(t *testing.T) {
	l := loadLanguage(t, pythonish)

	tests := []struct {
		name    string
		in      any
		want    string
		wantErr error
	}{
		{"const", true, "True", nil},
		{"string program", "v", "<v>", nil},
		{"nested repr", Symbol("s"), "Symbol(<s>)", nil},
		{"kind", struct{}{}, "custom", nil},
		{"object key", map[string]any{"k": "v"}, `{"k": <v>}`, nil},
		{"null in list", []any{nil}, "[None]", nil},
		{"nested list denied", []any{[]any{"x"}}, "[", ErrDisallowed},
		{"removed repr", big.NewInt(1), "", ErrUnsupported},
		{"runtime failure", 1, "", ErrReprProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pull(t, l, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Pull = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadDefinition_Declare(t *testing.T) {
	l := loadLanguage(t, pythonish)

	table := param.New()
	table.Add("x", "", nil)
	table.Add("y", "", "z")

	got, err := seq.Collect(l.Declare(t.Context(), table.Entries(nil), nil))
	if err != nil {
		t.Fatal(err)
	}

	if want := "x = None\ny = <z>\n"; got != want {
		t.Errorf("Declare = %q, want %q", got, want)
	}
}

func TestLoadDefinition_Keyless(t *testing.T) {
	l := loadLanguage(t, "format:\n  object:\n    key: \"\"\n")

	if _, err := pull(t, l, Record{{"a", 1}}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want %v", err, ErrUnsupported)
	}
}

func TestLoadDefinition_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		also error
	}{
		{"unknown field", "colour: red\n", nil},
		{"unknown kind", "reprs:\n  tuple: '\"x\"'\n", ErrUnknownName},
		{"bad program", "reprs:\n  string: 'value +'\n", nil},
		{"bad name program", "format:\n  declare:\n    name: 'name +'\n", nil},
		{"unknown container", "format:\n  iterable:\n    invalid: [nowhere]\n", ErrUnknownName},
		{"unknown restricted kind", "format:\n  restrict:\n    tuple: {invalid: [root]}\n", ErrUnknownName},
		{"shrink policy", "shrinkBigInt: tiny\n", ErrShrinkPolicy},
		{"not yaml", "reprs: [\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefinition(t.Context(), strings.NewReader(tt.src))
			if !errors.Is(err, ErrLoadDefinition) {
				t.Fatalf("err = %v, want %v", err, ErrLoadDefinition)
			}

			if tt.also != nil && !errors.Is(err, tt.also) {
				t.Errorf("err = %v, want %v", err, tt.also)
			}
		})
	}
}

func TestCompile_Cached(t *testing.T) {
	env := nameEnv("", Default())

	a, err := compile("name", "quote(name)", env)
	if err != nil {
		t.Fatal(err)
	}

	b, err := compile("name", "quote(name)", env)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("identical programs compiled twice")
	}
}
