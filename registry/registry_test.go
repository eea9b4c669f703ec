package registry_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/runner"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name string
		head string
		rest string
		typ  string
		opts map[string]any
	}{
		{"empty", "", "", "", nil},
		{"no directive", "echo\n", "echo\n", "", nil},
		{"leading newline", "\n#!/usr/bin/env python\nprint()", "print()", "python", nil},
		{"leading crlf", "\r\n#!/bin/env sh\nx", "x", "sh", nil},
		{"only one newline stripped", "\n\nx", "\nx", "", nil},
		{"bin", "#!/bin/sh {\"args\": \"a\"}\nx", "x", "sh", map[string]any{"args": "a"}},
		{"local bin", "#!/usr/local/bin/node\r\nx", "x", "node", nil},
		{"relative bin", "#!bin/env  bash\nx", "x", "bash", nil},
		{"options only", "#! {\"a\": 1}\nx", "x", "", map[string]any{"a": 1.0}},
		{"malformed options", "#!/bin/sh {bad}\nx", "x", "sh", nil},
		{"bare name", "#!bash\nx", "#!bash\nx", "", nil},
		{"unterminated", "#!/bin/sh", "#!/bin/sh", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, typ, opts := registry.ParseHeader(tt.head)

			if rest != tt.rest || typ != tt.typ {
				t.Errorf("ParseHeader(%q) = %q, %q; want %q, %q", tt.head, rest, typ, tt.rest, tt.typ)
			}

			if diff := cmp.Diff(tt.opts, opts); diff != "" {
				t.Errorf("options (-want +got):\n%s", diff)
			}
		})
	}
}

var python = &lang.Definition{
	Consts: lang.Consts{lang.ConstNull: lang.String("None")},
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r := registry.New()

	_, err := r.Define([]string{"sh"}, nil, builder.Options{})
	require.NoError(t, err)

	_, err = r.Define([]string{"py", "python", "python3"}, nil, builder.Options{Definition: python})
	require.NoError(t, err)

	require.NoError(t, r.SetDefault("sh"))

	return r
}

func content(t *testing.T, b *builder.Builder) string {
	t.Helper()

	s, err := b.Content(t.Context(), nil)
	require.NoError(t, err)

	return s
}

func TestScript(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name      string
		fragments []string
		values    []any
		typ       string
		want      string
	}{
		{"default", []string{"echo ", "\n"}, []any{"a"}, "sh", "[]echo \"a\"\n"},
		{"directive", []string{"#!/usr/bin/env python\nprint(", ")"}, []any{nil}, "py", "[]print(None)"},
		{"alias", []string{"\n#!/usr/bin/python3\nprint(", ")"}, []any{nil}, "py", "[]print(None)"},
		{"unknown type", []string{"#!/usr/bin/env ruby\nputs"}, nil, "sh", "[]puts"},
		{
			"params",
			[]string{"#!/bin/sh {\"params\": [[\"x\", 1], [\"y\", \"Y\", \"z\"], \"w\"]}\necho"},
			nil, "sh", `[x = 1, Y = "z"]echo`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.Script(t.Context(), tt.fragments, tt.values...)
			require.NoError(t, err)
			require.Equal(t, tt.typ, b.Name())
			require.Equal(t, tt.want, content(t, b))
		})
	}
}

func TestScript_Options(t *testing.T) {
	r := newRegistry(t)

	b, err := r.Script(t.Context(), []string{
		"#!/bin/sh {\"name\": \"custom\", \"useStdIn\": false, \"extension\": \".sh\", \"other\": 1}\n",
	})
	require.NoError(t, err)
	require.Equal(t, "custom", b.Name())
	require.False(t, b.Runner().UsesStdin())
	require.Equal(t, ".sh", b.Runner().Config().Extension)

	b, err = r.Script(t.Context(), []string{"#!/bin/sh\n"})
	require.NoError(t, err)
	require.True(t, b.Runner().UsesStdin())
}

func TestScript_BadOption(t *testing.T) {
	r := newRegistry(t)

	for _, header := range []string{
		`{"args": 1}`,
		`{"name": true}`,
		`{"params": "x"}`,
		`{"params": [[]]}`,
		`{"params": [[1, 2]]}`,
		`{"params": [["a", 1, 2]]}`,
		`{"useStdIn": "no"}`,
		`{"encoding": 8}`,
	} {
		_, err := r.Script(t.Context(), []string{"#!/bin/sh " + header + "\n"})
		if !errors.Is(err, registry.ErrHeader) {
			t.Errorf("%s: err = %v, want %v", header, err, registry.ErrHeader)
		}
	}
}

func TestScript_NoDefault(t *testing.T) {
	r := registry.New()

	_, err := r.Define([]string{"py"}, nil, builder.Options{})
	require.NoError(t, err)

	_, err = r.Script(t.Context(), []string{"echo"})
	require.ErrorIs(t, err, registry.ErrNoDefault)

	_, err = r.Script(t.Context(), []string{"#!/usr/bin/env ruby\n"})
	require.ErrorIs(t, err, registry.ErrNoDefault)

	b, err := r.Script(t.Context(), []string{"#!/usr/bin/env py\n"})
	require.NoError(t, err)
	require.Equal(t, "py", b.Name())
}

func TestTag_IgnoresDirectiveType(t *testing.T) {
	r := newRegistry(t)

	tag, err := r.Tag("sh")
	require.NoError(t, err)

	b, err := tag(t.Context(), []string{"#!/usr/bin/env python {\"args\": \"argv\"}\nx"})
	require.NoError(t, err)
	require.Equal(t, "sh", b.Name())
	require.Equal(t, "[]x", content(t, b))
}

func TestDefine(t *testing.T) {
	r := registry.New()

	var called []string

	factory := func(fragments []string, values []any, opts builder.Options) (*builder.Builder, error) {
		called = append(called, opts.Name)

		return builder.New(fragments, values, opts)
	}

	tag, err := r.Define([]string{"a", "b"}, factory, builder.Options{Name: "named"})
	require.NoError(t, err)

	b, err := tag(t.Context(), []string{"x"})
	require.NoError(t, err)
	require.Equal(t, "named", b.Name())

	e, err := r.Lookup("b")
	require.NoError(t, err)
	require.Equal(t, "named", e.Name)
	require.Equal(t, []string{"a", "b"}, e.Aliases)
	require.Equal(t, []string{"named"}, called)
	require.Equal(t, []string{"a", "b"}, r.Names())

	// Redefinition replaces the alias only.
	_, err = r.Define([]string{"b"}, nil, builder.Options{})
	require.NoError(t, err)

	e, err = r.Lookup("b")
	require.NoError(t, err)
	require.Equal(t, "b", e.Name)

	e, err = r.Lookup("a")
	require.NoError(t, err)
	require.Equal(t, "named", e.Name)
}

func TestDefine_Errors(t *testing.T) {
	r := registry.New()

	for _, names := range [][]string{nil, {}, {""}, {"a", ""}} {
		if _, err := r.Define(names, nil, builder.Options{}); !errors.Is(err, registry.ErrDefine) {
			t.Errorf("Define(%q): err = %v, want %v", names, err, registry.ErrDefine)
		}
	}

	require.Empty(t, r.Names())
}

func TestLookup_Suggestions(t *testing.T) {
	r := newRegistry(t)

	_, err := r.Lookup("pyth")
	require.ErrorIs(t, err, registry.ErrNotFound)
	require.Contains(t, err.Error(), "did you mean")
	require.Contains(t, err.Error(), "python")

	_, err = r.Lookup("zzz")
	require.ErrorIs(t, err, registry.ErrNotFound)
	require.NotContains(t, err.Error(), "did you mean")

	require.ErrorIs(t, r.SetDefault("zzz"), registry.ErrNotFound)

	_, err = r.Tag("zzz")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

const pythonEntry = `
name: python
aliases: [py]
default: true
args: argv
params:
  - {name: argv, dest: ARGV}
  - {name: debug, default: false}
runner:
  bin: python3
  stdin: ["-"]
  extension: .py
  useStdin: false
language:
  consts:
    "null": None
    "true": "True"
    "false": "False"
  format:
    declare: {start: "", end: "\n", sep: "\n"}
`

func TestLoad(t *testing.T) {
	r := registry.New()

	_, err := r.Load(t.Context(), strings.NewReader(pythonEntry))
	require.NoError(t, err)
	require.Equal(t, []string{"py", "python"}, r.Names())

	b, err := r.Script(t.Context(), []string{"print(", ")\n"}, nil)
	require.NoError(t, err)
	require.Equal(t, "python", b.Name())
	require.Equal(t, "debug = False\nprint(None)\n", content(t, b))

	cfg := b.Runner().Config()
	require.Equal(t, ".py", cfg.Extension)
	require.False(t, b.Runner().UsesStdin())

	bin, err := cfg.Command.Bin.Resolve(t.Context())
	require.NoError(t, err)
	require.Equal(t, "python3", bin)

	stdin, err := cfg.Command.Stdin.Resolve(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"-"}, stdin)
	require.False(t, cfg.Command.File.IsSet())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []error
	}{
		{"syntax", "name: [", []error{registry.ErrLoadEntry}},
		{"unknown field", "name: x\nbogus: 1\n", []error{registry.ErrLoadEntry}},
		{"missing name", "aliases: [x]\n", []error{registry.ErrLoadEntry}},
		{
			"definition", "name: x\nlanguage: {shrinkBigInt: maybe}\n",
			[]error{registry.ErrLoadEntry, lang.ErrShrinkPolicy},
		},
		{
			"runner", "name: x\nrunner: {encoding: klingon}\n",
			[]error{registry.ErrLoadEntry, runner.ErrEncoding},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.New().Load(t.Context(), strings.NewReader(tt.src))
			for _, want := range tt.want {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := registry.New().LoadFile(t.Context(), t.TempDir()+"/missing.yaml")
	require.ErrorIs(t, err, registry.ErrLoadEntry)
}
