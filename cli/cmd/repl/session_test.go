package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/litscript/langs"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/source"
)

func newSession(t *testing.T, typ string) *Session {
	t.Helper()

	reg := registry.New()
	require.NoError(t, langs.Register(reg))

	env := map[string]any{
		"greeting": "hi",
		"server":   map[string]any{"host": "localhost", "port": 8080},
	}

	s, err := NewSession(t.Context(), reg, typ, env, "")
	require.NoError(t, err)

	return s
}

func TestSession_Eval(t *testing.T) {
	s := newSession(t, "python")
	require.Equal(t, "python", s.Type())

	tests := []struct {
		code  string
		value any
		repr  string
	}{
		{"1 + 1", 2, "2"},
		{`greeting + "!"`, "hi!", `"hi!"`},
		{"server.port", 8080, "8080"},
		{"missing", nil, "None"},
		{"len(greeting) > 1", true, "True"},
	}

	for _, tt := range tests {
		v, repr, err := s.Eval(t.Context(), tt.code)
		require.NoError(t, err, tt.code)
		require.Equal(t, tt.value, v, tt.code)
		require.Equal(t, tt.repr, repr, tt.code)
	}

	_, _, err := s.Eval(t.Context(), "1 +")
	require.ErrorIs(t, err, source.ErrCompile)

	_, _, err = s.Eval(t.Context(), `int("x")`)
	require.ErrorIs(t, err, source.ErrEval)
}

func TestSession_Include(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.sh"), []byte("echo part"), 0o600))

	reg := registry.New()
	require.NoError(t, langs.Register(reg))

	s, err := NewSession(t.Context(), reg, "", nil, dir)
	require.NoError(t, err)
	require.Equal(t, langs.DefaultType, s.Type())

	_, repr, err := s.Eval(t.Context(), `include("part.sh")`)
	require.NoError(t, err)
	require.Equal(t, "echo part", repr)
}

func TestSession_Type(t *testing.T) {
	s := newSession(t, "")
	require.Equal(t, langs.DefaultType, s.Type())

	require.NoError(t, s.SetType(t.Context(), "py"))
	require.Equal(t, "python", s.Type())

	require.ErrorIs(t, s.SetType(t.Context(), "cobol"), registry.ErrNotFound)
	require.Equal(t, "python", s.Type())

	_, err := NewSession(t.Context(), registry.New(), "", nil, "")
	require.ErrorIs(t, err, registry.ErrNoDefault)
}

func TestSession_Values(t *testing.T) {
	s := newSession(t, "")

	require.NoError(t, s.Set(t.Context(), " n ", "len(greeting) * 2"))
	require.Equal(t, []string{"greeting", "n", "server"}, s.Names())

	v, ok := s.Lookup("n")
	require.True(t, ok)
	require.Equal(t, 4, v)

	v, ok = s.Lookup("server.host")
	require.True(t, ok)
	require.Equal(t, "localhost", v)

	_, ok = s.Lookup("greeting.x")
	require.False(t, ok)

	require.ErrorIs(t, s.Set(t.Context(), "", "1"), ErrCommand)
	require.ErrorIs(t, s.Set(t.Context(), "x", "1 +"), source.ErrCompile)

	require.True(t, s.Unset("n"))
	require.False(t, s.Unset("n"))

	s.Replace(nil)
	require.Empty(t, s.Names())
}

func TestPreview(t *testing.T) {
	require.Equal(t, "{ 2 items }", preview(map[string]any{"a": 1, "b": 2}))
	require.Equal(t, "[ 1 items ]", preview([]any{1}))
	require.Equal(t, "42", preview(42))
	require.Len(t, preview(string(make([]byte, 100))), 40)
}
