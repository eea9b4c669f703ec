package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load())
	require.Zero(t, h.Len())

	require.NoError(t, h.Add(" 1 + 1 ", modeEval))
	require.NoError(t, h.Add("vars", modeCtrl))
	require.NoError(t, h.Add("vars", modeCtrl))
	require.NoError(t, h.Add("", modeEval))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "E:1 + 1\nC:vars\n", string(content))

	// Repeating an older entry moves it to the end.
	require.NoError(t, h.Add("1 + 1", modeEval))
	require.NoError(t, h.Add("vars", modeEval))

	want := []Entry{
		{Line: "vars", Mode: modeCtrl},
		{Line: "1 + 1", Mode: modeEval},
		{Line: "vars", Mode: modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	loaded := NewHistory(path)
	require.NoError(t, loaded.Load())

	if diff := cmp.Diff(want, loaded.Entries()); diff != "" {
		t.Errorf("loaded entries (-want +got):\n%s", diff)
	}

	e, err := loaded.Entry(0)
	require.NoError(t, err)
	require.Equal(t, want[0], e)

	_, err = loaded.Entry(3)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = loaded.Entry(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHistory_Memory(t *testing.T) {
	h := NewHistory("")
	require.NoError(t, h.Load())
	require.NoError(t, h.Add("x", modeEval))
	require.Equal(t, 1, h.Len())
}

func TestHistory_UnprefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	require.NoError(t, os.WriteFile(path, []byte("greeting\n\nC:quit\n"), 0o600))

	h := NewHistory(path)
	require.NoError(t, h.Load())

	want := []Entry{{Line: "greeting", Mode: modeEval}, {Line: "quit", Mode: modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}
