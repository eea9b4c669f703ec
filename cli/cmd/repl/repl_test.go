package repl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/litscript/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), newSession(t, "python"), NewHistory(""), log.Default())
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestModel_Complete(t *testing.T) {
	m := press(t, newTestModel(t), typed("serv"))
	require.Len(t, m.matches, 1)

	m = press(t, m, key(tea.KeyTab))
	require.Equal(t, "server", m.input.Value())

	m = press(t, m, typed("."))
	require.Len(t, m.matches, 2)

	m = press(t, m, key(tea.KeyTab))
	require.True(t, m.tabActive)
	require.Equal(t, "server.host", m.input.Value())

	m = press(t, m, key(tea.KeyTab))
	require.Equal(t, "server.port", m.input.Value())

	m = press(t, m, key(tea.KeyShiftTab), key(tea.KeyShiftTab))
	require.Equal(t, "server.port", m.input.Value())

	// Esc while cycling restores the input before completion.
	m = press(t, m, key(tea.KeyEsc))
	require.False(t, m.tabActive)
	require.Equal(t, "server.", m.input.Value())
	require.Equal(t, modeEval, m.mode)

	// Enter keeps the selected candidate without submitting.
	m = press(t, m, key(tea.KeyTab), key(tea.KeyEnter))
	require.Equal(t, "server.host", m.input.Value())
	require.Zero(t, m.history.Len())
}

func TestModel_Submit(t *testing.T) {
	m := press(t, newTestModel(t), typed("1 + 1"), key(tea.KeyEnter))
	require.Empty(t, m.input.Value())
	require.Equal(t, 1, m.history.Len())
	require.Contains(t, m.evaluate("1 + 1"), "2")
	require.Contains(t, m.evaluate("1 +"), "error")

	// Control mode keeps the eval input aside.
	m = press(t, m, typed("gree"), key(tea.KeyEsc))
	require.Equal(t, modeCtrl, m.mode)
	require.Empty(t, m.input.Value())

	m = press(t, m, typed("set x = 40 + 2"), key(tea.KeyEnter))

	v, ok := m.session.Lookup("x")
	require.True(t, ok)
	require.Equal(t, 42, v)

	m = press(t, m, key(tea.KeyEsc))
	require.Equal(t, modeEval, m.mode)
	require.Empty(t, m.input.Value())

	// History follows the mode of each entry.
	m = press(t, m, key(tea.KeyUp))
	require.Equal(t, modeCtrl, m.mode)
	require.Equal(t, "set x = 40 + 2", m.input.Value())

	m = press(t, m, key(tea.KeyUp))
	require.Equal(t, modeEval, m.mode)
	require.Equal(t, "1 + 1", m.input.Value())

	m = press(t, m, key(tea.KeyDown), key(tea.KeyDown))
	require.Empty(t, m.input.Value())
	require.Equal(t, m.history.Len(), m.historyIdx)

	// Shift skips entries of the other mode.
	m = press(t, m, key(tea.KeyShiftUp))
	require.Equal(t, modeCtrl, m.mode)
	require.Equal(t, "set x = 40 + 2", m.input.Value())
}

func TestModel_Quit(t *testing.T) {
	m := press(t, newTestModel(t), typed("abc"), key(tea.KeyCtrlC))
	require.Empty(t, m.input.Value())
	require.False(t, m.quitting)

	m = press(t, m, key(tea.KeyCtrlD))
	require.True(t, m.quitting)
	require.Empty(t, m.View())
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	require.Contains(t, m.View(), "[python]")

	m = press(t, m, typed("upper(gree"))
	require.Contains(t, m.View(), "greeting")

	m = press(t, m, typed("ting,"))
	require.Contains(t, m.View(), "upper(string)")
}

func TestCommand(t *testing.T) {
	s := newSession(t, "")
	ctx := t.Context()

	out, err := command(ctx, s, "set", "n=1 + 2")
	require.NoError(t, err)
	require.Equal(t, "n", out)

	out, err = command(ctx, s, "vars", "")
	require.NoError(t, err)
	require.Equal(t, []string{
		"  greeting hi",
		"  n 3",
		"  server { 2 items }",
	}, strings.Split(out, "\n"))

	out, err = command(ctx, s, "type", "node")
	require.NoError(t, err)
	require.Equal(t, "node", out)

	out, err = command(ctx, s, "type", "")
	require.NoError(t, err)
	require.Equal(t, "node", out)

	out, err = command(ctx, s, "types", "")
	require.NoError(t, err)
	require.Contains(t, strings.Fields(out), "python3")

	_, err = command(ctx, s, "unset", "n")
	require.NoError(t, err)

	out, err = command(ctx, s, "help", "")
	require.NoError(t, err)
	require.Contains(t, out, "unset NAME")

	for _, tt := range []struct{ name, args string }{
		{"unset", "n"},
		{"set", "n"},
		{"bogus", ""},
	} {
		_, err := command(ctx, s, tt.name, tt.args)
		require.ErrorIs(t, err, ErrCommand, tt.name)
	}
}
