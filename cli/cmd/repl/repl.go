package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/litscript/log"
)

// editedMsg carries the values saved from the editor. They are nil when
// the user emptied the file.
type editedMsg struct{ values map[string]any }

// editDeclinedMsg is sent when the user gave up re-editing invalid values.
type editDeclinedMsg struct{}

type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help              Print this message
  vars              List template values
  set NAME=EXPR     Set a template value
  unset NAME        Remove a template value
  type [NAME]       Show or change the script type of results
  types             List script types
  edit              Edit template values as YAML in $EDITOR
  clear             Clear screen
  quit              Exit

Usage:
  Type an expression to see it rendered as a script value
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history (the mode follows the entry)
  Use Shift+Up/Shift+Down for history of the current mode only
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode is what a submitted line means.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// Config configures [Run].
type Config struct {
	Session  *Session
	CacheDir string
	Logger   log.Logger
	In       io.Reader
	Out      io.Writer
}

// Run reads and evaluates expressions with the session until the user
// quits or ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory("")
	if cfg.CacheDir != "" {
		history = NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("type", cfg.Session.Type()),
		slog.Int("values", len(cfg.Session.Values())),
		slog.Int("history", history.Len()),
	)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.In != nil {
		opts = append(opts, tea.WithInput(cfg.In))
	}

	if cfg.Out != nil {
		opts = append(opts, tea.WithOutput(cfg.Out))
	}

	_, err = tea.NewProgram(newModel(ctx, cfg.Session, history, cfg.Logger), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

// field is the saved input of the mode not shown.
type field struct {
	text   string
	cursor int
}

// model is the Bubble Tea model of the REPL.
type model struct {
	ctx        context.Context
	input      textinput.Model
	session    *Session
	logger     log.Logger
	history    *History
	historyIdx int

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	suggIdx   int
	tabActive bool
	preTab    field

	mode     inputMode
	saved    [2]field
	width    int
	quitting bool
}

func newModel(ctx context.Context, session *Session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 1024
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:        ctx,
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)

		return m, nil

	case editedMsg:
		if msg.values == nil {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.session.Replace(msg.values)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("%d values", len(msg.values)),
		))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: help, vars, set, type, edit, quit (press Esc to return)")
		}

		return hintStyle.Render(fmt.Sprintf(
			"Type an expression or press Esc for commands [%s]", m.session.Type(),
		))
	}

	if len(m.matches) > 0 {
		selected := -1
		if m.tabActive {
			selected = m.suggIdx
		}

		return renderCandidateBar(m.matches, selected, m.width)
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			return renderSignatureHint(call.name, call.argIndex)
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Keep the candidate without submitting.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTab.text, m.preTab.cursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the tab selection by step, completing the word under the
// cursor with the selected candidate.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTab = field{m.input.Value(), m.input.Position()}

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the current word with text and moves the cursor to
// its end.
func (m *model) replaceWord(text string) {
	input := m.input.Value()

	m.setInput(input[:m.wordStart]+text+input[m.wordEnd:], m.wordStart+len(text))
	m.wordEnd = m.wordStart + len(text)
}

func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
}

// refreshMatches recomputes the candidates for the word at the cursor.
// With complete set, a word that already equals its only candidate is
// accepted.
func (m *model) refreshMatches(complete bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !complete || len(m.matches) != 1 {
		return
	}

	if m.matches[0].Str == m.input.Value()[m.wordStart:m.wordEnd] {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// submit evaluates or executes the input line.
func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.saved = [2]field{}
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		return m.execute(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	return m, tea.Sequence(echo, tea.Println(m.evaluate(input)))
}

// evaluate returns the styled result of the expression in input.
func (m model) evaluate(input string) string {
	v, repr, err := m.session.Eval(m.ctx, input)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.String("input", input),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return resultStyle.Render(repr) + hintStyle.Render(fmt.Sprintf("  %T", v))
}

// execute runs the control command in input.
func (m model) execute(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	name, args, _ := strings.Cut(input, " ")

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	out, err := command(m.ctx, m.session, name, strings.TrimSpace(args))
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// command runs the control commands that only touch the session and
// returns their output.
func command(ctx context.Context, s *Session, name, args string) (string, error) {
	switch name {
	case "h", "help":
		return helpMessage, nil

	case "vars":
		var b strings.Builder

		for _, name := range s.Names() {
			v, _ := s.Lookup(name)
			fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v)))
		}

		return strings.TrimSuffix(b.String(), "\n"), nil

	case "set":
		key, code, ok := strings.Cut(args, "=")
		if !ok {
			return "", ErrCommand.With(slog.String("usage", "set NAME=EXPR"))
		}

		if err := s.Set(ctx, key, code); err != nil {
			return "", err
		}

		return resultStyle.Render(strings.TrimSpace(key)), nil

	case "unset":
		if !s.Unset(args) {
			return "", ErrCommand.With(slog.String("unset", args))
		}

		return resultStyle.Render(args), nil

	case "type":
		if args != "" {
			if err := s.SetType(ctx, args); err != nil {
				return "", err
			}
		}

		return resultStyle.Render(s.Type()), nil

	case "types":
		return strings.Join(s.Types(), " "), nil
	}

	return "", ErrCommand.With(slog.String("command", name))
}

// edit opens the session values in the editor.
func (m model) edit() tea.Cmd {
	cmd := &editValuesCommand{ctx: m.ctx, values: m.session.Values(), logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		}

		return editedMsg{values: cmd.edited}
	})
}

// historyStep moves through history by step. Outside inMode the mode
// follows the entry; inside it entries of other modes are skipped.
// Stepping past the newest entry clears the input.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if inMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.historyIdx = i
		m.setInput(e.Line, len(e.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchMode shows the input of mode, keeping the input of the other.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode] = field{m.input.Value(), m.input.Position()}
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.setInput(m.saved[mode].text, m.saved[mode].cursor)
	m.tabActive = false
	m.refreshMatches(false)

	return m
}
