package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the commands of control mode.
var ctrlCommands = []string{"help", "vars", "set", "unset", "type", "types", "edit", "clear", "quit"}

// isWordBoundary reports whether r separates words for completion: blanks,
// the member-access dot, and expression operators and punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'', '`':
		return true
	}

	return false
}

// wordBounds returns the word under cursor and its byte offsets within
// input. The word is empty when cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain before the word starting at
// wordStart. For "x + server.http.ho" and the word "ho" it is "server.http".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// candidates returns the completions for a word following parent in eval
// mode: the members of the map value at parent, or at the top level every
// value name and function.
func (s *Session) candidates(parent string) []string {
	if parent == "" {
		names := s.Names()
		for _, name := range slices.Sorted(maps.Keys(functions)) {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}

		return names
	}

	v, ok := s.Lookup(parent)
	if !ok {
		return nil
	}

	if m, ok := v.(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// ctrlCandidates returns the completions in control mode for the word at
// wordStart: a command name, or for "type" the name of a script type.
func (s *Session) ctrlCandidates(input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])

	switch {
	case len(fields) == 0:
		return ctrlCommands
	case len(fields) == 1 && fields[0] == "type":
		return s.Types()
	case len(fields) == 1 && fields[0] == "unset":
		return s.Names()
	}

	return nil
}

// computeMatches ranks the candidates for the word at the cursor. Nothing
// matches an empty word unless it follows a member access, where every
// member matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var (
		candidates []string
		browse     bool
	)

	if m.mode == modeCtrl {
		candidates = m.session.ctrlCandidates(input, wordStart)
	} else {
		parent := parentPath(input, wordStart)
		candidates = m.session.candidates(parent)
		browse = parent != ""
	}

	if len(candidates) == 0 || (word == "" && !browse) {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar renders matches on one line no wider than width,
// ending in an ellipsis when some do not fit.
func renderCandidateBar(matches fuzzy.Matches, selected int, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		last := i == len(matches)-1
		if i > 0 && used+w+lipgloss.Width(ellipsis) > width && !(last && used+w <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched characters highlighted.
// Functions carry a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, mark := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, mark = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(mark.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if _, ok := functions[match.Str]; ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
