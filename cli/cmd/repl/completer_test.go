package repl

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "upper(fo", 8, "fo", 6, 8},
		{"after_comma", "join(a, fo", 10, "fo", 8, 10},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_minus", "n-fo", 4, "fo", 2, 4},
		{"in_string", `"fo`, 3, "fo", 1, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"empty_after_dot", "server.", 7, "", 7, 7},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x == a.b.", 9, "a.b"},
		{"not_member", "a + b", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	s := newSession(t, "")

	top := s.candidates("")
	for _, name := range []string{"greeting", "server", "include", "upper"} {
		if !slices.Contains(top, name) {
			t.Errorf("top-level candidates missing %q", name)
		}
	}

	if diff := cmp.Diff([]string{"host", "port"}, s.candidates("server")); diff != "" {
		t.Errorf("server members (-want +got):\n%s", diff)
	}

	if got := s.candidates("greeting"); got != nil {
		t.Errorf("members of a string = %v, want none", got)
	}

	if got := s.candidates("missing.x"); got != nil {
		t.Errorf("members of a missing value = %v, want none", got)
	}

	if diff := cmp.Diff(ctrlCommands, s.ctrlCandidates("ty", 0)); diff != "" {
		t.Errorf("commands (-want +got):\n%s", diff)
	}

	if got := s.ctrlCandidates("type py", 5); !slices.Contains(got, "python") {
		t.Errorf("type candidates = %v, want script types", got)
	}

	if diff := cmp.Diff(s.Names(), s.ctrlCandidates("unset g", 6)); diff != "" {
		t.Errorf("unset candidates (-want +got):\n%s", diff)
	}

	if got := s.ctrlCandidates("vars x", 5); got != nil {
		t.Errorf("vars arguments = %v, want none", got)
	}
}
