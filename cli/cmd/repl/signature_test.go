package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "greeting", 8, "", 0, false},
		{"first_arg_empty", "upper(", 6, "upper", 0, true},
		{"first_arg", "upper(x", 7, "upper", 0, true},
		{"second_arg", "join(xs,", 8, "join", 1, true},
		{"second_arg_value", "join(xs, sep", 12, "join", 1, true},
		{"member_call", "server.host(", 12, "server.host", 0, true},
		{"nested_parens", "replace(upper(s), 'a',", 22, "replace", 2, true},
		{"inside_nested", "replace(upper(s), 'a')", 14, "upper", 0, true},
		{"array_literal", "join([1, 2], ", 13, "join", 1, true},
		{"closed_call", "upper(x) + ", 11, "", 0, false},
		{"bare_paren", "(1 + 2", 6, "", 0, false},
		{"cursor_past_end", "len(", 10, "len", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("nope", 0); got != "" {
		t.Errorf("unknown function hint = %q, want empty", got)
	}

	for name, sig := range functions {
		hint := renderSignatureHint(name, 0)

		if !strings.Contains(hint, name) {
			t.Errorf("%s: hint %q missing name", name, hint)
		}

		for _, p := range sig.params {
			if !strings.Contains(hint, p) {
				t.Errorf("%s: hint %q missing parameter %q", name, hint, p)
			}
		}
	}

	if hint := renderSignatureHint("include", 0); !strings.Contains(hint, functions["include"].doc) {
		t.Errorf("include hint %q missing description", hint)
	}
}
