package param

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type pair struct {
	Name  string
	Value any
}

func entries(t *Table, params map[string]any) []pair {
	var out []pair
	for name, v := range t.Entries(params) {
		out = append(out, pair{name, v})
	}

	return out
}

func TestTable_Entries(t *testing.T) {
	table := &Table{}
	table.Add("x", "", 1)
	table.Add("name", "NAME")
	table.Add("opt", "OPT", "fallback")
	table.Add("nullable", "", 5)

	tests := []struct {
		name   string
		params map[string]any
		want   []pair
	}{
		{
			"defaults only",
			nil,
			[]pair{{"x", 1}, {"OPT", "fallback"}, {"nullable", 5}},
		},
		{
			"supplied values win",
			map[string]any{"name": "z", "x": 2, "opt": "given"},
			[]pair{{"x", 2}, {"NAME", "z"}, {"OPT", "given"}, {"nullable", 5}},
		},
		{
			"explicit nil is kept",
			map[string]any{"nullable": nil},
			[]pair{{"x", 1}, {"OPT", "fallback"}, {"nullable", nil}},
		},
		{
			"unknown keys ignored",
			map[string]any{"other": 1},
			[]pair{{"x", 1}, {"OPT", "fallback"}, {"nullable", 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, entries(table, tt.params)); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTable_OrderIsRegistrationOrder(t *testing.T) {
	table := New(
		Entry{Name: "b", Default: 2, HasDefault: true},
		Entry{Name: "a", Default: 1, HasDefault: true},
	)
	table.Add("c", "", 3)

	want := []pair{{"b", 2}, {"a", 1}, {"c", 3}}
	if diff := cmp.Diff(want, entries(table, nil)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}
}

func TestTable_NilIsEmpty(t *testing.T) {
	var table *Table

	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}

	if got := entries(table, map[string]any{"x": 1}); got != nil {
		t.Errorf("entries = %v, want none", got)
	}
}

func TestEntry_Target(t *testing.T) {
	if got := (Entry{Name: "n"}).Target(); got != "n" {
		t.Errorf("Target = %q, want n", got)
	}

	if got := (Entry{Name: "n", Dest: "d"}).Target(); got != "d" {
		t.Errorf("Target = %q, want d", got)
	}
}

func TestTable_Lookup(t *testing.T) {
	table := New(Entry{Name: "a", Dest: "A"}, Entry{Name: "a", Dest: "second"})

	e, ok := table.Lookup("a")
	if !ok || e.Dest != "A" {
		t.Errorf("Lookup(a) = %+v, %v; want the first entry", e, ok)
	}

	if _, ok := table.Lookup("b"); ok {
		t.Error("Lookup(b) found an entry")
	}

	var empty *Table
	if _, ok := empty.Lookup("a"); ok {
		t.Error("nil table found an entry")
	}
}
