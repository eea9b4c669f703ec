// Package param maps caller-supplied parameters to declarations.
//
// A [Table] is an ordered list of entries. Each entry names a source key
// in the caller's parameters, the destination name it is declared under
// and an optional default. Registration order is declaration order.
package param

import "iter"

// Entry is one registered parameter.
type Entry struct {
	Name       string `yaml:"name"`
	Dest       string `yaml:"dest"`
	Default    any    `yaml:"default"`
	HasDefault bool   `yaml:"-"`
}

// Target returns the destination name, which is Name when Dest is empty.
func (e Entry) Target() string {
	if e.Dest == "" {
		return e.Name
	}

	return e.Dest
}

// Table is an ordered parameter table. The zero value is empty and ready
// to use.
type Table struct {
	entries []Entry
}

// New returns a table holding entries in order.
func New(entries ...Entry) *Table {
	t := &Table{}
	for _, e := range entries {
		t.Define(e)
	}

	return t
}

// Add registers a parameter read from name and declared as dest. An empty
// dest declares it under name. At most one default may be given; a
// parameter without a default is omitted from declarations when the
// caller does not supply it.
func (t *Table) Add(name, dest string, def ...any) {
	e := Entry{Name: name, Dest: dest}
	if len(def) > 0 {
		e.Default, e.HasDefault = def[0], true
	}

	t.Define(e)
}

// Define registers e as given.
func (t *Table) Define(e Entry) {
	t.entries = append(t.entries, e)
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Lookup returns the first entry read from name.
func (t *Table) Lookup(name string) (Entry, bool) {
	for e := range t.All() {
		if e.Name == name {
			return e, true
		}
	}

	return Entry{}, false
}

// All returns the registered entries in order.
func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if t == nil {
			return
		}

		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Entries projects params through the table, yielding destination names
// with their values in registration order. A key present in params wins
// over the default, even when its value is nil.
func (t *Table) Entries(params map[string]any) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for e := range t.All() {
			v, ok := params[e.Name]
			if !ok {
				if !e.HasDefault {
					continue
				}

				v = e.Default
			}

			if !yield(e.Target(), v) {
				return
			}
		}
	}
}
