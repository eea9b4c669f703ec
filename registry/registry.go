package registry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/log"
)

// Factory constructs a builder. [builder.New] is a Factory.
type Factory func(fragments []string, values []any, opts builder.Options) (*builder.Builder, error)

// Tag constructs a builder from a template.
type Tag func(ctx context.Context, fragments []string, values ...any) (*builder.Builder, error)

// Entry is a registered script type.
type Entry struct {
	Name     string
	Aliases  []string
	Factory  Factory
	Defaults builder.Options
}

// Registry maps type names to builder factories. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	def     *Entry
}

// New returns an empty registry without a default type.
func New() *Registry {
	return &Registry{entries: map[string]*Entry{}}
}

// Define registers factory under every name in names, replacing earlier
// registrations of those names. The entry is named defaults.Name, or the
// first of names if that is empty. A nil factory is [builder.New].
func (r *Registry) Define(names []string, factory Factory, defaults builder.Options) (Tag, error) {
	name := defaults.Name
	if name == "" && len(names) > 0 {
		name = names[0]
	}

	if name == "" || slices.Contains(names, "") {
		return nil, ErrDefine.With(slog.Any("names", names))
	}

	if factory == nil {
		factory = builder.New
	}

	defaults.Name = name

	e := &Entry{
		Name:     name,
		Aliases:  slices.Clone(names),
		Factory:  factory,
		Defaults: defaults,
	}

	r.mu.Lock()
	for _, n := range names {
		r.entries[n] = e
	}
	r.mu.Unlock()

	log.Trace("type defined", slog.String("type", name), slog.Any("aliases", names))

	return e.tag(), nil
}

// SetDefault makes the type called name the fallback of [Registry.Script].
func (r *Registry) SetDefault(name string) error {
	e, err := r.Lookup(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.def = e
	r.mu.Unlock()

	return nil
}

// Default returns the default type. It fails with [ErrNoDefault] if none
// was set.
func (r *Registry) Default() (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.def == nil {
		return nil, ErrNoDefault
	}

	return r.def, nil
}

// Lookup returns the type registered as name. A miss fails with
// [ErrNotFound] listing registered names that resemble name.
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if ok {
		return e, nil
	}

	err := ErrNotFound.With(slog.String("type", name))

	if similar := r.Suggest(name, 3); len(similar) > 0 {
		err = ErrNotFound.Wrap(
			fmt.Errorf("%q (did you mean %s?)", name, strings.Join(similar, ", ")),
		).With(slog.String("type", name), slog.Any("suggestions", similar))
	}

	return nil, err
}

// Suggest returns up to n registered names that fuzzily match name, best
// first.
func (r *Registry) Suggest(name string, n int) []string {
	var out []string

	for _, m := range fuzzy.Find(name, r.Names()) {
		if len(out) == n {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.entries))
}

// Script constructs a builder from a template, choosing the type from the
// interpreter directive heading the first fragment. Without a directive,
// or if it names an unknown type, the default type is used.
func (r *Registry) Script(ctx context.Context, fragments []string, values ...any) (*builder.Builder, error) {
	rest, typ, header := splitHeader(fragments)

	var e *Entry

	if typ != "" {
		var err error
		if e, err = r.Lookup(typ); err != nil {
			log.DebugContext(ctx, "unknown script type, using default",
				slog.String("type", typ))
		}
	}

	if e == nil {
		var err error
		if e, err = r.Default(); err != nil {
			return nil, err
		}
	}

	return e.build(ctx, rest, values, header)
}

// Tag returns a constructor for the type called name. Directive options
// in the template still apply, but the type it names is ignored.
func (r *Registry) Tag(name string) (Tag, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	return e.tag(), nil
}

func (e *Entry) tag() Tag {
	return func(ctx context.Context, fragments []string, values ...any) (*builder.Builder, error) {
		rest, _, header := splitHeader(fragments)

		return e.build(ctx, rest, values, header)
	}
}

func (e *Entry) build(
	ctx context.Context,
	fragments []string,
	values []any,
	header map[string]any,
) (*builder.Builder, error) {
	opts, err := applyOptions(ctx, e.Defaults, header)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "building script",
		slog.String("type", e.Name), slog.Int("values", len(values)))

	return e.Factory(fragments, values, opts)
}

func splitHeader(fragments []string) ([]string, string, map[string]any) {
	if len(fragments) == 0 {
		return fragments, "", nil
	}

	rest, typ, header := ParseHeader(fragments[0])

	out := slices.Clone(fragments)
	out[0] = rest

	return out, typ, header
}
