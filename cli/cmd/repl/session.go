package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/lang"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/registry"
	"github.com/ardnew/litscript/seq"
	"github.com/ardnew/litscript/source"
)

// Session evaluates template expressions against a set of template values
// and renders the results in the language of one script type.
type Session struct {
	reg  *registry.Registry
	env  map[string]any
	typ  string
	lang *lang.Language
	dir  string
}

// NewSession returns a session over env rendering values as the script type
// called typ, or the registry default if typ is empty. Relative include
// paths resolve against dir.
func NewSession(
	ctx context.Context,
	reg *registry.Registry,
	typ string,
	env map[string]any,
	dir string,
) (*Session, error) {
	if env == nil {
		env = map[string]any{}
	}

	s := &Session{reg: reg, env: env, dir: dir}

	if err := s.SetType(ctx, typ); err != nil {
		return nil, err
	}

	return s, nil
}

// Type returns the name of the current script type.
func (s *Session) Type() string { return s.typ }

// Types returns every registered type name, including aliases.
func (s *Session) Types() []string { return s.reg.Names() }

// SetType switches the language results are rendered in. An empty name
// selects the registry default.
func (s *Session) SetType(ctx context.Context, name string) error {
	var (
		b   *builder.Builder
		err error
	)

	if name == "" {
		b, err = s.reg.Script(ctx, []string{""})
	} else {
		var tag registry.Tag
		if tag, err = s.reg.Tag(name); err == nil {
			b, err = tag(ctx, []string{""})
		}
	}

	if err != nil {
		return err
	}

	s.typ, s.lang = b.Name(), b.Language()

	log.TraceContext(ctx, "repl type", slog.String("type", s.typ))

	return nil
}

// Eval evaluates code with the session values and returns the value along
// with its representation in the current language.
func (s *Session) Eval(ctx context.Context, code string) (any, string, error) {
	p, err := source.Compile(code, source.WithDir(s.dir))
	if err != nil {
		return nil, "", err
	}

	v, err := p.Eval(s.env)
	if err != nil {
		return nil, "", err
	}

	repr, err := seq.Collect(s.lang.Pull(ctx, v, nil))
	if err != nil {
		return v, "", err
	}

	return v, repr, nil
}

// Set evaluates code and stores the result as the value called name.
func (s *Session) Set(ctx context.Context, name, code string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCommand.With(slog.String("set", code))
	}

	p, err := source.Compile(code, source.WithDir(s.dir))
	if err != nil {
		return err
	}

	v, err := p.Eval(s.env)
	if err != nil {
		return err
	}

	s.env[name] = v

	log.DebugContext(ctx, "repl set", slog.String("name", name))

	return nil
}

// Unset removes the value called name and reports whether it existed.
func (s *Session) Unset(name string) bool {
	_, ok := s.env[name]
	delete(s.env, name)

	return ok
}

// Values returns the session values. The map is owned by the session.
func (s *Session) Values() map[string]any { return s.env }

// Replace discards every value and uses env instead.
func (s *Session) Replace(env map[string]any) {
	if env == nil {
		env = map[string]any{}
	}

	s.env = env
}

// Names returns the sorted names of the top-level values.
func (s *Session) Names() []string {
	return slices.Sorted(maps.Keys(s.env))
}

// Lookup resolves a dot-separated path through nested maps of values.
func (s *Session) Lookup(path string) (any, bool) {
	var cur any = s.env

	for seg := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// preview returns a short description of v for listings.
func preview(v any) string {
	const limit = 40

	var text string

	switch v := v.(type) {
	case map[string]any:
		text = fmt.Sprintf("{ %d items }", len(v))
	case []any:
		text = fmt.Sprintf("[ %d items ]", len(v))
	default:
		text = fmt.Sprintf("%v", v)
	}

	if len(text) > limit {
		text = text[:limit-3] + "..."
	}

	return text
}
