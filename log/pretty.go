package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers. lipgloss degrades to plain text when
// the output is not a color-capable terminal.
var (
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	nullStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	levelStyle = map[slog.Level]lipgloss.Style{
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
)

func renderLevel(level slog.Level) string {
	name := Level(level).String()

	switch {
	case level >= slog.LevelError:
		return levelStyle[slog.LevelError].Render(name)
	case level >= slog.LevelWarn:
		return levelStyle[slog.LevelWarn].Render(name)
	case level >= slog.LevelInfo:
		return levelStyle[slog.LevelInfo].Render(name)
	default:
		return levelStyle[slog.LevelDebug].Render(name)
	}
}

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func (h *prettyBase) enabled(level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// header returns the time, level, source and message attributes in order.
func (h *prettyBase) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		if t := h.formatTime(r.Time); t != "" {
			head = append(head, slog.String(slog.TimeKey, t))
		}
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			head = append(head, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	return append(head, slog.String(slog.MessageKey, r.Message))
}

// body returns the handler attributes followed by the record attributes.
func (h *prettyBase) body(r slog.Record) []slog.Attr {
	body := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	body = append(body, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		body = append(body, a)

		return true
	})

	return body
}

func (h *prettyBase) flush(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	if h.group != "" {
		for i := range attrs {
			attrs[i].Key = h.group + "." + attrs[i].Key
		}
	}

	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if h.group != "" {
		name = h.group + "." + name
	}

	h.group = name

	return h
}

// renderValue renders a value with a style chosen by its kind.
func renderValue(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())
	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")
	case slog.KindDuration:
		return durationStyle.Render(v.Duration().String())
	case slog.KindTime:
		return timeStyle.Render(v.Time().String())
	case slog.KindGroup:
		var buf bytes.Buffer

		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(keyStyle.Render(a.Key))
			buf.WriteByte('=')
			buf.WriteString(renderValue(a.Value))
		}

		buf.WriteByte('}')

		return buf.String()
	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return renderLevel(level)
		}

		if v.Any() == nil {
			return nullStyle.Render("null")
		}

		return stringStyle.Render(fmt.Sprint(v.Any()))
	default:
		return stringStyle.Render(v.String())
	}
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range append(h.header(r), h.body(r)...) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyStyle.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(renderValue(a.Value))
	}

	return h.flush(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented, colorized JSON-like object per
// record. The output is meant for humans; use [FormatJSON] without pretty
// printing for machine-readable logs.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	for i, a := range append(h.header(r), h.body(r)...) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(keyStyle.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(renderValue(a.Value))
	}

	buf.WriteString("\n}")

	return h.flush(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
