package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/litscript/builder"
	"github.com/ardnew/litscript/log"
	"github.com/ardnew/litscript/param"
	"github.com/ardnew/litscript/runner"
)

// shebang matches an interpreter directive such as
//
//	#!/usr/bin/env python {"args": "argv"}
var shebang = regexp.MustCompile(
	`^#!(?:(?:/(?:usr/(?:local/)?)?)?bin/(?:env[ \t]+)?(\w+))?[ \t]*(\{.*\})?[ \t]*\r?\n`,
)

// ParseHeader removes one leading line break from head and then an
// interpreter directive line, if there is one. It returns the remaining
// text, the type named by the directive and its JSON options. Options that
// are not a valid JSON object are ignored.
func ParseHeader(head string) (rest, typ string, opts map[string]any) {
	switch {
	case strings.HasPrefix(head, "\n"):
		head = head[1:]
	case strings.HasPrefix(head, "\r\n"):
		head = head[2:]
	}

	m := shebang.FindStringSubmatch(head)
	if m == nil {
		return head, "", nil
	}

	return head[len(m[0]):], m[1], parseOptions(m[2])
}

func parseOptions(s string) map[string]any {
	if s == "" {
		return nil
	}

	var opts map[string]any
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		log.Debug("ignoring malformed header options",
			slog.String("options", s), slog.Any("error", err))

		return nil
	}

	return opts
}

// applyOptions overlays header options on opts.
//
// Recognized keys are name and args (strings), params (a list of
// [name, default] or [name, dest, default] lists, or bare names), and
// useStdIn, extension and encoding, which adjust the runner
// configuration. Other keys are ignored.
func applyOptions(ctx context.Context, opts builder.Options, header map[string]any) (builder.Options, error) {
	var (
		cfg     runner.Config
		adjusts bool
	)

	switch {
	case opts.RunnerConfig != nil:
		cfg = *opts.RunnerConfig
	case opts.Runner != nil:
		cfg = opts.Runner.Config()
	}

	for key, v := range header {
		bad := func() (builder.Options, error) {
			return opts, ErrHeader.With(slog.String("option", key), slog.Any("value", v))
		}

		switch key {
		case "name":
			s, ok := v.(string)
			if !ok {
				return bad()
			}

			opts.Name = s
		case "args":
			s, ok := v.(string)
			if !ok {
				return bad()
			}

			opts.Args = s
		case "params":
			list, ok := v.([]any)
			if !ok {
				return bad()
			}

			params := make([]param.Entry, 0, len(list))

			for _, p := range list {
				e, ok := paramEntry(p)
				if !ok {
					return bad()
				}

				params = append(params, e)
			}

			opts.Params = params
		case "useStdIn", "useStdin":
			b, ok := v.(bool)
			if !ok {
				return bad()
			}

			cfg.UseStdin, adjusts = runner.Bool(b), true
		case "extension":
			s, ok := v.(string)
			if !ok {
				return bad()
			}

			cfg.Extension, adjusts = s, true
		case "encoding":
			s, ok := v.(string)
			if !ok {
				return bad()
			}

			cfg.Encoding, adjusts = s, true
		default:
			log.DebugContext(ctx, "ignoring header option", slog.String("option", key))
		}
	}

	if adjusts {
		opts.Runner, opts.RunnerConfig = nil, &cfg
	}

	return opts, nil
}

func paramEntry(v any) (param.Entry, bool) {
	if name, ok := v.(string); ok {
		return param.Entry{Name: name}, true
	}

	list, ok := v.([]any)
	if !ok || len(list) == 0 || len(list) > 3 {
		return param.Entry{}, false
	}

	name, ok := list[0].(string)
	if !ok {
		return param.Entry{}, false
	}

	e := param.Entry{Name: name}

	switch len(list) {
	case 2:
		e.Default, e.HasDefault = list[1], true
	case 3:
		if e.Dest, ok = list[1].(string); !ok {
			return param.Entry{}, false
		}

		e.Default, e.HasDefault = list[2], true
	}

	return e, true
}
