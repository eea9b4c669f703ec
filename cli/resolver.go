package cli

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/litscript/log"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The file is a flat mapping of flag names to values:
//   - Flag names with hyphens (e.g., "log-level") may also use underscores
//     (e.g., "log_level")
//   - Sequences set repeatable flags
//   - Numbers are passed to kong as strings
//
// Example config file:
//
//	log-level: debug
//	log_format: text
//	define:
//	  - ~/.config/litscript/ruby.yaml
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=text
//	--define=~/.config/litscript/ruby.yaml
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var m map[string]any

	err := yaml.NewDecoder(r).Decode(&m)
	if err != nil && !errors.Is(err, io.EOF) {
		// Parse error - return empty config
		log.Debug("ignoring malformed configuration", slog.Any("error", err))

		return config{}, nil
	}

	return config(m), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys
	// may use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return native(value), nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return native(value), nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// native converts a decoded YAML value to a form kong can parse.
func native(v any) any {
	// Kong requires numbers as strings for parsing
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out
	default:
		return v
	}
}
