package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kballard/go-shellquote"

	"github.com/ardnew/litscript/log"
)

const defaultEditor = "vi"

// editValuesCommand is a [tea.ExecCommand] that edits the session values
// as YAML in the user's editor. Invalid YAML is offered for re-editing
// until it parses or the user declines.
type editValuesCommand struct {
	ctx    context.Context
	values map[string]any
	logger log.Logger

	// edited is nil when the user emptied the file.
	edited map[string]any

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editValuesCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editValuesCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editValuesCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run edits the values until they parse. It returns [ErrEditDeclined] if
// the user gives up after a parse error.
func (c *editValuesCommand) Run() error {
	content, err := yaml.MarshalWithOptions(c.values, yaml.Indent(2))
	if err != nil {
		return ErrValues.Wrap(err)
	}

	if len(c.values) == 0 {
		content = nil
	}

	f, err := os.CreateTemp("", "litscript-values-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := c.runEditor(path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		var values map[string]any

		err := yaml.UnmarshalContext(c.ctx, content, &values)

		c.logger.TraceContext(c.ctx, "repl values edited",
			slog.Int("length", len(content)),
			slog.Bool("valid", err == nil),
		)

		if err == nil {
			c.edited = values
			if c.edited == nil {
				c.edited = map[string]any{}
			}

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $EDITOR, which may carry arguments.
func (c *editValuesCommand) runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args, err := shellquote.Split(editor)
	if err != nil || len(args) == 0 {
		return ErrCommand.Wrap(err).With(slog.String("editor", editor))
	}

	cmd := exec.CommandContext(c.ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
