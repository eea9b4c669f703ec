package cli

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/litscript/cli/cmd"
	"github.com/ardnew/litscript/registry"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "litscript-cli-test-*")
	if err != nil {
		panic(err)
	}

	// Keep the configuration and cache directories away from the user's.
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	streams := &cmd.Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}

	err := run(t.Context(), streams, func(code int) {
		t.Fatalf("unexpected exit(%d): %s", code, errOut.String())
	}, args...)

	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRender(t *testing.T) {
	tmpl := writeFile(t, "t.tmpl", "#!/usr/bin/env python\nprint({{ greeting }})\n")

	out, _, err := execute(t, "",
		"render", "--color=never", tmpl, "-s", "greeting='hi'", "-p", "n=1")
	require.NoError(t, err)
	require.Equal(t, "n = 1\nprint(\"hi\")\n", out)

	out, _, err = execute(t, "greeting: piped\n",
		"render", "--color", "never", "--type", "node", "--values=-", tmpl)
	require.NoError(t, err)
	require.Equal(t, ";\nprint(\"piped\")\n", out)
}

func TestRunDefault(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}

	tmpl := writeFile(t, "t.tmpl", "printf '%s,' {{ 'x' }} \"$@\"\nexit {{ code ?? 0 }}\n")

	out, _, err := execute(t, "", tmpl, "a", "b c")
	require.NoError(t, err)
	require.Equal(t, "x,a,b c,", out)

	out, _, err = execute(t, "", "run", "--file-mode", "-s", "code=5", tmpl)
	require.Equal(t, "x,", out)

	var status cmd.ExitStatus
	require.True(t, errors.As(err, &status), "err = %v", err)
	require.Equal(t, 5, status.Code())
}

const rubyType = `
name: ruby
aliases: [rb]
runner:
  bin: ruby
  stdin: ["-"]
  extension: .rb
language:
  consts:
    "null": nil
`

func TestDefine(t *testing.T) {
	def := writeFile(t, "ruby.yaml", rubyType)

	out, _, err := execute(t, "", "--define", def, "types", "rb")
	require.NoError(t, err)
	require.Equal(t, "ruby (rb) ruby\n", out)

	tmpl := writeFile(t, "t.tmpl", "#!/usr/bin/env ruby\np {{ nothing }}\n")

	out, _, err = execute(t, "", "-d", def, "render", "--color=never", tmpl)
	require.NoError(t, err)
	require.Equal(t, "[]p nil\n", out)
}

func TestDefine_Invalid(t *testing.T) {
	def := writeFile(t, "bad.yaml", "name: x\nbogus: 1\n")

	_, _, err := execute(t, "", "--define", def, "types")
	require.ErrorIs(t, err, registry.ErrLoadEntry)
}

func TestConfigFile(t *testing.T) {
	path := configPath(baseConfig + configExt)

	t.Cleanup(func() { os.Remove(path) })

	_, _, err := execute(t, "", "init")
	require.NoError(t, err)
	require.FileExists(t, path)

	_, _, err = execute(t, "", "init")
	require.ErrorIs(t, err, cmd.ErrFileExists)

	_, _, err = execute(t, "", "init", "--force")
	require.NoError(t, err)

	// Subcommand flags resolve from the configuration file too.
	require.NoError(t, os.WriteFile(path, []byte("color: always\n"), 0o600))

	tmpl := writeFile(t, "t.tmpl", "echo hi\n")

	out, _, err := execute(t, "", "render", tmpl)
	require.NoError(t, err)
	require.Contains(t, out, "\x1b[")

	out, _, err = execute(t, "", "render", "--color=never", tmpl)
	require.NoError(t, err)
	require.Equal(t, "\necho hi\n", out)
}
