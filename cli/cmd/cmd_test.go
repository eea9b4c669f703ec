package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readInputs(t *testing.T, inputs []input) []string {
	t.Helper()

	defer closeInputs(inputs)

	var out []string

	for _, in := range inputs {
		b, err := io.ReadAll(in)
		if err != nil {
			t.Fatalf("reading %s: %v", in.name, err)
		}

		out = append(out, string(b))
	}

	return out
}

// TestOpenInputsEmpty tests that no paths yield no inputs.
func TestOpenInputsEmpty(t *testing.T) {
	for _, paths := range [][]string{nil, {}} {
		inputs, err := openInputs(paths, strings.NewReader("stdin"))
		if err != nil {
			t.Fatal(err)
		}

		if len(inputs) != 0 {
			t.Errorf("openInputs(%q) = %d inputs, want 0", paths, len(inputs))
		}
	}
}

// TestOpenInputsMultipleFiles tests that files are read in order.
func TestOpenInputsMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.txt", "first")
	file2 := writeFile(t, dir, "file2.txt", "second")

	inputs, err := openInputs([]string{file2, file1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := strings.Join(readInputs(t, inputs), ",")
	if got != "second,first" {
		t.Errorf("got %q, want %q", got, "second,first")
	}
}

// TestOpenInputsDuplicates tests that the same file named by different
// paths is opened once.
func TestOpenInputsDuplicates(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "content")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	t.Chdir(dir)

	inputs, err := openInputs([]string{file, "file.txt", link, "./file.txt"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := readInputs(t, inputs)
	if len(got) != 1 || got[0] != "content" {
		t.Errorf("got %q, want one input with %q", got, "content")
	}
}

// TestOpenInputsStdinLast tests that stdin reads after every regular file
// and only once.
func TestOpenInputsStdinLast(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.txt", "first")
	file2 := writeFile(t, dir, "file2.txt", "second")

	inputs, err := openInputs(
		[]string{"-", file1, "-", file2, "-"},
		strings.NewReader("stdin"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if len(inputs) != 3 || inputs[2].name != stdinSource {
		t.Fatalf("got %d inputs, want 3 ending with stdin", len(inputs))
	}

	got := strings.Join(readInputs(t, inputs), ",")
	if got != "first,second,stdin" {
		t.Errorf("got %q, want %q", got, "first,second,stdin")
	}
}

// TestOpenInputsStdinFile tests that a named file which is stdin itself
// collapses into the stdin reader.
func TestOpenInputsStdinFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stdin.txt", "piped")

	stdin, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer stdin.Close()

	inputs, err := openInputs([]string{path}, stdin)
	if err != nil {
		t.Fatal(err)
	}

	if len(inputs) != 1 || inputs[0].name != stdinSource {
		t.Fatalf("got %d inputs, want stdin only", len(inputs))
	}

	if got := readInputs(t, inputs); got[0] != "piped" {
		t.Errorf("got %q, want %q", got[0], "piped")
	}
}

// TestOpenInputsNonexistentFile tests that a missing file fails.
func TestOpenInputsNonexistentFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "content")

	_, err := openInputs([]string{file, filepath.Join(dir, "missing.txt")}, nil)
	if err == nil {
		t.Fatal("openInputs should fail for a nonexistent file")
	}

	if !os.IsNotExist(err) {
		t.Errorf("err = %v, want not exist", err)
	}
}
