package seq

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

var errBoom = errors.New("boom")

func drain(t *testing.T, s Seq) ([]string, error) {
	t.Helper()

	var out []string

	for str, err := range s {
		if err != nil {
			return out, err
		}

		out = append(out, str)
	}

	return out, nil
}

func TestChain(t *testing.T) {
	tests := []struct {
		name    string
		seq     Seq
		want    []string
		wantErr error
	}{
		{"empty", Chain(), nil, nil},
		{"skips nil", Chain(nil, Of("a"), nil), []string{"a"}, nil},
		{
			"in order",
			Chain(Of("a", "b"), Empty(), Of("c")),
			[]string{"a", "b", "c"},
			nil,
		},
		{
			"stops at error",
			Chain(Of("a"), Fail(errBoom), Of("never")),
			[]string{"a"},
			errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drain(t, tt.seq)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fragments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChain_IsLazy(t *testing.T) {
	started := false
	second := Seq(func(yield func(string, error) bool) {
		started = true
		yield("b", nil)
	})

	for str := range Chain(Of("a"), second) {
		if str == "a" {
			break
		}
	}

	if started {
		t.Error("second sequence started after consumer stopped")
	}
}

func TestStrings(t *testing.T) {
	got, err := Collect(Strings(slices.Values([]string{"x", "y"})))
	if err != nil || got != "xy" {
		t.Errorf("Collect = %q, %v", got, err)
	}
}

func TestChan(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	close(ch)

	got, err := Collect(Chan(t.Context(), ch))
	if err != nil || got != "ab" {
		t.Errorf("Collect = %q, %v", got, err)
	}
}

func TestChan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Collect(Chan(ctx, make(chan string)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want %v", err, context.Canceled)
	}
}

func TestReader(t *testing.T) {
	got, err := drain(t, Reader(strings.NewReader("abcdefg"), 3))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"abc", "def", "g"}, got); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestReader_Error(t *testing.T) {
	_, err := Collect(Reader(iotest.ErrReader(errBoom), 0))
	if !errors.Is(err, errBoom) {
		t.Errorf("err = %v, want %v", err, errBoom)
	}
}

func TestCollect_PartialOnError(t *testing.T) {
	got, err := Collect(Chain(Of("a", "b"), Fail(errBoom)))
	if got != "ab" || !errors.Is(err, errBoom) {
		t.Errorf("Collect = %q, %v", got, err)
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer

	n, err := WriteTo(&buf, Of("ab", "", "cde"))
	if err != nil {
		t.Fatal(err)
	}

	if n != 5 || buf.String() != "abcde" {
		t.Errorf("WriteTo = %d, %q", n, buf.String())
	}
}

func collectValues(t *testing.T, v any) ([]any, error) {
	t.Helper()

	it, ok := Values(t.Context(), v)
	if !ok {
		t.Fatalf("Values(%T) not a sequence", v)
	}

	var out []any

	for e, err := range it {
		if err != nil {
			return out, err
		}

		out = append(out, e)
	}

	return out, nil
}

func TestValues(t *testing.T) {
	ch := make(chan int, 2)
	ch <- 1
	ch <- 2
	close(ch)

	tests := []struct {
		name string
		in   any
		want []any
	}{
		{"any slice", []any{1, "a"}, []any{1, "a"}},
		{"typed slice", []int{1, 2}, []any{1, 2}},
		{"array", [2]bool{true, false}, []any{true, false}},
		{"string seq", slices.Values([]string{"a"}), []any{"a"}},
		{"int seq", iter.Seq[int](slices.Values([]int{3})), []any{3}},
		{"seq2 yields values", slices.All([]string{"v"}), []any{"v"}},
		{"fragments", Of("x", "y"), []any{"x", "y"}},
		{"channel", (<-chan int)(ch), []any{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectValues(t, tt.in)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValues_SeqError(t *testing.T) {
	got, err := collectValues(t, Chain(Of("a"), Fail(errBoom)))
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}

	if diff := cmp.Diff([]any{"a"}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_ChanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	it, ok := Values(ctx, make(chan int))
	if !ok {
		t.Fatal("channel not a sequence")
	}

	for _, err := range it {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want %v", err, context.Canceled)
		}
	}
}

func TestIsSequence(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"string", "abc", false},
		{"int", 1, false},
		{"map", map[string]int{}, false},
		{"slice", []int{}, true},
		{"send only chan", make(chan<- int), false},
		{"chan", make(chan int), true},
		{"plain func", func() {}, false},
		{"push func", func(func(int) bool) {}, true},
		{"fragments", Empty(), true},
	}

	for _, tt := range tests {
		if got := IsSequence(tt.in); got != tt.want {
			t.Errorf("%s: IsSequence = %v, want %v", tt.name, got, tt.want)
		}
	}
}
