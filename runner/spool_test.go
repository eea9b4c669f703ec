package runner

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpool_Settle(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	s := newSpool(r, 4)
	defer s.Close()

	held := func(n int) func() bool {
		return func() bool { return s.buffered() == n }
	}

	const piece = "0123456789abcdef"

	// Unbounded until settled.
	_, err = w.WriteString(piece)
	require.NoError(t, err)
	require.Eventually(t, held(16), time.Second, time.Millisecond)

	s.settle()

	// A read already in progress still lands.
	_, err = w.WriteString(piece)
	require.NoError(t, err)
	require.Eventually(t, held(32), time.Second, time.Millisecond)

	// Past the limit, output stays in the pipe until the buffer drains.
	_, err = w.WriteString(piece)
	require.NoError(t, err)
	require.Never(t, func() bool { return s.buffered() > 32 },
		100*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, w.Close())

	got, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat(piece, 3), string(got))
}

func TestSpool_CloseWhileHeld(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer w.Close()

	s := newSpool(r, 1)
	s.settle()

	_, err = w.WriteString("ab")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.buffered() > 0 }, time.Second, time.Millisecond)

	require.NoError(t, s.Close())

	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(t, err, os.ErrClosed)
}
