package runner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
)

// SpoolLimit is how much output of one stream is held in memory once the
// input of the process has been transferred. Past it, the process blocks on
// output until the caller reads.
const SpoolLimit = 1 << 20

// spool drains a process output pipe into memory as fast as the process
// writes, so a process is never blocked on output while its input is still
// being transferred. After settle, at most limit bytes are held. Reads
// block until data arrives or the pipe closes.
type spool struct {
	src   *os.File
	done  chan struct{}
	limit int

	mu      sync.Mutex
	cond    *sync.Cond
	buf     bytes.Buffer
	err     error
	closed  bool
	settled bool
}

func newSpool(src *os.File, limit int) *spool {
	s := &spool{src: src, done: make(chan struct{}), limit: limit}
	s.cond = sync.NewCond(&s.mu)

	go s.fill()

	return s
}

// settle bounds the buffer. Called once the input transfer is over.
func (s *spool) settle() {
	s.mu.Lock()
	s.settled = true
	s.mu.Unlock()
}

// buffered returns the number of bytes held.
func (s *spool) buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Len()
}

func (s *spool) fill() {
	defer close(s.done)
	defer s.src.Close()

	chunk := make([]byte, 32*1024)

	for {
		s.mu.Lock()
		for s.settled && !s.closed && s.buf.Len() >= s.limit {
			s.cond.Wait()
		}
		s.mu.Unlock()

		n, err := s.src.Read(chunk)

		s.mu.Lock()

		if n > 0 && !s.closed {
			s.buf.Write(chunk[:n])
		}

		if err != nil {
			s.err = err
		}

		s.cond.Broadcast()
		s.mu.Unlock()

		if err != nil {
			return
		}
	}
}

// Read implements [io.Reader].
func (s *spool) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.buf.Len() == 0 && s.err == nil && !s.closed {
		s.cond.Wait()
	}

	switch {
	case s.closed:
		return 0, os.ErrClosed
	case s.buf.Len() > 0:
		n, err := s.buf.Read(p)
		s.cond.Broadcast()

		return n, err
	case errors.Is(s.err, io.EOF):
		return 0, io.EOF
	default:
		return 0, s.err
	}
}

// Close discards buffered output and stops draining the pipe.
func (s *spool) Close() error {
	s.mu.Lock()
	s.closed = true
	s.buf.Reset()
	s.cond.Broadcast()
	s.mu.Unlock()

	_ = s.src.Close()
	<-s.done

	return nil
}
