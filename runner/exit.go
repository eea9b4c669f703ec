package runner

import (
	"errors"
	"os/exec"
)

// Exit is the exit signal of a spawned process. It resolves exactly once.
type Exit struct {
	done chan struct{}
	code int
	err  error
}

func newExit() *Exit {
	return &Exit{done: make(chan struct{}), code: -1}
}

// Done returns a channel that is closed once the process has exited.
func (e *Exit) Done() <-chan struct{} { return e.done }

// Wait blocks until the process exits and returns its exit code. The code
// is -1 if it is unknown, such as when the process was killed by a signal.
// A non-zero exit is not an error.
func (e *Exit) Wait() (int, error) {
	<-e.done

	return e.code, e.err
}

// reap waits for cmd, calls after if it is non-nil and resolves e with the
// outcome.
func (e *Exit) reap(cmd *exec.Cmd, after func()) {
	defer close(e.done)

	err := cmd.Wait()

	if after != nil {
		after()
	}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		e.code = cmd.ProcessState.ExitCode()
	case errors.As(err, &exitErr):
		e.code = exitErr.ExitCode()
	default:
		if cmd.ProcessState != nil {
			e.code = cmd.ProcessState.ExitCode()
		}

		e.err = ErrWait.Wrap(err)
	}
}
