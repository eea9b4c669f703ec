package profile

import "slices"

// Stopper stops a running profiler and writes its output.
type Stopper interface{ Stop() }

type ignore struct{}

func (ignore) Stop() {}

// Start starts the profiler for mode writing into dir. An empty or
// unsupported mode starts nothing. Stop is always safe to call.
func Start(mode, dir string) Stopper {
	if mode == "" || !slices.Contains(Modes(), mode) {
		return ignore{}
	}

	return start(mode, dir)
}
