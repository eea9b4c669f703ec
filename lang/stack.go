package lang

// Frame is one level of nesting during a conversion.
type Frame struct {
	Type   Container
	Indent string
}

// Stack is the nesting path of a single top-level conversion. It is not
// safe for concurrent use.
type Stack struct {
	frames []Frame
}

// NewStack returns a stack holding only a root frame of type root.
func NewStack(root Container) *Stack {
	s := &Stack{}
	s.Push(root)

	return s
}

// Push adds a frame of type c and returns it. The frame inherits the
// indent of the previous top unless indent is given.
func (s *Stack) Push(c Container, indent ...string) Frame {
	f := Frame{Type: c}

	switch {
	case len(indent) > 0:
		f.Indent = indent[0]
	case len(s.frames) > 0:
		f.Indent = s.frames[len(s.frames)-1].Indent
	}

	s.frames = append(s.frames, f)

	return f
}

// Pop removes and returns the top frame.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}

	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	return f, true
}

// Top returns the top frame without removing it.
func (s *Stack) Top() (Frame, bool) {
	if s == nil || len(s.frames) == 0 {
		return Frame{}, false
	}

	return s.frames[len(s.frames)-1], true
}

// Len returns the number of frames.
func (s *Stack) Len() int { return len(s.frames) }

// Scoped pushes a frame of type c, runs body and pops the frame again,
// even if body panics. It returns the result of body.
func (s *Stack) Scoped(c Container, body func() bool) bool {
	s.Push(c)
	defer s.Pop()

	return body()
}
