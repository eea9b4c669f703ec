package source

// Option configures [Parse].
type Option func(*config)

type config struct {
	left, right string
	dir         string
}

// WithDelims sets the placeholder delimiters. Empty delimiters keep the
// defaults {{ and }}.
func WithDelims(left, right string) Option {
	return func(c *config) {
		if left != "" {
			c.left = left
		}

		if right != "" {
			c.right = right
		}
	}
}

// WithDir resolves relative include paths against dir.
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}
