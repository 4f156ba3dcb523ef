package redirect

// A Warner receives messages about templates that could not be compiled as written.
type Warner interface {
	Warn(msg string)
}

// A WarnFunc is a function usable as a Warner.
type WarnFunc func(msg string)

// Warn calls f(msg).
func (f WarnFunc) Warn(msg string) { f(msg) }

// discard drops every warning.
var discard = WarnFunc(func(string) {})

// An Option configures Compile.
type Option func(*compiler)

// WithWarner sets the Warner told about malformed templates.
// A nil Warner discards warnings.
func WithWarner(w Warner) Option {
	return func(c *compiler) {
		if w == nil {
			w = discard
		}

		c.warner = w
	}
}

type compiler struct {
	warner Warner
}
