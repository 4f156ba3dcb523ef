package redirect

import (
	"fmt"
	"strings"
)

// A Variant is one rendering of a destination template.
// Text may hold the placeholders $1 through $Arity.
type Variant struct {
	Arity uint32
	Text  string
}

// A Compiled is the immutable result of compiling an alias and its destination template.
type Compiled struct {
	alias    string
	variants []Variant
}

// Compile normalizes alias and compiles destination into its variants.
//
// Compile never fails.
// A destination with no braces compiles into a single variant.
// A destination whose braces are inverted or do not pair up compiles into
// a single variant holding destination verbatim, and the configured Warner is told.
func Compile(alias, destination string, opts ...Option) *Compiled {
	c := &compiler{warner: discard}
	for _, opt := range opts {
		opt(c)
	}

	return &Compiled{
		alias:    NormalizeAlias(alias),
		variants: c.variants(destination),
	}
}

// NormalizeAlias prefixes alias with a slash, unless it already begins with one.
func NormalizeAlias(alias string) string {
	if strings.HasPrefix(alias, "/") {
		return alias
	}

	return "/" + alias
}

// Alias returns the normalized alias.
func (c *Compiled) Alias() string { return c.alias }

// Variants returns a copy of the compiled variants, ordered by arity.
func (c *Compiled) Variants() []Variant {
	return append([]Variant(nil), c.variants...)
}

func (c *compiler) variants(destination string) []Variant {
	parts := splitBraces(destination)

	lastOpen := strings.LastIndex(destination, "{")
	firstClose := strings.Index(destination, "}")

	base, parts := parts[0], parts[1:]
	verbatim := []Variant{{Arity: 0, Text: destination}}

	switch {
	case lastOpen > firstClose:
		c.warner.Warn(fmt.Sprintf("destination has mismatched params: %q", destination))
		return verbatim

	case len(parts) == 0:
		return verbatim

	case len(parts)%2 != 0:
		c.warner.Warn(fmt.Sprintf("destination has mismatched '{' | '}': %q", destination))
		return verbatim
	}

	variants := make([]Variant, 0, 1+len(parts)/2)
	variants = append(variants, Variant{Arity: 0, Text: base})

	var pre, post string
	for arity := uint32(1); len(parts) > 0; arity++ {
		last := len(parts) - 1
		post = parts[last] + post
		pre = pre + parts[0]
		parts = parts[1:last]

		variants = append(variants, Variant{Arity: arity, Text: base + pre + post})
	}

	return variants
}

// splitBraces splits s around every '{' and '}',
// keeping the empty strings between adjacent braces.
func splitBraces(s string) []string {
	parts := make([]string, 0, 1+strings.Count(s, "{")+strings.Count(s, "}"))
	for {
		i := strings.IndexAny(s, "{}")
		if i < 0 {
			return append(parts, s)
		}

		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}
