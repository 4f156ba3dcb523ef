package redirect

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Destination resolves input, whose first space-delimited word is the alias itself.
// The alias is dropped and the remaining words are evaluated as in Evaluate.
//
// input is percent-decoded before the alias is split off,
// and the remaining words are decoded again by Evaluate.
func (c *Compiled) Destination(input string) string {
	_, args, _ := strings.Cut(Unescape(input), " ")
	return c.Evaluate(args)
}

// Evaluate percent-decodes input, splits it on spaces
// and substitutes each word into the variant matching the number of words.
// Words beyond the highest arity are appended, separated by spaces.
//
// An empty input holds no words and evaluates to the base variant.
// See [Unescape] for how malformed input is decoded.
func (c *Compiled) Evaluate(input string) string {
	return c.evaluate(Unescape(input))
}

// Matches asserts whether candidate, lower-cased, names the alias of c.
// The alias of c is compared as stored.
func (c *Compiled) Matches(candidate string) bool {
	return c.alias == NormalizeAlias(strings.ToLower(candidate))
}

func (c *Compiled) evaluate(args string) string {
	var tokens []string
	if args != "" {
		tokens = strings.Split(args, " ")
	}

	v := c.variants[len(c.variants)-1]
	if len(tokens) < len(c.variants) {
		v = c.variants[len(tokens)]
	}

	dest := v.Text
	for i := uint32(1); i <= v.Arity && len(tokens) > 0; i++ {
		dest = strings.ReplaceAll(dest, "$"+strconv.FormatUint(uint64(i), 10), tokens[0])
		tokens = tokens[1:]
	}

	if len(tokens) > 0 {
		dest += " " + strings.Join(tokens, " ")
	}

	return dest
}

// Unescape percent-decodes s.
// A '%' not followed by two hex digits is kept as is.
// If the decoded bytes are not valid UTF-8, s is returned unchanged.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}

		b.WriteByte(s[i])
	}

	decoded := b.String()
	if !utf8.ValidString(decoded) {
		return s
	}

	return decoded
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
