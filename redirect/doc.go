/*
Package redirect compiles destination templates and resolves them against the words
typed after an alias.

# Templates

A destination template is a URL holding one chain of nested optional segments,
delimited by braces, and numbered placeholders:

	https://jira.example.com{/browse/$1}
	http://example.com{/foo/$1{/bar/$2}}

[Compile] flattens a template into a [Variant] per nesting depth.
The variant at index n expects n placeholders.
Braces are treated as plain separators, so sibling optional groups,
such as "{a}{b}", are not supported.

A template that cannot be compiled, e.g., "x}{y" or "x{y", degrades into a single variant
holding the template verbatim; a [Warner] is told about it.

# Resolving

[*Compiled.Evaluate] splits its input on spaces, picks the variant matching the number of words,
substitutes $1, $2, ... and appends any leftover words after a space.
[*Compiled.Destination] does the same after dropping the alias the input begins with.

A [Compiled] is immutable and safe for concurrent use.
*/
package redirect
