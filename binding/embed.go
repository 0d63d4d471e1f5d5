package binding

import "strings"

// quoteChars, bracketChars, and parenChars are the character classes the
// classifier treats as expression syntax when found in a raw string.
const (
	quoteChars   = `'"`
	bracketChars = "[]"
	parenChars   = "()"
)

// Embed wraps s verbatim as an embedded expression "${s}".
// No escaping or re-quoting is performed.
func Embed(s string) string {
	return ExprPrefix + s + ExprSuffix
}

// EmbedIfNeeded classifies a raw configuration value.
//
// Non-string values are returned unchanged: numbers, booleans, and slices
// are already typed, so no embedding applies. Strings are classified by
// syntactic shape:
//
//   - A string already containing [ExprPrefix] anywhere is returned
//     unchanged. It is either pre-embedded or a mixed literal/expression
//     string the author composed deliberately; re-wrapping would corrupt
//     it. This also makes EmbedIfNeeded idempotent.
//   - A string containing a quote, square bracket, or parenthesis, or
//     equal to the bare keyword "true" or "false", is wrapped whole as
//     "${...}" for the downstream evaluator.
//   - Anything else is a plain literal (typically a resource path or
//     identifier) and is returned unchanged.
//
// Whether the wrapped expression actually evaluates is not this
// function's concern; syntax errors inside the span surface later, at
// evaluation time.
func EmbedIfNeeded(value any) any {
	s, isString := value.(string)
	if !isString {
		return value
	}

	if strings.Contains(s, ExprPrefix) {
		return s
	}

	if needsEmbedding(s) {
		return Embed(s)
	}

	return s
}

// needsEmbedding reports whether a plain string must be evaluated as an
// expression rather than kept as a literal. Tests are applied in order;
// the first match wins.
func needsEmbedding(s string) bool {
	switch {
	case strings.ContainsAny(s, quoteChars):
		// Quoted literal, e.g. 'some string'
		return true

	case strings.ContainsAny(s, bracketChars):
		// Array literal or property access, e.g. ['a','b'], x['jcr:title']
		return true

	case strings.ContainsAny(s, parenChars):
		// Function or constructor call, e.g. f(x)
		return true

	case s == KeywordTrue, s == KeywordFalse:
		// Keyword literal to be evaluated as a native boolean
		return true
	}

	return false
}
