package binding

import "strings"

// Embedded expression delimiters and reserved keyword literals.
//
// These are exported so that callers building or inspecting tokens agree
// with the classifier on the exact spelling of the markers.
const (
	// ExprPrefix marks the start of an embedded expression span.
	ExprPrefix = "${"

	// ExprSuffix marks the end of an embedded expression span.
	ExprSuffix = "}"

	// KeywordTrue and KeywordFalse are the bare boolean keyword literals
	// recognized by the classifier.
	KeywordTrue  = "true"
	KeywordFalse = "false"
)

// SplitToken splits a raw configuration token of the form "key=value"
// into its key and value segments.
//
// A ${...} span is scanned as an atomic, brace-balanced unit: an "="
// inside such a span never acts as the separator. This keeps keys and
// values containing expression snippets (ternaries, comparisons, string
// literals) intact:
//
//	SplitToken("${foo}=bar")                // "${foo}", "bar"
//	SplitToken("foo=${foo == bar ? 1 : 2}") // "foo", "${foo == bar ? 1 : 2}"
//
// ok is false when no separator can be located outside a balanced span,
// when a span is left unbalanced, or when more than one unguarded "="
// exists. Tokens in the latter two shapes have no specified meaning, so
// they are surfaced as a non-match for the caller to decide.
func SplitToken(token string) (key, value string, ok bool) {
	sep := -1

	for i := 0; i < len(token); {
		if strings.HasPrefix(token[i:], ExprPrefix) {
			end, balanced := spanEnd(token, i)
			if !balanced {
				return "", "", false
			}

			i = end

			continue
		}

		if token[i] == '=' {
			if sep >= 0 {
				// Second unguarded separator: ambiguous token.
				return "", "", false
			}

			sep = i
		}

		i++
	}

	if sep <= 0 {
		// Missing separator, or empty key segment.
		return "", "", false
	}

	return token[:sep], token[sep+1:], true
}

// spanEnd scans the ${...} span starting at off, tracking brace nesting
// depth. It returns the offset just past the closing brace and whether
// the span closed before the end of input.
//
// The caller must ensure s[off:] begins with [ExprPrefix].
func spanEnd(s string, off int) (end int, balanced bool) {
	depth := 1

	for i := off + len(ExprPrefix); i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	return len(s), false
}
