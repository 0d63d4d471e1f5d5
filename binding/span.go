package binding

import (
	"iter"
	"strings"
)

// Spans splits s into alternating literal text and embedded expression
// spans, yielding each segment with a flag reporting whether it is an
// expression. Expression segments are yielded as the span body, without
// the surrounding [ExprPrefix] and [ExprSuffix] delimiters; nested
// braces inside a span are kept intact.
//
// An unbalanced trailing span is yielded verbatim as literal text, so
// the concatenation of all yielded literal segments and re-delimited
// expression segments always reproduces s.
func Spans(s string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		start := 0

		for i := 0; i < len(s); {
			if !strings.HasPrefix(s[i:], ExprPrefix) {
				i++

				continue
			}

			end, balanced := spanEnd(s, i)
			if !balanced {
				break
			}

			if i > start && !yield(s[start:i], false) {
				return
			}

			body := s[i+len(ExprPrefix) : end-len(ExprSuffix)]
			if !yield(body, true) {
				return
			}

			i, start = end, end
		}

		if start < len(s) {
			yield(s[start:], false)
		}
	}
}
