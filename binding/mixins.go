package binding

import "strings"

// NodeMixinTypes is the reserved property name whose value is always an
// ordered array of node-type names, never an embedded expression.
const NodeMixinTypes = "jcr:mixinTypes"

// ParseMixins decodes a bracketed, comma-separated list literal into an
// ordered slice of trimmed strings:
//
//	ParseMixins("[ rep:versionable, some:OtherMixin]")
//	// []string{"rep:versionable", "some:OtherMixin"}
//
// The parser is deliberately tolerant: surrounding whitespace and the
// outer brackets are stripped if present, empty segments (for example a
// trailing comma) are dropped, and malformed input yields an empty slice
// rather than an error. Array-typed properties must always resolve to
// some array.
func ParseMixins(raw string) []string {
	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")

	segments := strings.Split(inner, ",")
	mixins := make([]string, 0, len(segments))

	for _, segment := range segments {
		if name := strings.TrimSpace(segment); name != "" {
			mixins = append(mixins, name)
		}
	}

	return mixins
}
