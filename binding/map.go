package binding

import (
	"fmt"
	"log/slog"
)

// Map is the binding map handed to the expression evaluator during pipe
// execution, keyed by variable or property name. Keys are unique and the
// last write for a given key wins; insertion order carries no meaning.
//
// The map is owned and lifetime-managed by the caller. This package only
// inserts into it.
type Map map[string]any

// Writer writes key/value pairs into a binding [Map], classifying values
// on the way in. The zero value is not useful; construct with
// [MakeWriter].
type Writer struct {
	arrayKeys map[string]struct{}
}

// Option applies a configuration option to a [Writer].
type Option func(Writer) Writer

// apply applies multiple options to a Writer.
func apply(w Writer, opts ...Option) Writer {
	for _, opt := range opts {
		w = opt(w)
	}

	return w
}

// MakeWriter creates a new [Writer].
//
// By default the reserved array-typed key set contains only
// [NodeMixinTypes]. Additional keys can be reserved with
// [WithArrayKeys].
func MakeWriter(opts ...Option) Writer {
	var w Writer

	w.arrayKeys = map[string]struct{}{
		NodeMixinTypes: {},
	}

	return apply(w, opts...)
}

// WithArrayKeys returns a functional option that reserves the given keys
// as array-typed: their values are always decoded with [ParseMixins],
// overriding the generic classifier.
func WithArrayKeys(keys ...string) Option {
	return func(w Writer) Writer {
		for _, key := range keys {
			w.arrayKeys[key] = struct{}{}
		}

		return w
	}
}

// IsArrayKey reports whether key is in the reserved array-typed key set.
func (w Writer) IsArrayKey(key string) bool {
	_, reserved := w.arrayKeys[key]

	return reserved
}

// WriteToMap writes the given key/value pairs into m, left to right.
//
// With embed false, every value is stored unmodified under its key. With
// embed true, values under array-typed keys are decoded with
// [ParseMixins] and all other values are classified with
// [EmbedIfNeeded].
//
// An odd number of pairs is a caller contract violation: the call is
// rejected with [ErrOddPairs] before any pair is written. A non-string
// key rejects the call with [ErrKeyType]; pairs processed before the
// offending key remain written.
func (w Writer) WriteToMap(m Map, embed bool, pairs ...any) error {
	if m == nil {
		return ErrNilMap
	}

	if len(pairs)%2 != 0 {
		return ErrOddPairs.With(slog.Int("count", len(pairs)))
	}

	for i := 0; i+1 < len(pairs); i += 2 {
		key, isString := pairs[i].(string)
		if !isString {
			return ErrKeyType.With(
				slog.Int("index", i),
				slog.String("type", fmt.Sprintf("%T", pairs[i])),
			)
		}

		value := pairs[i+1]

		switch {
		case !embed:
			m[key] = value

		case w.IsArrayKey(key):
			m[key] = asMixins(value)

		default:
			m[key] = EmbedIfNeeded(value)
		}
	}

	return nil
}

// asMixins coerces a value stored under an array-typed key to a string
// slice. Values that are already string slices pass through; everything
// else is rendered to text and decoded with [ParseMixins].
func asMixins(value any) []string {
	switch v := value.(type) {
	case []string:
		return v

	case string:
		return ParseMixins(v)

	default:
		return ParseMixins(fmt.Sprint(v))
	}
}

// defaultWriter serves the package-level convenience functions.
//
//nolint:gochecknoglobals
var defaultWriter = MakeWriter()

// WriteToMap writes key/value pairs into m using the default [Writer],
// whose reserved array-typed key set contains only [NodeMixinTypes].
func WriteToMap(m Map, embed bool, pairs ...any) error {
	return defaultWriter.WriteToMap(m, embed, pairs...)
}
