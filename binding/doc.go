// Package binding implements the command-token parsing and
// expression-embedding core of plumb.
//
// A configuration token is a flat "key=value" string taken from pipe
// configuration properties or command-line arguments. The package splits
// tokens into key/value pairs, classifies raw values as literals or
// embedded expressions, decodes bracketed mixin lists, and writes the
// typed results into a caller-owned binding [Map] that is later handed to
// the expression evaluator during pipe execution.
//
// Both keys and values may contain embedded expressions delimited by
// ${...}. These spans are treated as atomic, brace-balanced units by the
// token grammar so that separators inside an expression (=, :, quotes,
// ternaries) never corrupt the split.
//
// All functions in this package are pure: they read only their inputs and
// write only into the map the caller supplies. Concurrent calls on
// independent inputs need no coordination; callers sharing one Map across
// goroutines must serialize access themselves.
package binding
