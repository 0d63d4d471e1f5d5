// Package resource provides the in-memory content tree that pipes read
// and write.
//
// A [Resource] is a named node with a resource type, a property map, and
// ordered children, addressed by a slash-separated absolute path. The
// [Resolver] owns one tree rooted at "/" and tracks pending changes so
// callers can decide whether to commit or revert after a pipe run.
//
// Nothing in this package touches disk or network: Commit only settles
// the pending change count. The tree exists to give pipe executions a
// concrete repository-shaped surface to traverse and mutate.
package resource
