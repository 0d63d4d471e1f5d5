package resource

import "strings"

// RootPath is the absolute path of the tree root.
const RootPath = "/"

// Clean normalizes a resource path: it collapses repeated slashes, strips
// a trailing slash, and guarantees a leading slash. The empty string
// cleans to [RootPath].
func Clean(path string) string {
	segments := Segments(path)
	if len(segments) == 0 {
		return RootPath
	}

	return RootPath + strings.Join(segments, "/")
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}

// Name returns the last segment of a path, or "" for the root.
func Name(path string) string {
	segments := Segments(path)
	if len(segments) == 0 {
		return ""
	}

	return segments[len(segments)-1]
}

// Parent returns the parent path of a path. The parent of the root is
// the root itself.
func Parent(path string) string {
	segments := Segments(path)
	if len(segments) <= 1 {
		return RootPath
	}

	return RootPath + strings.Join(segments[:len(segments)-1], "/")
}

// Join joins path elements with slashes and cleans the result.
func Join(elem ...string) string {
	return Clean(strings.Join(elem, "/"))
}
