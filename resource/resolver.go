package resource

import (
	"log/slog"
	"maps"
)

// Resolver owns a content tree and resolves absolute paths to resources.
//
// A Resolver is not safe for concurrent mutation; callers sharing one
// across goroutines must serialize access, mirroring the contract of the
// binding map this tree is transformed through.
type Resolver struct {
	root    *Resource
	pending int
}

// MakeResolver creates a resolver owning an empty tree rooted at "/".
func MakeResolver() *Resolver {
	var res Resolver

	res.root = &Resource{
		resolver: &res,
		typ:      DefaultType,
	}

	return &res
}

// Root returns the root resource.
func (res *Resolver) Root() *Resource { return res.root }

// GetResource resolves an absolute path to a resource.
func (res *Resolver) GetResource(path string) (*Resource, bool) {
	node := res.root

	for _, segment := range Segments(path) {
		child, ok := node.Child(segment)
		if !ok {
			return nil, false
		}

		node = child
	}

	return node, true
}

// Create creates a resource at the given path with the given type and
// properties, synthesizing missing intermediate nodes with
// [DefaultType]. It fails with [ErrExists] if the path already exists.
func (res *Resolver) Create(
	path, typ string,
	props map[string]any,
) (*Resource, error) {
	segments := Segments(path)
	if len(segments) == 0 {
		return nil, ErrInvalidPath.With(slog.String("path", path))
	}

	if typ == "" {
		typ = DefaultType
	}

	node := res.root

	for i, segment := range segments {
		last := i == len(segments)-1

		if child, ok := node.Child(segment); ok {
			if last {
				return nil, ErrExists.With(slog.String("path", Clean(path)))
			}

			node = child

			continue
		}

		child := &Resource{
			resolver: res,
			parent:   node,
			name:     segment,
			typ:      DefaultType,
		}

		if last {
			child.typ = typ
			child.props = maps.Clone(props)
		}

		node.children = append(node.children, child)
		res.markChanged()
		node = child
	}

	return node, nil
}

// GetOrCreate resolves a path, creating it (and any missing ancestors)
// with [DefaultType] when absent.
func (res *Resolver) GetOrCreate(path string) (*Resource, error) {
	if node, ok := res.GetResource(path); ok {
		return node, nil
	}

	return res.Create(path, DefaultType, nil)
}

// Delete removes the resource at path along with its subtree.
func (res *Resolver) Delete(path string) error {
	node, ok := res.GetResource(path)
	if !ok {
		return ErrNotFound.With(slog.String("path", Clean(path)))
	}

	if node.parent == nil {
		return ErrRootDelete
	}

	siblings := node.parent.children
	for i, child := range siblings {
		if child == node {
			node.parent.children = append(siblings[:i], siblings[i+1:]...)

			break
		}
	}

	node.parent = nil
	res.markChanged()

	return nil
}

// HasChanges reports whether any uncommitted changes are pending.
func (res *Resolver) HasChanges() bool { return res.pending > 0 }

// Commit settles all pending changes and returns how many were settled.
// The tree holds no backing store, so this is bookkeeping only: it
// exists so callers honoring a save flag have a commit point to drive.
func (res *Resolver) Commit() int {
	n := res.pending
	res.pending = 0

	return n
}

// markChanged records one pending change.
func (res *Resolver) markChanged() { res.pending++ }
