package resource

import (
	"iter"
	"maps"
	"slices"
)

// DefaultType is the resource type assigned to nodes created without an
// explicit type, including intermediate nodes synthesized by
// [Resolver.Create].
const DefaultType = "nt:unstructured"

// Resource is a single node of the content tree: a name, a resource
// type, a property map, and ordered children.
//
// Resources are created and linked exclusively through their [Resolver];
// the zero value is not useful.
type Resource struct {
	resolver *Resolver
	parent   *Resource
	children []*Resource
	props    map[string]any
	name     string
	typ      string
}

// Name returns the resource name (the last segment of its path).
// The root resource has the empty name.
func (r *Resource) Name() string { return r.name }

// Type returns the resource type.
func (r *Resource) Type() string { return r.typ }

// Path returns the absolute path of the resource.
func (r *Resource) Path() string {
	if r.parent == nil {
		return RootPath
	}

	parent := r.parent.Path()
	if parent == RootPath {
		return RootPath + r.name
	}

	return parent + "/" + r.name
}

// Parent returns the parent resource, or nil for the root.
func (r *Resource) Parent() *Resource { return r.parent }

// Child returns the named child resource, if present.
func (r *Resource) Child(name string) (*Resource, bool) {
	for _, child := range r.children {
		if child.name == name {
			return child, true
		}
	}

	return nil, false
}

// Children returns an iterator over the child resources in insertion
// order.
func (r *Resource) Children() iter.Seq[*Resource] {
	return func(yield func(*Resource) bool) {
		for _, child := range r.children {
			if !yield(child) {
				return
			}
		}
	}
}

// HasChildren reports whether the resource has at least one child.
func (r *Resource) HasChildren() bool { return len(r.children) > 0 }

// Property returns the named property value, if present.
func (r *Resource) Property(key string) (any, bool) {
	value, ok := r.props[key]

	return value, ok
}

// Properties returns a copy of the property map. Mutating the copy does
// not affect the resource; use [Resource.SetProperty] for that.
func (r *Resource) Properties() map[string]any {
	return maps.Clone(r.props)
}

// PropertyKeys returns the property names in sorted order.
func (r *Resource) PropertyKeys() []string {
	return slices.Sorted(maps.Keys(r.props))
}

// SetProperty sets a property value and marks the tree changed.
// A nil value removes the property.
func (r *Resource) SetProperty(key string, value any) {
	if value == nil {
		if _, ok := r.props[key]; !ok {
			return
		}

		delete(r.props, key)
		r.resolver.markChanged()

		return
	}

	if r.props == nil {
		r.props = make(map[string]any)
	}

	r.props[key] = value
	r.resolver.markChanged()
}

// SetType sets the resource type and marks the tree changed.
func (r *Resource) SetType(typ string) {
	if typ == "" {
		typ = DefaultType
	}

	if r.typ == typ {
		return
	}

	r.typ = typ
	r.resolver.markChanged()
}
