package cmd

import (
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/plumb/resource"
)

// contentTypeKey is the YAML key naming a node's resource type. Every
// other scalar entry becomes a property, and every mapping entry becomes
// a child resource.
const contentTypeKey = "type"

// loadContentFile seeds the resolver's tree from a YAML content file.
func loadContentFile(resolver *resource.Resolver, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return ErrLoadContent.
			With(slog.String("file", path)).
			Wrap(err)
	}
	defer file.Close()

	if err := loadContent(resolver, file); err != nil {
		return ErrLoadContent.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return nil
}

// loadContent reads a YAML document describing a content tree and
// creates the corresponding resources under the resolver's root.
//
// Nested mappings become child resources, everything else becomes a
// property, and a "type" entry names the resource type:
//
//	content:
//	  articles:
//	    one:
//	      type: nt:unstructured
//	      jcr:title: First
func loadContent(resolver *resource.Resolver, r io.Reader) error {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return err
	}

	var tree map[string]any

	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}

	return createContentNode(resolver, resource.RootPath, tree)
}

// createContentNode creates the resources described by node under path.
// Child names are created in sorted order so the tree layout is stable
// across loads.
func createContentNode(
	resolver *resource.Resolver,
	path string,
	node map[string]any,
) error {
	props := make(map[string]any)
	children := make(map[string]map[string]any)

	for key, value := range node {
		if child, ok := value.(map[string]any); ok {
			children[key] = child

			continue
		}

		props[key] = value
	}

	typ, _ := props[contentTypeKey].(string)
	delete(props, contentTypeKey)

	if path == resource.RootPath {
		// The root always exists; its properties apply in place.
		for key, value := range props {
			resolver.Root().SetProperty(key, value)
		}
	} else if _, err := resolver.Create(path, typ, props); err != nil {
		return err
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		err := createContentNode(
			resolver, resource.Join(path, name), children[name],
		)
		if err != nil {
			return err
		}
	}

	return nil
}
