package pipe

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/plumb/binding"
	"github.com/ardnew/plumb/resource"
)

// Definition is the YAML form of a pipe chain. A definition with
// sub-definitions materializes as a container; its own Type may then be
// omitted. Path is the input path expression of the pipe, stored as its
// path property.
//
// Example:
//
//	name: retag
//	pipes:
//	  - type: echo
//	    path: /content/articles
//	  - type: write
//	    conf:
//	      jcr:title: ${one.name}
type Definition struct {
	Name  string         `yaml:"name,omitempty"`
	Type  string         `yaml:"type,omitempty"`
	Path  string         `yaml:"path,omitempty"`
	Conf  map[string]any `yaml:"conf,omitempty"`
	Pipes []*Definition  `yaml:"pipes,omitempty"`
}

// LoadDefinition reads and decodes a YAML pipeline definition.
func LoadDefinition(r io.Reader) (*Definition, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadDefinition.Wrap(err)
	}

	var def Definition

	err = yaml.Unmarshal(data, &def)
	if err != nil {
		return nil, ErrParseDefinition.Wrap(err)
	}

	if def.Type == "" && len(def.Pipes) == 0 {
		return nil, ErrEmptyDefinition
	}

	return &def, nil
}

// Materialize creates the resources described by the definition and
// returns the root pipe resource, ready for [Plumber.Execute].
//
// The resources are rooted at path; when path is empty a unique path is
// generated under [PipesRoot]. String configuration values pass through
// the expression classifier, so quoted or bracketed values become
// embedded expressions the same way builder tokens do.
func (d *Definition) Materialize(
	p *Plumber,
	path string,
) (*resource.Resource, error) {
	if path == "" {
		path = p.nextPipePath()
	}

	typ := d.Type
	if typ == "" {
		typ = TypeContainer
	}

	props := map[string]any{PropType: typ}
	if d.Name != "" {
		props[PropName] = d.Name
	}

	if d.Path != "" {
		props[PropPath] = d.Path
	}

	root, err := p.resolver.Create(path, resource.DefaultType, props)
	if err != nil {
		return nil, ErrBuildPipe.Wrap(err).
			With(slog.String("path", path))
	}

	if len(d.Conf) > 0 {
		err := materializeConf(p.resolver, path, d.Conf)
		if err != nil {
			return nil, err
		}
	}

	if len(d.Pipes) > 0 {
		pipesPath := resource.Join(path, NodePipes)

		_, err := p.resolver.Create(pipesPath, "", nil)
		if err != nil {
			return nil, ErrBuildPipe.Wrap(err).
				With(slog.String("path", pipesPath))
		}

		for i, sub := range d.Pipes {
			name := sub.Name
			if name == "" {
				name = "step-" + strconv.Itoa(i)
			}

			_, err := sub.Materialize(p, resource.Join(pipesPath, name))
			if err != nil {
				return nil, err
			}
		}
	}

	return root, nil
}

// materializeConf writes the configuration map under a [NodeConf]
// child, classifying string values as the map writer does.
func materializeConf(
	resolver *resource.Resolver,
	path string,
	conf map[string]any,
) error {
	props := make(binding.Map, len(conf))

	pairs := make([]any, 0, 2*len(conf))
	for key, value := range conf {
		pairs = append(pairs, key, value)
	}

	err := binding.WriteToMap(props, true, pairs...)
	if err != nil {
		return ErrBuildPipe.Wrap(err).
			With(slog.String("path", path))
	}

	confPath := resource.Join(path, NodeConf)

	_, err = resolver.Create(confPath, "", map[string]any(props))
	if err != nil {
		return ErrBuildPipe.Wrap(err).
			With(slog.String("path", confPath))
	}

	return nil
}
