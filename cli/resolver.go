package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(name), "/path/to/config")
//
// The config file maps flag names to values. Flag values may live at the
// top level or nested under the named section, which allows the same
// file to carry unrelated sections:
//
//	config:
//	  log-level: debug
//	  log-format: json
//	  log-pretty: true
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"). Command-line flags override config
// file values.
//
// A file that fails to parse yields an empty configuration rather than
// an error, matching the behavior of a missing file.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		var root map[string]any

		if err := yaml.Unmarshal(data, &root); err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		// Flag values may be nested under the named section.
		if sub, ok := root[name].(map[string]any); ok {
			root = sub
		}

		return config(normalizeValues(root)), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// normalizeValues converts decoded YAML values into the representations
// Kong expects: numbers become strings so Kong can re-parse them with
// each flag's own mapper.
func normalizeValues(in map[string]any) map[string]any {
	result := make(map[string]any, len(in))

	for key, value := range in {
		switch v := value.(type) {
		case int64:
			result[key] = strconv.FormatInt(v, 10)
		case uint64:
			result[key] = strconv.FormatUint(v, 10)
		case float64:
			result[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			result[key] = v
		}
	}

	return result
}
