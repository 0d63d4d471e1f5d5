package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_NestedSection(t *testing.T) {
	const cfg = `
config:
  log-level: debug
  log-format: text
other:
  foo: bar
`

	loader := resolve("config")

	resolver, err := loader(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != "debug" {
		t.Errorf("log-level = %v, want debug", val)
	}

	// Values from other sections must not leak into the named section.
	flag = &kong.Flag{Value: &kong.Value{Name: "foo"}}

	val, err = resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != nil {
		t.Errorf("foo = %v, want nil", val)
	}
}

func TestResolve_FlatFile(t *testing.T) {
	const cfg = `
log-level: warn
log-pretty: false
`

	loader := resolve("config")

	resolver, err := loader(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != "warn" {
		t.Errorf("log-level = %v, want warn", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	const cfg = `config: { log_level: debug }`

	loader := resolve("config")

	resolver, err := loader(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Kong asks with the hyphenated name; the file uses underscores.
	flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != "debug" {
		t.Errorf("log-level = %v, want debug", val)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	const cfg = `
config:
  count: 42
  ratio: 1.5
`

	loader := resolve("config")

	resolver, err := loader(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"count", "42"},
		{"ratio", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.name}}

			val, err := resolver.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if val != tt.want {
				t.Errorf("%s = %v (%T), want %q", tt.name, val, val, tt.want)
			}
		})
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	loader := resolve("config")

	resolver, err := loader(strings.NewReader("config: [\n  - :::"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != nil {
		t.Errorf("invalid file should resolve nothing, got %v", val)
	}
}

func TestResolve_MissingSection(t *testing.T) {
	loader := resolve("missing")

	resolver, err := loader(strings.NewReader(`existing: { foo: bar }`))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Top-level keys are still visible when the section is absent, but
	// foreign section contents are not.
	flag := &kong.Flag{Value: &kong.Value{Name: "foo"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if val != nil {
		t.Errorf("foo = %v, want nil", val)
	}
}
