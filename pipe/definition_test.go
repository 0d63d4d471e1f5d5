package pipe

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/plumb/log"
	"github.com/ardnew/plumb/resource"
)

const retagDefinition = `
name: retag
pipes:
  - type: echo
    name: source
    path: /content/articles/one
  - type: write
    name: retag
    conf:
      tagged: ${true}
      label: ${'article-' + one.name}
`

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(strings.NewReader(retagDefinition))
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}

	if def.Name != "retag" {
		t.Errorf("Name = %q, want retag", def.Name)
	}

	if len(def.Pipes) != 2 {
		t.Fatalf("Pipes = %d, want 2", len(def.Pipes))
	}

	if def.Pipes[0].Type != TypeEcho {
		t.Errorf("Pipes[0].Type = %q, want echo", def.Pipes[0].Type)
	}

	if def.Pipes[1].Conf["tagged"] != "${true}" {
		t.Errorf("Conf[tagged] = %v", def.Pipes[1].Conf["tagged"])
	}
}

func TestLoadDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "malformed yaml",
			input: "pipes: [\n  - :::",
			want:  ErrParseDefinition,
		},
		{
			name:  "missing type",
			input: "name: empty",
			want:  ErrEmptyDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefinition(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefinition_Materialize_Execute(t *testing.T) {
	p := testPlumber(t)

	def, err := LoadDefinition(strings.NewReader(retagDefinition))
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}

	root, err := def.Materialize(p, "/var/pipes/retag")
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if typ, _ := root.Property(PropType); typ != TypeContainer {
		t.Errorf("root type = %v, want container", typ)
	}

	result, err := p.Execute(
		context.Background(), root.Path(), nil, true,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"/content/articles/one"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}

	target, _ := p.Resolver().GetResource("/content/articles/one")

	if tagged, _ := target.Property("tagged"); tagged != true {
		t.Errorf("tagged = %v, want true", tagged)
	}

	if label, _ := target.Property("label"); label != "article-one" {
		t.Errorf("label = %v, want article-one", label)
	}
}

func TestDefinition_Materialize_GeneratedPath(t *testing.T) {
	resolver := resource.MakeResolver()
	p := NewPlumber(resolver, WithLogger(log.Make(io.Discard)))

	def := &Definition{Type: TypeEcho, Path: "/"}

	root, err := def.Materialize(p, "")
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if !strings.HasPrefix(root.Path(), PipesRoot+"/") {
		t.Errorf("generated path %q not under %s", root.Path(), PipesRoot)
	}
}
