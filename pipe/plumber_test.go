package pipe

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/plumb/binding"
	"github.com/ardnew/plumb/log"
	"github.com/ardnew/plumb/resource"
)

// testPlumber builds a plumber over a small content tree:
//
//	/content/articles/one  (jcr:title=First,  kind=article)
//	/content/articles/two  (jcr:title=Second, kind=note)
func testPlumber(t *testing.T) *Plumber {
	t.Helper()

	resolver := resource.MakeResolver()

	for path, props := range map[string]map[string]any{
		"/content/articles/one": {"jcr:title": "First", "kind": "article"},
		"/content/articles/two": {"jcr:title": "Second", "kind": "note"},
	} {
		if _, err := resolver.Create(path, "", props); err != nil {
			t.Fatalf("create %s: %v", path, err)
		}
	}

	resolver.Commit()

	return NewPlumber(resolver, WithLogger(log.Make(io.Discard)))
}

func TestPlumber_RegisterPipe(t *testing.T) {
	p := testPlumber(t)

	for _, typ := range []string{
		TypeEcho, TypeWrite, TypeContainer, TypeFilter,
	} {
		if !p.IsTypeRegistered(typ) {
			t.Errorf("built-in type %q not registered", typ)
		}
	}

	if p.IsTypeRegistered("custom") {
		t.Error("unregistered type reported as registered")
	}

	p.RegisterPipe("custom", newEchoPipe)

	if !p.IsTypeRegistered("custom") {
		t.Error("registered type not reported")
	}
}

func TestPlumber_GetPipe_Errors(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	untyped, err := resolver.Create("/var/pipes/untyped", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.GetPipe(untyped, MakeBindings()); !errors.Is(err, ErrNoPipeType) {
		t.Errorf("expected ErrNoPipeType, got %v", err)
	}

	unknown, err := resolver.Create("/var/pipes/unknown", "", map[string]any{
		PropType: "no-such-type",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.GetPipe(unknown, MakeBindings()); !errors.Is(err, ErrTypeNotRegistered) {
		t.Errorf("expected ErrTypeNotRegistered, got %v", err)
	}
}

func TestPlumber_Execute_Echo(t *testing.T) {
	p := testPlumber(t)

	_, err := p.Resolver().Create("/var/pipes/echo-one", "", map[string]any{
		PropType: TypeEcho,
		PropPath: "/content/articles/one",
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.Execute(
		context.Background(), "/var/pipes/echo-one", nil, false,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"/content/articles/one"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}
}

func TestPlumber_Execute_PathExpression(t *testing.T) {
	p := testPlumber(t)

	_, err := p.Resolver().Create("/var/pipes/echo-expr", "", map[string]any{
		PropType: TypeEcho,
		PropPath: "/content/articles/${which}",
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.Execute(
		context.Background(),
		"/var/pipes/echo-expr",
		binding.Map{"which": "two"},
		false,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"/content/articles/two"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}
}

func TestPlumber_Execute_WriteAndSave(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	_, err := resolver.Create("/var/pipes/retitle", "", map[string]any{
		PropType: TypeWrite,
		PropPath: "/content/articles/one",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = resolver.Create("/var/pipes/retitle/conf", "", map[string]any{
		"jcr:title": "${prefix + one.name}",
		"reviewed":  "${true}",
	})
	if err != nil {
		t.Fatal(err)
	}

	resolver.Commit()

	result, err := p.Execute(
		context.Background(),
		"/var/pipes/retitle",
		binding.Map{"prefix": "article-"},
		true,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	target, _ := resolver.GetResource("/content/articles/one")

	if title, _ := target.Property("jcr:title"); title != "article-one" {
		t.Errorf("jcr:title = %v, want article-one", title)
	}

	if reviewed, _ := target.Property("reviewed"); reviewed != true {
		t.Errorf("reviewed = %v, want true", reviewed)
	}

	if result.Committed == 0 {
		t.Error("save did not commit pending changes")
	}

	if resolver.HasChanges() {
		t.Error("changes still pending after save")
	}
}

func TestPlumber_Execute_Container(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	root, err := p.NewPipe(TypeEcho).
		Name("source").
		Path("/content/articles").
		Pipe(TypeWrite).
		Name("mark").
		With("seen=${true}").
		Build("/var/pipes/chain")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if root.Path() != "/var/pipes/chain" {
		t.Errorf("root path = %s", root.Path())
	}

	result, err := p.Execute(
		context.Background(), "/var/pipes/chain", nil, false,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"/content/articles"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}

	articles, _ := resolver.GetResource("/content/articles")
	if seen, _ := articles.Property("seen"); seen != true {
		t.Errorf("seen = %v, want true", seen)
	}
}

func TestPlumber_Execute_Filter(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	// Echo one article into a filter keeping only kind=article.
	for _, node := range []struct {
		path  string
		props map[string]any
	}{
		{"/var/pipes/only-articles", map[string]any{
			PropType: TypeContainer,
		}},
		{"/var/pipes/only-articles/pipes/a", map[string]any{
			PropType: TypeEcho,
			PropPath: "/content/articles/one",
		}},
		{"/var/pipes/only-articles/pipes/b", map[string]any{
			PropType: TypeFilter,
		}},
		{"/var/pipes/only-articles/pipes/b/conf", map[string]any{
			PropTest: "${one.kind == 'article'}",
		}},
	} {
		if _, err := resolver.Create(node.path, "", node.props); err != nil {
			t.Fatalf("create %s: %v", node.path, err)
		}
	}

	result, err := p.Execute(
		context.Background(), "/var/pipes/only-articles", nil, false,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"/content/articles/one"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}
}

func TestPlumber_Execute_FilterRejects(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	for _, node := range []struct {
		path  string
		props map[string]any
	}{
		{"/var/pipes/none", map[string]any{
			PropType: TypeContainer,
		}},
		{"/var/pipes/none/pipes/a", map[string]any{
			PropType: TypeEcho,
			PropPath: "/content/articles/two",
		}},
		{"/var/pipes/none/pipes/b", map[string]any{
			PropType: TypeFilter,
		}},
		{"/var/pipes/none/pipes/b/conf", map[string]any{
			"kind": "article",
		}},
	} {
		if _, err := resolver.Create(node.path, "", node.props); err != nil {
			t.Fatalf("create %s: %v", node.path, err)
		}
	}

	result, err := p.Execute(
		context.Background(), "/var/pipes/none", nil, false,
	)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Size() != 0 {
		t.Errorf("Paths = %v, want none", result.Paths)
	}
}

func TestPlumber_Execute_Status(t *testing.T) {
	p := testPlumber(t)
	resolver := p.Resolver()

	res, err := resolver.Create("/var/pipes/status", "", map[string]any{
		PropType: TypeEcho,
		PropPath: "/content/articles/one",
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.GetStatus(res); got != StatusFinished {
		t.Errorf("status before run = %q, want %q", got, StatusFinished)
	}

	_, err = p.Execute(context.Background(), "/var/pipes/status", nil, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := p.GetStatus(res); got != StatusFinished {
		t.Errorf("status after run = %q, want %q", got, StatusFinished)
	}

	if _, ok := res.Property(PropStatusModified); !ok {
		t.Error("statusModified not recorded")
	}
}

func TestPlumber_Execute_NotFound(t *testing.T) {
	p := testPlumber(t)

	_, err := p.Execute(context.Background(), "/var/pipes/nope", nil, false)
	if !errors.Is(err, ErrPipeNotFound) {
		t.Errorf("expected ErrPipeNotFound, got %v", err)
	}
}

func TestPlumber_ExecuteAsync(t *testing.T) {
	p := testPlumber(t)

	_, err := p.Resolver().Create("/var/pipes/async", "", map[string]any{
		PropType: TypeEcho,
		PropPath: "/content/articles/one",
	})
	if err != nil {
		t.Fatal(err)
	}

	job := p.ExecuteAsync(
		context.Background(), "/var/pipes/async", nil, false,
	)

	result, err := job.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if result.Size() != 1 {
		t.Errorf("Size() = %d, want 1", result.Size())
	}

	select {
	case <-job.Done():
	default:
		t.Error("Done() channel not closed after Wait")
	}
}

func TestBuilder_Run(t *testing.T) {
	p := testPlumber(t)

	result, err := p.NewPipe(TypeEcho).
		Path("/content/articles/one").
		Run(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"/content/articles/one"}
	if !slices.Equal(result.Paths, want) {
		t.Errorf("Paths = %v, want %v", result.Paths, want)
	}
}

func TestBuilder_UnregisteredType(t *testing.T) {
	p := testPlumber(t)

	_, err := p.NewPipe("bogus").Build("")
	if !errors.Is(err, ErrTypeNotRegistered) {
		t.Errorf("expected ErrTypeNotRegistered, got %v", err)
	}
}

func TestBuilder_BadToken(t *testing.T) {
	p := testPlumber(t)

	_, err := p.NewPipe(TypeWrite).With("not a token").Build("")
	if !errors.Is(err, binding.ErrTokenMatch) {
		t.Errorf("expected ErrTokenMatch, got %v", err)
	}
}

func TestBuilder_WithLiteral(t *testing.T) {
	p := testPlumber(t)

	root, err := p.NewPipe(TypeWrite).
		WithLiteral("raw='keep quotes'").
		Build("/var/pipes/literal")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	conf, ok := root.Child(NodeConf)
	if !ok {
		t.Fatal("conf child missing")
	}

	if raw, _ := conf.Property("raw"); raw != "'keep quotes'" {
		t.Errorf("raw = %v, want verbatim value", raw)
	}
}

func TestExecutionResult_WriteJSON(t *testing.T) {
	result := ExecutionResult{Paths: []string{"/a", "/b"}}

	var buf strings.Builder

	if err := result.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got := buf.String()
	for _, want := range []string{`"items":["/a","/b"]`, `"size":2`} {
		if !strings.Contains(got, want) {
			t.Errorf("WriteJSON output missing %s: %s", want, got)
		}
	}
}
