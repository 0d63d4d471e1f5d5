package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func TestBuildSources_Dedupe(t *testing.T) {
	dir := t.TempDir()

	a := writeTempFile(t, dir, "a.yaml", "type: echo\npath: /\n")
	b := writeTempFile(t, dir, "b.yaml", "type: echo\npath: /\n")

	sources := buildSources([]string{a, a, b})
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}

	if sources[0].Name != a || sources[1].Name != b {
		t.Errorf("names = %q, %q", sources[0].Name, sources[1].Name)
	}
}

func TestBuildSources_DedupeRelative(t *testing.T) {
	dir := t.TempDir()

	abs := writeTempFile(t, dir, "a.yaml", "type: echo\n")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		t.Skipf("no relative path from %s to %s", wd, abs)
	}

	sources := buildSources([]string{abs, rel})
	if len(sources) != 1 {
		t.Errorf("sources = %d, want 1", len(sources))
	}
}

func TestBuildSources_StdinLast(t *testing.T) {
	dir := t.TempDir()

	a := writeTempFile(t, dir, "a.yaml", "type: echo\n")

	sources := buildSources([]string{stdinSource, a})
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}

	if sources[len(sources)-1].Name != stdinSource {
		t.Errorf("stdin not last: %q", sources[len(sources)-1].Name)
	}
}

func TestBuildSources_Empty(t *testing.T) {
	if sources := buildSources(nil); sources != nil {
		t.Errorf("sources = %v, want nil", sources)
	}

	if sources := buildSources([]string{"/nonexistent/definitely"}); sources != nil {
		t.Errorf("sources = %v, want nil", sources)
	}
}
