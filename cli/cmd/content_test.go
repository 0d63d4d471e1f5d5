package cmd

import (
	"strings"
	"testing"

	"github.com/ardnew/plumb/resource"
)

const articleContent = `
title: site root
content:
  articles:
    one:
      type: app:article
      jcr:title: First
    two:
      jcr:title: Second
`

func TestLoadContent(t *testing.T) {
	resolver := resource.MakeResolver()

	err := loadContent(resolver, strings.NewReader(articleContent))
	if err != nil {
		t.Fatalf("loadContent: %v", err)
	}

	// Scalars at the top level become root properties.
	if title, _ := resolver.Root().Property("title"); title != "site root" {
		t.Errorf("root title = %v, want site root", title)
	}

	one, ok := resolver.GetResource("/content/articles/one")
	if !ok {
		t.Fatal("missing /content/articles/one")
	}

	if one.Type() != "app:article" {
		t.Errorf("type = %q, want app:article", one.Type())
	}

	if jt, _ := one.Property("jcr:title"); jt != "First" {
		t.Errorf("jcr:title = %v, want First", jt)
	}

	// Nodes without an explicit type get the default.
	two, ok := resolver.GetResource("/content/articles/two")
	if !ok {
		t.Fatal("missing /content/articles/two")
	}

	if two.Type() != resource.DefaultType {
		t.Errorf("type = %q, want %q", two.Type(), resource.DefaultType)
	}
}

func TestLoadContent_ChildOrder(t *testing.T) {
	resolver := resource.MakeResolver()

	err := loadContent(resolver, strings.NewReader(articleContent))
	if err != nil {
		t.Fatalf("loadContent: %v", err)
	}

	articles, ok := resolver.GetResource("/content/articles")
	if !ok {
		t.Fatal("missing /content/articles")
	}

	var names []string
	for child := range articles.Children() {
		names = append(names, child.Name())
	}

	// Children are created in sorted name order.
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Errorf("children = %v, want [one two]", names)
	}
}

func TestLoadContent_Invalid(t *testing.T) {
	resolver := resource.MakeResolver()

	err := loadContent(resolver, strings.NewReader("content: [\n  - :::"))
	if err == nil {
		t.Error("expected parse error")
	}
}
