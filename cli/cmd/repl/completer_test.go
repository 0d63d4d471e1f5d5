package repl

import (
	"slices"
	"testing"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Colons are part of identifiers, not word boundaries.
		{"namespaced", "jcr:title", 9, "jcr:title", 0, 9},
		{"namespaced_partial", "jcr:ti", 6, "jcr:ti", 0, 6},
		{"namespaced_after_op", "a + jcr:title", 13, "jcr:title", 4, 13},
		// After dot is an empty word.
		{"empty_after_dot", "path.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCtrlCommands_Complete(t *testing.T) {
	for _, want := range []string{"help", "bindings", "pipes", "clear", "quit"} {
		if !slices.Contains(ctrlCommands, want) {
			t.Errorf("ctrlCommands missing %q", want)
		}
	}
}

func TestIsFunction(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"len", true},
		{"upper", true},
		{"env", true},
		{"path", false},
		{"nonesuch", false},
	}

	for _, tt := range tests {
		if got := isFunction(tt.name); got != tt.want {
			t.Errorf("isFunction(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
