package binding

import (
	"slices"
	"testing"
)

type spanSegment struct {
	text string
	expr bool
}

func collectSpans(s string) []spanSegment {
	var segments []spanSegment

	for text, expr := range Spans(s) {
		segments = append(segments, spanSegment{text: text, expr: expr})
	}

	return segments
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []spanSegment
	}{
		{
			name:  "plain text",
			input: "hello world",
			want:  []spanSegment{{"hello world", false}},
		},
		{
			name:  "whole expression",
			input: "${foo + bar}",
			want:  []spanSegment{{"foo + bar", true}},
		},
		{
			name:  "leading text",
			input: "prefix/${name}",
			want:  []spanSegment{{"prefix/", false}, {"name", true}},
		},
		{
			name:  "trailing text",
			input: "${name}/suffix",
			want:  []spanSegment{{"name", true}, {"/suffix", false}},
		},
		{
			name:  "multiple spans",
			input: "${a}-${b}",
			want: []spanSegment{
				{"a", true}, {"-", false}, {"b", true},
			},
		},
		{
			name:  "nested braces",
			input: "${fn({a: 1})}",
			want:  []spanSegment{{"fn({a: 1})", true}},
		},
		{
			name:  "unbalanced span is literal",
			input: "text ${broken",
			want:  []spanSegment{{"text ${broken", false}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectSpans(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Spans(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpans_Reassembly(t *testing.T) {
	inputs := []string{
		"a=${b}",
		"${x}mid${y}end",
		"no spans at all",
		"${unclosed",
		"${ok}${also}",
	}

	for _, input := range inputs {
		var rebuilt string

		for text, expr := range Spans(input) {
			if expr {
				rebuilt += ExprPrefix + text + ExprSuffix
			} else {
				rebuilt += text
			}
		}

		if rebuilt != input {
			t.Errorf("reassembled %q from %q", rebuilt, input)
		}
	}
}
