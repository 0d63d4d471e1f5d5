package binding

import "testing"

func TestEmbedIfNeeded(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			"plain path untouched",
			"/path/left/0/un-touc_hed",
			"/path/left/0/un-touc_hed",
		},
		{
			"pre-embedded suffix untouched",
			"/content/json/array/${json.test}",
			"/content/json/array/${json.test}",
		},
		{
			"pre-embedded script untouched",
			"${some + wellformed + script}",
			"${some + wellformed + script}",
		},
		{
			"property access wrapped",
			"vegetables['jcr:title']",
			"${vegetables['jcr:title']}",
		},
		{
			"constructor call wrapped",
			`new Date("2018-05-05T11:50:55")`,
			`${new Date("2018-05-05T11:50:55")}`,
		},
		{"true keyword wrapped", "true", "${true}"},
		{"false keyword wrapped", "false", "${false}"},
		{"quoted string wrapped", "'some string'", "${'some string'}"},
		{"array literal wrapped", "['one','two']", "${['one','two']}"},
		{"call wrapped", "f(x)", "${f(x)}"},
		{"bare identifier untouched", "identifier", "identifier"},
		{"keyword prefix untouched", "truevalue", "truevalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmbedIfNeeded(tt.value)
			if got != tt.want {
				t.Errorf(
					"EmbedIfNeeded(%q) = %v, want %q",
					tt.value, got, tt.want,
				)
			}
		})
	}
}

func TestEmbedIfNeeded_NonString(t *testing.T) {
	values := []any{2, int64(42), 3.14, true, false, []string{"a", "b"}, nil}

	for _, value := range values {
		got := EmbedIfNeeded(value)
		switch got.(type) {
		case string:
			t.Errorf("EmbedIfNeeded(%v) converted non-string to %v", value, got)
		}

		if s, ok := got.([]string); ok {
			if len(s) != 2 || s[0] != "a" || s[1] != "b" {
				t.Errorf("EmbedIfNeeded mutated slice: %v", s)
			}

			continue
		}

		if got != value {
			t.Errorf("EmbedIfNeeded(%v) = %v, want unchanged", value, got)
		}
	}
}

func TestEmbedIfNeeded_Idempotent(t *testing.T) {
	inputs := []string{
		"'some string'",
		"true",
		"['one','two']",
		"f(x)",
		"/some/path",
		"${already}",
		"/content/${mixed}",
	}

	for _, input := range inputs {
		once := EmbedIfNeeded(input)

		twice := EmbedIfNeeded(once)
		if twice != once {
			t.Errorf(
				"EmbedIfNeeded not idempotent for %q: %v then %v",
				input, once, twice,
			)
		}
	}
}
