package binding

import "testing"

func TestSplitToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		key   string
		value string
	}{
		{"plain", "foo=bar", "foo", "bar"},
		{"expression key", "${foo}=bar", "${foo}", "bar"},
		{"expression value", "foo=${bar}", "foo", "${bar}"},
		{"quoted value", "foo='bar'", "foo", "'bar'"},
		{"quoted expression value", "foo=${'bar'}", "foo", "${'bar'}"},
		{
			"ternary key",
			"${foo == bar ? 1 : 2}=bar",
			"${foo == bar ? 1 : 2}",
			"bar",
		},
		{
			"ternary value",
			"foo=${foo == bar ? 1 : 2}",
			"foo",
			"${foo == bar ? 1 : 2}",
		},
		{"path segments", "foo/bar=check/some", "foo/bar", "check/some"},
		{"namespaced key", "foo:bar='.+'", "foo:bar", "'.+'"},
		{"nested braces", "foo=${fn({a: 1})}", "foo", "${fn({a: 1})}"},
		{
			"span with trailing text",
			"foo=${bar}/suffix",
			"foo",
			"${bar}/suffix",
		},
		{"empty value", "foo=", "foo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := SplitToken(tt.token)
			if !ok {
				t.Fatalf("SplitToken(%q) reported no match", tt.token)
			}

			if key != tt.key {
				t.Errorf("key = %q, want %q", key, tt.key)
			}

			if value != tt.value {
				t.Errorf("value = %q, want %q", value, tt.value)
			}
		})
	}
}

func TestSplitToken_NoMatch(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "foo"},
		{"separator only inside span", "${foo == bar}"},
		{"empty key", "=bar"},
		{"unbalanced span", "foo=${bar"},
		{"unbalanced nested span", "foo=${fn({a: 1}"},
		{"multiple separators", "foo=a=b"},
		{"separator after value span", "foo=${a}=b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := SplitToken(tt.token)
			if ok {
				t.Errorf(
					"SplitToken(%q) = (%q, %q), want no match",
					tt.token, key, value,
				)
			}
		})
	}
}

// FuzzSplitToken checks the structural invariant of the grammar: a match
// always splits the token at a single separator, so key + "=" + value
// reassembles the original input.
func FuzzSplitToken(f *testing.F) {
	f.Add("foo=bar")
	f.Add("${foo}=bar")
	f.Add("foo=${foo == bar ? 1 : 2}")
	f.Add("foo:bar='.+'")
	f.Add("foo=${fn({a: 1})}")

	f.Fuzz(func(t *testing.T, token string) {
		key, value, ok := SplitToken(token)
		if !ok {
			return
		}

		if key == "" {
			t.Errorf("SplitToken(%q) matched with empty key", token)
		}

		if got := key + "=" + value; got != token {
			t.Errorf(
				"SplitToken(%q) does not reassemble: key=%q value=%q",
				token, key, value,
			)
		}
	})
}
