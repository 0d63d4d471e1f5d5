package binding

import (
	"errors"
	"reflect"
	"testing"
)

func TestWriteToMap_Embed(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, true,
		"p1", "'some string'",
		"p2", "/some/path",
		"p3", "['one','two']",
		NodeMixinTypes, "[ rep:versionable, some:OtherMixin]",
	)
	if err != nil {
		t.Fatalf("WriteToMap failed: %v", err)
	}

	if m["p1"] != "${'some string'}" {
		t.Errorf("p1 = %v, want ${'some string'}", m["p1"])
	}

	if m["p2"] != "/some/path" {
		t.Errorf("p2 = %v, want /some/path", m["p2"])
	}

	if m["p3"] != "${['one','two']}" {
		t.Errorf("p3 = %v, want ${['one','two']}", m["p3"])
	}

	mixins, ok := m[NodeMixinTypes].([]string)
	if !ok {
		t.Fatalf("%s = %T, want []string", NodeMixinTypes, m[NodeMixinTypes])
	}

	want := []string{"rep:versionable", "some:OtherMixin"}
	if !reflect.DeepEqual(mixins, want) {
		t.Errorf("%s = %v, want %v", NodeMixinTypes, mixins, want)
	}
}

func TestWriteToMap_NoEmbed(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, false, "k", "[a,b]", "q", "'quoted'")
	if err != nil {
		t.Fatalf("WriteToMap failed: %v", err)
	}

	// The embed flag disables classification entirely.
	if m["k"] != "[a,b]" {
		t.Errorf("k = %v, want [a,b] verbatim", m["k"])
	}

	if m["q"] != "'quoted'" {
		t.Errorf("q = %v, want 'quoted' verbatim", m["q"])
	}
}

func TestWriteToMap_LastWriteWins(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, true, "k", "first", "k", "second")
	if err != nil {
		t.Fatalf("WriteToMap failed: %v", err)
	}

	if m["k"] != "second" {
		t.Errorf("k = %v, want second", m["k"])
	}
}

func TestWriteToMap_NonStringValue(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, true, "count", 2, "flag", true)
	if err != nil {
		t.Fatalf("WriteToMap failed: %v", err)
	}

	if m["count"] != 2 {
		t.Errorf("count = %v, want 2", m["count"])
	}

	if m["flag"] != true {
		t.Errorf("flag = %v, want true", m["flag"])
	}
}

func TestWriteToMap_OddPairs(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, true, "p1", "v1", "dangling")
	if !errors.Is(err, ErrOddPairs) {
		t.Fatalf("err = %v, want ErrOddPairs", err)
	}

	// The whole call is rejected before any pair is written.
	if len(m) != 0 {
		t.Errorf("map mutated on rejected call: %v", m)
	}
}

func TestWriteToMap_KeyType(t *testing.T) {
	m := Map{}

	err := WriteToMap(m, true, "p1", "v1", 42, "v2")
	if !errors.Is(err, ErrKeyType) {
		t.Fatalf("err = %v, want ErrKeyType", err)
	}

	// Pairs before the offending key remain written.
	if m["p1"] != "v1" {
		t.Errorf("p1 = %v, want v1", m["p1"])
	}
}

func TestWriteToMap_NilMap(t *testing.T) {
	err := WriteToMap(nil, true, "k", "v")
	if !errors.Is(err, ErrNilMap) {
		t.Fatalf("err = %v, want ErrNilMap", err)
	}
}

func TestMakeWriter_WithArrayKeys(t *testing.T) {
	w := MakeWriter(WithArrayKeys("custom:tags"))

	if !w.IsArrayKey(NodeMixinTypes) {
		t.Error("default array key missing from configured writer")
	}

	if !w.IsArrayKey("custom:tags") {
		t.Error("configured array key not reserved")
	}

	m := Map{}

	err := w.WriteToMap(m, true, "custom:tags", "[a, b]")
	if err != nil {
		t.Fatalf("WriteToMap failed: %v", err)
	}

	want := []string{"a", "b"}
	if !reflect.DeepEqual(m["custom:tags"], want) {
		t.Errorf("custom:tags = %v, want %v", m["custom:tags"], want)
	}
}

func TestWriteToMap_MixinValueShapes(t *testing.T) {
	w := MakeWriter()

	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"bracketed string", "[a, b]", []string{"a", "b"}},
		{"malformed string", "not a list", []string{"not a list"}},
		{"empty string", "", []string{}},
		{"slice passthrough", []string{"x"}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Map{}

			err := w.WriteToMap(m, true, NodeMixinTypes, tt.value)
			if err != nil {
				t.Fatalf("WriteToMap failed: %v", err)
			}

			if !reflect.DeepEqual(m[NodeMixinTypes], tt.want) {
				t.Errorf(
					"%s = %v, want %v",
					NodeMixinTypes, m[NodeMixinTypes], tt.want,
				)
			}
		})
	}
}
