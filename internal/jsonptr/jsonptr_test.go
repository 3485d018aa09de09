package jsonptr

import "testing"

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{
			"b": "value",
			"n": float64(42),
		},
		"list": []any{"x", "y", "z"},
		"esc/key": map[string]any{
			"~field": "escaped",
		},
	}

	tests := []struct {
		name    string
		pointer string
		want    string
		wantOK  bool
	}{
		{"nested_field", "/a/b", "value", true},
		{"array_index", "/list/1", "y", true},
		{"missing_field", "/a/missing", "", false},
		{"non_string_value", "/a/n", "", false},
		{"out_of_range_index", "/list/9", "", false},
		{"non_numeric_index", "/list/x", "", false},
		{"root_pointer_on_object", "", "", false},
		{"unknown_top_level", "/missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(doc, tt.pointer)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.pointer, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookupEscapedSegments(t *testing.T) {
	doc := map[string]any{
		"esc/key": map[string]any{
			"~field": "escaped",
		},
	}
	got, ok := Lookup(doc, "/esc~1key/~0field")
	if !ok || got != "escaped" {
		t.Errorf("Lookup with ~0/~1 escapes = (%q, %v), want (\"escaped\", true)", got, ok)
	}
}

func TestLookupRootString(t *testing.T) {
	got, ok := Lookup("hello", "/")
	if !ok || got != "hello" {
		t.Errorf("Lookup(\"hello\", \"/\") = (%q, %v), want (\"hello\", true)", got, ok)
	}
}

func TestTopLevel(t *testing.T) {
	doc := map[string]any{
		"key":   "value",
		"count": float64(3),
	}

	tests := []struct {
		name   string
		field  string
		want   string
		wantOK bool
	}{
		{"present_string", "key", "value", true},
		{"non_string", "count", "", false},
		{"missing", "nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TopLevel(doc, tt.field)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TopLevel(%q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTopLevelNonObject(t *testing.T) {
	if _, ok := TopLevel([]any{"a"}, "key"); ok {
		t.Error("TopLevel on a non-object value should fail")
	}
}
