package tagging

import (
	"reflect"
	"testing"
)

func TestParseTagArray(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []any
	}{
		{"plain array", `["a","b"]`, []any{"a", "b"}},
		{"fenced json block", "```json\n[\"a\",\"b\"]\n```", []any{"a", "b"}},
		{"fenced without annotation", "```\n[\"a\"]\n```", []any{"a"}},
		{"wrapped in prose", `The tags are: ["a","b"], thanks!`, []any{"a", "b"}},
		{"brackets inside quoted value", `sure: ["a[1]","b"] done`, []any{"a[1]", "b"}},
		{"escaped quote inside value", `["a\"]x","b"]`, []any{`a"]x`, "b"}},
		{"no array at all", "no array here", []any{}},
		{"empty input", "", []any{}},
		{"whitespace only", "   \n ", []any{}},
		{"truncated array", `["a","b"`, []any{}},
		{"top level object", `{"tags":["a"]}`, []any{"a"}},
		{"empty array", "[]", []any{}},
		{"non-string elements pass through", `[1, "a", null]`, []any{float64(1), "a", nil}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTagArray(tc.in)
			if got == nil {
				t.Fatalf("ParseTagArray must never return nil")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTagArray(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}
