package modelref_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/modelref"
)

func TestCompile_Normalises(t *testing.T) {
	cases := map[string][]string{
		"name":            {"name"},
		"profile.email":   {"profile", "email"},
		"tags.0":          {"tags", "0"},
		"items[2].label":  {"items", "2", "label"},
		"grid[1][3]":      {"grid", "1", "3"},
		"  padded.path  ": {"padded", "path"},
	}
	for expr, want := range cases {
		ref, err := modelref.Compile(expr)
		if err != nil {
			t.Fatalf("compile %q: %v", expr, err)
		}
		if diff := cmp.Diff(want, ref.Segments()); diff != "" {
			t.Fatalf("segments for %q mismatch (-want +got):\n%s", expr, diff)
		}
	}
}

func TestCompile_RejectsBadExpressions(t *testing.T) {
	if _, err := modelref.Compile("   "); !errors.Is(err, modelref.ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	for _, expr := range []string{".a", "a..b", "a.", "a[", "a]", "a[x]", "[0]", "a b", "a[0]b"} {
		if _, err := modelref.Compile(expr); !errors.Is(err, modelref.ErrInvalidExpression) {
			t.Fatalf("expected ErrInvalidExpression for %q, got %v", expr, err)
		}
	}
}

func TestCompile_RejectsOversizedIndexes(t *testing.T) {
	for _, expr := range []string{"items.1000000000000", "items[70000]", "grid.0.99999999999999999999"} {
		if _, err := modelref.Compile(expr); !errors.Is(err, modelref.ErrInvalidExpression) {
			t.Fatalf("expected ErrInvalidExpression for %q, got %v", expr, err)
		}
	}
	if _, err := modelref.Compile("items.65536"); err != nil {
		t.Fatalf("index at the bound must compile: %v", err)
	}
}

func TestRef_GetSet(t *testing.T) {
	root := map[string]any{
		"name": "old",
		"tags": []any{"a"},
	}

	if err := modelref.MustCompile("profile.email").Set(root, "x@example.com"); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	if err := modelref.MustCompile("tags.2").Set(root, "c"); err != nil {
		t.Fatalf("set index: %v", err)
	}
	if err := modelref.MustCompile("items[1].label").Set(root, "second"); err != nil {
		t.Fatalf("set bracket path: %v", err)
	}

	want := map[string]any{
		"name":    "old",
		"tags":    []any{"a", nil, "c"},
		"profile": map[string]any{"email": "x@example.com"},
		"items":   []any{nil, map[string]any{"label": "second"}},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}

	got, ok := modelref.MustCompile("items.1.label").Get(root)
	if !ok || got != "second" {
		t.Fatalf("get items.1.label = %v, %v", got, ok)
	}
	if _, ok := modelref.MustCompile("missing.deep").Get(root); ok {
		t.Fatalf("expected missing path to report !ok")
	}
}

func TestRef_SetThroughScalar(t *testing.T) {
	root := map[string]any{"name": "old"}
	err := modelref.MustCompile("name.first").Set(root, "x")
	if !errors.Is(err, modelref.ErrNotAssignable) {
		t.Fatalf("expected ErrNotAssignable, got %v", err)
	}
}

func TestClone_Isolates(t *testing.T) {
	src := map[string]any{"tags": []any{"a"}, "meta": map[string]any{"k": "v"}}
	clone := modelref.CloneMap(src)
	clone["tags"].([]any)[0] = "changed"
	clone["meta"].(map[string]any)["k"] = "changed"

	if src["tags"].([]any)[0] != "a" || src["meta"].(map[string]any)["k"] != "v" {
		t.Fatalf("clone aliased source: %#v", src)
	}
}
