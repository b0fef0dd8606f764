package definition_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/testsupport"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	return testsupport.MustReadFixture(t, filepath.Join("testdata", name))
}

func TestFromYAML(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, filepath.Join("testdata", "profile.yaml"))
	if def.Name != "profile" || len(def.Fields) != 4 {
		t.Fatalf("unexpected definition %+v", def)
	}
	group, ok := def.Group("contact")
	if !ok || group.Hook != "print" {
		t.Fatalf("contact group not decoded: %+v", group)
	}
	email := def.Fields[2]
	if email.ModelPath() != "profile.contact.email" || email.Group != "contact" {
		t.Fatalf("unexpected email field %+v", email)
	}
	if def.Fields[1].DisplayLabel() != "age" {
		t.Fatalf("label fallback: %q", def.Fields[1].DisplayLabel())
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	def := definition.Definition{
		Reentrancy: "sometimes",
		Fields: []definition.Field{
			{Name: "a", Path: "a..b"},
			{Name: "a", Group: "missing"},
			{Name: "c", Type: "colour"},
			{Name: "d", Validations: []definition.ValidationRule{{Kind: "min", Params: map[string]string{"value": "x"}}}},
		},
	}
	err := def.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, fragment := range []string{
		"name is required",
		"unknown reentrancy",
		"invalid expression",
		"duplicate field",
		"unknown group",
		"unsupported type",
		"min rule",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("missing %q in %v", fragment, err)
		}
	}
}

func TestFromOpenAPI(t *testing.T) {
	def, err := definition.FromOpenAPI(context.Background(), readFixture(t, "profile.openapi.yaml"), "updateProfile")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	want := definition.Definition{
		Name:  "updateProfile",
		Title: "Update profile",
		Groups: []definition.Group{
			{Name: "updateProfile", Hook: "print"},
			{Name: "contact"},
		},
		Fields: []definition.Field{
			{
				Name: "age", Path: "age", Type: definition.FieldTypeInteger, Group: "updateProfile",
				Validations: []definition.ValidationRule{
					{Kind: "min", Params: map[string]string{"value": "0"}},
					{Kind: "max", Params: map[string]string{"value": "150"}},
				},
			},
			{
				Name: "contact.email", Path: "contact.email", Type: definition.FieldTypeString, Format: "email", Group: "contact",
				Validations: []definition.ValidationRule{
					{Kind: "pattern", Params: map[string]string{"pattern": "^[^@]+@[^@]+$"}},
				},
			},
			{
				Name: "name", Path: "name", Type: definition.FieldTypeString, Label: "Name", Required: true, Group: "updateProfile",
				Validations: []definition.ValidationRule{
					{Kind: "minLength", Params: map[string]string{"value": "2"}},
					{Kind: "maxLength", Params: map[string]string{"value": "64"}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_Golden(t *testing.T) {
	def, err := definition.FromOpenAPI(testsupport.Context(), readFixture(t, "profile.openapi.yaml"), "updateProfile")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	goldenPath := filepath.Join("testdata", "update_profile.golden.json")
	got := testsupport.MarshalGolden(t, def)
	if testsupport.WriteMaybeGolden(t, goldenPath, got) {
		return
	}
	want := testsupport.MustReadGolden(t, goldenPath)
	if diff := testsupport.CompareGolden(string(want), string(got)); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_UnknownOperation(t *testing.T) {
	_, err := definition.FromOpenAPI(context.Background(), readFixture(t, "profile.openapi.yaml"), "deleteProfile")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadModel(t *testing.T) {
	model, err := definition.LoadModel([]byte("profile:\n  name: Ada\n  tags: [a, b]\n"))
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	want := map[string]any{"profile": map[string]any{"name": "Ada", "tags": []any{"a", "b"}}}
	if diff := cmp.Diff(want, model); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}

	empty, err := definition.LoadModel(nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty document should yield empty model, got %v %v", empty, err)
	}
}
