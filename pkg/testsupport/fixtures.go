package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/definition"
)

// MustLoadDefinition reads a YAML definition fixture. Testing helpers fail the
// test on error to keep table setup concise.
func MustLoadDefinition(t *testing.T, path string) definition.Definition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath returns a definition without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDefinitionFromPath(path string) (definition.Definition, error) {
	if path == "" {
		return definition.Definition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	return definition.FromYAML(data)
}

// MustLoadModel reads a YAML or JSON model fixture.
func MustLoadModel(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	model, err := definition.LoadModel(data)
	if err != nil {
		t.Fatalf("decode model: %v", err)
	}
	return model
}

// MustReadFixture reads a fixture and returns its raw bytes.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MarshalGolden encodes value the way JSON goldens are stored.
func MarshalGolden(t *testing.T, value any) []byte {
	t.Helper()
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	return append(payload, '\n')
}

// CompareGolden returns a diff string if the values differ. Trailing
// whitespace is ignored so editors adding a final newline do not break
// goldens.
func CompareGolden(want, got string) string {
	return cmp.Diff(strings.TrimRight(want, " \n"), strings.TrimRight(got, " \n"))
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	return MustReadFixture(t, path)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
