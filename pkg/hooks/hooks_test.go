package hooks_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/hooks"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/store"
)

func TestRegistry(t *testing.T) {
	reg := hooks.NewRegistry()
	noop := func(lazy.Submission) error { return nil }

	reg.MustRegister("save", noop)
	if err := reg.Register("save", noop); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(" ", noop); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatalf("expected nil hook error")
	}
	reg.MustRegister("audit", noop)

	if diff := cmp.Diff([]string{"audit", "save"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("save") || reg.Has("missing") {
		t.Fatalf("Has reported wrong membership")
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	hook := hooks.Print(&buf, hooks.FormatYAML)
	sub := lazy.Submission{Form: "profile", Model: store.New(map[string]any{"name": "Ada"})}
	if err := hook(sub); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != "name: Ada\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := hook(lazy.Submission{Form: "profile"}); err == nil {
		t.Fatalf("expected error without model")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	sub := lazy.Submission{Form: "profile", Model: store.New(map[string]any{"name": "Ada"})}
	if err := hooks.Write(path)(sub); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "{\n  \"name\": \"Ada\"\n}\n" {
		t.Fatalf("unexpected file content %q", raw)
	}
}
