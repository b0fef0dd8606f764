package lazy_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/loop"
	"github.com/goliatone/go-lazyform/pkg/modelref"
	"github.com/goliatone/go-lazyform/pkg/store"
)

type recordingMember struct {
	name      string
	log       *[]string
	commitErr error
}

func (m *recordingMember) Name() string { return m.name }

func (m *recordingMember) Commit() error {
	*m.log = append(*m.log, "commit:"+m.name)
	return m.commitErr
}

func (m *recordingMember) Rollback() error {
	*m.log = append(*m.log, "rollback:"+m.name)
	return nil
}

func TestGroup_MembershipLifecycle(t *testing.T) {
	var log []string
	a := &recordingMember{name: "a", log: &log}
	b := &recordingMember{name: "b", log: &log}
	c := &recordingMember{name: "c", log: &log}

	g := lazy.NewGroup("profile", nil)
	for _, m := range []lazy.Member{a, b, c} {
		if !g.Register(m) {
			t.Fatalf("register %s failed", m.(*recordingMember).name)
		}
	}
	if g.Register(a) {
		t.Fatalf("duplicate register must be a no-op")
	}
	if !g.Unregister(b) || g.Unregister(b) {
		t.Fatalf("unregister should succeed once")
	}

	if err := g.CommitAll(); err != nil {
		t.Fatalf("commit all: %v", err)
	}
	if err := g.RollbackAll(); err != nil {
		t.Fatalf("rollback all: %v", err)
	}

	want := []string{"commit:a", "commit:c", "rollback:a", "rollback:c"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Fatalf("sweep mismatch (-want +got):\n%s", diff)
	}
	if g.Len() != 2 || g.Contains(b) {
		t.Fatalf("unexpected membership, len=%d", g.Len())
	}
}

func TestGroup_CommitAllContinuesPastFailures(t *testing.T) {
	var log []string
	errA := errors.New("rejected a")
	errC := errors.New("rejected c")
	g := lazy.NewGroup("profile", nil)
	g.Register(&recordingMember{name: "a", log: &log, commitErr: errA})
	g.Register(&recordingMember{name: "b", log: &log})
	g.Register(&recordingMember{name: "c", log: &log, commitErr: errC})

	err := g.CommitAll()
	if !errors.Is(err, errA) || !errors.Is(err, errC) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"commit:a", "commit:b", "commit:c"}, log); diff != "" {
		t.Fatalf("sweep stopped early (-want +got):\n%s", diff)
	}
}

func TestGroup_AliasedPathsLastWriterWins(t *testing.T) {
	h := newHarness(t, map[string]any{"name": "old"})
	first := h.field(t, "name")
	second := h.field(t, "name")
	first.SetBuffer("first")
	second.SetBuffer("second")

	if err := h.el.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	h.loop.RunUntilIdle()
	if h.value("name") != "second" {
		t.Fatalf("expected registration order tie-break, got %v", h.value("name"))
	}
}

func TestGroup_AliasedPathsWithoutModelOption(t *testing.T) {
	l := loop.New()
	model := store.New(map[string]any{"name": "old"})
	el, _ := form.NewElement("profile", l)
	coord, err := lazy.NewCoordinator(el, nil)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	first, _ := lazy.NewField(model, "name", lazy.Standalone(coord))
	second, _ := lazy.NewField(model, "name", lazy.Standalone(coord))
	first.SetBuffer("A")
	second.SetBuffer("B")

	_ = el.Submit()
	l.RunUntilIdle()

	if got, _ := model.Get(modelref.MustCompile("name")); got != "B" {
		t.Fatalf("expected last registered writer to win, got %v", got)
	}
	if first.Buffer() != "B" || second.Buffer() != "B" {
		t.Fatalf("buffers not resynced after commit: %v %v", first.Buffer(), second.Buffer())
	}
}

func TestGroup_CommitAllDirectlyKeepsLaterEdits(t *testing.T) {
	model := store.New(map[string]any{"name": "old"})
	el, _ := form.NewElement("profile", loop.New())
	coord, _ := lazy.NewCoordinator(el, nil)
	first, _ := lazy.NewField(model, "name", lazy.Standalone(coord))
	second, _ := lazy.NewField(model, "name", lazy.Standalone(coord))
	first.SetBuffer("A")
	second.SetBuffer("B")

	if err := coord.Group().CommitAll(); err != nil {
		t.Fatalf("commit all: %v", err)
	}
	if got, _ := model.Get(modelref.MustCompile("name")); got != "B" {
		t.Fatalf("expected B, got %v", got)
	}
}
