package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/loop"
)

func newElement(t *testing.T, opts ...form.Option) (*form.Element, *loop.Loop) {
	t.Helper()
	l := loop.New()
	el, err := form.NewElement("profile", l, opts...)
	if err != nil {
		t.Fatalf("new element: %v", err)
	}
	return el, l
}

func TestDispatch_ListenerOrderAndDefaultAction(t *testing.T) {
	var order []string
	el, l := newElement(t, form.WithDefaultAction(form.EventReset, func(*form.Event) {
		order = append(order, "native-reset")
	}))

	el.AddListener(form.EventReset, func(*form.Event) { order = append(order, "first") })
	el.AddListener(form.EventReset, func(*form.Event) { order = append(order, "second") })

	if err := el.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("dispatch must wait for the loop, got %v", order)
	}
	l.RunUntilIdle()

	want := []string{"first", "second", "native-reset"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_PreventDefault(t *testing.T) {
	native := false
	el, l := newElement(t, form.WithDefaultAction(form.EventReset, func(*form.Event) { native = true }))
	el.AddListener(form.EventReset, func(evt *form.Event) { evt.PreventDefault() })

	_ = el.Reset()
	l.RunUntilIdle()
	if native {
		t.Fatalf("default action ran despite PreventDefault")
	}
}

func TestAddListener_Remove(t *testing.T) {
	el, l := newElement(t)
	calls := 0
	remove := el.AddListener(form.EventSubmit, func(*form.Event) { calls++ })
	remove()

	_ = el.Submit()
	l.RunUntilIdle()
	if calls != 0 || el.ListenerCount(form.EventSubmit) != 0 {
		t.Fatalf("removed listener still active: calls=%d", calls)
	}
}

func TestDestroy(t *testing.T) {
	el, l := newElement(t)
	var torn []string
	el.OnDestroy(func() { torn = append(torn, "a") })
	el.OnDestroy(func() { torn = append(torn, "b") })

	el.Destroy()
	el.Destroy()

	if diff := cmp.Diff([]string{"b", "a"}, torn); diff != "" {
		t.Fatalf("destroy order mismatch (-want +got):\n%s", diff)
	}
	if err := el.Submit(); !errors.Is(err, form.ErrDestroyed) {
		t.Fatalf("expected ErrDestroyed, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("destroyed element must not enqueue dispatches")
	}
}

func TestOracle(t *testing.T) {
	if !form.Always(true).Valid() || form.Always(false).Valid() {
		t.Fatalf("Always returned wrong answer")
	}
	var nilFn form.OracleFunc
	if !nilFn.Valid() {
		t.Fatalf("nil OracleFunc should report valid")
	}
}
