package lazy

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/modelref"
	"github.com/goliatone/go-lazyform/pkg/store"
)

// Cell is the two-way binding target renderers attach inputs to. A field's
// cell always points at its buffer, never at the shared model.
type Cell interface {
	Get() any
	Set(value any)
}

// Field stages edits to one model path in a private buffer. The buffer starts
// as a copy of the model value, follows out-of-band model changes, and only
// reaches the model through Commit.
type Field struct {
	name    string
	ref     *modelref.Ref
	store   *store.Store
	scope   *Coordinator
	mode    Mode
	buffer  any
	unwatch func()
	closed  bool
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithName labels the field; the model path is used when omitted.
func WithName(name string) FieldOption {
	return func(f *Field) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			f.name = trimmed
		}
	}
}

// NewField compiles expr, seeds the buffer from the model, watches the model
// for out-of-band changes, and registers the field with the coordinator
// selected by membership. An empty or malformed expression fails here.
func NewField(s *store.Store, expr string, membership Membership, options ...FieldOption) (*Field, error) {
	if s == nil {
		return nil, ErrNoStore
	}
	ref, err := modelref.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("lazy: field %q: %w", expr, err)
	}
	scope, err := membership.resolve()
	if err != nil {
		return nil, fmt.Errorf("lazy: field %q: %w", expr, err)
	}

	f := &Field{
		name:  ref.String(),
		ref:   ref,
		store: s,
		scope: scope,
		mode:  membership.Mode,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.resync()
	f.unwatch = s.Watch(ref, func(_, _ any) { f.resync() })

	if err := scope.Register(f); err != nil {
		f.unwatch()
		return nil, fmt.Errorf("lazy: field %q: %w", expr, err)
	}
	return f, nil
}

// Name reports the field label.
func (f *Field) Name() string {
	return f.name
}

// Path reports the normalised model path.
func (f *Field) Path() string {
	return f.ref.String()
}

// Mode reports the membership mode the field was constructed with.
func (f *Field) Mode() Mode {
	return f.mode
}

// Coordinator returns the coordinator the field registered with.
func (f *Field) Coordinator() *Coordinator {
	return f.scope
}

// Buffer returns the staged value.
func (f *Field) Buffer() any {
	return f.buffer
}

// SetBuffer stages value without touching the model.
func (f *Field) SetBuffer(value any) {
	f.buffer = value
}

// Cell exposes the buffer as a binding target.
func (f *Field) Cell() Cell {
	return fieldCell{f: f}
}

// Store returns the model store the field commits into.
func (f *Field) Store() *store.Store {
	return f.store
}

// ModelValue reads the field's current model value.
func (f *Field) ModelValue() (any, bool) {
	return f.store.Get(f.ref)
}

// Pending reports whether the buffer differs from the model.
func (f *Field) Pending() bool {
	current, _ := f.store.Get(f.ref)
	return !reflect.DeepEqual(current, f.buffer)
}

// Commit writes the buffer into the model. Committing an unchanged buffer
// leaves the model as it was.
func (f *Field) Commit() error {
	if f.closed {
		return fmt.Errorf("%w: %s", ErrFieldClosed, f.name)
	}
	if err := f.store.Set(f.ref, modelref.Clone(f.buffer)); err != nil {
		return fmt.Errorf("lazy: commit %s: %w", f.name, err)
	}
	return nil
}

// Rollback discards the staged edit by re-reading the model.
func (f *Field) Rollback() error {
	if f.closed {
		return fmt.Errorf("%w: %s", ErrFieldClosed, f.name)
	}
	f.resync()
	return nil
}

// Closed reports whether the field has been unmounted.
func (f *Field) Closed() bool {
	return f.closed
}

// Close unmounts the field: it stops watching the model and leaves its
// coordinator's group. Calling Close more than once is a no-op.
func (f *Field) Close() {
	if f.closed {
		return
	}
	f.closed = true
	if f.unwatch != nil {
		f.unwatch()
	}
	f.scope.Unregister(f)
}

func (f *Field) resync() {
	current, _ := f.store.Get(f.ref)
	f.buffer = modelref.Clone(current)
}

type fieldCell struct {
	f *Field
}

func (c fieldCell) Get() any      { return c.f.Buffer() }
func (c fieldCell) Set(value any) { c.f.SetBuffer(value) }
