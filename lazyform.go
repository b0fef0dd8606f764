package lazyform

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/loop"
	"github.com/goliatone/go-lazyform/pkg/renderers/html"
	"github.com/goliatone/go-lazyform/pkg/session"
	"github.com/goliatone/go-lazyform/pkg/store"
)

// Definition aliases definition.Definition for callers that only need the
// root package.
type Definition = definition.Definition

// FinalHook runs after a group committed successfully.
type FinalHook = lazy.FinalHook

// Submission is handed to a FinalHook.
type Submission = lazy.Submission

// Outcome describes one settled submit or reset evaluation.
type Outcome = lazy.Outcome

// Form bundles everything a mounted definition needs: the loop driving it,
// the shared model, the element emitting submit and reset, and the session.
type Form struct {
	Loop    *loop.Loop
	Model   *store.Store
	Element *form.Element
	Session *session.Session
}

// Mount wires a fresh loop, model store and element around def. The logger
// given through session.WithLogger is not propagated; use MountWithLogger
// when the loop and store should log too.
func Mount(def Definition, root map[string]any, options ...session.Option) (*Form, error) {
	return MountWithLogger(def, root, nil, options...)
}

// MountWithLogger is Mount with a logger shared by every layer.
func MountWithLogger(def Definition, root map[string]any, logger *slog.Logger, options ...session.Option) (*Form, error) {
	l := loop.New(loop.WithLogger(logger))
	model := store.New(root, store.WithLogger(logger))
	el, err := form.NewElement(def.Name, l, form.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if logger != nil {
		options = append(options, session.WithLogger(logger))
	}
	s, err := session.Mount(def, model, el, options...)
	if err != nil {
		return nil, err
	}
	return &Form{Loop: l, Model: model, Element: el, Session: s}, nil
}

// MountYAML decodes a YAML definition and model document, then mounts them.
func MountYAML(definitionDoc, modelDoc []byte, options ...session.Option) (*Form, error) {
	def, err := definition.FromYAML(definitionDoc)
	if err != nil {
		return nil, err
	}
	root, err := definition.LoadModel(modelDoc)
	if err != nil {
		return nil, err
	}
	return Mount(def, root, options...)
}

// Submit dispatches a submit and drains the loop so the coordinators settle
// before it returns.
func (f *Form) Submit() error {
	if err := f.Element.Submit(); err != nil {
		return err
	}
	f.Loop.RunUntilIdle()
	return nil
}

// Reset dispatches a reset and drains the loop.
func (f *Form) Reset() error {
	if err := f.Element.Reset(); err != nil {
		return err
	}
	f.Loop.RunUntilIdle()
	return nil
}

// Set stages value in the named field's buffer. The model is untouched until
// a valid submit commits.
func (f *Form) Set(name string, value any) error {
	field, ok := f.Session.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", session.ErrUnknownField, name)
	}
	field.SetBuffer(value)
	return nil
}

// Close unmounts the session and destroys the element, cancelling anything
// still pending.
func (f *Form) Close() {
	f.Session.Close()
	f.Element.Destroy()
}

// RenderHTML renders the form's current buffers with the html renderer.
func (f *Form) RenderHTML(ctx context.Context, options ...html.Option) ([]byte, error) {
	r, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, f.Session)
}

// EmbeddedTemplates exposes the built-in html renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the default stylesheet for the html renderer.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
