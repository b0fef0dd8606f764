package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/hooks"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/store"
	"github.com/goliatone/go-lazyform/pkg/validation"
)

// ErrUnknownField is returned when a field name is not mounted.
var ErrUnknownField = errors.New("session: unknown field")

// Option configures Mount.
type Option func(*config)

type config struct {
	hooks    *hooks.Registry
	formHook lazy.FinalHook
	observer lazy.Observer
	logger   *slog.Logger
}

// WithHooks resolves group hook names against reg.
func WithHooks(reg *hooks.Registry) Option {
	return func(c *config) {
		c.hooks = reg
	}
}

// WithFormHook installs the final hook of the form-level coordinator, which
// owns every field that is not in an explicit group.
func WithFormHook(hook lazy.FinalHook) Option {
	return func(c *config) {
		c.formHook = hook
	}
}

// WithObserver receives the outcome of every coordinator in the session.
func WithObserver(fn lazy.Observer) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Session is a definition mounted on one element: a form-level coordinator,
// one coordinator per explicit group, the fields in definition order and the
// validation listener feeding the shared validity oracle.
type Session struct {
	def      definition.Definition
	model    *store.Store
	element  *form.Element
	tracker  *validation.Tracker
	form     *lazy.Coordinator
	groups   map[string]*lazy.Coordinator
	fields   []*lazy.Field
	specs    map[string]definition.Field
	unlisten func()
	logger   *slog.Logger
	closed   bool
}

// Mount validates def and binds it to model and element.
func Mount(def definition.Definition, model *store.Store, element *form.Element, options ...Option) (*Session, error) {
	if model == nil {
		return nil, lazy.ErrNoStore
	}
	if element == nil {
		return nil, fmt.Errorf("session: form element is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	reentrancy, err := parseReentrancy(def.Reentrancy)
	if err != nil {
		return nil, err
	}

	s := &Session{
		def:     def,
		model:   model,
		element: element,
		tracker: validation.NewTracker(cfg.logger),
		groups:  make(map[string]*lazy.Coordinator, len(def.Groups)),
		specs:   make(map[string]definition.Field, len(def.Fields)),
		logger:  cfg.logger.With("definition", def.Name),
	}
	common := []lazy.Option{
		lazy.WithModel(model),
		lazy.WithReentrancy(reentrancy),
		lazy.WithObserver(cfg.observer),
		lazy.WithLogger(cfg.logger),
	}

	s.form, err = lazy.NewCoordinator(element, s.tracker, append(common, lazy.WithFinalHook(cfg.formHook))...)
	if err != nil {
		return nil, err
	}
	for _, g := range def.Groups {
		opts := append([]lazy.Option{lazy.WithGroupName(g.Name)}, common...)
		if g.Hook != "" {
			hook, err := resolveHook(cfg.hooks, g.Hook)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("session: group %q: %w", g.Name, err)
			}
			opts = append(opts, lazy.WithFinalHook(hook))
		}
		// explicit groups keep their edits on an invalid submit unless the
		// definition opts into rollback
		if g.InvalidSubmit != "rollback" {
			opts = append(opts, lazy.WithInvalidSubmit(lazy.InvalidSubmitRetain))
		}
		coord, err := lazy.NewCoordinator(element, s.tracker, opts...)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.groups[g.Name] = coord
	}

	for _, spec := range def.Fields {
		membership := lazy.Standalone(s.form)
		if spec.Group != "" {
			membership = lazy.Membership{Mode: lazy.ModeGrouped, Form: s.form, Group: s.groups[spec.Group]}
		}
		field, err := lazy.NewField(model, spec.ModelPath(), membership, lazy.WithName(spec.Name))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("session: field %q: %w", spec.Name, err)
		}
		s.fields = append(s.fields, field)
		s.specs[spec.Name] = spec
		s.tracker.SetRules(spec.Name, validation.RulesFor(spec))
	}

	// attached after the coordinators bound; they still observe the result
	// because their decision is deferred past the dispatch
	s.unlisten = validation.Listen(element, s.tracker, s.targets)
	s.logger.Debug("definition mounted", "fields", len(s.fields), "groups", len(s.groups))
	return s, nil
}

// Definition returns the mounted definition.
func (s *Session) Definition() definition.Definition {
	return s.def
}

// Model returns the shared model store.
func (s *Session) Model() *store.Store {
	return s.model
}

// Element returns the bound element.
func (s *Session) Element() *form.Element {
	return s.element
}

// Tracker returns the validity oracle shared by every coordinator.
func (s *Session) Tracker() *validation.Tracker {
	return s.tracker
}

// Fields returns the mounted fields in definition order.
func (s *Session) Fields() []*lazy.Field {
	return append([]*lazy.Field(nil), s.fields...)
}

// Field looks up a mounted field by name.
func (s *Session) Field(name string) (*lazy.Field, bool) {
	for _, f := range s.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// FieldDefinition returns the definition a mounted field was built from.
func (s *Session) FieldDefinition(name string) (definition.Field, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Coordinator returns the coordinator for group; the empty name selects the
// form-level coordinator.
func (s *Session) Coordinator(group string) (*lazy.Coordinator, bool) {
	if group == "" {
		return s.form, s.form != nil
	}
	coord, ok := s.groups[group]
	return coord, ok
}

// Errors returns the validation errors recorded by the last submit.
func (s *Session) Errors() map[string][]string {
	return s.tracker.Errors()
}

// Unmount closes one field, removing it from its group and from validation.
func (s *Session) Unmount(name string) error {
	for i, f := range s.fields {
		if f.Name() != name {
			continue
		}
		f.Close()
		s.fields = append(s.fields[:i:i], s.fields[i+1:]...)
		delete(s.specs, name)
		s.logger.Debug("field unmounted", "field", name)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Close unmounts every field and detaches every listener. It is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, f := range s.fields {
		f.Close()
	}
	s.fields = nil
	if s.unlisten != nil {
		s.unlisten()
		s.unlisten = nil
	}
	for _, coord := range s.groups {
		coord.Close()
	}
	if s.form != nil {
		s.form.Close()
	}
}

func (s *Session) targets() []validation.Target {
	out := make([]validation.Target, len(s.fields))
	for i, f := range s.fields {
		out[i] = f
	}
	return out
}

func resolveHook(reg *hooks.Registry, name string) (lazy.FinalHook, error) {
	if reg == nil {
		return nil, fmt.Errorf("hook %q requested but no hook registry configured", name)
	}
	return reg.Get(name)
}

func parseReentrancy(raw string) (lazy.Reentrancy, error) {
	switch raw {
	case "", "coalesce":
		return lazy.ReentrancyCoalesce, nil
	case "queue":
		return lazy.ReentrancyQueue, nil
	case "reject":
		return lazy.ReentrancyReject, nil
	default:
		return 0, fmt.Errorf("session: unknown reentrancy policy %q", raw)
	}
}
