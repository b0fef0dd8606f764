package validation

import (
	"io"
	"log/slog"
	"sort"

	"github.com/goliatone/go-lazyform/pkg/form"
)

// Target is a buffered input the tracker validates. *lazy.Field satisfies it.
type Target interface {
	Name() string
	Buffer() any
}

// Tracker records per-field validation errors and reports overall validity.
// It implements form.Oracle so coordinators can gate submits on it.
type Tracker struct {
	rules  map[string]Rules
	errs   map[string][]string
	logger *slog.Logger
}

var _ form.Oracle = (*Tracker)(nil)

// NewTracker constructs an empty tracker. A nil logger discards output.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		rules:  make(map[string]Rules),
		errs:   make(map[string][]string),
		logger: logger,
	}
}

// SetRules installs the rules checked for the named target.
func (t *Tracker) SetRules(name string, rules Rules) {
	t.rules[name] = rules
}

// Check validates every target's buffer, replacing the recorded errors, and
// reports whether all of them passed. Targets without rules always pass.
func (t *Tracker) Check(targets []Target) bool {
	t.errs = make(map[string][]string)
	for _, target := range targets {
		rules, ok := t.rules[target.Name()]
		if !ok {
			continue
		}
		if err := rules.Check(target.Buffer()); err != nil {
			t.errs[target.Name()] = []string{err.Error()}
		}
	}
	if len(t.errs) > 0 {
		t.logger.Debug("validation failed", "fields", t.Invalid())
	}
	return len(t.errs) == 0
}

// Clear drops every recorded error.
func (t *Tracker) Clear() {
	t.errs = make(map[string][]string)
}

// Valid implements form.Oracle.
func (t *Tracker) Valid() bool {
	return len(t.errs) == 0
}

// Errors returns a copy of the recorded errors keyed by target name.
func (t *Tracker) Errors() map[string][]string {
	out := make(map[string][]string, len(t.errs))
	for name, msgs := range t.errs {
		out[name] = append([]string(nil), msgs...)
	}
	return out
}

// ErrorsFor returns the errors recorded for one target.
func (t *Tracker) ErrorsFor(name string) []string {
	return append([]string(nil), t.errs[name]...)
}

// Invalid lists the names of failing targets in sorted order.
func (t *Tracker) Invalid() []string {
	names := make([]string, 0, len(t.errs))
	for name := range t.errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Listen attaches listeners that re-check every target synchronously during
// a submit dispatch and clear the errors on reset. targets is called on each
// submit so fields mounted later are included.
func Listen(element *form.Element, tracker *Tracker, targets func() []Target) (remove func()) {
	removeSubmit := element.AddListener(form.EventSubmit, func(*form.Event) {
		tracker.Check(targets())
	})
	removeReset := element.AddListener(form.EventReset, func(*form.Event) {
		tracker.Clear()
	})
	return func() {
		removeSubmit()
		removeReset()
	}
}
