package lazy

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/loop"
	"github.com/goliatone/go-lazyform/pkg/store"
)

// State is the coordinator's position in the submit/reset cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingValidity
	StateCommitting
	StateRollingBack
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingValidity:
		return "awaiting-validity"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling-back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reentrancy decides what happens to a submit or reset that arrives while an
// earlier evaluation is still pending.
type Reentrancy int

const (
	// ReentrancyCoalesce folds the new event into the pending evaluation; the
	// most recent event kind wins and only one decision is made.
	ReentrancyCoalesce Reentrancy = iota
	// ReentrancyQueue evaluates every event in arrival order.
	ReentrancyQueue
	// ReentrancyReject drops the new event and reports ErrBusy.
	ReentrancyReject
)

// InvalidSubmit decides what an invalid submit does to the buffers.
type InvalidSubmit int

const (
	// InvalidSubmitRollback resyncs buffers from the model.
	InvalidSubmitRollback InvalidSubmit = iota
	// InvalidSubmitRetain keeps the pending edits so the user can correct them.
	InvalidSubmitRetain
)

// Submission is handed to the final hook after a successful commit. Model is
// nil unless the coordinator was built WithModel.
type Submission struct {
	Form    string
	Group   string
	Members int
	Model   *store.Store
}

// FinalHook runs once after every member of a group committed successfully.
type FinalHook func(Submission) error

// Outcome describes one settled evaluation.
type Outcome struct {
	Event      form.EventKind
	Form       string
	Group      string
	Valid      bool
	Committed  bool
	RolledBack bool
	HookCalled bool
	Rejected   bool
	Err        error
}

// Observer receives every settled or rejected evaluation.
type Observer func(Outcome)

type request struct {
	kind   form.EventKind
	handle *loop.Pending
}

// Coordinator binds a Group to one element's submit and reset events and
// decides, after the dispatch has settled, whether to commit or roll back the
// whole group. Listeners are attached lazily on the first registration.
// Like the element it binds to, a Coordinator is driven from the loop
// goroutine and is not safe for concurrent use.
type Coordinator struct {
	element    *form.Element
	oracle     form.Oracle
	group      *Group
	model      *store.Store
	name       string
	hook       FinalHook
	reentrancy Reentrancy
	invalid    InvalidSubmit
	observer   Observer
	logger     *slog.Logger

	state   State
	bound   bool
	closed  bool
	unbind  []func()
	pending []*request
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithGroupName names the coordinator's group. Unnamed groups belong to the
// form itself.
func WithGroupName(name string) Option {
	return func(c *Coordinator) {
		c.name = strings.TrimSpace(name)
	}
}

// WithModel exposes the model to the final hook.
func WithModel(model *store.Store) Option {
	return func(c *Coordinator) {
		c.model = model
	}
}

// WithFinalHook installs the callback run after a successful commit.
func WithFinalHook(hook FinalHook) Option {
	return func(c *Coordinator) {
		c.hook = hook
	}
}

// WithReentrancy selects the overlapping-event policy.
func WithReentrancy(policy Reentrancy) Option {
	return func(c *Coordinator) {
		c.reentrancy = policy
	}
}

// WithInvalidSubmit selects what an invalid submit does to the buffers.
func WithInvalidSubmit(policy InvalidSubmit) Option {
	return func(c *Coordinator) {
		c.invalid = policy
	}
}

// WithObserver receives outcomes as evaluations settle.
func WithObserver(fn Observer) Option {
	return func(c *Coordinator) {
		c.observer = fn
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator constructs a coordinator for element. A nil oracle treats
// every submit as valid.
func NewCoordinator(element *form.Element, oracle form.Oracle, options ...Option) (*Coordinator, error) {
	if element == nil {
		return nil, fmt.Errorf("lazy: form element is required")
	}
	if oracle == nil {
		oracle = form.Always(true)
	}
	c := &Coordinator{
		element: element,
		oracle:  oracle,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.logger = c.logger.With("form", element.Name())
	if c.name != "" {
		c.logger = c.logger.With("group", c.name)
	}
	c.group = NewGroup(c.groupLabel(), c.logger)
	return c, nil
}

// Element returns the bound element.
func (c *Coordinator) Element() *form.Element {
	return c.element
}

// Group returns the member registry.
func (c *Coordinator) Group() *Group {
	return c.group
}

// Name reports the group name; empty for the form-level coordinator.
func (c *Coordinator) Name() string {
	return c.name
}

// State reports the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Bound reports whether the submit and reset listeners are attached.
func (c *Coordinator) Bound() bool {
	return c.bound
}

// Pending reports how many evaluations are waiting to run.
func (c *Coordinator) Pending() int {
	return len(c.pending)
}

// Register adds m to the group, attaching the event listeners the first time.
func (c *Coordinator) Register(m Member) error {
	if c.closed {
		return ErrCoordinatorClosed
	}
	c.bind()
	if c.closed {
		// binding to a destroyed element closes the coordinator at once
		return ErrCoordinatorClosed
	}
	c.group.Register(m)
	return nil
}

// Unregister removes m from the group.
func (c *Coordinator) Unregister(m Member) {
	c.group.Unregister(m)
}

// Close cancels pending evaluations and detaches the listeners. It runs
// automatically when the element is destroyed.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, req := range c.pending {
		req.handle.Cancel()
	}
	if len(c.pending) > 0 {
		c.logger.Debug("pending evaluations cancelled", "count", len(c.pending))
	}
	c.pending = nil
	for _, remove := range c.unbind {
		remove()
	}
	c.unbind = nil
	c.state = StateIdle
}

func (c *Coordinator) bind() {
	if c.bound {
		return
	}
	c.bound = true
	c.unbind = append(c.unbind,
		c.element.AddListener(form.EventSubmit, c.handle),
		c.element.AddListener(form.EventReset, c.handle),
	)
	c.element.OnDestroy(c.Close)
	c.logger.Debug("coordinator bound")
}

func (c *Coordinator) handle(evt *form.Event) {
	if c.closed {
		return
	}
	if evt.Kind == form.EventReset {
		// buffers resync from the model; native clearing would fight that
		evt.PreventDefault()
	}
	c.schedule(evt.Kind)
}

func (c *Coordinator) schedule(kind form.EventKind) {
	if len(c.pending) > 0 {
		switch c.reentrancy {
		case ReentrancyReject:
			c.logger.Warn("event rejected while evaluation pending", "event", string(kind))
			c.notify(Outcome{Event: kind, Rejected: true, Err: ErrBusy})
			return
		case ReentrancyCoalesce:
			last := c.pending[len(c.pending)-1]
			c.logger.Debug("event coalesced into pending evaluation", "event", string(kind), "replaces", string(last.kind))
			last.kind = kind
			return
		}
	}

	req := &request{kind: kind}
	req.handle = c.element.Loop().Defer(func() { c.evaluate(req) })
	c.pending = append(c.pending, req)
	c.state = StateAwaitingValidity
}

func (c *Coordinator) evaluate(req *request) {
	c.dequeue(req)
	if c.closed {
		return
	}

	// restores the state when a member panics mid-sweep
	defer c.settle()

	outcome := Outcome{Event: req.kind}
	switch req.kind {
	case form.EventSubmit:
		outcome.Valid = c.oracle.Valid()
		if outcome.Valid {
			c.state = StateCommitting
			outcome.Committed = true
			if err := c.group.CommitAll(); err != nil {
				outcome.Err = err
			} else if c.hook != nil {
				outcome.HookCalled = true
				sub := Submission{Form: c.element.Name(), Group: c.name, Members: c.group.Len(), Model: c.model}
				if err := c.hook(sub); err != nil {
					c.logger.Error("final hook failed", "error", err)
					outcome.Err = fmt.Errorf("lazy: final hook: %w", err)
				}
			}
		} else if c.invalid == InvalidSubmitRollback {
			c.state = StateRollingBack
			outcome.RolledBack = true
			outcome.Err = c.group.RollbackAll()
		}
	case form.EventReset:
		c.state = StateRollingBack
		outcome.RolledBack = true
		outcome.Err = c.group.RollbackAll()
	}

	c.settle()
	c.logger.Debug("evaluation settled",
		"event", string(outcome.Event),
		"valid", outcome.Valid,
		"committed", outcome.Committed,
		"rolled_back", outcome.RolledBack,
		"hook", outcome.HookCalled,
	)
	c.notify(outcome)
}

func (c *Coordinator) settle() {
	if len(c.pending) > 0 && !c.closed {
		c.state = StateAwaitingValidity
		return
	}
	c.state = StateIdle
}

func (c *Coordinator) dequeue(req *request) {
	for i, pending := range c.pending {
		if pending == req {
			c.pending = append(c.pending[:i:i], c.pending[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) notify(outcome Outcome) {
	outcome.Form = c.element.Name()
	outcome.Group = c.name
	if c.observer != nil {
		c.observer(outcome)
	}
}

func (c *Coordinator) groupLabel() string {
	if c.name != "" {
		return c.name
	}
	if name := c.element.Name(); name != "" {
		return name
	}
	return "form"
}
