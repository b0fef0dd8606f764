package form

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/loop"
)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Element is a submit-capable scope (a form) that emits submit and reset
// events on a loop. All methods must be called from the loop goroutine or
// before the loop starts, except Submit and Reset which only post a task.
type Element struct {
	name      string
	loop      *loop.Loop
	logger    *slog.Logger
	listeners map[EventKind][]listenerEntry
	defaults  map[EventKind]DefaultAction
	onDestroy []func()
	nextID    uint64
	destroyed bool
}

// Option configures an Element.
type Option func(*Element)

// WithDefaultAction installs the native behaviour for kind, executed after the
// listeners unless prevented.
func WithDefaultAction(kind EventKind, action DefaultAction) Option {
	return func(e *Element) {
		if action != nil {
			e.defaults[kind] = action
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Element) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewElement constructs an element dispatching on l.
func NewElement(name string, l *loop.Loop, options ...Option) (*Element, error) {
	if l == nil {
		return nil, fmt.Errorf("form: loop is required")
	}
	e := &Element{
		name:      strings.TrimSpace(name),
		loop:      l,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[EventKind][]listenerEntry),
		defaults:  make(map[EventKind]DefaultAction),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Name reports the element name.
func (e *Element) Name() string {
	return e.name
}

// Loop returns the loop the element dispatches on.
func (e *Element) Loop() *loop.Loop {
	return e.loop
}

// Destroyed reports whether Destroy has been called.
func (e *Element) Destroyed() bool {
	return e.destroyed
}

// AddListener appends fn to the listeners for kind. Listeners run in
// registration order. The returned function removes the listener.
func (e *Element) AddListener(kind EventKind, fn Listener) (remove func()) {
	if fn == nil || e.destroyed {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], listenerEntry{id: id, fn: fn})
	return func() { e.removeListener(kind, id) }
}

// ListenerCount reports how many listeners are attached for kind.
func (e *Element) ListenerCount(kind EventKind) int {
	return len(e.listeners[kind])
}

// OnDestroy registers fn to run when the element is torn down.
func (e *Element) OnDestroy(fn func()) {
	if fn == nil {
		return
	}
	if e.destroyed {
		fn()
		return
	}
	e.onDestroy = append(e.onDestroy, fn)
}

// Submit posts a submit dispatch to the loop.
func (e *Element) Submit() error {
	return e.post(EventSubmit)
}

// Reset posts a reset dispatch to the loop.
func (e *Element) Reset() error {
	return e.post(EventReset)
}

// Dispatch runs every listener for kind synchronously and then the default
// action unless prevented. It must run on the loop goroutine; Submit and Reset
// wrap it in a task.
func (e *Element) Dispatch(kind EventKind) (*Event, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	evt := &Event{Kind: kind, Target: e}
	entries := append([]listenerEntry(nil), e.listeners[kind]...)
	for _, entry := range entries {
		entry.fn(evt)
	}
	if action, ok := e.defaults[kind]; ok && !evt.prevented {
		action(evt)
	}
	e.logger.Debug("form event dispatched",
		"form", e.name,
		"event", string(kind),
		"listeners", len(entries),
		"default_prevented", evt.prevented,
	)
	return evt, nil
}

// Destroy tears the element down: destroy callbacks run in reverse
// registration order and further dispatches fail with ErrDestroyed.
func (e *Element) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	callbacks := e.onDestroy
	e.onDestroy = nil
	for i := len(callbacks) - 1; i >= 0; i-- {
		callbacks[i]()
	}
	e.listeners = make(map[EventKind][]listenerEntry)
}

func (e *Element) post(kind EventKind) error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.loop.Post(func() {
		if _, err := e.Dispatch(kind); err != nil {
			e.logger.Debug("form event dropped", "form", e.name, "event", string(kind), "error", err)
		}
	})
	return nil
}

func (e *Element) removeListener(kind EventKind, id uint64) {
	entries := e.listeners[kind]
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}
