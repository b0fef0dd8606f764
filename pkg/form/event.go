package form

// EventKind names the events a form element emits.
type EventKind string

const (
	// EventSubmit fires when the form is submitted.
	EventSubmit EventKind = "submit"
	// EventReset fires when the form is reset.
	EventReset EventKind = "reset"
)

// Event is passed to every listener of one dispatch.
type Event struct {
	Kind    EventKind
	Target  *Element
	Payload map[string]any

	prevented bool
}

// PreventDefault suppresses the element's default action for this event.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a listener suppressed the default action.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Listener handles a dispatched event.
type Listener func(*Event)

// DefaultAction runs after all listeners unless one of them prevented it.
type DefaultAction func(*Event)
