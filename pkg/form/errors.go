package form

import "errors"

// ErrDestroyed is returned when an event targets a torn-down element.
var ErrDestroyed = errors.New("form: element destroyed")
