package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is returned when the session has nothing to prompt for.
	ErrNoFields = errors.New("tui: session has no mounted fields")
)
