package tui

import (
	"io"
	"log/slog"
)

// Theme holds the text printed around prompts and messages. PendingSuffix
// marks fields whose buffer holds an edit the model has not seen yet.
type Theme struct {
	PromptPrefix  string
	InfoPrefix    string
	ErrorPrefix   string
	PendingSuffix string
}

var defaultTheme = Theme{
	InfoPrefix:    "",
	ErrorPrefix:   "! ",
	PendingSuffix: " (modified)",
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects informational messages of the default driver.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxRounds bounds how many edit rounds Run performs before giving up.
// Zero means unbounded.
func WithMaxRounds(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxRounds = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
