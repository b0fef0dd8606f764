// Package modelref compiles dotted path expressions into read/write accessors
// over a shared model tree (map[string]any with nested maps and []any
// slices). Compilation validates the expression up front; Get and Set then
// walk the tree without reparsing.
package modelref
