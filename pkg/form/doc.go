// Package form models the physical submit-capable scope fields live in: an
// Element that emits submit and reset events on a loop, with listener
// ordering, default actions that listeners can prevent, and teardown
// notifications. The Oracle interface is the opaque validity signal the
// surrounding form exposes.
package form
