// Package loop provides the cooperative, single-threaded scheduler the form
// runtime is driven by. Event dispatch happens inside one task; Defer queues a
// continuation behind it, which is how the submission coordinator reads form
// validity only after every listener of the same event has run.
package loop
