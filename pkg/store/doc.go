// Package store holds the shared, mutable model that fields commit into.
// Watches use dirty checking: after each mutation the store re-reads every
// watched path and notifies the callbacks whose value changed, repeating until
// the model settles.
package store
