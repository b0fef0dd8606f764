// Package validation checks field buffers against definition rules.
//
// A Tracker is the form's validity oracle. Listen re-checks every buffer
// during the submit dispatch itself, so a coordinator that defers its
// decision past the dispatch always observes the fresh result.
package validation
