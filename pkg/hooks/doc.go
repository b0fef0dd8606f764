// Package hooks holds named final hooks. A definition group refers to its
// hook by name; session.Mount resolves the name against a Registry.
package hooks
