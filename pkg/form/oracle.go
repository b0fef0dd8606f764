package form

// Oracle reports whether the form's current input is acceptable. Coordinators
// consult it only after the dispatch that triggered them has settled.
type Oracle interface {
	Valid() bool
}

// OracleFunc adapts a function into an Oracle.
type OracleFunc func() bool

// Valid delegates to the underlying function.
func (fn OracleFunc) Valid() bool {
	if fn == nil {
		return true
	}
	return fn()
}

// Always returns an Oracle with a fixed answer.
func Always(valid bool) Oracle {
	return OracleFunc(func() bool { return valid })
}
