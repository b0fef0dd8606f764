package modelref

import "errors"

var (
	// ErrEmptyExpression is returned when a model path expression is empty.
	ErrEmptyExpression = errors.New("modelref: expression is empty")
	// ErrInvalidExpression is returned when a model path cannot be parsed.
	ErrInvalidExpression = errors.New("modelref: invalid expression")
	// ErrNotAssignable is returned when a path walks through a scalar value.
	ErrNotAssignable = errors.New("modelref: target is not assignable")
)
