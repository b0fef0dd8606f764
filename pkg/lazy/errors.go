package lazy

import "errors"

var (
	// ErrNoStore is returned when a field is constructed without a model store.
	ErrNoStore = errors.New("lazy: model store is required")
	// ErrNoScope is returned when the membership mode selects a nil
	// coordinator.
	ErrNoScope = errors.New("lazy: membership scope is required")
	// ErrFieldClosed is returned by Commit and Rollback after Close.
	ErrFieldClosed = errors.New("lazy: field is closed")
	// ErrBusy reports a submit or reset that was rejected because an earlier
	// evaluation is still pending.
	ErrBusy = errors.New("lazy: evaluation already pending")
	// ErrCoordinatorClosed is returned when registering into a closed
	// coordinator.
	ErrCoordinatorClosed = errors.New("lazy: coordinator is closed")
)
