package loop

import "errors"

// ErrRunning is returned when Run is called on a loop that is already
// serving tasks.
var ErrRunning = errors.New("loop: already running")
