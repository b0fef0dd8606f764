package loop

import "sync"

const (
	pendingQueued = iota
	pendingDone
	pendingCancelled
)

// Pending is the handle for a deferred task.
type Pending struct {
	mu    sync.Mutex
	task  Task
	state int
}

// Cancel prevents the task from running. It reports false when the task has
// already started or was cancelled before.
func (p *Pending) Cancel() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != pendingQueued {
		return false
	}
	p.state = pendingCancelled
	return true
}

// Done reports whether the task has started running.
func (p *Pending) Done() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == pendingDone
}

// Cancelled reports whether the task was cancelled before running.
func (p *Pending) Cancelled() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == pendingCancelled
}

func (p *Pending) start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != pendingQueued {
		return false
	}
	p.state = pendingDone
	return true
}
