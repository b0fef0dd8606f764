package loop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Task is a unit of work executed on the loop goroutine.
type Task func()

// PanicHandler receives values recovered from panicking tasks.
type PanicHandler func(recovered any)

// Loop is a single-threaded cooperative scheduler. Tasks run one at a time in
// FIFO order; anything a task schedules runs on a later turn, after the task
// (and every listener it dispatched to) has returned.
type Loop struct {
	mu      sync.Mutex
	queue   []*Pending
	wake    chan struct{}
	logger  *slog.Logger
	onPanic PanicHandler
	running bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPanicHandler installs a callback for recovered task panics.
func WithPanicHandler(fn PanicHandler) Option {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// New constructs an idle loop.
func New(options ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Post enqueues task. It is safe to call from any goroutine.
func (l *Loop) Post(task Task) {
	l.Defer(task)
}

// Defer schedules task for a later turn and returns a handle that can cancel
// it before it runs. A task deferred from inside a dispatch therefore runs
// strictly after every listener of that dispatch.
func (l *Loop) Defer(task Task) *Pending {
	p := &Pending{task: task}
	if task == nil {
		p.state = pendingCancelled
		return p
	}
	l.mu.Lock()
	l.queue = append(l.queue, p)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return p
}

// Len reports the number of queued tasks, including cancelled ones that have
// not been skipped yet.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunUntilIdle executes queued tasks, including tasks they enqueue, until the
// queue is empty. It returns the number of tasks executed.
func (l *Loop) RunUntilIdle() int {
	ran := 0
	for {
		p := l.next()
		if p == nil {
			return ran
		}
		if l.execute(p) {
			ran++
		}
	}
}

// Run serves tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("loop: context is required")
	}
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		l.RunUntilIdle()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() *Pending {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	p := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return p
}

func (l *Loop) execute(p *Pending) (ran bool) {
	if !p.start() {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked", "panic", r)
			if l.onPanic != nil {
				l.onPanic(r)
			}
		}
	}()
	p.task()
	return true
}
