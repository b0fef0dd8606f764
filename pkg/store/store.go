package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/goliatone/go-lazyform/pkg/modelref"
)

// MaxDigestIterations bounds how many times a digest re-checks watchers when
// watcher callbacks keep mutating the model.
const MaxDigestIterations = 10

// ErrDigestOverflow is returned when watchers do not settle within
// MaxDigestIterations passes.
var ErrDigestOverflow = errors.New("store: digest did not settle")

// WatchFunc receives the current and previously observed value of a watched
// path.
type WatchFunc func(next, prev any)

type watcher struct {
	id     uint64
	ref    *modelref.Ref
	fn     WatchFunc
	last   any
	active bool
}

// Store owns the shared model tree and notifies watchers when the value at a
// watched path changes. It is not safe for concurrent use; callers serialise
// access through a loop.Loop.
type Store struct {
	root     map[string]any
	watchers []*watcher
	nextID   uint64
	logger   *slog.Logger
	digest   bool
	batch    int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps root. The store keeps the map by reference so callers that hold
// root observe committed values.
func New(root map[string]any, options ...Option) *Store {
	if root == nil {
		root = make(map[string]any)
	}
	s := &Store{
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Root returns the live model tree.
func (s *Store) Root() map[string]any {
	return s.root
}

// Snapshot returns a deep copy of the model.
func (s *Store) Snapshot() map[string]any {
	return modelref.CloneMap(s.root)
}

// Get reads the value at ref.
func (s *Store) Get(ref *modelref.Ref) (any, bool) {
	return ref.Get(s.root)
}

// Set assigns value at ref and then digests watchers.
func (s *Store) Set(ref *modelref.Ref, value any) error {
	if err := ref.Set(s.root, value); err != nil {
		return err
	}
	if s.batch > 0 {
		return nil
	}
	return s.Digest()
}

// Batch runs fn with digests suspended and digests once when the outermost
// batch returns, so watchers observe the combined result of every Set made
// inside fn.
func (s *Store) Batch(fn func() error) error {
	err := s.batched(fn)
	if s.batch > 0 {
		return err
	}
	return errors.Join(err, s.Digest())
}

// batched keeps the batch depth balanced even when fn panics.
func (s *Store) batched(fn func() error) error {
	s.batch++
	defer func() { s.batch-- }()
	return fn()
}

// Replace swaps the whole model tree in one step and digests watchers.
// Callers that need every field of a form to change together build the new
// tree off to the side and swap it in here.
func (s *Store) Replace(root map[string]any) error {
	if root == nil {
		root = make(map[string]any)
	}
	s.root = root
	return s.Digest()
}

// Watch registers fn for changes at ref. The current value is recorded as the
// baseline; fn fires only on subsequent changes. The returned function removes
// the watch and is safe to call more than once.
func (s *Store) Watch(ref *modelref.Ref, fn WatchFunc) (cancel func()) {
	if ref == nil || fn == nil {
		return func() {}
	}
	s.nextID++
	current, _ := ref.Get(s.root)
	w := &watcher{
		id:     s.nextID,
		ref:    ref,
		fn:     fn,
		last:   modelref.Clone(current),
		active: true,
	}
	s.watchers = append(s.watchers, w)
	return func() { s.unwatch(w.id) }
}

// Watchers reports the number of active watches.
func (s *Store) Watchers() int {
	return len(s.watchers)
}

// Digest compares every watched path against its last observed value and
// invokes the watchers whose value changed, repeating until no watcher fires.
func (s *Store) Digest() error {
	if s.digest || s.batch > 0 {
		// a watcher mutated the model or a batch is open; the outer pass
		// picks the change up
		return nil
	}
	s.digest = true
	defer func() { s.digest = false }()

	for i := 0; i < MaxDigestIterations; i++ {
		dirty := false
		watchers := append([]*watcher(nil), s.watchers...)
		for _, w := range watchers {
			if !w.active {
				continue
			}
			current, _ := w.ref.Get(s.root)
			if reflect.DeepEqual(current, w.last) {
				continue
			}
			prev := w.last
			w.last = modelref.Clone(current)
			dirty = true
			w.fn(current, prev)
		}
		if !dirty {
			return nil
		}
	}
	s.logger.Warn("store digest overflow", "iterations", MaxDigestIterations)
	return fmt.Errorf("%w after %d iterations", ErrDigestOverflow, MaxDigestIterations)
}

func (s *Store) unwatch(id uint64) {
	for i, w := range s.watchers {
		if w.id == id {
			w.active = false
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}
