package lazy

import (
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-lazyform/pkg/store"
)

// Member is anything a Group can commit or roll back. *Field is the usual
// implementation.
type Member interface {
	Commit() error
	Rollback() error
}

// storeBound is implemented by members that write into a model store.
type storeBound interface {
	Store() *store.Store
}

// Group is the ordered set of members one submission acts on. Order is mount
// order; a member appears at most once.
type Group struct {
	name    string
	members []Member
	index   map[Member]struct{}
	logger  *slog.Logger
}

// NewGroup constructs an empty group.
func NewGroup(name string, logger *slog.Logger) *Group {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Group{
		name:   name,
		index:  make(map[Member]struct{}),
		logger: logger,
	}
}

// Name reports the group name.
func (g *Group) Name() string {
	return g.name
}

// Register appends m. Registering a member twice logs a warning and leaves
// the list untouched; the return value reports whether m was added.
func (g *Group) Register(m Member) bool {
	if m == nil {
		return false
	}
	if _, exists := g.index[m]; exists {
		g.logger.Warn("duplicate field registration ignored", "group", g.name, "member", memberName(m))
		return false
	}
	g.index[m] = struct{}{}
	g.members = append(g.members, m)
	return true
}

// Unregister removes m by identity. Unknown members are ignored.
func (g *Group) Unregister(m Member) bool {
	if _, exists := g.index[m]; !exists {
		return false
	}
	delete(g.index, m)
	for i := len(g.members) - 1; i >= 0; i-- {
		if g.members[i] == m {
			g.members = append(g.members[:i:i], g.members[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether m is registered.
func (g *Group) Contains(m Member) bool {
	_, ok := g.index[m]
	return ok
}

// Len reports the member count.
func (g *Group) Len() int {
	return len(g.members)
}

// Members returns the members in registration order.
func (g *Group) Members() []Member {
	return append([]Member(nil), g.members...)
}

// CommitAll commits every member in registration order. A failing member does
// not stop the sweep; all failures are joined and returned at the end.
// Watchers of the members' stores are held until the sweep ends, so members
// sharing a path do not resync each other mid-sweep and the last registered
// writer wins.
func (g *Group) CommitAll() error {
	members := g.Members()
	commit := func() error { return g.sweep("commit", members, Member.Commit) }
	for _, s := range storesOf(members) {
		inner := commit
		commit = func() error { return s.Batch(inner) }
	}
	return commit()
}

// RollbackAll rolls back every member in registration order with the same
// failure semantics as CommitAll.
func (g *Group) RollbackAll() error {
	return g.sweep("rollback", g.Members(), Member.Rollback)
}

func (g *Group) sweep(op string, members []Member, fn func(Member) error) error {
	var errs []error
	for _, m := range members {
		if err := fn(m); err != nil {
			g.logger.Error("field "+op+" failed", "group", g.name, "member", memberName(m), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func storesOf(members []Member) []*store.Store {
	var stores []*store.Store
	seen := make(map[*store.Store]struct{})
	for _, m := range members {
		bound, ok := m.(storeBound)
		if !ok {
			continue
		}
		s := bound.Store()
		if s == nil {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		stores = append(stores, s)
	}
	return stores
}

func memberName(m Member) string {
	if named, ok := m.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "anonymous"
}
