// Package groups maps integer group IDs to lazily created member lists in
// three independent namespaces.
package groups

import (
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/groupmotion/internal/scene"
)

// MaxID is the largest group ID. Larger and negative IDs are clamped.
const MaxID = 9999

// Namespace selects one of the three group tables.
type Namespace uint8

const (
	Static Namespace = iota
	Optimized
	General
	namespaceCount
)

func (ns Namespace) String() string {
	switch ns {
	case Static:
		return "static"
	case Optimized:
		return "optimized"
	case General:
		return "general"
	}
	return "unknown"
}

// Group is an append-only list of object handles.
type Group struct {
	id      int
	mu      sync.Mutex
	members []scene.Handle
}

// ID returns the clamped group ID.
func (g *Group) ID() int {
	return g.id
}

// Add appends a member. Groups are filled while the scene is built, not
// during a frame.
func (g *Group) Add(h scene.Handle) {
	g.mu.Lock()
	g.members = append(g.members, h)
	g.mu.Unlock()
}

// Members returns the current member list. The returned prefix is never
// modified by later Adds.
func (g *Group) Members() []scene.Handle {
	g.mu.Lock()
	m := g.members
	g.mu.Unlock()
	return m[:len(m):len(m)]
}

// Len returns the member count.
func (g *Group) Len() int {
	g.mu.Lock()
	n := len(g.members)
	g.mu.Unlock()
	return n
}

// Main returns the first member, the group's reference object.
func (g *Group) Main() (scene.Handle, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.members) == 0 {
		return 0, false
	}
	return g.members[0], true
}

type table struct {
	mu      sync.Mutex
	slots   [MaxID + 1]atomic.Pointer[Group]
	created atomic.Int32
}

// Registry holds the three namespaces. The zero value is ready to use.
type Registry struct {
	tables [namespaceCount]table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Clamp maps any ID into [0, MaxID].
func Clamp(id int) int {
	if id < 0 {
		return 0
	}
	if id > MaxID {
		return MaxID
	}
	return id
}

// Get returns the group for id in ns, creating it on first use. Lookups of
// existing groups take no lock. Concurrent first calls for the same ID all
// observe the same group.
func (r *Registry) Get(ns Namespace, id int) *Group {
	id = Clamp(id)
	t := &r.tables[ns]
	if g := t.slots[id].Load(); g != nil {
		return g
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if g := t.slots[id].Load(); g != nil {
		return g
	}
	g := &Group{id: id}
	t.slots[id].Store(g)
	t.created.Add(1)
	return g
}

// Lookup returns the group if it has been created, without creating it.
func (r *Registry) Lookup(ns Namespace, id int) *Group {
	return r.tables[ns].slots[Clamp(id)].Load()
}

// Static returns the static group for id.
func (r *Registry) Static(id int) *Group { return r.Get(Static, id) }

// Optimized returns the optimized group for id.
func (r *Registry) Optimized(id int) *Group { return r.Get(Optimized, id) }

// General returns the general group for id.
func (r *Registry) General(id int) *Group { return r.Get(General, id) }

// Created returns how many groups exist in ns.
func (r *Registry) Created(ns Namespace) int {
	return int(r.tables[ns].created.Load())
}

// Each calls fn for every created group in ns in ascending ID order.
func (r *Registry) Each(ns Namespace, fn func(*Group)) {
	t := &r.tables[ns]
	for i := range t.slots {
		if g := t.slots[i].Load(); g != nil {
			fn(g)
		}
	}
}
