// Package section is the coarse spatial grid used to cull objects that
// leave the active viewport. Buckets are keyed by (outer, middle) indices
// derived from clamped positions.
package section

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/groupmotion/internal/scene"
)

// Ceiling is the coordinate clamp. Positions at or beyond it land in the
// last bucket.
const Ceiling = 1_000_000.0

// Key identifies a bucket.
type Key struct {
	Outer, Middle int32
}

// Viewport is the active window in bucket units, bounds inclusive.
type Viewport struct {
	Left, Right int32
	Bottom, Top int32
}

// Contains reports whether a bucket lies inside the window.
func (v Viewport) Contains(outer, middle int32) bool {
	return outer >= v.Left && outer <= v.Right && middle >= v.Bottom && middle <= v.Top
}

// Index maps buckets to objects. The coarse lock mu guards the buckets,
// each object's Slot, the viewport and the deactivation queue.
type Index struct {
	xFactor, yFactor float32

	mu       sync.Mutex
	buckets  map[Key][]*scene.Object
	viewport Viewport
	pending  []*scene.Object
	queued   map[int32]struct{}

	reorders atomic.Uint64
}

// New creates an index with the given scale factors.
func New(xFactor, yFactor float32, vp Viewport) *Index {
	return &Index{
		xFactor:  xFactor,
		yFactor:  yFactor,
		buckets:  make(map[Key][]*scene.Object),
		viewport: vp,
		queued:   make(map[int32]struct{}),
	}
}

// Of returns the bucket for a position.
func (ix *Index) Of(x, y float64) (outer, middle int32) {
	return int32(scaled(x, ix.xFactor)), int32(scaled(y, ix.yFactor))
}

func scaled(v float64, factor float32) float64 {
	if v <= 0 {
		return 0
	}
	if v < Ceiling {
		return float64(factor) * v
	}
	return float64(factor) * Ceiling
}

// Insert adds an object to the bucket for its current position.
func (ix *Index) Insert(o *scene.Object) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	o.Lock()
	defer o.Unlock()

	if o.Outer != scene.NotIndexed {
		return
	}
	outer, middle := ix.Of(o.X, o.Y)
	ix.add(o, outer, middle)
}

// Stale reports whether the object's recorded bucket differs from the one
// its position implies. The caller holds the object's lock. Objects outside
// the index are never stale.
func (ix *Index) Stale(o *scene.Object) bool {
	if o.Outer < 0 {
		return false
	}
	outer, middle := ix.Of(o.X, o.Y)
	return outer != o.Outer || middle != o.Middle
}

// Update moves the object to its current bucket if needed. The caller must
// not hold the object's lock.
func Update[S scene.LockPolicy](ix *Index, o *scene.Object) {
	var p S
	p.Lock(o)
	stale := ix.Stale(o)
	p.Unlock(o)

	if stale {
		Reorder[S](ix, o)
	}
}

// Reorder re-buckets an object and queues it for deactivation if it is
// active and left the viewport. The section lock is taken before the
// object lock. The caller must hold neither.
func Reorder[S scene.LockPolicy](ix *Index, o *scene.Object) {
	var p S
	p.Lock(&ix.mu)
	defer p.Unlock(&ix.mu)
	p.Lock(o)
	defer p.Unlock(o)

	if o.Outer < 0 {
		return
	}
	outer, middle := ix.Of(o.X, o.Y)
	if outer == o.Outer && middle == o.Middle {
		return
	}

	ix.remove(o)
	ix.add(o, outer, middle)
	ix.reorders.Add(1)

	if o.Activated && !ix.viewport.Contains(outer, middle) {
		if _, ok := ix.queued[o.ID]; !ok {
			ix.queued[o.ID] = struct{}{}
			ix.pending = append(ix.pending, o)
		}
		o.PendingDeactivation = true
	}
}

func (ix *Index) add(o *scene.Object, outer, middle int32) {
	k := Key{outer, middle}
	b := ix.buckets[k]
	o.Outer, o.Middle = outer, middle
	o.Slot = int32(len(b))
	ix.buckets[k] = append(b, o)
}

// remove swap-deletes the object from its bucket.
func (ix *Index) remove(o *scene.Object) {
	k := Key{o.Outer, o.Middle}
	b := ix.buckets[k]
	last := len(b) - 1
	if o.Slot < 0 || int(o.Slot) > last || b[o.Slot] != o {
		return
	}
	if int(o.Slot) != last {
		moved := b[last]
		b[o.Slot] = moved
		moved.Slot = o.Slot
	}
	b[last] = nil
	if last == 0 {
		delete(ix.buckets, k)
	} else {
		ix.buckets[k] = b[:last]
	}
	o.Outer, o.Middle, o.Slot = scene.NotIndexed, scene.NotIndexed, scene.NotIndexed
}

// Remove takes an object out of the index.
func (ix *Index) Remove(o *scene.Object) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	o.Lock()
	defer o.Unlock()
	if o.Outer >= 0 {
		ix.remove(o)
	}
}

// SetViewport replaces the active window.
func (ix *Index) SetViewport(vp Viewport) {
	ix.mu.Lock()
	ix.viewport = vp
	ix.mu.Unlock()
}

// Viewport returns the active window.
func (ix *Index) Viewport() Viewport {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.viewport
}

// Bucket returns a copy of one bucket's members.
func (ix *Index) Bucket(outer, middle int32) []*scene.Object {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	b := ix.buckets[Key{outer, middle}]
	out := make([]*scene.Object, len(b))
	copy(out, b)
	return out
}

// Buckets returns the non-empty bucket keys, sorted by outer then middle.
func (ix *Index) Buckets() []Key {
	ix.mu.Lock()
	keys := make([]Key, 0, len(ix.buckets))
	for k := range ix.buckets {
		keys = append(keys, k)
	}
	ix.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Outer != keys[j].Outer {
			return keys[i].Outer < keys[j].Outer
		}
		return keys[i].Middle < keys[j].Middle
	})
	return keys
}

// Occupancy counts members per bucket over a window. Row r covers middle
// index bottom+r and column c covers outer index left+c.
func (ix *Index) Occupancy(vp Viewport) [][]int {
	cols := int(vp.Right - vp.Left + 1)
	rows := int(vp.Top - vp.Bottom + 1)
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for k, b := range ix.buckets {
		if vp.Contains(k.Outer, k.Middle) {
			grid[k.Middle-vp.Bottom][k.Outer-vp.Left] = len(b)
		}
	}
	return grid
}

// DrainDeactivated hands the deactivation queue to the host and empties it.
func (ix *Index) DrainDeactivated() []*scene.Object {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	out := ix.pending
	ix.pending = nil
	clear(ix.queued)
	return out
}

// Reorders returns how many bucket moves the index has performed.
func (ix *Index) Reorders() uint64 {
	return ix.reorders.Load()
}
