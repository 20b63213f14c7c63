package motion

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
)

var testViewport = section.Viewport{Left: 0, Right: 40, Bottom: 0, Top: 40}

type rotationClaim struct {
	group, center int
	raw, applied  float32
	optimized     bool
}

// recorder is a Claimer that remembers every call in order.
type recorder struct {
	mu         sync.Mutex
	rotations  []rotationClaim
	moveClaims []int
	pending    map[int]core.Point
}

func newRecorder() *recorder {
	return &recorder{pending: make(map[int]core.Point)}
}

func (r *recorder) ClaimRotation(group, center int, raw, applied float32, optimized, accumulate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotations = append(r.rotations, rotationClaim{group, center, raw, applied, optimized})
}

func (r *recorder) ClaimMove(group int, optimized bool) core.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moveClaims = append(r.moveClaims, group)
	p := r.pending[group]
	delete(r.pending, group)
	return p
}

type world struct {
	scene  *scene.Scene
	groups *groups.Registry
	index  *section.Index
	pool   *taskpool.Pool
	claims *recorder
}

func newWorld(t *testing.T, workers int) *world {
	t.Helper()
	pool, err := taskpool.New(taskpool.WithWorkers(workers))
	if err != nil {
		t.Fatalf("taskpool.New() error: %v", err)
	}
	t.Cleanup(pool.Close)
	return &world{
		scene:  scene.New(1024),
		groups: groups.NewRegistry(),
		index:  section.New(0.01, 0.01, testViewport),
		pool:   pool,
		claims: newRecorder(),
	}
}

func (w *world) engine(mode Mode, opts ...Option) *Engine {
	opts = append([]Option{WithMode(mode), WithClaimer(w.claims)}, opts...)
	return New(w.scene, w.groups, w.index, w.pool, opts...)
}

// add registers o, indexes it and puts it in group id of ns and of the
// general namespace.
func (w *world) add(o *scene.Object, ns groups.Namespace, ids ...int) *scene.Object {
	if o.ID == 0 {
		o.ID = int32(w.scene.Len() + 1)
	}
	h := w.scene.Register(o)
	w.index.Insert(o)
	for _, id := range ids {
		w.groups.Get(ns, id).Add(h)
		if ns != groups.General {
			w.groups.General(id).Add(h)
		}
	}
	return o
}

func (w *world) fill(n int, ns groups.Namespace, id int, x, y float64) []*scene.Object {
	objs := make([]*scene.Object, n)
	for i := range objs {
		objs[i] = w.add(&scene.Object{X: x, Y: y, Activated: true, Width: 10, Height: 10}, ns, id)
	}
	return objs
}

type objectState struct {
	X, Y, LastX, LastY float64
	RotX, RotY         float32
	RotOffX, RotOffY   float32
	Outer, Middle      int32
	Dirty, Pending     bool
	Box                [4]core.Point
}

func (w *world) states() []objectState {
	out := make([]objectState, w.scene.Len())
	for i, o := range w.scene.Objects() {
		out[i] = objectState{
			X: o.X, Y: o.Y, LastX: o.LastX, LastY: o.LastY,
			RotX: o.RotationX, RotY: o.RotationY,
			RotOffX: o.RotationOffsetX, RotOffY: o.RotationOffsetY,
			Outer: o.Outer, Middle: o.Middle,
			Dirty: o.Dirty, Pending: o.PendingDeactivation,
			Box: o.Box,
		}
	}
	return out
}

func compareStates(t *testing.T, label string, got, expected []objectState) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("%s: %d objects, expected %d", label, len(got), len(expected))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("%s: object %d = %+v, expected %+v", label, i, got[i], expected[i])
		}
	}
}

func checkSections(t *testing.T, w *world) {
	t.Helper()
	for _, o := range w.scene.Objects() {
		outer, middle := w.index.Of(o.X, o.Y)
		if o.Outer != outer || o.Middle != middle {
			t.Fatalf("object %d at (%v, %v) is in (%d, %d), expected (%d, %d)",
				o.ID, o.X, o.Y, o.Outer, o.Middle, outer, middle)
		}
	}
}

// Mixed workload layout, shared by the determinism tests.
var (
	mixedStatic    = map[int]int{1: 5, 2: 20, 3: 45, 4: 49, 5: 120, 6: 700, 7: 1300, 8: 2300}
	mixedOptimized = map[int]int{11: 8, 12: 40, 13: 300, 14: 999, 15: 1000, 16: 1501}
	mixedCenters   = []int{100, 101, 102, 103}
)

func buildMixed(t *testing.T, workers int, seed int64) *world {
	t.Helper()
	w := newWorld(t, workers)
	rng := rand.New(rand.NewSource(seed))

	object := func() *scene.Object {
		o := &scene.Object{
			X:             rng.Float64() * 5000,
			Y:             rng.Float64() * 5000,
			OffsetX:       float64(rng.Intn(7)) - 3,
			OffsetY:       float64(rng.Intn(7)) - 3,
			Width:         float32(5 + rng.Intn(30)),
			Height:        float32(5 + rng.Intn(30)),
			CanRotateFree: rng.Intn(4) != 0,
			Type:          scene.Type(rng.Intn(4)),
			Decoration:    rng.Intn(10) == 0,
			UseOuterBox:   rng.Intn(20) == 0,
			IgnoreXOffset: rng.Intn(20) == 0,
		}
		outer, middle := w.index.Of(o.X, o.Y)
		o.Activated = testViewport.Contains(outer, middle)
		return o
	}

	for _, id := range sortedKeys(mixedStatic) {
		for i := 0; i < mixedStatic[id]; i++ {
			w.add(object(), groups.Static, id)
		}
	}
	for _, id := range sortedKeys(mixedOptimized) {
		for i := 0; i < mixedOptimized[id]; i++ {
			w.add(object(), groups.Optimized, id)
		}
	}
	for _, id := range mixedCenters {
		w.add(object(), groups.General, id)
	}

	// The move calculation reference turns with group 5.
	ref := w.scene.Get(mixedReference(w))
	ref.CanRotateFree = true
	ref.ScaleOffsetX = 0.5
	return w
}

func mixedReference(w *world) scene.Handle {
	return w.groups.Static(5).Members()[0]
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// mixedFrame builds frame k of the mixed workload. Rotated target groups
// are pairwise disjoint and centers belong to no target group.
func mixedFrame(seed int64, k int, ref scene.Handle) *Frame {
	rng := rand.New(rand.NewSource(seed*1000 + int64(k)))
	f := &Frame{}

	rotations := []struct {
		target, center int
		lock           bool
	}{
		{5, 100, false},
		{13, 101, true},
		{14, 102, false},
		{16, 0, false},
		{1, 103, false},
		{7, 0, false},
	}
	for _, r := range rotations {
		from := float64(k) * 7.5
		to := from + rng.Float64()*20 - 10
		f.Rotations = append(f.Rotations, &RotateAction{
			Target:        r.target,
			Center:        r.center,
			StaticFrom:    from,
			StaticTo:      to,
			OptimizedFrom: from,
			OptimizedTo:   to,
			LockRotation:  r.lock,
			Finishing:     k%3 == 0,
		})
	}

	var tags []int
	tags = append(tags, sortedKeys(mixedStatic)...)
	tags = append(tags, sortedKeys(mixedOptimized)...)
	for _, tag := range tags {
		f.Moves = append(f.Moves, &MoveCommand{
			Target:      tag,
			StaticDX:    rng.Float64()*40 - 20,
			StaticDY:    rng.Float64()*40 - 20,
			OptimizedDX: rng.Float64()*40 - 20,
			OptimizedDY: rng.Float64()*40 - 20,
			Primary:     tag%2 == 0,
		})
	}
	f.Calculations = append(f.Calculations, MoveCalculation{
		Reference: ref,
		Command:   f.Moves[0],
		Offset:    core.Pt(float32(rng.Intn(20)), float32(rng.Intn(20))),
	})
	return f
}

func runMixed(t *testing.T, w *world, e *Engine, seed int64, frames int) {
	t.Helper()
	ref := mixedReference(w)
	for k := 0; k < frames; k++ {
		w.claims.mu.Lock()
		w.claims.pending[5] = core.Pt(1.25, -0.75)
		w.claims.mu.Unlock()
		e.Step(mixedFrame(seed, k, ref))
	}
}
