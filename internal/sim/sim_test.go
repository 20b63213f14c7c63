package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
)

var testViewport = section.Viewport{Left: 0, Right: 39, Bottom: 0, Top: 19}

func TestWorldAdd(t *testing.T) {
	w := NewWorld(4, 0.01, 0.01, testViewport)

	inside := w.Add(&scene.Object{X: 50, Y: 50}, groups.Static, 3)
	outside := w.Add(&scene.Object{X: 10000, Y: 50}, groups.General, 3)

	a, b := w.Scene.Get(inside), w.Scene.Get(outside)
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d, expected 1, 2", a.ID, b.ID)
	}
	if !a.Activated || b.Activated {
		t.Errorf("Activated = %v, %v, expected true, false", a.Activated, b.Activated)
	}
	if a.LastX != 50 {
		t.Errorf("LastX = %v, expected 50", a.LastX)
	}
	if w.Groups.Static(3).Len() != 1 {
		t.Errorf("static group size = %d, expected 1", w.Groups.Static(3).Len())
	}
	if w.Groups.General(3).Len() != 2 {
		t.Errorf("general group size = %d, expected 2", w.Groups.General(3).Len())
	}
	if w.Active() != 1 {
		t.Errorf("Active() = %d, expected 1", w.Active())
	}
}

func TestWorldBounds(t *testing.T) {
	tests := []struct {
		name             string
		xFactor, yFactor float32
		vp               section.Viewport
		width, height    float64
	}{
		{"offset viewport", 0.01, 0.02, section.Viewport{Left: 10, Right: 19, Bottom: 5, Top: 9}, 1000, 250},
		{"default viewport", 0.01, 0.01, testViewport, 4000, 2000},
		{"odd factors", 0.03, 0.07, section.Viewport{Left: 3, Right: 12, Bottom: 7, Top: 20}, 333.333, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(0, tt.xFactor, tt.yFactor, tt.vp)

			width, height := w.Bounds()
			if math.Abs(width-tt.width) > 1e-2 || math.Abs(height-tt.height) > 1e-2 {
				t.Errorf("Bounds() = %v, %v, expected %v, %v", width, height, tt.width, tt.height)
			}

			x, y := w.Origin()
			if outer, middle := w.Index.Of(x, y); outer != tt.vp.Left || middle != tt.vp.Bottom {
				t.Errorf("Of(Origin()) = (%d, %d), expected (%d, %d)", outer, middle, tt.vp.Left, tt.vp.Bottom)
			}
			if outer, middle := w.Index.Of(x+width, y+height); outer < tt.vp.Right || middle < tt.vp.Top {
				t.Errorf("Of(far corner) = (%d, %d), expected at least (%d, %d)", outer, middle, tt.vp.Right, tt.vp.Top)
			}
		})
	}
}

// pushSource moves static group 1 by dx every frame.
type pushSource struct {
	dx    float64
	calls int
}

func (s *pushSource) Next(dt float32) *motion.Frame {
	s.calls++
	return &motion.Frame{Moves: []*motion.MoveCommand{{Target: 1, StaticDX: s.dx}}}
}

func TestRunnerStep(t *testing.T) {
	w := NewWorld(1, 0.01, 0.01, testViewport)
	h := w.Add(&scene.Object{X: 50, Y: 50}, groups.Static, 1)
	src := &pushSource{dx: 5000}
	r := NewRunner(w, src, nil, Options{Mode: motion.Parallel})

	before := r.Checksum()
	r.Step()

	o := w.Scene.Get(h)
	if o.X != 5050 {
		t.Errorf("X = %v, expected 5050", o.X)
	}
	if r.Engine().Stamp() != 1 {
		t.Errorf("Stamp() = %d, expected 1", r.Engine().Stamp())
	}
	if r.Checksum() == before {
		t.Error("Checksum() should change after a move")
	}
	if d, a := r.Culled(); d != 1 || a != 0 {
		t.Errorf("Culled() = %d, %d, expected 1, 0", d, a)
	}
	if o.Activated {
		t.Error("object moved out of the viewport should be deactivated")
	}
	if r.Ledger().Frames() != 1 {
		t.Errorf("ledger frames = %d, expected 1", r.Ledger().Frames())
	}
}

func TestRunnerRun(t *testing.T) {
	w := NewWorld(1, 0.01, 0.01, testViewport)
	w.Add(&scene.Object{X: 50, Y: 50}, groups.Static, 1)
	src := &pushSource{dx: 1}
	r := NewRunner(w, src, nil, Options{})

	seen := 0
	r.Run(3, func(motion.FrameStats) { seen++ })
	if seen != 3 || src.calls != 3 {
		t.Errorf("callbacks = %d, source calls = %d, expected 3, 3", seen, src.calls)
	}
	if r.World() != w {
		t.Error("World() should return the stepped world")
	}
}
