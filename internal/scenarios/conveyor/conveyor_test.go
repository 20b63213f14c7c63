package conveyor

import (
	"testing"

	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/section"
	"github.com/vovakirdan/groupmotion/internal/sim"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
)

var viewport = section.Viewport{Left: 0, Right: 39, Bottom: 0, Top: 19}

func TestBelts(t *testing.T) {
	tests := []struct {
		budget, expected int
	}{
		{0, 1},
		{9, 1},
		{20, 2},
		{40, 4},
		{1000, MaxBelts},
	}
	for _, tt := range tests {
		if got := Belts(tt.budget); got != tt.expected {
			t.Errorf("Belts(%d) = %d, expected %d", tt.budget, got, tt.expected)
		}
	}
}

func TestPopulate(t *testing.T) {
	w := sim.NewWorld(4000, 0.01, 0.01, viewport)
	s := New()
	next := s.Populate(w, registry.Params{Objects: 4000, Groups: 20, Seed: 1})
	if next != 3 {
		t.Errorf("Populate() = %d, expected 3", next)
	}
	if a, b := w.Groups.Static(1).Len(), w.Groups.Static(2).Len(); a != 2000 || b != 2000 {
		t.Errorf("belt sizes = %d, %d, expected 2000 each", a, b)
	}
	if w.Active() != 4000 {
		t.Errorf("Active() = %d, expected every object in view", w.Active())
	}
}

func TestChunkedAndCulled(t *testing.T) {
	pool, err := taskpool.New(taskpool.WithWorkers(4))
	if err != nil {
		t.Fatalf("taskpool.New() error: %v", err)
	}
	defer pool.Close()

	w := sim.NewWorld(10000, 0.01, 0.01, viewport)
	s := New()
	s.Populate(w, registry.Params{Objects: 10000, Groups: 1, Seed: 2})
	r := sim.NewRunner(w, s, pool, sim.Options{Mode: motion.Auto})

	st := r.Step()
	if st.Chunks != 20 || st.PrimaryMoved != 10000 {
		t.Errorf("first frame chunks = %d, primary moved = %d, expected 20 and 10000", st.Chunks, st.PrimaryMoved)
	}

	r.Run(500, nil)
	deactivated, activated := r.Culled()
	if deactivated == 0 || activated == 0 {
		t.Errorf("Culled() = %d, %d, expected objects to leave and return", deactivated, activated)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	pool, err := taskpool.New(taskpool.WithWorkers(3))
	if err != nil {
		t.Fatalf("taskpool.New() error: %v", err)
	}
	defer pool.Close()

	run := func(mode motion.Mode) uint64 {
		w := sim.NewWorld(5000, 0.01, 0.01, viewport)
		s := New()
		s.Populate(w, registry.Params{Objects: 5000, Groups: 30, Seed: 4})
		r := sim.NewRunner(w, s, pool, sim.Options{Mode: mode})
		r.Run(150, nil)
		return r.Checksum()
	}
	if serial, parallel := run(motion.Serial), run(motion.Parallel); serial != parallel {
		t.Errorf("checksums serial=%x parallel=%x", serial, parallel)
	}
}
