package motion

import (
	"testing"

	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
)

func TestMoveTiers(t *testing.T) {
	w := newWorld(t, 4)
	w.fill(10, groups.Static, 1, 10, 10)
	w.fill(600, groups.Static, 2, 10, 10)
	w.fill(1500, groups.Optimized, 3, 10, 10)

	st := w.engine(Auto).Step(&Frame{Moves: []*MoveCommand{
		{Target: 1, StaticDX: 1},
		{Target: 2, StaticDX: 1},
		{Target: 3, OptimizedDY: 1},
	}})

	if st.InlineBatches != 1 || st.Tasks != 1 || st.Chunks != 3 {
		t.Errorf("tiers = inline %d, tasks %d, chunks %d, expected 1, 1, 3", st.InlineBatches, st.Tasks, st.Chunks)
	}
	if st.Moved != 2110 {
		t.Errorf("Moved = %d, expected 2110", st.Moved)
	}
}

func TestInlineTotalCap(t *testing.T) {
	w := newWorld(t, 2)
	var cmds []*MoveCommand
	for i := 0; i < 12; i++ {
		w.fill(49, groups.Static, 10+i, 10, 10)
		cmds = append(cmds, &MoveCommand{Target: 10 + i, StaticDX: 1})
	}

	st := w.engine(Auto).Step(&Frame{Moves: cmds})

	// The cap is checked before adding, so the 11th batch still fits at 490.
	if st.InlineBatches != 11 || st.Tasks != 1 {
		t.Errorf("inline %d, tasks %d, expected 11 and 1", st.InlineBatches, st.Tasks)
	}
}

func TestMoveObjectFlags(t *testing.T) {
	w := newWorld(t, 1)
	plain := w.add(&scene.Object{X: 10, Y: 10, Activated: true}, groups.Static, 40)
	noX := w.add(&scene.Object{X: 10, Y: 10, Activated: true, IgnoreXOffset: true}, groups.Static, 40)
	deco := w.add(&scene.Object{X: 10, Y: 10, Activated: true, Decoration: true}, groups.Static, 40)
	asleep := w.add(&scene.Object{X: 10, Y: 10}, groups.Static, 40)
	disabled := w.add(&scene.Object{X: 10, Y: 10, Activated: true}, groups.Static, 41)
	forced := w.add(&scene.Object{X: 10, Y: 10, Activated: true}, groups.Static, 42)

	st := w.engine(Serial).Step(&Frame{Moves: []*MoveCommand{
		{Target: 40, StaticDX: 5, StaticDY: 3},
		{Target: 41, StaticDX: 5, Disabled: true},
		{Target: 42, Force: true},
		{Target: 43, StaticDX: 1}, // no members
	}})

	if plain.X != 15 || plain.Y != 13 || plain.LastX != 10 || !plain.RectDirty {
		t.Errorf("plain = (%v, %v) last (%v, %v)", plain.X, plain.Y, plain.LastX, plain.LastY)
	}
	if noX.X != 10 || noX.Y != 13 {
		t.Errorf("IgnoreXOffset object = (%v, %v), expected (10, 13)", noX.X, noX.Y)
	}
	if deco.X != 15 || deco.LastFrame != 0 || deco.LastX != 0 {
		t.Error("decorations move but are not snapshot")
	}
	if !deco.PositionDirty {
		t.Error("decorations still get their position dirtied")
	}
	if asleep.LastX != 15 || asleep.LastY != 13 {
		t.Errorf("inactive object last position (%v, %v), expected (15, 13)", asleep.LastX, asleep.LastY)
	}
	if disabled.X != 10 || disabled.PositionDirty {
		t.Error("disabled commands are skipped")
	}
	if forced.X != 10 || !forced.PositionDirty {
		t.Error("forced commands touch objects even with zero offsets")
	}
	if st.Moved != 5 {
		t.Errorf("Moved = %d, expected 5", st.Moved)
	}
}

func TestStaticAndOptimizedOffsets(t *testing.T) {
	w := newWorld(t, 1)
	s := w.add(&scene.Object{X: 0, Y: 0}, groups.Static, 7)
	o := w.add(&scene.Object{X: 0, Y: 0}, groups.Optimized, 7)

	w.engine(Serial).Step(&Frame{Moves: []*MoveCommand{
		{Target: 7, StaticDX: 1, StaticDY: 2, OptimizedDX: 30, OptimizedDY: 40},
	}})

	if s.X != 1 || s.Y != 2 {
		t.Errorf("static member at (%v, %v), expected (1, 2)", s.X, s.Y)
	}
	if o.X != 30 || o.Y != 40 {
		t.Errorf("optimized member at (%v, %v), expected (30, 40)", o.X, o.Y)
	}
}

func TestMoveCalculation(t *testing.T) {
	w := newWorld(t, 1)
	ref := w.add(&scene.Object{RotationOffsetX: 90, ScaleOffsetY: 1}, groups.General, 1)
	e := w.engine(Serial)

	cmd := &MoveCommand{Target: 2, StaticDX: 1}
	e.applyCalculations([]MoveCalculation{
		{Reference: ref.Handle, Command: cmd, Offset: core.Pt(10, 0)},
		{Reference: ref.Handle, Command: nil, Offset: core.Pt(10, 0)},
	})

	if !approx(cmd.StaticDX, -9) || !approx(cmd.StaticDY, -20) {
		t.Errorf("static offsets = (%v, %v), expected (-9, -20)", cmd.StaticDX, cmd.StaticDY)
	}
	if !approx(cmd.OptimizedDX, -10) || !approx(cmd.OptimizedDY, -20) {
		t.Errorf("optimized offsets = (%v, %v), expected (-10, -20)", cmd.OptimizedDX, cmd.OptimizedDY)
	}
}

func TestMoveCommandTake(t *testing.T) {
	c := &MoveCommand{StaticDX: 1, StaticDY: 2, OptimizedDX: 3, OptimizedDY: 4}

	if dx, dy := c.Take(true); dx != 3 || dy != 4 {
		t.Errorf("Take(true) = (%v, %v), expected (3, 4)", dx, dy)
	}
	if dx, dy := c.Offsets(true); dx != 0 || dy != 0 {
		t.Error("Take should zero the optimized pair")
	}
	if dx, dy := c.Offsets(false); dx != 1 || dy != 2 {
		t.Error("Take(true) should leave the static pair")
	}
	if dx, dy := c.Take(false); dx != 1 || dy != 2 {
		t.Errorf("Take(false) = (%v, %v), expected (1, 2)", dx, dy)
	}
}

func TestDeactivationQueuedDuringMoves(t *testing.T) {
	w := newWorld(t, 2)
	objs := w.fill(700, groups.Static, 1, 100, 100)

	w.engine(Auto).Step(&Frame{Moves: []*MoveCommand{{Target: 1, StaticDX: 10000}}})

	queued := w.index.DrainDeactivated()
	if len(queued) != len(objs) {
		t.Errorf("%d objects queued, expected %d", len(queued), len(objs))
	}
	for _, o := range objs {
		if !o.PendingDeactivation {
			t.Fatal("objects leaving the viewport should be pending deactivation")
		}
	}
	checkSections(t, w)
}
