package motion

import (
	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/scene"
)

// RotateAction rotates a target group, optionally around the main object of
// a center group. Static and optimized endpoints are tracked separately;
// which pair applies depends on how the target resolves.
type RotateAction struct {
	Target int
	Center int // <= 0 means no center

	StaticFrom, StaticTo       float64
	OptimizedFrom, OptimizedTo float64

	LockRotation bool
	Finishing    bool

	// Frame is the engine frame the action is live in. Zero binds it to
	// the next Step.
	Frame uint64

	consumed bool
}

// Consumed reports whether the action has been applied.
func (a *RotateAction) Consumed() bool {
	return a.consumed
}

// MoveCommand carries the accumulated offsets for one group tag. The static
// pair moves the static group, the optimized pair the optimized group.
type MoveCommand struct {
	Target int

	StaticDX, StaticDY       float64
	OptimizedDX, OptimizedDY float64

	Force    bool // move even with zero offsets
	Disabled bool
	Primary  bool // target objects are primary game objects
}

// Offsets returns the pair for one namespace.
func (c *MoveCommand) Offsets(optimized bool) (dx, dy float64) {
	if optimized {
		return c.OptimizedDX, c.OptimizedDY
	}
	return c.StaticDX, c.StaticDY
}

// Take returns and zeroes the pair for one namespace.
func (c *MoveCommand) Take(optimized bool) (dx, dy float64) {
	if optimized {
		dx, dy = c.OptimizedDX, c.OptimizedDY
		c.OptimizedDX, c.OptimizedDY = 0, 0
		return dx, dy
	}
	dx, dy = c.StaticDX, c.StaticDY
	c.StaticDX, c.StaticDY = 0, 0
	return dx, dy
}

// MoveCalculation is a relative move shaped by a reference object's
// rotation and scale offsets, folded into Command before moves run.
type MoveCalculation struct {
	Reference scene.Handle
	Command   *MoveCommand
	Offset    core.Point
}

// Frame is one frame's worth of already-decided actions.
type Frame struct {
	Rotations    []*RotateAction
	Calculations []MoveCalculation
	Moves        []*MoveCommand
}

// Claimer is the host bookkeeping the engine reports to, once per applied
// rotation. ClaimMove hands over, and clears, the move offset pending for a
// group so the rotation can fold it in.
type Claimer interface {
	ClaimRotation(group, center int, raw, applied float32, optimized, accumulate bool)
	ClaimMove(group int, optimized bool) core.Point
}

// FrameObserver is implemented by claimers that need to see each frame
// before it is processed.
type FrameObserver interface {
	BeginFrame(f *Frame)
}

type noopClaimer struct{}

func (noopClaimer) ClaimRotation(int, int, float32, float32, bool, bool) {}
func (noopClaimer) ClaimMove(int, bool) core.Point                     { return core.Point{} }
