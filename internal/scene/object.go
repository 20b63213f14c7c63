package scene

import (
	"math"

	"github.com/vovakirdan/groupmotion/internal/core"
)

// Type classifies an object for bounding-box maintenance.
type Type uint8

const (
	Solid Type = iota
	Hazard
	Trigger
	Decoration
)

func (t Type) String() string {
	switch t {
	case Solid:
		return "solid"
	case Hazard:
		return "hazard"
	case Trigger:
		return "trigger"
	case Decoration:
		return "decoration"
	}
	return "unknown"
}

// Handle is an object's index in its Scene.
type Handle int32

// NotIndexed is the Outer value of an object outside the section index.
const NotIndexed = -1

// Object is a scene object. Transform fields are guarded by the embedded
// lock while the engine runs a frame.
type Object struct {
	ID     int32
	Handle Handle

	X, Y             float64
	OffsetX, OffsetY float64

	RotationX, RotationY             float32
	RotationOffsetX, RotationOffsetY float32
	ScaleOffsetX, ScaleOffsetY       float32

	Width, Height float32
	Box           [4]core.Point

	CanRotateFree bool
	Type          Type
	Decoration    bool // excluded from last-position snapshots
	UseOuterBox   bool // keeps its outer box, never rebuilds Box
	IgnoreXOffset bool

	Dirty              bool
	UnmodifiedPosDirty bool
	PositionDirty      bool
	RectDirty          bool
	OrientedBoxDirty   bool
	Finishing          bool

	LastX, LastY float64
	LastFrame    uint64

	// Section coordinates and bucket slot. Written by the section index
	// while it holds both its own lock and the object's.
	Outer, Middle int32
	Slot          int32

	Activated           bool
	PendingDeactivation bool

	mu spinLock
}

// UnmodifiedPosition returns the position without the base offset.
func (o *Object) UnmodifiedPosition() core.Point {
	return core.Pt(float32(o.X-o.OffsetX), float32(o.Y-o.OffsetY))
}

// FirstTouch stamps the object with frame and reports whether this is the
// first touch in that frame.
func (o *Object) FirstTouch(frame uint64) bool {
	if o.LastFrame == frame {
		return false
	}
	o.LastFrame = frame
	return true
}

// Snapshot records the pre-mutation position once per frame for
// non-decoration objects and marks their rect dirty.
func (o *Object) Snapshot(frame uint64) {
	if o.Decoration {
		return
	}
	if o.FirstTouch(frame) {
		o.LastX, o.LastY = o.X, o.Y
		o.Dirty = true
		o.RectDirty = true
	}
}

// MarkPositionDirty flags a position change for the renderer.
func (o *Object) MarkPositionDirty() {
	o.Dirty = true
	o.PositionDirty = true
}

// SyncLast copies the current position into the last-position cache.
func (o *Object) SyncLast() {
	o.LastX, o.LastY = o.X, o.Y
}

// Rotate adds delta degrees to both rotation axes.
func (o *Object) Rotate(delta float32) {
	o.RotationX += delta
	o.RotationY += delta
}

// RecomputeBox rebuilds the oriented bounding box from size, position and
// the two rotation axes. Objects that use their outer box are left alone.
func (o *Object) RecomputeBox() {
	if o.UseOuterBox {
		return
	}
	m := skewRotation(o.RotationX, o.RotationY)
	m.TX, m.TY = float32(o.X), float32(o.Y)

	hw, hh := o.Width/2, o.Height/2
	o.Box[0] = m.Apply(core.Pt(-hw, -hh))
	o.Box[1] = m.Apply(core.Pt(hw, -hh))
	o.Box[2] = m.Apply(core.Pt(hw, hh))
	o.Box[3] = m.Apply(core.Pt(-hw, hh))
}

// skewRotation builds the matrix for independent X and Y rotation, where
// equal angles give a plain clockwise rotation.
func skewRotation(rx, ry float32) core.Affine {
	if rx == 0 && ry == 0 {
		return core.Identity
	}
	sx, cx := math.Sincos(float64(-core.Radians(rx)))
	sy, cy := math.Sincos(float64(-core.Radians(ry)))
	return core.Affine{
		A: float32(cy),
		B: float32(sy),
		C: float32(-sx),
		D: float32(cx),
	}
}
