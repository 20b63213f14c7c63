// Package xform provides the small transform-node hierarchy the anchored
// rotation path uses to build its world matrix.
package xform

import (
	"math"

	"github.com/vovakirdan/groupmotion/internal/core"
)

// Node is a 2D transform node. Angles are in degrees, clockwise.
type Node struct {
	Position       core.Point
	Rotation       float32
	ScaleX, ScaleY float32
	SkewX, SkewY   float32

	parent *Node
}

// NewNode creates an identity node under parent, which may be nil.
func NewNode(parent *Node) *Node {
	n := &Node{parent: parent}
	n.Reset()
	return n
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Reset returns the node to the identity transform.
func (n *Node) Reset() {
	n.Position = core.Point{}
	n.Rotation = 0
	n.ScaleX, n.ScaleY = 1, 1
	n.SkewX, n.SkewY = 0, 0
}

// Local computes the node's own matrix:
// Scale -> Skew -> Rotate -> Translate(Position).
func (n *Node) Local() core.Affine {
	m := core.Affine{A: n.ScaleX, D: n.ScaleY}
	if n.SkewX != 0 || n.SkewY != 0 {
		skew := core.Affine{
			A: 1,
			B: float32(math.Tan(float64(core.Radians(n.SkewY)))),
			C: float32(math.Tan(float64(core.Radians(n.SkewX)))),
			D: 1,
		}
		m = m.Then(skew)
	}
	m = m.Then(core.Rotation(n.Rotation))
	m.TX += n.Position.X
	m.TY += n.Position.Y
	return m
}

// WorldTransform composes the node's matrix with all of its ancestors.
func (n *Node) WorldTransform() core.Affine {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = m.Then(p.Local())
	}
	return m
}

// Rig is the fixed node chain Layer -> Scale -> Skew -> Transform ->
// Transform2. It is not safe for concurrent use.
type Rig struct {
	Layer      *Node
	Scale      *Node
	Skew       *Node
	Transform  *Node
	Transform2 *Node
}

// NewRig builds the chain with every node at identity.
func NewRig() *Rig {
	layer := NewNode(nil)
	scale := NewNode(layer)
	skew := NewNode(scale)
	transform := NewNode(skew)
	return &Rig{
		Layer:      layer,
		Scale:      scale,
		Skew:       skew,
		Transform:  transform,
		Transform2: NewNode(transform),
	}
}

// Reset puts every auxiliary node back to identity.
func (r *Rig) Reset() {
	r.Scale.Reset()
	r.Skew.Reset()
	r.Transform.Reset()
	r.Transform2.Reset()
}

// IsolateLayer resets the layer node and returns a func that restores it.
// The anchored rotation path works in layer-local space.
func (r *Rig) IsolateLayer() (restore func()) {
	saved := *r.Layer
	r.Layer.Reset()
	return func() { *r.Layer = saved }
}

// Anchor resets the rig, places the transform node at center rotated by
// deg, and returns its world matrix.
func (r *Rig) Anchor(center core.Point, deg float32) core.Affine {
	r.Reset()
	r.Transform.Position = center
	r.Transform.Rotation = deg
	return r.Transform.WorldTransform()
}
