// Package sim ties a scene, its groups and its section index to an engine
// and steps them frame by frame.
package sim

import (
	"math"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
)

// World is the object arena with its group registry and spatial index.
type World struct {
	Scene  *scene.Scene
	Groups *groups.Registry
	Index  *section.Index

	xFactor, yFactor float32
}

// NewWorld creates an empty world. capacity is a hint for the arena.
func NewWorld(capacity int, xFactor, yFactor float32, vp section.Viewport) *World {
	return &World{
		Scene:   scene.New(capacity),
		Groups:  groups.NewRegistry(),
		Index:   section.New(xFactor, yFactor, vp),
		xFactor: xFactor,
		yFactor: yFactor,
	}
}

// Add registers an object, indexes it and puts it into group id of ns for
// each id. Static and optimized members also join the general group with
// the same id. The object starts active when it lies in the viewport.
func (w *World) Add(o *scene.Object, ns groups.Namespace, ids ...int) scene.Handle {
	o.ID = int32(w.Scene.Len() + 1)
	outer, middle := w.Index.Of(o.X, o.Y)
	o.Activated = w.Index.Viewport().Contains(outer, middle)
	o.SyncLast()

	h := w.Scene.Register(o)
	w.Index.Insert(o)
	for _, id := range ids {
		w.Groups.Get(ns, id).Add(h)
		if ns != groups.General {
			w.Groups.General(id).Add(h)
		}
	}
	return h
}

// Bounds returns the world-space size covered by the viewport.
func (w *World) Bounds() (width, height float64) {
	vp := w.Index.Viewport()
	width = edge(vp.Right+1, w.xFactor) - edge(vp.Left, w.xFactor)
	height = edge(vp.Top+1, w.yFactor) - edge(vp.Bottom, w.yFactor)
	return width, height
}

// Origin returns the world-space corner of the viewport. The index maps it
// to the viewport's first bucket.
func (w *World) Origin() (x, y float64) {
	vp := w.Index.Viewport()
	return edge(vp.Left, w.xFactor), edge(vp.Bottom, w.yFactor)
}

// edge returns the smallest position the index puts in bucket v.
// Dividing by the widened factor can land one ulp short of the bucket.
func edge(v int32, factor float32) float64 {
	x := float64(v) / float64(factor)
	for x < section.Ceiling && int32(float64(factor)*x) < v {
		x = math.Nextafter(x, math.Inf(1))
	}
	return x
}

// Active counts activated objects.
func (w *World) Active() int {
	n := 0
	for _, o := range w.Scene.Objects() {
		if o.Activated {
			n++
		}
	}
	return n
}
