// Package scene holds the object arena the transform engine mutates.
// Groups and section buckets refer to objects by Handle, never by owning
// pointer.
package scene

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Scene is an append-only arena of objects.
type Scene struct {
	objects []*Object
}

// New creates an empty scene with room for n objects.
func New(n int) *Scene {
	return &Scene{
		objects: make([]*Object, 0, n),
	}
}

// Register adds an object to the arena and returns its handle. The lock is
// reset here, once, and the object starts outside the section index.
func (s *Scene) Register(o *Object) Handle {
	h := Handle(len(s.objects))
	o.Handle = h
	o.mu.reset()
	o.Outer, o.Middle, o.Slot = NotIndexed, NotIndexed, NotIndexed
	s.objects = append(s.objects, o)
	return h
}

// Get returns the object for a handle.
func (s *Scene) Get(h Handle) *Object {
	return s.objects[h]
}

// Len returns the number of registered objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the arena slice. Callers must not append to it.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// ClearDirty resets the per-frame dirty flags, as the renderer would after
// consuming them.
func (s *Scene) ClearDirty() {
	for _, o := range s.objects {
		o.Dirty = false
		o.UnmodifiedPosDirty = false
		o.PositionDirty = false
		o.RectDirty = false
		o.Finishing = false
	}
}

// Checksum hashes every object's position and rotation bits in handle
// order. Two scenes with bitwise-identical transforms hash equal.
func (s *Scene) Checksum() uint64 {
	h := fnv.New64a()
	var buf [24]byte
	for _, o := range s.objects {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(o.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(o.Y))
		binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(o.RotationX))
		binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(o.RotationY))
		h.Write(buf[:])
	}
	return h.Sum64()
}
