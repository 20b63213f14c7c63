package host

import (
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
)

// Culler processes the section index's deactivation queue between frames
// and wakes objects that came back into view.
type Culler struct {
	index *section.Index
}

// NewCuller creates a culler over an index.
func NewCuller(ix *section.Index) *Culler {
	return &Culler{index: ix}
}

// Deactivate drains the queue. Objects that are still outside the viewport
// are deactivated; the rest only lose their pending mark.
func (c *Culler) Deactivate() int {
	vp := c.index.Viewport()
	n := 0
	for _, o := range c.index.DrainDeactivated() {
		o.Lock()
		o.PendingDeactivation = false
		if o.Outer >= 0 && !vp.Contains(o.Outer, o.Middle) {
			o.Activated = false
			n++
		}
		o.Unlock()
	}
	return n
}

// Activate wakes every inactive object in a viewport bucket.
func (c *Culler) Activate() int {
	vp := c.index.Viewport()
	n := 0
	for _, k := range c.index.Buckets() {
		if !vp.Contains(k.Outer, k.Middle) {
			continue
		}
		for _, o := range c.index.Bucket(k.Outer, k.Middle) {
			if wake(o) {
				n++
			}
		}
	}
	return n
}

func wake(o *scene.Object) bool {
	o.Lock()
	defer o.Unlock()
	if o.Activated {
		return false
	}
	o.Activated = true
	o.SyncLast()
	return true
}
