package motion

import (
	"math"
	"sync/atomic"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
)

type batch struct {
	members []scene.Handle
	dx, dy  float64
	primary bool
}

// applyCalculations folds relative moves into their commands. It runs on
// the frame goroutine between the rotation and move phases.
func (e *Engine) applyCalculations(calcs []MoveCalculation) {
	for _, c := range calcs {
		if c.Command == nil {
			continue
		}
		ref := e.scene.Get(c.Reference)
		val := float32(-float64(ref.RotationOffsetX) * math.Pi / 180)
		sin, cos := math.Sincos(float64(val))
		sn, cs := float32(sin), float32(cos)

		off := c.Offset
		px := (off.X*cs - off.Y*sn) * (ref.ScaleOffsetX + 1)
		py := (off.Y*cs + off.X*sn) * (ref.ScaleOffsetY + 1)
		px -= off.X
		py -= off.Y

		c.Command.StaticDX += float64(px)
		c.Command.StaticDY += float64(py)
		c.Command.OptimizedDX += float64(px)
		c.Command.OptimizedDY += float64(py)
	}
}

func (e *Engine) move(cmds []*MoveCommand, st *FrameStats) {
	var inline []batch
	inlineTotal := 0
	dispatched := false

	enqueue := func(g *groups.Group, dx, dy float64, primary bool) {
		members := g.Members()
		n := len(members)
		if n == 0 {
			return
		}
		b := batch{members: members, dx: dx, dy: dy, primary: primary}

		switch {
		case e.mode == Serial:
			inline = append(inline, b)
		case e.mode == Auto && n < e.tuning.InlineBatchMax && inlineTotal < e.tuning.InlineTotalCap:
			inline = append(inline, b)
			inlineTotal += n
		case n < e.tuning.ChunkThreshold:
			e.submit(func() { moveGroup[scene.Concurrent](e, b) })
			st.Tasks++
			dispatched = true
		default:
			st.Chunks += e.submitChunks(b)
			dispatched = true
		}
	}

	for _, c := range cmds {
		if c.Disabled {
			continue
		}
		if dx, dy := c.Offsets(false); dx != 0 || dy != 0 || c.Force {
			enqueue(e.groups.Static(c.Target), dx, dy, c.Primary)
		}
		if dx, dy := c.Offsets(true); dx != 0 || dy != 0 || c.Force {
			enqueue(e.groups.Optimized(c.Target), dx, dy, c.Primary)
		}
	}

	// Inline batches may share objects with pool work, so they lock unless
	// nothing was dispatched.
	st.InlineBatches = len(inline)
	for _, b := range inline {
		if dispatched {
			moveGroup[scene.Concurrent](e, b)
		} else {
			moveGroup[scene.Serial](e, b)
		}
	}

	if dispatched {
		e.pool.Join()
	}
}

// submitChunks splits a batch into ChunkSize tasks. The last chunk to finish
// runs the inactive-object pass for the whole group.
func (e *Engine) submitChunks(b batch) int {
	size := e.tuning.ChunkSize
	n := len(b.members)
	chunks := (n + size - 1) / size

	remaining := &atomic.Int32{}
	remaining.Store(int32(chunks))
	for i := 0; i < chunks; i++ {
		lo := i * size
		hi := min(lo+size, n)
		part := b.members[lo:hi]
		e.submit(func() {
			defer func() {
				if remaining.Add(-1) == 0 {
					syncInactive[scene.Concurrent](e, b.members)
				}
			}()
			moveRange[scene.Concurrent](e, part, b.dx, b.dy, b.primary)
		})
	}
	return chunks
}

func moveGroup[S scene.LockPolicy](e *Engine, b batch) {
	moveRange[S](e, b.members, b.dx, b.dy, b.primary)
	syncInactive[S](e, b.members)
}

func moveRange[S scene.LockPolicy](e *Engine, members []scene.Handle, dx, dy float64, primary bool) {
	e.moved.Add(int64(len(members)))
	if primary {
		e.primaryMoved.Add(int64(len(members)))
	}

	var p S
	for _, h := range members {
		o := e.scene.Get(h)
		p.Lock(o)
		o.Snapshot(e.stamp)
		if dx != 0 && !o.IgnoreXOffset {
			o.X += dx
		}
		if dy != 0 {
			o.Y += dy
		}
		o.MarkPositionDirty()
		p.Unlock(o)

		section.Update[S](e.index, o)
	}
}

// syncInactive keeps the last-position cache of deactivated members current
// so reactivation does not see stale coordinates.
func syncInactive[S scene.LockPolicy](e *Engine, members []scene.Handle) {
	var p S
	for _, h := range members {
		o := e.scene.Get(h)
		p.Lock(o)
		if !o.Activated {
			o.SyncLast()
		}
		p.Unlock(o)
	}
}
