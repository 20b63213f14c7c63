package motion

import (
	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
)

type rotationTarget struct {
	group     *groups.Group
	from, to  float64
	optimized bool
}

// resolveRotation picks the object set and endpoint pair. A target with
// static members rotates its whole general group on the static endpoints;
// otherwise the optimized group on the optimized endpoints.
func (e *Engine) resolveRotation(a *RotateAction) rotationTarget {
	if e.groups.Static(a.Target).Len() > 0 {
		return rotationTarget{
			group: e.groups.General(a.Target),
			from:  a.StaticFrom,
			to:    a.StaticTo,
		}
	}
	return rotationTarget{
		group:     e.groups.Optimized(a.Target),
		from:      a.OptimizedFrom,
		to:        a.OptimizedTo,
		optimized: true,
	}
}

func (e *Engine) centerObject(id int) *scene.Object {
	if id <= 0 {
		return nil
	}
	g := e.groups.Lookup(groups.General, id)
	if g == nil {
		return nil
	}
	h, ok := g.Main()
	if !ok {
		return nil
	}
	return e.scene.Get(h)
}

func (e *Engine) liveRotations(actions []*RotateAction) []*RotateAction {
	live := make([]*RotateAction, 0, len(actions))
	for _, a := range actions {
		if a.Frame == 0 {
			a.Frame = e.stamp
		}
		if a.Frame == e.stamp && !a.consumed {
			live = append(live, a)
		}
	}
	return live
}

func (e *Engine) rotate(actions []*RotateAction, st *FrameStats) {
	live := e.liveRotations(actions)
	if len(live) == 0 {
		return
	}

	total := 0
	for _, a := range live {
		total += e.resolveRotation(a).group.Len()
	}

	restore := e.rig.IsolateLayer()
	defer restore()

	parallel := e.mode == Parallel ||
		(e.mode == Auto && total > e.tuning.RotationParallelThreshold)
	st.ParallelRotation = parallel
	e.logger.Debug("rotations", "actions", len(live), "objects", total, "parallel", parallel)

	if !parallel {
		for _, a := range live {
			rotateOne[scene.Serial](e, a, nil)
		}
		return
	}

	e.gate.reset()
	for i, a := range live {
		tk := &turn{seq: e.gate, ticket: i}
		e.submit(func() {
			defer tk.finish()
			rotateOne[scene.Concurrent](e, a, tk)
		})
	}
	e.pool.Join()
}

// rotateOne applies one action. Everything between tk.enter and tk.leave
// happens in action order across concurrent tasks.
func rotateOne[S scene.LockPolicy](e *Engine, a *RotateAction, tk *turn) {
	tgt := e.resolveRotation(a)
	center := e.centerObject(a.Center)

	delta := tgt.to - tgt.from
	if delta == 0 && !a.Finishing {
		return
	}
	a.consumed = true

	raw := float32(delta)
	applied := raw
	if a.LockRotation {
		applied = 0
	}

	tk.enter()
	e.claims.ClaimRotation(a.Target, a.Center, raw, applied, tgt.optimized, true)
	e.applied.Add(1)
	members := tgt.group.Members()

	if center == nil {
		tk.leave()
		if applied != 0 && len(members) > 0 {
			e.rotated.Add(int64(len(members)))
			spinGroup[S](e, members, applied)
		}
		return
	}

	var p S
	p.Lock(center)
	pivot := center.UnmodifiedPosition()
	p.Unlock(center)

	claimed := e.claims.ClaimMove(a.Target, tgt.optimized)
	m := e.rig.Anchor(pivot, raw)
	tk.leave()

	e.rotated.Add(int64(len(members)))
	for _, h := range members {
		o := e.scene.Get(h)
		p.Lock(o)
		o.Finishing = a.Finishing
		o.Snapshot(e.stamp)
		o.Dirty = true
		o.UnmodifiedPosDirty = true

		// The offset is narrowed on the way in; the write-back stays in
		// double precision.
		local := core.Pt(
			float32(o.X-float64(float32(o.OffsetX))-float64(pivot.X)),
			float32(o.Y-float64(float32(o.OffsetY))-float64(pivot.Y)),
		)
		moved := m.Apply(local)
		o.X = o.OffsetX + float64(moved.X) + float64(claimed.X)
		o.Y = o.OffsetY + float64(moved.Y) + float64(claimed.Y)

		if applied != 0 && o.CanRotateFree {
			o.RotationOffsetX += applied
			o.RotationOffsetY += applied
			o.Rotate(applied)
			if o.Type != scene.Decoration {
				o.RecomputeBox()
			}
		}
		p.Unlock(o)

		section.Update[S](e.index, o)
	}
	syncInactive[S](e, members)
}

// spinGroup is the unanchored path: rotation only, positions and sections
// are left as they are.
func spinGroup[S scene.LockPolicy](e *Engine, members []scene.Handle, applied float32) {
	var p S
	for _, h := range members {
		o := e.scene.Get(h)
		p.Lock(o)
		if o.CanRotateFree {
			o.RotationOffsetX += applied
			o.RotationOffsetY += applied
			o.Rotate(applied)
			if o.Type != scene.Decoration {
				o.RectDirty = true
				o.OrientedBoxDirty = true
				o.RecomputeBox()
			}
		}
		p.Unlock(o)
	}
}
