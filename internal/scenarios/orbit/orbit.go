// Package orbit implements a workload of rotations. Each system has a
// center object, a ring of satellites rotated around it, a cluster spun in
// place, and a tether group that follows a satellite's turn through a
// relative move.
package orbit

import (
	"math"
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

// GroupsPerSystem is how many group ids one system uses.
const GroupsPerSystem = 4

type system struct {
	center, ring, spin, tether int

	angle  *gween.Tween
	last   float32
	period float32
	phase  float64
	lock   bool

	reference scene.Handle
	hasRef    bool
}

// Scenario rotates rings of objects around center objects.
type Scenario struct {
	systems []*system
}

// New creates an orbit scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "orbit"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Orbit"
}

// Systems returns how many systems a group budget yields.
func Systems(groupBudget int) int {
	return max(1, groupBudget/GroupsPerSystem)
}

// Populate creates the systems. Objects are split 60/25/15 between ring,
// spin and tether groups. Every third system locks its rotation.
func (s *Scenario) Populate(w *sim.World, p registry.Params) int {
	rng := rand.New(rand.NewSource(p.Seed))
	ox, oy := w.Origin()
	width, height := w.Bounds()

	n := Systems(p.Groups)
	id := p.First()
	s.systems = s.systems[:0]

	per := max(1, p.Objects/n)
	ringN := per * 60 / 100
	spinN := per * 25 / 100
	tetherN := per - ringN - spinN

	for i := 0; i < n; i++ {
		sys := &system{
			center: id,
			ring:   id + 1,
			spin:   id + 2,
			tether: id + 3,
			period: float32(4 + rng.Float64()*8),
			phase:  rng.Float64() * 2 * math.Pi,
			lock:   i%3 == 0,
		}
		id += GroupsPerSystem
		s.systems = append(s.systems, sys)
		sys.angle = gween.New(0, 360, sys.period, ease.Linear)

		cx := ox + width*(0.15+rng.Float64()*0.7)
		cy := oy + height*(0.15+rng.Float64()*0.7)
		radius := math.Min(width, height) * (0.05 + rng.Float64()*0.1)

		w.Add(&scene.Object{X: cx, Y: cy, Width: 8, Height: 8, Type: scene.Solid}, groups.General, sys.center)

		for j := 0; j < ringN; j++ {
			a := rng.Float64() * 2 * math.Pi
			r := radius * (0.6 + rng.Float64()*0.4)
			h := w.Add(&scene.Object{
				X:             cx + math.Cos(a)*r,
				Y:             cy + math.Sin(a)*r,
				Width:         float32(3 + rng.Intn(6)),
				Height:        float32(3 + rng.Intn(6)),
				CanRotateFree: true,
				Type:          scene.Type(rng.Intn(4)),
			}, groups.Optimized, sys.ring)
			if !sys.hasRef {
				sys.reference, sys.hasRef = h, true
			}
		}
		for j := 0; j < spinN; j++ {
			w.Add(&scene.Object{
				X:             cx + (rng.Float64()*2-1)*radius*0.3,
				Y:             cy + (rng.Float64()*2-1)*radius*0.3,
				Width:         float32(2 + rng.Intn(4)),
				Height:        float32(2 + rng.Intn(4)),
				CanRotateFree: rng.Intn(4) != 0,
				Type:          scene.Hazard,
				Decoration:    rng.Intn(8) == 0,
			}, groups.Optimized, sys.spin)
		}
		for j := 0; j < tetherN; j++ {
			w.Add(&scene.Object{
				X:      cx + radius*1.3 + rng.Float64()*radius*0.2,
				Y:      cy + (rng.Float64()*2-1)*radius*0.2,
				Width:  3,
				Height: 3,
				Type:   scene.Trigger,
			}, groups.Static, sys.tether)
		}
	}
	return id
}

// Next advances every system's angle. The ring rotates around the center
// by the frame's angle delta and wobbles through a move the rotation
// claims. The spin cluster turns the other way in place. The tether moves
// by a fixed offset shaped by the reference satellite's rotation.
func (s *Scenario) Next(dt float32) *motion.Frame {
	f := &motion.Frame{}
	for _, sys := range s.systems {
		v, done := sys.angle.Update(dt)
		from, to := float64(sys.last), float64(v)
		sys.last = v
		if done {
			sys.angle = gween.New(0, 360, sys.period, ease.Linear)
			sys.last = 0
		}
		sys.phase += float64(dt) * 2

		f.Rotations = append(f.Rotations,
			&motion.RotateAction{
				Target:        sys.ring,
				Center:        sys.center,
				StaticFrom:    from,
				StaticTo:      to,
				OptimizedFrom: from,
				OptimizedTo:   to,
				LockRotation:  sys.lock,
				Finishing:     done,
			},
			&motion.RotateAction{
				Target:        sys.spin,
				StaticFrom:    -2 * from,
				StaticTo:      -2 * to,
				OptimizedFrom: -2 * from,
				OptimizedTo:   -2 * to,
			},
		)

		f.Moves = append(f.Moves, &motion.MoveCommand{
			Target:      sys.ring,
			OptimizedDX: math.Sin(sys.phase) * 0.5,
			OptimizedDY: math.Cos(sys.phase) * 0.5,
		})

		if sys.hasRef {
			tether := &motion.MoveCommand{Target: sys.tether}
			f.Calculations = append(f.Calculations, motion.MoveCalculation{
				Reference: sys.reference,
				Command:   tether,
				Offset:    core.Pt(2, 0),
			})
			f.Moves = append(f.Moves, tether)
		}
	}
	return f
}

func init() {
	registry.Register("orbit", func() registry.Scenario {
		return New()
	})
}
