// Package conveyor implements a workload of a few huge groups sliding back
// and forth across the viewport edge. Every belt is large enough to be
// chunked, and objects keep crossing sections and leaving the view.
package conveyor

import (
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

// MaxBelts caps the number of belts regardless of the group budget.
const MaxBelts = 4

type belt struct {
	id      int
	stroke  *gween.Tween
	pos     float32
	reach   float32
	period  float32
	forward bool
}

// Scenario slides belts of objects along the x axis.
type Scenario struct {
	belts []*belt
}

// New creates a conveyor scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "conveyor"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Conveyor"
}

// Belts returns how many belts a group budget yields.
func Belts(groupBudget int) int {
	return max(1, min(MaxBelts, groupBudget/10))
}

// Populate lays p.Objects out evenly over horizontal belts covering the
// viewport. Belt objects are primary static objects.
func (s *Scenario) Populate(w *sim.World, p registry.Params) int {
	rng := rand.New(rand.NewSource(p.Seed))
	ox, oy := w.Origin()
	width, height := w.Bounds()

	n := Belts(p.Groups)
	first := p.First()
	s.belts = s.belts[:0]

	for i := 0; i < n; i++ {
		b := &belt{
			id:      first + i,
			reach:   float32(width / 4),
			period:  float32(2 + rng.Float64()*2),
			forward: true,
		}
		b.stroke = gween.New(0, b.reach, b.period, ease.InOutQuad)
		s.belts = append(s.belts, b)
	}

	lane := height / float64(n)
	per := float64(max(1, (p.Objects+n-1)/n))
	for j := 0; j < p.Objects; j++ {
		b, i := j%n, j/n
		o := &scene.Object{
			X:      ox + width*float64(i)/per,
			Y:      oy + lane*(float64(b)+0.1+rng.Float64()*0.8),
			Width:  4,
			Height: 4,
			Type:   scene.Solid,
		}
		w.Add(o, groups.Static, s.belts[b].id)
	}
	return first + n
}

// Next advances each belt's stroke and moves the belt by the difference.
func (s *Scenario) Next(dt float32) *motion.Frame {
	f := &motion.Frame{Moves: make([]*motion.MoveCommand, 0, len(s.belts))}
	for _, b := range s.belts {
		v, done := b.stroke.Update(dt)
		dx := float64(v - b.pos)
		b.pos = v
		if done {
			b.forward = !b.forward
			to := float32(0)
			if b.forward {
				to = b.reach
			}
			b.stroke = gween.New(v, to, b.period, ease.InOutQuad)
		}
		f.Moves = append(f.Moves, &motion.MoveCommand{
			Target:   b.id,
			StaticDX: dx,
			Primary:  true,
		})
	}
	return f
}

func init() {
	registry.Register("conveyor", func() registry.Scenario {
		return New()
	})
}
