// Package scatter implements a workload of many small groups drifting
// independently. Group sizes are skewed, so a frame mixes inline batches
// with single-task moves.
package scatter

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

const (
	minSpeed = 5.0  // world units per second
	maxSpeed = 90.0 // world units per second
	spread   = 60.0 // initial cluster radius
)

type drift struct {
	id        int
	optimized bool
	heading   float64 // radians
	speed     *gween.Tween
	x, y      float64 // cluster center
}

// Scenario drifts clusters of objects around the viewport.
type Scenario struct {
	rng    *rand.Rand
	drifts []*drift

	ox, oy        float64
	width, height float64
}

// New creates a scatter scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "scatter"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Scatter"
}

// Populate creates p.Groups clusters, alternating static and optimized
// namespaces, and spreads p.Objects over them by random weight.
func (s *Scenario) Populate(w *sim.World, p registry.Params) int {
	s.rng = rand.New(rand.NewSource(p.Seed))
	s.ox, s.oy = w.Origin()
	s.width, s.height = w.Bounds()
	s.drifts = s.drifts[:0]

	n := max(1, p.Groups)
	first := p.First()

	cumulative := make([]float64, n)
	total := 0.0
	for i := range cumulative {
		wgt := s.rng.Float64()
		total += wgt*wgt + 0.02
		cumulative[i] = total
	}

	for i := 0; i < n; i++ {
		s.drifts = append(s.drifts, &drift{
			id:        first + i,
			optimized: i%2 == 1,
			heading:   s.rng.Float64() * 2 * math.Pi,
			speed:     s.newSpeed(float32(minSpeed)),
			x:         s.ox + s.rng.Float64()*s.width,
			y:         s.oy + s.rng.Float64()*s.height,
		})
	}

	for j := 0; j < p.Objects; j++ {
		k := sort.SearchFloat64s(cumulative, s.rng.Float64()*total)
		d := s.drifts[min(k, n-1)]
		ns := groups.Static
		if d.optimized {
			ns = groups.Optimized
		}
		o := &scene.Object{
			X:             d.x + (s.rng.Float64()*2-1)*spread,
			Y:             d.y + (s.rng.Float64()*2-1)*spread,
			Width:         float32(2 + s.rng.Intn(10)),
			Height:        float32(2 + s.rng.Intn(10)),
			CanRotateFree: true,
			Type:          scene.Type(s.rng.Intn(3)),
		}
		w.Add(o, ns, d.id)
	}
	return first + n
}

func (s *Scenario) newSpeed(from float32) *gween.Tween {
	to := float32(minSpeed + s.rng.Float64()*(maxSpeed-minSpeed))
	return gween.New(from, to, float32(1+s.rng.Float64()*3), ease.InOutSine)
}

// Next eases every cluster's speed toward a new target and moves it along
// its heading. Clusters that leave the viewport turn back toward its center.
func (s *Scenario) Next(dt float32) *motion.Frame {
	f := &motion.Frame{Moves: make([]*motion.MoveCommand, 0, len(s.drifts))}
	cx, cy := s.ox+s.width/2, s.oy+s.height/2

	for _, d := range s.drifts {
		v, done := d.speed.Update(dt)
		if done {
			d.speed = s.newSpeed(v)
			d.heading += (s.rng.Float64() - 0.5) * math.Pi / 2
		}

		dx := math.Cos(d.heading) * float64(v) * float64(dt)
		dy := math.Sin(d.heading) * float64(v) * float64(dt)
		d.x += dx
		d.y += dy
		if d.x < s.ox || d.x > s.ox+s.width || d.y < s.oy || d.y > s.oy+s.height {
			d.heading = math.Atan2(cy-d.y, cx-d.x)
		}

		cmd := &motion.MoveCommand{Target: d.id}
		if d.optimized {
			cmd.OptimizedDX, cmd.OptimizedDY = dx, dy
		} else {
			cmd.StaticDX, cmd.StaticDY = dx, dy
		}
		f.Moves = append(f.Moves, cmd)
	}
	return f
}

func init() {
	registry.Register("scatter", func() registry.Scenario {
		return New()
	})
}
