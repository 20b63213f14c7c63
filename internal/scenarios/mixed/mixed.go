// Package mixed runs scatter, conveyor and orbit side by side in one world.
package mixed

import (
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/scenarios/conveyor"
	"github.com/vovakirdan/groupmotion/internal/scenarios/orbit"
	"github.com/vovakirdan/groupmotion/internal/scenarios/scatter"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

// Scenario composes the other workloads. Each part gets its own group id
// range and seed.
type Scenario struct {
	parts []registry.Scenario
}

// New creates a mixed scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "mixed"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Mixed"
}

// Populate gives scatter and conveyor 40% of the objects each and orbit
// the rest. Scatter gets half the group budget, orbit a quarter.
func (s *Scenario) Populate(w *sim.World, p registry.Params) int {
	s.parts = []registry.Scenario{scatter.New(), conveyor.New(), orbit.New()}

	scatterN := p.Objects * 4 / 10
	conveyorN := p.Objects * 4 / 10
	shares := []registry.Params{
		{Objects: scatterN, Groups: max(1, p.Groups/2)},
		{Objects: conveyorN, Groups: p.Groups},
		{Objects: p.Objects - scatterN - conveyorN, Groups: max(orbit.GroupsPerSystem, p.Groups/4)},
	}

	next := p.First()
	for i, part := range s.parts {
		share := shares[i]
		share.Seed = p.Seed + int64(i)
		share.FirstGroup = next
		next = part.Populate(w, share)
	}
	return next
}

// Next concatenates the parts' frames.
func (s *Scenario) Next(dt float32) *motion.Frame {
	f := &motion.Frame{}
	for _, part := range s.parts {
		pf := part.Next(dt)
		f.Rotations = append(f.Rotations, pf.Rotations...)
		f.Calculations = append(f.Calculations, pf.Calculations...)
		f.Moves = append(f.Moves, pf.Moves...)
	}
	return f
}

func init() {
	registry.Register("mixed", func() registry.Scenario {
		return New()
	})
}
