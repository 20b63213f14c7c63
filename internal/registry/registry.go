// Package registry provides a global registry for workload scenarios.
// Scenarios register themselves in init() functions, allowing the CLI and
// the watch view to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

// Params sizes a scenario.
type Params struct {
	Objects int
	Groups  int
	Seed    int64

	// FirstGroup is the lowest group id the scenario may use. Zero means 1.
	FirstGroup int
}

// First returns the effective first group id.
func (p Params) First() int {
	if p.FirstGroup <= 0 {
		return 1
	}
	return p.FirstGroup
}

// Scenario is a seeded workload generator. It populates a world once and
// then decides each frame's rotations and moves.
type Scenario interface {
	// ID returns a unique identifier (e.g., "orbit"). Used for CLI
	// commands and run history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Populate fills the world and returns the next unused group id.
	Populate(w *sim.World, p Params) int

	// Next advances the scenario's tweens by dt seconds and returns the
	// frame's actions.
	Next(dt float32) *motion.Frame
}

// ScenarioInfo contains metadata about a registered scenario.
type ScenarioInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from a scenario's init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f().Title()
}

// List returns information about all registered scenarios, sorted by ID.
func List() []ScenarioInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ScenarioInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ScenarioInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scenario by its ID.
// Returns an error if the scenario ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
