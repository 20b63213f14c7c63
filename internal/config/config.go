// Package config provides YAML-based configuration loading and workload
// presets for groupmotion.
package config

import (
	"fmt"

	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/section"
)

// Config contains the whole groupmotion configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Sections SectionsConfig `yaml:"sections"`
	Workload WorkloadConfig `yaml:"workload"`
	Storage  StorageConfig  `yaml:"storage"`
}

// EngineConfig defines the pool size, scheduling mode and tier thresholds.
type EngineConfig struct {
	Workers int           `yaml:"workers"` // 0 means one per CPU
	Mode    string        `yaml:"mode"`
	Tuning  motion.Tuning `yaml:"tuning"`
}

// SectionsConfig defines the spatial index.
type SectionsConfig struct {
	XFactor  float32        `yaml:"x_factor"`
	YFactor  float32        `yaml:"y_factor"`
	Viewport ViewportConfig `yaml:"viewport"`
}

// ViewportConfig is the active bucket window, inclusive.
type ViewportConfig struct {
	Left   int32 `yaml:"left"`
	Right  int32 `yaml:"right"`
	Bottom int32 `yaml:"bottom"`
	Top    int32 `yaml:"top"`
}

// WorkloadConfig defines the generated scene and how long it runs.
type WorkloadConfig struct {
	Scenario string  `yaml:"scenario"`
	Objects  int     `yaml:"objects"`
	Groups   int     `yaml:"groups"`
	Frames   int     `yaml:"frames"`
	Seed     int64   `yaml:"seed"`
	DT       float32 `yaml:"dt"`        // seconds per frame
	TickRate int     `yaml:"tick_rate"` // frames per second in watch mode
}

// StorageConfig defines where run history is kept.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Workers: 0,
			Mode:    "auto",
			Tuning:  motion.DefaultTuning(),
		},
		Sections: SectionsConfig{
			XFactor: 0.01,
			YFactor: 0.01,
			Viewport: ViewportConfig{
				Left:   0,
				Right:  39,
				Bottom: 0,
				Top:    19,
			},
		},
		Workload: WorkloadConfig{
			Scenario: "mixed",
			Objects:  5000,
			Groups:   40,
			Frames:   600,
			Seed:     1,
			DT:       1.0 / 60,
			TickRate: 30,
		},
		Storage: StorageConfig{
			Path: "~/.groupmotion/runs.db",
		},
	}
}

// Mode parses the configured scheduling mode.
func (c Config) Mode() (motion.Mode, error) {
	return motion.ParseMode(c.Engine.Mode)
}

// ViewportRect converts the configured window for the section index.
func (s SectionsConfig) ViewportRect() section.Viewport {
	return section.Viewport{
		Left:   s.Viewport.Left,
		Right:  s.Viewport.Right,
		Bottom: s.Viewport.Bottom,
		Top:    s.Viewport.Top,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("config: engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("config: engine.mode: %w", err)
	}
	if err := c.Engine.Tuning.Validate(); err != nil {
		return fmt.Errorf("config: engine.tuning: %w", err)
	}
	if c.Sections.XFactor <= 0 || c.Sections.YFactor <= 0 {
		return fmt.Errorf("config: section factors must be > 0")
	}
	vp := c.Sections.Viewport
	if vp.Left > vp.Right || vp.Bottom > vp.Top {
		return fmt.Errorf("config: empty viewport %d..%d x %d..%d", vp.Left, vp.Right, vp.Bottom, vp.Top)
	}
	w := c.Workload
	if w.Objects <= 0 {
		return fmt.Errorf("config: workload.objects must be > 0, got %d", w.Objects)
	}
	if w.Groups <= 0 || w.Groups > 9999 {
		return fmt.Errorf("config: workload.groups must be in 1..9999, got %d", w.Groups)
	}
	if w.Frames < 0 {
		return fmt.Errorf("config: workload.frames must be >= 0, got %d", w.Frames)
	}
	if w.DT <= 0 {
		return fmt.Errorf("config: workload.dt must be > 0")
	}
	if w.TickRate <= 0 {
		return fmt.Errorf("config: workload.tick_rate must be > 0, got %d", w.TickRate)
	}
	return nil
}
