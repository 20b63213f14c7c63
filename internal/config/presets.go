package config

import (
	"fmt"
	"strings"
)

// Preset represents a workload size preset.
type Preset string

const (
	PresetLight  Preset = "light"
	PresetNormal Preset = "normal"
	PresetHeavy  Preset = "heavy"
	PresetStress Preset = "stress"
)

// Presets lists the presets from smallest to largest.
func Presets() []Preset {
	return []Preset{PresetLight, PresetNormal, PresetHeavy, PresetStress}
}

// ParsePreset converts a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q", s)
}

// ApplyPreset scales the workload to a preset.
func ApplyPreset(cfg *Config, preset Preset) {
	w := &cfg.Workload
	switch preset {
	case PresetLight:
		w.Objects = 500
		w.Groups = 10
		w.Frames = 300
	case PresetNormal:
		w.Objects = 5000
		w.Groups = 40
		w.Frames = 600
	case PresetHeavy:
		w.Objects = 50000
		w.Groups = 200
		w.Frames = 600
	case PresetStress:
		w.Objects = 250000
		w.Groups = 1000
		w.Frames = 1200
		// Lower thresholds so every tier is exercised at this size.
		cfg.Engine.Tuning.RotationParallelThreshold = 200
		cfg.Engine.Tuning.ChunkSize = 250
	}
}
