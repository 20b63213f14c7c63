package motion

import (
	"fmt"
	"strings"
)

// Tuning holds the scheduler's tier thresholds.
type Tuning struct {
	// RotationParallelThreshold is the affected-object count above which
	// rotations run one task per action.
	RotationParallelThreshold int `yaml:"rotation_parallel_threshold"`

	// Groups smaller than InlineBatchMax run on the frame goroutine while
	// the frame's inline total is below InlineTotalCap.
	InlineBatchMax int `yaml:"inline_batch_max"`
	InlineTotalCap int `yaml:"inline_total_cap"`

	// ChunkThreshold is the group size from which moves are chunked.
	ChunkThreshold int `yaml:"chunk_threshold"`
	ChunkSize      int `yaml:"chunk_size"`
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		RotationParallelThreshold: 1000,
		InlineBatchMax:            50,
		InlineTotalCap:            500,
		ChunkThreshold:            1000,
		ChunkSize:                 500,
	}
}

// Validate checks the thresholds.
func (t Tuning) Validate() error {
	if t.RotationParallelThreshold < 0 || t.InlineBatchMax < 0 || t.InlineTotalCap < 0 {
		return fmt.Errorf("motion: thresholds must be >= 0")
	}
	if t.ChunkSize <= 0 {
		return fmt.Errorf("motion: chunk size must be > 0, got %d", t.ChunkSize)
	}
	if t.ChunkThreshold < t.InlineBatchMax {
		return fmt.Errorf("motion: chunk threshold %d is below inline batch max %d", t.ChunkThreshold, t.InlineBatchMax)
	}
	return nil
}

// Mode selects how the scheduler uses the pool.
type Mode int

const (
	// Auto picks tiers from the thresholds.
	Auto Mode = iota
	// Serial never touches the pool and never locks. It is the reference
	// computation.
	Serial
	// Parallel sends every rotation and every move batch to the pool.
	Parallel
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Serial:
		return "serial"
	case Parallel:
		return "parallel"
	}
	return "unknown"
}

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "serial":
		return Serial, nil
	case "parallel":
		return Parallel, nil
	}
	return Auto, fmt.Errorf("motion: unknown mode %q", s)
}
