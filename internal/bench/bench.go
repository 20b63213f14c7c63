// Package bench runs scenarios for a fixed number of frames, times them,
// and checks that parallel modes reproduce the serial checksum.
package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/groupmotion/internal/config"
	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/section"
	"github.com/vovakirdan/groupmotion/internal/sim"
	"github.com/vovakirdan/groupmotion/internal/storage"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
)

// Workload describes one benchmark workload.
type Workload struct {
	Scenario string
	Params   registry.Params
	Frames   int
	DT       float32

	XFactor, YFactor float32
	Viewport         section.Viewport
	Tuning           motion.Tuning
}

// WorkloadFromConfig builds a workload from the configuration.
func WorkloadFromConfig(cfg config.Config) Workload {
	return Workload{
		Scenario: cfg.Workload.Scenario,
		Params: registry.Params{
			Objects: cfg.Workload.Objects,
			Groups:  cfg.Workload.Groups,
			Seed:    cfg.Workload.Seed,
		},
		Frames:   cfg.Workload.Frames,
		DT:       cfg.Workload.DT,
		XFactor:  cfg.Sections.XFactor,
		YFactor:  cfg.Sections.YFactor,
		Viewport: cfg.Sections.ViewportRect(),
		Tuning:   cfg.Engine.Tuning,
	}
}

// Result is the outcome of one run.
type Result struct {
	Scenario string
	Mode     motion.Mode
	Workers  int
	Objects  int
	Groups   int
	Summary  Summary

	// Rotations counts applied rotation actions over the run, and
	// ParallelFrames the frames whose rotations ran one task per action.
	Rotations      int
	ParallelFrames int

	Checksum    uint64
	Reorders    uint64
	Deactivated int
	Activated   int

	// Verified is set when Matched compares Checksum to a serial run.
	Verified bool
	Matched  bool
}

// Record converts the result for run history.
func (r Result) Record() storage.Run {
	return storage.Run{
		Scenario: r.Scenario,
		Mode:     r.Mode.String(),
		Objects:  r.Objects,
		Groups:   r.Groups,
		Frames:   r.Summary.Frames,
		Workers:  r.Workers,
		AvgFrame: r.Summary.Avg,
		MaxFrame: r.Summary.Max,
		P95Frame: r.Summary.P95,
		Checksum: r.Checksum,
		Verified: r.Verified,
		Matched:  r.Matched,
	}
}

// Build creates and populates a world for the workload and wraps it in a
// runner.
func Build(wl Workload, mode motion.Mode, pool *taskpool.Pool, logger *log.Logger) (*sim.Runner, error) {
	sc, err := registry.Create(wl.Scenario)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	w := sim.NewWorld(wl.Params.Objects, wl.XFactor, wl.YFactor, wl.Viewport)
	sc.Populate(w, wl.Params)
	return sim.NewRunner(w, sc, pool, sim.Options{
		Mode:   mode,
		Tuning: wl.Tuning,
		DT:     wl.DT,
		Logger: logger,
	}), nil
}

// Run executes a workload in one mode. It stops early, with an error, when ctx
// is cancelled.
func Run(ctx context.Context, wl Workload, mode motion.Mode, pool *taskpool.Pool, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r, err := Build(wl, mode, pool, logger)
	if err != nil {
		return Result{}, err
	}

	workers := 1
	if pool != nil && mode != motion.Serial {
		workers = pool.Workers()
	}

	rotations, parallelFrames := 0, 0
	prof := NewProfiler(wl.Frames)
	prof.Start()
	for i := 0; i < wl.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("bench: stopped after %d frames: %w", i, err)
		}
		start := time.Now()
		st := r.Step()
		prof.Record(time.Since(start))

		rotations += st.Rotations
		if st.ParallelRotation {
			parallelFrames++
		}
	}
	prof.Stop()

	deactivated, activated := r.Culled()
	res := Result{
		Scenario:    wl.Scenario,
		Mode:        mode,
		Workers:     workers,
		Objects:     r.World().Scene.Len(),
		Groups:      r.World().Groups.Created(groups.General),
		Summary:     prof.Summary(),

		Rotations:      rotations,
		ParallelFrames: parallelFrames,

		Checksum:    r.Checksum(),
		Reorders:    r.World().Index.Reorders(),
		Deactivated: deactivated,
		Activated:   activated,
	}
	logger.Info("run finished",
		"scenario", res.Scenario,
		"mode", res.Mode,
		"frames", res.Summary.Frames,
		"avg", res.Summary.Avg,
		"p95", res.Summary.P95,
		"rotations", res.Rotations,
		"checksum", fmt.Sprintf("%016x", res.Checksum),
	)
	return res, nil
}

// Compare runs the workload serially, then in each of modes, and marks every
// result with whether it reproduced the serial checksum. The serial result
// comes first.
func Compare(ctx context.Context, wl Workload, modes []motion.Mode, pool *taskpool.Pool, logger *log.Logger) ([]Result, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ref, err := Run(ctx, wl, motion.Serial, pool, logger)
	if err != nil {
		return nil, err
	}
	ref.Verified, ref.Matched = true, true
	results := []Result{ref}

	for _, m := range modes {
		if m == motion.Serial {
			continue
		}
		res, err := Run(ctx, wl, m, pool, logger)
		if err != nil {
			return results, err
		}
		res.Verified = true
		res.Matched = res.Checksum == ref.Checksum
		if !res.Matched {
			logger.Warn("checksum mismatch",
				"scenario", wl.Scenario,
				"mode", m,
				"serial", fmt.Sprintf("%016x", ref.Checksum),
				"got", fmt.Sprintf("%016x", res.Checksum),
			)
		}
		results = append(results, res)
	}
	return results, nil
}

// Save records results in run history.
func Save(store *storage.Store, results []Result) error {
	for _, r := range results {
		if _, err := store.SaveRun(r.Record()); err != nil {
			return err
		}
	}
	return nil
}
