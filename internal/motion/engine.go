// Package motion applies a frame's queued move and rotation actions to the
// scene. The Engine decides per frame whether work runs on the calling
// goroutine or on the task pool, and always returns with the pool joined
// and every touched object in its correct section.
package motion

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/groupmotion/internal/groups"
	"github.com/vovakirdan/groupmotion/internal/scene"
	"github.com/vovakirdan/groupmotion/internal/section"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
	"github.com/vovakirdan/groupmotion/internal/xform"
)

// FrameStats describes one Step.
type FrameStats struct {
	Frame uint64

	Rotations        int  // actions applied
	Rotated          int  // objects touched by rotations
	ParallelRotation bool // rotations ran one task per action

	Moved         int
	PrimaryMoved  int
	InlineBatches int
	Tasks         int // single-task move batches
	Chunks        int

	Duration time.Duration
}

// Engine is the per-scene transform context. Step must be called from one
// goroutine at a time.
type Engine struct {
	scene  *scene.Scene
	groups *groups.Registry
	index  *section.Index
	pool   *taskpool.Pool
	claims Claimer
	rig    *xform.Rig
	gate   *sequencer

	tuning Tuning
	mode   Mode
	logger *log.Logger

	stamp uint64
	last  FrameStats

	applied      atomic.Int64
	rotated      atomic.Int64
	moved        atomic.Int64
	primaryMoved atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTuning replaces the tier thresholds.
func WithTuning(t Tuning) Option {
	return func(e *Engine) { e.tuning = t }
}

// WithMode selects serial, parallel or automatic scheduling.
func WithMode(m Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithLogger sets the logger for per-frame debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClaimer sets the host bookkeeping that receives claims.
func WithClaimer(c Claimer) Option {
	return func(e *Engine) { e.claims = c }
}

// WithRig shares a transform rig instead of creating one.
func WithRig(r *xform.Rig) Option {
	return func(e *Engine) { e.rig = r }
}

// New creates an engine over a scene. A nil pool forces Serial mode.
func New(sc *scene.Scene, reg *groups.Registry, ix *section.Index, pool *taskpool.Pool, opts ...Option) *Engine {
	e := &Engine{
		scene:  sc,
		groups: reg,
		index:  ix,
		pool:   pool,
		claims: noopClaimer{},
		gate:   newSequencer(),
		tuning: DefaultTuning(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rig == nil {
		e.rig = xform.NewRig()
	}
	if e.pool == nil {
		e.mode = Serial
	}
	return e
}

// Mode returns the scheduling mode.
func (e *Engine) Mode() Mode { return e.mode }

// Tuning returns the active thresholds.
func (e *Engine) Tuning() Tuning { return e.tuning }

// Stamp returns the current frame stamp. It is incremented at the start of
// every Step.
func (e *Engine) Stamp() uint64 { return e.stamp }

// Last returns the stats of the most recent Step.
func (e *Engine) Last() FrameStats { return e.last }

// Step applies one frame: rotations, then move calculations, then moves.
// It returns once all pool work for the frame has finished.
func (e *Engine) Step(f *Frame) FrameStats {
	start := time.Now()
	e.stamp++
	e.applied.Store(0)
	e.rotated.Store(0)
	e.moved.Store(0)
	e.primaryMoved.Store(0)

	st := FrameStats{Frame: e.stamp}
	if obs, ok := e.claims.(FrameObserver); ok {
		obs.BeginFrame(f)
	}

	e.rotate(f.Rotations, &st)
	e.applyCalculations(f.Calculations)
	e.move(f.Moves, &st)

	st.Rotations = int(e.applied.Load())
	st.Rotated = int(e.rotated.Load())
	st.Moved = int(e.moved.Load())
	st.PrimaryMoved = int(e.primaryMoved.Load())
	st.Duration = time.Since(start)
	e.last = st

	e.logger.Debug("frame",
		"n", st.Frame,
		"rotations", st.Rotations,
		"rotated", st.Rotated,
		"parallel_rotation", st.ParallelRotation,
		"moved", st.Moved,
		"inline", st.InlineBatches,
		"tasks", st.Tasks,
		"chunks", st.Chunks,
		"took", st.Duration,
	)
	return st
}

// submit runs task on the pool, or on the caller if the pool refuses it.
func (e *Engine) submit(task func()) {
	if err := e.pool.Submit(task); err != nil {
		e.logger.Warn("pool rejected task, running inline", "err", err)
		task()
	}
}
