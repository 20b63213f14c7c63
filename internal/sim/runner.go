package sim

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/groupmotion/internal/host"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
)

// Source produces the actions of each frame.
type Source interface {
	Next(dt float32) *motion.Frame
}

// Options configures a Runner.
type Options struct {
	Mode   motion.Mode
	Tuning motion.Tuning
	DT     float32
	Logger *log.Logger
}

// Runner steps a world: the source decides the frame, the engine applies
// it, and the culler settles activation before the next frame.
type Runner struct {
	world  *World
	source Source
	engine *motion.Engine
	ledger *host.Ledger
	culler *host.Culler
	dt     float32
	logger *log.Logger

	deactivated int
	activated   int
}

// NewRunner wires an engine over the world. A nil pool runs serially.
func NewRunner(w *World, src Source, pool *taskpool.Pool, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.DT <= 0 {
		opts.DT = 1.0 / 60
	}
	if opts.Tuning == (motion.Tuning{}) {
		opts.Tuning = motion.DefaultTuning()
	}

	ledger := host.NewLedger()
	return &Runner{
		world:  w,
		source: src,
		engine: motion.New(w.Scene, w.Groups, w.Index, pool,
			motion.WithMode(opts.Mode),
			motion.WithTuning(opts.Tuning),
			motion.WithClaimer(ledger),
			motion.WithLogger(opts.Logger),
		),
		ledger: ledger,
		culler: host.NewCuller(w.Index),
		dt:     opts.DT,
		logger: opts.Logger,
	}
}

// Step runs one frame.
func (r *Runner) Step() motion.FrameStats {
	r.world.Scene.ClearDirty()
	st := r.engine.Step(r.source.Next(r.dt))
	r.deactivated += r.culler.Deactivate()
	r.activated += r.culler.Activate()
	return st
}

// Run steps n frames and calls fn, if set, after each one.
func (r *Runner) Run(n int, fn func(motion.FrameStats)) {
	for i := 0; i < n; i++ {
		st := r.Step()
		if fn != nil {
			fn(st)
		}
	}
}

// World returns the stepped world.
func (r *Runner) World() *World { return r.world }

// Engine returns the engine.
func (r *Runner) Engine() *motion.Engine { return r.engine }

// Ledger returns the claim ledger.
func (r *Runner) Ledger() *host.Ledger { return r.ledger }

// Culled returns how many deactivations and reactivations the culler has
// made so far.
func (r *Runner) Culled() (deactivated, activated int) {
	return r.deactivated, r.activated
}

// Checksum hashes the scene state.
func (r *Runner) Checksum() uint64 {
	return r.world.Scene.Checksum()
}
