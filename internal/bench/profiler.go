package bench

import (
	"math"
	"runtime"
	"slices"
	"time"
)

// Profiler collects per-frame durations and the heap churn of a run.
type Profiler struct {
	samples    []time.Duration
	memStats   runtime.MemStats
	startAlloc uint64
	startGC    uint32
	allocated  uint64
	gcs        uint32
}

// NewProfiler creates a profiler sized for n frames.
func NewProfiler(n int) *Profiler {
	return &Profiler{samples: make([]time.Duration, 0, n)}
}

// Start snapshots the allocator counters.
func (p *Profiler) Start() {
	runtime.ReadMemStats(&p.memStats)
	p.startAlloc = p.memStats.TotalAlloc
	p.startGC = p.memStats.NumGC
}

// Stop records the allocator counters' growth since Start.
func (p *Profiler) Stop() {
	runtime.ReadMemStats(&p.memStats)
	p.allocated = p.memStats.TotalAlloc - p.startAlloc
	p.gcs = p.memStats.NumGC - p.startGC
}

// Record adds one frame time.
func (p *Profiler) Record(d time.Duration) {
	p.samples = append(p.samples, d)
}

// Summary holds frame time statistics.
type Summary struct {
	Frames  int
	Total   time.Duration
	Avg     time.Duration
	Max     time.Duration
	P95     time.Duration
	AllocMB float64
	GCs     uint32
}

// Summary computes statistics over the recorded frames.
func (p *Profiler) Summary() Summary {
	s := Summary{
		Frames:  len(p.samples),
		AllocMB: float64(p.allocated) / 1024 / 1024,
		GCs:     p.gcs,
	}
	if s.Frames == 0 {
		return s
	}

	sorted := slices.Clone(p.samples)
	slices.Sort(sorted)
	for _, d := range sorted {
		s.Total += d
	}
	s.Avg = s.Total / time.Duration(s.Frames)
	s.Max = sorted[len(sorted)-1]
	s.P95 = sorted[int(math.Ceil(0.95*float64(s.Frames)))-1]
	return s
}

// FPS returns the frame rate the average frame time allows.
func (s Summary) FPS() float64 {
	if s.Avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Avg)
}
