// Package host provides the host-side collaborators the transform engine
// reports to: the claim ledger and the viewport culler.
package host

import (
	"sync"

	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/motion"
)

// RotationClaim is one ClaimRotation call.
type RotationClaim struct {
	Group, Center int
	Raw, Applied  float32
	Optimized     bool
	Accumulate    bool
}

// MoveClaim is one ClaimMove call and the offset it handed out.
type MoveClaim struct {
	Group     int
	Optimized bool
	Offset    core.Point
}

// Ledger records claims in the order they are made and owns the pending
// move offsets of the current frame.
type Ledger struct {
	mu         sync.Mutex
	frames     uint64
	moves      map[int][]*motion.MoveCommand
	rotations  []RotationClaim
	moveClaims []MoveClaim
	totals     map[int]float32
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		moves:  make(map[int][]*motion.MoveCommand),
		totals: make(map[int]float32),
	}
}

var (
	_ motion.Claimer       = (*Ledger)(nil)
	_ motion.FrameObserver = (*Ledger)(nil)
)

// BeginFrame clears the per-frame claims and indexes the frame's move
// commands by target.
func (l *Ledger) BeginFrame(f *motion.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.frames++
	l.rotations = l.rotations[:0]
	l.moveClaims = l.moveClaims[:0]
	clear(l.moves)
	for _, c := range f.Moves {
		if !c.Disabled {
			l.moves[c.Target] = append(l.moves[c.Target], c)
		}
	}
}

// ClaimRotation records a rotation claim. Accumulating claims add the raw
// delta to the group's running total.
func (l *Ledger) ClaimRotation(group, center int, raw, applied float32, optimized, accumulate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rotations = append(l.rotations, RotationClaim{
		Group:      group,
		Center:     center,
		Raw:        raw,
		Applied:    applied,
		Optimized:  optimized,
		Accumulate: accumulate,
	})
	if accumulate {
		l.totals[group] += raw
	}
}

// ClaimMove takes the pending offsets of every move command targeting
// group in the given namespace. The taken offsets are zeroed, so the move
// phase does not apply them a second time.
func (l *Ledger) ClaimMove(group int, optimized bool) core.Point {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sx, sy float64
	for _, c := range l.moves[group] {
		dx, dy := c.Take(optimized)
		sx += dx
		sy += dy
	}
	p := core.Pt(float32(sx), float32(sy))
	l.moveClaims = append(l.moveClaims, MoveClaim{Group: group, Optimized: optimized, Offset: p})
	return p
}

// Rotations returns this frame's rotation claims in claim order.
func (l *Ledger) Rotations() []RotationClaim {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RotationClaim, len(l.rotations))
	copy(out, l.rotations)
	return out
}

// MoveClaims returns this frame's move claims in claim order.
func (l *Ledger) MoveClaims() []MoveClaim {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]MoveClaim, len(l.moveClaims))
	copy(out, l.moveClaims)
	return out
}

// Total returns the accumulated raw rotation claimed for a group.
func (l *Ledger) Total(group int) float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totals[group]
}

// Frames returns how many frames the ledger has seen.
func (l *Ledger) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
