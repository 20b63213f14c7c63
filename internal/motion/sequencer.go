package motion

import "sync"

// sequencer hands out turns in ticket order. Rotation tasks use it so host
// claims and rig updates happen in action queue order even when the tasks
// run concurrently. Tickets are issued in submission order and the pool is
// FIFO, so the holder of ticket n-1 is always already running.
type sequencer struct {
	mu   sync.Mutex
	cond *sync.Cond
	next int
}

func newSequencer() *sequencer {
	s := &sequencer{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *sequencer) reset() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}

func (s *sequencer) wait(ticket int) {
	s.mu.Lock()
	for s.next != ticket {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *sequencer) advance() {
	s.mu.Lock()
	s.next++
	s.mu.Unlock()
	s.cond.Broadcast()
}

// turn is one task's ticket. A nil turn is a no-op, which is how the serial
// path runs the same code ungated.
type turn struct {
	seq    *sequencer
	ticket int
	state  uint8 // 0 waiting, 1 holding, 2 done
}

func (t *turn) enter() {
	if t == nil || t.state != 0 {
		return
	}
	t.seq.wait(t.ticket)
	t.state = 1
}

func (t *turn) leave() {
	if t == nil || t.state != 1 {
		return
	}
	t.seq.advance()
	t.state = 2
}

// finish releases the ticket on every exit path, including early returns
// and panics, so later tickets never wait forever.
func (t *turn) finish() {
	if t == nil {
		return
	}
	t.enter()
	t.leave()
}
