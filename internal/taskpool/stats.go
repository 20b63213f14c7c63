package taskpool

// Stats is a snapshot of pool counters.
type Stats struct {
	// Submitted is the number of tasks accepted by Submit.
	Submitted uint64

	// Completed counts finished tasks, including ones that panicked.
	Completed uint64

	// Panicked counts tasks whose panic was recovered.
	Panicked uint64

	// Queued is the number of tasks waiting for a worker.
	Queued int

	// Busy is the number of workers currently running a task.
	Busy int

	// Workers is the fixed worker count.
	Workers int
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	queued := len(p.queue) - p.head
	busy := p.running
	p.mu.Unlock()

	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Queued:    queued,
		Busy:      busy,
		Workers:   len(p.busy),
	}
}
