// Package taskpool provides the fixed-size worker pool the transform
// engine schedules onto. Tasks are plain closures run in FIFO order; Join
// is the per-frame barrier.
package taskpool

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size pool of workers sharing one FIFO queue.
type Pool struct {
	mu    sync.Mutex
	work  *sync.Cond // signalled when a task is queued or the pool closes
	idle  *sync.Cond // broadcast when the queue drains and no worker is busy
	queue []func()
	head  int

	// busy[i] is set by worker i in the same critical section that pops
	// its task, so Join can never observe an empty queue while a dequeued
	// task has not started.
	busy    []bool
	running int
	closed  bool

	submitted atomic.Uint64
	completed atomic.Uint64
	panicked  atomic.Uint64

	config    Config
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a pool and starts its workers.
func New(opts ...Option) (*Pool, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		busy:   make([]bool, config.Workers),
		config: config,
	}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)

	p.wg.Add(config.Workers)
	for i := 0; i < config.Workers; i++ {
		go p.worker(i)
	}
	return p, nil
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return len(p.busy)
}

// Submit enqueues a task and wakes one sleeping worker. It never blocks on
// task execution.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.queue = append(p.queue, task)
	p.submitted.Add(1)
	p.mu.Unlock()

	p.work.Signal()
	return nil
}

// Join blocks until the queue is empty and no worker is mid-task.
// It must not be called from inside a pool task.
func (p *Pool) Join() {
	p.mu.Lock()
	for p.head < len(p.queue) || p.running > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close drains the queue, then stops the workers. It is safe to call more
// than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.Join()
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		p.work.Broadcast()
		p.wg.Wait()
	})
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.head == len(p.queue) && !p.closed {
			p.work.Wait()
		}
		if p.head == len(p.queue) {
			p.mu.Unlock()
			return
		}
		task := p.pop()
		p.busy[id] = true
		p.running++
		p.mu.Unlock()

		p.executeTask(task)

		p.mu.Lock()
		p.busy[id] = false
		p.running--
		if p.running == 0 && p.head == len(p.queue) {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}
}

// pop removes the front task. Caller holds p.mu and the queue is non-empty.
func (p *Pool) pop() func() {
	task := p.queue[p.head]
	p.queue[p.head] = nil
	p.head++
	if p.head == len(p.queue) {
		p.queue = p.queue[:0]
		p.head = 0
	}
	return task
}

// executeTask runs a task with panic recovery. A panicking task is counted
// and reported, and the worker keeps serving.
func (p *Pool) executeTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Value: r, Stack: string(debug.Stack())}
			p.panicked.Add(1)
			if p.config.Logger != nil {
				p.config.Logger.Error("task panicked", "value", r, "stack", perr.Stack)
			}
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(perr)
			}
		}
		p.completed.Add(1)
	}()

	task()
}
