package taskpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestNewDefaults(t *testing.T) {
	p := newTestPool(t)
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, expected at least 1", p.Workers())
	}

	p2 := newTestPool(t, WithWorkers(3))
	if p2.Workers() != 3 {
		t.Errorf("Workers() = %d, expected 3", p2.Workers())
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(WithWorkers(-1))
	if err == nil {
		t.Fatal("New(WithWorkers(-1)) should fail")
	}
	var perr *PoolError
	if !errors.As(err, &perr) {
		t.Errorf("expected *PoolError, got %T", err)
	}
}

func TestSubmitErrors(t *testing.T) {
	p, err := New(WithWorkers(1))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := p.Submit(nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("Submit(nil) = %v, expected ErrNilTask", err)
	}

	p.Close()
	if err := p.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit after Close = %v, expected ErrPoolClosed", err)
	}

	// Close is idempotent
	p.Close()
}

func TestJoinWaitsForRunningTasks(t *testing.T) {
	p := newTestPool(t, WithWorkers(4))

	var done atomic.Int64
	for i := 0; i < 64; i++ {
		if err := p.Submit(func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		}); err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
	}
	p.Join()

	if got := done.Load(); got != 64 {
		t.Errorf("After Join, done = %d, expected 64", got)
	}
}

func TestJoinRepeatedFrames(t *testing.T) {
	p := newTestPool(t, WithWorkers(3))

	// Many short barriers in a row, like one Join per frame.
	for frame := 0; frame < 200; frame++ {
		var n atomic.Int64
		for i := 0; i < 10; i++ {
			_ = p.Submit(func() { n.Add(1) })
		}
		p.Join()
		if got := n.Load(); got != 10 {
			t.Fatalf("frame %d: done = %d after Join, expected 10", frame, got)
		}
	}
}

func TestJoinEmptyPool(t *testing.T) {
	p := newTestPool(t, WithWorkers(2))

	finished := make(chan struct{})
	go func() {
		p.Join()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Join on an idle pool should return immediately")
	}
}

func TestFIFOOrderSingleWorker(t *testing.T) {
	p := newTestPool(t, WithWorkers(1))

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		_ = p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	p.Join()

	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, expected %d", i, v, i)
		}
	}
}

func TestPanicIsolation(t *testing.T) {
	var handled atomic.Int64
	p := newTestPool(t,
		WithWorkers(2),
		WithPanicHandler(func(e *PanicError) {
			if e.Value != "boom" {
				t.Errorf("PanicError.Value = %v, expected boom", e.Value)
			}
			handled.Add(1)
		}),
	)

	var ran atomic.Int64
	for i := 0; i < 10; i++ {
		i := i
		_ = p.Submit(func() {
			if i%2 == 0 {
				panic("boom")
			}
			ran.Add(1)
		})
	}
	p.Join()

	if ran.Load() != 5 {
		t.Errorf("ran = %d, expected 5", ran.Load())
	}
	if handled.Load() != 5 {
		t.Errorf("handled = %d, expected 5", handled.Load())
	}

	st := p.Stats()
	if st.Submitted != 10 || st.Completed != 10 || st.Panicked != 5 {
		t.Errorf("Stats() = %+v, expected 10 submitted, 10 completed, 5 panicked", st)
	}
	if st.Busy != 0 || st.Queued != 0 {
		t.Errorf("Stats() after Join should be idle, got %+v", st)
	}

	// Pool keeps serving after panics.
	var after atomic.Bool
	_ = p.Submit(func() { after.Store(true) })
	p.Join()
	if !after.Load() {
		t.Error("Pool should keep running tasks after a panic")
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	p, err := New(WithWorkers(2))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var n atomic.Int64
	for i := 0; i < 100; i++ {
		_ = p.Submit(func() { n.Add(1) })
	}
	p.Close()

	if n.Load() != 100 {
		t.Errorf("Close should drain the queue, ran %d of 100", n.Load())
	}
}

func TestPoolErrorFormat(t *testing.T) {
	if got := ErrPoolClosed.Error(); got != "taskpool: pool is closed" {
		t.Errorf("Error() = %q", got)
	}
	wrapped := &PoolError{msg: "worker 1 error", err: errors.New("inner")}
	if got := wrapped.Error(); got != "taskpool: worker 1 error: inner" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Unwrap(wrapped) == nil {
		t.Error("Unwrap() should return the inner error")
	}
}
