package motion

import (
	"sync"
	"testing"
)

func TestSequencerOrdersTurns(t *testing.T) {
	seq := newSequencer()
	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for ticket := 9; ticket >= 0; ticket-- {
		wg.Add(1)
		tk := &turn{seq: seq, ticket: ticket}
		go func() {
			defer wg.Done()
			defer tk.finish()
			tk.enter()
			mu.Lock()
			order = append(order, tk.ticket)
			mu.Unlock()
			tk.leave()
		}()
	}
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, expected ascending tickets", order)
		}
	}
}

func TestTurnFinishWithoutEnter(t *testing.T) {
	seq := newSequencer()
	skip := &turn{seq: seq, ticket: 0}
	skip.finish()

	next := &turn{seq: seq, ticket: 1}
	next.enter()
	next.leave()
	next.finish() // no-op after leave

	if seq.next != 2 {
		t.Errorf("next = %d, expected 2", seq.next)
	}

	var none *turn
	none.enter()
	none.leave()
	none.finish()

	seq.reset()
	if seq.next != 0 {
		t.Error("reset should rewind the sequencer")
	}
}
