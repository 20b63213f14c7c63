package groups

import (
	"sync"
	"testing"

	"github.com/vovakirdan/groupmotion/internal/scene"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{0, 0},
		{42, 42},
		{MaxID, MaxID},
		{MaxID + 1, MaxID},
		{1 << 30, MaxID},
		{-1, 0},
	}
	for _, tc := range tests {
		if got := Clamp(tc.in); got != tc.expected {
			t.Errorf("Clamp(%d) = %d, expected %d", tc.in, got, tc.expected)
		}
	}
}

func TestGetIdempotent(t *testing.T) {
	r := NewRegistry()
	a := r.Get(Static, 7)
	b := r.Get(Static, 7)
	if a != b {
		t.Error("Get should return the same group for the same ID")
	}
	if r.Created(Static) != 1 {
		t.Errorf("Created(Static) = %d, expected 1", r.Created(Static))
	}
	if a.ID() != 7 {
		t.Errorf("ID() = %d, expected 7", a.ID())
	}
}

func TestNamespacesAreDisjoint(t *testing.T) {
	r := NewRegistry()
	s := r.Static(3)
	o := r.Optimized(3)
	g := r.General(3)
	if s == o || o == g || s == g {
		t.Error("each namespace should hold its own group")
	}
	for _, ns := range []Namespace{Static, Optimized, General} {
		if r.Created(ns) != 1 {
			t.Errorf("Created(%s) = %d, expected 1", ns, r.Created(ns))
		}
	}
}

func TestOutOfRangeIDsShareClampedSlot(t *testing.T) {
	r := NewRegistry()
	if r.Get(General, 20000) != r.Get(General, MaxID) {
		t.Error("IDs above MaxID should map to MaxID")
	}
	if r.Get(General, -5) != r.Get(General, 0) {
		t.Error("negative IDs should map to 0")
	}
}

func TestConcurrentCreation(t *testing.T) {
	r := NewRegistry()
	const callers = 64

	results := make([]*Group, callers)
	var start, wg sync.WaitGroup
	start.Add(1)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		i := i
		go func() {
			defer wg.Done()
			start.Wait()
			results[i] = r.Optimized(5)
		}()
	}
	start.Done()
	wg.Wait()

	for i, g := range results {
		if g != results[0] {
			t.Fatalf("caller %d observed a different group", i)
		}
	}
	if r.Created(Optimized) != 1 {
		t.Errorf("Created(Optimized) = %d, expected 1", r.Created(Optimized))
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	r := NewRegistry()
	if r.Lookup(Static, 1) != nil {
		t.Error("Lookup should return nil for a missing group")
	}
	if r.Created(Static) != 0 {
		t.Error("Lookup should not create groups")
	}
	g := r.Static(1)
	if r.Lookup(Static, 1) != g {
		t.Error("Lookup should find a created group")
	}
}

func TestGroupMembers(t *testing.T) {
	g := NewRegistry().General(1)
	if _, ok := g.Main(); ok {
		t.Error("Main() on an empty group should report false")
	}

	g.Add(scene.Handle(4))
	g.Add(scene.Handle(9))
	snap := g.Members()
	g.Add(scene.Handle(11))

	if len(snap) != 2 || snap[0] != 4 || snap[1] != 9 {
		t.Errorf("Members() = %v, expected [4 9]", snap)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", g.Len())
	}
	if h, ok := g.Main(); !ok || h != 4 {
		t.Errorf("Main() = %d, %v, expected 4, true", h, ok)
	}
}

func TestEachOrdered(t *testing.T) {
	r := NewRegistry()
	for _, id := range []int{30, 2, 900, 15} {
		r.Static(id)
	}

	var ids []int
	r.Each(Static, func(g *Group) { ids = append(ids, g.ID()) })

	expected := []int{2, 15, 30, 900}
	if len(ids) != len(expected) {
		t.Fatalf("Each visited %v, expected %v", ids, expected)
	}
	for i := range ids {
		if ids[i] != expected[i] {
			t.Errorf("Each visited %v, expected %v", ids, expected)
			break
		}
	}
}
