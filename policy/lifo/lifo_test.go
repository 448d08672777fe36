package lifo

import "testing"

func newIndex() *index[string] {
	f := New[string]()
	return f.New().(*index[string])
}

func notPinned(string) bool { return false }

func TestLIFO_VictimIsMostRecentArrival(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")

	k, ok := x.Victim(notPinned)
	if !ok || k != "c" {
		t.Fatalf("want victim c, got %v ok=%v", k, ok)
	}
}

func TestLIFO_TouchPromotesToTop(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")
	x.Touch("a")

	k, ok := x.Victim(notPinned)
	if !ok || k != "a" {
		t.Fatalf("want victim a, got %v ok=%v", k, ok)
	}
}

func TestLIFO_VictimSkipsPinnedPreservingOrder(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")

	pinned := func(k string) bool { return k == "c" }
	k, ok := x.Victim(pinned)
	if !ok || k != "b" {
		t.Fatalf("want victim b (c pinned), got %v ok=%v", k, ok)
	}

	// c should still be on top for a subsequent unpinned scan.
	k, ok = x.Victim(notPinned)
	if !ok || k != "c" {
		t.Fatalf("want victim c, got %v ok=%v", k, ok)
	}
}

func TestLIFO_DeleteRemovesStaleEntry(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Delete("b")

	k, ok := x.Victim(notPinned)
	if !ok || k != "a" {
		t.Fatalf("want victim a, got %v ok=%v", k, ok)
	}
}

func TestLIFO_CompactionPreservesOrderAndLiveness(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("shared")
	for i := 0; i < 200; i++ {
		x.Touch("shared")
	}
	x.Insert("other")

	keys := x.Keys()
	if len(keys) != 2 {
		t.Fatalf("want 2 live keys after heavy churn, got %v", keys)
	}

	k, ok := x.Victim(notPinned)
	if !ok || k != "other" {
		t.Fatalf("want victim other, got %v ok=%v", k, ok)
	}
}

func TestLIFO_ClearEmpties(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Clear()

	if got := x.Keys(); len(got) != 0 {
		t.Fatalf("want empty after Clear, got %v", got)
	}
	if _, ok := x.Victim(notPinned); ok {
		t.Fatal("expected no victim after Clear")
	}
}
