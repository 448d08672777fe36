package lru

import "testing"

func newIndex() *index[string] {
	f := New[string]()
	return f.New().(*index[string])
}

func notPinned(string) bool { return false }

func TestLRU_VictimIsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")

	k, ok := x.Victim(notPinned)
	if !ok || k != "a" {
		t.Fatalf("want victim a, got %v ok=%v", k, ok)
	}
}

func TestLRU_TouchPromotesToMRU(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")
	x.Touch("a") // a is now MRU; b is LRU

	k, ok := x.Victim(notPinned)
	if !ok || k != "b" {
		t.Fatalf("want victim b, got %v ok=%v", k, ok)
	}
}

func TestLRU_VictimSkipsPinned(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")

	pinned := func(k string) bool { return k == "a" }
	k, ok := x.Victim(pinned)
	if !ok || k != "b" {
		t.Fatalf("want victim b (a pinned), got %v ok=%v", k, ok)
	}
}

func TestLRU_AllPinnedNoVictim(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")

	_, ok := x.Victim(func(string) bool { return true })
	if ok {
		t.Fatal("expected no victim when everything is pinned")
	}
}

func TestLRU_DeleteAndFreelistReuse(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Delete("a")

	if got := x.Keys(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("want [b], got %v", got)
	}

	// Reinsert to exercise the freed slot.
	x.Insert("c")
	x.Insert("d")
	keys := x.Keys()
	if len(keys) != 3 {
		t.Fatalf("want 3 keys, got %v", keys)
	}
}

func TestLRU_KeysOrderedMRUFirst(t *testing.T) {
	t.Parallel()

	x := newIndex()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")
	x.Touch("a")

	got := x.Keys()
	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestLRU_ClearEmpties(t *testing.T) {
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
