package watcher

import "testing"

func TestUpdateMissingSampleKeepsPair(t *testing.T) {
	var w Watcher[int]
	if _, ok := w.Update(0, false); ok {
		t.Fatal("expected no pair from a missing sample")
	}
	if _, ok := w.Pair(); ok {
		t.Fatal("expected empty watcher after missing sample")
	}

	w.UpdateInfallible(4)
	w.UpdateInfallible(7)
	for i := 0; i < 5; i++ {
		w.Update(99, false)
	}

	p, ok := w.Pair()
	if !ok || p.Old != 4 || p.Current != 7 {
		t.Fatalf("expected 4 -> 7, got %v (ok=%v)", p, ok)
	}
}

func TestFirstSampleFillsBothSlots(t *testing.T) {
	var w Watcher[string]
	p := w.UpdateInfallible("menu")
	if p.Old != "menu" || p.Current != "menu" || p.Changed() {
		t.Fatalf("expected steady first pair, got %v", p)
	}
}

func TestRepeatedSampleIsNotAChange(t *testing.T) {
	var w Watcher[int]
	w.UpdateInfallible(3)
	p, _ := w.Update(3, true)
	if p.Old != 3 || p.Current != 3 {
		t.Fatalf("expected 3 -> 3, got %v", p)
	}
	if p.Changed() || p.ChangedTo(3) {
		t.Fatal("expected no change for a repeated sample")
	}
}

func TestChangedToFiresOnce(t *testing.T) {
	var w Watcher[uint32]
	var fired []int
	for i, v := range []uint32{5, 5, 0, 0, 3} {
		p := w.UpdateInfallible(v)
		if p.ChangedTo(0) {
			fired = append(fired, i)
		}
	}
	if len(fired) != 1 || fired[0] != 2 {
		t.Fatalf("expected ChangedTo(0) exactly at step 2, got %v", fired)
	}
}

func TestChangedFromTo(t *testing.T) {
	p := Pair[string]{Old: "menu", Current: "hub"}
	if !p.ChangedFromTo("menu", "hub") {
		t.Fatal("expected menu -> hub")
	}
	if p.ChangedFromTo("hub", "hub") {
		t.Fatal("did not expect hub -> hub")
	}
	if !p.ChangedFrom("menu") || p.ChangedFrom("hub") {
		t.Fatal("unexpected ChangedFrom result")
	}
}

func TestReset(t *testing.T) {
	var w Watcher[bool]
	w.UpdateInfallible(true)
	w.Reset()
	if _, ok := w.Current(); ok {
		t.Fatal("expected no sample after reset")
	}
	p := w.UpdateInfallible(false)
	if p.Changed() {
		t.Fatalf("expected no change on first sample after reset, got %v", p)
	}
}
