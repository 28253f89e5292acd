package xword

import "testing"

func TestVariantGridContainsAllInitially(t *testing.T) {
	places := []*Placement{
		place(0, Horizontal, 0, 0, word(0, "abc")),
		place(1, Vertical, 0, 0, word(1, "ab")),
	}
	g := NewVariantGrid(places, 3, 3)
	for _, p := range places {
		if !g.Contains(p.ID) {
			t.Errorf("placement %d should be admissible right after construction", p.ID)
		}
	}
}

func TestVariantGridRemove(t *testing.T) {
	places := []*Placement{
		place(0, Horizontal, 0, 0, word(0, "abc")),
		place(1, Vertical, 0, 0, word(1, "ab")),
	}
	g := NewVariantGrid(places, 3, 3)
	g.Remove(0)
	if g.Contains(0) {
		t.Error("placement 0 should be gone after Remove")
	}
	if !g.Contains(1) {
		t.Error("placement 1 should be unaffected by removing placement 0")
	}
	for _, id := range g.IterAt(0, 0) {
		if id == 0 {
			t.Error("cell (0,0) should no longer list the removed placement")
		}
	}
}

func TestVariantGridClone(t *testing.T) {
	places := []*Placement{
		place(0, Horizontal, 0, 0, word(0, "abc")),
		place(1, Vertical, 0, 0, word(1, "ab")),
	}
	g := NewVariantGrid(places, 3, 3)
	clone := g.Clone()
	clone.Remove(0)
	if !g.Contains(0) {
		t.Error("removing from a clone should not affect the original")
	}
	if clone.Contains(0) {
		t.Error("placement 0 should be gone from the clone")
	}
}

func TestVariantGridRemoveIncompatOverlap(t *testing.T) {
	// Two horizontal placements on the same row overlapping at (0,0)-(0,1):
	// placing one should drop the other as incompatible.
	p1 := place(0, Horizontal, 0, 0, word(0, "abc"))
	p2 := place(1, Horizontal, 0, 0, word(1, "de"))
	places := []*Placement{p1, p2}
	g := NewVariantGrid(places, 1, 3)

	g.Remove(p1.ID)
	removed := g.RemoveIncompat(p1.ID)
	found := false
	for _, id := range removed {
		if id == p2.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected the overlapping placement to be reported incompatible")
	}
	if g.Contains(p2.ID) {
		t.Error("the overlapping placement should have been removed from the grid")
	}
}

func TestVariantGridRemoveIncompatLeavesCrossingWord(t *testing.T) {
	// p1 horizontal "ab" at (0,0); p2 vertical "ac" at (0,0) crosses p1 at
	// (0,0), sharing the letter 'a' — these are compatible and should
	// survive each other's incompatibility pass.
	p1 := place(0, Horizontal, 0, 0, word(0, "ab"))
	p2 := place(1, Vertical, 0, 0, word(1, "ac"))
	places := []*Placement{p1, p2}
	g := NewVariantGrid(places, 3, 3)

	g.Remove(p1.ID)
	g.RemoveIncompat(p1.ID)
	if !g.Contains(p2.ID) {
		t.Error("a legally crossing placement should not be removed as incompatible")
	}
}
