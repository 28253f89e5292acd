package xword

import "testing"

func TestFixedGridPlaceAndRender(t *testing.T) {
	g := NewFixedGrid[*Placement](1, 3, NewDeterministicRng(1))
	p := place(0, Horizontal, 0, 0, word(0, "abc"))
	g.Place(p)
	if got, want := g.String(), "abc\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFixedGridEfficiencyCountsCrossings(t *testing.T) {
	g := NewFixedGrid[*Placement](3, 3, NewDeterministicRng(1))
	p1 := place(0, Horizontal, 0, 0, word(0, "ab"))
	p2 := place(1, Vertical, 0, 0, word(1, "ac"))
	g.Place(p1)
	g.Place(p2)
	// the two placements cross exactly once, each contributing 1 to the
	// OR-folded efficiency: 2 total.
	if got, want := g.Efficiency(), Eff(2); got != want {
		t.Errorf("Efficiency() = %d, want %d", got, want)
	}
}

func TestFixedGridDelete(t *testing.T) {
	g := NewFixedGrid[*Placement](1, 3, NewDeterministicRng(1))
	p := place(0, Horizontal, 0, 0, word(0, "abc"))
	g.Place(p)
	mv, _, ok := g.Delete(p.ID)
	if !ok {
		t.Fatal("Delete of a just-placed id should report ok")
	}
	if mv.ID != p.ID {
		t.Errorf("Delete returned placement %d, want %d", mv.ID, p.ID)
	}
	if got, want := g.String(), "___\n"; got != want {
		t.Errorf("String() after Delete = %q, want %q", got, want)
	}
	if _, _, ok := g.Delete(p.ID); ok {
		t.Error("deleting an already-deleted id should report not ok")
	}
}

func TestFixedGridAdjacenciesOf(t *testing.T) {
	// "ab" horizontal at row 0 and "cd" horizontal at row 1, directly below
	// without crossing: every cell of each is adjacent to the other.
	g := NewFixedGrid[*Placement](2, 2, NewDeterministicRng(1))
	p1 := place(0, Horizontal, 0, 0, word(0, "ab"))
	p2 := place(1, Horizontal, 1, 0, word(1, "cd"))
	g.Place(p1)
	g.Place(p2)
	if len(g.AdjacenciesOf(p1.ID)) == 0 {
		t.Error("expected an illegal adjacency between two parallel touching words")
	}
}

func TestFixedGridFixupAdjacentResolvesOrRemoves(t *testing.T) {
	g := NewFixedGrid[*Placement](2, 2, NewDeterministicRng(1))
	p1 := place(0, Horizontal, 0, 0, word(0, "ab"))
	p2 := place(1, Horizontal, 1, 0, word(1, "cd"))
	g.Place(p1)
	g.Place(p2)

	valid, removed, _ := g.FixupAdjacent()
	if len(valid)+len(removed) != 2 {
		t.Fatalf("expected every placed move to end up valid or removed, got %d valid + %d removed", len(valid), len(removed))
	}
	for _, mv := range valid {
		if adjs := g.AdjacenciesOf(mv.ID); len(adjs) != 0 {
			t.Errorf("placement %d should have no illegal adjacency left after FixupAdjacent", mv.ID)
		}
	}
}
