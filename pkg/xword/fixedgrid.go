package xword

import (
	"sort"
	"strings"
)

// PlaceMove is anything that wraps (or is) a Placement, so FixedGrid can
// track richer move types — e.g. ones also carrying NRPA search-policy
// bookkeeping — without knowing about them directly.
type PlaceMove interface {
	Place() *Placement
}

// Eff is a board's fill efficiency: the number of letter cells that are
// actually crossed by two words, summed across every committed placement.
type Eff int32

// AdjacencyInfo reports a cell of a placement that runs alongside another
// word's cell without crossing it — the "illegal adjacency" a crossword
// construction must avoid.
type AdjacencyInfo struct {
	Y, X int
	Or   Orientation
}

type fixedGridMove[Move PlaceMove] struct {
	Mv         Move
	movesIdx   int
	dependants []PlacementID
}

// FixedGrid tracks the placements committed so far during one construction
// rollout: which cells they cover, in what order they were placed, and how
// they depend on each other for their crossing letters. Move is generic so
// callers can attach search bookkeeping (e.g. the NRPA policy's score) to
// each committed placement.
type FixedGrid[Move PlaceMove] struct {
	h, w    int
	field   [][][]PlacementID
	moves   map[PlacementID]*fixedGridMove[Move]
	rng     AbstractRng
	counter int
}

// NewFixedGrid returns an empty grid of the given dimensions.
func NewFixedGrid[Move PlaceMove](h, w int, rng AbstractRng) *FixedGrid[Move] {
	field := make([][][]PlacementID, h)
	for y := range field {
		field[y] = make([][]PlacementID, w)
	}
	return &FixedGrid[Move]{h: h, w: w, field: field, moves: make(map[PlacementID]*fixedGridMove[Move]), rng: rng}
}

// Place commits mv, recording it as covering every cell its placement
// folds over.
func (g *FixedGrid[Move]) Place(mv Move) {
	place := mv.Place()
	FoldPositions(place, struct{}{}, func(_ struct{}, y, x int) struct{} {
		g.field[y][x] = append(g.field[y][x], place.ID)
		return struct{}{}
	})
	g.moves[place.ID] = &fixedGridMove[Move]{Mv: mv, movesIdx: g.counter}
	g.counter++
}

// Delete removes a committed placement and returns it, along with whether
// it was present. Dependants recorded against it by FixupAdjacent are left
// untouched on the deleted move's record — callers that need them must read
// them before deleting.
func (g *FixedGrid[Move]) Delete(id PlacementID) (Move, []PlacementID, bool) {
	bmv, ok := g.moves[id]
	if !ok {
		var zero Move
		return zero, nil, false
	}
	delete(g.moves, id)
	place := bmv.Mv.Place()
	FoldPositions(place, struct{}{}, func(_ struct{}, y, x int) struct{} {
		g.removeFromCell(y, x, id)
		return struct{}{}
	})
	return bmv.Mv, bmv.dependants, true
}

func (g *FixedGrid[Move]) removeFromCell(y, x int, id PlacementID) {
	items := g.field[y][x]
	n := len(items)
	if n == 0 {
		return
	} else if n == 1 || items[0] == id {
		items[0] = items[n-1]
		g.field[y][x] = items[:n-1]
	} else {
		g.field[y][x] = items[:1]
	}
}

// Efficiency folds, for every committed placement, an OR across its cells
// of (occupants at that cell - 1), then sums across placements. A cell
// crossed by two words contributes 1 to each of the two placements that
// meet there; an uncrossed cell contributes 0.
func (g *FixedGrid[Move]) Efficiency() Eff {
	acc := 0
	for _, bmv := range g.moves {
		place := bmv.Mv.Place()
		acc += FoldPositions(place, 0, func(flag, y, x int) int {
			return flag | (len(g.field[y][x]) - 1)
		})
	}
	return Eff(acc)
}

// AdjacenciesOf reports every cell of the given committed placement that
// runs directly alongside another word's cell without crossing it.
func (g *FixedGrid[Move]) AdjacenciesOf(id PlacementID) []AdjacencyInfo {
	place := g.moves[id].Mv.Place()
	perpOr := place.Orientation.Perp()
	yd, xd := place.Orientation.Align(1, 0)

	var adjacencies []AdjacencyInfo
	FoldPositions(place, struct{}{}, func(_ struct{}, y, x int) struct{} {
		if len(g.field[y][x]) == 2 {
			return struct{}{}
		}
		y1, x1 := y-yd, x-xd
		y2, x2 := y+yd, x+xd
		if g.countWordsAt(y1, x1) == 1 || g.countWordsAt(y2, x2) == 1 {
			adjacencies = append(adjacencies, AdjacencyInfo{Y: y, X: x, Or: perpOr})
		}
		return struct{}{}
	})
	return adjacencies
}

func (g *FixedGrid[Move]) countWordsAt(y, x int) int {
	if y < 0 || y >= g.h || x < 0 || x >= g.w {
		return 0
	}
	return len(g.field[y][x])
}

// FixupAdjacent resolves every illegal adjacency left on the grid by
// repeatedly flipping a coin per offending placement: delete it, or keep
// it and hope a later deletion elsewhere clears the violation. Deleting a
// placement reopens its dependants (the words crossing it) for
// re-inspection, since losing a crossing can turn a previously-fine cell
// into a bare adjacency. It consumes the grid — call it once, at the end
// of a rollout, after every admissible placement has been committed.
func (g *FixedGrid[Move]) FixupAdjacent() (valid []Move, removed []Move, eff Eff) {
	type depEdge struct {
		id, other PlacementID
	}
	var deps []depEdge

	for id, bmv := range g.moves {
		place := bmv.Mv.Place()
		var lastIsection PlacementID
		haveLast := false
		addedLast := false
		FoldPositions(place, struct{}{}, func(_ struct{}, y, x int) struct{} {
			placements := g.field[y][x]
			if len(placements) == 2 {
				var otherID PlacementID
				if placements[0] == id {
					otherID = placements[1]
				} else {
					otherID = placements[0]
				}
				if haveLast {
					if !addedLast {
						deps = append(deps, depEdge{id, lastIsection})
					}
					deps = append(deps, depEdge{id, otherID})
					lastIsection = otherID
					addedLast = true
				} else {
					lastIsection = otherID
					haveLast = true
					addedLast = false
				}
			} else {
				haveLast = false
				addedLast = false
			}
			return struct{}{}
		})
	}

	for _, e := range deps {
		if dep, ok := g.moves[e.id]; ok {
			dep.dependants = append(dep.dependants, e.other)
		}
	}

	adjacencies := g.findAdjacencies(g.allMoves())

	var removedMoves []Move
	for len(adjacencies) > 0 {
		next := make(map[PlacementID]struct{})
		// Flip the coins in id order so a seeded rng gives the same result
		// on every run.
		offenders := make([]PlacementID, 0, len(adjacencies))
		for adj := range adjacencies {
			offenders = append(offenders, adj)
		}
		sort.Slice(offenders, func(i, j int) bool { return offenders[i] < offenders[j] })
		for _, adj := range offenders {
			if g.rng.Intn(2) == 0 {
				mv, dependants, ok := g.Delete(adj)
				if ok {
					removedMoves = append(removedMoves, mv)
					for _, d := range dependants {
						next[d] = struct{}{}
					}
				}
			} else {
				next[adj] = struct{}{}
			}
		}
		var suspects []*fixedGridMove[Move]
		for adj := range next {
			if bmv, ok := g.moves[adj]; ok {
				suspects = append(suspects, bmv)
			}
		}
		adjacencies = g.findAdjacencies(suspects)
	}

	eff = g.Efficiency()

	type ordered struct {
		mv  Move
		idx int
	}
	all := make([]ordered, 0, len(g.moves))
	for _, bmv := range g.moves {
		all = append(all, ordered{mv: bmv.Mv, idx: bmv.movesIdx})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].idx < all[j].idx })
	valid = make([]Move, len(all))
	for i, o := range all {
		valid[i] = o.mv
	}
	removed = removedMoves
	return valid, removed, eff
}

func (g *FixedGrid[Move]) findAdjacencies(suspects []*fixedGridMove[Move]) map[PlacementID]struct{} {
	out := make(map[PlacementID]struct{})
	for _, bmv := range suspects {
		id := bmv.Mv.Place().ID
		if len(g.AdjacenciesOf(id)) > 0 {
			out[id] = struct{}{}
		}
	}
	return out
}

func (g *FixedGrid[Move]) allMoves() []*fixedGridMove[Move] {
	out := make([]*fixedGridMove[Move], 0, len(g.moves))
	for _, bmv := range g.moves {
		out = append(out, bmv)
	}
	return out
}

// String renders the grid as ASCII, one letter per filled cell and an
// underscore for every cell no committed placement covers.
func (g *FixedGrid[Move]) String() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			items := g.field[y][x]
			if len(items) == 0 {
				sb.WriteByte('_')
				continue
			}
			place := g.moves[items[0]].Mv.Place()
			switch place.Orientation {
			case Vertical:
				sb.WriteByte(place.Word.At(y - place.Y))
			case Horizontal:
				sb.WriteByte(place.Word.At(x - place.X))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
