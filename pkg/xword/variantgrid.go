package xword

// removedMarker flags a (placement, char index) entry whose placement has
// been removed from the cell it used to occupy.
const removedMarker = -1

// VariantGrid tracks, for every board cell, the set of still-admissible
// placements covering it. Cell contents and the per-placement entries
// side-table are both carved out of single contiguous arenas sized once at
// construction (cellArena, entriesArena below) so that mutation never
// allocates: a removal is a swap-to-the-end-and-shrink within a cell's
// slice of the arena, exactly the ShrinkVec/SlicedArena design in the
// original source.
type VariantGrid struct {
	h, w int

	cellArena []PlacementID
	cellFrom  [][]int // cellFrom[y][x]: offset of cell (y,x)'s slice in cellArena
	cellLen   [][]int // cellLen[y][x]: current logical length of that slice

	entriesArena []int // entriesArena[entryFrom[id]+charIdx] = index of placement id within its cell at that char position, or removedMarker
	entryFrom    []int

	places []*Placement // shared, read-only reference list
}

// NewVariantGrid builds the grid with every given placement admissible.
func NewVariantGrid(places []*Placement, h, w int) *VariantGrid {
	entryFrom := make([]int, len(places))
	entryTotal := 0
	for i, p := range places {
		entryFrom[i] = entryTotal
		entryTotal += p.Word.Len()
	}
	entriesArena := make([]int, entryTotal)

	counts := make([][]int, h)
	cellFrom := make([][]int, h)
	cellLen := make([][]int, h)
	fillCounter := make([][]int, h)
	for y := 0; y < h; y++ {
		counts[y] = make([]int, w)
		cellFrom[y] = make([]int, w)
		cellLen[y] = make([]int, w)
		fillCounter[y] = make([]int, w)
	}

	for _, p := range places {
		FoldPositions(p, struct{}{}, func(_ struct{}, y, x int) struct{} {
			counts[y][x]++
			return struct{}{}
		})
	}

	total := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cellFrom[y][x] = total
			total += counts[y][x]
		}
	}
	cellArena := make([]PlacementID, total)

	for i, p := range places {
		FoldPositionsIndex(p, struct{}{}, func(_ struct{}, y, x, charIdx int) struct{} {
			idx := fillCounter[y][x]
			cellArena[cellFrom[y][x]+idx] = PlacementID(i)
			entriesArena[entryFrom[i]+charIdx] = idx
			fillCounter[y][x]++
			return struct{}{}
		})
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cellLen[y][x] = counts[y][x]
		}
	}

	return &VariantGrid{
		h: h, w: w,
		cellArena: cellArena, cellFrom: cellFrom, cellLen: cellLen,
		entriesArena: entriesArena, entryFrom: entryFrom,
		places: places,
	}
}

// Clone deep-copies the mutable arenas while sharing the immutable
// placement list and offset tables, matching the original's cheap
// flat-array clone used once per rollout.
func (g *VariantGrid) Clone() *VariantGrid {
	cellArena := append([]PlacementID(nil), g.cellArena...)
	entriesArena := append([]int(nil), g.entriesArena...)
	cellLen := make([][]int, g.h)
	for y := range cellLen {
		cellLen[y] = append([]int(nil), g.cellLen[y]...)
	}
	return &VariantGrid{
		h: g.h, w: g.w,
		cellArena: cellArena, cellFrom: g.cellFrom, cellLen: cellLen,
		entriesArena: entriesArena, entryFrom: g.entryFrom,
		places: g.places,
	}
}

func (g *VariantGrid) entrySlice(id PlacementID) []int {
	from := g.entryFrom[id]
	return g.entriesArena[from : from+g.places[id].Word.Len()]
}

func (g *VariantGrid) cellSlice(y, x int) []PlacementID {
	from := g.cellFrom[y][x]
	length := g.cellLen[y][x]
	return g.cellArena[from : from+length]
}

// IterAt returns the placements still admissible at (y, x). The slice is a
// live view; do not retain it across a mutating call.
func (g *VariantGrid) IterAt(y, x int) []PlacementID {
	return g.cellSlice(y, x)
}

// Contains reports whether a placement is still admissible.
func (g *VariantGrid) Contains(id PlacementID) bool {
	return g.entrySlice(id)[0] != removedMarker
}

// Remove marks a placement inadmissible, excising it from every cell it
// covers in O(word length) while preserving the side-table invariant: the
// placement swapped into the vacated slot has its entry updated to its new
// index.
func (g *VariantGrid) Remove(id PlacementID) {
	place := g.places[id]
	entry := g.entrySlice(id)

	FoldPositionsIndex(place, struct{}{}, func(_ struct{}, y, x, charIdx int) struct{} {
		incellIdx := entry[charIdx]
		entry[charIdx] = removedMarker

		from := g.cellFrom[y][x]
		oldLen := g.cellLen[y][x]
		newLen := oldLen - 1
		g.cellArena[from+incellIdx] = g.cellArena[from+newLen]
		g.cellLen[y][x] = newLen

		if incellIdx != newLen {
			movedID := g.cellArena[from+incellIdx]
			swapped := g.places[movedID]
			charIdx2 := (y - swapped.Y) + (x - swapped.X)
			g.entrySlice(movedID)[charIdx2] = incellIdx
		}
		return struct{}{}
	})
}

// filterIncompat removes every placement at (y,x) for which mustRemove
// reports true, appending their ids to removed. Candidates are collected
// before any removal runs so mutating the cell mid-scan is never observed.
func (g *VariantGrid) filterIncompat(y, x int, removed *[]PlacementID, mustRemove func(*Placement) bool) {
	if y < 0 || y >= g.h || x < 0 || x >= g.w {
		return
	}
	var toRemove []PlacementID
	for _, id := range g.cellSlice(y, x) {
		if mustRemove(g.places[id]) {
			toRemove = append(toRemove, id)
			*removed = append(*removed, id)
		}
	}
	for _, id := range toRemove {
		g.Remove(id)
	}
}

// RemoveIncompat removes every placement incompatible with place, as
// defined by Placement.Compatible, and returns the removed ids. It scans
// place's own cells (for same-orientation overlap and crossing-letter
// mismatches), the two perpendicular flanking strips (for touch-without-
// crossing violations) and the two run-end caps (where any occupant is
// automatically incompatible, since a same-orientation placement ending
// exactly at one of place's ends would otherwise abut it with no gap).
func (g *VariantGrid) RemoveIncompat(placeID PlacementID) []PlacementID {
	place := g.places[placeID]
	yc, xc := place.Orientation.Align(0, 1)
	perpyc, perpxc := xc, yc

	v0, u0 := place.Align(place.Orientation)
	len0 := place.Word.Len()
	maxv, maxu := place.Orientation.Align(g.h, g.w)

	removed := make([]PlacementID, 0, 16)

	FoldPositionsIndex(place, struct{}{}, func(_ struct{}, y, x, charIdx int) struct{} {
		g.filterIncompat(y, x, &removed, func(other *Placement) bool {
			cIdx := (y - other.Y) + (x - other.X)
			return place.Orientation == other.Orientation || place.Word.At(charIdx) != other.Word.At(cIdx)
		})

		if v0 > 0 {
			g.filterIncompat(y-perpyc, x-perpxc, &removed, func(other *Placement) bool {
				v1, _ := other.Align(place.Orientation)
				len1 := other.Word.Len()
				return place.Orientation != other.Orientation && v1+len1 == v0
			})
		}

		if v0+1 < maxv {
			g.filterIncompat(y+perpyc, x+perpxc, &removed, func(other *Placement) bool {
				v1, _ := other.Align(place.Orientation)
				return place.Orientation != other.Orientation && v1 == v0+1
			})
		}
		return struct{}{}
	})

	if u0 > 0 {
		g.filterIncompat(place.Y-yc, place.X-xc, &removed, func(*Placement) bool { return true })
	}
	if u0+len0 < maxu {
		g.filterIncompat(place.Y+len0*yc, place.X+len0*xc, &removed, func(*Placement) bool { return true })
	}

	return removed
}
