// Package output renders a finished xword.Board into the on-disk puzzle
// formats solvers understand: plain JSON, ipuz, and AcrossLite's .puz.
package output

import "github.com/crossplay/backend/pkg/xword"

// Metadata is the publishing information a xword.Board doesn't itself
// carry — the engine produces placements, not a title page.
type Metadata struct {
	ID          string
	Title       string
	Author      string
	Difficulty  string
	PublishedAt *string // RFC3339, nil if unpublished
}

// Entry is a single across/down word slot, numbered the way a print
// crossword numbers its clues: row-major scan, one number per cell that
// starts an across or a down entry (shared if a cell starts both).
type Entry struct {
	Number    int
	Direction string // "across" or "down"
	Y, X      int
	Length    int
	Answer    string
}

// grid renders b onto a Height x Width byte grid, '#' marking cells no
// placement covers.
func grid(b *xword.Board) [][]byte {
	g := make([][]byte, b.Height)
	for y := range g {
		g[y] = make([]byte, b.Width)
		for x := range g[y] {
			g[y][x] = '#'
		}
	}
	for _, p := range b.Placements {
		xword.FoldPositionsIndex(p, struct{}{}, func(_ struct{}, y, x, i int) struct{} {
			g[y][x] = p.Word.At(i) - 'a' + 'A'
			return struct{}{}
		})
	}
	return g
}

// numberCells reports, for every cell, the placement starting an across
// and/or a down entry there, plus the shared clue number assigned at that
// cell — adapted from pkg/grid/entries.go's row-major numbering pass to
// work off placements directly instead of a cell grid with precomputed
// black squares.
func numberCells(b *xword.Board) (startsAcross, startsDown map[[2]int]*xword.Placement, numberOf map[[2]int]int) {
	startsAcross = make(map[[2]int]*xword.Placement)
	startsDown = make(map[[2]int]*xword.Placement)
	for _, p := range b.Placements {
		if p.Orientation == xword.Horizontal {
			startsAcross[[2]int{p.Y, p.X}] = p
		} else {
			startsDown[[2]int{p.Y, p.X}] = p
		}
	}

	numberOf = make(map[[2]int]int)
	number := 0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			key := [2]int{y, x}
			_, across := startsAcross[key]
			_, down := startsDown[key]
			if across || down {
				number++
				numberOf[key] = number
			}
		}
	}
	return
}

// entries lists every across/down word slot with its assigned number.
func entries(b *xword.Board) []Entry {
	startsAcross, startsDown, numberOf := numberCells(b)

	var out []Entry
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			key := [2]int{y, x}
			if p, ok := startsAcross[key]; ok {
				out = append(out, Entry{Number: numberOf[key], Direction: "across", Y: y, X: x, Length: p.Word.Len(), Answer: p.Word.String()})
			}
			if p, ok := startsDown[key]; ok {
				out = append(out, Entry{Number: numberOf[key], Direction: "down", Y: y, X: x, Length: p.Word.Len(), Answer: p.Word.String()})
			}
		}
	}
	return out
}

// BoardFromSolution reconstructs a xword.Board's Placements from a plain
// letter grid — the form FromJSON/FromIPuz hand back, having lost each
// entry's original word identity on the way out to a file. It rescans for
// across/down runs the way pkg/grid/entries.go rescans a solved grid for
// entries, minting a fresh xword.Word per run via xword.NewWordArena.
// Re-rendering the result loses nothing a solver cares about: the letters
// and black-square layout are exactly those of the source grid.
func BoardFromSolution(solution [][]byte) *xword.Board {
	height := len(solution)
	width := 0
	if height > 0 {
		width = len(solution[0])
	}

	open := func(y, x int) bool {
		return y >= 0 && y < height && x >= 0 && x < width && solution[y][x] != '#'
	}

	var runs [][]byte
	type runSpec struct {
		y, x        int
		orientation xword.Orientation
		wordIdx     int
	}
	var specs []runSpec

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(y, x) {
				continue
			}
			if !open(y, x-1) && open(y, x+1) {
				var word []byte
				for xx := x; open(y, xx); xx++ {
					word = append(word, lower(solution[y][xx]))
				}
				specs = append(specs, runSpec{y: y, x: x, orientation: xword.Horizontal, wordIdx: len(runs)})
				runs = append(runs, word)
			}
			if !open(y-1, x) && open(y+1, x) {
				var word []byte
				for yy := y; open(yy, x); yy++ {
					word = append(word, lower(solution[yy][x]))
				}
				specs = append(specs, runSpec{y: y, x: x, orientation: xword.Vertical, wordIdx: len(runs)})
				runs = append(runs, word)
			}
		}
	}

	words := xword.NewWordArena(runs)
	placements := make([]*xword.Placement, len(specs))
	for i, s := range specs {
		placements[i] = &xword.Placement{
			ID:          xword.PlacementID(i),
			Y:           s.y,
			X:           s.x,
			Orientation: s.orientation,
			Word:        words[s.wordIdx],
		}
	}

	return &xword.Board{Height: height, Width: width, Placements: placements}
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

func splitByDirection(all []Entry) (across, down []Entry) {
	for _, e := range all {
		if e.Direction == "across" {
			across = append(across, e)
		} else {
			down = append(down, e)
		}
	}
	return
}
