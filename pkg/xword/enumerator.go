package xword

import "sort"

// GeneratePlacements enumerates every placement the board admits: for each
// orientation, it walks every line (column for Vertical, row for
// Horizontal) tracking the length of the current run of open cells, and at
// each open cell emits one placement for every dictionary word short
// enough to fit ending there. Dictionary words are considered shortest
// first so that a run admits every word it can hold regardless of
// enumeration order. Ids are assigned densely, 0..N-1, in exactly the
// order placements are emitted.
func GeneratePlacements(problem *Problem) []*Placement {
	sorted := append([]Word(nil), problem.Dictionary...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Len() < sorted[j].Len() })

	var placements []*Placement
	var placementID PlacementID

	for _, orientation := range [2]Orientation{Vertical, Horizontal} {
		var lineCount, runLength int
		if orientation == Vertical {
			lineCount, runLength = problem.Width, problem.Height
		} else {
			lineCount, runLength = problem.Height, problem.Width
		}

		for i := 0; i < lineCount; i++ {
			runLen := 0
			for j := 0; j < runLength; j++ {
				var open bool
				if orientation == Vertical {
					open = problem.IsOpen(j, i)
				} else {
					open = problem.IsOpen(i, j)
				}
				if !open {
					runLen = 0
					continue
				}
				runLen++

				for _, word := range sorted {
					if word.Len() > runLen {
						continue
					}
					start := j + 1 - word.Len()
					y, x := orientation.Align(i, start)
					placements = append(placements, &Placement{
						ID: placementID, Y: y, X: x, Orientation: orientation, Word: word,
					})
					placementID++
				}
			}
		}
	}

	return placements
}
