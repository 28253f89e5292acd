package xword

import "strings"

// Board is a finished construction: the placements that survived
// fixup_adjacent, on a board of the given dimensions.
type Board struct {
	Height, Width int
	Placements    []*Placement
}

// Render lays the board out on a throwaway FixedGrid and returns its ASCII
// form, one letter per filled cell and an underscore for every cell no
// placement covers.
func (b *Board) Render() string {
	fg := NewFixedGrid[*Placement](b.Height, b.Width, NewDefaultRng())
	for _, p := range b.Placements {
		fg.Place(p)
	}
	return fg.String()
}

// RenderByOrientation renders the board once per orientation, each view
// showing only the placements running that way — handy for sanity-checking
// that across and down words independently tile the grid.
func (b *Board) RenderByOrientation() string {
	var sb strings.Builder
	for _, or := range [2]Orientation{Vertical, Horizontal} {
		sb.WriteString("------- ")
		sb.WriteString(or.String())
		sb.WriteString(" -------\n")

		fg := NewFixedGrid[*Placement](b.Height, b.Width, NewDefaultRng())
		for _, p := range b.Placements {
			if p.Orientation == or {
				fg.Place(p)
			}
		}
		sb.WriteString(fg.String())
	}
	return sb.String()
}
