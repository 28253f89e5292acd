// Package xword implements the placement-search engine: a Nested Rollout
// Policy Adaptation (NRPA) search over crossword-style word placements,
// backed by a weighted selection tree, a variant grid of admissible
// placements and a fixed grid of committed placements.
package xword

import "fmt"

// Orientation is the two-valued tag a Placement is aligned along.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Perp returns the orientation perpendicular to o.
func (o Orientation) Perp() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Align maps (v, u) — a coordinate along o's fixed axis and one along its
// running axis — onto (y, x) board coordinates. Horizontal keeps (v, u) as
// (y, x); Vertical swaps them. This mirrors the original's bit-trick
// Orientation::align and satisfies:
//
//	Horizontal.Align(1, 0) == (1, 0)
//	Horizontal.Align(0, 1) == (0, 1)
//	Vertical.Align(1, 0)   == (0, 1)
//	Vertical.Align(0, 1)   == (1, 0)
func (o Orientation) Align(v, u int) (int, int) {
	if o == Horizontal {
		return v, u
	}
	return u, v
}

// WordID is a dense small integer identifying a dictionary word.
type WordID uint32

// Word is an immutable record referencing a byte slice of lowercase
// letters. The slice is always a view into the arena owned by the Problem
// that produced it and must never be retained past the Problem's lifetime.
type Word struct {
	ID    WordID
	bytes []byte
}

// Len returns the word's length in letters.
func (w Word) Len() int { return len(w.bytes) }

// At returns the letter at index i.
func (w Word) At(i int) byte { return w.bytes[i] }

// Bytes returns the word's letters. The returned slice must not be
// retained past the lifetime of the owning Problem/arena.
func (w Word) Bytes() []byte { return w.bytes }

func (w Word) String() string { return string(w.bytes) }

// PlacementID is a dense id assigned 0..N-1 in enumeration order.
type PlacementID uint32

// Placement is an immutable record: a word anchored at (Y, X) in a given
// orientation.
type Placement struct {
	ID          PlacementID
	Y, X        int
	Orientation Orientation
	Word        Word
}

// Place implements PlaceMove, so a bare *Placement can be committed
// directly to a FixedGrid without any wrapper move type.
func (p *Placement) Place() *Placement { return p }

func (p *Placement) String() string {
	return fmt.Sprintf("Placement{id=%d, y=%d, x=%d, or=%s, word=%q}", p.ID, p.Y, p.X, p.Orientation, p.Word)
}

// Align returns (v, u): p's coordinate along or's fixed axis and along its
// running axis.
func (p *Placement) Align(or Orientation) (int, int) {
	return or.Align(p.Y, p.X)
}

// FoldPositions walks every cell the placement covers, in order, folding
// acc through f.
func FoldPositions[A any](p *Placement, init A, f func(acc A, y, x int) A) A {
	yc, xc := p.Orientation.Align(0, 1)
	acc := init
	for i := 0; i < p.Word.Len(); i++ {
		acc = f(acc, p.Y+i*yc, p.X+i*xc)
	}
	return acc
}

// FoldPositionsIndex is FoldPositions plus the character index within the
// word at each cell.
func FoldPositionsIndex[A any](p *Placement, init A, f func(acc A, y, x, charIdx int) A) A {
	yc, xc := p.Orientation.Align(0, 1)
	acc := init
	for i := 0; i < p.Word.Len(); i++ {
		acc = f(acc, p.Y+i*yc, p.X+i*xc, i)
	}
	return acc
}

// Contains reports whether (y, x) lies within the cells covered by p.
func (p *Placement) Contains(y, x int) bool {
	switch p.Orientation {
	case Horizontal:
		return p.Y == y && p.X <= x && x < p.X+p.Word.Len()
	default:
		return p.X == x && p.Y <= y && y < p.Y+p.Word.Len()
	}
}

// Compatible reports whether p and other may legally coexist on the board:
// either they occupy disjoint cells with no illegal edge-touch, or they
// cross at exactly one cell whose letters agree. Two placements of the
// same word are never compatible (including with themselves).
func (p *Placement) Compatible(other *Placement) bool {
	if p.Word.ID == other.Word.ID {
		return false
	}

	v0, u0 := p.Align(p.Orientation)
	v1, u1 := other.Align(p.Orientation)
	len0, len1 := p.Word.Len(), other.Word.Len()

	if other.Orientation == p.Orientation {
		// same line, parallel: compatible only if there is a gap between
		// them along the running axis, or they lie on different lines.
		return u0+len0 < u1 || u1+len1 < u0 || v0 != v1
	}

	touchesWithoutCrossing :=
		(v1 <= v0+1 && v0 <= v1+len1 && u0 <= u1 && u1+1 <= u0+len0) ||
			(v1 <= v0 && v0+1 <= v1+len1 && (u1+1 == u0 || u0+len0 == u1))

	intersects := u0 <= u1 && u1+1 <= u0+len0 && v1 <= v0 && v0+1 <= v1+len1
	lettersMatch := intersects && p.Word.At(u1-u0) == other.Word.At(v0-v1)

	return !touchesWithoutCrossing || lettersMatch
}

// Problem is a board (open/blocked cells) plus a dictionary. It owns the
// word-byte arena: every Word handed out by a Problem borrows from that
// arena and must not outlive it.
type Problem struct {
	Height, Width int
	Open          [][]bool // Open[y][x]; true = usable cell
	Dictionary    []Word

	arena *wordArena
}

// NewProblem builds a Problem from a board and a raw dictionary (lowercase
// words), allocating the word-byte arena once and assigning dense WordIDs
// in the order given.
func NewProblem(height, width int, open [][]bool, words [][]byte) *Problem {
	arena := newWordArena(words)
	dic := make([]Word, len(words))
	for i := range words {
		dic[i] = arena.word(WordID(i))
	}
	return &Problem{Height: height, Width: width, Open: open, Dictionary: dic, arena: arena}
}

// IsOpen reports whether (y, x) is inside the board and usable.
func (p *Problem) IsOpen(y, x int) bool {
	if y < 0 || y >= p.Height || x < 0 || x >= p.Width {
		return false
	}
	return p.Open[y][x]
}
