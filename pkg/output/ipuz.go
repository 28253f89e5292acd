package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/backend/pkg/xword"
)

// IPuzDimensions represents the puzzle dimensions
type IPuzDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IPuzCell represents a cell in the ipuz puzzle grid.
// Can be null (omitted), "#" (block), a number (clue label), or 0 (unnumbered).
type IPuzCell struct {
	Cell *int `json:"cell,omitempty"`
}

// IPuzClue represents a clue in ipuz format [number, "clue text"]
type IPuzClue []interface{}

// IPuzClues represents the clues section with Across and Down
type IPuzClues struct {
	Across []IPuzClue `json:"Across"`
	Down   []IPuzClue `json:"Down"`
}

// IPuzPuzzle represents the complete ipuz format structure
type IPuzPuzzle struct {
	Version    string          `json:"version"`
	Kind       []string        `json:"kind"`
	Title      string          `json:"title,omitempty"`
	Author     string          `json:"author,omitempty"`
	Copyright  string          `json:"copyright,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Dimensions IPuzDimensions  `json:"dimensions"`
	Puzzle     [][]interface{} `json:"puzzle"`
	Solution   [][]interface{} `json:"solution"`
	Clues      IPuzClues       `json:"clues"`
}

// FormatIPuz converts a constructed xword.Board to ipuz format.
// The ipuz format is used by modern web solvers and follows the
// specification at http://ipuz.org/.
func FormatIPuz(board *xword.Board, meta Metadata) (*IPuzPuzzle, error) {
	if board == nil {
		return nil, fmt.Errorf("board cannot be nil")
	}
	if board.Height <= 0 || board.Width <= 0 {
		return nil, fmt.Errorf("invalid board dimensions: %dx%d", board.Width, board.Height)
	}

	startsAcross, startsDown, numberOf := numberCells(board)
	g := grid(board)

	puzzleGrid := make([][]interface{}, board.Height)
	solutionGrid := make([][]interface{}, board.Height)
	for y := 0; y < board.Height; y++ {
		puzzleGrid[y] = make([]interface{}, board.Width)
		solutionGrid[y] = make([]interface{}, board.Width)
		for x := 0; x < board.Width; x++ {
			key := [2]int{y, x}
			_, across := startsAcross[key]
			_, down := startsDown[key]

			if g[y][x] == '#' {
				puzzleGrid[y][x] = "#"
				solutionGrid[y][x] = "#"
				continue
			}

			if across || down {
				num := numberOf[key]
				puzzleGrid[y][x] = IPuzCell{Cell: &num}
			} else {
				puzzleGrid[y][x] = 0
			}
			solutionGrid[y][x] = string(g[y][x])
		}
	}

	across, down := splitByDirection(entries(board))
	acrossClues := make([]IPuzClue, len(across))
	for i, e := range across {
		acrossClues[i] = IPuzClue{e.Number, ""}
	}
	downClues := make([]IPuzClue, len(down))
	for i, e := range down {
		downClues[i] = IPuzClue{e.Number, ""}
	}

	copyright := fmt.Sprintf("© %s", meta.Author)

	return &IPuzPuzzle{
		Version:    "http://ipuz.org/v2",
		Kind:       []string{"http://ipuz.org/crossword#1"},
		Title:      meta.Title,
		Author:     meta.Author,
		Copyright:  copyright,
		Difficulty: meta.Difficulty,
		Dimensions: IPuzDimensions{Width: board.Width, Height: board.Height},
		Puzzle:     puzzleGrid,
		Solution:   solutionGrid,
		Clues:      IPuzClues{Across: acrossClues, Down: downClues},
	}, nil
}

// ToIPuz converts a constructed xword.Board to ipuz JSON bytes.
func ToIPuz(board *xword.Board, meta Metadata) ([]byte, error) {
	ipuzPuzzle, err := FormatIPuz(board, meta)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ipuzPuzzle, "", "  ")
}

// FromIPuz parses ipuz JSON bytes back into a solution grid and metadata.
// Placements are not reconstructed (ipuz's solution grid alone doesn't carry
// word identities distinct from adjacent letters); callers that need
// Placements should keep the xword.Board that produced the file instead of
// round-tripping through ipuz.
func FromIPuz(data []byte) ([][]byte, Metadata, error) {
	var ipuz IPuzPuzzle
	if err := json.Unmarshal(data, &ipuz); err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to parse ipuz: %w", err)
	}

	solution := make([][]byte, ipuz.Dimensions.Height)
	for y := 0; y < ipuz.Dimensions.Height; y++ {
		solution[y] = make([]byte, ipuz.Dimensions.Width)
		for x := 0; x < ipuz.Dimensions.Width; x++ {
			solution[y][x] = '#'
			if y >= len(ipuz.Solution) || x >= len(ipuz.Solution[y]) {
				continue
			}
			if sol, ok := ipuz.Solution[y][x].(string); ok && sol != "#" && len(sol) > 0 {
				solution[y][x] = sol[0]
			}
		}
	}

	meta := Metadata{Title: ipuz.Title, Author: ipuz.Author, Difficulty: ipuz.Difficulty}
	return solution, meta, nil
}

// ValidateIPuz validates that a board can be converted to ipuz format.
func ValidateIPuz(board *xword.Board, meta Metadata) error {
	if board == nil {
		return fmt.Errorf("board cannot be nil")
	}
	if meta.Title == "" {
		return fmt.Errorf("title is required")
	}
	if meta.Author == "" {
		return fmt.Errorf("author is required")
	}
	if board.Height <= 0 || board.Width <= 0 {
		return fmt.Errorf("invalid board dimensions: %dx%d", board.Width, board.Height)
	}
	if len(board.Placements) == 0 {
		return fmt.Errorf("board must have at least one placement")
	}
	return nil
}
