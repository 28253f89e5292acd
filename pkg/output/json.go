package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/backend/pkg/xword"
)

// EntryJSON is a single across/down entry in the JSON format.
type EntryJSON struct {
	Number int    `json:"number"`
	Answer string `json:"answer"`
	Length int    `json:"length"`
}

// BoardJSON represents a constructed board in the JSON export format.
type BoardJSON struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`

	Grid [][]string `json:"grid"` // letters or "#" for uncovered cells

	Across []EntryJSON `json:"across"`
	Down   []EntryJSON `json:"down"`
}

// FormatJSON converts a constructed xword.Board to BoardJSON.
func FormatJSON(board *xword.Board, meta Metadata) *BoardJSON {
	g := grid(board)
	strGrid := make([][]string, len(g))
	for y, row := range g {
		strGrid[y] = make([]string, len(row))
		for x, c := range row {
			strGrid[y][x] = string(c)
		}
	}

	across, down := splitByDirection(entries(board))

	out := &BoardJSON{
		ID:         meta.ID,
		Title:      meta.Title,
		Author:     meta.Author,
		Difficulty: meta.Difficulty,
		Grid:       strGrid,
		Across:     make([]EntryJSON, len(across)),
		Down:       make([]EntryJSON, len(down)),
	}
	if meta.PublishedAt != nil {
		out.PublishedAt = *meta.PublishedAt
	}
	for i, e := range across {
		out.Across[i] = EntryJSON{Number: e.Number, Answer: e.Answer, Length: e.Length}
	}
	for i, e := range down {
		out.Down[i] = EntryJSON{Number: e.Number, Answer: e.Answer, Length: e.Length}
	}
	return out
}

// ToJSON converts a constructed xword.Board to indented JSON bytes.
func ToJSON(board *xword.Board, meta Metadata) ([]byte, error) {
	return json.MarshalIndent(FormatJSON(board, meta), "", "  ")
}

// FromJSON parses a BoardJSON export back into a solution grid and
// metadata. As with FromIPuz, only the letter solution survives the
// round trip, not individual Placements.
func FromJSON(data []byte) ([][]byte, Metadata, error) {
	var bj BoardJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to parse json puzzle: %w", err)
	}

	solution := make([][]byte, len(bj.Grid))
	for y, row := range bj.Grid {
		solution[y] = make([]byte, len(row))
		for x, cell := range row {
			if cell == "" || cell == "." || cell == "#" {
				solution[y][x] = '#'
				continue
			}
			solution[y][x] = cell[0]
		}
	}

	meta := Metadata{ID: bj.ID, Title: bj.Title, Author: bj.Author, Difficulty: bj.Difficulty}
	return solution, meta, nil
}
