package xword

import (
	"github.com/crossplay/backend/pkg/grid"
)

// GenerateTemplateOptions configures a random board template.
type GenerateTemplateOptions struct {
	Size       int
	Difficulty grid.Difficulty
	Seed       int64
}

// GenerateTemplate builds a random, symmetric, fully-connected open/blocked
// board template of the requested size, reusing the grid package's
// seed-then-mirror generator, and pairs it with the given dictionary to
// produce a ready-to-enumerate Problem.
func GenerateTemplate(opts GenerateTemplateOptions, words [][]byte) (*Problem, error) {
	g, err := grid.Generate(grid.GeneratorConfig{
		GridConfig: grid.GridConfig{Size: opts.Size},
		Difficulty: opts.Difficulty,
		Seed:       opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	open := make([][]bool, g.Size)
	for row := range open {
		open[row] = make([]bool, g.Size)
		for col := range open[row] {
			open[row][col] = !g.Cells[row][col].IsBlack
		}
	}

	return NewProblem(g.Size, g.Size, open, words), nil
}
