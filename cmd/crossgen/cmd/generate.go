package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/output"
	"github.com/crossplay/backend/pkg/wordlist"
	"github.com/crossplay/backend/pkg/xword"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var (
	genProblem  string
	genRandom   bool
	genSize     int
	genLevel    string
	genOutput   string
	genFormat   string
	genWordlist string
	genIters    int
	genAlpha    float64
	genSeed     int64
	genCount    int
	genStatsDB  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Construct crossword boards with Nested Rollout Policy Adaptation",
	Long: `Construct one or more crossword boards by running NRPA search over a
problem's candidate placements.

Examples:
  # Construct from a saved problem file
  crossgen generate --problem mini.xword --wordlist broda.txt --output ./boards

  # Construct from a random symmetric template
  crossgen generate --random --size 15 --level medium --wordlist broda.txt --output ./boards`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genProblem, "problem", "", "path to a saved problem file (HxW header + dictionary)")
	generateCmd.Flags().BoolVar(&genRandom, "random", false, "build a random symmetric template instead of --problem")
	generateCmd.Flags().IntVar(&genSize, "size", 15, "template side length, with --random")
	generateCmd.Flags().StringVar(&genLevel, "level", "medium", "template difficulty with --random (easy, medium, hard, expert)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", ".", "output directory")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "output format (json, puz, ipuz, all)")
	generateCmd.Flags().StringVarP(&genWordlist, "wordlist", "w", "", "path to wordlist file (Peter Broda format, required)")
	generateCmd.Flags().IntVar(&genIters, "iters", 100, "NRPA rollouts per level")
	generateCmd.Flags().Float64Var(&genAlpha, "alpha", 1.0, "NRPA policy adaptation rate")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "rng seed (0 picks a fresh seed each run)")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 1, "number of boards to construct")
	generateCmd.Flags().StringVar(&genStatsDB, "stats-db", "./construction_stats.db", "where to record per-board construction metrics for 'crossgen stats'")

	generateCmd.MarkFlagRequired("wordlist")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genProblem == "" && !genRandom {
		return fmt.Errorf("one of --problem or --random is required")
	}
	if genProblem != "" && genRandom {
		return fmt.Errorf("--problem and --random are mutually exclusive")
	}

	formats, err := parseFormats(genFormat)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	if verbosity > 0 {
		fmt.Printf("Loading wordlist from: %s\n", genWordlist)
	}
	wl, err := wordlist.LoadBrodaWordlist(genWordlist)
	if err != nil {
		return fmt.Errorf("failed to load wordlist: %w", err)
	}
	if verbosity > 0 {
		fmt.Printf("Loaded %d words\n", wl.Size())
	}
	dictionary := wl.ToProblemDictionary()

	if err := os.MkdirAll(genOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var problem *xword.Problem
	if genProblem != "" {
		data, err := os.ReadFile(genProblem)
		if err != nil {
			return fmt.Errorf("failed to read problem file: %w", err)
		}
		problem, err = xword.ParseProblem(data)
		if err != nil {
			return fmt.Errorf("failed to parse problem file: %w", err)
		}
	} else {
		difficulty, err := parseDifficulty(genLevel)
		if err != nil {
			return fmt.Errorf("invalid level: %w", err)
		}
		problem, err = xword.GenerateTemplate(xword.GenerateTemplateOptions{
			Size:       genSize,
			Difficulty: difficulty,
			Seed:       genSeed,
		}, dictionary)
		if err != nil {
			return fmt.Errorf("failed to generate random template: %w", err)
		}
	}

	places := xword.GeneratePlacements(problem)
	if verbosity > 0 {
		fmt.Printf("Enumerated %d candidate placements\n", len(places))
	}

	opts := xword.ConstructorOptions{Level: 3, Iters: genIters, Alpha: float32(genAlpha), MaxStalledIters: 100}

	statsDB, err := openStatsDB(genStatsDB)
	if err != nil {
		return fmt.Errorf("failed to open stats database: %w", err)
	}
	defer statsDB.Close()

	fmt.Printf("Constructing %d board(s)\n", genCount)
	for i := 1; i <= genCount; i++ {
		start := time.Now()
		fmt.Printf("[%d/%d] Constructing... ", i, genCount)

		rng := rngFor(genSeed, i)
		constructor := xword.NewConstructorWithOptions(problem, places, rng, opts)
		placements := constructor.Construct()
		elapsed := time.Since(start)

		board := &xword.Board{Height: problem.Height, Width: problem.Width, Placements: placements}
		meta := output.Metadata{
			ID:     fmt.Sprintf("board-%03d", i),
			Title:  fmt.Sprintf("Constructed Board %d", i),
			Author: "crossgen",
		}

		if err := writeBoardFiles(board, meta, genOutput, i, formats); err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("failed to write output for board %d: %w", i, err)
		}

		eff := boardEfficiency(board)
		if err := recordConstructionStats(statsDB, meta.ID, board, eff, genIters, genAlpha, elapsed); err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("failed to record stats for board %d: %w", i, err)
		}

		fmt.Printf("OK (%d placements, efficiency %d, %.1fs)\n", len(placements), eff, elapsed.Seconds())
	}

	fmt.Printf("\nConstructed %d board(s) in %s\n", genCount, genOutput)
	return nil
}

// boardEfficiency places board onto a throwaway FixedGrid and reads off its
// Efficiency — the same metric the constructor itself optimizes for.
func boardEfficiency(board *xword.Board) xword.Eff {
	fg := xword.NewFixedGrid[*xword.Placement](board.Height, board.Width, xword.NewDefaultRng())
	for _, p := range board.Placements {
		fg.Place(p)
	}
	return fg.Efficiency()
}

// openStatsDB opens (creating if necessary) the sqlite database crossgen
// stats reads construction metrics back out of.
func openStatsDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS construction_stats (
			board_id    TEXT PRIMARY KEY,
			height      INTEGER NOT NULL,
			width       INTEGER NOT NULL,
			placements  INTEGER NOT NULL,
			efficiency  INTEGER NOT NULL,
			iters       INTEGER NOT NULL,
			alpha       REAL NOT NULL,
			wall_ms     INTEGER NOT NULL,
			created_at  TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func recordConstructionStats(db *sql.DB, boardID string, board *xword.Board, eff xword.Eff, iters int, alpha float64, elapsed time.Duration) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO construction_stats
			(board_id, height, width, placements, efficiency, iters, alpha, wall_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`, boardID, board.Height, board.Width, len(board.Placements), int(eff), iters, alpha, elapsed.Milliseconds())
	return err
}

// rngFor derives a deterministic rng for board i of a --count run when a
// seed was given, so the whole run is reproducible board-by-board, and
// falls back to the default non-deterministic rng otherwise.
func rngFor(seed int64, i int) xword.AbstractRng {
	if seed == 0 {
		return xword.NewDefaultRng()
	}
	return xword.NewDeterministicRng(seed + int64(i))
}

// parseDifficulty converts string difficulty to grid.Difficulty
func parseDifficulty(diff string) (grid.Difficulty, error) {
	switch strings.ToLower(diff) {
	case "easy":
		return grid.Easy, nil
	case "medium":
		return grid.Medium, nil
	case "hard":
		return grid.Hard, nil
	case "expert":
		return grid.Expert, nil
	default:
		return grid.Medium, fmt.Errorf("invalid difficulty: %s (must be easy, medium, hard, or expert)", diff)
	}
}

// parseFormats converts format string to list of formats
func parseFormats(format string) ([]string, error) {
	format = strings.ToLower(format)
	if format == "all" {
		return []string{"json", "puz", "ipuz"}, nil
	}

	validFormats := map[string]bool{
		"json": true,
		"puz":  true,
		"ipuz": true,
	}

	if !validFormats[format] {
		return nil, fmt.Errorf("invalid format: %s (must be json, puz, ipuz, or all)", format)
	}

	return []string{format}, nil
}

// writeBoardFiles writes board to disk in the specified formats.
func writeBoardFiles(board *xword.Board, meta output.Metadata, outputDir string, boardNum int, formats []string) error {
	baseName := fmt.Sprintf("board_%03d", boardNum)

	for _, format := range formats {
		var filePath string
		var data []byte
		var err error

		switch format {
		case "json":
			filePath = filepath.Join(outputDir, baseName+".json")
			data, err = output.ToJSON(board, meta)
		case "puz":
			filePath = filepath.Join(outputDir, baseName+".puz")
			data, err = output.FormatPuz(board, meta)
		case "ipuz":
			filePath = filepath.Join(outputDir, baseName+".ipuz")
			data, err = output.ToIPuz(board, meta)
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return fmt.Errorf("failed to format board as %s: %w", format, err)
		}

		if err := os.WriteFile(filePath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s file: %w", format, err)
		}
	}

	return nil
}
