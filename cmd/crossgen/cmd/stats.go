package cmd

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var (
	statsDB string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display construction statistics",
	Long: `Display statistics recorded by 'crossgen generate' runs.

Shows information about:
  - Boards constructed by size
  - Highest-efficiency boards
  - Lowest-efficiency boards
  - Average construction wall time

Examples:
  # Show stats for the default stats database
  crossgen stats

  # Show stats for a custom database
  crossgen stats --db /path/to/construction_stats.db`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDB, "db", "d", "", "path to construction stats database (default: ./construction_stats.db)")
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath := statsDB
	if dbPath == "" {
		dbPath = "./construction_stats.db"
	}

	if verbosity > 0 {
		fmt.Printf("Reading stats database: %s\n", dbPath)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("stats database not found at %s", dbPath)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("\nConstruction Statistics\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Database: %s\n\n", dbPath)

	if err := displayBoardsBySize(db); err != nil {
		return err
	}
	if err := displayWallTimeSummary(db); err != nil {
		return err
	}
	if err := displayTopBoards(db, "Highest-Efficiency Boards", "DESC"); err != nil {
		return err
	}
	if err := displayTopBoards(db, "Lowest-Efficiency Boards", "ASC"); err != nil {
		return err
	}

	return nil
}

func displayBoardsBySize(db *sql.DB) error {
	fmt.Println("Boards Constructed by Size:")
	fmt.Println("---------------------------")

	rows, err := db.Query(`
		SELECT height, width, COUNT(*) as count
		FROM construction_stats
		GROUP BY height, width
		ORDER BY height, width
	`)
	if err != nil {
		return fmt.Errorf("failed to query boards by size: %w", err)
	}
	defer rows.Close()

	total := 0
	hasRows := false
	for rows.Next() {
		hasRows = true
		var height, width, count int
		if err := rows.Scan(&height, &width, &count); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fmt.Printf("  %dx%-10d: %d\n", height, width, count)
		total += count
	}

	if !hasRows {
		fmt.Println("  No recorded boards found")
	} else {
		fmt.Printf("  %-12s: %d\n", "TOTAL", total)
	}
	fmt.Println()

	return rows.Err()
}

func displayWallTimeSummary(db *sql.DB) error {
	fmt.Println("Construction Wall Time:")
	fmt.Println("------------------------")

	var avgMs, maxMs, minMs sql.NullFloat64
	err := db.QueryRow(`
		SELECT AVG(wall_ms), MAX(wall_ms), MIN(wall_ms) FROM construction_stats
	`).Scan(&avgMs, &maxMs, &minMs)
	if err != nil {
		return fmt.Errorf("failed to query wall time: %w", err)
	}

	if !avgMs.Valid {
		fmt.Println("  No recorded boards found")
	} else {
		fmt.Printf("  average: %.0fms\n", avgMs.Float64)
		fmt.Printf("  fastest: %.0fms\n", minMs.Float64)
		fmt.Printf("  slowest: %.0fms\n", maxMs.Float64)
	}
	fmt.Println()

	return nil
}

func displayTopBoards(db *sql.DB, title, order string) error {
	fmt.Println(title + ":")
	fmt.Println("--------------------------")

	rows, err := db.Query(fmt.Sprintf(`
		SELECT board_id, efficiency, placements, wall_ms
		FROM construction_stats
		ORDER BY efficiency %s
		LIMIT 10
	`, order))
	if err != nil {
		return fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	hasRows := false
	for rows.Next() {
		hasRows = true
		var boardID string
		var efficiency, placements, wallMs int
		if err := rows.Scan(&boardID, &efficiency, &placements, &wallMs); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fmt.Printf("  %-20s: efficiency %d (%d placements, %dms)\n", boardID, efficiency, placements, wallMs)
	}

	if !hasRows {
		fmt.Println("  No recorded boards found")
	}
	fmt.Println()

	return rows.Err()
}
