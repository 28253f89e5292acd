package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crossplay/backend/pkg/output"
	"github.com/spf13/cobra"
)

var (
	validateInput string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate constructed boards against xword.Problem invariants",
	Long: `Validate one or more board output files for correctness.

Checks include:
  - Non-empty, rectangular grid
  - Minimum word length requirements
  - Pairwise placement compatibility (no conflicting crossings, no illegal
    adjacent runs) the same way pkg/xword's Constructor enforces it during
    construction

Examples:
  # Validate a single board file
  crossgen validate --input board.json

  # Validate all board files in a directory
  crossgen validate --input ./boards`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "input file or directory to validate (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Validating: %s\n", validateInput)
	}

	info, err := os.Stat(validateInput)
	if err != nil {
		return fmt.Errorf("failed to access input path: %w", err)
	}

	var filesToValidate []string
	if info.IsDir() {
		files, err := filepath.Glob(filepath.Join(validateInput, "*.json"))
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}
		ipuzFiles, err := filepath.Glob(filepath.Join(validateInput, "*.ipuz"))
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}
		files = append(files, ipuzFiles...)
		if len(files) == 0 {
			return fmt.Errorf("no .json or .ipuz files found in directory: %s", validateInput)
		}
		filesToValidate = files
	} else {
		filesToValidate = []string{validateInput}
	}

	totalFiles := len(filesToValidate)
	invalidFiles := 0
	validFiles := 0

	for _, filePath := range filesToValidate {
		if verbosity > 0 {
			fmt.Printf("\nValidating: %s\n", filePath)
		}

		valid, err := validateBoardFile(filePath)
		if err != nil {
			fmt.Printf("FAIL %s: ERROR - %v\n", filepath.Base(filePath), err)
			invalidFiles++
		} else if !valid {
			invalidFiles++
		} else {
			if verbosity > 0 {
				fmt.Printf("OK %s: VALID\n", filepath.Base(filePath))
			}
			validFiles++
		}
	}

	fmt.Printf("\n")
	fmt.Printf("Validation Summary:\n")
	fmt.Printf("  Total files:   %d\n", totalFiles)
	fmt.Printf("  Valid:         %d\n", validFiles)
	fmt.Printf("  Invalid:       %d\n", invalidFiles)

	if invalidFiles > 0 {
		os.Exit(1)
	}

	return nil
}

// validateBoardFile parses a single board output file and checks it against
// xword.Problem's placement invariants. Returns true if valid, false if
// invalid, and an error if the file itself can't be processed.
func validateBoardFile(filePath string) (bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	var solution [][]byte
	switch ext {
	case ".json":
		solution, _, err = output.FromJSON(data)
	case ".ipuz":
		solution, _, err = output.FromIPuz(data)
	default:
		solution, _, err = output.FromJSON(data)
		if err != nil {
			solution, _, err = output.FromIPuz(data)
		}
	}
	if err != nil {
		return false, fmt.Errorf("invalid file format: %w", err)
	}

	if len(solution) == 0 || len(solution[0]) == 0 {
		fmt.Printf("FAIL %s: INVALID - empty grid\n", filepath.Base(filePath))
		return false, nil
	}
	for _, row := range solution {
		if len(row) != len(solution[0]) {
			fmt.Printf("FAIL %s: INVALID - grid is not rectangular\n", filepath.Base(filePath))
			return false, nil
		}
	}

	board := output.BoardFromSolution(solution)

	var errs []string

	for _, p := range board.Placements {
		if p.Word.Len() < 3 {
			errs = append(errs, fmt.Sprintf("%s placement at (%d,%d) is shorter than minimum length 3", p.Orientation, p.Y, p.X))
		}
	}

	for i, p := range board.Placements {
		for _, other := range board.Placements[i+1:] {
			if !p.Compatible(other) {
				errs = append(errs, fmt.Sprintf("%s placement at (%d,%d) conflicts with %s placement at (%d,%d)",
					p.Orientation, p.Y, p.X, other.Orientation, other.Y, other.X))
			}
		}
	}

	if len(errs) > 0 {
		fmt.Printf("FAIL %s: INVALID\n", filepath.Base(filePath))
		for _, e := range errs {
			fmt.Printf("   - %s\n", e)
		}
		return false, nil
	}

	return true, nil
}
