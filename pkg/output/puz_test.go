package output

import (
	"bytes"
	"testing"
)

func TestFormatPuz_BasicBoard(t *testing.T) {
	board := testBoard(t)
	meta := Metadata{Title: "Test Puzzle", Author: "Test Author"}

	data, err := FormatPuz(board, meta)
	if err != nil {
		t.Fatalf("FormatPuz failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("ACROSS&DOWN\x00")) {
		t.Fatalf("missing ACROSS&DOWN magic at file start")
	}
	if !bytes.Contains(data[:0x20], []byte("ICHEATED")) {
		t.Errorf("missing ICHEATED magic")
	}

	width := data[0x2C]
	height := data[0x2D]
	if width != 3 || height != 3 {
		t.Errorf("width/height = %d/%d, want 3/3", width, height)
	}

	solutionStart := 0x34
	solution := string(data[solutionStart : solutionStart+9])
	if solution != "ACET..EAT" {
		t.Errorf("solution = %q, want %q", solution, "ACET..EAT")
	}

	state := string(data[solutionStart+9 : solutionStart+18])
	if state != "---------" {
		t.Errorf("state = %q, want all dashes", state)
	}

	// Strings section: title\0author\0copyright\0clue...\0
	stringsSection := string(data[solutionStart+18:])
	if !bytes.Contains([]byte(stringsSection), []byte("Test Puzzle\x00")) {
		t.Errorf("strings section missing title, got %q", stringsSection)
	}
	if !bytes.Contains([]byte(stringsSection), []byte("Test Author\x00")) {
		t.Errorf("strings section missing author, got %q", stringsSection)
	}
}

func TestFormatPuz_NumCluesMatchesEntryCount(t *testing.T) {
	board := testBoard(t)
	data, err := FormatPuz(board, Metadata{Title: "T", Author: "A"})
	if err != nil {
		t.Fatalf("FormatPuz failed: %v", err)
	}

	numClues := int(data[0x2E]) | int(data[0x2F])<<8
	if numClues != 3 {
		t.Errorf("numClues = %d, want 3 (2 across + 1 down entry)", numClues)
	}
}

func TestBuildClueStrings_OrdersAcrossBeforeDownOnTie(t *testing.T) {
	board := testBoard(t)
	clues := buildClueStrings(board)
	if len(clues) != 3 {
		t.Fatalf("len(clues) = %d, want 3", len(clues))
	}
	for _, c := range clues {
		if c != "" {
			t.Errorf("clue = %q, want empty string placeholder", c)
		}
	}
}

func TestChecksumRegion(t *testing.T) {
	// A zero-length region leaves the checksum untouched.
	if got := checksumRegion(42, nil); got != 42 {
		t.Errorf("checksumRegion(42, nil) = %d, want 42", got)
	}
}
