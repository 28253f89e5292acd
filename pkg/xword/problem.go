package xword

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseProblem parses the on-disk problem file format: an "HxW" header
// line, one or more board lines using '_' for an open cell and '#' for a
// blocked one, a "-----" separator, and one dictionary word per line after
// it. Uppercase letters are folded to lowercase before parsing, since the
// format carries no case distinction.
func ParseProblem(data []byte) (*Problem, error) {
	data = bytes.ToLower(data)
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	idx := 0
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx >= len(lines) {
		return nil, fmt.Errorf("xword: empty problem file")
	}

	h, w, err := parseHeader(lines[idx])
	if err != nil {
		return nil, err
	}
	idx++

	boardLines := make([]string, 0, h)
	for idx < len(lines) {
		line := lines[idx]
		if strings.HasPrefix(line, "-----") {
			break
		}
		if line == "" {
			idx++
			continue
		}
		boardLines = append(boardLines, line)
		idx++
	}
	if idx >= len(lines) {
		return nil, fmt.Errorf("xword: missing ----- separator")
	}
	idx++ // skip the separator line itself

	if len(boardLines) != h {
		return nil, fmt.Errorf("xword: expected %d board rows, got %d", h, len(boardLines))
	}

	open := make([][]bool, h)
	for y, line := range boardLines {
		if len(line) != w {
			return nil, fmt.Errorf("xword: board row %d has width %d, want %d", y, len(line), w)
		}
		open[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			switch line[x] {
			case '_':
				open[y][x] = true
			case '#':
				open[y][x] = false
			default:
				return nil, fmt.Errorf("xword: unexpected board char %q at row %d col %d", line[x], y, x)
			}
		}
	}

	var words [][]byte
	for ; idx < len(lines); idx++ {
		word := strings.TrimRight(lines[idx], " \t")
		if word == "" {
			continue
		}
		words = append(words, []byte(word))
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("xword: empty dictionary")
	}

	return NewProblem(h, w, open, words), nil
}

func parseHeader(line string) (h, w int, err error) {
	parts := strings.SplitN(strings.TrimSpace(line), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("xword: malformed header %q, want HxW", line)
	}
	h, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("xword: malformed header height: %w", err)
	}
	w, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("xword: malformed header width: %w", err)
	}
	return h, w, nil
}
