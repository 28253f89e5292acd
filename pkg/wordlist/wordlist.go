// Package wordlist loads scored dictionaries in Peter Broda's WORD;SCORE
// format and serves pattern matches against them — the dictionary source
// an xword.Problem's word list is built from.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/crossplay/backend/pkg/xword"
)

// Entry is a word with its quality score.
type Entry struct {
	Text  string // The word itself
	Score int    // Quality score for this word
}

// Wordlist represents a collection of words organized by length
type Wordlist struct {
	ByLength map[int][]Entry // Words grouped by length, sorted by score descending

	trie *Trie // built by EnableTrieMatch; nil until then
}

// LoadBrodaWordlist loads a wordlist from a file in Peter Broda's format (WORD;SCORE).
// Each line should contain a word and its score separated by a semicolon.
// Words are converted to uppercase, grouped by length, and sorted by score (descending).
// Returns an error if the file is missing or malformed.
func LoadBrodaWordlist(path string) (*Wordlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist file: %w", err)
	}
	defer file.Close()

	wl := &Wordlist{
		ByLength: make(map[int][]Entry),
	}

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		// Parse WORD;SCORE format
		parts := strings.Split(line, ";")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed line %d: expected format 'WORD;SCORE', got '%s'", lineNum, line)
		}

		text := strings.ToUpper(strings.TrimSpace(parts[0]))
		scoreStr := strings.TrimSpace(parts[1])

		if text == "" {
			return nil, fmt.Errorf("malformed line %d: empty word", lineNum)
		}

		score, err := strconv.Atoi(scoreStr)
		if err != nil {
			return nil, fmt.Errorf("malformed line %d: invalid score '%s': %w", lineNum, scoreStr, err)
		}

		// Group words by length
		length := len(text)
		wl.ByLength[length] = append(wl.ByLength[length], Entry{
			Text:  text,
			Score: score,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}

	// Sort each length bucket by score descending
	for length := range wl.ByLength {
		sort.Slice(wl.ByLength[length], func(i, j int) bool {
			return wl.ByLength[length][i].Score > wl.ByLength[length][j].Score
		})
	}

	return wl, nil
}

// GetWordsOfLength returns all words of a specific length, sorted by score descending.
// Returns an empty slice if no words of that length exist.
func (wl *Wordlist) GetWordsOfLength(length int) []Entry {
	words, exists := wl.ByLength[length]
	if !exists {
		return []Entry{}
	}
	return words
}

// Size returns the total number of words in the wordlist.
func (wl *Wordlist) Size() int {
	count := 0
	for _, words := range wl.ByLength {
		count += len(words)
	}
	return count
}

// EnableTrieMatch builds a Trie over every loaded word and switches Match to
// use it. It trades a one-time O(total letters) build for Match calls whose
// cost scales with the pattern's fixed letters instead of the whole
// length-bucket, which matters once Match is on the hot path of an NRPA
// rollout instead of called a handful of times per request.
func (wl *Wordlist) EnableTrieMatch() {
	trie := NewTrie()
	for _, words := range wl.ByLength {
		for _, w := range words {
			trie.Insert(w.Text, w.Score)
		}
	}
	wl.trie = trie
}

// Match finds all words matching a pattern (e.g., "J__Z" matches JAZZ, JIZZ, etc.)
// Underscore '_' matches any letter. Returns entries sorted by score descending.
// Uses the Trie path once EnableTrieMatch has been called, otherwise scans the
// length bucket directly.
func (wl *Wordlist) Match(pattern string) []Entry {
	if wl.trie != nil {
		results := wl.trie.Match(pattern)
		matches := make([]Entry, len(results))
		for i, r := range results {
			matches[i] = Entry{Text: r.Word, Score: r.Score}
		}
		return matches
	}

	patternLen := len(pattern)
	candidates, exists := wl.ByLength[patternLen]
	if !exists {
		return []Entry{}
	}

	var matches []Entry
	for _, word := range candidates {
		if matchesPattern(word.Text, pattern) {
			matches = append(matches, word)
		}
	}

	return matches
}

// MatchWithScores finds all words matching a pattern with scores at or above
// minScore, sorted by score descending (ByLength is already sorted, so the
// filter preserves order).
func (wl *Wordlist) MatchWithScores(pattern string, minScore int) []Entry {
	patternLen := len(pattern)
	candidates, exists := wl.ByLength[patternLen]
	if !exists {
		return []Entry{}
	}

	var matches []Entry
	for _, word := range candidates {
		if word.Score >= minScore && matchesPattern(word.Text, pattern) {
			matches = append(matches, word)
		}
	}

	return matches
}

// MatchWords is Match, but hands back arena-backed xword.Word values instead
// of plain strings — the form the enumerator and NRPA search consume. The
// returned words' ids are dense and assigned in match order; they carry no
// relation to ids assigned by any xword.Problem and must not be mixed with
// placements drawn from one.
func (wl *Wordlist) MatchWords(pattern string) []xword.Word {
	matches := wl.Match(pattern)
	if len(matches) == 0 {
		return nil
	}
	raw := make([][]byte, len(matches))
	for i, m := range matches {
		raw[i] = []byte(strings.ToLower(m.Text))
	}
	return xword.NewWordArena(raw)
}

// ToProblemDictionary flattens every loaded word into the lowercase
// [][]byte form xword.NewProblem/xword.GenerateTemplate expect, longest
// words first so a generator sizing a board to its biggest entries sees
// them up front. Within a length, words keep their score-descending order.
func (wl *Wordlist) ToProblemDictionary() [][]byte {
	lengths := make([]int, 0, len(wl.ByLength))
	for length := range wl.ByLength {
		lengths = append(lengths, length)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	var out [][]byte
	for _, length := range lengths {
		for _, entry := range wl.ByLength[length] {
			out = append(out, []byte(strings.ToLower(entry.Text)))
		}
	}
	return out
}

// matchesPattern checks if a word matches a pattern where '_' matches any letter
func matchesPattern(word, pattern string) bool {
	if len(word) != len(pattern) {
		return false
	}

	for i := 0; i < len(word); i++ {
		if pattern[i] != '_' && pattern[i] != word[i] {
			return false
		}
	}

	return true
}
