package xword

// wordArena stores every dictionary word's letters contiguously in one
// backing slice, handing out Word values that reference (offset, length)
// into it instead of allocating per-word. It is owned by exactly one
// Problem; Word values it produces must not be retained past that
// Problem's lifetime (see SPEC_FULL.md's word-byte arena discussion).
type wordArena struct {
	mem    []byte
	slices []arenaSlice
}

type arenaSlice struct {
	from, to int
}

func newWordArena(words [][]byte) *wordArena {
	total := 0
	for _, w := range words {
		total += len(w)
	}
	mem := make([]byte, 0, total)
	slices := make([]arenaSlice, len(words))
	for i, w := range words {
		from := len(mem)
		mem = append(mem, w...)
		slices[i] = arenaSlice{from: from, to: len(mem)}
	}
	return &wordArena{mem: mem, slices: slices}
}

func (a *wordArena) word(id WordID) Word {
	s := a.slices[id]
	return Word{ID: id, bytes: a.mem[s.from:s.to]}
}

// NewWordArena mints a standalone slice of arena-backed Word values from raw
// dictionary bytes, for callers that want Problem's no-per-word-allocation
// layout without building a full Problem around it (pkg/wordlist's match
// results, for instance). The returned Words' ids are dense and assigned in
// input order; they are only meaningful for comparing among themselves, not
// for indexing into any Problem's dictionary.
func NewWordArena(words [][]byte) []Word {
	arena := newWordArena(words)
	out := make([]Word, len(words))
	for i := range words {
		out[i] = arena.word(WordID(i))
	}
	return out
}
