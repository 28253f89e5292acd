package xword

import "testing"

type intItem struct {
	key    int
	weight float32
}

func (it intItem) Key() int       { return it.key }
func (it intItem) Weight() float32 { return it.weight }

func intItems(keys []int) []intItem {
	out := make([]intItem, len(keys))
	for i, k := range keys {
		out[i] = intItem{key: k, weight: float32(k)}
	}
	return out
}

// checkTree recomputes every node's cached subtree total bottom-up and
// fails if any of them had gone stale, exactly the original's check_tree.
func checkTree(t *testing.T, tree *WeightedSelectionTree[int, intItem]) {
	t.Helper()
	for i := len(tree.data) - 1; i >= 0; i-- {
		old := tree.data[i].total
		tree.updateNode(i)
		if old != tree.data[i].total {
			t.Fatalf("node %d total went stale: was %v, recomputed %v", i, old, tree.data[i].total)
		}
	}
}

func TestSelectionTreeNew(t *testing.T) {
	keys := make([]int, 6)
	for i := range keys {
		keys[i] = i
	}
	tree := NewSelectionTree[int, intItem](intItems(keys))
	checkTree(t, tree)
}

func TestSelectionTreeRemoveLastN(t *testing.T) {
	cases := []struct {
		keys []int
		n    int
		want []int
	}{
		{[]int{0, 1, 2, 3}, 3, []int{1, 2, 3}},
		{[]int{0, 1, 2, 3}, 1, []int{3}},
		{[]int{0, 1, 2, 3}, 2, []int{2, 3}},
		{[]int{0, 1, 2, 3}, 4, []int{0, 1, 2, 3}},
	}
	for _, c := range cases {
		tree := NewSelectionTree[int, intItem](intItems(c.keys))
		got := tree.removeLastN(c.n)
		if len(got) != len(c.want) {
			t.Fatalf("removeLastN(%d) on %v = %v, want keys %v", c.n, c.keys, got, c.want)
		}
		for i, it := range got {
			if it.key != c.want[i] {
				t.Errorf("removeLastN(%d) on %v: item %d key = %d, want %d", c.n, c.keys, i, it.key, c.want[i])
			}
		}
	}

	tree := NewSelectionTree[int, intItem](intItems([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}))
	got := tree.removeLastN(4)
	want := []int{5, 6, 7, 8}
	for i, it := range got {
		if it.key != want[i] {
			t.Errorf("item %d key = %d, want %d", i, it.key, want[i])
		}
	}
	if len(tree.data) != 9-4 {
		t.Errorf("tree len = %d, want %d", len(tree.data), 9-4)
	}
	checkTree(t, tree)
}

func removeBulkTestcase(t *testing.T, nkeys int, remove []int) {
	t.Helper()
	keys := make([]int, nkeys)
	for i := range keys {
		keys[i] = i
	}
	tree := NewSelectionTree[int, intItem](intItems(keys))

	tree.RemoveBulk(remove)

	removed := make(map[int]bool, len(remove))
	for _, k := range remove {
		removed[k] = true
	}
	present := make([]bool, nkeys)
	for _, node := range tree.data {
		present[node.item.key] = true
	}
	for k := 0; k < nkeys; k++ {
		want := !removed[k]
		if present[k] != want {
			t.Errorf("remove %v from %d keys: key %d present = %v, want %v", remove, nkeys, k, present[k], want)
		}
	}
	checkTree(t, tree)
}

func TestSelectionTreeRemoveBulk(t *testing.T) {
	for n := 1; n <= 11; n++ {
		removeBulkTestcase(t, n, []int{0})
	}

	cases := []struct {
		nkeys  int
		remove []int
	}{
		{9, []int{1, 3, 2, 8}},
		{16, []int{15, 14, 13, 12, 11, 10, 9, 8, 7}},
		{16, []int{7, 8, 9, 10, 11, 12, 13, 14}},
		{16, []int{14, 13, 12, 11, 10, 9, 8, 7}},
		{16, []int{7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{16, []int{15, 12, 11, 10, 9, 8, 7, 14, 13}},
		{16, []int{0}},
		{16, []int{0, 1}},
		{16, []int{0, 1, 2}},
		{16, []int{0, 1, 2, 3}},
		{16, []int{0, 1, 2, 3, 4}},
		{16, []int{4, 3, 2, 1, 0}},
		{16, []int{15, 7, 3, 1, 0}},
		{16, []int{15, 7}},
		{16, []int{15, 8}},
		{16, []int{7, 15}},
		{16, []int{8, 15}},
		{16, []int{14, 6}},
		{16, []int{14, 5}},
		{16, []int{13, 6}},
		{16, []int{13, 5}},
		{16, []int{13, 4}},
		{16, []int{6, 14}},
		{16, []int{5, 14}},
		{16, []int{6, 13}},
		{16, []int{5, 13}},
		{16, []int{4, 13}},
		{9, []int{1, 3, 2, 8}},
	}
	for _, c := range cases {
		removeBulkTestcase(t, c.nkeys, c.remove)
	}
}

func TestSelectionTreeSelectRemove(t *testing.T) {
	tree := NewSelectionTree[int, intItem](intItems([]int{1, 2, 3, 4}))
	total := tree.Total()
	if total != 10 {
		t.Fatalf("Total() = %v, want 10", total)
	}

	seen := make(map[int]bool)
	for !tree.IsEmpty() {
		it, ok := tree.SelectRemove(0)
		if !ok {
			t.Fatal("SelectRemove(0) on a non-empty tree returned false")
		}
		if seen[it.key] {
			t.Fatalf("key %d selected twice", it.key)
		}
		seen[it.key] = true
	}
	if len(seen) != 4 {
		t.Fatalf("drained %d distinct keys, want 4", len(seen))
	}
}

func TestSelectionTreeInsertAndRemove(t *testing.T) {
	tree := NewSelectionTree[int, intItem](nil)
	if !tree.IsEmpty() {
		t.Fatal("fresh tree should be empty")
	}
	tree.Insert(5, intItem{key: 5, weight: 5})
	tree.Insert(7, intItem{key: 7, weight: 7})
	if !tree.ContainsKey(5) || !tree.ContainsKey(7) {
		t.Fatal("expected both inserted keys present")
	}
	if got := tree.Total(); got != 12 {
		t.Fatalf("Total() = %v, want 12", got)
	}
	removed := tree.Remove(5)
	if removed.key != 5 {
		t.Fatalf("Remove(5) returned key %d", removed.key)
	}
	if tree.ContainsKey(5) {
		t.Fatal("key 5 should be gone after Remove")
	}
	checkTree(t, tree)
}
