package xword

import "math"

// NRPA search parameters. These are the engine's built-in defaults;
// callers that need to tune the search (see internal/config) construct a
// Constructor directly and can swap in their own values via ConstructorOptions.
const (
	defaultNRPALevel        = 3
	defaultNRPAIters        = 100
	defaultNRPAAlpha        = float32(1.0)
	defaultMaxStalledIters  = 100
)

// ScoredMove pairs a placement with the NRPA policy weight the search has
// learned for it. exp_score is kept alongside score so the weighted
// selection trees never recompute fastexp on every draw.
type ScoredMove struct {
	Place    *Placement
	Score    float32
	ExpScore float32
}

func (m ScoredMove) Key() PlacementID { return m.Place.ID }
func (m ScoredMove) Weight() float32  { return m.ExpScore }

// AdjacencyRec is a shared counter of how many resolvers remain able to
// clear one illegal adjacency. Every resolver placement that could fix the
// adjacency holds a pointer to the same counter; removing a resolver
// decrements it for every adjacency it was backing.
type AdjacencyRec struct {
	Counter *int
}

// AdjacencyResolver is a candidate placement being held in reserve because
// committing it would resolve one or more pending adjacency violations.
type AdjacencyResolver struct {
	Mv   ScoredMove
	Adjs []*AdjacencyRec
}

func (r AdjacencyResolver) Key() PlacementID { return r.Mv.Key() }
func (r AdjacencyResolver) Weight() float32  { return r.Mv.Weight() }

// ChosenMove is a placement committed during one rollout, together with the
// ids of every other placement it rendered inadmissible at the time.
type ChosenMove struct {
	PlaceRef *Placement
	Excl     []PlacementID
}

// Place implements PlaceMove so a FixedGrid can track ChosenMove sequences.
func (m ChosenMove) Place() *Placement { return m.PlaceRef }

// ChosenSequence is one full rollout: the sequence of moves chosen, the
// moves fixup_adjacent subsequently removed (only meaningful for the
// "valid" half of a rollout pair), and the resulting board efficiency.
type ChosenSequence struct {
	Seq     []ChosenMove
	Removed []ChosenMove
	Eff     Eff
}

// resolutionMap holds placements kept in reserve as adjacency resolvers,
// selected proportionally just like the main selection tree.
type resolutionMap = WeightedSelectionTree[PlacementID, AdjacencyResolver]

// selectTree holds every still-admissible, non-reserved placement.
type selectTree = WeightedSelectionTree[PlacementID, ScoredMove]

// ConstructorOptions overrides the NRPA search's built-in defaults.
type ConstructorOptions struct {
	Level           int
	Iters           int
	Alpha           float32
	MaxStalledIters int
}

// Constructor runs Nested Rollout Policy Adaptation over a problem's
// placements to build a single crossword board, recursively self-playing
// rollouts and adapting a per-placement policy toward whatever rollout
// scored best at each level. See http://www.chrisrosin.com/rosin-ijcai11.pdf.
type Constructor struct {
	places            []*Placement
	placementsPerWord [][]PlacementID
	h, w              int
	rng               AbstractRng

	level           int
	iters           int
	alpha           float32
	maxStalledIters int
}

// NewConstructor prepares a search over problem's placements using the
// engine's default NRPA parameters.
func NewConstructor(problem *Problem, places []*Placement, rng AbstractRng) *Constructor {
	return NewConstructorWithOptions(problem, places, rng, ConstructorOptions{
		Level: defaultNRPALevel, Iters: defaultNRPAIters,
		Alpha: defaultNRPAAlpha, MaxStalledIters: defaultMaxStalledIters,
	})
}

// NewConstructorWithOptions is NewConstructor with explicit search parameters.
func NewConstructorWithOptions(problem *Problem, places []*Placement, rng AbstractRng, opts ConstructorOptions) *Constructor {
	placementsPerWord := make([][]PlacementID, len(problem.Dictionary))
	for _, p := range places {
		placementsPerWord[p.Word.ID] = append(placementsPerWord[p.Word.ID], p.ID)
	}
	return &Constructor{
		places: places, placementsPerWord: placementsPerWord,
		h: problem.Height, w: problem.Width, rng: rng,
		level: opts.Level, iters: opts.Iters, alpha: opts.Alpha, maxStalledIters: opts.MaxStalledIters,
	}
}

// Construct runs the search to completion and returns the best board found:
// the placements of best_valid_seq, i.e. after fixup_adjacent has dropped
// whatever still touched illegally.
func (c *Constructor) Construct() []*Placement {
	policy := make([]ScoredMove, len(c.places))
	for i, p := range c.places {
		policy[i] = ScoredMove{Place: p, Score: 0, ExpScore: 1}
	}
	variants := NewVariantGrid(c.places, c.h, c.w)
	_, bestValidSeq := c.nrpa(c.level, variants, policy)

	result := make([]*Placement, len(bestValidSeq.Seq))
	for i, mv := range bestValidSeq.Seq {
		result[i] = mv.PlaceRef
	}
	return result
}

func (c *Constructor) nrpa(level int, variants *VariantGrid, parentPolicy []ScoredMove) (ChosenSequence, ChosenSequence) {
	if level == 0 {
		return c.nrpaMonteCarlo(parentPolicy, variants)
	}

	parentPolicyCopy := append([]ScoredMove(nil), parentPolicy...)
	policy := append([]ScoredMove(nil), parentPolicy...)

	var bestSeq, bestValidSeq, bestSavedSeq, bestValidSavedSeq ChosenSequence
	lastProgress := 0

	for iter := 0; iter < c.iters; iter++ {
		newSeq, newValidSeq := c.nrpa(level-1, variants, policy)

		maxStall := c.maxStalledIters + level
		mustBacktrack := newValidSeq.Eff <= bestValidSeq.Eff && (iter-lastProgress) >= maxStall

		if mustBacktrack {
			policy = c.nrpaBacktrack(bestSeq.Seq, policy, parentPolicyCopy)
			bestSeq = ChosenSequence{}
			bestValidSeq = ChosenSequence{}
			lastProgress = iter
		} else {
			if newValidSeq.Eff >= bestValidSeq.Eff {
				if newValidSeq.Eff > bestValidSeq.Eff {
					lastProgress = iter
				}
				bestSeq = newSeq
				bestValidSeq = newValidSeq
				if bestValidSeq.Eff >= bestValidSavedSeq.Eff {
					bestSavedSeq = bestSeq
					bestValidSavedSeq = bestValidSeq
				}
			}
			policy = c.nrpaAdapt(policy, bestSeq)
		}
	}

	return bestSavedSeq, bestValidSavedSeq
}

// nrpaBacktrack undoes a stalled branch: every placement chosen along seq
// has its score nudged back down in the parent policy (proportional to its
// share of the parent's total exp_score), and that nudged value is copied
// into the working policy too.
func (c *Constructor) nrpaBacktrack(seq []ChosenMove, movesPolicy []ScoredMove, parentMoves []ScoredMove) []ScoredMove {
	z := float32(0)
	for _, mv := range parentMoves {
		z += mv.ExpScore
	}

	for _, cm := range seq {
		chosenID := cm.PlaceRef.ID
		pm := &parentMoves[chosenID]
		pm.Score -= c.alpha * pm.ExpScore / z
		pm.ExpScore = expScore(pm)
		movesPolicy[chosenID].Score = pm.Score
		movesPolicy[chosenID].ExpScore = pm.ExpScore
	}

	return movesPolicy
}

// removeIncompat drops every remaining placement of mv's own word, then
// every placement the variant grid reports as incompatible with mv, from
// whichever of select_tree / resolution_map currently holds it. Returns
// every move removed this way.
func (c *Constructor) removeIncompat(mv ScoredMove, grid *VariantGrid, st *selectTree, rm *resolutionMap) []ScoredMove {
	wordPlacements := c.placementsPerWord[mv.Place.Word.ID]
	removed := make([]ScoredMove, 0, len(wordPlacements))
	for _, pid := range wordPlacements {
		if grid.Contains(pid) {
			grid.Remove(pid)
			var m ScoredMove
			if st.ContainsKey(pid) {
				m = st.Remove(pid)
			} else {
				m = rm.Remove(pid).Mv
			}
			removed = append(removed, m)
		}
	}

	incompatIDs := grid.RemoveIncompat(mv.Place.ID)

	var resolversToRm, movesToRm []PlacementID
	for _, plID := range incompatIDs {
		if rm.ContainsKey(plID) {
			resolversToRm = append(resolversToRm, plID)
		} else {
			movesToRm = append(movesToRm, plID)
		}
	}

	rmvdResolvers := rm.RemoveBulk(resolversToRm)
	for _, rslvr := range rmvdResolvers {
		for _, adj := range rslvr.Adjs {
			*adj.Counter--
		}
		removed = append(removed, rslvr.Mv)
	}

	removed = append(removed, st.RemoveBulk(movesToRm)...)

	return removed
}

// nrpaChoose draws the next move proportional to its policy weight —
// from the resolution map if it holds any candidates, else from the main
// selection tree — commits it to the variant grid, and clears out
// whatever it renders inadmissible.
func (c *Constructor) nrpaChoose(st *selectTree, grid *VariantGrid, rm *resolutionMap) ChosenMove {
	var mv ScoredMove
	if rm.IsEmpty() {
		mv = selectProportional[PlacementID, ScoredMove](c.rng, st)
	} else {
		mv = selectProportional[PlacementID, AdjacencyResolver](c.rng, rm).Mv
	}
	grid.Remove(mv.Place.ID)

	excl := c.removeIncompat(mv, grid, st, rm)
	exclKeys := make([]PlacementID, len(excl))
	for i, m := range excl {
		exclKeys[i] = m.Place.ID
	}
	return ChosenMove{PlaceRef: mv.Place, Excl: exclKeys}
}

// nrpaPlace commits chosen to the fixed grid, then for every illegal
// adjacency it creates, gathers every placement still admissible at that
// cell as a resolver held in reserve (moving it out of the main selection
// tree and into the resolution map). Reports false if any new adjacency
// has zero resolvers — a rollout in that state cannot ever be fully
// resolved by fixup_adjacent, though by design (mirrored from the engine
// this was ported from) that signal is not currently acted on by the
// caller.
func (c *Constructor) nrpaPlace(chosen ChosenMove, fixedGrid *FixedGrid[ChosenMove], variantGrid *VariantGrid, st *selectTree, rm *resolutionMap) bool {
	fixedGrid.Place(chosen)
	adjacencies := fixedGrid.AdjacenciesOf(chosen.Place().ID)

	var newResolverIDs []PlacementID
	var newResolverAdjs []*AdjacencyRec
	success := true

	for _, adj := range adjacencies {
		counter := new(int)
		for _, placeID := range variantGrid.IterAt(adj.Y, adj.X) {
			*counter++
			rec := &AdjacencyRec{Counter: counter}
			if resolver, ok := rm.GetMut(placeID); ok {
				resolver.Adjs = append(resolver.Adjs, rec)
			} else {
				newResolverIDs = append(newResolverIDs, placeID)
				newResolverAdjs = append(newResolverAdjs, rec)
			}
		}
		if *counter == 0 {
			success = false
			break
		}
	}

	resolvers := st.RemoveBulk(newResolverIDs)
	entries := make([]AdjacencyResolver, len(resolvers))
	for i, mv := range resolvers {
		entries[i] = AdjacencyResolver{Mv: mv, Adjs: []*AdjacencyRec{newResolverAdjs[i]}}
	}
	rm.InsertBulk(newResolverIDs, entries)

	return success
}

// selectProportional draws a single item from tree with probability
// proportional to its weight, and removes it. When the tree's total weight
// is non-positive it must hold exactly one item (every real weight is
// strictly positive), which is drawn unconditionally.
func selectProportional[K comparable, I Item[K]](rng AbstractRng, tree *WeightedSelectionTree[K, I]) I {
	z := tree.Total()
	if z <= 0 {
		item, _ := tree.SelectRemove(0.0)
		return item
	}
	v := rng.Float32(z)
	item, _ := tree.SelectRemove(v)
	return item
}

// nrpaMonteCarlo is the level-0 rollout: starting from policy, repeatedly
// choose-and-place moves against a fresh clone of the variant grid until
// no admissible or reserved placement remains, then compute the raw
// efficiency and the fixup_adjacent-resolved "valid" efficiency.
func (c *Constructor) nrpaMonteCarlo(policy []ScoredMove, variants *VariantGrid) (ChosenSequence, ChosenSequence) {
	fixedGrid := NewFixedGrid[ChosenMove](c.h, c.w, c.rng)
	variantsClone := variants.Clone()

	bestSeq := ChosenSequence{Seq: make([]ChosenMove, 0, len(c.placementsPerWord))}

	st := NewSelectionTree[PlacementID, ScoredMove](append([]ScoredMove(nil), policy...))
	rm := NewSelectionTree[PlacementID, AdjacencyResolver](nil)

	for !st.IsEmpty() || !rm.IsEmpty() {
		chosen := c.nrpaChoose(st, variantsClone, rm)
		c.nrpaPlace(chosen, fixedGrid, variantsClone, st, rm)
		bestSeq.Seq = append(bestSeq.Seq, chosen)
	}

	bestSeq.Eff = fixedGrid.Efficiency()

	valid, removed, validEff := fixedGrid.FixupAdjacent()
	bestValidSeq := ChosenSequence{Seq: valid, Removed: removed, Eff: validEff}

	return bestSeq, bestValidSeq
}

// expScore is the policy weight exp(score + word length), fast-approximated
// and clamped to a finite, positive range so the selection trees never see
// an infinity or a NaN.
func expScore(mv *ScoredMove) float32 {
	s := fastexp(mv.Score + float32(mv.Place.Word.Len()))
	if math.IsInf(float64(s), 0) || s > 1.0e8 || s < 0 || math.IsNaN(float64(s)) {
		return 1.0e8
	}
	return s
}

// nrpaAdapt is the NRPA policy-gradient step: it nudges the chosen move's
// score up and every move it excluded down, each step's adjustment shrunk
// by the remaining "time" left in the sequence (zs/Ts below), so that
// moves chosen earlier in a winning rollout are reinforced most strongly.
func (c *Constructor) nrpaAdapt(policy []ScoredMove, seq ChosenSequence) []ScoredMove {
	zs := make([]float32, len(seq.Seq))
	for i, cm := range seq.Seq {
		z := policy[cm.PlaceRef.ID].ExpScore
		for _, plID := range cm.Excl {
			z += policy[plID].ExpScore
		}
		zs[i] = z
	}

	ts := make([]float32, len(zs))
	acc := float32(0)
	for i := len(zs) - 1; i >= 0; i-- {
		acc += zs[i]
		ts[len(zs)-1-i] = acc
	}

	tsIdx := len(ts) - 1
	adjust := float32(0)
	for _, cm := range seq.Seq {
		chosenID := cm.PlaceRef.ID

		adjust += 1.0 / ts[tsIdx]
		tsIdx--

		chosen := &policy[chosenID]
		chosen.Score += c.alpha - c.alpha*chosen.ExpScore*adjust
		chosen.ExpScore = expScore(chosen)

		for _, plID := range cm.Excl {
			scored := &policy[plID]
			scored.Score -= c.alpha * scored.ExpScore * adjust
			scored.ExpScore = expScore(scored)
		}
	}

	return policy
}
