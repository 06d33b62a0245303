/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// slotGraph assigns one boolean solver variable to every unordered pair
// of distinct players. Variable identifiers are 1-based; identifiers
// at or above nextVar's high-water mark after construction are
// auxiliary counter variables introduced by the cardinality encoder.
type slotGraph struct {
	numPlayers int
	vars       map[[2]int]int
	pairs      [][2]int // vars[pairs[v-1]] == v
	nextVar    int
}

func newSlotGraph(numPlayers int) *slotGraph {
	g := &slotGraph{
		numPlayers: numPlayers,
		vars:       make(map[[2]int]int),
		nextVar:    1,
	}
	for n := 0; n < numPlayers; n++ {
		for m := n + 1; m < numPlayers; m++ {
			g.vars[[2]int{n, m}] = g.nextVar
			g.pairs = append(g.pairs, [2]int{n, m})
			g.nextVar++
		}
	}
	return g
}

// lit returns the positive literal for the slot pairing players n and m.
func (g *slotGraph) lit(n, m int) int {
	return g.vars[pairKey(n, m)]
}

// adjacency returns the slot literals touching player n, in ascending
// opponent order.
func (g *slotGraph) adjacency(n int) []int {
	lits := make([]int, 0, g.numPlayers-1)
	for m := 0; m < g.numPlayers; m++ {
		if m != n {
			lits = append(lits, g.lit(n, m))
		}
	}
	return lits
}

// noRepeatClauses forces every slot whose pair appears in the opponent
// history to false.
func noRepeatClauses(prob *Problem, g *slotGraph) [][]int {
	var clauses [][]int
	keys := make([][2]int, 0, len(prob.history))
	for key := range prob.history {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i][0] < keys[j][0] ||
			(keys[i][0] == keys[j][0] && keys[i][1] < keys[j][1])
	})
	for _, key := range keys {
		clauses = append(clauses, []int{-g.lit(key[0], key[1])})
	}
	return clauses
}

// requestedCountClauses emits, for every player, the cardinality
// constraint that exactly their requested number of adjacent slots is
// true. Per-player construction is pure and independent, so it runs on
// an errgroup worker pool and is merged in player order before the
// caller asserts anything.
func requestedCountClauses(prob *Problem, g *slotGraph) [][]int {
	perPlayer := make([][][]int, prob.NumPlayers())
	auxStart := g.nextVar

	var eg errgroup.Group
	for n := 0; n < prob.NumPlayers(); n++ {
		n := n
		// Reserve a disjoint auxiliary-variable range per player so the
		// workers never contend; the encoder needs fewer than 4·players
		// counters per constraint.
		base := auxStart + n*auxVarsPerPlayer(prob.NumPlayers())
		eg.Go(func() error {
			next := base
			perPlayer[n] = exactlyK(g.adjacency(n),
				prob.players[n].RequestedMatches, &next)
			return nil
		})
	}
	// Workers are pure computation and never fail.
	_ = eg.Wait()

	g.nextVar = auxStart +
		prob.NumPlayers()*auxVarsPerPlayer(prob.NumPlayers())

	var merged [][]int
	for _, clauses := range perPlayer {
		merged = append(merged, clauses...)
	}
	return merged
}

func auxVarsPerPlayer(numPlayers int) int {
	// The popcount fallback introduces one counter variable per input
	// literal per merge level, so n·(⌈log₂ n⌉+1) bounds an adjacency
	// list of length n-1.
	levels := 1
	for v := 1; v < numPlayers; v *= 2 {
		levels++
	}
	return numPlayers * levels
}

// exactlyK encodes "exactly k of lits are true". For the small fixed
// arities the league allows (k ≤ 3) it enumerates the forbidden and
// required combinations directly; larger k falls back to a recursive
// divide-and-conquer popcount network drawing auxiliary variables from
// *next.
func exactlyK(lits []int, k int, next *int) [][]int {
	if k < 0 || k > len(lits) {
		// Unsatisfiable request; pin a fresh variable both ways rather
		// than emitting an empty clause, which not every engine accepts.
		v := *next
		*next++
		return [][]int{{v}, {-v}}
	}
	if k == 0 {
		clauses := make([][]int, 0, len(lits))
		for _, l := range lits {
			clauses = append(clauses, []int{-l})
		}
		return clauses
	}
	if k <= MaxRequestedMatches {
		return append(atMostK(lits, k), atLeastK(lits, k)...)
	}
	return popcountEq(lits, k, next)
}

// atMostK forbids every combination of k+1 true literals: one clause of
// k+1 negations per (k+1)-subset.
func atMostK(lits []int, k int) [][]int {
	var clauses [][]int
	forEachSubset(lits, k+1, func(sub []int) {
		clause := make([]int, len(sub))
		for i, l := range sub {
			clause[i] = -l
		}
		clauses = append(clauses, clause)
	})
	return clauses
}

// atLeastK requires a true literal inside every (len-k+1)-subset, which
// is equivalent to at least k of lits being true.
func atLeastK(lits []int, k int) [][]int {
	var clauses [][]int
	forEachSubset(lits, len(lits)-k+1, func(sub []int) {
		clauses = append(clauses, append([]int(nil), sub...))
	})
	return clauses
}

// forEachSubset invokes fn with every size-r subset of lits. The slice
// passed to fn is reused; fn must copy if it retains it.
func forEachSubset(lits []int, r int, fn func([]int)) {
	if r < 0 || r > len(lits) {
		return
	}
	sub := make([]int, r)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == r {
			fn(sub)
			return
		}
		for i := start; i <= len(lits)-(r-depth); i++ {
			sub[depth] = lits[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

// popcountEq builds a unary totalizer over lits by recursively splitting
// the set, merging the two halves' counters, and pinning the root count
// to exactly k.
func popcountEq(lits []int, k int, next *int) [][]int {
	var clauses [][]int
	counters := totalizer(lits, next, &clauses)
	// counters[i] is true iff at least i+1 inputs are true.
	clauses = append(clauses, []int{counters[k-1]})
	if k < len(counters) {
		clauses = append(clauses, []int{-counters[k]})
	}
	return clauses
}

// totalizer returns unary counter literals for lits: output i true iff
// at least i+1 of lits are true. Merge clauses are appended to *out and
// auxiliary variables are drawn from *next.
func totalizer(lits []int, next *int, out *[][]int) []int {
	if len(lits) == 1 {
		return []int{lits[0]}
	}
	half := len(lits) / 2
	left := totalizer(lits[:half], next, out)
	right := totalizer(lits[half:], next, out)

	merged := make([]int, len(lits))
	for i := range merged {
		merged[i] = *next
		*next++
	}
	// a_i ∧ b_j → o_{i+j}: at least i+j inputs seen.
	for i := 0; i <= len(left); i++ {
		for j := 0; j <= len(right); j++ {
			if i+j == 0 || i+j > len(merged) {
				continue
			}
			clause := []int{merged[i+j-1]}
			if i > 0 {
				clause = append(clause, -left[i-1])
			}
			if j > 0 {
				clause = append(clause, -right[j-1])
			}
			*out = append(*out, clause)
		}
	}
	// o_{i+j+1} → a_{i+1} ∨ b_{j+1}: no overcounting.
	for i := 0; i <= len(left); i++ {
		for j := 0; j <= len(right); j++ {
			if i+j+1 > len(merged) {
				continue
			}
			clause := []int{-merged[i+j]}
			if i < len(left) {
				clause = append(clause, left[i])
			}
			if j < len(right) {
				clause = append(clause, right[j])
			}
			if len(clause) > 1 {
				*out = append(*out, clause)
			}
		}
	}
	return merged
}

// metricTerms lists every slot literal with its scaled squared-score
// weight, in variable order. This is the linear form the optimizer
// bounds during its binary search.
func metricTerms(prob *Problem, g *slotGraph) (lits []int, weights []int) {
	for v, pair := range g.pairs {
		lits = append(lits, v+1)
		weights = append(weights, prob.weight(pair[0], pair[1]))
	}
	return lits, weights
}
