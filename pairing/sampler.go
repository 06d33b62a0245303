/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrNotGraphical is returned when a degree sequence cannot be realized
// as a simple graph. It is checked before any construction attempt.
var ErrNotGraphical = errors.New("pairing: degree sequence is not graphical")

// DefaultSampleTrials is how many candidate realizations SampleRandom
// draws before the importance-weighted resample.
const DefaultSampleTrials = 100

// Graphical reports whether seq is realizable as a simple graph, per the
// Erdős–Gallai criterion: the sum must be even and, for every k, the k
// largest values may not exceed k(k−1) plus the capped remainder.
func Graphical(seq []int) bool {
	n := len(seq)
	sorted := append([]int(nil), seq...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	total := 0
	for _, d := range sorted {
		if d < 0 || d > n-1 {
			return false
		}
		total += d
	}
	if total%2 == 1 {
		return false
	}

	lhs := 0
	for k := 1; k <= n; k++ {
		lhs += sorted[k-1]
		rhs := k * (k - 1)
		for i := k; i < n; i++ {
			rhs += min(sorted[i], k)
		}
		if lhs > rhs {
			return false
		}
	}
	return true
}

// realization is one labeled graph produced by the sequential
// construction, together with its importance weight.
type realization struct {
	edges  [][2]int
	weight float64
}

// SampleRandom draws a pairing uniformly at random (approximately) from
// all pairings meeting the requested match counts, ignoring scores and
// history. The league uses it for the opening cycle, where standings
// carry no signal yet.
//
// It runs the Blitzstein–Diaconis sequential construction trials times
// (DefaultSampleTrials when trials ≤ 0), weights each realization by the
// inverse of its equivalence-class size times its construction
// probability, and resamples one candidate from that unnormalized
// categorical distribution, correcting the construction bias.
func SampleRandom(prob *Problem, rng *rand.Rand, trials int) (*Result, error) {
	if rng == nil {
		rng = newDefaultRand()
	}
	if trials <= 0 {
		trials = DefaultSampleTrials
	}
	if prob.TotalRequested()%2 == 1 {
		if _, err := prob.AssignBye(rng); err != nil {
			return nil, err
		}
	}

	seq := make([]int, prob.NumPlayers())
	for i, p := range prob.players {
		seq[i] = p.RequestedMatches
	}
	if !Graphical(seq) {
		return nil, fmt.Errorf("%w: %v", ErrNotGraphical, seq)
	}

	candidates := make([]realization, 0, trials)
	totalWeight := 0.0
	for t := 0; t < trials; t++ {
		r, err := constructRealization(seq, rng)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, r)
		totalWeight += r.weight
	}

	pick := rng.Float64() * totalWeight
	chosen := candidates[len(candidates)-1]
	for _, c := range candidates {
		pick -= c.weight
		if pick < 0 {
			chosen = c
			break
		}
	}

	res := &Result{State: StateRandom}
	for _, e := range chosen.edges {
		res.Pairings = append(res.Pairings, Pairing{
			A: prob.players[e[0]],
			B: prob.players[e[1]],
		})
		res.Loss += prob.weight(e[0], e[1])
	}
	if bye, ok := prob.byePairing(); ok {
		res.Pairings = append(res.Pairings, bye)
	}
	return res, nil
}

// constructRealization performs one pass of the sequential construction:
// repeatedly take the vertex with the smallest positive remaining
// degree and wire all of its remaining edges, choosing each neighbor at
// random weighted by remaining degree, restricted to choices that keep
// the residual sequence graphical. It tracks the exact probability of
// the specific edge list produced and the size of its reordering class,
// from which the importance weight follows.
func constructRealization(seq []int, rng *rand.Rand) (realization, error) {
	residual := append([]int(nil), seq...)
	edges := make(map[[2]int]bool)
	var order [][2]int

	prob := 1.0
	classSize := 1.0

	for {
		i := smallestPositive(residual)
		if i < 0 {
			break
		}
		added := 0
		for residual[i] > 0 {
			var choices []int
			weightSum := 0
			for j := range residual {
				if j == i || residual[j] == 0 || edges[pairKey(i, j)] {
					continue
				}
				residual[i]--
				residual[j]--
				ok := Graphical(residual)
				residual[i]++
				residual[j]++
				if ok {
					choices = append(choices, j)
					weightSum += residual[j]
				}
			}
			if len(choices) == 0 {
				// A graphical residual sequence always admits a valid
				// neighbor; reaching here means the input was not
				// validated.
				return realization{}, fmt.Errorf(
					"pairing: sampler stuck on residual %v", residual)
			}
			pick := rng.Intn(weightSum)
			j := choices[len(choices)-1]
			for _, c := range choices {
				pick -= residual[c]
				if pick < 0 {
					j = c
					break
				}
			}
			prob *= float64(residual[j]) / float64(weightSum)
			edges[pairKey(i, j)] = true
			order = append(order, pairKey(i, j))
			residual[i]--
			residual[j]--
			added++
		}
		// Any ordering of the edges wired while i was the working vertex
		// would have produced the same labeled graph.
		classSize *= factorial(added)
	}

	return realization{
		edges:  order,
		weight: 1.0 / (classSize * prob),
	}, nil
}

// smallestPositive returns the index of the smallest positive entry,
// lowest index winning ties, or -1 when all entries are zero.
func smallestPositive(seq []int) int {
	best := -1
	for i, d := range seq {
		if d > 0 && (best < 0 || d < seq[best]) {
			best = i
		}
	}
	return best
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
