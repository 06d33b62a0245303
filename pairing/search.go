/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// State is the terminal condition of a solver run.
type State int

const (
	// StateOptimal means the achieved loss was proven minimal.
	StateOptimal State = iota
	// StateTimedOut means the best known model was accepted without an
	// optimality proof; Result.Bound tells how far off it could be.
	StateTimedOut
	// StateHeuristic marks a tour-reduction result, which carries no
	// optimality guarantee by construction.
	StateHeuristic
	// StateRandom marks an unweighted random draw.
	StateRandom
)

func (s State) String() string {
	switch s {
	case StateOptimal:
		return "OPTIMAL"
	case StateTimedOut:
		return "TIMED_OUT"
	case StateHeuristic:
		return "HEURISTIC"
	default:
		return "RANDOM"
	}
}

// ErrInfeasible is returned when no pairing satisfies the no-repeat and
// requested-count constraints at any metric bound. There is no partial
// result in that case.
var ErrInfeasible = errors.New("pairing: no valid pairing exists")

// Result is a solver's output: the pairing list (bye included when one
// was assigned), the achieved mismatch loss, the proven lower bound,
// and the terminal state.
type Result struct {
	Pairings []Pairing
	Loss     int
	Bound    int
	State    State
}

// SearchOptions tunes Search. The zero value is usable.
type SearchOptions struct {
	// Timeout is the wall-clock budget for the whole search;
	// DefaultTimeout when zero.
	Timeout time.Duration

	// Solver overrides the boolean engine; gophersat when nil.
	Solver SatSolver

	// Enumerate, when positive, extends the run by up to that budget
	// after the bound settles: every pairing tying the achieved loss is
	// enumerated and one is returned uniformly at random, so ties do
	// not always break the same way.
	Enumerate time.Duration

	// Rand drives bye selection and tie-breaking among enumerated
	// optima; the global source when nil.
	Rand *rand.Rand
}

// DefaultTimeout is the search budget when the caller does not set one.
const DefaultTimeout = 180 * time.Second

const (
	frameBase     = "base"
	framePutative = "putative"
)

// Search finds the pairing minimizing the scaled squared-score mismatch
// metric, by binary search over the metric value on an incremental
// boolean solver. It proves optimality when the budget allows and
// otherwise returns the best model found together with the proven lower
// bound.
func Search(prob *Problem, opts SearchOptions) (*Result, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	rng := opts.Rand
	if rng == nil {
		rng = newDefaultRand()
	}
	if prob.TotalRequested()%2 == 1 {
		if _, err := prob.AssignBye(rng); err != nil {
			return nil, err
		}
	}

	base := opts.Solver
	if base == nil {
		base = NewGophersatSolver()
	}
	s := NewNamedStack(base)

	g := newSlotGraph(prob.NumPlayers())
	s.PushNamed(frameBase)
	for _, clause := range noRepeatClauses(prob, g) {
		s.AddClause(clause...)
	}
	for _, clause := range requestedCountClauses(prob, g) {
		s.AddClause(clause...)
	}
	lits, weights := metricTerms(prob, g)

	deadline := time.Now().Add(opts.Timeout)

	// First check, no metric bound: UNSAT here means the history and
	// requested counts admit no pairing at all.
	switch s.Check(deadline) {
	case StatusUnsat:
		return nil, ErrInfeasible
	case StatusTimeout:
		return nil, fmt.Errorf("pairing: no model found within %v",
			opts.Timeout)
	}
	model := snapshotModel(s)
	loss := evalMetric(model, lits, weights)

	minimum := 0
	state := StateOptimal
	for loss > minimum {
		if time.Now().After(deadline) {
			s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true,
				K: loss})
			state = StateTimedOut
			break
		}

		mid := minimum + (loss-minimum)/2
		s.PushNamed(framePutative)
		s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true, K: mid})

		switch s.Check(deadline) {
		case StatusSat:
			// Keep the putative frame committed and halve again from
			// the improved loss.
			s.Commit(framePutative)
			model = snapshotModel(s)
			loss = evalMetric(model, lits, weights)
		case StatusUnsat:
			s.PopNamed(framePutative)
			minimum = mid + 1
			s.Push()
			s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: false,
				K: minimum})
		case StatusTimeout:
			s.PopNamed(framePutative)
			s.Push()
			s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true,
				K: loss})
			state = StateTimedOut
		}
		if state == StateTimedOut {
			break
		}
	}

	if opts.Enumerate > 0 {
		model = enumerateOptima(s, g, model, lits, weights, loss,
			time.Now().Add(opts.Enumerate), rng)
	}

	res := &Result{
		Pairings: modelPairings(prob, g, model),
		Loss:     loss,
		Bound:    minimum,
		State:    state,
	}
	if bye, ok := prob.byePairing(); ok {
		res.Pairings = append(res.Pairings, bye)
	}
	return res, nil
}

func newDefaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// enumerateOptima draws uniformly among every model tying loss. Each
// found model is blocked over the slot variables and the solver re-run
// until exhaustion or the deadline; reservoir sampling keeps exactly
// one without holding the rest.
func enumerateOptima(s *NamedStack, g *slotGraph, model []bool,
	lits, weights []int, loss int, deadline time.Time,
	rng *rand.Rand) []bool {

	s.Push()
	defer s.Pop()
	// Zero-weight terms normalize away inside the engine; drop them up
	// front so an all-zero metric never yields an empty constraint.
	var blits, bweights []int
	for i, w := range weights {
		if w != 0 {
			blits = append(blits, lits[i])
			bweights = append(bweights, w)
		}
	}
	if len(blits) > 0 {
		s.AddBound(Bound{Lits: blits, Weights: bweights, AtMost: true,
			K: loss})
	}
	s.AddClause(blockingClause(g, model)...)

	count := 1
	for !time.Now().After(deadline) {
		if s.Check(deadline) != StatusSat {
			break
		}
		next := snapshotModel(s)
		count++
		if rng.Intn(count) == 0 {
			model = next
		}
		s.AddClause(blockingClause(g, next)...)
	}
	return model
}

// blockingClause forbids re-finding model's slot assignment.
func blockingClause(g *slotGraph, model []bool) []int {
	clause := make([]int, 0, len(g.pairs))
	for v := range g.pairs {
		lit := v + 1
		if lit < len(model) && model[lit] {
			clause = append(clause, -lit)
		} else {
			clause = append(clause, lit)
		}
	}
	return clause
}

// snapshotModel copies the solver's current model so later checks cannot
// clobber the best one found.
func snapshotModel(s *NamedStack) []bool {
	return append([]bool(nil), s.Model()...)
}

// evalMetric computes the exact integer loss of a model.
func evalMetric(model []bool, lits, weights []int) int {
	total := 0
	for i, l := range lits {
		if l < len(model) && model[l] {
			total += weights[i]
		}
	}
	return total
}

// modelPairings converts a satisfying assignment back into Pairings.
func modelPairings(prob *Problem, g *slotGraph, model []bool) []Pairing {
	var pairings []Pairing
	for v, pair := range g.pairs {
		lit := v + 1
		if lit < len(model) && model[lit] {
			pairings = append(pairings, Pairing{
				A: prob.players[pair[0]],
				B: prob.players[pair[1]],
			})
		}
	}
	return pairings
}
