/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"log"

	"github.com/katalvlaran/lvlath/matrix"
	"github.com/katalvlaran/lvlath/tsp"
)

// NodeRole classifies a tour node in the TSP reduction.
type NodeRole int

const (
	// RoleDouble contributes a match on both of its tour edges.
	RoleDouble NodeRole = iota
	// RoleSingle contributes a match on one tour edge; the other is
	// absorbed by its hub.
	RoleSingle
	// RoleHub absorbs the spare edge of an odd-count player and chains
	// to other hubs; it never produces a real pairing.
	RoleHub
)

// tourNode is one expanded node: a player plus the role it plays in the
// reduction. A player needing k matches becomes ⌊k/2⌋ RoleDouble nodes,
// plus one RoleSingle and one RoleHub node when k is odd.
type tourNode struct {
	player int
	role   NodeRole
}

// Edge costs. forbiddenCost stands in for infinity: large enough that no
// optimizing tour crosses a forbidden edge when any legal tour exists,
// small enough to avoid integer overflow when summed along a tour.
const (
	forbiddenCost = 1 << 40
	hubLinkCost   = 1
)

// TourSolver is the black-box capability SearchTour needs: given a
// square cost matrix, return a Hamiltonian tour as an ordered node index
// sequence (the closing edge back to the first node is implied). Any
// competitive tour-construction heuristic conforms.
type TourSolver interface {
	Solve(cost [][]int) ([]int, error)
}

// SearchTour is the heuristic alternative to Search for fields too large
// for exact optimization: it expands players into tour nodes, solves the
// resulting symmetric TSP instance, and reads pairings off the tour
// edges. The result carries no optimality proof.
func SearchTour(prob *Problem, ts TourSolver, opts SearchOptions) (*Result, error) {
	rng := opts.Rand
	if rng == nil {
		rng = newDefaultRand()
	}
	if prob.TotalRequested()%2 == 1 {
		if _, err := prob.AssignBye(rng); err != nil {
			return nil, err
		}
	}
	if ts == nil {
		ts = LvlathTourSolver{}
	}

	nodes := expandNodes(prob)
	if len(nodes) < 2 {
		res := &Result{State: StateHeuristic}
		if bye, ok := prob.byePairing(); ok {
			res.Pairings = append(res.Pairings, bye)
		}
		return res, nil
	}

	cost := buildCostMatrix(prob, nodes)
	tour, err := ts.Solve(cost)
	if err != nil {
		return nil, fmt.Errorf("pairing: tour construction failed: %w", err)
	}
	if len(tour) != len(nodes) {
		return nil, fmt.Errorf("pairing: tour visits %v of %v nodes",
			len(tour), len(nodes))
	}

	res := &Result{State: StateHeuristic}
	for i := range tour {
		a := nodes[tour[i]]
		b := nodes[tour[(i+1)%len(tour)]]
		if a.role == RoleHub || b.role == RoleHub || a.player == b.player {
			continue
		}
		res.Pairings = append(res.Pairings, Pairing{
			A: prob.players[a.player],
			B: prob.players[b.player],
		})
		res.Loss += prob.weight(a.player, b.player)
	}

	if want := prob.TotalRequested() / 2; len(res.Pairings) != want {
		// Integrity warning only; the caller still gets the pairings.
		log.Printf("pairing: tour reduction produced %v pairings, expected %v",
			len(res.Pairings), want)
	}

	if bye, ok := prob.byePairing(); ok {
		res.Pairings = append(res.Pairings, bye)
	}
	return res, nil
}

// expandNodes builds the node list for the reduction, in player order.
func expandNodes(prob *Problem) []tourNode {
	var nodes []tourNode
	for i, p := range prob.players {
		for d := 0; d < p.RequestedMatches/2; d++ {
			nodes = append(nodes, tourNode{player: i, role: RoleDouble})
		}
		if p.RequestedMatches%2 == 1 {
			nodes = append(nodes, tourNode{player: i, role: RoleSingle})
			nodes = append(nodes, tourNode{player: i, role: RoleHub})
		}
	}
	return nodes
}

// buildCostMatrix fills the symmetric integer cost matrix:
//
//   - single/double vs single/double: forbidden on the same player or a
//     repeat matchup, squared scaled score difference otherwise;
//   - hub vs its own single: free, so the spare edge parks there;
//   - hub vs hub: cheap, so spare edges chain through the hubs;
//   - every other hub edge: forbidden.
func buildCostMatrix(prob *Problem, nodes []tourNode) [][]int {
	n := len(nodes)
	cost := make([][]int, n)
	for i := range cost {
		cost[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := edgeCost(prob, nodes[i], nodes[j])
			cost[i][j] = c
			cost[j][i] = c
		}
	}
	return cost
}

func edgeCost(prob *Problem, a, b tourNode) int {
	if a.role == RoleHub || b.role == RoleHub {
		if a.role == RoleHub && b.role == RoleHub {
			return hubLinkCost
		}
		hub, other := a, b
		if b.role == RoleHub {
			hub, other = b, a
		}
		if other.role == RoleSingle && other.player == hub.player {
			return 0
		}
		return forbiddenCost
	}
	if a.player == b.player || prob.played(a.player, b.player) {
		return forbiddenCost
	}
	return prob.weight(a.player, b.player)
}

// LvlathTourSolver satisfies TourSolver with lvlath's Christofides
// pipeline plus a 2-opt polish pass.
type LvlathTourSolver struct {
	// Seed pins the library's internal randomness; 0 lets it pick its
	// own default.
	Seed int64
}

func (l LvlathTourSolver) Solve(cost [][]int) ([]int, error) {
	n := len(cost)
	dist, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("tour matrix: %w", err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if err := dist.Set(i, j, float64(cost[i][j])); err != nil {
				return nil, fmt.Errorf("tour matrix: %w", err)
			}
		}
	}

	opt := tsp.DefaultOptions()
	opt.Symmetric = true
	opt.EnableLocalSearch = true
	opt.Seed = l.Seed

	res, err := tsp.SolveWithMatrix(dist, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("tour solve: %w", err)
	}
	tour := res.Tour
	// The library returns a closed tour; the interface wants it open.
	if len(tour) > 1 && tour[0] == tour[len(tour)-1] {
		tour = tour[:len(tour)-1]
	}
	return tour, nil
}
