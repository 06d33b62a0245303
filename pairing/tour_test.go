/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"testing"
)

// exactTours finds the true minimum-cost closed tour by trying every
// permutation with node 0 fixed. Only viable at test sizes, which is
// the point: it removes heuristic noise from the reduction tests.
type exactTours struct{}

func (exactTours) Solve(cost [][]int) ([]int, error) {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := append([]int(nil), perm...)
	bestCost := tourCost(cost, perm)

	var permute func(k int)
	permute = func(k int) {
		if k == n {
			if c := tourCost(cost, perm); c < bestCost {
				bestCost = c
				copy(best, perm)
			}
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(1)
	return best, nil
}

func tourCost(cost [][]int, tour []int) int {
	total := 0
	for i := range tour {
		total += cost[tour[i]][tour[(i+1)%len(tour)]]
	}
	return total
}

func TestSearchTourSingles(t *testing.T) {
	players := []Player{
		testPlayer("a", 1, 1, 1),
		testPlayer("b", 1, 1, 1),
		testPlayer("c", 0, 1, 1),
		testPlayer("d", 0, 1, 1),
	}
	prob, err := NewProblem(players)
	if err != nil {
		t.Fatal(err)
	}

	res, err := SearchTour(prob, exactTours{}, SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != StateHeuristic {
		t.Errorf("state = %v; want %v", res.State, StateHeuristic)
	}
	// One match each: the singles pair up and the spare edges chain
	// through the hub nodes, contributing nothing.
	if len(res.Pairings) != 2 {
		t.Fatalf("got %v pairings; want 2: %+v", len(res.Pairings),
			res.Pairings)
	}
	if !hasPairing(res.Pairings, "a", "b") ||
		!hasPairing(res.Pairings, "c", "d") {
		t.Errorf("pairings = %+v; want a-b and c-d", res.Pairings)
	}
	if res.Loss != 0 {
		t.Errorf("loss = %v; want 0", res.Loss)
	}
}

func TestSearchTourDoubles(t *testing.T) {
	players := []Player{
		testPlayer("a", 1, 1, 2),
		testPlayer("b", 1, 1, 2),
		testPlayer("c", 0, 1, 2),
		testPlayer("d", 0, 1, 2),
	}
	prob, err := NewProblem(players)
	if err != nil {
		t.Fatal(err)
	}

	res, err := SearchTour(prob, exactTours{}, SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pairings) != 4 {
		t.Fatalf("got %v pairings; want 4: %+v", len(res.Pairings),
			res.Pairings)
	}
	if !hasPairing(res.Pairings, "a", "b") ||
		!hasPairing(res.Pairings, "c", "d") {
		t.Errorf("pairings = %+v; want a-b and c-d on the cycle",
			res.Pairings)
	}
	if res.Loss != 2 {
		t.Errorf("loss = %v; want 2", res.Loss)
	}
}

func TestSearchTourAvoidsRepeats(t *testing.T) {
	players := []Player{
		testPlayer("a", 1, 1, 2, "b"),
		testPlayer("b", 1, 1, 2, "a"),
		testPlayer("c", 0, 1, 2),
		testPlayer("d", 0, 1, 2),
	}
	prob, err := NewProblem(players)
	if err != nil {
		t.Fatal(err)
	}

	res, err := SearchTour(prob, exactTours{}, SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if hasPairing(res.Pairings, "a", "b") {
		t.Errorf("rematch in result: %+v", res.Pairings)
	}
	if res.Loss != 4 {
		t.Errorf("loss = %v; want 4", res.Loss)
	}
}

func TestSearchTourAssignsBye(t *testing.T) {
	players := []Player{
		testPlayer("a", 1, 2, 3),
		testPlayer("b", 1, 2, 2),
		testPlayer("c", 1, 2, 2),
	}
	prob, err := NewProblem(players)
	if err != nil {
		t.Fatal(err)
	}

	res, err := SearchTour(prob, exactTours{}, SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !hasPairing(res.Pairings, "a", ByeName) {
		t.Fatalf("no bye pairing for a: %+v", res.Pairings)
	}
	if len(res.Pairings) != 4 {
		t.Errorf("got %v pairings; want the triangle plus the bye: %+v",
			len(res.Pairings), res.Pairings)
	}
	if res.Loss != 0 {
		t.Errorf("loss = %v; want 0", res.Loss)
	}
}

func TestExpandNodes(t *testing.T) {
	players := []Player{
		testPlayer("a", 1, 2, 3),
		testPlayer("b", 1, 2, 2),
	}
	prob, err := NewProblem(players)
	if err != nil {
		t.Fatal(err)
	}

	nodes := expandNodes(prob)
	want := []tourNode{
		{player: 0, role: RoleDouble},
		{player: 0, role: RoleSingle},
		{player: 0, role: RoleHub},
		{player: 1, role: RoleDouble},
	}
	if len(nodes) != len(want) {
		t.Fatalf("got %v nodes; want %v", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n != want[i] {
			t.Errorf("node %v = %+v; want %+v", i, n, want[i])
		}
	}
}
