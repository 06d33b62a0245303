/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"math/big"
	"testing"
)

func TestBuildProblem(t *testing.T) {
	standings := []Standing{
		{PlayerName: "Ana", Wins: 2, Losses: 0, RequestedMatches: 2},
		{PlayerName: "Bo", Wins: 1, Losses: 1, RequestedMatches: 2},
		{PlayerName: "Cy", RequestedMatches: 3},
		{PlayerName: "Di", Wins: 0, Losses: 2, RequestedMatches: 2,
			Dropped: true},
	}
	matches := []Match{
		{Cycle: 1, PlayerA: "Ana", PlayerB: "Bo", WinsA: 2},
		{Cycle: 1, PlayerA: "Cy", PlayerB: "Di", WinsB: 2},
	}

	prob, err := BuildProblem(standings, matches)
	if err != nil {
		t.Fatalf("BuildProblem: %v", err)
	}
	players := prob.Players()
	if len(players) != 3 {
		t.Fatalf("got %v players; want 3 (Di dropped)", len(players))
	}

	byName := map[string]int{}
	for i, p := range players {
		byName[p.Name] = i
	}
	if _, ok := byName["Di"]; ok {
		t.Error("dropped player still present")
	}

	ana := players[byName["Ana"]]
	if ana.Score.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("Ana score = %v; want 1", ana.Score)
	}
	if !ana.PriorOpponents["Bo"] {
		t.Errorf("Ana opponents = %v; want Bo recorded", ana.PriorOpponents)
	}

	cy := players[byName["Cy"]]
	if cy.Score.Cmp(big.NewRat(1, 2)) != 0 {
		t.Errorf("Cy score = %v; want the no-games default of 1/2", cy.Score)
	}
	// Di dropped, but the matchup still counts against repeats.
	if !cy.PriorOpponents["Di"] {
		t.Errorf("Cy opponents = %v; want Di recorded", cy.PriorOpponents)
	}
}
