/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"fmt"

	"github.com/mikeb26/magicleague-tdbot/pairing"
)

// BuildPlayers converts standings and match history into the ordered
// player list the pairing engine consumes. Dropped players are excluded
// but still count as prior opponents for everyone who faced them.
func BuildPlayers(standings []Standing, matches []Match) []pairing.Player {
	var players []pairing.Player
	for _, s := range standings {
		if s.Dropped {
			continue
		}
		players = append(players, pairing.Player{
			Name:             s.PlayerName,
			Score:            s.Score(),
			RequestedMatches: s.RequestedMatches,
			PriorOpponents:   opponentsOf(s.PlayerName, matches),
		})
	}
	return players
}

// BuildProblem assembles a pairing snapshot from standings and match
// history.
func BuildProblem(standings []Standing, matches []Match) (*pairing.Problem, error) {
	return pairing.NewProblem(BuildPlayers(standings, matches))
}

func opponentsOf(name string, matches []Match) map[string]bool {
	opps := make(map[string]bool)
	for _, m := range matches {
		switch name {
		case m.PlayerA:
			opps[m.PlayerB] = true
		case m.PlayerB:
			opps[m.PlayerA] = true
		}
	}
	return opps
}

// FetchPlayers pulls the current standings and opponent history for a
// set and returns the ordered player list ready for pairing.
func (c *Client) FetchPlayers(ctx context.Context, setCode string) ([]pairing.Player, error) {
	standings, err := c.GetStandings(ctx, setCode)
	if err != nil {
		return nil, err
	}
	matches, err := c.GetMatches(ctx, setCode)
	if err != nil {
		return nil, err
	}
	return BuildPlayers(standings, matches), nil
}

// FetchProblem pulls standings and history for a set and builds the
// snapshot in one step.
func (c *Client) FetchProblem(ctx context.Context, setCode string) (*pairing.Problem, error) {
	players, err := c.FetchPlayers(ctx, setCode)
	if err != nil {
		return nil, err
	}
	prob, err := pairing.NewProblem(players)
	if err != nil {
		return nil, fmt.Errorf("league %v: %w", setCode, err)
	}
	return prob, nil
}
