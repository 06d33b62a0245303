/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikeb26/magicleague-tdbot/internal"
	"github.com/mikeb26/magicleague-tdbot/pairing"
)

// vended by <base>/api/league/<setCode>/matches
// Match is one completed or scheduled matchup from a prior cycle.
// PlayerB is "BYE" when PlayerA sat out a requested match.
type Match struct {
	Cycle      int       `json:"cycle"`
	PlayerA    string    `json:"playerA"`
	PlayerB    string    `json:"playerB"`
	WinsA      int       `json:"winsA"`
	WinsB      int       `json:"winsB"`
	Draws      int       `json:"draws"`
	ReportedAt time.Time `json:"-"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type Alias Match
	aux := &struct {
		ReportedAt string `json:"reportedAt"`
		*Alias
	}{
		Alias: (*Alias)(m),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Match unmarshal: %w", err)
	}
	var err error
	m.ReportedAt, err = internal.ParseDateOrZero(aux.ReportedAt)
	if err != nil {
		return fmt.Errorf("parsing Match.ReportedAt: %w", err)
	}
	return nil
}

// GetMatches fetches every recorded match for a set, all cycles.
func (c *Client) GetMatches(ctx context.Context, setCode string) ([]Match, error) {
	var matches []Match
	path := fmt.Sprintf("/api/league/%v/matches", setCode)
	if err := c.getJSON(ctx, path, &matches); err != nil {
		return nil, fmt.Errorf("unable to fetch league matches: %w", err)
	}
	return matches, nil
}

// NextCycle derives the upcoming cycle number from recorded matches:
// one past the highest cycle seen, or 1 for a fresh set.
func NextCycle(matches []Match) int {
	next := 1
	for _, m := range matches {
		if m.Cycle >= next {
			next = m.Cycle + 1
		}
	}
	return next
}

// WritePairings posts a cycle's computed pairings back to the league
// server, which schedules them as that cycle's matches. Requires
// Config.Token.
func (c *Client) WritePairings(ctx context.Context, setCode string, cycle int,
	pairings []pairing.Pairing) error {

	if c.cfg.Token == "" {
		return fmt.Errorf("league: pairing writes require an auth token")
	}

	body := make([]Match, 0, len(pairings))
	for _, p := range pairings {
		body = append(body, Match{
			Cycle:   cycle,
			PlayerA: p.A.Name,
			PlayerB: p.B.Name,
		})
	}

	path := fmt.Sprintf("/api/league/%v/cycle/%v/pairings", setCode, cycle)
	if err := c.postJSON(ctx, path, body); err != nil {
		return fmt.Errorf("unable to write cycle %v pairings: %w", cycle, err)
	}
	return nil
}
