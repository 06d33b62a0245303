/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/magicleague-tdbot/internal"
)

// vended by <base>/api/league/<setCode>/standings
// Standing is one player's league record for the current set.
type Standing struct {
	PlayerName       string    `json:"playerName"`
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	Draws            int       `json:"draws"`
	RequestedMatches int       `json:"requestedMatches"`
	Dropped          bool      `json:"dropped"`
	JoinedAt         time.Time `json:"-"`
}

func (s *Standing) UnmarshalJSON(data []byte) error {
	type Alias Standing
	aux := &struct {
		JoinedAt string `json:"joinedAt"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Standing unmarshal: %w", err)
	}
	var err error
	s.JoinedAt, err = internal.ParseDateOrZero(aux.JoinedAt)
	if err != nil {
		return fmt.Errorf("parsing Standing.JoinedAt: %w", err)
	}
	return nil
}

// GamesPlayed is the number of completed matches on this record.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses + s.Draws
}

// Score returns the player's record as the exact win fraction
// wins/(wins+losses+draws) in [0,1]. A player with no completed matches
// scores ½ so that newcomers meet the middle of the field rather than
// its bottom.
func (s Standing) Score() *big.Rat {
	games := s.GamesPlayed()
	if games == 0 {
		return big.NewRat(1, 2)
	}
	return big.NewRat(int64(s.Wins), int64(games))
}

// GetStandings fetches the current standings for a set, trying the JSON
// API and the public standings page concurrently and preferring the API
// response.
func (c *Client) GetStandings(ctx context.Context, setCode string) ([]Standing, error) {
	var wg sync.WaitGroup
	var viaApi, viaWeb []Standing
	var apiErr, webErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		viaApi, apiErr = c.getStandingsViaApi(ctx, setCode)
	}()
	go func() {
		defer wg.Done()
		viaWeb, webErr = c.getStandingsViaWeb(ctx, setCode)
	}()
	wg.Wait()

	// prefer the api response
	if apiErr != nil {
		if webErr != nil {
			return nil, apiErr
		} // else
		return viaWeb, nil
	} // else

	return viaApi, nil
}

func (c *Client) getStandingsViaApi(ctx context.Context, setCode string) ([]Standing, error) {
	var standings []Standing
	path := fmt.Sprintf("/api/league/%v/standings", setCode)
	if err := c.getJSON(ctx, path, &standings); err != nil {
		return nil, fmt.Errorf("unable to fetch league standings: %w", err)
	}
	if len(standings) == 0 {
		return nil, fmt.Errorf("league standings API returned an empty response")
	}
	return standings, nil
}

// getStandingsViaWeb scrapes the public standings page. The page is a
// single table: Name, W, L, D, Requested, with one row per player.
func (c *Client) getStandingsViaWeb(ctx context.Context, setCode string) ([]Standing, error) {
	path := fmt.Sprintf("/league/%v/standings", setCode)
	doc, err := c.fetchDoc(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch league standings page: %w", err)
	}

	var standings []Standing
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		if s, ok := parseStandingRow(row); ok {
			standings = append(standings, *s)
		}
	})
	if len(standings) == 0 {
		return nil, fmt.Errorf("no standings rows found on page")
	}
	return standings, nil
}

// parseStandingRow parses a single table row into a Standing. Returns
// ok=false to skip header and malformed rows.
func parseStandingRow(row *goquery.Selection) (*Standing, bool) {
	cells := row.Find("td")
	if cells.Length() < 5 {
		return nil, false
	}
	name := strings.TrimSpace(cells.Eq(0).Text())
	if name == "" || strings.EqualFold(name, "Name") {
		return nil, false
	}

	num := func(i int) int {
		v, err := strconv.Atoi(strings.TrimSpace(cells.Eq(i).Text()))
		if err != nil {
			return 0
		}
		return v
	}

	return &Standing{
		PlayerName:       name,
		Wins:             num(1),
		Losses:           num(2),
		Draws:            num(3),
		RequestedMatches: num(4),
	}, true
}
