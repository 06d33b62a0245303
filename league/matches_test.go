/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikeb26/magicleague-tdbot/pairing"
)

const matchesJSON = `[
	{"cycle":1,"playerA":"Ana","playerB":"Bo","winsA":2,"winsB":1,
	 "reportedAt":"2026-08-01"},
	{"cycle":1,"playerA":"Cy","playerB":"BYE"},
	{"cycle":2,"playerA":"Ana","playerB":"Cy","winsA":0,"winsB":2}
]`

func TestGetMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/league/TST/matches" {
				http.NotFound(w, r)
				return
			}
			io.WriteString(w, matchesJSON)
		}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	matches, err := client.GetMatches(context.Background(), "TST")
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %v matches; want 3", len(matches))
	}
	if matches[0].PlayerA != "Ana" || matches[0].WinsA != 2 {
		t.Errorf("matches[0] = %+v; want Ana winning 2", matches[0])
	}
	if matches[0].ReportedAt.IsZero() {
		t.Errorf("matches[0].ReportedAt not parsed")
	}
	if matches[1].PlayerB != "BYE" {
		t.Errorf("matches[1] = %+v; want a bye for Cy", matches[1])
	}

	if got := NextCycle(matches); got != 3 {
		t.Errorf("NextCycle = %v; want 3", got)
	}
	if got := NextCycle(nil); got != 1 {
		t.Errorf("NextCycle(nil) = %v; want 1", got)
	}
}

func TestWritePairings(t *testing.T) {
	var gotAuth string
	var gotBody []Match
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" ||
				r.URL.Path != "/api/league/TST/cycle/4/pairings" {
				http.NotFound(w, r)
				return
			}
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))
	defer srv.Close()

	pairings := []pairing.Pairing{
		{
			A: pairing.Player{Name: "Ana", Score: big.NewRat(1, 1)},
			B: pairing.Player{Name: "Bo", Score: big.NewRat(0, 1)},
		},
		{
			A: pairing.Player{Name: "Cy", Score: big.NewRat(1, 2)},
			B: pairing.Player{Name: pairing.ByeName, Score: new(big.Rat)},
		},
	}

	client := NewClient(Config{BaseURL: srv.URL, Token: "sekrit"})
	err := client.WritePairings(context.Background(), "TST", 4, pairings)
	if err != nil {
		t.Fatalf("WritePairings: %v", err)
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("auth header = %q; want bearer token", gotAuth)
	}
	if len(gotBody) != 2 {
		t.Fatalf("posted %v matches; want 2", len(gotBody))
	}
	if gotBody[0].Cycle != 4 || gotBody[0].PlayerA != "Ana" ||
		gotBody[0].PlayerB != "Bo" {
		t.Errorf("posted[0] = %+v; want cycle 4 Ana vs Bo", gotBody[0])
	}
	if gotBody[1].PlayerB != pairing.ByeName {
		t.Errorf("posted[1] = %+v; want Cy's bye preserved", gotBody[1])
	}
}

func TestWritePairingsRequiresToken(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.invalid"})
	err := client.WritePairings(context.Background(), "TST", 1, nil)
	if err == nil {
		t.Error("expected error without an auth token")
	}
}
