/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mikeb26/magicleague-tdbot/internal"
	"github.com/mikeb26/magicleague-tdbot/pairing"
)

// BuildPairingsOutput formats a cycle's pairings into aligned string
// output, most mismatched tables first so the TD can eyeball the
// roughest matchups.
func BuildPairingsOutput(res *pairing.Result, cycle int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Cycle %v Pairings (%v):\n\n", cycle,
		res.State))

	if len(res.Pairings) == 0 {
		sb.WriteString("No pairings computed\n")
		return sb.String()
	}

	pairings := append([]pairing.Pairing(nil), res.Pairings...)
	sort.SliceStable(pairings, func(i, j int) bool {
		// byes last, then descending score gap
		if pairings[i].IsBye() != pairings[j].IsBye() {
			return !pairings[i].IsBye()
		}
		return pairings[i].ScoreDiff().Cmp(pairings[j].ScoreDiff()) > 0
	})

	type row struct{ a, b, gap string }
	var rows []row
	for _, p := range pairings {
		r := row{
			a: fmt.Sprintf("%s(%v)", p.A.Name, p.A.Score.RatString()),
			b: "BYE",
		}
		if !p.IsBye() {
			r.b = fmt.Sprintf("%s(%v)", p.B.Name, p.B.Score.RatString())
			r.gap = p.ScoreDiff().RatString()
		} else {
			r.gap = "n/a"
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxA, maxB, maxG := len("Player"), len("Opponent"), len("Gap")
	for _, r := range rows {
		if l := len(r.a); l > maxA {
			maxA = l
		}
		if l := len(r.b); l > maxB {
			maxB = l
		}
		if l := len(r.gap); l > maxG {
			maxG = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxA, "Player", maxB,
		"Opponent", maxG, "Gap"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxA, r.a,
			maxB, r.b, maxG, r.gap))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildStandingsOutput formats standings into aligned string output,
// ranked by exact score with tied players sharing a blank rank cell.
func BuildStandingsOutput(standings []Standing) string {
	if len(standings) == 0 {
		return "No players registered\n"
	}

	ranked := append([]Standing(nil), standings...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score().Cmp(ranked[j].Score()) > 0
	})

	type row struct{ rank, player, record, points, score string }
	var rows []row
	priorScore := ""
	for idx, s := range ranked {
		var rank string
		score := s.Score().RatString()
		if idx != 0 && score == priorScore {
			rank = ""
		} else {
			rank = fmt.Sprintf("%v.", idx+1)
			priorScore = score
		}
		points := float64(s.Wins) + float64(s.Draws)/2
		rows = append(rows, row{
			rank:   rank,
			player: s.PlayerName,
			record: fmt.Sprintf("%v-%v-%v", s.Wins, s.Losses, s.Draws),
			points: internal.ScoreToString(points),
			score:  score,
		})
	}

	// Compute column widths
	maxP, maxN, maxR, maxM, maxS := len("Place"), len("Name"), len("Record"),
		len("Points"), len("Score")
	for _, r := range rows {
		if l := len(r.rank); l > maxP {
			maxP = l
		}
		if l := len(r.player); l > maxN {
			maxN = l
		}
		if l := len(r.record); l > maxR {
			maxR = l
		}
		if l := len(r.points); l > maxM {
			maxM = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
		"Place", maxN, "Name", maxR, "Record", maxM, "Points", maxS,
		"Score"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.rank, maxN, r.player, maxR, r.record, maxM, r.points, maxS,
			r.score))
	}

	return sb.String()
}
