/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
)

// ByeName is the sentinel opponent name used when a player sits out one
// of their requested matches.
const ByeName = "BYE"

// MaxRequestedMatches is the most matches any player may request per cycle.
const MaxRequestedMatches = 3

// maxScoreScale caps the LCM of the score denominators. Scaled scores
// lie in [0, lcm], so with lcm <= 2^20 a squared difference fits in
// 2^40 and summing one per pairing leaves 23 bits of headroom even on
// implausibly large leagues.
const maxScoreScale = 1 << 20

// ErrNoByeCandidate is returned when the total requested match count is
// odd but no player is eligible to receive the bye.
var ErrNoByeCandidate = errors.New("pairing: no eligible bye candidate")

// Player is one participant's snapshot for the cycle being paired.
// Score is an exact rational in [0,1]; all mismatch arithmetic is done
// on scaled integers derived from it, never on floats.
type Player struct {
	Name             string
	Score            *big.Rat
	RequestedMatches int

	// PriorOpponents holds the names this player has already faced,
	// possibly including ByeName.
	PriorOpponents map[string]bool
}

// Pairing is a realized unordered pair of players. B.Name == ByeName for
// a bye pairing.
type Pairing struct {
	A, B Player
}

// IsBye reports whether this pairing excuses A from one requested match.
func (p Pairing) IsBye() bool {
	return p.B.Name == ByeName
}

// ScoreDiff returns the absolute score difference of the two players,
// or zero for a bye pairing. Callers use it to sort and highlight
// mismatched tables.
func (p Pairing) ScoreDiff() *big.Rat {
	diff := new(big.Rat)
	if p.IsBye() {
		return diff
	}
	diff.Sub(p.A.Score, p.B.Score)
	return diff.Abs(diff)
}

// Problem is the immutable snapshot the solvers operate on. Build it
// once per cycle with NewProblem; solver state lives and dies inside a
// single Search/SearchTour/SampleRandom invocation.
type Problem struct {
	players []Player
	scaled  []int           // player score * lcm, exact
	lcm     int64           // least common multiple of score denominators
	history map[[2]int]bool // unordered index pairs already played
	byeIdx  int             // index of this cycle's bye recipient, -1 if none
}

// NewProblem validates the player snapshot and precomputes the scaled
// integer scores and the index-based opponent history.
func NewProblem(players []Player) (*Problem, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("pairing: need at least 2 players, have %v",
			len(players))
	}

	index := make(map[string]int, len(players))
	for i, p := range players {
		if p.Name == "" || p.Name == ByeName {
			return nil, fmt.Errorf("pairing: invalid player name %q", p.Name)
		}
		if _, dup := index[p.Name]; dup {
			return nil, fmt.Errorf("pairing: duplicate player %q", p.Name)
		}
		if p.Score == nil || p.Score.Sign() < 0 ||
			p.Score.Cmp(big.NewRat(1, 1)) > 0 {
			return nil, fmt.Errorf("pairing: %v has score outside [0,1]",
				p.Name)
		}
		if p.RequestedMatches < 0 || p.RequestedMatches > MaxRequestedMatches {
			return nil, fmt.Errorf("pairing: %v requests %v matches (max %v)",
				p.Name, p.RequestedMatches, MaxRequestedMatches)
		}
		index[p.Name] = i
	}

	prob := &Problem{
		players: append([]Player(nil), players...),
		history: make(map[[2]int]bool),
		byeIdx:  -1,
	}

	// Scale all scores by the LCM of their denominators so that the
	// mismatch metric is an exact non-negative integer. The metric
	// squares scaled differences and sums them in machine ints, so the
	// scale must stay small enough that none of that overflows.
	prob.lcm = 1
	for _, p := range players {
		den := p.Score.Denom()
		if !den.IsInt64() || den.Int64() > maxScoreScale {
			return nil, fmt.Errorf(
				"pairing: %v has score denominator %v beyond the supported scale",
				p.Name, den)
		}
		prob.lcm = lcm64(prob.lcm, den.Int64())
		if prob.lcm > maxScoreScale {
			return nil, fmt.Errorf(
				"pairing: combined score scale %v exceeds %v",
				prob.lcm, int64(maxScoreScale))
		}
	}
	prob.scaled = make([]int, len(players))
	for i, p := range players {
		s := new(big.Rat).Mul(p.Score, new(big.Rat).SetInt64(prob.lcm))
		prob.scaled[i] = int(s.Num().Int64())
	}

	for i, p := range players {
		for opp := range p.PriorOpponents {
			if opp == ByeName {
				continue
			}
			j, ok := index[opp]
			if !ok {
				// A former opponent may have dropped from the league;
				// nothing to forbid in that case.
				continue
			}
			prob.history[pairKey(i, j)] = true
		}
	}

	return prob, nil
}

// NumPlayers returns the number of real (non-bye) players.
func (prob *Problem) NumPlayers() int { return len(prob.players) }

// Players returns the snapshot's player list in input order.
func (prob *Problem) Players() []Player {
	return append([]Player(nil), prob.players...)
}

// TotalRequested sums every player's current requested match count.
func (prob *Problem) TotalRequested() int {
	total := 0
	for _, p := range prob.players {
		total += p.RequestedMatches
	}
	return total
}

// AssignBye picks, uniformly at random, one player who requested the
// maximum match count and has never previously received a bye, lowers
// their requirement by one, and registers them as this cycle's bye
// recipient. It must be called (exactly once) before solving whenever
// TotalRequested is odd; returns ErrNoByeCandidate when no player
// qualifies, which is a fatal configuration error.
func (prob *Problem) AssignBye(rng *rand.Rand) (Player, error) {
	if prob.byeIdx >= 0 {
		return prob.players[prob.byeIdx], nil
	}
	var candidates []int
	for i, p := range prob.players {
		if p.RequestedMatches == MaxRequestedMatches &&
			!p.PriorOpponents[ByeName] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return Player{}, ErrNoByeCandidate
	}
	prob.byeIdx = candidates[rng.Intn(len(candidates))]
	prob.players[prob.byeIdx].RequestedMatches--
	return prob.players[prob.byeIdx], nil
}

// byePairing returns the forced bye pairing, if a bye was assigned.
func (prob *Problem) byePairing() (Pairing, bool) {
	if prob.byeIdx < 0 {
		return Pairing{}, false
	}
	return Pairing{
		A: prob.players[prob.byeIdx],
		B: Player{Name: ByeName, Score: new(big.Rat)},
	}, true
}

// played reports whether players n and m already faced each other in a
// prior cycle.
func (prob *Problem) played(n, m int) bool {
	return prob.history[pairKey(n, m)]
}

// weight is the exact integer mismatch contribution of pairing n with m:
// the squared difference of their scores scaled by lcm².
func (prob *Problem) weight(n, m int) int {
	d := prob.scaled[n] - prob.scaled[m]
	return d * d
}

func pairKey(n, m int) [2]int {
	if n > m {
		n, m = m, n
	}
	return [2]int{n, m}
}

func lcm64(a, b int64) int64 {
	return a / gcd64(a, b) * b
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
