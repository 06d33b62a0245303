/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"time"

	"github.com/crillab/gophersat/solver"
)

// gophersatSolver adapts gophersat to the SatSolver interface. The
// underlying engine has no retractable assertions, so frames are kept
// as constraint lists and each Check solves the flattened stack from
// scratch; for the slot-count problem sizes the league sees, rebuild
// cost is dwarfed by search time.
type gophersatSolver struct {
	frames [][]solver.PBConstr
	model  []bool
}

// NewGophersatSolver returns a SatSolver backed by gophersat's
// pseudo-boolean engine.
func NewGophersatSolver() SatSolver {
	return &gophersatSolver{
		frames: [][]solver.PBConstr{nil},
	}
}

func (g *gophersatSolver) Push() {
	g.frames = append(g.frames, nil)
}

func (g *gophersatSolver) Pop() {
	if len(g.frames) > 1 {
		g.frames = g.frames[:len(g.frames)-1]
	}
}

func (g *gophersatSolver) add(c solver.PBConstr) {
	top := len(g.frames) - 1
	g.frames[top] = append(g.frames[top], c)
}

func (g *gophersatSolver) AddClause(lits ...int) {
	g.add(solver.PropClause(lits...))
}

func (g *gophersatSolver) AddBound(b Bound) {
	// gophersat's constructors take ownership of the slices and rewrite
	// them in place while normalizing the constraint; hand over copies so
	// the caller can keep reusing its term lists.
	lits := append([]int(nil), b.Lits...)
	weights := append([]int(nil), b.Weights...)
	if b.AtMost {
		g.add(solver.LtEq(lits, weights, b.K))
	} else {
		g.add(solver.GtEq(lits, weights, b.K))
	}
}

func (g *gophersatSolver) Check(deadline time.Time) Status {
	var constrs []solver.PBConstr
	for _, f := range g.frames {
		constrs = append(constrs, f...)
	}

	s := solver.New(solver.ParsePBConstrs(constrs))

	type outcome struct {
		status solver.Status
		model  []bool
	}
	ch := make(chan outcome, 1)
	go func() {
		st := s.Solve()
		var m []bool
		if st == solver.Sat {
			m = s.Model()
		}
		ch <- outcome{status: st, model: m}
	}()

	var expired <-chan time.Time
	if !deadline.IsZero() {
		expired = time.After(time.Until(deadline))
	}
	select {
	case o := <-ch:
		switch o.status {
		case solver.Sat:
			// Keep a 1-based copy so callers can index by literal.
			g.model = append([]bool{false}, o.model...)
			return StatusSat
		case solver.Unsat:
			return StatusUnsat
		default:
			return StatusTimeout
		}
	case <-expired:
		// The worker goroutine finishes its current solve and exits on
		// its own; its late result is discarded.
		return StatusTimeout
	}
}

func (g *gophersatSolver) Model() []bool {
	return g.model
}
