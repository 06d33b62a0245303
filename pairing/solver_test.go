/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"testing"
	"time"
)

// recordingSolver counts frame operations for NamedStack tests.
type recordingSolver struct {
	pushes, pops int
}

func (r *recordingSolver) Push()                    { r.pushes++ }
func (r *recordingSolver) Pop()                     { r.pops++ }
func (r *recordingSolver) AddClause(lits ...int)    {}
func (r *recordingSolver) AddBound(b Bound)         {}
func (r *recordingSolver) Check(_ time.Time) Status { return StatusSat }
func (r *recordingSolver) Model() []bool            { return nil }

func TestNamedStackPopUnwindsAnonymousFrames(t *testing.T) {
	rec := &recordingSolver{}
	s := NewNamedStack(rec)

	s.PushNamed("outer")
	s.Push()
	s.Push()
	s.PushNamed("inner")
	s.Push()
	if s.Depth() != 5 {
		t.Fatalf("depth = %v; want 5", s.Depth())
	}

	s.PopNamed("inner")
	if s.Depth() != 3 {
		t.Errorf("depth after PopNamed(inner) = %v; want 3", s.Depth())
	}

	s.PopNamed("outer")
	if s.Depth() != 0 {
		t.Errorf("depth after PopNamed(outer) = %v; want 0", s.Depth())
	}
	if rec.pushes != 5 || rec.pops != 5 {
		t.Errorf("underlying ops = %v pushes, %v pops; want 5 and 5",
			rec.pushes, rec.pops)
	}
}

func TestNamedStackCommitKeepsFrames(t *testing.T) {
	rec := &recordingSolver{}
	s := NewNamedStack(rec)

	s.PushNamed("bound")
	s.Commit("bound")
	s.PopNamed("bound")
	if s.Depth() != 1 {
		t.Errorf("depth = %v; want 1 (committed frame must survive)",
			s.Depth())
	}
}

func TestNamedStackPopUnknownLabel(t *testing.T) {
	s := NewNamedStack(&recordingSolver{})
	s.Push()
	s.PopNamed("never-pushed")
	if s.Depth() != 1 {
		t.Errorf("depth = %v; want 1", s.Depth())
	}
}

func TestGophersatFrames(t *testing.T) {
	s := NewGophersatSolver()
	s.AddClause(1, 2)
	s.AddClause(-1)

	if got := s.Check(time.Time{}); got != StatusSat {
		t.Fatalf("base status = %v; want sat", got)
	}
	m := s.Model()
	if len(m) < 3 || m[1] || !m[2] {
		t.Errorf("model = %v; want x1 false, x2 true", m)
	}

	s.Push()
	s.AddClause(-2)
	if got := s.Check(time.Time{}); got != StatusUnsat {
		t.Errorf("status with contradiction = %v; want unsat", got)
	}

	s.Pop()
	if got := s.Check(time.Time{}); got != StatusSat {
		t.Errorf("status after pop = %v; want sat", got)
	}
}

func TestGophersatBounds(t *testing.T) {
	s := NewGophersatSolver()
	lits := []int{1, 2, 3}
	weights := []int{1, 2, 3}

	s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: false, K: 4})
	s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true, K: 4})
	if got := s.Check(time.Time{}); got != StatusSat {
		t.Fatalf("status = %v; want sat", got)
	}
	m := s.Model()
	sum := 0
	for i, l := range lits {
		if l < len(m) && m[l] {
			sum += weights[i]
		}
	}
	if sum != 4 {
		t.Errorf("weighted sum = %v; want 4", sum)
	}

	s.Push()
	s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true, K: 3})
	if got := s.Check(time.Time{}); got != StatusUnsat {
		t.Errorf("tightened status = %v; want unsat", got)
	}
}

// Search reuses one term list across every bound it asserts, so AddBound
// must leave the caller's slices exactly as it found them.
func TestGophersatBoundsLeaveTermsIntact(t *testing.T) {
	s := NewGophersatSolver()
	lits := []int{1, 2, 3}
	weights := []int{0, 1, 1}

	s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: true, K: 1})
	s.AddBound(Bound{Lits: lits, Weights: weights, AtMost: false, K: 1})

	for i, want := range []int{1, 2, 3} {
		if lits[i] != want {
			t.Fatalf("lits = %v; want [1 2 3]", lits)
		}
	}
	for i, want := range []int{0, 1, 1} {
		if weights[i] != want {
			t.Fatalf("weights = %v; want [0 1 1]", weights)
		}
	}
}
