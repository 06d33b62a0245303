/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import "time"

// Status is the outcome of one satisfiability check.
type Status int

const (
	StatusSat Status = iota
	StatusUnsat
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	default:
		return "timeout"
	}
}

// Bound is a pseudo-boolean assertion over slot literals: the weighted
// count of true literals compared against K.
type Bound struct {
	Lits    []int
	Weights []int
	AtMost  bool // sum ≤ K when true, sum ≥ K otherwise
	K       int
}

// SatSolver is the narrow incremental-solver capability the optimizer
// depends on. Assertions added after a Push are retracted by the
// matching Pop. Any conforming engine may be swapped in.
type SatSolver interface {
	Push()
	Pop()
	AddClause(lits ...int)
	AddBound(b Bound)

	// Check reports satisfiability of everything currently asserted,
	// giving up at deadline (zero deadline means no limit). No assertion
	// may be added concurrently with an in-flight Check.
	Check(deadline time.Time) Status

	// Model returns the assignment found by the most recent satisfiable
	// Check, indexed by variable identifier (entry 0 is unused).
	Model() []bool
}

// NamedStack decorates a SatSolver with labeled checkpoint frames: a
// labeled push records the stack depth under that name, and popping the
// label unwinds every frame above it regardless of how many anonymous
// pushes happened in between.
type NamedStack struct {
	SatSolver

	names map[string]int
	depth int
}

func NewNamedStack(s SatSolver) *NamedStack {
	return &NamedStack{
		SatSolver: s,
		names:     make(map[string]int),
	}
}

func (s *NamedStack) Push() {
	s.SatSolver.Push()
	s.depth++
}

func (s *NamedStack) PushNamed(name string) {
	s.names[name] = s.depth
	s.Push()
}

func (s *NamedStack) Pop() {
	s.SatSolver.Pop()
	s.depth--
}

// PopNamed unwinds to the depth recorded for name and forgets the label.
func (s *NamedStack) PopNamed(name string) {
	target, ok := s.names[name]
	if !ok {
		return
	}
	for s.depth > target {
		s.Pop()
	}
	delete(s.names, name)
}

// Commit forgets a label while leaving its frames asserted.
func (s *NamedStack) Commit(name string) {
	delete(s.names, name)
}

// Depth reports the current number of open frames.
func (s *NamedStack) Depth() int { return s.depth }
