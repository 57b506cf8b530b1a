// Package pairsat implements a DPLL SAT solver built on the
// two-watched-literal propagation scheme described in the 2001 paper
// Chaff: Engineering an Efficient SAT Solver, with two twists on plain
// backtracking search: decisions assign a pair of variables jointly whenever
// two or more remain, and three-literal clauses seed a failed-literal
// probing pass that proves implications between variables before branching
// begins.
package pairsat

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Problem is a CNF formula: clauses over the variables 1 through Vars,
// each clause a slice of nonzero literals where a negative integer stands
// for a negated variable. Problems usually come from ParseDIMACS.
type Problem struct {
	Vars    int
	Clauses [][]int
}

// A Solver holds one CNF formula and the search state used to decide it.
// Create one with New or NewFromFile. A Solver is not safe for concurrent
// use.
type Solver struct {
	nVars   int
	clauses []clause

	// assigns holds each variable's value, indexed by variable id (slot 0
	// is unused). watches maps each literal's watch index to the ids of the
	// clauses currently watching that literal.
	assigns []lbool
	watches [][]int

	// trail records assigned variables in order and trailLim marks the
	// trail length at each live decision level. frames is the decision
	// stack; the frame at index i owns the checkpoint trailLim[i].
	trail    []int
	trailLim []int
	frames   []frame

	queue []literal // propagation work queue, reused across calls

	// pending holds implication candidates extracted from three-literal
	// clauses and not yet probed; proven collects the edges whose probes
	// found a forced implication.
	pending map[Implication]struct{}
	proven  map[Implication]bool

	solved bool
	sat    bool
	stats  Stats

	log logrus.FieldLogger
}

// An Option configures a Solver.
type Option func(*Solver)

// WithLogger directs the solver's debug logging to log. By default all log
// output is discarded.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Solver) { s.log = log }
}

func defaultLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// New builds a Solver for p. Every literal in p.Clauses must be nonzero
// with magnitude at most p.Vars; New panics otherwise.
func New(p Problem, opts ...Option) *Solver {
	s := &Solver{
		nVars:   p.Vars,
		clauses: make([]clause, len(p.Clauses)),
		assigns: make([]lbool, p.Vars+1),
		watches: make([][]int, (p.Vars+1)*2),
		pending: make(map[Implication]struct{}),
		proven:  make(map[Implication]bool),
		log:     defaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, lits := range p.Clauses {
		c := &s.clauses[i]
		c.lits = make([]literal, len(lits))
		for j, n := range lits {
			if n == 0 {
				panic("zero literal passed to New")
			}
			if abs(n) > p.Vars {
				panic(fmt.Sprintf("literal %d out of range [1, %d]", n, p.Vars))
			}
			c.lits[j] = literal(n)
		}
		if len(lits) > 1 {
			c.watch[1] = 1
		}
	}
	s.initWatches()
	s.extractImplicationCandidates()
	s.log.Debugf("loaded %d clauses over %d vars (%d implication candidates)",
		len(s.clauses), s.nVars, len(s.pending))
	return s
}

// NewFromFile builds a Solver from a DIMACS CNF file.
func NewFromFile(path string, opts ...Option) (*Solver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open problem file")
	}
	defer f.Close()
	p, err := ParseDIMACS(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return New(p, opts...), nil
}

// Solve determines whether a boolean formula is satisfiable and, if it is,
// gives a satisfying assignment. It is shorthand for New followed by the
// Solve and Model methods.
func Solve(p Problem) (model []int, sat bool) {
	s := New(p)
	if !s.Solve() {
		return nil, false
	}
	return s.Model(), true
}

// Solve runs the search and reports whether the formula is satisfiable.
// The result is computed once; further calls return it directly.
func (s *Solver) Solve() bool {
	if s.solved {
		return s.sat
	}
	s.sat = s.search()
	s.solved = true
	s.log.Debugf("search done: sat=%v stats=%# v", s.sat, pretty.Formatter(s.stats))
	return s.sat
}

// Model returns the satisfying assignment found by Solve as one literal per
// assigned variable, in increasing variable order: v if the variable is
// true, -v if false. It returns nil before Solve has run and on
// unsatisfiable formulas.
func (s *Solver) Model() []int {
	if !s.solved || !s.sat {
		return nil
	}
	model := make([]int, 0, s.nVars)
	for v := 1; v <= s.nVars; v++ {
		switch s.assigns[v] {
		case lTrue:
			model = append(model, v)
		case lFalse:
			model = append(model, -v)
		}
	}
	return model
}

// Stats describes the work performed by Solve. The numbers are purely
// informational and their exact values may change between versions.
type Stats struct {
	Decisions    int64 // branching frames opened (a pair counts once)
	Implications int64 // literals forced by unit propagation
	ClauseVisits int64 // clauses inspected while propagating
	Probes       int64 // implication candidates tested
	Conflicts    int64 // dead ends that forced backtracking
}

// Stats returns counters describing the search so far.
func (s *Solver) Stats() Stats { return s.stats }

// Implications returns the implications proved by probing, sorted by From
// and then To. Probing runs as part of Solve; the result is informational
// and is not fed back into the search.
func (s *Solver) Implications() []Implication {
	imps := make([]Implication, 0, len(s.proven))
	for imp := range s.proven {
		imps = append(imps, imp)
	}
	sort.Slice(imps, func(i, j int) bool {
		if imps[i].From != imps[j].From {
			return imps[i].From < imps[j].From
		}
		return imps[i].To < imps[j].To
	})
	return imps
}

type frameKind uint8

const (
	frameSingle frameKind = iota
	framePair
	frameImplication
)

// A frame is one entry of the decision stack. A single frame branches on one
// variable, a pair frame branches on two variables jointly, and an
// implication frame marks a probe, which offers no retry. Retry state is
// mutated in place until the frame is exhausted and popped for good.
type frame struct {
	kind      frameKind
	v1, v2    int
	polarity  bool        // single: the polarity being tried
	comb      uint8       // pair: index into pairCombs of the combination being tried
	exhausted bool        // no alternatives left
	imp       Implication // implication frames only
}

// pairCombs lists the joint assignments a pair frame tries, in order.
var pairCombs = [4][2]bool{
	{true, true},
	{true, false},
	{false, true},
	{false, false},
}

// search is the main solving loop: drain the probe candidates, then branch
// on the lowest unassigned variables until every variable has a value (SAT)
// or the decision stack is exhausted (UNSAT).
func (s *Solver) search() bool {
	if !s.initialPropagation() {
		return false
	}

	for {
		if imp, ok := s.takePendingImplication(); ok {
			s.frames = append(s.frames, frame{kind: frameImplication, imp: imp})
			s.trailLim = append(s.trailLim, len(s.trail))
			s.stats.Probes++
			if s.testImplication(imp) {
				s.proven[imp] = true
				s.log.Debugf("proved %d implies %d", imp.From, imp.To)
			}
			continue
		}

		v1, v2 := s.pickBranchingPair()
		if v1 == 0 {
			return true
		}
		s.stats.Decisions++
		if v2 != 0 {
			s.frames = append(s.frames, frame{kind: framePair, v1: v1, v2: v2})
			s.trailLim = append(s.trailLim, len(s.trail))
			if !s.assignPair(0, v1, v2) && !s.backtrack() {
				return false
			}
		} else {
			s.frames = append(s.frames, frame{kind: frameSingle, v1: v1, polarity: true})
			s.trailLim = append(s.trailLim, len(s.trail))
			lit := mkLit(v1, true)
			if (!s.assign(lit) || !s.propagate(lit)) && !s.backtrack() {
				return false
			}
		}
	}
}

// pickBranchingPair returns the two lowest-id unassigned variables, or one
// and then zero of them as the formula runs out. Variable ids are 1-based,
// so zero means none.
func (s *Solver) pickBranchingPair() (v1, v2 int) {
	for v := 1; v <= s.nVars; v++ {
		if s.assigns[v] != lUndef {
			continue
		}
		if v1 == 0 {
			v1 = v
			continue
		}
		return v1, v
	}
	return v1, 0
}

// assignPair applies one joint assignment to a variable pair, propagating
// after each half. It reports false if either half is inconsistent or
// propagates to a conflict.
func (s *Solver) assignPair(comb uint8, v1, v2 int) bool {
	p := pairCombs[comb]
	lit1 := mkLit(v1, p[0])
	if !s.assign(lit1) || !s.propagate(lit1) {
		return false
	}
	lit2 := mkLit(v2, p[1])
	if !s.assign(lit2) || !s.propagate(lit2) {
		return false
	}
	return true
}

// backtrack walks the decision stack from the top after a conflict, undoing
// each frame's consequences and retrying its next alternative. It reports
// false when the stack runs out, which proves the formula unsatisfiable.
func (s *Solver) backtrack() bool {
	s.stats.Conflicts++
	s.log.Debug("conflict: backtracking")
	for len(s.frames) > 0 {
		level := len(s.frames) - 1
		f := &s.frames[level]
		switch f.kind {
		case frameSingle:
			if f.exhausted {
				s.undoToLevel(level)
				s.frames = s.frames[:level]
				continue
			}
			s.undoToLevel(level)
			f.polarity = !f.polarity
			f.exhausted = true
			s.trailLim = append(s.trailLim, len(s.trail))
			lit := mkLit(f.v1, f.polarity)
			if s.assign(lit) && s.propagate(lit) {
				return true
			}
		case framePair:
			if f.exhausted {
				s.undoToLevel(level)
				s.frames = s.frames[:level]
				continue
			}
			s.undoToLevel(level)
			f.comb++
			if f.comb == uint8(len(pairCombs)) {
				f.exhausted = true
				continue
			}
			s.trailLim = append(s.trailLim, len(s.trail))
			if s.assignPair(f.comb, f.v1, f.v2) {
				return true
			}
		case frameImplication:
			s.log.Debugf("unwound past probe %d implies %d", f.imp.From, f.imp.To)
			s.undoToLevel(level)
			s.frames = s.frames[:level]
		}
	}
	return false
}
