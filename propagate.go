package pairsat

// assign sets literal l true if its variable is unassigned and records the
// variable on the trail. It reports whether the result is consistent: false
// means the variable already holds the opposite value.
func (s *Solver) assign(l literal) bool {
	v := l.variable()
	switch s.assigns[v] {
	case lUndef:
		if l > 0 {
			s.assigns[v] = lTrue
		} else {
			s.assigns[v] = lFalse
		}
		s.trail = append(s.trail, v)
		return true
	case lTrue:
		return l > 0
	default:
		return l < 0
	}
}

// undoToLevel rolls the trail back to the checkpoint recorded at level,
// unassigning every variable set at or after it, and discards that
// checkpoint and the ones above it. Undo is the only way an assignment is
// ever cleared.
func (s *Solver) undoToLevel(level int) {
	if level >= len(s.trailLim) {
		return
	}
	pos := s.trailLim[level]
	for len(s.trail) > pos {
		v := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.assigns[v] = lUndef
	}
	s.trailLim = s.trailLim[:level]
}

// propagate drives unit propagation to a fixed point after lit became true.
// It reports false as soon as a conflict is found.
func (s *Solver) propagate(lit literal) bool {
	s.queue = append(s.queue[:0], lit)
	for len(s.queue) > 0 {
		l := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]
		if !s.processWatchList(l) {
			return false
		}
	}
	return true
}

// processWatchList visits every clause currently watching the negation of
// satisfied. Clauses that find a replacement watch move to the replacement
// literal's bucket; all others stay put. The batch is compacted in place
// with a writer index; on conflict the unprocessed remainder is spliced back
// so the watch index stays consistent for the backtrack that follows.
func (s *Solver) processWatchList(satisfied literal) bool {
	idx := satisfied.neg().watchIndex()
	wl := s.watches[idx]
	j := 0
	for i := 0; i < len(wl); i++ {
		cid := wl[i]
		keep, conflict := s.updateClause(cid, satisfied.neg())
		if keep {
			wl[j] = cid
			j++
		}
		if conflict {
			j += copy(wl[j:], wl[i+1:])
			s.watches[idx] = wl[:j]
			return false
		}
	}
	s.watches[idx] = wl[:j]
	return true
}

// updateClause brings one clause up to date after falsified lost its value.
// keep reports whether the clause stays in falsified's bucket; conflict
// reports that the clause has no non-false literal left to watch while its
// other watch is false. A clause satisfied by its other watch stays where it
// is, and a clause reduced to one viable literal assigns it and queues it
// for further propagation.
func (s *Solver) updateClause(cid int, falsified literal) (keep, conflict bool) {
	c := &s.clauses[cid]
	c.visits++
	s.stats.ClauseVisits++
	if c.lits[c.watch[0]] == falsified {
		c.watch[0], c.watch[1] = c.watch[1], c.watch[0]
	}

	w0 := c.lits[c.watch[0]]
	if litValue(s.assigns, w0) == lTrue {
		return true, false
	}

	if j, ok := c.findReplacementWatch(s.assigns); ok {
		c.watch[1] = j
		lit := c.lits[j]
		s.watches[lit.watchIndex()] = append(s.watches[lit.watchIndex()], cid)
		return false, false
	}

	if litValue(s.assigns, w0) == lFalse {
		return true, true
	}

	// w0 is the one non-false literal left: the clause is unit.
	s.assign(w0)
	s.stats.Implications++
	s.queue = append(s.queue, w0)
	return true, false
}

// initialPropagation applies the formula's load-time facts: an empty clause
// makes it unsatisfiable outright, and every unit clause assigns its literal
// and propagates. A conflict here (two units forcing a variable both ways,
// or a cascade that runs into one) is a definitive UNSAT.
func (s *Solver) initialPropagation() bool {
	for i := range s.clauses {
		if len(s.clauses[i].lits) == 0 {
			s.log.Debugf("clause %d is empty: unsatisfiable", i)
			return false
		}
	}
	var units []literal
	for i := range s.clauses {
		if len(s.clauses[i].lits) == 1 {
			units = append(units, s.clauses[i].lits[0])
		}
	}
	for _, l := range units {
		if !s.assign(l) || !s.propagate(l) {
			s.log.Debugf("conflict propagating unit clause %d: unsatisfiable", int(l))
			return false
		}
	}
	return true
}
