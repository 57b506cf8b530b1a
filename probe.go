package pairsat

// extractImplicationCandidates scans each three-literal clause for the shape
// (¬x ∨ ¬y ∨ z), which forces z whenever x and y both hold, and queues the
// x ⇒ z edge for probing. Three orderings of each clause are checked.
func (s *Solver) extractImplicationCandidates() {
	for i := range s.clauses {
		lits := s.clauses[i].lits
		if len(lits) != 3 {
			continue
		}
		a, b, c := lits[0], lits[1], lits[2]
		s.addImplicationCandidate(a, b, c)
		s.addImplicationCandidate(a, c, b)
		s.addImplicationCandidate(b, c, a)
	}
}

func (s *Solver) addImplicationCandidate(l1, l2, l3 literal) {
	if l3 > 0 && l1 < 0 && l2 < 0 {
		s.pending[Implication{From: l1.variable(), To: l3.variable()}] = struct{}{}
	}
}

// takePendingImplication removes and returns an arbitrary pending candidate.
func (s *Solver) takePendingImplication() (Implication, bool) {
	for imp := range s.pending {
		delete(s.pending, imp)
		return imp, true
	}
	return Implication{}, false
}

// testImplication reports whether imp.From ⇒ imp.To is forced, by assuming
// From true and To false and propagating each in turn; a conflict on the
// second assumption proves the implication. The assumptions are undone
// before returning, whatever the outcome, so a probe never leaves state
// behind. A conflict on the first assumption alone proves nothing here and
// the candidate is dropped untested.
func (s *Solver) testImplication(imp Implication) bool {
	save := len(s.trailLim)
	s.trailLim = append(s.trailLim, len(s.trail))

	from := mkLit(imp.From, true)
	if !s.assign(from) || !s.propagate(from) {
		s.undoToLevel(save)
		return false
	}

	to := mkLit(imp.To, false)
	conflict := !s.assign(to) || !s.propagate(to)

	s.undoToLevel(save)
	return conflict
}
