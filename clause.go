package pairsat

// A clause is a disjunction of literals. The two watch slots hold positions
// within lits; with two or more literals the slots are distinct, and a
// single-literal clause watches its only literal from both slots. visits
// counts how many times propagation has inspected the clause and has no
// effect on the search.
type clause struct {
	lits   []literal
	watch  [2]int
	visits int64
}

// initWatches registers every clause under the watch buckets of its initial
// watch literals: the 0th always, the 1st only when the clause has more than
// one literal. Empty clauses register nowhere; initialPropagation rejects
// them before the search starts.
func (s *Solver) initWatches() {
	for i := range s.clauses {
		c := &s.clauses[i]
		if len(c.lits) == 0 {
			continue
		}
		lit0 := c.lits[c.watch[0]]
		s.watches[lit0.watchIndex()] = append(s.watches[lit0.watchIndex()], i)
		if len(c.lits) > 1 {
			lit1 := c.lits[c.watch[1]]
			s.watches[lit1.watchIndex()] = append(s.watches[lit1.watchIndex()], i)
		}
	}
}

// findReplacementWatch returns the position of a literal outside the two
// watch slots whose value is not false, if any. Such a literal can take over
// watch duty from a falsified one.
func (c *clause) findReplacementWatch(assigns []lbool) (int, bool) {
	for j, lit := range c.lits {
		if j == c.watch[0] || j == c.watch[1] {
			continue
		}
		if litValue(assigns, lit) != lFalse {
			return j, true
		}
	}
	return 0, false
}
