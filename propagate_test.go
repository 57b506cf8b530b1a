package pairsat

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClauseVisits(t *testing.T) {
	// A clause is inspected only when one of its two watched literals is
	// falsified. Falsifying the three unwatched literals must not touch it.
	s := New(Problem{Vars: 5, Clauses: [][]int{{1, 2, 3, 4, 5}}})
	for _, l := range []literal{-3, -4, -5} {
		require.True(t, s.assign(l))
		require.True(t, s.propagate(l))
	}
	assert.EqualValues(t, 0, s.clauses[0].visits)
	assert.EqualValues(t, 0, s.Stats().ClauseVisits)

	// Falsifying watched literal 1 visits the clause once. Every
	// replacement candidate is false, so the other watch is propagated.
	require.True(t, s.assign(literal(-1)))
	require.True(t, s.propagate(literal(-1)))
	assert.EqualValues(t, 1, s.clauses[0].visits)
	assert.EqualValues(t, 1, s.Stats().ClauseVisits)
	assert.Equal(t, lTrue, s.assigns[2])
}

func TestUndoToLevel(t *testing.T) {
	s := New(Problem{Vars: 3, Clauses: [][]int{{1, 2}, {-1, 3}}})
	s.trailLim = append(s.trailLim, len(s.trail))
	lit := mkLit(1, true)
	require.True(t, s.assign(lit))
	require.True(t, s.propagate(lit)) // forces 3 through the second clause
	require.Equal(t, []int{1, 3}, s.trail)
	require.Equal(t, lTrue, s.assigns[3])

	s.undoToLevel(0)
	assert.Empty(t, s.trail)
	assert.Empty(t, s.trailLim)
	for v := 1; v <= 3; v++ {
		assert.Equal(t, lUndef, s.assigns[v], "var %d still assigned after undo", v)
	}
}

func TestConflictKeepsWatchList(t *testing.T) {
	// Two clauses watch literal 1. A conflict on the first must leave the
	// second registered, or the watch lists go stale for the retry that
	// follows the conflict.
	s := New(Problem{Vars: 3, Clauses: [][]int{{1, 2}, {1, 3}}})
	require.True(t, s.assign(literal(-2)))
	require.True(t, s.assign(literal(-3)))
	require.True(t, s.assign(literal(-1)))
	require.False(t, s.propagate(literal(-1)))
	assert.Equal(t, []int{0, 1}, s.watches[literal(1).watchIndex()])
	assert.EqualValues(t, 0, s.clauses[1].visits)
	checkWatchRegistrations(t, s)
}

func TestInitialPropagation(t *testing.T) {
	s := New(Problem{Vars: 2, Clauses: [][]int{{1, 2}, {}}})
	assert.False(t, s.initialPropagation(), "empty clause not rejected")

	s = New(Problem{Vars: 1, Clauses: [][]int{{1}, {-1}}})
	assert.False(t, s.initialPropagation(), "contradictory units not rejected")

	s = New(Problem{Vars: 2, Clauses: [][]int{{1}, {-1, 2}}})
	require.True(t, s.initialPropagation())
	assert.Equal(t, lTrue, s.assigns[1])
	assert.Equal(t, lTrue, s.assigns[2])
}

func TestWatchConsistency(t *testing.T) {
	problems := []Problem{
		{Vars: 3, Clauses: [][]int{{1, 2, 3}, {-1}, {-2}}},
		{Vars: 3, Clauses: [][]int{{1, 2, 3}, {-1}, {-3}, {1, 2}}},
		{Vars: 5, Clauses: [][]int{{1, 2, 3, 4, 5}, {-5}, {-4}, {-3}, {-1}}},
		{Vars: 2, Clauses: [][]int{{1, 1, 2}, {-1}}},
		{Vars: 3, Clauses: [][]int{{1, 2}, {1, -2}, {-1, 3}, {-3}}},
	}
	for seed := int64(0); seed < 50; seed++ {
		problems = append(problems, makeRandomSat(seed, 8, 20))
	}
	for _, p := range problems {
		s := New(p)
		sat := s.Solve()
		checkWatchRegistrations(t, s)
		if sat {
			checkWatchesNotBothFalse(t, s)
		}
	}
}

// checkWatchRegistrations verifies that the watch lists and the per-clause
// watch slots agree: every clause appears in exactly the buckets its watch
// slots name, counting a doubly-watched literal twice.
func checkWatchRegistrations(t *testing.T, s *Solver) {
	t.Helper()
	want := make(map[int][]int)
	for ci := range s.clauses {
		c := &s.clauses[ci]
		if len(c.lits) == 0 {
			continue
		}
		idx := c.lits[c.watch[0]].watchIndex()
		want[idx] = append(want[idx], ci)
		if len(c.lits) > 1 {
			idx := c.lits[c.watch[1]].watchIndex()
			want[idx] = append(want[idx], ci)
		}
	}
	got := make(map[int][]int)
	for idx, wl := range s.watches {
		if len(wl) == 0 {
			continue
		}
		got[idx] = append(got[idx], wl...)
	}
	for _, m := range []map[int][]int{want, got} {
		for _, ids := range m {
			sort.Ints(ids)
		}
	}
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("watch lists inconsistent with clause watch slots (-got, +want):\n%s", diff)
	}
}

// checkWatchesNotBothFalse verifies the core two-watched-literal invariant
// on a fully assigned consistent state.
func checkWatchesNotBothFalse(t *testing.T, s *Solver) {
	t.Helper()
	for ci := range s.clauses {
		c := &s.clauses[ci]
		if len(c.lits) < 2 {
			continue
		}
		w0 := litValue(s.assigns, c.lits[c.watch[0]])
		w1 := litValue(s.assigns, c.lits[c.watch[1]])
		if w0 == lFalse && w1 == lFalse {
			t.Errorf("clause %d watches two false literals (%d and %d)",
				ci, c.lits[c.watch[0]], c.lits[c.watch[1]])
		}
	}
}
