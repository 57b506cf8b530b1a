package pairsat

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// TestAgainstGini cross-checks verdicts on uniform random three-literal
// formulas near the satisfiability threshold, where both outcomes are
// common, against the gini solver.
func TestAgainstGini(t *testing.T) {
	for _, tt := range []struct {
		numVars    int
		numClauses int
		numSeeds   int
	}{
		{4, 12, 300},
		{5, 18, 300},
		{6, 24, 200},
		{8, 34, 100},
	} {
		name := fmt.Sprintf("vars=%d,clauses=%d", tt.numVars, tt.numClauses)
		t.Run(name, func(t *testing.T) {
			for seed := 0; seed < tt.numSeeds; seed++ {
				problem := makeRandom3CNF(int64(seed), tt.numVars, tt.numClauses)
				soln, ok := Solve(problem)
				if want := giniSat(problem); ok != want {
					var b strings.Builder
					if err := WriteDIMACS(&b, problem); err != nil {
						panic(err)
					}
					t.Fatalf("[seed=%d] got sat=%v, gini says sat=%v:\n\n%s\n",
						seed, ok, want, b.String())
				}
				if ok && !solutionIsValid(problem, soln) {
					var b strings.Builder
					if err := WriteDIMACS(&b, problem); err != nil {
						panic(err)
					}
					t.Fatalf("[seed=%d] got incorrect solution:\n\n%v\n\n%s\n",
						seed, soln, b.String())
				}
			}
		})
	}
}

// TestFixturesAgainstGini confirms the sat/unsat labels baked into the
// testdata filenames.
func TestFixturesAgainstGini(t *testing.T) {
	for _, tt := range loadFixtures(t, false) {
		t.Run(tt.name, func(t *testing.T) {
			if got := giniSat(tt.problem); got != tt.sat {
				t.Fatalf("fixture is labeled sat=%v, but gini says sat=%v", tt.sat, got)
			}
		})
	}
}

func giniSat(problem Problem) bool {
	g := gini.New()
	for _, clause := range problem.Clauses {
		for _, n := range clause {
			g.Add(z.Dimacs2Lit(n))
		}
		g.Add(0)
	}
	switch res := g.Solve(); res {
	case 1:
		return true
	case -1:
		return false
	default:
		panic(fmt.Sprintf("gini returned %d", res))
	}
}

// makeRandom3CNF generates numClauses random clauses of three distinct
// vars each. Unlike makeRandomSat, nothing makes the result satisfiable.
func makeRandom3CNF(seed int64, numVars, numClauses int) Problem {
	rng := rand.New(rand.NewSource(seed))
	vars := make([]int, numVars)
	for i := range vars {
		vars[i] = i + 1
	}
	clauses := make([][]int, numClauses)
	for i := range clauses {
		rng.Shuffle(numVars, func(i, j int) {
			vars[i], vars[j] = vars[j], vars[i]
		})
		clause := make([]int, 3)
		for j := range clause {
			clause[j] = vars[j]
			if rng.Intn(2) == 1 {
				clause[j] = -clause[j]
			}
		}
		clauses[i] = clause
	}
	return Problem{Vars: numVars, Clauses: clauses}
}
