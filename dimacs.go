package pairsat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseDIMACS parses text in the DIMACS CNF format.
//
// For convenience, a few non-standard variations are accepted:
//
//   - Comments (lines beginning with 'c') may appear anywhere, not just in
//     the preamble.
//   - The problem line may be missing, in which case the variable count is
//     inferred as the largest variable any clause mentions.
//   - Clause-line tokens that do not parse as integers are skipped.
func ParseDIMACS(r io.Reader) (Problem, error) {
	var (
		sawProblemLine  bool
		declaredVars    int
		declaredClauses int
	)
	var clauses [][]int
	var clause []int
	maxVar := 0
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		// Some CNF formats attach extra data in a trailer after a line
		// containing a single %.
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if len(clauses) > 0 || len(clause) > 0 {
				return Problem{}, errors.New("problem line appears after clauses")
			}
			if sawProblemLine {
				return Problem{}, errors.New("multiple problem lines")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return Problem{}, errors.Errorf("malformed problem line %q", line)
			}
			if fields[0] != "p" {
				return Problem{}, errors.Errorf("problem line starts with unexpected signifier %q", fields[0])
			}
			if fields[1] != "cnf" {
				return Problem{}, errors.Errorf("only cnf supported; got %q", fields[1])
			}
			var err error
			declaredVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return Problem{}, errors.Errorf("malformed #vars in problem line: %s", err)
			}
			declaredClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return Problem{}, errors.Errorf("malformed #clauses in problem line: %s", err)
			}
			if declaredVars < 0 {
				return Problem{}, errors.Errorf("invalid #vars %d", declaredVars)
			}
			if declaredClauses < 0 {
				return Problem{}, errors.Errorf("invalid #clauses %d", declaredClauses)
			}
			sawProblemLine = true
			continue
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				continue
			}
			if n == 0 {
				clauses = append(clauses, clause)
				clause = nil
			} else {
				clause = append(clause, n)
				if abs(n) > maxVar {
					maxVar = abs(n)
				}
			}
		}
	}
	if err := s.Err(); err != nil {
		return Problem{}, err
	}
	if len(clause) > 0 {
		clauses = append(clauses, clause)
	}

	if !sawProblemLine {
		return Problem{Vars: maxVar, Clauses: clauses}, nil
	}
	for _, clause := range clauses {
		for _, v := range clause {
			if v < 0 {
				v = -v
			}
			if v > declaredVars {
				return Problem{}, errors.Errorf("formula contains var %d, but problem line asserts %d vars (only vars in [1, %d] expected)",
					v, declaredVars, declaredVars)
			}
		}
	}
	// Allow some vars to be missing, but not extra clauses.
	if len(clauses) != declaredClauses {
		return Problem{}, errors.Errorf("problem line specifies %d clauses, but there are %d", declaredClauses, len(clauses))
	}
	return Problem{Vars: declaredVars, Clauses: clauses}, nil
}

// WriteDIMACS writes p in the DIMACS CNF format accepted by ParseDIMACS.
func WriteDIMACS(w io.Writer, p Problem) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", p.Vars, len(p.Clauses))
	for _, clause := range p.Clauses {
		for _, v := range clause {
			fmt.Fprintf(bw, "%d ", v)
		}
		fmt.Fprintln(bw, "0")
	}
	return bw.Flush()
}

// WriteModel writes a satisfying assignment as a conventional model line:
// each literal followed by a space, then a terminating 0 and a newline.
func WriteModel(w io.Writer, model []int) error {
	bw := bufio.NewWriter(w)
	for _, v := range model {
		fmt.Fprintf(bw, "%d ", v)
	}
	fmt.Fprintln(bw, "0")
	return bw.Flush()
}
