package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/pairsat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	verbose      bool
	stats        bool
	implications bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "pairsat [input.cnf]",
		Short: "A DPLL SAT solver with paired branching and implication probing",
		Long: `Pairsat reads a single problem specification in the DIMACS CNF format and
writes the result in the conventional way: either the first line is UNSAT, or
else the first line is SAT and the second line gives the satisfying
assignment as a list of literals terminated by a 0.

If no input file is given, pairsat reads from standard input.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log the search to stderr as it runs")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print search statistics to stderr")
	cmd.Flags().BoolVar(&opts.implications, "implications", false, "print implications proved by probing to stderr")
	return cmd
}

func run(args []string, opts options) error {
	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	problem, err := pairsat.ParseDIMACS(r)
	if err != nil {
		return errors.Wrap(err, "read input as DIMACS CNF")
	}

	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetOutput(io.Discard)
	}

	s := pairsat.New(problem, pairsat.WithLogger(log))
	sat := s.Solve()

	if opts.stats {
		st := s.Stats()
		fmt.Fprintf(os.Stderr, "decisions=%d implications=%d clauseVisits=%d probes=%d conflicts=%d\n",
			st.Decisions, st.Implications, st.ClauseVisits, st.Probes, st.Conflicts)
	}
	if opts.implications {
		for _, imp := range s.Implications() {
			fmt.Fprintf(os.Stderr, "%d => %d\n", imp.From, imp.To)
		}
	}

	if !sat {
		fmt.Println("UNSAT")
		return nil
	}
	fmt.Println("SAT")
	return pairsat.WriteModel(os.Stdout, s.Model())
}
