package pairsat

// A literal represents an instance of a variable or its negation in a
// clause. It is a nonzero signed integer: the magnitude is the variable id
// and the sign is the polarity, exactly as in the DIMACS format.
type literal int32

func mkLit(v int, polarity bool) literal {
	if polarity {
		return literal(v)
	}
	return literal(-v)
}

func (l literal) variable() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

func (l literal) neg() literal { return -l }

// watchIndex maps l into the watch-list table. Each variable owns two
// buckets: 2v for the positive literal and 2v+1 for the negated one.
func (l literal) watchIndex() int {
	i := l.variable() * 2
	if l < 0 {
		i++
	}
	return i
}

// An lbool is the value of a variable or literal: true, false, or not yet
// assigned. Negating an lbool with unary minus gives the value of the
// opposite literal.
type lbool int8

const (
	lUndef lbool = 0
	lTrue  lbool = 1
	lFalse lbool = -1
)

func (b lbool) String() string {
	switch b {
	case lTrue:
		return "true"
	case lFalse:
		return "false"
	default:
		return "unassigned"
	}
}

// litValue returns the value of l under assigns: the variable's value for a
// positive literal, its opposite for a negated one.
func litValue(assigns []lbool, l literal) lbool {
	v := assigns[l.variable()]
	if l < 0 {
		return -v
	}
	return v
}

// An Implication records a fact of the form "From implies To": any
// satisfying assignment that sets variable From true must set variable To
// true as well. Candidates are drawn from three-literal clauses of the shape
// (¬from ∨ ¬y ∨ to) and proved by failed-literal probing.
type Implication struct {
	From, To int
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
