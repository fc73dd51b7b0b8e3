package nsga

import "math"

// Objectives is the (f1, f2) pair evaluated for a candidate solution.
// By Problem convention f1 is cost and f2 is unavailability, but the
// solver itself is agnostic to that meaning.
type Objectives struct {
	F1 float64
	F2 float64
}

func (o Objectives) finite() bool {
	return !math.IsNaN(o.F1) && !math.IsInf(o.F1, 0) &&
		!math.IsNaN(o.F2) && !math.IsInf(o.F2, 0)
}

// dominates reports whether o dominates other: no worse in every
// objective, strictly better in at least one.
func (o Objectives) dominates(other Objectives) bool {
	notWorse := o.F1 <= other.F1 && o.F2 <= other.F2
	strictlyBetter := o.F1 < other.F1 || o.F2 < other.F2
	return notWorse && strictlyBetter
}

// Solution is a candidate lead-time together with its evaluated
// objectives. It is mutated by variation operators during the search
// and frozen once it is part of a returned, non-dominated frontier.
type Solution struct {
	Vars     []float64
	Obj      Objectives
	Rank     int
	Crowding float64
}
