// Package pareto summarizes a Pareto frontier and selects one
// representative solution from it (spec §4.4).
package pareto

import "sort"

// Point is one (t, cost, unavailability) triple on a frontier.
type Point struct {
	T              int
	Cost           float64
	Unavailability float64
}

// Frontier is an ordered, immutable set of mutually non-dominated
// points, sorted by cost ascending (spec §3).
type Frontier struct {
	points []Point
}

// NewFrontier builds a Frontier from points, sorting them by cost
// ascending (ties broken by t) as spec §3/§5 require. It does not
// itself verify mutual non-domination: that is a property the solver
// guarantees at construction time (spec §8 property 3).
func NewFrontier(points []Point) Frontier {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Cost != sorted[j].Cost {
			return sorted[i].Cost < sorted[j].Cost
		}
		return sorted[i].T < sorted[j].T
	})
	return Frontier{points: sorted}
}

// Len returns the number of points on the frontier.
func (f Frontier) Len() int { return len(f.points) }

// Points returns a copy of the frontier's points.
func (f Frontier) Points() []Point {
	out := make([]Point, len(f.points))
	copy(out, f.points)
	return out
}

// At returns the i-th point.
func (f Frontier) At(i int) Point { return f.points[i] }

// Empty reports whether the frontier has no points.
func (f Frontier) Empty() bool { return len(f.points) == 0 }

// Filter returns the sub-frontier whose points satisfy every supplied,
// independent constraint (spec §4.4). A nil bound is unconstrained.
type FilterConstraints struct {
	MaxCost *float64
	MaxUnav *float64
	MinT    *int
	MaxT    *int
}

func (f Frontier) Filter(c FilterConstraints) Frontier {
	out := make([]Point, 0, len(f.points))
	for _, p := range f.points {
		if c.MaxCost != nil && p.Cost > *c.MaxCost {
			continue
		}
		if c.MaxUnav != nil && p.Unavailability > *c.MaxUnav {
			continue
		}
		if c.MinT != nil && p.T < *c.MinT {
			continue
		}
		if c.MaxT != nil && p.T > *c.MaxT {
			continue
		}
		out = append(out, p)
	}
	return NewFrontier(out)
}
