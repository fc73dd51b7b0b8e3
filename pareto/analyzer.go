package pareto

import (
	"math"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/bushingplan/decisionengine/telemetry"
)

// Criterion names a selection strategy (spec §4.4).
type Criterion string

const (
	MinCost           Criterion = "min_cost"
	MinUnavailability Criterion = "min_unavailability"
	Balanced          Criterion = "balanced"
	KneePoint         Criterion = "knee_point"
)

// Weights parameterizes the Balanced criterion.
type Weights struct {
	Cost           float64
	Unavailability float64
}

// DefaultWeights is the spec-documented 50/50 split.
func DefaultWeights() Weights {
	return Weights{Cost: 0.5, Unavailability: 0.5}
}

// Analyzer selects one representative solution from a Frontier under a
// named criterion and computes frontier-level summary statistics.
type Analyzer struct {
	sink telemetry.Sink
}

// NewAnalyzer builds an Analyzer that logs its selection decisions to
// sink, mirroring the logger.info call on every selection branch in the
// reference implementation this engine was distilled from.
func NewAnalyzer(sink telemetry.Sink) *Analyzer {
	if sink == nil {
		sink = telemetry.Noop{}
	}
	return &Analyzer{sink: sink}
}

// Select returns the index into f.Points() chosen under criterion. It
// fails with EmptyFrontier if f has no points. Running Select twice on
// the same frontier with the same criterion yields the same index (spec
// §8 idempotence).
func (a *Analyzer) Select(f Frontier, criterion Criterion, weights Weights) (int, error) {
	if f.Empty() {
		return 0, bmerr.ErrEmptyFrontier()
	}

	switch criterion {
	case MinCost:
		idx := argmin(f, func(p Point) float64 { return p.Cost })
		a.sink.Info("pareto.select", "criterion", string(criterion), "index", idx)
		return idx, nil

	case MinUnavailability:
		idx := argmin(f, func(p Point) float64 { return p.Unavailability })
		a.sink.Info("pareto.select", "criterion", string(criterion), "index", idx)
		return idx, nil

	case Balanced:
		idx := a.selectBalanced(f, weights)
		a.sink.Info("pareto.select", "criterion", string(criterion), "index", idx)
		return idx, nil

	case KneePoint:
		idx := a.selectKnee(f)
		a.sink.Info("pareto.select", "criterion", string(criterion), "index", idx)
		return idx, nil

	default:
		a.sink.Warn("pareto.select.unknown_criterion", "criterion", string(criterion))
		return 0, bmerr.ErrUnknownCriterion()
	}
}

func argmin(f Frontier, key func(Point) float64) int {
	best := 0
	bestVal := key(f.At(0))
	for i := 1; i < f.Len(); i++ {
		v := key(f.At(i))
		if v < bestVal {
			bestVal = v
			best = i
		}
	}
	return best
}

// normalize maps x into [0,1] given [min,max], returning 0.5 when
// min==max (spec §4.4).
func normalize(x, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return (x - min) / (max - min)
}

func bounds(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func (a *Analyzer) selectBalanced(f Frontier, w Weights) int {
	points := f.Points()
	costs := make([]float64, len(points))
	unavs := make([]float64, len(points))
	for i, p := range points {
		costs[i] = p.Cost
		unavs[i] = p.Unavailability
	}
	costMin, costMax := bounds(costs)
	unavMin, unavMax := bounds(unavs)

	best := 0
	bestScore := math.Inf(1)
	for i, p := range points {
		score := w.Cost*normalize(p.Cost, costMin, costMax) +
			w.Unavailability*normalize(p.Unavailability, unavMin, unavMax)
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// selectKnee returns the index of the point maximising perpendicular
// distance, in min-max normalised objective space, from the line
// joining the two extreme frontier points (spec §4.4/§8 scenario E).
// A single-point frontier trivially returns that point.
func (a *Analyzer) selectKnee(f Frontier) int {
	if f.Len() == 1 {
		return 0
	}

	points := f.Points()
	costs := make([]float64, len(points))
	unavs := make([]float64, len(points))
	for i, p := range points {
		costs[i] = p.Cost
		unavs[i] = p.Unavailability
	}
	costMin, costMax := bounds(costs)
	unavMin, unavMax := bounds(unavs)

	normPoint := func(i int) (x, y float64) {
		return normalize(costs[i], costMin, costMax), normalize(unavs[i], unavMin, unavMax)
	}

	x1, y1 := normPoint(0)
	x2, y2 := normPoint(len(points) - 1)

	dx, dy := x2-x1, y2-y1
	norm := math.Hypot(dx, dy)

	best := 0
	bestDist := -1.0
	for i := range points {
		if norm == 0 {
			continue
		}
		x, y := normPoint(i)
		// perpendicular distance from (x,y) to the line through
		// (x1,y1)-(x2,y2)
		dist := math.Abs(dy*x-dx*y+x2*y1-y2*x1) / norm
		if dist > bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// Hypervolume computes the 2D hypervolume dominated by f relative to a
// reference point defaulting to (1.1*maxCost, 1.1*maxUnav) (spec §4.4).
// It is zero for an empty frontier.
func Hypervolume(f Frontier, reference *Point) float64 {
	if f.Empty() {
		return 0
	}

	points := f.Points() // already sorted by cost ascending

	refCost, refUnav := reference.costOr(points), reference.unavOr(points)

	var volume float64
	prevUnav := refUnav
	for _, p := range points {
		width := refCost - p.Cost
		height := prevUnav - p.Unavailability
		if width > 0 && height > 0 {
			volume += width * height
		}
		if p.Unavailability < prevUnav {
			prevUnav = p.Unavailability
		}
	}
	return volume
}

func (r *Point) costOr(points []Point) float64 {
	if r != nil {
		return r.Cost
	}
	maxCost := points[0].Cost
	for _, p := range points {
		if p.Cost > maxCost {
			maxCost = p.Cost
		}
	}
	return 1.1 * maxCost
}

func (r *Point) unavOr(points []Point) float64 {
	if r != nil {
		return r.Unavailability
	}
	maxUnav := points[0].Unavailability
	for _, p := range points {
		if p.Unavailability > maxUnav {
			maxUnav = p.Unavailability
		}
	}
	return 1.1 * maxUnav
}
