package maintenance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/bushingplan/decisionengine/markov"
)

// CostParams are the tunable constants of the maintenance-cost formula
// (spec §4.2). They are fixed per spec, surfaced as configuration only
// because the source does not derive them in-tree.
type CostParams struct {
	BaseCost  float64 // default 500
	DecayRate float64 // default 0.05 per day
}

// DefaultCostParams returns the spec-documented defaults.
func DefaultCostParams() CostParams {
	return CostParams{BaseCost: 500, DecayRate: 0.05}
}

// Objectives is the (cost, unavailability) pair produced by evaluating a
// lead-time against a Problem. Both fields are to be minimised.
type Objectives struct {
	Cost           float64
	Unavailability float64
}

// Problem wraps a Markov model plus per-state cost and unavailability
// vectors (spec §4.2). It exclusively owns its Markov matrix; nothing
// else mutates it after New.
type Problem struct {
	model      *markov.Model
	powCache   *markov.PowCache
	opCosts    *mat.VecDense
	unavail    *mat.VecDense
	timeOffset   int
	initialState int
	bounds       [2]int
	cost         CostParams
}

// New builds a Problem from rates, per-state operational costs, and
// per-state unavailability hours, evaluating state probabilities from
// initialState (spec §4.2/§8 Scenario C: an order already sitting in
// the failure state evaluates every lead-time from that absorbed
// state, not from "Normal"). It fails with InvalidInput if the vectors
// are not aligned to the implied state count or contain a negative
// value.
func New(rates, operationalCosts, unavailabilities []float64, timeOffsetDays, initialState int, bounds [2]int, cost CostParams) (*Problem, error) {
	model, err := markov.Build(rates)
	if err != nil {
		return nil, err
	}

	n := model.N()
	if len(operationalCosts) != n || len(unavailabilities) != n {
		return nil, bmerr.New("maintenance.New", bmerr.InvalidInput, errVectorLength(n, len(operationalCosts), len(unavailabilities)))
	}
	for _, v := range operationalCosts {
		if v < 0 {
			return nil, bmerr.New("maintenance.New", bmerr.InvalidInput, errNegativeValue("operational cost", v))
		}
	}
	for _, v := range unavailabilities {
		if v < 0 {
			return nil, bmerr.New("maintenance.New", bmerr.InvalidInput, errNegativeValue("unavailability", v))
		}
	}
	if initialState < 0 || initialState >= n {
		return nil, bmerr.New("maintenance.New", bmerr.InvalidInput, errOutOfRange("initial state", float64(initialState)))
	}

	return &Problem{
		model:        model,
		powCache:     markov.NewPowCache(model),
		opCosts:      mat.NewVecDense(n, operationalCosts),
		unavail:      mat.NewVecDense(n, unavailabilities),
		timeOffset:   timeOffsetDays,
		initialState: initialState,
		bounds:       bounds,
		cost:         cost,
	}, nil
}

// NewFromOrder builds a Problem directly from an Order using the given
// cost parameters, evaluating from the order's current state.
func NewFromOrder(o *Order, bounds [2]int, cost CostParams) (*Problem, error) {
	return New(o.Rates, o.OperationalCosts, o.Unavailabilities, o.TimeOffsetDays, o.CurrentState, bounds, cost)
}

// NumVars satisfies nsga.Problem: the decision variable is the single
// scalar lead-time t.
func (p *Problem) NumVars() int { return 1 }

// Bounds satisfies nsga.Problem: t ranges over [bounds[0], bounds[1]].
func (p *Problem) Bounds() (lo, hi float64) {
	return float64(p.bounds[0]), float64(p.bounds[1])
}

// Evaluate computes (cost, unavailability) for lead-time t days (spec
// §4.2). The formulae are contractual: they must reproduce the spec's
// test vectors exactly.
func (p *Problem) Evaluate(t int) (Objectives, error) {
	probs, err := p.powCache.StateProbs(t+p.timeOffset, p.initialState)
	if err != nil {
		return Objectives{}, err
	}

	probDegraded := 1 - probs.AtVec(0)

	expectedOperational := floats.Dot(probs.RawVector().Data, p.opCosts.RawVector().Data)
	operationalAdjusted := expectedOperational * (1 + probDegraded)
	maintenanceCost := p.cost.BaseCost * math.Exp(-p.cost.DecayRate*float64(t))
	cost := operationalAdjusted + maintenanceCost

	expectedUnavailability := floats.Dot(probs.RawVector().Data, p.unavail.RawVector().Data)
	degradationPenalty := (math.Exp(2*probDegraded) - 1) * 100
	unavailability := expectedUnavailability + degradationPenalty

	if math.IsNaN(cost) || math.IsInf(cost, 0) || math.IsNaN(unavailability) || math.IsInf(unavailability, 0) {
		return Objectives{}, bmerr.ErrInfiniteObjective()
	}

	return Objectives{Cost: cost, Unavailability: unavailability}, nil
}

// EvaluateVars adapts Evaluate to the nsga.Problem capability interface,
// which operates over a float64 decision vector.
func (p *Problem) EvaluateVars(vars []float64) (cost, unavailability float64, err error) {
	t := int(math.Round(vars[0]))
	obj, err := p.Evaluate(t)
	if err != nil {
		return 0, 0, err
	}
	return obj.Cost, obj.Unavailability, nil
}
