package maintenance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var defaultBounds = [2]int{1, 3650}

func TestEvaluateScenarioB_NoDegradation(t *testing.T) {
	rates := []float64{0, 0, 0, 0}
	costs := []float64{10, 20, 30, 40, 1000}
	unavail := []float64{2, 4, 8, 16, 48}

	p, err := New(rates, costs, unavail, 0, 0, defaultBounds, DefaultCostParams())
	require.NoError(t, err)

	obj1, err := p.Evaluate(1)
	require.NoError(t, err)
	require.InDelta(t, 10+500*math.Exp(-0.05), obj1.Cost, 1e-6)
	require.InDelta(t, 2.0, obj1.Unavailability, 1e-9)

	obj3650, err := p.Evaluate(3650)
	require.NoError(t, err)
	require.InDelta(t, 10+500*math.Exp(-182.5), obj3650.Cost, 1e-6)
	require.InDelta(t, 2.0, obj3650.Unavailability, 1e-9)
}

func TestEvaluateScenarioC_AbsorbingStart(t *testing.T) {
	rates := []float64{0.01, 0.02, 0.03, 0.04}
	costs := []float64{10, 20, 30, 40, 1000}
	unavail := []float64{2, 4, 8, 16, 48}

	p, err := New(rates, costs, unavail, 0, 4, defaultBounds, DefaultCostParams())
	require.NoError(t, err)

	for _, t64 := range []int{1, 10, 100, 3650} {
		obj, err := p.Evaluate(t64)
		require.NoError(t, err)
		wantCost := 2000 + 500*math.Exp(-0.05*float64(t64))
		wantUnavail := 48 + (math.Exp(2)-1)*100
		require.InDelta(t, wantCost, obj.Cost, 1e-6)
		require.InDelta(t, wantUnavail, obj.Unavailability, 1e-6)
	}
}

func TestEvaluateMonotoneDecreasingCostWhenNoDegradation(t *testing.T) {
	rates := []float64{0, 0, 0, 0}
	costs := []float64{10, 20, 30, 40, 1000}
	unavail := []float64{2, 4, 8, 16, 48}

	p, err := New(rates, costs, unavail, 0, 0, defaultBounds, DefaultCostParams())
	require.NoError(t, err)

	prev := math.Inf(1)
	for _, t64 := range []int{1, 10, 100, 1000, 3650} {
		obj, err := p.Evaluate(t64)
		require.NoError(t, err)
		require.Less(t, obj.Cost, prev)
		prev = obj.Cost
	}
}

func TestEvaluateNonNegative(t *testing.T) {
	rates := []float64{0.01, 0.02, 0.03, 0.04}
	costs := []float64{10, 20, 30, 40, 1000}
	unavail := []float64{2, 4, 8, 16, 48}

	p, err := New(rates, costs, unavail, 0, 0, defaultBounds, DefaultCostParams())
	require.NoError(t, err)

	for _, t64 := range []int{1, 365, 1825, 3650} {
		obj, err := p.Evaluate(t64)
		require.NoError(t, err)
		require.GreaterOrEqual(t, obj.Cost, 0.0)
		require.GreaterOrEqual(t, obj.Unavailability, 0.0)
	}
}

func TestNewRejectsMismatchedVectors(t *testing.T) {
	_, err := New([]float64{0.1, 0.2}, []float64{1, 2}, []float64{1, 2, 3}, 0, 0, defaultBounds, DefaultCostParams())
	require.Error(t, err)
}

func TestNewFromOrderUsesCurrentState(t *testing.T) {
	o := &Order{
		ID:               "ORD-7",
		CurrentState:     4,
		Rates:            []float64{0.01, 0.02, 0.03, 0.04},
		OperationalCosts: []float64{10, 20, 30, 40, 1000},
		Unavailabilities: []float64{2, 4, 8, 16, 48},
	}
	require.NoError(t, Validate(o))

	p, err := NewFromOrder(o, defaultBounds, DefaultCostParams())
	require.NoError(t, err)

	obj, err := p.Evaluate(100)
	require.NoError(t, err)
	require.InDelta(t, 2000+500*math.Exp(-5), obj.Cost, 1e-6)
}

func TestValidateOrder(t *testing.T) {
	o := &Order{
		ID:               "ORD-1",
		CurrentState:     0,
		Rates:            []float64{0.1, 0.2},
		OperationalCosts: []float64{1, 2, 3},
		Unavailabilities: []float64{1, 2, 3},
	}
	require.NoError(t, Validate(o))

	bad := *o
	bad.Rates = []float64{1.5, 0.2}
	require.Error(t, Validate(&bad))
}
