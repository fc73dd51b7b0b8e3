package pareto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleFrontier() Frontier {
	return NewFrontier([]Point{
		{T: 100, Cost: 40, Unavailability: 200},
		{T: 50, Cost: 60, Unavailability: 70},
		{T: 10, Cost: 100, Unavailability: 50},
	})
}

func TestFrontierSortedByCostAscending(t *testing.T) {
	f := sampleFrontier()
	for i := 1; i < f.Len(); i++ {
		require.LessOrEqual(t, f.At(i-1).Cost, f.At(i).Cost)
	}
}

func TestSelectMinCost(t *testing.T) {
	a := NewAnalyzer(nil)
	f := sampleFrontier()

	idx, err := a.Select(f, MinCost, DefaultWeights())
	require.NoError(t, err)
	require.Equal(t, 40.0, f.At(idx).Cost)
}

func TestSelectMinUnavailability(t *testing.T) {
	a := NewAnalyzer(nil)
	f := sampleFrontier()

	idx, err := a.Select(f, MinUnavailability, DefaultWeights())
	require.NoError(t, err)
	require.Equal(t, 50.0, f.At(idx).Unavailability)
}

func TestSelectKneePointScenarioE(t *testing.T) {
	a := NewAnalyzer(nil)
	f := NewFrontier([]Point{
		{T: 10, Cost: 100, Unavailability: 50},
		{T: 50, Cost: 60, Unavailability: 70},
		{T: 100, Cost: 40, Unavailability: 200},
	})

	idx, err := a.Select(f, KneePoint, DefaultWeights())
	require.NoError(t, err)
	require.Equal(t, 50, f.At(idx).T)
}

func TestSelectIsIdempotent(t *testing.T) {
	a := NewAnalyzer(nil)
	f := sampleFrontier()

	idx1, err := a.Select(f, KneePoint, DefaultWeights())
	require.NoError(t, err)
	idx2, err := a.Select(f, KneePoint, DefaultWeights())
	require.NoError(t, err)
	require.Equal(t, idx1, idx2)
}

func TestSelectEmptyFrontier(t *testing.T) {
	a := NewAnalyzer(nil)
	_, err := a.Select(NewFrontier(nil), MinCost, DefaultWeights())
	require.Error(t, err)
}

func TestSelectUnknownCriterion(t *testing.T) {
	a := NewAnalyzer(nil)
	_, err := a.Select(sampleFrontier(), Criterion("bogus"), DefaultWeights())
	require.Error(t, err)
}

func TestKneePointSinglePoint(t *testing.T) {
	a := NewAnalyzer(nil)
	f := NewFrontier([]Point{{T: 5, Cost: 10, Unavailability: 20}})

	idx, err := a.Select(f, KneePoint, DefaultWeights())
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestKneePointInvariantUnderAffineRescale(t *testing.T) {
	a := NewAnalyzer(nil)
	base := sampleFrontier()
	idxBase, err := a.Select(base, KneePoint, DefaultWeights())
	require.NoError(t, err)

	rescaled := NewFrontier([]Point{
		{T: 100, Cost: 40*3 + 7, Unavailability: 200*2 + 1},
		{T: 50, Cost: 60*3 + 7, Unavailability: 70*2 + 1},
		{T: 10, Cost: 100*3 + 7, Unavailability: 50*2 + 1},
	})
	idxRescaled, err := a.Select(rescaled, KneePoint, DefaultWeights())
	require.NoError(t, err)

	require.Equal(t, base.At(idxBase).T, rescaled.At(idxRescaled).T)
}

func TestHypervolumeEmpty(t *testing.T) {
	require.Equal(t, 0.0, Hypervolume(NewFrontier(nil), nil))
}

func TestHypervolumeNonNegative(t *testing.T) {
	hv := Hypervolume(sampleFrontier(), nil)
	require.GreaterOrEqual(t, hv, 0.0)
}

func TestHypervolumeSinglePoint(t *testing.T) {
	f := NewFrontier([]Point{{T: 5, Cost: 10, Unavailability: 20}})
	hv := Hypervolume(f, nil)
	require.Greater(t, hv, 0.0)
}

func TestHypervolumeMonotoneWithDominatingPoint(t *testing.T) {
	ref := &Point{Cost: 200, Unavailability: 400}
	before := Hypervolume(sampleFrontier(), ref)

	withExtra := NewFrontier([]Point{
		{T: 100, Cost: 40, Unavailability: 200},
		{T: 50, Cost: 60, Unavailability: 70},
		{T: 10, Cost: 100, Unavailability: 50},
		{T: 5, Cost: 5, Unavailability: 5}, // dominates everything
	})
	after := Hypervolume(withExtra, ref)

	require.GreaterOrEqual(t, after, before)
}

func TestFilter(t *testing.T) {
	f := sampleFrontier()
	maxCost := 70.0
	sub := f.Filter(FilterConstraints{MaxCost: &maxCost})
	for i := 0; i < sub.Len(); i++ {
		require.LessOrEqual(t, sub.At(i).Cost, maxCost)
	}
}
