package nsga

import (
	"context"
	"testing"
	"time"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/stretchr/testify/require"
)

// quadraticProblem is a toy two-objective problem with a known trade-off
// shape, used to exercise the solver without depending on the
// maintenance package.
type quadraticProblem struct {
	lo, hi float64
}

func (q *quadraticProblem) NumVars() int { return 1 }
func (q *quadraticProblem) Bounds() (float64, float64) { return q.lo, q.hi }
func (q *quadraticProblem) EvaluateVars(vars []float64) (float64, float64, error) {
	t := vars[0]
	f1 := t // cost increases with t
	f2 := (q.hi - t) // unavailability decreases with t
	return f1, f2, nil
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.OffspringSize = 20
	cfg.MaxEvaluations = 200
	return cfg
}

func TestSolveDeterministic(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	a, err := Solve(context.Background(), problem, cfg, 42)
	require.NoError(t, err)
	b, err := Solve(context.Background(), problem, cfg, 42)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Vars, b[i].Vars)
		require.Equal(t, a[i].Obj, b[i].Obj)
	}
}

func TestSolveFrontierMutuallyNonDominated(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	front, err := Solve(context.Background(), problem, cfg, 7)
	require.NoError(t, err)
	require.NotEmpty(t, front)

	for i := range front {
		for j := range front {
			if i == j {
				continue
			}
			require.False(t, front[i].Obj.dominates(front[j].Obj),
				"solution %d dominates %d", i, j)
		}
	}
}

func TestSolveSortedAscendingByCost(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	front, err := Solve(context.Background(), problem, cfg, 3)
	require.NoError(t, err)

	for i := 1; i < len(front); i++ {
		require.LessOrEqual(t, front[i-1].Obj.F1, front[i].Obj.F1)
	}
}

func TestSolveEmptyPopulationFails(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()
	cfg.PopulationSize = 0

	_, err := Solve(context.Background(), problem, cfg, 1)
	require.Error(t, err)
}

func TestSolveBoundaryLeadTimes(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	_, f2Lo, err := problem.EvaluateVars([]float64{1})
	require.NoError(t, err)
	require.GreaterOrEqual(t, f2Lo, 0.0)

	_, f2Hi, err := problem.EvaluateVars([]float64{3650})
	require.NoError(t, err)
	require.GreaterOrEqual(t, f2Hi, 0.0)
}

func TestSolveDifferentSeedsMayDiffer(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	a, err := Solve(context.Background(), problem, cfg, 1)
	require.NoError(t, err)
	b, err := Solve(context.Background(), problem, cfg, 2)
	require.NoError(t, err)

	// Both frontiers must independently be mutually non-dominated,
	// regardless of whether they happen to match.
	for _, front := range [][]*Solution{a, b} {
		for i := range front {
			for j := range front {
				if i == j {
					continue
				}
				require.False(t, front[i].Obj.dominates(front[j].Obj))
			}
		}
	}
}

func TestSolveRespectsCancelledContext(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Solve(ctx, problem, cfg, 1)
	require.Error(t, err)
	require.True(t, bmerr.IsKind(err, bmerr.Cancelled))
}

func TestSolveReportsTimeoutOnExpiredDeadline(t *testing.T) {
	problem := &quadraticProblem{lo: 1, hi: 3650}
	cfg := smallConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := Solve(ctx, problem, cfg, 1)
	require.Error(t, err)
	require.True(t, bmerr.IsKind(err, bmerr.Timeout))
}

func TestDeriveSeedDeterministic(t *testing.T) {
	require.Equal(t, DeriveSeed(42, "ORD-1"), DeriveSeed(42, "ORD-1"))
	require.NotEqual(t, DeriveSeed(42, "ORD-1"), DeriveSeed(42, "ORD-2"))
}
