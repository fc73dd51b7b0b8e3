package batch

import (
	"context"
	"testing"
	"time"

	"github.com/bushingplan/decisionengine/maintenance"
	"github.com/bushingplan/decisionengine/nsga"
	"github.com/bushingplan/decisionengine/pareto"
	"github.com/bushingplan/decisionengine/storage"
	"github.com/stretchr/testify/require"
)

func sampleOrder(id string, currentState int) maintenance.Order {
	return maintenance.Order{
		ID:                id,
		Kind:              maintenance.KindDGA,
		CurrentState:      currentState,
		Rates:             []float64{0.01, 0.02, 0.03, 0.04},
		OperationalCosts:  []float64{0, 10, 50, 200, 2000},
		Unavailabilities:  []float64{0, 2, 10, 48, 96},
		TimeOffsetDays:    0,
	}
}

func smallConfig() Config {
	cfg := Config{
		MasterSeed: 42,
		NSGA:       nsga.DefaultConfig(),
		Bounds:     [2]int{1, 3650},
		Cost:       maintenance.DefaultCostParams(),
		Criterion:  pareto.MinCost,
		Weights:    pareto.DefaultWeights(),
	}
	cfg.NSGA.PopulationSize = 20
	cfg.NSGA.OffspringSize = 20
	cfg.NSGA.MaxEvaluations = 200
	return cfg
}

func TestRunProducesRankedSchedules(t *testing.T) {
	orders := []maintenance.Order{sampleOrder("A", 0), sampleOrder("B", 1)}
	source := storage.NewMemory(orders)
	mem := storage.NewMemory(nil)

	schedules, err := Run(context.Background(), source, mem, mem, smallConfig(), nil)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	require.Equal(t, 1, schedules[0].Rank)
	require.Equal(t, 2, schedules[1].Rank)
	require.LessOrEqual(t, schedules[0].Cost, schedules[1].Cost)

	for _, o := range orders {
		_, ok := mem.Frontier(o.ID)
		require.True(t, ok)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, s := range schedules {
		require.Equal(t, today.AddDate(0, 0, s.LeadTimeDays), s.ScheduledDate)
	}
}

func TestSolveOrderScheduledDateSubtractsTimeOffset(t *testing.T) {
	order := sampleOrder("A", 0)
	order.TimeOffsetDays = 10

	r := solveOrder(context.Background(), order, smallConfig(), nil)
	require.NoError(t, r.err)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.Equal(t, today.AddDate(0, 0, r.schedule.LeadTimeDays-10), r.schedule.ScheduledDate)
}

func TestRunMarksTimedOutOrderPartial(t *testing.T) {
	order := sampleOrder("A", 0)
	source := storage.NewMemory([]maintenance.Order{order})
	mem := storage.NewMemory(nil)

	cfg := smallConfig()
	cfg.OrderTimeout = time.Nanosecond

	schedules, err := Run(context.Background(), source, mem, mem, cfg, nil)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.True(t, schedules[0].Partial)
}

func TestRunMarksInvalidOrderPartialWithoutAbortingOthers(t *testing.T) {
	good := sampleOrder("good", 0)
	bad := sampleOrder("bad", 0)
	bad.Rates = []float64{2.0} // invalid: out of [0,1] and wrong length

	source := storage.NewMemory([]maintenance.Order{good, bad})
	mem := storage.NewMemory(nil)

	schedules, err := Run(context.Background(), source, mem, mem, smallConfig(), nil)
	require.NoError(t, err)
	require.Len(t, schedules, 2)

	var sawPartial, sawGood bool
	for _, s := range schedules {
		if s.Partial {
			sawPartial = true
		}
		if s.OrderID == "good" && !s.Partial {
			sawGood = true
		}
	}
	require.True(t, sawPartial)
	require.True(t, sawGood)
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	orders := []maintenance.Order{sampleOrder("A", 0), sampleOrder("B", 2)}

	run := func() []storage.Schedule {
		source := storage.NewMemory(orders)
		mem := storage.NewMemory(nil)
		schedules, err := Run(context.Background(), source, mem, mem, smallConfig(), nil)
		require.NoError(t, err)
		return schedules
	}

	first := run()
	second := run()
	require.Equal(t, first, second)
}

func TestRunRespectsCancelledContext(t *testing.T) {
	source := storage.NewMemory([]maintenance.Order{sampleOrder("A", 0)})
	mem := storage.NewMemory(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, source, mem, mem, smallConfig(), nil)
	require.Error(t, err)
}
