package storage

import (
	"context"
	"testing"

	"github.com/bushingplan/decisionengine/maintenance"
	"github.com/bushingplan/decisionengine/pareto"
	"github.com/stretchr/testify/require"
)

func TestMemoryOrdersRoundTrip(t *testing.T) {
	orders := []maintenance.Order{{ID: "A"}, {ID: "B"}}
	mem := NewMemory(orders)

	got, err := mem.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	got[0].ID = "mutated"
	again, err := mem.Orders(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A", again[0].ID)
}

func TestMemoryPutSchedulesAccumulates(t *testing.T) {
	mem := NewMemory(nil)
	require.NoError(t, mem.PutSchedules(context.Background(), []Schedule{{OrderID: "A"}}))
	require.NoError(t, mem.PutSchedules(context.Background(), []Schedule{{OrderID: "B"}}))
	require.Len(t, mem.Schedules(), 2)
}

func TestMemoryPutFrontier(t *testing.T) {
	mem := NewMemory(nil)
	f := pareto.NewFrontier([]pareto.Point{{T: 10, Cost: 5, Unavailability: 1}})
	require.NoError(t, mem.PutFrontier(context.Background(), "A", f))

	got, ok := mem.Frontier("A")
	require.True(t, ok)
	require.Equal(t, 1, got.Len())

	_, ok = mem.Frontier("missing")
	require.False(t, ok)
}

func TestMemoryRespectsCancelledContext(t *testing.T) {
	mem := NewMemory(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mem.Orders(ctx)
	require.Error(t, err)
}
