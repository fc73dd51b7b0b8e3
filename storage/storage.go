// Package storage defines the narrow, read/write interfaces the batch
// driver uses to pull orders in and push schedules and frontiers back
// out, plus an in-memory reference implementation for tests and the
// CLI's file-backed mode (spec §4.8 External Interfaces).
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bushingplan/decisionengine/maintenance"
	"github.com/bushingplan/decisionengine/pareto"
)

// OrderSource yields the bushing orders a batch run should optimize.
type OrderSource interface {
	Orders(ctx context.Context) ([]maintenance.Order, error)
}

// Schedule is one order's recommended maintenance lead time.
type Schedule struct {
	OrderID         string
	ScheduledDate   time.Time // today + LeadTimeDays - the order's time offset (spec §4.6/§6)
	LeadTimeDays    int
	Cost            float64
	Unavailability  float64
	Rank            int
	Partial         bool
	FrontierPointID int
}

// ScheduleSink receives the batch run's per-order schedule decisions.
type ScheduleSink interface {
	PutSchedules(ctx context.Context, schedules []Schedule) error
}

// FrontierSink receives each order's full Pareto frontier, kept
// separately from the single chosen Schedule so downstream tooling can
// re-run selection with a different criterion without re-solving.
type FrontierSink interface {
	PutFrontier(ctx context.Context, orderID string, frontier pareto.Frontier) error
}

// Memory is an in-memory OrderSource/ScheduleSink/FrontierSink used by
// tests and by the CLI when no external store is configured. Reads and
// writes are mutex-guarded, so a Memory is safe for concurrent use;
// batch.Run itself writes schedules and frontiers from a single
// goroutine once every order has been solved.
type Memory struct {
	mu         sync.Mutex
	orders     []maintenance.Order
	schedules  []Schedule
	frontiers  map[string]pareto.Frontier
}

// NewMemory builds an in-memory store seeded with orders.
func NewMemory(orders []maintenance.Order) *Memory {
	return &Memory{orders: orders, frontiers: make(map[string]pareto.Frontier)}
}

func (m *Memory) Orders(ctx context.Context) ([]maintenance.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]maintenance.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *Memory) PutSchedules(ctx context.Context, schedules []Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = append(m.schedules, schedules...)
	return nil
}

func (m *Memory) PutFrontier(ctx context.Context, orderID string, frontier pareto.Frontier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frontiers[orderID] = frontier
	return nil
}

// Schedules returns a snapshot of everything written so far.
func (m *Memory) Schedules() []Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Schedule, len(m.schedules))
	copy(out, m.schedules)
	return out
}

// Frontier returns the stored frontier for orderID, if any.
func (m *Memory) Frontier(orderID string) (pareto.Frontier, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.frontiers[orderID]
	return f, ok
}
