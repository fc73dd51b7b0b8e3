// Package batch drives the optimization of many bushing orders
// concurrently: one NSGA-II run per order, a reproducible per-order
// seed, and a deterministic final ordering regardless of how the
// worker pool interleaves (spec §5 Concurrency & Resource Model). The
// fan-out/fan-in shape follows the errgroup.WithContext
// usage for concurrent, cancellable workers (server/fastview/client.go
// Sync in the niceyeti-tabular example repo).
package batch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bushingplan/decisionengine/bmerr"
	"github.com/bushingplan/decisionengine/maintenance"
	"github.com/bushingplan/decisionengine/nsga"
	"github.com/bushingplan/decisionengine/pareto"
	"github.com/bushingplan/decisionengine/storage"
	"github.com/bushingplan/decisionengine/telemetry"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config controls how a batch run solves and selects each order's
// schedule.
type Config struct {
	MasterSeed     uint64
	NSGA           nsga.Config
	Bounds         [2]int
	Cost           maintenance.CostParams
	Criterion      pareto.Criterion
	Weights        pareto.Weights
	MaxConcurrency int
	OrderTimeout   time.Duration // zero disables the per-order timeout
}

// result is one order's outcome, carried back to the fan-in stage
// before sorting and sink writes so the ranking step never depends on
// completion order.
type result struct {
	order    maintenance.Order
	schedule storage.Schedule
	frontier pareto.Frontier
	err      error
	partial  bool
}

// Run optimizes every order from source and writes the resulting
// schedules (ranked by ascending cost) and frontiers to sink. A
// per-order failure does not abort the batch; it is recorded with
// Partial=true and zero-value cost/unavailability so operators can see
// which orders need a manual look, while every other order still gets
// a schedule.
func Run(ctx context.Context, source storage.OrderSource, scheduleSink storage.ScheduleSink,
	frontierSink storage.FrontierSink, cfg Config, sink telemetry.Sink) ([]storage.Schedule, error) {
	if sink == nil {
		sink = telemetry.Noop{}
	}
	runID := uuid.New().String()

	orders, err := source.Orders(ctx)
	if err != nil {
		return nil, bmerr.New("batch.Run", bmerr.InvalidInput, err)
	}
	sink.Info("batch.run.started", "run_id", runID, "orders", len(orders))

	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = len(orders)
		if concurrency == 0 {
			concurrency = 1
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	results := make([]result, len(orders))
	var mu sync.Mutex

	for i, order := range orders {
		i, order := i, order
		group.Go(func() error {
			r := solveOrder(groupCtx, order, cfg, sink)
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil // per-order failures are recorded, not propagated
		})
	}
	if err := group.Wait(); err != nil {
		return nil, bmerr.New("batch.Run", bmerr.Cancelled, err)
	}

	schedules := make([]storage.Schedule, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			sink.Warn("batch.order.failed", "order_id", r.order.ID, "error", r.err.Error())
			schedules = append(schedules, storage.Schedule{OrderID: r.order.ID, Partial: true})
			continue
		}
		schedules = append(schedules, r.schedule)
		if frontierSink != nil {
			if err := frontierSink.PutFrontier(ctx, r.order.ID, r.frontier); err != nil {
				return nil, bmerr.New("batch.Run", bmerr.InvalidInput, err)
			}
		}
	}

	rankSchedules(schedules)
	sink.Info("batch.run.finished", "run_id", runID, "schedules", len(schedules))

	if scheduleSink != nil {
		if err := scheduleSink.PutSchedules(ctx, schedules); err != nil {
			return nil, bmerr.New("batch.Run", bmerr.InvalidInput, err)
		}
	}
	return schedules, nil
}

func solveOrder(ctx context.Context, order maintenance.Order, cfg Config, sink telemetry.Sink) result {
	if err := maintenance.Validate(&order); err != nil {
		return result{order: order, err: err}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if cfg.OrderTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.OrderTimeout)
		defer cancel()
	}
	if err := runCtx.Err(); err != nil {
		kind := bmerr.Cancelled
		if err == context.DeadlineExceeded {
			kind = bmerr.Timeout
		}
		return result{order: order, err: bmerr.New("batch.solveOrder", kind, err), partial: true}
	}

	problem, err := maintenance.NewFromOrder(&order, cfg.Bounds, cfg.Cost)
	if err != nil {
		return result{order: order, err: err}
	}

	seed := nsga.DeriveSeed(cfg.MasterSeed, order.ID)
	solutions, err := nsga.Solve(runCtx, problem, cfg.NSGA, seed)
	if err != nil {
		partial := bmerr.IsKind(err, bmerr.Timeout) || bmerr.IsKind(err, bmerr.Cancelled)
		return result{order: order, err: err, partial: partial}
	}

	points := make([]pareto.Point, len(solutions))
	for i, s := range solutions {
		points[i] = pareto.Point{T: int(s.Vars[0] + 0.5), Cost: s.Obj.F1, Unavailability: s.Obj.F2}
	}
	frontier := pareto.NewFrontier(points)

	analyzer := pareto.NewAnalyzer(sink)
	idx, err := analyzer.Select(frontier, cfg.Criterion, cfg.Weights)
	if err != nil {
		return result{order: order, err: err}
	}
	chosen := frontier.At(idx)

	return result{
		order:    order,
		frontier: frontier,
		schedule: storage.Schedule{
			OrderID:         order.ID,
			ScheduledDate:   scheduledDate(chosen.T, order.TimeOffsetDays),
			LeadTimeDays:    chosen.T,
			Cost:            chosen.Cost,
			Unavailability:  chosen.Unavailability,
			FrontierPointID: idx,
		},
	}
}

// scheduledDate implements spec §4.6's `today + chosen.t - time_offset`:
// the chosen lead time projected forward from today, pulled back by
// however many days have already elapsed since the order's measurement.
// today is truncated to a calendar date, since the result is a date, not
// a timestamp.
func scheduledDate(leadTimeDays, timeOffsetDays int) time.Time {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, leadTimeDays-timeOffsetDays)
}

// rankSchedules assigns Rank in ascending-cost order, non-partial
// schedules first (spec §9: rank 1 is the order whose recommended
// maintenance costs least). Ties break on OrderID so the ranking is
// stable regardless of worker interleaving.
func rankSchedules(schedules []storage.Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if a.Partial != b.Partial {
			return !a.Partial
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.OrderID < b.OrderID
	})
	for i := range schedules {
		schedules[i].Rank = i + 1
	}
}
