package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/bushingplan/decisionengine/batch"
	"github.com/bushingplan/decisionengine/maintenance"
	"github.com/bushingplan/decisionengine/nsga"
	"github.com/bushingplan/decisionengine/pareto"
	"github.com/bushingplan/decisionengine/storage"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var ordersPath, outPath, criterion string
	var seed uint64
	var concurrency int

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Optimize maintenance lead times for a batch of orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sink, err := loadConfig()
			if err != nil {
				return err
			}

			orders, err := readOrders(ordersPath)
			if err != nil {
				return err
			}

			nsgaCfg := nsga.Config{
				PopulationSize:          cfg.NSGA.PopulationSize,
				OffspringSize:           cfg.NSGA.OffspringSize,
				MaxEvaluations:          cfg.NSGA.MaxEvaluations,
				CrossoverProbability:    cfg.NSGA.CrossoverProbability,
				CrossoverDistributionIx: cfg.NSGA.CrossoverDistributionIx,
				MutationDistributionIx:  cfg.NSGA.MutationDistributionIx,
			}
			batchCfg := batch.Config{
				MasterSeed:     seed,
				NSGA:           nsgaCfg,
				Bounds:         [2]int{cfg.Problem.TimeBoundsLow, cfg.Problem.TimeBoundsHigh},
				Cost:           maintenance.CostParams{BaseCost: cfg.Problem.BaseCost, DecayRate: cfg.Problem.DecayRate},
				Criterion:      pareto.Criterion(criterion),
				Weights:        pareto.DefaultWeights(),
				MaxConcurrency: concurrency,
			}

			source := storage.NewMemory(orders)
			sink2 := storage.NewMemory(nil)

			schedules, err := batch.Run(context.Background(), source, sink2, sink2, batchCfg, sink)
			if err != nil {
				return err
			}
			return writeSchedules(outPath, schedules)
		},
	}

	cmd.Flags().StringVar(&ordersPath, "orders", "", "path to a JSON file listing maintenance orders")
	cmd.Flags().StringVar(&outPath, "out", "-", "path to write the ranked schedule JSON to (- for stdout)")
	cmd.Flags().StringVar(&criterion, "criterion", "min_cost", "pareto selection criterion: min_cost, min_unavailability, balanced, knee_point")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "master RNG seed; per-order sub-seeds derive from this")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent order solves (0 = one per order)")
	cmd.MarkFlagRequired("orders")
	return cmd
}

func readOrders(path string) ([]maintenance.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var orders []maintenance.Order
	if err := json.NewDecoder(f).Decode(&orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := maintenance.Validate(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func writeSchedules(path string, schedules []storage.Schedule) error {
	w := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(schedules)
}
