package nsga

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/bushingplan/decisionengine/bmerr"
)

// Config holds the evolutionary-search parameters of spec §4.3/§6.
type Config struct {
	PopulationSize          int
	OffspringSize           int
	MaxEvaluations          int
	CrossoverProbability    float64
	CrossoverDistributionIx float64
	MutationDistributionIx  float64
}

// DefaultConfig returns the spec-documented defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize:          200,
		OffspringSize:           200,
		MaxEvaluations:          4000,
		CrossoverProbability:    1.0,
		CrossoverDistributionIx: 20,
		MutationDistributionIx:  20,
	}
}

// attemptBudgetFactor bounds how many discarded (NaN/Inf) evaluation
// attempts the solver tolerates per accepted individual before giving
// up on a generation, so a pathological Problem cannot spin forever.
const attemptBudgetFactor = 50

// Solve runs the generational NSGA-II loop of spec §4.3 and returns the
// final front-0 set, sorted ascending by F1 with duplicate decision
// vectors (rounded to the nearest day) collapsed.
//
// Solve is deterministic: the same seed and the same Problem produce a
// bit-identical frontier on every run (spec §4.3/§8 property 4).
//
// ctx is checked at every generation boundary (spec §5): a cancelled or
// expired ctx aborts the loop with a Cancelled or Timeout error and the
// caller gets no frontier back, rather than Solve silently running to
// completion past its budget.
func Solve(ctx context.Context, problem Problem, cfg Config, seed uint64) ([]*Solution, error) {
	if cfg.PopulationSize <= 0 {
		return nil, bmerr.ErrEmptyPopulation()
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lo, hi := problem.Bounds()
	numVars := problem.NumVars()

	population, evals, err := initPopulation(rng, problem, numVars, lo, hi, cfg.PopulationSize)
	if err != nil {
		return nil, err
	}

	fronts := fastNonDominatedSort(population)
	for _, f := range fronts {
		crowdingDistance(f)
	}

	for evals < cfg.MaxEvaluations {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}

		offspring, n, err := makeOffspring(rng, problem, population, lo, hi, cfg)
		evals += n
		if err != nil {
			return nil, err
		}

		merged := make([]*Solution, 0, len(population)+len(offspring))
		merged = append(merged, population...)
		merged = append(merged, offspring...)

		fronts = fastNonDominatedSort(merged)
		for _, f := range fronts {
			crowdingDistance(f)
		}

		population = truncate(fronts, cfg.PopulationSize)
	}

	finalFronts := fastNonDominatedSort(population)
	frontZero := finalFronts[0]

	return collapseAndSort(frontZero), nil
}

func initPopulation(rng *rand.Rand, problem Problem, numVars int, lo, hi float64, size int) ([]*Solution, int, error) {
	pop := make([]*Solution, 0, size)
	evals := 0
	maxAttempts := size * attemptBudgetFactor

	for len(pop) < size && evals < maxAttempts {
		vars := make([]float64, numVars)
		for i := range vars {
			vars[i] = lo + rng.Float64()*(hi-lo)
		}
		evals++
		if s := evaluate(problem, vars); s != nil {
			pop = append(pop, s)
		}
	}
	if len(pop) == 0 {
		return nil, evals, bmerr.ErrInfiniteObjective()
	}
	return pop, evals, nil
}

func evaluate(problem Problem, vars []float64) *Solution {
	f1, f2, err := problem.EvaluateVars(vars)
	if err != nil {
		return nil
	}
	obj := Objectives{F1: f1, F2: f2}
	if !obj.finite() {
		return nil
	}
	return &Solution{Vars: vars, Obj: obj}
}

func makeOffspring(rng *rand.Rand, problem Problem, population []*Solution, lo, hi float64, cfg Config) ([]*Solution, int, error) {
	numVars := problem.NumVars()
	pm := 1.0 / float64(numVars)

	offspring := make([]*Solution, 0, cfg.OffspringSize)
	evals := 0
	maxAttempts := cfg.OffspringSize * attemptBudgetFactor

	for len(offspring) < cfg.OffspringSize && evals < maxAttempts {
		p1 := binaryTournament(rng, population)
		p2 := binaryTournament(rng, population)

		var c1vars, c2vars []float64
		if rng.Float64() <= cfg.CrossoverProbability {
			c1vars, c2vars = sbxCrossover(rng, p1.Vars, p2.Vars, lo, hi, cfg.CrossoverDistributionIx)
		} else {
			c1vars = append([]float64(nil), p1.Vars...)
			c2vars = append([]float64(nil), p2.Vars...)
		}

		polynomialMutation(rng, c1vars, lo, hi, pm, cfg.MutationDistributionIx)
		polynomialMutation(rng, c2vars, lo, hi, pm, cfg.MutationDistributionIx)

		evals++
		if s := evaluate(problem, c1vars); s != nil {
			offspring = append(offspring, s)
		}
		if len(offspring) < cfg.OffspringSize {
			evals++
			if s := evaluate(problem, c2vars); s != nil {
				offspring = append(offspring, s)
			}
		}
	}
	if len(offspring) == 0 {
		return nil, evals, bmerr.ErrInfiniteObjective()
	}
	return offspring, evals, nil
}

// truncate selects population from the ranked fronts, preferring lower
// rank then higher crowding distance within the boundary front (spec
// §4.3).
func truncate(fronts [][]*Solution, size int) []*Solution {
	result := make([]*Solution, 0, size)
	for _, front := range fronts {
		if len(result)+len(front) <= size {
			result = append(result, front...)
			continue
		}

		remaining := size - len(result)
		sort.Slice(front, func(i, j int) bool { return front[i].Crowding > front[j].Crowding })
		result = append(result, front[:remaining]...)
		break
	}
	return result
}

func collapseAndSort(front []*Solution) []*Solution {
	byDay := make(map[int]*Solution)
	order := make([]int, 0, len(front))
	for _, s := range front {
		day := int(roundVar(s.Vars[0]))
		if existing, ok := byDay[day]; !ok || s.Obj.F1 < existing.Obj.F1 {
			if !ok {
				order = append(order, day)
			}
			byDay[day] = s
		}
	}

	result := make([]*Solution, 0, len(order))
	for _, day := range order {
		result = append(result, byDay[day])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Obj.F1 != result[j].Obj.F1 {
			return result[i].Obj.F1 < result[j].Obj.F1
		}
		return result[i].Vars[0] < result[j].Vars[0]
	})
	return result
}

// ctxErr classifies ctx's error, if any, into the engine's taxonomy: a
// deadline that has passed is a Timeout (the solver exceeded its
// budget), anything else cancelled is a plain Cancelled.
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if err == context.DeadlineExceeded {
		return bmerr.New("nsga.Solve", bmerr.Timeout, err)
	}
	return bmerr.New("nsga.Solve", bmerr.Cancelled, err)
}

func roundVar(x float64) float64 {
	if x < 0 {
		return -roundVar(-x)
	}
	return float64(int64(x + 0.5))
}
