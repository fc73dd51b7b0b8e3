package nsga

import (
	"math"
	"math/rand/v2"
)

// sbxCrossover applies simulated-binary-style crossover to a pair of
// single-variable parents, distribution index eta, bounded to [lo, hi]
// (spec §4.3). It always produces two children; callers gate the call
// itself on the crossover probability.
func sbxCrossover(rng *rand.Rand, p1, p2 []float64, lo, hi, eta float64) (c1, c2 []float64) {
	n := len(p1)
	c1 = make([]float64, n)
	c2 = make([]float64, n)

	for i := 0; i < n; i++ {
		x1, x2 := p1[i], p2[i]
		if rng.Float64() <= 0.5 && math.Abs(x1-x2) > 1e-14 {
			if x1 > x2 {
				x1, x2 = x2, x1
			}

			u := rng.Float64()
			beta := sbxBeta(u, eta)

			child1 := 0.5 * ((x1 + x2) - beta*(x2-x1))
			child2 := 0.5 * ((x1 + x2) + beta*(x2-x1))

			c1[i] = clamp(child1, lo, hi)
			c2[i] = clamp(child2, lo, hi)
		} else {
			c1[i] = p1[i]
			c2[i] = p2[i]
		}
	}
	return c1, c2
}

func sbxBeta(u, eta float64) float64 {
	var beta float64
	if u <= 0.5 {
		beta = math.Pow(2*u, 1/(eta+1))
	} else {
		beta = math.Pow(1/(2*(1-u)), 1/(eta+1))
	}
	return beta
}

// polynomialMutation perturbs each variable with probability pm,
// distribution index eta, bounded to [lo, hi] (spec §4.3).
func polynomialMutation(rng *rand.Rand, vars []float64, lo, hi, pm, eta float64) {
	for i := range vars {
		if rng.Float64() > pm {
			continue
		}

		x := vars[i]
		delta1 := (x - lo) / (hi - lo)
		delta2 := (hi - x) / (hi - lo)
		u := rng.Float64()

		var deltaq float64
		mutPow := 1 / (eta + 1)
		if u <= 0.5 {
			xy := 1 - delta1
			val := 2*u + (1-2*u)*math.Pow(xy, eta+1)
			deltaq = math.Pow(val, mutPow) - 1
		} else {
			xy := 1 - delta2
			val := 2*(1-u) + 2*(u-0.5)*math.Pow(xy, eta+1)
			deltaq = 1 - math.Pow(val, mutPow)
		}

		vars[i] = clamp(x+deltaq*(hi-lo), lo, hi)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// binaryTournament picks the better of two random individuals by rank
// then crowding distance (spec §4.3).
func binaryTournament(rng *rand.Rand, pop []*Solution) *Solution {
	a := pop[rng.IntN(len(pop))]
	b := pop[rng.IntN(len(pop))]
	return betterByRankThenCrowding(a, b)
}

func betterByRankThenCrowding(a, b *Solution) *Solution {
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return a
		}
		return b
	}
	if a.Crowding > b.Crowding {
		return a
	}
	return b
}
