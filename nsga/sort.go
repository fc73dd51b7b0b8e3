package nsga

import (
	"math"
	"sort"
)

// fastNonDominatedSort assigns a 0-based Rank to every solution using
// the standard O(mu^2 * m) comparison sort (spec §4.3; acceptable given
// mu <= 256 per spec §9). It returns solutions grouped by front.
func fastNonDominatedSort(pop []*Solution) [][]*Solution {
	n := len(pop)
	dominationCount := make([]int, n)
	dominates := make([][]int, n)

	var fronts [][]*Solution
	front0 := []*Solution{}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pop[i].Obj.dominates(pop[j].Obj) {
				dominates[i] = append(dominates[i], j)
			} else if pop[j].Obj.dominates(pop[i].Obj) {
				dominationCount[i]++
			}
		}
		if dominationCount[i] == 0 {
			pop[i].Rank = 0
			front0 = append(front0, pop[i])
		}
	}
	fronts = append(fronts, front0)

	idxOf := make(map[*Solution]int, n)
	for i, s := range pop {
		idxOf[s] = i
	}

	current := front0
	rank := 0
	for len(current) > 0 {
		next := []*Solution{}
		for _, s := range current {
			i := idxOf[s]
			for _, j := range dominates[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					pop[j].Rank = rank + 1
					next = append(next, pop[j])
				}
			}
		}
		rank++
		if len(next) > 0 {
			fronts = append(fronts, next)
		}
		current = next
	}

	return fronts
}

// crowdingDistance computes the density proxy used to diversify a
// front (spec §4.3): boundary solutions get infinite distance, interior
// solutions get the sum over objectives of normalised neighbour span.
func crowdingDistance(front []*Solution) {
	n := len(front)
	if n == 0 {
		return
	}
	for _, s := range front {
		s.Crowding = 0
	}
	if n <= 2 {
		for _, s := range front {
			s.Crowding = math.Inf(1)
		}
		return
	}

	assign := func(get func(*Solution) float64) {
		sort.Slice(front, func(i, j int) bool { return get(front[i]) < get(front[j]) })

		minV, maxV := get(front[0]), get(front[n-1])
		front[0].Crowding = math.Inf(1)
		front[n-1].Crowding = math.Inf(1)

		span := maxV - minV
		if span == 0 {
			return
		}
		for i := 1; i < n-1; i++ {
			front[i].Crowding += (get(front[i+1]) - get(front[i-1])) / span
		}
	}

	assign(func(s *Solution) float64 { return s.Obj.F1 })
	assign(func(s *Solution) float64 { return s.Obj.F2 })
}
