// Package markov builds the bi-diagonal absorbing transition matrix that
// models bushing degradation and exposes n-step state probabilities,
// mean-time-to-failure, stationary distribution, and Monte-Carlo
// trajectories over it.
package markov

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/bushingplan/decisionengine/bmerr"
)

// StationaryTolerance is the power-iteration convergence tolerance used
// by Stationary.
const StationaryTolerance = 1e-10

// StationaryMaxIterations bounds the power iteration in Stationary.
const StationaryMaxIterations = 10000

// ProbabilityTolerance is the tolerance state probability vectors are
// allowed to deviate from summing to 1.
const ProbabilityTolerance = 1e-9

// Model is a bi-diagonal absorbing Markov chain over N health states,
// state N-1 ("Failure") being absorbing. It owns its transition matrix
// exclusively; nothing else mutates it after Build.
type Model struct {
	n int
	t *mat.Dense // row-stochastic N x N transition matrix
}

// Build constructs the transition matrix from per-stage degradation
// rates λ₀..λ_{N-2}. T[i,i] = 1-λᵢ, T[i,i+1] = λᵢ, and the final row is
// [0 ... 0 1]. It fails with InvalidInput if any rate lies outside
// [0,1].
func Build(rates []float64) (*Model, error) {
	for _, r := range rates {
		if math.IsNaN(r) || r < 0 || r > 1 {
			return nil, bmerr.New("markov.Build", bmerr.InvalidInput,
				errInvalidRate(r))
		}
	}

	n := len(rates) + 1
	t := mat.NewDense(n, n, nil)
	for i, lambda := range rates {
		t.Set(i, i, 1-lambda)
		t.Set(i, i+1, lambda)
	}
	t.Set(n-1, n-1, 1)

	return &Model{n: n, t: t}, nil
}

// N returns the number of health states.
func (m *Model) N() int { return m.n }

// Matrix returns the underlying row-stochastic transition matrix. The
// caller must not mutate it.
func (m *Model) Matrix() *mat.Dense { return m.t }

// Rate returns λᵢ, the transition rate out of state i, by reading
// T[i,i+1] back out of the built matrix (round-trip per spec §8).
func (m *Model) Rate(i int) float64 {
	if i < 0 || i >= m.n-1 {
		return 0
	}
	return m.t.At(i, i+1)
}

// pow computes T^n by repeated squaring, O(N^3 log n).
func pow(t *mat.Dense, n int) *mat.Dense {
	size, _ := t.Dims()
	result := identity(size)
	base := mat.DenseCopyOf(t)

	for n > 0 {
		if n&1 == 1 {
			var next mat.Dense
			next.Mul(result, base)
			result = &next
		}
		n >>= 1
		if n > 0 {
			var sq mat.Dense
			sq.Mul(base, base)
			base = &sq
		}
	}
	return result
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// StateProbs returns e_initialState · T^n as a probability vector:
// non-negative and summing to 1 within ProbabilityTolerance.
func (m *Model) StateProbs(n, initialState int) (*mat.VecDense, error) {
	if initialState < 0 || initialState >= m.n {
		return nil, bmerr.New("markov.StateProbs", bmerr.InvalidInput,
			errInitialState(initialState, m.n))
	}
	if n < 0 {
		return nil, bmerr.New("markov.StateProbs", bmerr.InvalidInput, errNegativeSteps(n))
	}

	tn := pow(m.t, n)

	row := mat.Row(nil, initialState, tn)
	p := mat.NewVecDense(m.n, row)

	if err := checkProbabilityVector(p); err != nil {
		return nil, bmerr.New("markov.StateProbs", bmerr.NumericInstability, err)
	}
	return p, nil
}

// MTTF computes the mean time to failure from initialState as
// sum(row_initialState of (I-Q)^-1), where Q is the sub-matrix over
// transient states. Returns NonTransient if (I-Q) is singular.
func (m *Model) MTTF(initialState int) (float64, error) {
	if initialState < 0 || initialState >= m.n-1 {
		return 0, bmerr.New("markov.MTTF", bmerr.InvalidInput,
			errInitialState(initialState, m.n-1))
	}

	transient := m.n - 1
	q := mat.NewDense(transient, transient, nil)
	for i := 0; i < transient; i++ {
		for j := 0; j < transient; j++ {
			q.Set(i, j, m.t.At(i, j))
		}
	}

	iMinusQ := mat.NewDense(transient, transient, nil)
	iMinusQ.Sub(identity(transient), q)

	var fundamental mat.Dense
	if err := fundamental.Inverse(iMinusQ); err != nil {
		return 0, bmerr.ErrNonTransient()
	}

	var total float64
	for j := 0; j < transient; j++ {
		total += fundamental.At(initialState, j)
	}
	return total, nil
}

// Stationary computes the stationary distribution by power iteration,
// converging within StationaryTolerance or StationaryMaxIterations.
func (m *Model) Stationary() *mat.VecDense {
	state := mat.NewVecDense(m.n, nil)
	for i := 0; i < m.n; i++ {
		state.SetVec(i, 1.0/float64(m.n))
	}

	for iter := 0; iter < StationaryMaxIterations; iter++ {
		var next mat.VecDense
		next.MulVec(m.t.T(), state)

		if closeEnough(state, &next, StationaryTolerance) {
			return &next
		}
		state = &next
	}
	return state
}

func closeEnough(a, b *mat.VecDense, tol float64) bool {
	n := a.Len()
	for i := 0; i < n; i++ {
		if math.Abs(a.AtVec(i)-b.AtVec(i)) > tol {
			return false
		}
	}
	return true
}

func checkProbabilityVector(p *mat.VecDense) error {
	var sum float64
	for i := 0; i < p.Len(); i++ {
		v := p.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFinite()
		}
		if v < -ProbabilityTolerance {
			return errNegativeProbability(v)
		}
		sum += v
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return errProbabilitySum(sum)
	}
	return nil
}

// SimulateTrajectory runs nSimulations independent Monte-Carlo
// trajectories of nCycles steps from initialState, stopping early on
// absorption into Failure. It is a diagnostic aid only: the solver and
// Problem always use the closed-form StateProbs, never this.
func (m *Model) SimulateTrajectory(nCycles, initialState, nSimulations int, rng *rand.Rand) (finalStates []int, distribution map[int]float64) {
	finalStates = make([]int, 0, nSimulations)

	for s := 0; s < nSimulations; s++ {
		current := initialState
		for step := 0; step < nCycles; step++ {
			current = m.sampleNext(current, rng)
			if current == m.n-1 {
				break
			}
		}
		finalStates = append(finalStates, current)
	}

	distribution = make(map[int]float64)
	for _, st := range finalStates {
		distribution[st]++
	}
	for st := range distribution {
		distribution[st] /= float64(nSimulations)
	}
	return finalStates, distribution
}

func (m *Model) sampleNext(current int, rng *rand.Rand) int {
	u := rng.Float64()
	var cum float64
	for j := 0; j < m.n; j++ {
		cum += m.t.At(current, j)
		if u <= cum {
			return j
		}
	}
	return m.n - 1
}
