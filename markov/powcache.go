package markov

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bushingplan/decisionengine/bmerr"
)

// PowCache memoizes powers-of-two of a transition matrix so that many
// StateProbs calls against the same Model (as the solver issues across a
// generational search) skip the repeated squarings once the needed powers
// are cached: each further evaluation only multiplies together the cached
// powers selected by the set bits of n, one O(N^3) product per bit.
type PowCache struct {
	m      *Model
	powers []*mat.Dense // powers[k] = T^(2^k)
}

// NewPowCache creates an empty cache bound to m.
func NewPowCache(m *Model) *PowCache {
	return &PowCache{m: m}
}

// StateProbs is equivalent to Model.StateProbs but reuses previously
// computed powers-of-two of the bound matrix.
func (c *PowCache) StateProbs(n, initialState int) (*mat.VecDense, error) {
	if initialState < 0 || initialState >= c.m.n {
		return nil, bmerr.New("markov.PowCache.StateProbs", bmerr.InvalidInput,
			errInitialState(initialState, c.m.n))
	}
	if n < 0 {
		return nil, bmerr.New("markov.PowCache.StateProbs", bmerr.InvalidInput, errNegativeSteps(n))
	}

	tn := c.pow(n)
	row := mat.Row(nil, initialState, tn)
	p := mat.NewVecDense(c.m.n, row)

	if err := checkProbabilityVector(p); err != nil {
		return nil, bmerr.New("markov.PowCache.StateProbs", bmerr.NumericInstability, err)
	}
	return p, nil
}

func (c *PowCache) pow(n int) *mat.Dense {
	size, _ := c.m.t.Dims()
	result := identity(size)

	bit := 0
	for n > 0 {
		if n&1 == 1 {
			power := c.powerOfTwo(bit)
			var next mat.Dense
			next.Mul(result, power)
			result = &next
		}
		n >>= 1
		bit++
	}
	return result
}

func (c *PowCache) powerOfTwo(k int) *mat.Dense {
	for len(c.powers) <= k {
		if len(c.powers) == 0 {
			c.powers = append(c.powers, mat.DenseCopyOf(c.m.t))
			continue
		}
		prev := c.powers[len(c.powers)-1]
		var sq mat.Dense
		sq.Mul(prev, prev)
		c.powers = append(c.powers, &sq)
	}
	return c.powers[k]
}
