package markov

import "fmt"

func errInvalidRate(r float64) error {
	return fmt.Errorf("rate %v outside [0,1]", r)
}

func errInitialState(state, n int) error {
	return fmt.Errorf("initial state %d out of range [0,%d)", state, n)
}

func errNegativeSteps(n int) error {
	return fmt.Errorf("negative step count %d", n)
}

func errNonFinite() error {
	return fmt.Errorf("state probability vector contains NaN or Inf")
}

func errNegativeProbability(v float64) error {
	return fmt.Errorf("state probability %v is negative beyond tolerance", v)
}

func errProbabilitySum(sum float64) error {
	return fmt.Errorf("state probabilities sum to %v, not 1", sum)
}
