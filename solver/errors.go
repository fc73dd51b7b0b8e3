package solver

import "fmt"

func errInvalidType(t Type, c Config) error {
	return fmt.Errorf("newSolver: invalid solver type %v for configuration %T", t, c)
}
