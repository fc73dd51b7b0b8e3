package maintenance

import "fmt"

func errVectorLength(n, opLen, unavailLen int) error {
	return fmt.Errorf("expected vectors of length %d, got operational_costs=%d unavailabilities=%d", n, opLen, unavailLen)
}

func errNegativeValue(what string, v float64) error {
	return fmt.Errorf("%s %v is negative", what, v)
}

func errOutOfRange(what string, v float64) error {
	return fmt.Errorf("%s %v is out of range", what, v)
}

func errEmptyID() error {
	return fmt.Errorf("order id is empty")
}
