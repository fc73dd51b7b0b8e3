package maintenance

import (
	"github.com/bushingplan/decisionengine/bmerr"
)

// Validate checks an Order's invariants (spec §3): vectors aligned to
// the state count, all non-negative, rates in [0,1], current state in
// range. It is the InvalidInput boundary check the batch driver runs
// before constructing a Problem.
func Validate(o *Order) error {
	n := o.NStates()

	if len(o.OperationalCosts) != n {
		return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
			errVectorLength(n, len(o.OperationalCosts), len(o.Unavailabilities)))
	}
	if len(o.Unavailabilities) != n {
		return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
			errVectorLength(n, len(o.OperationalCosts), len(o.Unavailabilities)))
	}
	if o.CurrentState < 0 || o.CurrentState >= n {
		return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
			errOutOfRange("current state", float64(o.CurrentState)))
	}
	for _, r := range o.Rates {
		if r < 0 || r > 1 {
			return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
				errOutOfRange("rate", r))
		}
	}
	for _, v := range o.OperationalCosts {
		if v < 0 {
			return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
				errNegativeValue("operational cost", v))
		}
	}
	for _, v := range o.Unavailabilities {
		if v < 0 {
			return bmerr.New("maintenance.Validate", bmerr.InvalidInput,
				errNegativeValue("unavailability", v))
		}
	}
	if o.ID == "" {
		return bmerr.New("maintenance.Validate", bmerr.InvalidInput, errEmptyID())
	}
	return nil
}
