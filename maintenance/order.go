// Package maintenance wraps a Markov degradation model with per-state
// cost and unavailability vectors and evaluates candidate maintenance
// lead-times against it.
package maintenance

import "time"

// Kind selects which rate/cost/unavailability columns an Order's source
// row carries (spec §6): dissolved-gas analysis or furan/moisture.
type Kind string

const (
	KindDGA Kind = "DGA"
	KindFQ  Kind = "FQ"
)

// Order is the input record the engine consumes: one work order for one
// piece of equipment. It is never mutated after construction.
type Order struct {
	ID                string
	Kind              Kind
	CurrentState      int
	MeasurementDate   time.Time
	Rates             []float64 // length N-1, each in [0,1]
	OperationalCosts  []float64 // length N, non-negative
	Unavailabilities  []float64 // length N, non-negative hours
	TimeOffsetDays    int       // days since MeasurementDate
}

// NStates returns the number of health states implied by the order's
// vectors (len(Rates)+1).
func (o *Order) NStates() int {
	return len(o.Rates) + 1
}
