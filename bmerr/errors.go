// Package bmerr implements the error taxonomy shared by every component
// of the maintenance decision engine.
package bmerr

import "errors"

// Kind classifies an engine error so callers can branch on category
// without string matching.
type Kind int

const (
	// InvalidInput reports a malformed order, out-of-range rate, or
	// vector length mismatch. Per-order fatal; the batch continues.
	InvalidInput Kind = iota
	// NumericInstability reports a matrix-power overflow, a singular
	// fundamental matrix, or a NaN/Inf objective. Per-evaluation
	// discard; per-order fatal only if no evaluation survives.
	NumericInstability
	// Cancelled reports that a caller-supplied context was cancelled.
	Cancelled
	// Timeout reports that a per-order solver budget was exceeded.
	Timeout
	// ConfigError reports an unknown configuration key or an
	// out-of-range configuration value. Batch aborts before any work.
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case NumericInstability:
		return "numeric instability"
	case Cancelled:
		return "cancelled"
	case Timeout:
		return "timeout"
	case ConfigError:
		return "config error"
	default:
		return "unknown"
	}
}

// EngineError implements errors unique to the decision engine.
type EngineError struct {
	Op   string
	Kind Kind
	Err  error
}

// Error satisfies the error interface.
func (e *EngineError) Error() string {
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// New builds an EngineError tagging the failing operation and kind.
func New(op string, kind Kind, err error) *EngineError {
	return &EngineError{Op: op, Kind: kind, Err: err}
}

var (
	errEmptyFrontier   = errors.New("pareto frontier is empty")
	errEmptyPopulation = errors.New("solver population size is zero")
	errInfiniteObjective = errors.New("evaluation produced a non-finite objective")
	errNonTransient    = errors.New("fundamental matrix (I-Q) is singular")
	errUnknownCriterion = errors.New("unknown selection criterion")
)

// ErrEmptyFrontier is returned by analyzer operations on an empty frontier.
func ErrEmptyFrontier() error { return New("pareto", InvalidInput, errEmptyFrontier) }

// ErrEmptyPopulation is returned when the solver is configured with μ=0.
func ErrEmptyPopulation() error { return New("nsga", ConfigError, errEmptyPopulation) }

// ErrInfiniteObjective is returned when an individual evaluation yields
// NaN or Inf; the caller discards the individual rather than aborting.
func ErrInfiniteObjective() error { return New("nsga", NumericInstability, errInfiniteObjective) }

// ErrNonTransient is returned when the fundamental matrix used for MTTF
// cannot be inverted.
func ErrNonTransient() error { return New("markov", NumericInstability, errNonTransient) }

// ErrUnknownCriterion is returned for an unrecognized analyzer criterion.
func ErrUnknownCriterion() error { return New("pareto", InvalidInput, errUnknownCriterion) }

// IsKind reports whether err (or any EngineError it wraps) carries kind.
func IsKind(err error, kind Kind) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}

// IsEmptyFrontier reports whether err represents an empty Pareto frontier.
func IsEmptyFrontier(err error) bool {
	return errors.Is(errorsUnwrapCause(err), errEmptyFrontier)
}

// IsNonTransient reports whether err represents a singular fundamental
// matrix encountered while computing MTTF.
func IsNonTransient(err error) bool {
	return errors.Is(errorsUnwrapCause(err), errNonTransient)
}

func errorsUnwrapCause(err error) error {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Err
	}
	return err
}
