// Package solver wraps the Gorgonia optimizer the auto-encoder trains
// with, so its hyperparameters can be described by a plain config
// struct (AdamConfig) instead of constructed ad hoc at each call site.
package solver

import (
	G "gorgonia.org/gorgonia"
)

// Type names the optimizer a Config builds. Only Adam is wired today;
// the auto-encoder never needed plain SGD or RMSProp, so those
// variants were dropped rather than carried unused.
type Type string

const Adam Type = "Adam"

// Solver pairs a built Gorgonia optimizer with the Config that
// produced it, so training code can log which hyperparameters were
// actually in effect.
type Solver struct {
	G.Solver
	Type
	Config
}

func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, errInvalidType(t, c)
	}
	s := Solver{Type: t, Config: c}
	s.Solver = s.Config.Create()
	return &s, nil
}

// Config builds a Gorgonia Solver from a set of hyperparameters.
type Config interface {
	Create() G.Solver
	ValidType(Type) bool
}
