// Package telemetry defines the structured event sink the decision
// engine emits to, and a zap-backed default implementation. The core
// never logs to a package-level logger: every component receives a
// Sink explicitly.
package telemetry

import (
	"go.uber.org/zap"
)

// Sink is the collaborator interface the core consumes (spec §6):
// structured events with a level, an event name, and key-value context.
// No schema is required beyond that.
type Sink interface {
	Debug(event string, kv ...any)
	Info(event string, kv ...any)
	Warn(event string, kv ...any)
	Error(event string, kv ...any)
}

// zapSink adapts a *zap.SugaredLogger to Sink.
type zapSink struct {
	log *zap.SugaredLogger
}

// NewZap builds a Sink backed by a production zap logger.
func NewZap() (Sink, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapSink{log: logger.Sugar()}, nil
}

// NewZapFrom adapts an already-constructed zap logger.
func NewZapFrom(logger *zap.Logger) Sink {
	return &zapSink{log: logger.Sugar()}
}

func (s *zapSink) Debug(event string, kv ...any) { s.log.Debugw(event, kv...) }
func (s *zapSink) Info(event string, kv ...any)  { s.log.Infow(event, kv...) }
func (s *zapSink) Warn(event string, kv ...any)  { s.log.Warnw(event, kv...) }
func (s *zapSink) Error(event string, kv ...any) { s.log.Errorw(event, kv...) }

// Noop is a Sink that discards every event; useful in tests where a
// collaborator is required but observability is not under test.
type Noop struct{}

func (Noop) Debug(string, ...any) {}
func (Noop) Info(string, ...any)  {}
func (Noop) Warn(string, ...any)  {}
func (Noop) Error(string, ...any) {}
