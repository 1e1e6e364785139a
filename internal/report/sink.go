// Package report delivers tick results to the console, the journal and live subscribers.
package report

import (
	"context"
	"errors"
	"log/slog"

	"dexspread/internal/model"
)

// Sink receives the outcome of every tick.
type Sink interface {
	ReportTick(ctx context.Context, report model.TickReport) error
	ReportFailure(ctx context.Context, failure model.TickFailure) error
}

// Multi fans a tick out to several sinks. A failing sink does not stop the others.
type Multi struct {
	logger *slog.Logger
	sinks  []Sink
}

// NewMulti creates a fan-out sink.
func NewMulti(logger *slog.Logger, sinks ...Sink) *Multi {
	return &Multi{logger: logger, sinks: sinks}
}

func (m *Multi) ReportTick(ctx context.Context, report model.TickReport) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.ReportTick(ctx, report); err != nil {
			m.logger.Error("Failed to report tick", "tickID", report.TickID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) ReportFailure(ctx context.Context, failure model.TickFailure) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.ReportFailure(ctx, failure); err != nil {
			m.logger.Error("Failed to report tick failure", "tickID", failure.TickID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
