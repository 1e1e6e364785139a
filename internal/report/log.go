package report

import (
	"context"
	"log/slog"

	"dexspread/internal/model"
	"dexspread/internal/pricing"
)

// LogSink writes tick results through the structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) ReportTick(ctx context.Context, report model.TickReport) error {
	for _, r := range report.Rates {
		l.logger.InfoContext(ctx, "Venue price",
			"tickID", report.TickID,
			"venue", r.Venue,
			"pair", report.Pair,
			"rate", pricing.FormatRate(r.Rate),
		)
	}

	o := report.Opportunity
	if !o.Actionable {
		l.logger.DebugContext(ctx, "No actionable opportunity",
			"tickID", report.TickID,
			"buyVenue", o.BuyVenue,
			"sellVenue", o.SellVenue,
			"netProfit", pricing.FormatRate(o.NetProfit),
		)
		return nil
	}

	l.logger.InfoContext(ctx, "Arbitrage opportunity detected",
		"tickID", report.TickID,
		"pair", report.Pair,
		"buyVenue", o.BuyVenue,
		"sellVenue", o.SellVenue,
		"amountIn", o.AmountIn.String(),
		"buyRate", pricing.FormatRate(o.BuyRate),
		"sellRate", pricing.FormatRate(o.SellRate),
		"grossProfit", pricing.FormatRate(o.GrossProfit),
		"simulatedCost", pricing.FormatRate(o.SimulatedCost),
		"netProfit", pricing.FormatRate(o.NetProfit),
	)
	return nil
}

func (l *LogSink) ReportFailure(ctx context.Context, failure model.TickFailure) error {
	attrs := []any{"tickID", failure.TickID, "pair", failure.Pair}
	for _, f := range failure.Failures {
		attrs = append(attrs, slog.Group(f.Venue, "error", f.Cause))
	}
	l.logger.WarnContext(ctx, "Error fetching prices, skipping tick", attrs...)
	return nil
}
