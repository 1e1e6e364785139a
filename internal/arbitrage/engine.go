package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"dexspread/internal/exchange"
	"dexspread/internal/model"
	"dexspread/internal/pricing"
	"dexspread/internal/report"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Engine polls every venue on a fixed interval and evaluates the quoted rates.
// Ticks never overlap and share no state.
type Engine struct {
	logger   *slog.Logger
	sources  []exchange.QuoteSource
	pair     model.TradingPair
	amountIn decimal.Decimal
	cost     model.CostModel
	interval time.Duration
	sink     report.Sink

	now   func() time.Time
	newID func() string
}

// NewEngine creates a new instance of the Engine.
func NewEngine(
	logger *slog.Logger,
	sources []exchange.QuoteSource,
	pair model.TradingPair,
	amountIn decimal.Decimal,
	cost model.CostModel,
	interval time.Duration,
	sink report.Sink,
) (*Engine, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 venues, got %d", model.ErrConfigurationInvalid, len(sources))
	}
	if interval < time.Second {
		return nil, fmt.Errorf("%w: interval must be at least 1s, got %s", model.ErrConfigurationInvalid, interval)
	}

	return &Engine{
		logger:   logger,
		sources:  sources,
		pair:     pair,
		amountIn: amountIn,
		cost:     cost,
		interval: interval,
		sink:     sink,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Run processes a tick immediately and then once per interval until ctx is done.
// Tick failures are reported and never stop the loop.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("Engine started",
		"pair", e.pair.String(),
		"venues", len(e.sources),
		"interval", e.interval,
		"amountIn", e.amountIn.String(),
	)

	for {
		if _, err := e.ProcessTick(ctx); err != nil && ctx.Err() == nil {
			e.logger.Debug("Tick skipped", "error", err)
		}

		select {
		case <-ctx.Done():
			e.logger.Info("Engine: context cancelled, shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProcessTick fetches a quote from every venue, and if all of them succeed,
// normalizes and evaluates the rates. A failure on any venue skips the tick.
func (e *Engine) ProcessTick(ctx context.Context) (*model.TickReport, error) {
	tickID := e.newID()
	ts := e.now()
	e.logger.Debug("Checking for arbitrage opportunities", "tickID", tickID)

	rates, failures := e.fetchRates(ctx)
	if len(failures) > 0 {
		failure := model.TickFailure{
			TickID:    tickID,
			Timestamp: ts,
			Pair:      e.pair.String(),
			Failures:  failures,
		}
		if err := e.sink.ReportFailure(ctx, failure); err != nil {
			e.logger.Error("Failed to report tick failure", "tickID", tickID, "error", err)
		}

		errs := make([]error, 0, len(failures))
		for _, f := range failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Venue, f.Err))
		}
		return nil, errors.Join(errs...)
	}

	opportunity, err := Evaluate(rates, e.amountIn, e.cost)
	if err != nil {
		return nil, err
	}

	tick := model.TickReport{
		TickID:      tickID,
		Timestamp:   ts,
		Pair:        e.pair.String(),
		Rates:       rates,
		Opportunity: opportunity,
	}
	if err := e.sink.ReportTick(ctx, tick); err != nil {
		e.logger.Error("Failed to report tick", "tickID", tickID, "error", err)
	}
	return &tick, nil
}

// fetchRates queries all venues concurrently and waits for every one of them.
// Each goroutine writes only its own slot.
func (e *Engine) fetchRates(ctx context.Context) ([]model.VenueRate, []model.VenueFailure) {
	amountIn := pricing.ToBaseUnits(e.amountIn, e.pair.Base.Decimals)
	path := []common.Address{
		common.HexToAddress(e.pair.Base.Address),
		common.HexToAddress(e.pair.Quote.Address),
	}

	rates := make([]model.VenueRate, len(e.sources))
	errs := make([]error, len(e.sources))

	var g errgroup.Group
	for i, src := range e.sources {
		g.Go(func() error {
			rate, err := e.fetchRate(ctx, src, amountIn, path)
			rates[i] = model.VenueRate{Venue: src.GetName(), Rate: rate}
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var failures []model.VenueFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		failures = append(failures, model.VenueFailure{
			Venue: e.sources[i].GetName(),
			Err:   err,
			Cause: err.Error(),
		})
	}
	if len(failures) > 0 {
		return nil, failures
	}
	return rates, nil
}

func (e *Engine) fetchRate(ctx context.Context, src exchange.QuoteSource, amountIn *big.Int, path []common.Address) (decimal.Decimal, error) {
	amounts, err := src.GetAmountsOut(ctx, amountIn, path)
	if err != nil {
		if errors.Is(err, model.ErrQuoteIncomplete) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %w", model.ErrFetchFailure, err)
	}

	out, err := pricing.OutputAmount(amounts)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.Normalize(out, e.pair.Quote.Decimals), nil
}
