package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token identifies an ERC-20 token and the number of decimals of its smallest unit.
type Token struct {
	Symbol   string
	Address  string
	Decimals uint8
}

// TradingPair is the base/quote pair every venue is asked to quote.
type TradingPair struct {
	Base  Token
	Quote Token
}

// String returns the pair as BASE/QUOTE.
func (p TradingPair) String() string {
	return p.Base.Symbol + "/" + p.Quote.Symbol
}

// Venue is a single price-quoting DEX.
type Venue struct {
	Name     string
	Router   string
	Protocol string
}

// CostModel holds the flat cost and the profit threshold applied to every opportunity.
type CostModel struct {
	MinimumProfitThreshold decimal.Decimal
	SimulatedCost          decimal.Decimal
}

// VenueRate is the normalized quote-per-base rate observed on one venue.
type VenueRate struct {
	Venue string          `json:"venue"`
	Rate  decimal.Decimal `json:"rate"`
}

// OpportunityResult is the outcome of comparing venue rates within a single tick.
type OpportunityResult struct {
	BuyVenue      string          `json:"buy_venue"`
	SellVenue     string          `json:"sell_venue"`
	BuyRate       decimal.Decimal `json:"buy_rate"`
	SellRate      decimal.Decimal `json:"sell_rate"`
	AmountIn      decimal.Decimal `json:"amount_in"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	SimulatedCost decimal.Decimal `json:"simulated_cost"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	Actionable    bool            `json:"actionable"`
}

// TickReport is everything a successful tick hands to the reporting sinks.
type TickReport struct {
	TickID      string            `json:"tick_id"`
	Timestamp   time.Time         `json:"timestamp"`
	Pair        string            `json:"pair"`
	Rates       []VenueRate       `json:"rates"`
	Opportunity OpportunityResult `json:"opportunity"`
}

// VenueFailure describes why a single venue could not be quoted.
type VenueFailure struct {
	Venue string `json:"venue"`
	Err   error  `json:"-"`
	Cause string `json:"error"`
}

// TickFailure is emitted once for a tick that was skipped.
type TickFailure struct {
	TickID    string         `json:"tick_id"`
	Timestamp time.Time      `json:"timestamp"`
	Pair      string         `json:"pair"`
	Failures  []VenueFailure `json:"failures"`
}

// SimulatedTrade represents an actionable opportunity to be journaled.
type SimulatedTrade struct {
	ID            int64           `db:"id"`
	TickID        string          `db:"tick_id"`
	Timestamp     time.Time       `db:"timestamp"`
	TradingPair   string          `db:"trading_pair"`
	BuyVenue      string          `db:"buy_venue"`
	SellVenue     string          `db:"sell_venue"`
	BuyRate       decimal.Decimal `db:"buy_rate"`
	SellRate      decimal.Decimal `db:"sell_rate"`
	AmountIn      decimal.Decimal `db:"amount_in"`
	GrossProfit   decimal.Decimal `db:"gross_profit"`
	SimulatedCost decimal.Decimal `db:"simulated_cost"`
	NetProfit     decimal.Decimal `db:"net_profit"`
}

// NewSimulatedTrade builds the journal row for a tick report.
func NewSimulatedTrade(r TickReport) SimulatedTrade {
	o := r.Opportunity
	return SimulatedTrade{
		TickID:        r.TickID,
		Timestamp:     r.Timestamp,
		TradingPair:   r.Pair,
		BuyVenue:      o.BuyVenue,
		SellVenue:     o.SellVenue,
		BuyRate:       o.BuyRate,
		SellRate:      o.SellRate,
		AmountIn:      o.AmountIn,
		GrossProfit:   o.GrossProfit,
		SimulatedCost: o.SimulatedCost,
		NetProfit:     o.NetProfit,
	}
}
