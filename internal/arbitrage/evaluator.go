package arbitrage

import (
	"fmt"

	"dexspread/internal/model"

	"github.com/shopspring/decimal"
)

// Evaluate picks the cheapest venue to buy on and the most expensive venue to sell on
// and prices the simulated round trip for amountIn units of the base token.
//
// The buy side is the strictly lowest rate with ties going to the later venue, the
// sell side is the highest rate with ties going to the earlier venue. With two
// venues A and B this means A buys only when rateA < rateB.
func Evaluate(rates []model.VenueRate, amountIn decimal.Decimal, cost model.CostModel) (model.OpportunityResult, error) {
	if len(rates) < 2 {
		return model.OpportunityResult{}, fmt.Errorf("evaluate: need at least 2 venue rates, got %d", len(rates))
	}

	buy, sell := 0, 0
	for i := 1; i < len(rates); i++ {
		if rates[i].Rate.LessThanOrEqual(rates[buy].Rate) {
			buy = i
		}
		if rates[i].Rate.GreaterThan(rates[sell].Rate) {
			sell = i
		}
	}
	// All rates equal: buy already points at the last venue, keep sell on the first.

	buyRate, sellRate := rates[buy].Rate, rates[sell].Rate
	gross := sellRate.Sub(buyRate).Mul(amountIn)
	net := gross.Sub(cost.SimulatedCost)

	return model.OpportunityResult{
		BuyVenue:      rates[buy].Venue,
		SellVenue:     rates[sell].Venue,
		BuyRate:       buyRate,
		SellRate:      sellRate,
		AmountIn:      amountIn,
		GrossProfit:   gross,
		SimulatedCost: cost.SimulatedCost,
		NetProfit:     net,
		Actionable:    net.GreaterThan(cost.MinimumProfitThreshold),
	}, nil
}

// EvaluatePair compares exactly two venues.
func EvaluatePair(a, b model.VenueRate, amountIn decimal.Decimal, cost model.CostModel) model.OpportunityResult {
	result, _ := Evaluate([]model.VenueRate{a, b}, amountIn, cost)
	return result
}
