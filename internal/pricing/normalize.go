// Package pricing converts between on-chain integer amounts and decimal rates.
package pricing

import (
	"fmt"
	"math/big"

	"dexspread/internal/model"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fractional digits shown in user-visible output.
const DisplayPlaces = 4

// OutputAmount extracts the quoted output from a two-hop getAmountsOut result.
// The output is the element at index 1; a short or zero result is incomplete.
func OutputAmount(amounts []*big.Int) (*big.Int, error) {
	if len(amounts) < 2 {
		return nil, fmt.Errorf("%w: got %d amounts, want at least 2", model.ErrQuoteIncomplete, len(amounts))
	}
	out := amounts[1]
	if out == nil || out.Sign() <= 0 {
		return nil, fmt.Errorf("%w: zero output amount", model.ErrQuoteIncomplete)
	}
	return out, nil
}

// Normalize converts a raw quote-token amount into a human-scale rate using the
// quote token's decimals. The conversion is exact.
func Normalize(raw *big.Int, quoteDecimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(quoteDecimals))
}

// ToBaseUnits converts a decimal base-token amount into the token's smallest unit.
// Precision finer than one smallest unit is truncated.
func ToBaseUnits(amount decimal.Decimal, baseDecimals uint8) *big.Int {
	return amount.Shift(int32(baseDecimals)).BigInt()
}

// FormatRate renders d with DisplayPlaces fractional digits.
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
