package pricing

import (
	"math"
	"math/big"
	"testing"

	"dexspread/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	quotes := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1805500000),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
		big.NewInt(123456789012345678),
	}

	for _, q := range quotes {
		for d := 0; d <= 18; d++ {
			got := Normalize(q, uint8(d)).InexactFloat64()
			want, _ := new(big.Float).Quo(new(big.Float).SetInt(q), new(big.Float).SetFloat64(math.Pow10(d))).Float64()
			assert.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "q=%s d=%d", q, d)
		}
	}
}

func TestNormalize_UsesQuoteDecimals(t *testing.T) {
	// 1805.5 USDC with 6 decimals
	raw := big.NewInt(1805500000)

	assert.True(t, decimal.RequireFromString("1805.5").Equal(Normalize(raw, 6)))
	assert.Equal(t, "1805.5000", FormatRate(Normalize(raw, 6)))
}

func TestOutputAmount(t *testing.T) {
	t.Run("second element", func(t *testing.T) {
		out, err := OutputAmount([]*big.Int{big.NewInt(1), big.NewInt(42)})
		require.NoError(t, err)
		assert.Equal(t, int64(42), out.Int64())
	})

	t.Run("too few amounts", func(t *testing.T) {
		_, err := OutputAmount([]*big.Int{big.NewInt(1)})
		assert.ErrorIs(t, err, model.ErrQuoteIncomplete)

		_, err = OutputAmount(nil)
		assert.ErrorIs(t, err, model.ErrQuoteIncomplete)
	})

	t.Run("zero output", func(t *testing.T) {
		_, err := OutputAmount([]*big.Int{big.NewInt(1), big.NewInt(0)})
		assert.ErrorIs(t, err, model.ErrQuoteIncomplete)

		_, err = OutputAmount([]*big.Int{big.NewInt(1), nil})
		assert.ErrorIs(t, err, model.ErrQuoteIncomplete)
	})
}

func TestToBaseUnits(t *testing.T) {
	wei := ToBaseUnits(decimal.NewFromInt(1), 18)
	assert.Equal(t, "1000000000000000000", wei.String())

	assert.Equal(t, "1500000", ToBaseUnits(decimal.RequireFromString("1.5"), 6).String())
	assert.Equal(t, "1", ToBaseUnits(decimal.RequireFromString("1.9"), 0).String())
}
