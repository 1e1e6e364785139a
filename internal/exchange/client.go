package exchange

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// QuoteSource defines the standard interface for all venue quote clients.
type QuoteSource interface {
	GetName() string
	// GetAmountsOut returns the amounts along path for amountIn of path[0].
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
}
