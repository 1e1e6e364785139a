package exchange

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const maxRetryBackoff = 16 * time.Second

// RetryingSource wraps a QuoteSource and retries failed quotes a bounded number
// of times with a doubling backoff. The wrapped source still fails as a whole.
type RetryingSource struct {
	logger  *slog.Logger
	source  QuoteSource
	retries int
	backoff time.Duration
}

// NewRetryingSource returns source unchanged when retries is not positive.
func NewRetryingSource(logger *slog.Logger, source QuoteSource, retries int, backoff time.Duration) QuoteSource {
	if retries <= 0 {
		return source
	}
	return &RetryingSource{
		logger:  logger,
		source:  source,
		retries: retries,
		backoff: backoff,
	}
}

func (r *RetryingSource) GetName() string {
	return r.source.GetName()
}

// GetAmountsOut tries the wrapped source up to retries+1 times.
func (r *RetryingSource) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	backoff := r.backoff
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			r.logger.Warn("RetryingSource: retrying quote", "venue", r.source.GetName(), "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxRetryBackoff {
					backoff = maxRetryBackoff
				}
			}
		}

		amounts, err := r.source.GetAmountsOut(ctx, amountIn, path)
		if err == nil {
			return amounts, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
