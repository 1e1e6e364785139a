package exchange

import (
	"fmt"
	"log/slog"
	"time"

	"dexspread/internal/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const ProtocolUniswapV2 = "uniswap_v2"

// ClientOptions carries the adapter-level request policy shared by every venue.
type ClientOptions struct {
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
}

// NewClient creates a quote client for the given venue.
func NewClient(venue model.Venue, logger *slog.Logger, caller bind.ContractCaller, opts ClientOptions) (QuoteSource, error) {
	switch venue.Protocol {
	case "", ProtocolUniswapV2:
		if !common.IsHexAddress(venue.Router) {
			return nil, fmt.Errorf("venue %s: invalid router address %q", venue.Name, venue.Router)
		}
		client, err := NewRouterClient(logger, venue.Name, common.HexToAddress(venue.Router), caller, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return NewRetryingSource(logger, client, opts.Retries, opts.RetryBackoff), nil
	default:
		return nil, fmt.Errorf("unknown venue protocol: %s", venue.Protocol)
	}
}
