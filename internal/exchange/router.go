package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RouterABIJSON is the subset of the Uniswap V2 Router02 ABI used for quoting.
const RouterABIJSON = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

const getAmountsOutMethod = "getAmountsOut"

// Dial connects to the chain RPC node shared by all router clients.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return client, nil
}

// RouterClient implements the QuoteSource interface for Uniswap V2 style routers.
type RouterClient struct {
	logger   *slog.Logger
	name     string
	address  common.Address
	contract *bind.BoundContract
	timeout  time.Duration
}

// NewRouterClient binds the router at address through caller. A zero timeout
// leaves the deadline to the caller's context.
func NewRouterClient(logger *slog.Logger, name string, address common.Address, caller bind.ContractCaller, timeout time.Duration) (*RouterClient, error) {
	routerABI, err := abi.JSON(strings.NewReader(RouterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}

	return &RouterClient{
		logger:   logger,
		name:     name,
		address:  address,
		contract: bind.NewBoundContract(address, routerABI, caller, nil, nil),
		timeout:  timeout,
	}, nil
}

func (r *RouterClient) GetName() string {
	return r.name
}

// GetAmountsOut calls getAmountsOut on the router.
func (r *RouterClient) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var raw []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &raw, getAmountsOutMethod, amountIn, path); err != nil {
		return nil, fmt.Errorf("%s: call %s: %w", r.name, getAmountsOutMethod, err)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("%s: unexpected %s return length %d", r.name, getAmountsOutMethod, len(raw))
	}

	amounts, ok := raw[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected %s return type %T", r.name, getAmountsOutMethod, raw[0])
	}

	r.logger.Debug("RouterClient: quote received", "venue", r.name, "router", r.address.Hex(), "amounts", len(amounts))
	return amounts, nil
}
