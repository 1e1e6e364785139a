package exchange

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"dexspread/internal/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	weth = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	usdc = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
)

type fakeCaller struct {
	amounts []*big.Int
	err     error
	input   []interface{}
}

func (f *fakeCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	routerABI, err := abi.JSON(strings.NewReader(RouterABIJSON))
	if err != nil {
		return nil, err
	}
	method := routerABI.Methods[getAmountsOutMethod]
	f.input, err = method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(f.amounts)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterClient_GetAmountsOut(t *testing.T) {
	caller := &fakeCaller{amounts: []*big.Int{big.NewInt(1e18), big.NewInt(1805500000)}}
	client, err := NewRouterClient(testLogger(), "quickswap", common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"), caller, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "quickswap", client.GetName())

	amountIn := big.NewInt(1e18)
	amounts, err := client.GetAmountsOut(context.Background(), amountIn, []common.Address{weth, usdc})
	require.NoError(t, err)
	require.Len(t, amounts, 2)
	assert.Equal(t, int64(1805500000), amounts[1].Int64())

	require.Len(t, caller.input, 2)
	assert.Equal(t, 0, amountIn.Cmp(caller.input[0].(*big.Int)))
	assert.Equal(t, []common.Address{weth, usdc}, caller.input[1].([]common.Address))
}

func TestRouterClient_CallError(t *testing.T) {
	caller := &fakeCaller{err: errors.New("execution reverted")}
	client, err := NewRouterClient(testLogger(), "sushiswap", common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"), caller, 0)
	require.NoError(t, err)

	_, err = client.GetAmountsOut(context.Background(), big.NewInt(1), []common.Address{weth, usdc})
	assert.ErrorContains(t, err, "execution reverted")
}

type scriptedSource struct {
	name  string
	errs  []error
	calls int
}

func (s *scriptedSource) GetName() string { return s.name }

func (s *scriptedSource) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []*big.Int{amountIn, big.NewInt(100)}, nil
}

func TestRetryingSource(t *testing.T) {
	t.Run("no retries returns source unchanged", func(t *testing.T) {
		src := &scriptedSource{name: "a"}
		assert.Same(t, src, NewRetryingSource(testLogger(), src, 0, time.Millisecond))
	})

	t.Run("recovers after a failure", func(t *testing.T) {
		src := &scriptedSource{name: "a", errs: []error{errors.New("timeout")}}
		retrying := NewRetryingSource(testLogger(), src, 2, time.Millisecond)

		amounts, err := retrying.GetAmountsOut(context.Background(), big.NewInt(1), []common.Address{weth, usdc})
		require.NoError(t, err)
		assert.Equal(t, int64(100), amounts[1].Int64())
		assert.Equal(t, 2, src.calls)
		assert.Equal(t, "a", retrying.GetName())
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		boom := errors.New("boom")
		src := &scriptedSource{name: "a", errs: []error{boom, boom, boom, boom}}
		retrying := NewRetryingSource(testLogger(), src, 2, time.Millisecond)

		_, err := retrying.GetAmountsOut(context.Background(), big.NewInt(1), []common.Address{weth, usdc})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, src.calls)
	})
}

func TestNewClient(t *testing.T) {
	caller := &fakeCaller{}

	client, err := NewClient(model.Venue{Name: "quickswap", Router: "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"}, testLogger(), caller, ClientOptions{})
	require.NoError(t, err)
	assert.IsType(t, &RouterClient{}, client)

	client, err = NewClient(model.Venue{Name: "quickswap", Router: "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff", Protocol: ProtocolUniswapV2}, testLogger(), caller, ClientOptions{Retries: 1})
	require.NoError(t, err)
	assert.IsType(t, &RetryingSource{}, client)

	_, err = NewClient(model.Venue{Name: "bad", Router: "not-an-address"}, testLogger(), caller, ClientOptions{})
	assert.Error(t, err)

	_, err = NewClient(model.Venue{Name: "curve", Router: "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff", Protocol: "curve"}, testLogger(), caller, ClientOptions{})
	assert.ErrorContains(t, err, "unknown venue protocol")
}
