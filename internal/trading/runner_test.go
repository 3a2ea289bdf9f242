package trading

import (
	"context"
	"errors"
	"testing"

	"gridbot/internal/core"
	"gridbot/internal/mock"
	"gridbot/pkg/concurrency"
	apperrors "gridbot/pkg/errors"
	"gridbot/pkg/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarket(symbol, id string) *core.Market {
	return &core.Market{
		ID:     id,
		Symbol: symbol,
		BidToken: core.Token{
			Symbol:     "BTC",
			Precision:  4,
			Multiplier: decimal.NewFromInt(100000000),
		},
		AskToken: core.Token{
			Symbol:     "USDT",
			Precision:  2,
			Multiplier: decimal.NewFromInt(1000000),
		},
		MinOrderSize: decimal.NewFromInt(10000000),
	}
}

func newTestRunner(t *testing.T, exchange core.IExchange, pairs []core.PairConfig) *Runner {
	t.Helper()
	logger, err := logging.NewZapLogger("ERROR")
	require.NoError(t, err)

	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:       "test_submissions",
		MaxWorkers: 4,
	}, logger)
	t.Cleanup(pool.Stop)

	cfg := core.NewStrategyConfig(3, 5, pairs)
	submitter := NewSubmitter(exchange, pool, logger)
	return NewRunner(cfg, "test-account", exchange, submitter, logger)
}

func TestRunCycle_PlacesFullLadderOnEmptyGrid(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(101))
	exchange.SetOrderBook("BTCUSDT", &core.OrderBook{
		Bids: []core.BookLevel{{Price: decimal.NewFromInt(100)}},
		Asks: []core.BookLevel{{Price: decimal.NewFromInt(102)}},
	})

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 6, results[0].Submitted)
	assert.Equal(t, 0, results[0].Failed)

	placed := exchange.PlacedOrders()
	require.Len(t, placed, 6)

	buys, sells := 0, 0
	for _, order := range placed {
		switch order.Side {
		case core.SideBuy:
			buys++
		case core.SideSell:
			sells++
		}
	}
	assert.Equal(t, 3, buys)
	assert.Equal(t, 3, sells)
}

func TestRunCycle_SkipsFullyPopulatedGrid(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(101))
	exchange.SetOpenOrders([]core.OpenOrder{
		{Side: core.SideBuy, MarketID: "btc-usdt"},
		{Side: core.SideBuy, MarketID: "btc-usdt"},
		{Side: core.SideBuy, MarketID: "btc-usdt"},
		{Side: core.SideSell, MarketID: "btc-usdt"},
		{Side: core.SideSell, MarketID: "btc-usdt"},
		{Side: core.SideSell, MarketID: "btc-usdt"},
	})

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.NoError(t, results[0].Err)
	assert.Empty(t, exchange.PlacedOrders())
}

func TestRunCycle_UnknownSymbolDoesNotAbortCycle(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("ETHUSDT", "eth-usdt"))
	exchange.SetPrice("ETHUSDT", decimal.NewFromInt(2000))

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "DOGEUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
		{Symbol: "ETHUSDT", GridInterval: decimal.NewFromFloat(0.02), Base: core.BaseLast},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 2)

	assert.ErrorIs(t, results[0].Err, apperrors.ErrMarketNotFound)
	assert.Equal(t, 0, results[0].Submitted)

	assert.NoError(t, results[1].Err)
	assert.Equal(t, 6, results[1].Submitted)
}

func TestRunCycle_SubmissionFailuresAreIsolated(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetMarket(newTestMarket("ETHUSDT", "eth-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(101))
	exchange.SetPrice("ETHUSDT", decimal.NewFromInt(2000))
	exchange.FailPlacements("BTCUSDT", apperrors.ErrInsufficientFunds)

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseLast},
		{Symbol: "ETHUSDT", GridInterval: decimal.NewFromFloat(0.02), Base: core.BaseLast},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 0, results[0].Submitted)
	assert.Equal(t, 6, results[0].Failed)

	assert.Equal(t, 6, results[1].Submitted)
	assert.Equal(t, 0, results[1].Failed)
	assert.Len(t, exchange.PlacedOrders(), 6)
}

func TestRunCycle_OpenOrderFetchFailure(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(101))
	exchange.FailOpenOrders(errors.New("venue unreachable"))

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, apperrors.ErrMarketDataUnavailable)
	assert.Empty(t, exchange.PlacedOrders())
}

func TestRunCycle_ZeroVenuePriceIsPairError(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.Zero)

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, apperrors.ErrMarketDataUnavailable)
	assert.Empty(t, exchange.PlacedOrders())
}

func TestRunPair_ResolvesThroughSymbolIndex(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(101))

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	result := runner.RunPair(context.Background(), "BTCUSDT")
	assert.NoError(t, result.Err)
	assert.Equal(t, 6, result.Submitted)

	unknown := runner.RunPair(context.Background(), "DOGEUSDT")
	assert.Error(t, unknown.Err)
	assert.Equal(t, "DOGEUSDT", unknown.Symbol)
	assert.Zero(t, unknown.Submitted)
}

func TestRunCycle_ThinBookFallsBackToLastPrice(t *testing.T) {
	exchange := mock.NewExchange()
	exchange.SetMarket(newTestMarket("BTCUSDT", "btc-usdt"))
	exchange.SetPrice("BTCUSDT", decimal.NewFromInt(100))

	runner := newTestRunner(t, exchange, []core.PairConfig{
		{Symbol: "BTCUSDT", GridInterval: decimal.NewFromFloat(0.01), Base: core.BaseAverage},
	})

	results := runner.RunCycle(context.Background())
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	// With no book depth the ladder anchors on the last price.
	for _, order := range exchange.PlacedOrders() {
		if order.Side == core.SideBuy {
			assert.True(t, order.Price.LessThan(decimal.NewFromInt(100)),
				"buy at %s should sit below the anchor", order.Price)
		} else {
			assert.True(t, order.Price.GreaterThan(decimal.NewFromInt(100)),
				"sell at %s should sit above the anchor", order.Price)
		}
	}
}
