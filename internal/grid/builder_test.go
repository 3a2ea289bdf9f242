package grid

import (
	"testing"

	"gridbot/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarket() *core.Market {
	return &core.Market{
		ID:     "btc-usdt",
		Symbol: "BTCUSDT",
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
		// 10 USDT minimum notional in raw units
		MinOrderSize: decimal.NewFromInt(10000000),
	}
}

func testPair() *core.PairConfig {
	return &core.PairConfig{
		Symbol:       "BTCUSDT",
		GridInterval: decimal.RequireFromString("0.01"),
		Base:         core.BaseAverage,
	}
}

func TestBuilder_InnermostLevelPrices(t *testing.T) {
	snapshot := testSnapshot("101", "100", "102")
	snapshot.Market = testMarket()
	builder := NewBuilder(testPair())

	// Reference = (100+102)/2 = 101
	buy := builder.BuildBuy(snapshot, 0)
	require.Equal(t, core.SideBuy, buy.Side)
	assert.True(t, decimal.RequireFromString("99.99").Equal(buy.Price),
		"buy price: want 99.99 got %s", buy.Price)

	sell := builder.BuildSell(snapshot, 0)
	require.Equal(t, core.SideSell, sell.Side)
	assert.True(t, decimal.RequireFromString("102.01").Equal(sell.Price),
		"sell price: want 102.01 got %s", sell.Price)
}

func TestBuilder_LadderMonotonicity(t *testing.T) {
	snapshot := testSnapshot("101", "100", "102")
	snapshot.Market = testMarket()
	builder := NewBuilder(testPair())
	ref := decimal.RequireFromString("101")

	prevBuy := ref
	prevSell := ref
	for index := 0; index < 6; index++ {
		buy := builder.BuildBuy(snapshot, index)
		sell := builder.BuildSell(snapshot, index)

		assert.True(t, buy.Price.LessThan(prevBuy),
			"buy price must strictly decrease with index: %s at %d", buy.Price, index)
		assert.True(t, sell.Price.GreaterThan(prevSell),
			"sell price must strictly increase with index: %s at %d", sell.Price, index)
		assert.True(t, buy.Price.LessThanOrEqual(ref))
		assert.True(t, sell.Price.GreaterThanOrEqual(ref))

		prevBuy = buy.Price
		prevSell = sell.Price
	}
}

func TestBuilder_RoundingDirections(t *testing.T) {
	// Reference chosen so raw ladder prices carry more than two decimals.
	snapshot := testSnapshot("101.17", "101.17", "101.17")
	snapshot.Market = testMarket()
	pair := testPair()
	pair.Base = core.BaseLast
	builder := NewBuilder(pair)

	// 101.17 * 0.99 = 100.1583 -> 100.15 (down)
	buy := builder.BuildBuy(snapshot, 0)
	assert.True(t, decimal.RequireFromString("100.15").Equal(buy.Price),
		"buy price: want 100.15 got %s", buy.Price)

	// 101.17 * 1.01 = 102.1817 -> 102.19 (up)
	sell := builder.BuildSell(snapshot, 0)
	assert.True(t, decimal.RequireFromString("102.19").Equal(sell.Price),
		"sell price: want 102.19 got %s", sell.Price)
}

func TestBuilder_SizingAsymmetry(t *testing.T) {
	snapshot := testSnapshot("101", "100", "102")
	snapshot.Market = testMarket()
	builder := NewBuilder(testPair())

	minCost := snapshot.Market.MinOrderCost()
	require.True(t, decimal.NewFromInt(10).Equal(minCost))

	// Buy size is the ask-currency volume: quantity rounding pushes it to or
	// just above the minimum notional.
	buy := builder.BuildBuy(snapshot, 0)
	assert.GreaterOrEqual(t, buy.Quantity.Cmp(minCost), 0,
		"buy volume must cover the minimum notional")
	assert.LessOrEqual(t, int(-buy.Quantity.Exponent()), snapshot.Market.AskToken.Precision)

	// Sell size is the bid-currency quantity.
	sell := builder.BuildSell(snapshot, 0)
	wantQty := minCost.Div(sell.Price).RoundCeil(int32(snapshot.Market.BidToken.Precision))
	assert.True(t, wantQty.Equal(sell.Quantity),
		"sell quantity: want %s got %s", wantQty, sell.Quantity)
}
