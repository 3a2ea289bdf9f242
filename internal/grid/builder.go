package grid

import (
	"gridbot/internal/core"
	"gridbot/pkg/tradingutils"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Builder computes individual ladder orders for a pair. Index 0 is the
// innermost level; prices step outward from the reference by one grid
// interval per level.
type Builder struct {
	pair *core.PairConfig
}

// NewBuilder creates a ladder order builder for one configured pair.
func NewBuilder(pair *core.PairConfig) *Builder {
	return &Builder{pair: pair}
}

// BuildBuy computes the buy order at the given ladder index. The submitted
// quantity is the rounding-adjusted ask-currency volume, so a fixed notional
// is spent at every level.
func (b *Builder) BuildBuy(snapshot *core.MarketSnapshot, index int) core.LadderOrder {
	ref := SelectReference(b.pair.Base, snapshot)
	market := snapshot.Market

	offset := b.pair.GridInterval.Mul(decimal.NewFromInt(int64(index + 1)))
	// Round down so a buy never pays above the intended discount level.
	price := tradingutils.RoundPriceDown(ref.Mul(one.Sub(offset)), market.AskToken.Precision)

	_, volume := tradingutils.QuantityAndVolume(
		price, market.MinOrderCost(),
		market.BidToken.Precision, market.AskToken.Precision,
	)

	return core.LadderOrder{
		Side:     core.SideBuy,
		Symbol:   b.pair.Symbol,
		Price:    price,
		Quantity: volume,
	}
}

// BuildSell computes the sell order at the given ladder index. The submitted
// quantity is the bid-currency amount; together with BuildBuy this keeps the
// original sizing asymmetry: buys spend a fixed notional, sells offer a
// fixed quantity.
func (b *Builder) BuildSell(snapshot *core.MarketSnapshot, index int) core.LadderOrder {
	ref := SelectReference(b.pair.Base, snapshot)
	market := snapshot.Market

	offset := b.pair.GridInterval.Mul(decimal.NewFromInt(int64(index + 1)))
	// Round up so a sell never offers below the intended premium level.
	price := tradingutils.RoundPriceUp(ref.Mul(one.Add(offset)), market.AskToken.Precision)

	quantity, _ := tradingutils.QuantityAndVolume(
		price, market.MinOrderCost(),
		market.BidToken.Precision, market.AskToken.Precision,
	)

	return core.LadderOrder{
		Side:     core.SideSell,
		Symbol:   b.pair.Symbol,
		Price:    price,
		Quantity: quantity,
	}
}
