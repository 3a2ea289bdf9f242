// Package grid computes ladder prices and quantities and reconciles them
// against resting orders.
package grid

import (
	"gridbot/internal/core"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// SelectReference picks the anchor price for a pair's ladder from a market
// snapshot. Unrecognized or unset base modes fall back to the bid/ask
// average.
func SelectReference(base core.BaseMode, snapshot *core.MarketSnapshot) decimal.Decimal {
	switch base {
	case core.BaseBid:
		return snapshot.HighestBid
	case core.BaseAsk:
		return snapshot.LowestAsk
	case core.BaseLast:
		return snapshot.LastPrice
	default:
		return snapshot.HighestBid.Add(snapshot.LowestAsk).Div(two)
	}
}
