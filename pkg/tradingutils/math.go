package tradingutils

import (
	"github.com/shopspring/decimal"
)

// RoundPriceDown rounds a price down to the given number of decimals.
// Used for buy prices so an order never pays above its intended level.
func RoundPriceDown(price decimal.Decimal, priceDecimals int) decimal.Decimal {
	return price.RoundFloor(int32(priceDecimals))
}

// RoundPriceUp rounds a price up to the given number of decimals.
// Used for sell prices so an order never offers below its intended level.
func RoundPriceUp(price decimal.Decimal, priceDecimals int) decimal.Decimal {
	return price.RoundCeil(int32(priceDecimals))
}

// QuantityAndVolume converts a price and a target notional cost into an order
// quantity plus the notional volume that quantity actually represents.
//
// The quantity is rounded up to qtyDecimals so the resulting notional never
// falls below the venue's minimum order requirement. Because the rounded
// quantity no longer matches targetCost exactly, the volume is recomputed
// from the rounded quantity and rounded up to costDecimals.
func QuantityAndVolume(price, targetCost decimal.Decimal, qtyDecimals, costDecimals int) (quantity, volume decimal.Decimal) {
	quantity = targetCost.Div(price).RoundCeil(int32(qtyDecimals))
	volume = price.Mul(quantity).RoundCeil(int32(costDecimals))
	return quantity, volume
}
