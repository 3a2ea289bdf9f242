package core

import (
	"github.com/shopspring/decimal"
)

// Side identifies the side of an order
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// BaseMode selects which snapshot price anchors a pair's ladder
type BaseMode string

const (
	BaseBid     BaseMode = "BID"
	BaseAsk     BaseMode = "ASK"
	BaseLast    BaseMode = "LAST"
	BaseAverage BaseMode = "AVERAGE"
)

// Token describes one currency of a trading pair
type Token struct {
	Symbol     string
	Precision  int
	Multiplier decimal.Decimal
}

// Market identifies a trading pair and its venue constraints.
// MinOrderSize is expressed in ask-token raw units.
type Market struct {
	ID           string
	Symbol       string
	BidToken     Token
	AskToken     Token
	MinOrderSize decimal.Decimal
}

// MinOrderCost returns the minimum order notional in ask-currency units.
func (m *Market) MinOrderCost() decimal.Decimal {
	return m.MinOrderSize.Div(m.AskToken.Multiplier)
}

// MarketSnapshot captures the market state used to anchor one cycle's ladder.
// HighestBid and LowestAsk fall back to LastPrice when the book has no depth
// on that side.
type MarketSnapshot struct {
	Market     *Market
	LastPrice  decimal.Decimal
	HighestBid decimal.Decimal
	LowestAsk  decimal.Decimal
}

// BookLevel is a single price level of an order book side
type BookLevel struct {
	Price decimal.Decimal
}

// OrderBook is a depth-limited order book snapshot
type OrderBook struct {
	Bids []BookLevel
	Asks []BookLevel
}

// PairConfig holds the per-pair grid parameters
type PairConfig struct {
	Symbol       string
	GridInterval decimal.Decimal
	Base         BaseMode
}

// StrategyConfig is the process-wide strategy configuration, loaded once at
// startup and immutable thereafter.
type StrategyConfig struct {
	GridLevels int
	BookDepth  int
	Pairs      []PairConfig

	bySymbol map[string]*PairConfig
}

// NewStrategyConfig builds a StrategyConfig with a symbol index over pairs.
func NewStrategyConfig(gridLevels, bookDepth int, pairs []PairConfig) StrategyConfig {
	cfg := StrategyConfig{
		GridLevels: gridLevels,
		BookDepth:  bookDepth,
		Pairs:      pairs,
		bySymbol:   make(map[string]*PairConfig, len(pairs)),
	}
	for i := range cfg.Pairs {
		cfg.bySymbol[cfg.Pairs[i].Symbol] = &cfg.Pairs[i]
	}
	return cfg
}

// PairFor returns the configuration for a symbol, or false if not configured.
func (c *StrategyConfig) PairFor(symbol string) (*PairConfig, bool) {
	p, ok := c.bySymbol[symbol]
	return p, ok
}

// LadderOrder is a computed grid order awaiting submission.
// For BUY orders Quantity is the ask-currency notional volume; for SELL
// orders it is the bid-currency amount.
type LadderOrder struct {
	Side     Side
	Symbol   string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// OpenOrder is a resting order as reported by the venue
type OpenOrder struct {
	Side     Side
	MarketID string
}

// PlaceOrderRequest is a limit order submission
type PlaceOrderRequest struct {
	Symbol        string
	Side          Side
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	ClientOrderID string
}

// Order is a venue-acknowledged order
type Order struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          Side
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	Status        string
}
