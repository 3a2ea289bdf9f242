// Package core defines the domain types and collaborator interfaces for the
// grid quoting strategy.
package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IExchange is the venue collaborator consumed by the strategy core. The
// core only reads market data and adds orders; it never cancels or
// re-prices resting orders.
type IExchange interface {
	GetName() string

	// Market data
	GetMarketBySymbol(ctx context.Context, symbol string) (*Market, error)
	GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetOrderBook(ctx context.Context, symbol string, depth int) (*OrderBook, error)

	// Orders
	GetOpenOrders(ctx context.Context, accountID string) ([]OpenOrder, error)
	PlaceLimitOrder(ctx context.Context, req *PlaceOrderRequest) (*Order, error)
}

// ILogger defines the interface for logging
type ILogger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
	WithField(key string, value interface{}) ILogger
	WithFields(fields map[string]interface{}) ILogger
}
