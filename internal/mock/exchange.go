package mock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"gridbot/internal/core"
	apperrors "gridbot/pkg/errors"

	"github.com/shopspring/decimal"
)

// Exchange is an in-memory core.IExchange used for tests and dry runs.
// All state is set explicitly through the Set* helpers and every placed
// order is recorded for inspection.
type Exchange struct {
	mu          sync.RWMutex
	markets     map[string]*core.Market
	prices      map[string]decimal.Decimal
	books       map[string]*core.OrderBook
	openOrders  []core.OpenOrder
	placed      []*core.Order
	placeErrs   map[string]error
	openErr     error
	priceErrs   map[string]error
	nextOrderID atomic.Int64
}

// NewExchange creates an empty mock exchange.
func NewExchange() *Exchange {
	return &Exchange{
		markets:   make(map[string]*core.Market),
		prices:    make(map[string]decimal.Decimal),
		books:     make(map[string]*core.OrderBook),
		placeErrs: make(map[string]error),
		priceErrs: make(map[string]error),
	}
}

func (e *Exchange) GetName() string { return "mock" }

func (e *Exchange) GetMarketBySymbol(ctx context.Context, symbol string) (*core.Market, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	market, ok := e.markets[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMarketNotFound, symbol)
	}
	return market, nil
}

func (e *Exchange) GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.priceErrs[symbol]; err != nil {
		return decimal.Zero, err
	}
	price, ok := e.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no price for %s", apperrors.ErrMarketDataUnavailable, symbol)
	}
	return price, nil
}

func (e *Exchange) GetOrderBook(ctx context.Context, symbol string, depth int) (*core.OrderBook, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if book, ok := e.books[symbol]; ok {
		return book, nil
	}
	return &core.OrderBook{}, nil
}

func (e *Exchange) GetOpenOrders(ctx context.Context, accountID string) ([]core.OpenOrder, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.openErr != nil {
		return nil, e.openErr
	}
	orders := make([]core.OpenOrder, len(e.openOrders))
	copy(orders, e.openOrders)
	return orders, nil
}

func (e *Exchange) PlaceLimitOrder(ctx context.Context, req *core.PlaceOrderRequest) (*core.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.placeErrs[req.Symbol]; err != nil {
		return nil, err
	}
	order := &core.Order{
		OrderID:       e.nextOrderID.Add(1),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Status:        "NEW",
	}
	e.placed = append(e.placed, order)
	return order, nil
}

// SetMarket registers a market for symbol lookup.
func (e *Exchange) SetMarket(market *core.Market) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markets[market.Symbol] = market
}

// SetPrice sets the last trade price for a symbol.
func (e *Exchange) SetPrice(symbol string, price decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prices[symbol] = price
}

// SetOrderBook sets the depth snapshot returned for a symbol.
func (e *Exchange) SetOrderBook(symbol string, book *core.OrderBook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.books[symbol] = book
}

// SetOpenOrders replaces the account's resting orders.
func (e *Exchange) SetOpenOrders(orders []core.OpenOrder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openOrders = orders
}

// FailPlacements makes every placement for symbol fail with err.
func (e *Exchange) FailPlacements(symbol string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.placeErrs[symbol] = err
}

// FailPrice makes price lookups for symbol fail with err.
func (e *Exchange) FailPrice(symbol string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.priceErrs[symbol] = err
}

// FailOpenOrders makes open order fetches fail with err.
func (e *Exchange) FailOpenOrders(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErr = err
}

// PlacedOrders returns every order accepted so far.
func (e *Exchange) PlacedOrders() []*core.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	orders := make([]*core.Order, len(e.placed))
	copy(orders, e.placed)
	return orders
}
