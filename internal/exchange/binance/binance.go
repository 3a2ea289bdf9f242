// Package binance implements core.IExchange against the Binance Spot REST API.
package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gridbot/internal/config"
	"gridbot/internal/core"
	apperrors "gridbot/pkg/errors"
	"gridbot/pkg/httpclient"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.binance.com"

// Exchange is a Binance Spot connector. Market metadata is fetched lazily
// from exchangeInfo and cached for the life of the process.
type Exchange struct {
	client *httpclient.Client
	logger core.ILogger

	mu      sync.RWMutex
	markets map[string]*core.Market
}

// New creates a Binance Spot exchange connector.
func New(cfg *config.ExchangeConfig, logger core.ILogger) *Exchange {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	signer := NewRequestSigner(string(cfg.APIKey), string(cfg.SecretKey))
	return &Exchange{
		client:  httpclient.NewClient(baseURL, 10*time.Second, signer),
		logger:  logger.WithField("component", "binance"),
		markets: make(map[string]*core.Market),
	}
}

func (e *Exchange) GetName() string {
	return "binance"
}

// mapError translates Binance error payloads into the package sentinels.
func (e *Exchange) mapError(err error) error {
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	var errResp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if jsonErr := json.Unmarshal(apiErr.Body, &errResp); jsonErr != nil {
		return err
	}

	switch errResp.Code {
	case -2015:
		return apperrors.ErrAuthenticationFailed
	case -1013, -1111:
		return apperrors.ErrInvalidOrderParameter
	case -2010:
		return apperrors.ErrInsufficientFunds
	case -1003:
		return apperrors.ErrRateLimitExceeded
	case -1021:
		return apperrors.ErrTimestampOutOfBounds
	}
	return fmt.Errorf("binance error %d: %s", errResp.Code, errResp.Msg)
}

func (e *Exchange) GetMarketBySymbol(ctx context.Context, symbol string) (*core.Market, error) {
	e.mu.RLock()
	market, ok := e.markets[symbol]
	e.mu.RUnlock()
	if ok {
		return market, nil
	}

	if err := e.fetchExchangeInfo(ctx, symbol); err != nil {
		return nil, fmt.Errorf("fetch exchange info: %w", e.mapError(err))
	}

	e.mu.RLock()
	market, ok = e.markets[symbol]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMarketNotFound, symbol)
	}
	return market, nil
}

func (e *Exchange) fetchExchangeInfo(ctx context.Context, symbol string) error {
	params := map[string]string{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	body, err := e.client.Get(ctx, "/api/v3/exchangeInfo", params)
	if err != nil {
		return err
	}

	var response struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			BaseAsset  string `json:"baseAsset"`
			QuoteAsset string `json:"quoteAsset"`
			Filters    []struct {
				FilterType  string `json:"filterType"`
				TickSize    string `json:"tickSize"`
				StepSize    string `json:"stepSize"`
				MinNotional string `json:"minNotional"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("decode exchange info: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range response.Symbols {
		market := &core.Market{
			ID:     s.Symbol,
			Symbol: s.Symbol,
			BidToken: core.Token{
				Symbol:     s.BaseAsset,
				Precision:  8,
				Multiplier: decimal.New(1, 0),
			},
			AskToken: core.Token{
				Symbol:     s.QuoteAsset,
				Precision:  8,
				Multiplier: decimal.New(1, 0),
			},
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "PRICE_FILTER":
				market.AskToken.Precision = stepDecimals(f.TickSize)
			case "LOT_SIZE":
				market.BidToken.Precision = stepDecimals(f.StepSize)
			case "MIN_NOTIONAL", "NOTIONAL":
				if v, err := decimal.NewFromString(f.MinNotional); err == nil {
					market.MinOrderSize = v
				}
			}
		}
		e.markets[s.Symbol] = market
	}
	return nil
}

// stepDecimals converts a filter step like "0.01000000" into the number of
// significant decimal places. Trailing zeros in the step don't add precision.
func stepDecimals(step string) int {
	v, err := decimal.NewFromString(step)
	if err != nil || v.IsZero() {
		return 8
	}
	for d := 0; d <= 8; d++ {
		if v.Shift(int32(d)).IsInteger() {
			return d
		}
	}
	return 8
}

func (e *Exchange) GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	body, err := e.client.Get(ctx, "/api/v3/ticker/price", map[string]string{"symbol": symbol})
	if err != nil {
		return decimal.Zero, e.mapError(err)
	}

	var ticker struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &ticker); err != nil {
		return decimal.Zero, fmt.Errorf("decode ticker: %w", err)
	}
	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse ticker price %q: %w", ticker.Price, err)
	}
	return price, nil
}

func (e *Exchange) GetOrderBook(ctx context.Context, symbol string, depth int) (*core.OrderBook, error) {
	body, err := e.client.Get(ctx, "/api/v3/depth", map[string]string{
		"symbol": symbol,
		"limit":  strconv.Itoa(depth),
	})
	if err != nil {
		return nil, e.mapError(err)
	}

	var raw struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode depth: %w", err)
	}

	book := &core.OrderBook{
		Bids: make([]core.BookLevel, 0, len(raw.Bids)),
		Asks: make([]core.BookLevel, 0, len(raw.Asks)),
	}
	for _, level := range raw.Bids {
		if len(level) == 0 {
			continue
		}
		price, err := decimal.NewFromString(level[0])
		if err != nil {
			return nil, fmt.Errorf("parse bid price %q: %w", level[0], err)
		}
		book.Bids = append(book.Bids, core.BookLevel{Price: price})
	}
	for _, level := range raw.Asks {
		if len(level) == 0 {
			continue
		}
		price, err := decimal.NewFromString(level[0])
		if err != nil {
			return nil, fmt.Errorf("parse ask price %q: %w", level[0], err)
		}
		book.Asks = append(book.Asks, core.BookLevel{Price: price})
	}
	return book, nil
}

func (e *Exchange) GetOpenOrders(ctx context.Context, accountID string) ([]core.OpenOrder, error) {
	body, err := e.client.GetSigned(ctx, "/api/v3/openOrders", nil)
	if err != nil {
		return nil, e.mapError(err)
	}

	var raw []struct {
		Symbol string `json:"symbol"`
		Side   string `json:"side"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode open orders: %w", err)
	}

	orders := make([]core.OpenOrder, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, core.OpenOrder{
			Side:     core.Side(o.Side),
			MarketID: o.Symbol,
		})
	}
	return orders, nil
}

func (e *Exchange) PlaceLimitOrder(ctx context.Context, req *core.PlaceOrderRequest) (*core.Order, error) {
	params := map[string]string{
		"symbol":      req.Symbol,
		"side":        string(req.Side),
		"type":        "LIMIT",
		"timeInForce": "GTC",
		"price":       req.Price.String(),
		"quantity":    req.Quantity.String(),
	}
	if req.ClientOrderID != "" {
		params["newClientOrderId"] = req.ClientOrderID
	}

	body, err := e.client.PostSigned(ctx, "/api/v3/order", params)
	if err != nil {
		mapped := e.mapError(err)
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrSubmissionRejected, req.Side, req.Symbol, mapped)
	}

	var raw struct {
		OrderID       int64  `json:"orderId"`
		ClientOrderID string `json:"clientOrderId"`
		Symbol        string `json:"symbol"`
		Status        string `json:"status"`
		Price         string `json:"price"`
		OrigQty       string `json:"origQty"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode order ack: %w", err)
	}

	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return nil, fmt.Errorf("parse order ack price %q: %w", raw.Price, err)
	}
	qty, err := decimal.NewFromString(raw.OrigQty)
	if err != nil {
		return nil, fmt.Errorf("parse order ack quantity %q: %w", raw.OrigQty, err)
	}

	return &core.Order{
		OrderID:       raw.OrderID,
		ClientOrderID: raw.ClientOrderID,
		Symbol:        raw.Symbol,
		Side:          req.Side,
		Price:         price,
		Quantity:      qty,
		Status:        raw.Status,
	}, nil
}
