// Package exchange selects and constructs the venue backend.
package exchange

import (
	"fmt"
	"strings"

	"gridbot/internal/config"
	"gridbot/internal/core"
	"gridbot/internal/exchange/binance"
	"gridbot/internal/mock"

	"github.com/shopspring/decimal"
)

// NewExchange builds the IExchange named in the configuration.
func NewExchange(cfg *config.Config, logger core.ILogger) (core.IExchange, error) {
	switch cfg.Exchange.Name {
	case "binance":
		return binance.New(&cfg.Exchange, logger), nil
	case "mock":
		return newSeededMock(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported exchange: %s", cfg.Exchange.Name)
	}
}

// newSeededMock builds an in-memory venue pre-populated with a market and a
// starting price for every configured pair, so dry runs work out of the box.
func newSeededMock(cfg *config.Config) *mock.Exchange {
	ex := mock.NewExchange()
	for _, pair := range cfg.Strategy.Pairs {
		base := strings.TrimSuffix(pair.Symbol, "USDT")
		if base == pair.Symbol {
			base = pair.Symbol
		}
		ex.SetMarket(&core.Market{
			ID:     pair.Symbol,
			Symbol: pair.Symbol,
			BidToken: core.Token{
				Symbol:     base,
				Precision:  4,
				Multiplier: decimal.New(1, 0),
			},
			AskToken: core.Token{
				Symbol:     "USDT",
				Precision:  2,
				Multiplier: decimal.New(1, 0),
			},
			MinOrderSize: decimal.NewFromInt(10),
		})
		ex.SetPrice(pair.Symbol, decimal.NewFromInt(100))
	}
	return ex
}
