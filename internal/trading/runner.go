package trading

import (
	"context"
	"fmt"
	"time"

	"gridbot/internal/core"
	"gridbot/internal/grid"
	apperrors "gridbot/pkg/errors"
	"gridbot/pkg/telemetry"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PairResult summarizes one pair's outcome within a cycle.
type PairResult struct {
	Symbol    string
	Submitted int
	Failed    int
	Skipped   bool
	Err       error
}

// Runner drives the grid strategy: each cycle it walks the configured pairs,
// reconciles the resting ladder against the target depth and submits whatever
// is missing. One pair's failure never aborts the rest of the cycle.
type Runner struct {
	cfg       core.StrategyConfig
	accountID string
	exchange  core.IExchange
	submitter *Submitter
	logger    core.ILogger
	metrics   *telemetry.MetricsHolder
}

// NewRunner creates a strategy runner over an exchange connection.
func NewRunner(cfg core.StrategyConfig, accountID string, exchange core.IExchange, submitter *Submitter, logger core.ILogger) *Runner {
	return &Runner{
		cfg:       cfg,
		accountID: accountID,
		exchange:  exchange,
		submitter: submitter,
		logger:    logger.WithField("component", "runner"),
		metrics:   telemetry.GetGlobalMetrics(),
	}
}

// RunCycle executes one full strategy pass over all configured pairs and
// returns a result per pair in configuration order.
func (r *Runner) RunCycle(ctx context.Context) []PairResult {
	start := time.Now()
	results := make([]PairResult, 0, len(r.cfg.Pairs))

	for i := range r.cfg.Pairs {
		result := r.RunPair(ctx, r.cfg.Pairs[i].Symbol)
		if result.Err != nil {
			r.metrics.AddPairError(ctx, result.Symbol)
			r.logger.Error("Pair processing failed",
				"symbol", result.Symbol,
				"error", result.Err.Error())
		}
		results = append(results, result)
	}

	r.metrics.RecordCycleDuration(ctx, time.Since(start).Seconds())
	return results
}

// RunPair processes a single symbol's ladder, resolving its grid parameters
// through the configuration's symbol index.
func (r *Runner) RunPair(ctx context.Context, symbol string) PairResult {
	pair, ok := r.cfg.PairFor(symbol)
	if !ok {
		return PairResult{Symbol: symbol, Err: fmt.Errorf("symbol not configured: %s", symbol)}
	}
	return r.runPair(ctx, pair)
}

func (r *Runner) runPair(ctx context.Context, pair *core.PairConfig) PairResult {
	result := PairResult{Symbol: pair.Symbol}

	market, err := r.exchange.GetMarketBySymbol(ctx, pair.Symbol)
	if err != nil {
		result.Err = fmt.Errorf("resolve market %s: %w", pair.Symbol, err)
		return result
	}

	openOrders, err := r.exchange.GetOpenOrders(ctx, r.accountID)
	if err != nil {
		result.Err = fmt.Errorf("%w: open orders for %s: %v",
			apperrors.ErrMarketDataUnavailable, pair.Symbol, err)
		return result
	}

	buys, sells := grid.CountSides(market.ID, openOrders)
	r.metrics.SetActiveOrders(pair.Symbol, int64(buys+sells))

	if buys >= r.cfg.GridLevels && sells >= r.cfg.GridLevels {
		r.logger.Debug("Grid fully populated",
			"symbol", pair.Symbol,
			"buys", buys,
			"sells", sells)
		result.Skipped = true
		return result
	}

	snapshot, err := r.fetchSnapshot(ctx, market)
	if err != nil {
		result.Err = fmt.Errorf("%w: snapshot for %s: %v",
			apperrors.ErrMarketDataUnavailable, pair.Symbol, err)
		return result
	}

	missing := grid.MissingOrders(pair, snapshot, openOrders, r.cfg.GridLevels)
	if len(missing) == 0 {
		result.Skipped = true
		return result
	}

	r.logger.Info("Placing grid orders",
		"symbol", pair.Symbol,
		"count", len(missing),
		"open_buys", buys,
		"open_sells", sells)

	for _, sub := range r.submitter.SubmitAll(ctx, missing) {
		if sub.Err != nil {
			result.Failed++
		} else {
			result.Submitted++
		}
	}
	return result
}

// fetchSnapshot gathers the last trade price and the top of book concurrently.
// A side with no resting depth falls back to the last price so the ladder can
// still anchor on thin books.
func (r *Runner) fetchSnapshot(ctx context.Context, market *core.Market) (*core.MarketSnapshot, error) {
	var (
		lastPrice decimal.Decimal
		book      *core.OrderBook
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		price, err := r.exchange.GetLatestPrice(gctx, market.Symbol)
		if err != nil {
			return fmt.Errorf("latest price: %w", err)
		}
		lastPrice = price
		return nil
	})
	g.Go(func() error {
		b, err := r.exchange.GetOrderBook(gctx, market.Symbol, r.cfg.BookDepth)
		if err != nil {
			return fmt.Errorf("order book: %w", err)
		}
		book = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := &core.MarketSnapshot{
		Market:     market,
		LastPrice:  lastPrice,
		HighestBid: lastPrice,
		LowestAsk:  lastPrice,
	}
	if len(book.Bids) > 0 {
		snapshot.HighestBid = book.Bids[0].Price
	}
	if len(book.Asks) > 0 {
		snapshot.LowestAsk = book.Asks[0].Price
	}
	// A zero or negative anchor would produce unpriceable ladder levels.
	if !snapshot.LastPrice.IsPositive() || !snapshot.HighestBid.IsPositive() || !snapshot.LowestAsk.IsPositive() {
		return nil, fmt.Errorf("non-positive price in snapshot: last=%s bid=%s ask=%s",
			snapshot.LastPrice, snapshot.HighestBid, snapshot.LowestAsk)
	}
	return snapshot, nil
}
