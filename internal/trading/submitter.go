package trading

import (
	"context"
	"fmt"
	"time"

	"gridbot/internal/core"
	"gridbot/pkg/concurrency"
	"gridbot/pkg/telemetry"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// SubmissionResult pairs a ladder order with the outcome of its submission.
type SubmissionResult struct {
	Order core.LadderOrder
	Err   error
}

// Submitter places ladder orders on the venue. Submissions within one batch
// run concurrently on the worker pool and are all joined before SubmitAll
// returns, so no failure can escape the per-pair error boundary.
type Submitter struct {
	exchange core.IExchange
	pool     *concurrency.WorkerPool
	limiter  *rate.Limiter
	logger   core.ILogger
	metrics  *telemetry.MetricsHolder
}

// NewSubmitter creates an order submitter with a venue-friendly rate limit.
func NewSubmitter(exchange core.IExchange, pool *concurrency.WorkerPool, logger core.ILogger) *Submitter {
	return &Submitter{
		exchange: exchange,
		pool:     pool,
		limiter:  rate.NewLimiter(rate.Limit(25), 30),
		logger:   logger.WithField("component", "submitter"),
		metrics:  telemetry.GetGlobalMetrics(),
	}
}

// SubmitAll submits every order and waits for each completion. Results are
// returned in input order; a failed submission never blocks its siblings.
func (s *Submitter) SubmitAll(ctx context.Context, orders []core.LadderOrder) []SubmissionResult {
	results := make([]SubmissionResult, len(orders))
	tasks := make([]func(), len(orders))

	for i, order := range orders {
		i, order := i, order
		tasks[i] = func() {
			results[i] = SubmissionResult{Order: order, Err: s.submit(ctx, order)}
		}
	}

	s.pool.SubmitAndJoin(tasks)
	return results
}

func (s *Submitter) submit(ctx context.Context, order core.LadderOrder) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	start := time.Now()
	placed, err := s.exchange.PlaceLimitOrder(ctx, &core.PlaceOrderRequest{
		Symbol:        order.Symbol,
		Side:          order.Side,
		Price:         order.Price,
		Quantity:      order.Quantity,
		ClientOrderID: uuid.NewString(),
	})
	if err != nil {
		s.metrics.AddOrdersFailed(ctx, order.Symbol, 1)
		s.logger.Error("Order submission failed",
			"symbol", order.Symbol,
			"side", order.Side,
			"price", order.Price.String(),
			"quantity", order.Quantity.String(),
			"error", err.Error())
		return err
	}

	s.metrics.AddOrdersPlaced(ctx, order.Symbol, 1)
	s.logger.Info("Order placed",
		"symbol", order.Symbol,
		"side", order.Side,
		"price", order.Price.String(),
		"quantity", order.Quantity.String(),
		"order_id", placed.OrderID,
		"latency_ms", time.Since(start).Milliseconds())
	return nil
}
