package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricOrdersPlacedTotal = "gridbot_orders_placed_total"
	MetricOrdersFailedTotal = "gridbot_orders_failed_total"
	MetricPairErrorsTotal   = "gridbot_pair_errors_total"
	MetricCycleDuration     = "gridbot_cycle_duration_seconds"
	MetricOrdersActive      = "gridbot_orders_active"
)

// MetricsHolder holds initialized instruments
type MetricsHolder struct {
	OrdersPlacedTotal metric.Int64Counter
	OrdersFailedTotal metric.Int64Counter
	PairErrorsTotal   metric.Int64Counter
	CycleDuration     metric.Float64Histogram
	OrdersActive      metric.Int64ObservableGauge

	mu              sync.RWMutex
	activeOrdersMap map[string]int64
}

var (
	globalMetrics *MetricsHolder
	initOnce      sync.Once
)

// GetGlobalMetrics returns the singleton metrics holder
func GetGlobalMetrics() *MetricsHolder {
	initOnce.Do(func() {
		globalMetrics = &MetricsHolder{
			activeOrdersMap: make(map[string]int64),
		}
	})
	return globalMetrics
}

// InitMetrics initializes instruments using the meter
func (m *MetricsHolder) InitMetrics(meter metric.Meter) error {
	var err error

	m.OrdersPlacedTotal, err = meter.Int64Counter(MetricOrdersPlacedTotal,
		metric.WithDescription("Total grid orders submitted to the venue"))
	if err != nil {
		return err
	}

	m.OrdersFailedTotal, err = meter.Int64Counter(MetricOrdersFailedTotal,
		metric.WithDescription("Total grid order submissions rejected or failed"))
	if err != nil {
		return err
	}

	m.PairErrorsTotal, err = meter.Int64Counter(MetricPairErrorsTotal,
		metric.WithDescription("Total per-pair cycle failures"))
	if err != nil {
		return err
	}

	m.CycleDuration, err = meter.Float64Histogram(MetricCycleDuration,
		metric.WithDescription("Duration of a full strategy cycle"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	m.OrdersActive, err = meter.Int64ObservableGauge(MetricOrdersActive,
		metric.WithDescription("Resting orders per pair as of the last cycle"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			for sym, val := range m.activeOrdersMap {
				obs.Observe(val, metric.WithAttributes(attribute.String("symbol", sym)))
			}
			return nil
		}))
	if err != nil {
		return err
	}

	return nil
}

// SetActiveOrders records the resting order count observed for a symbol.
func (m *MetricsHolder) SetActiveOrders(symbol string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeOrdersMap[symbol] = count
}

// AddOrdersPlaced increments the placed counter when instruments are initialized.
func (m *MetricsHolder) AddOrdersPlaced(ctx context.Context, symbol string, n int64) {
	if m.OrdersPlacedTotal == nil {
		return
	}
	m.OrdersPlacedTotal.Add(ctx, n, metric.WithAttributes(attribute.String("symbol", symbol)))
}

// AddOrdersFailed increments the failed counter when instruments are initialized.
func (m *MetricsHolder) AddOrdersFailed(ctx context.Context, symbol string, n int64) {
	if m.OrdersFailedTotal == nil {
		return
	}
	m.OrdersFailedTotal.Add(ctx, n, metric.WithAttributes(attribute.String("symbol", symbol)))
}

// AddPairError increments the per-pair failure counter.
func (m *MetricsHolder) AddPairError(ctx context.Context, symbol string) {
	if m.PairErrorsTotal == nil {
		return
	}
	m.PairErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("symbol", symbol)))
}

// RecordCycleDuration records one cycle's wall time in seconds.
func (m *MetricsHolder) RecordCycleDuration(ctx context.Context, seconds float64) {
	if m.CycleDuration == nil {
		return
	}
	m.CycleDuration.Record(ctx, seconds)
}
