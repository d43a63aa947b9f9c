package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics component is constructed without a meter.
var ErrMeterNil = errors.New("meter must not be nil")

// BusinessMetrics tracks receiving activity: receipt creation, status
// transitions, and ledger consolidation outcomes.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	receiptCreatedTotal    *Counter
	receiptLineTotal       *Counter
	receiptTransitionTotal *Counter
	consolidationTotal     *Counter

	ledgerRowCount *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	ledgerProvider LedgerMetricsProvider
}

// LedgerMetricsProvider provides ledger data for periodic metrics collection.
// The telemetry layer queries ledger state through this interface instead of
// depending on the inventory domain directly.
type LedgerMetricsProvider interface {
	// GetLedgerRowCount returns the current number of inventory ledger rows
	GetLedgerRowCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	LedgerProvider  LedgerMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		ledgerProvider: cfg.LedgerProvider,
	}

	var err error

	bm.receiptCreatedTotal, err = NewCounter(
		cfg.Meter,
		"wms_receipt_created_total",
		"Total number of goods receipts created",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	bm.receiptLineTotal, err = NewCounter(
		cfg.Meter,
		"wms_receipt_line_total",
		"Total number of receipt line items created",
		"{lines}",
	)
	if err != nil {
		return nil, err
	}

	bm.receiptTransitionTotal, err = NewCounter(
		cfg.Meter,
		"wms_receipt_transition_total",
		"Total number of receipt status transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	bm.consolidationTotal, err = NewCounter(
		cfg.Meter,
		"wms_consolidation_total",
		"Total number of ledger consolidation operations",
		"{operations}",
	)
	if err != nil {
		return nil, err
	}

	bm.ledgerRowCount, err = NewGauge(
		cfg.Meter,
		"wms_ledger_row_count",
		"Current number of inventory ledger rows",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordReceiptCreated records a receipt creation with its line count
func (bm *BusinessMetrics) RecordReceiptCreated(ctx context.Context, lineCount int) {
	bm.receiptCreatedTotal.Inc(ctx)
	bm.receiptLineTotal.Add(ctx, int64(lineCount))
}

// RecordReceiptTransition records a status transition, labeled by target status
func (bm *BusinessMetrics) RecordReceiptTransition(ctx context.Context, status string) {
	bm.receiptTransitionTotal.Inc(ctx, AttrReceiptStatus.String(status))
}

// RecordConsolidation records a consolidation outcome, labeled by ledger action
func (bm *BusinessMetrics) RecordConsolidation(ctx context.Context, action string) {
	bm.consolidationTotal.Inc(ctx, AttrConsolidationAction.String(action))
}

// StartPeriodicCollection starts a background goroutine that samples ledger
// gauges at the configured interval. No-op when no provider is wired.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.ledgerProvider == nil {
		bm.logger.Debug("No ledger metrics provider configured, skipping periodic collection")
		return
	}
	if interval == 0 {
		interval = 5 * time.Minute
	}

	bm.collectOnce.Do(func() {
		go bm.collectLoop(ctx, interval)
	})
}

// Stop stops periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() { close(bm.stopChan) })
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	count, err := bm.ledgerProvider.GetLedgerRowCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect ledger row count", zap.Error(err))
		return
	}
	bm.ledgerRowCount.Record(ctx, count)
}
