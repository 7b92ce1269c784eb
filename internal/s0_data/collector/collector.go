// Package collector drives the daily hard data build: fetch history for
// every symbol of a universe through a bounded worker pool, summarize each
// symbol, then publish the finished set in one step.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/internal/s0_data"
	"github.com/wonny/pulse/backend/internal/s0_data/quality"
	"github.com/wonny/pulse/backend/internal/s1_universe"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// HistoryProvider supplies daily bars for one symbol over a date range.
type HistoryProvider interface {
	FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) ([]contracts.Bar, error)
}

// Collector orchestrates hard data builds per universe.
// ⭐ SSOT: 하드 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	source   *s1_universe.Source
	provider HistoryProvider
	builder  *s0_data.Builder
	store    *s0_data.Store
	checker  *quality.Checker
	logger   *logger.Logger
	config   Config
}

// Config holds collector configuration
type Config struct {
	Workers     int // Number of concurrent workers
	HistoryDays int // Calendar days of history per symbol
}

// NewCollector creates a new Collector instance
func NewCollector(
	source *s1_universe.Source,
	provider HistoryProvider,
	builder *s0_data.Builder,
	store *s0_data.Store,
	checker *quality.Checker,
	log *logger.Logger,
	cfg Config,
) *Collector {
	return &Collector{
		source:   source,
		provider: provider,
		builder:  builder,
		store:    store,
		checker:  checker,
		logger:   log.WithField("module", "collector"),
		config:   cfg,
	}
}

// fetchResult carries one symbol's build outcome back from a worker.
type fetchResult struct {
	symbol string
	record *contracts.HardDataRecord
	kind   contracts.FailureKind
	err    error
}

// BuildUniverse fetches history and rebuilds hard data for every symbol of
// a universe. Per-symbol failures are tallied, never fatal. The finished
// set replaces the published one only after every symbol is done, and the
// counts are the same no matter how the workers interleave.
func (c *Collector) BuildUniverse(ctx context.Context, universe string) (*contracts.BuildStats, error) {
	// 1. Resolve the universe to its symbol list
	symbols, err := c.source.Load(universe)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -c.config.HistoryDays)

	c.logger.WithFields(map[string]interface{}{
		"universe": universe,
		"symbols":  len(symbols),
		"from":     start.Format("2006-01-02"),
		"to":       end.Format("2006-01-02"),
		"workers":  c.config.Workers,
	}).Info("Starting hard data build")

	// 2. Create worker pool
	resultCh := make(chan fetchResult, len(symbols))
	symbolCh := make(chan string, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < c.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.buildWorker(ctx, workerID, symbolCh, resultCh, start, end)
		}(i)
	}

	// Send symbols to workers
	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	// Wait for all workers to complete
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// 3. Collect results
	stats := &contracts.BuildStats{
		Universe:  universe,
		Attempted: len(symbols),
	}
	built := make(map[string]contracts.HardDataRecord, len(symbols))

	for result := range resultCh {
		if result.err != nil {
			stats.RecordFailure(result.kind)
			continue
		}
		built[result.symbol] = *result.record
		stats.Built++
	}

	// 4. Reassemble in universe order and publish atomically
	set := &contracts.HardDataSet{
		Universe: universe,
		BuiltAt:  time.Now(),
		Symbols:  make([]string, 0, len(built)),
		Records:  built,
	}
	for _, symbol := range symbols {
		if _, ok := built[symbol]; ok {
			set.Symbols = append(set.Symbols, symbol)
		}
	}
	c.store.Publish(set)

	c.logger.WithFields(map[string]interface{}{
		"universe":             universe,
		"attempted":            stats.Attempted,
		"built":                stats.Built,
		"empty_history":        stats.EmptyHistory,
		"insufficient_history": stats.InsufficientHistory,
		"timeout":              stats.Timeout,
		"provider_error":       stats.ProviderError,
	}).Info("Hard data build completed")

	return stats, nil
}

// buildWorker processes the fetch and summarize steps for symbols.
func (c *Collector) buildWorker(ctx context.Context, workerID int, symbolCh <-chan string, resultCh chan<- fetchResult, start, end time.Time) {
	for symbol := range symbolCh {
		select {
		case <-ctx.Done():
			resultCh <- fetchResult{
				symbol: symbol,
				kind:   contracts.ClassifyFetchError(ctx.Err()),
				err:    ctx.Err(),
			}
			return
		default:
		}

		// Fetch history
		bars, err := c.provider.FetchDailyHistory(ctx, symbol, start, end)
		if err != nil {
			kind := contracts.ClassifyFetchError(err)
			c.logFailure(workerID, symbol, kind, err, "Failed to fetch history")
			resultCh <- fetchResult{symbol: symbol, kind: kind, err: err}
			continue
		}

		// Screen the series, findings are reported but bars are kept
		if report := c.checker.Check(symbol, bars); !report.Clean() {
			c.logger.WithFields(map[string]interface{}{
				"worker":              workerID,
				"symbol":              symbol,
				"bars":                report.Bars,
				"out_of_order_dates":  report.OutOfOrderDates,
				"duplicate_dates":     report.DuplicateDates,
				"non_positive_closes": report.NonPositiveCloses,
				"high_below_low":      report.HighBelowLow,
				"suspect":             c.checker.Suspect(report),
			}).Warn("Bar anomalies detected")
		}

		// Summarize
		record, err := c.builder.Build(symbol, bars)
		if err != nil {
			kind := contracts.ClassifyFetchError(err)
			c.logFailure(workerID, symbol, kind, err, "Failed to build hard data")
			resultCh <- fetchResult{symbol: symbol, kind: kind, err: err}
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"symbol": symbol,
			"bars":   len(bars),
			"as_of":  record.AsOf.Format("2006-01-02"),
		}).Debug("Built hard data")

		resultCh <- fetchResult{symbol: symbol, record: record}
	}
}

// logFailure logs data conditions quietly and provider faults loudly.
func (c *Collector) logFailure(workerID int, symbol string, kind contracts.FailureKind, err error, msg string) {
	entry := c.logger.WithError(err).WithFields(map[string]interface{}{
		"worker": workerID,
		"symbol": symbol,
		"kind":   string(kind),
	})

	switch kind {
	case contracts.FailureEmptyHistory, contracts.FailureInsufficientHistory:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
}

// BuildAll rebuilds every universe the source knows about. A universe that
// fails to load is skipped, the rest still build.
func (c *Collector) BuildAll(ctx context.Context) ([]*contracts.BuildStats, error) {
	names, err := c.source.List()
	if err != nil {
		return nil, fmt.Errorf("list universes: %w", err)
	}

	stats := make([]*contracts.BuildStats, 0, len(names))
	for _, name := range names {
		s, err := c.BuildUniverse(ctx, name)
		if err != nil {
			c.logger.WithError(err).WithField("universe", name).Error("Failed to build universe")
			continue
		}
		stats = append(stats, s)
	}

	return stats, nil
}
