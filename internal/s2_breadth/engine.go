// Package s2_breadth recombines published hard data with live quotes into
// breadth snapshots and keeps the per-date history.
package s2_breadth

import (
	"context"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// QuoteProvider supplies the live bar for one symbol.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (*contracts.SoftQuote, error)
}

// Engine computes breadth statistics for a universe's hard data set.
// ⭐ SSOT: 브레드스 집계는 여기서만
type Engine struct {
	provider QuoteProvider
	logger   *logger.Logger
}

// NewEngine creates a breadth engine.
func NewEngine(provider QuoteProvider, log *logger.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   log.WithField("module", "breadth"),
	}
}

// bucket accumulates one breadth condition.
type bucket struct {
	above     int
	available int
}

func (b *bucket) result() contracts.MAResult {
	res := contracts.MAResult{
		AboveCount:     b.above,
		AvailableCount: b.available,
		Pct:            contracts.Unavailable(),
	}
	if b.available > 0 {
		res.Pct = contracts.Float(float64(b.above) / float64(b.available))
	}
	return res
}

// Snapshot fetches one live quote per symbol in universe order and
// recombines it with the stored sums. A quote failure drops that symbol
// from this request only, the published hard data is untouched. as_of is
// the trading date of the last observed quote.
func (e *Engine) Snapshot(ctx context.Context, set *contracts.HardDataSet) (*contracts.BreadthSnapshot, error) {
	buckets := map[int]*bucket{20: {}, 50: {}, 100: {}, 200: {}}
	highs := &bucket{}

	snapshot := &contracts.BreadthSnapshot{Universe: set.Universe}
	quoted := 0

	for _, symbol := range set.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, ok := set.Get(symbol)
		if !ok {
			continue
		}

		quote, err := e.provider.FetchQuote(ctx, symbol)
		if err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"universe": set.Universe,
				"symbol":   symbol,
				"kind":     string(contracts.ClassifyFetchError(err)),
			}).Warn("Quote fetch failed, symbol skipped for this request")
			continue
		}
		quoted++
		snapshot.AsOf = quote.LastTradingDate

		for _, window := range contracts.MAWindows {
			sum := record.SumForWindow(window)
			if !sum.Valid {
				continue
			}

			b := buckets[window]
			b.available++

			// 저장된 합은 (window-1)일치, 라이브 종가가 마지막 하루를 채움
			avg := (sum.Value + quote.LastClose) / float64(window)
			if avg > 0 && quote.LastClose/avg >= 1 {
				b.above++
			}
		}

		if record.High52W.Valid {
			highs.available++
			// 동률도 신고가로 집계
			if quote.LastHigh >= record.High52W.Value {
				highs.above++
			}
		}
	}

	snapshot.MA20 = buckets[20].result()
	snapshot.MA50 = buckets[50].result()
	snapshot.MA100 = buckets[100].result()
	snapshot.MA200 = buckets[200].result()

	snapshot.NewHighCount = highs.above
	snapshot.NewHighAvailable = highs.available
	snapshot.NewHighPct = highs.result().Pct

	e.logger.WithFields(map[string]interface{}{
		"universe": set.Universe,
		"symbols":  len(set.Symbols),
		"quoted":   quoted,
		"complete": snapshot.Complete(),
		"as_of":    snapshot.AsOf.Format("2006-01-02"),
	}).Info("Breadth snapshot computed")

	return snapshot, nil
}
