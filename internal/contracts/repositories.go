package contracts

import (
	"context"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// BreadthArchive persists complete breadth snapshots as one row per
// universe and trading date. Incomplete snapshots never reach it.
type BreadthArchive interface {
	Upsert(ctx context.Context, universe string, row HistoricalRow) error
	Series(ctx context.Context, universe string) ([]HistoricalRow, error)
	Latest(ctx context.Context, universe string) (*HistoricalRow, error)
}
