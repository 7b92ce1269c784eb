package s2_breadth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/pulse/backend/internal/contracts"
)

// Repository persists complete breadth snapshots, one row per universe per
// trading date.
// ⭐ SSOT: 브레드스 이력 접근은 여기서만
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE SCHEMA IF NOT EXISTS breadth;

		CREATE TABLE IF NOT EXISTS breadth.history (
			universe     TEXT NOT NULL,
			trading_date DATE NOT NULL,
			pct_20       DOUBLE PRECISION NOT NULL,
			pct_50       DOUBLE PRECISION NOT NULL,
			pct_100      DOUBLE PRECISION NOT NULL,
			pct_200      DOUBLE PRECISION NOT NULL,
			pct_52w      DOUBLE PRECISION NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (universe, trading_date)
		)
	`

	if _, err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure breadth schema: %w", err)
	}
	return nil
}

// Upsert writes one complete row, replacing any existing row for the same
// universe and trading date.
func (r *Repository) Upsert(ctx context.Context, universe string, row contracts.HistoricalRow) error {
	query := `
		INSERT INTO breadth.history (
			universe,
			trading_date,
			pct_20,
			pct_50,
			pct_100,
			pct_200,
			pct_52w,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (universe, trading_date) DO UPDATE SET
			pct_20 = EXCLUDED.pct_20,
			pct_50 = EXCLUDED.pct_50,
			pct_100 = EXCLUDED.pct_100,
			pct_200 = EXCLUDED.pct_200,
			pct_52w = EXCLUDED.pct_52w,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		universe,
		row.TradingDate,
		row.Pct20,
		row.Pct50,
		row.Pct100,
		row.Pct200,
		row.Pct52W,
	)
	if err != nil {
		return fmt.Errorf("upsert breadth row: %w", err)
	}

	return nil
}

// Series returns the full history for a universe, oldest first.
func (r *Repository) Series(ctx context.Context, universe string) ([]contracts.HistoricalRow, error) {
	query := `
		SELECT trading_date, pct_20, pct_50, pct_100, pct_200, pct_52w
		FROM breadth.history
		WHERE universe = $1
		ORDER BY trading_date ASC
	`

	rows, err := r.db.Query(ctx, query, universe)
	if err != nil {
		return nil, fmt.Errorf("query breadth series: %w", err)
	}
	defer rows.Close()

	series := make([]contracts.HistoricalRow, 0, 256)
	for rows.Next() {
		var row contracts.HistoricalRow
		if err := rows.Scan(&row.TradingDate, &row.Pct20, &row.Pct50, &row.Pct100, &row.Pct200, &row.Pct52W); err != nil {
			return nil, fmt.Errorf("scan breadth row: %w", err)
		}
		series = append(series, row)
	}

	return series, rows.Err()
}

// Latest returns the most recent row for a universe, or nil when the
// universe has no history yet.
func (r *Repository) Latest(ctx context.Context, universe string) (*contracts.HistoricalRow, error) {
	query := `
		SELECT trading_date, pct_20, pct_50, pct_100, pct_200, pct_52w
		FROM breadth.history
		WHERE universe = $1
		ORDER BY trading_date DESC
		LIMIT 1
	`

	var row contracts.HistoricalRow
	err := r.db.QueryRow(ctx, query, universe).Scan(
		&row.TradingDate, &row.Pct20, &row.Pct50, &row.Pct100, &row.Pct200, &row.Pct52W,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest breadth row: %w", err)
	}

	return &row, nil
}
