package s2_breadth

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/backend/internal/contracts"
)

func testRepo(t *testing.T) (*Repository, func()) {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "database connection failed")

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	return repo, db.Close
}

func cleanupUniverse(t *testing.T, repo *Repository, universe string) {
	t.Helper()
	_, err := repo.db.Exec(context.Background(),
		`DELETE FROM breadth.history WHERE universe = $1`, universe)
	require.NoError(t, err)
}

func testRow(date time.Time, pct20 float64) contracts.HistoricalRow {
	return contracts.HistoricalRow{
		TradingDate: date,
		Pct20:       pct20,
		Pct50:       0.55,
		Pct100:      0.48,
		Pct200:      0.61,
		Pct52W:      0.04,
	}
}

func TestRepository_UpsertIdempotent(t *testing.T) {
	repo, closeFn := testRepo(t)
	defer closeFn()

	universe := fmt.Sprintf("it_idem_%d", time.Now().UnixNano())
	defer cleanupUniverse(t, repo, universe)

	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	// Same row twice leaves one row
	require.NoError(t, repo.Upsert(ctx, universe, testRow(date, 0.62)))
	require.NoError(t, repo.Upsert(ctx, universe, testRow(date, 0.62)))

	series, err := repo.Series(ctx, universe)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 0.62, series[0].Pct20)

	// Different content for the same date replaces, not duplicates
	require.NoError(t, repo.Upsert(ctx, universe, testRow(date, 0.70)))

	series, err = repo.Series(ctx, universe)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 0.70, series[0].Pct20)
}

func TestRepository_SeriesOrdered(t *testing.T) {
	repo, closeFn := testRepo(t)
	defer closeFn()

	universe := fmt.Sprintf("it_series_%d", time.Now().UnixNano())
	defer cleanupUniverse(t, repo, universe)

	ctx := context.Background()
	d1 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	// Insert out of order
	require.NoError(t, repo.Upsert(ctx, universe, testRow(d2, 0.5)))
	require.NoError(t, repo.Upsert(ctx, universe, testRow(d3, 0.6)))
	require.NoError(t, repo.Upsert(ctx, universe, testRow(d1, 0.4)))

	series, err := repo.Series(ctx, universe)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.True(t, series[0].TradingDate.Before(series[1].TradingDate))
	assert.True(t, series[1].TradingDate.Before(series[2].TradingDate))
	assert.Equal(t, 0.4, series[0].Pct20)

	latest, err := repo.Latest(ctx, universe)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 0.6, latest.Pct20)
}

func TestRepository_LatestEmpty(t *testing.T) {
	repo, closeFn := testRepo(t)
	defer closeFn()

	latest, err := repo.Latest(context.Background(), "never_written")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRepository_SeriesEmpty(t *testing.T) {
	repo, closeFn := testRepo(t)
	defer closeFn()

	series, err := repo.Series(context.Background(), "never_written")
	require.NoError(t, err)
	assert.Empty(t, series)
}
