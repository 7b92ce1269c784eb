package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/pulse/backend/internal/contracts"
	"github.com/wonny/pulse/backend/internal/s0_data"
	"github.com/wonny/pulse/backend/internal/s0_data/collector"
	"github.com/wonny/pulse/backend/internal/s2_breadth"
	"github.com/wonny/pulse/backend/pkg/config"
	"github.com/wonny/pulse/backend/pkg/logger"
)

// DailyBuildJob rebuilds every universe's hard data after the close, then
// snapshots each one and archives the complete snapshots
// ⭐ SSOT: 일일 하드 데이터 빌드 스케줄은 이 Job에서만
type DailyBuildJob struct {
	collector *collector.Collector
	store     *s0_data.Store
	engine    *s2_breadth.Engine
	archive   contracts.BreadthArchive
	config    *config.Config
	logger    *logger.Logger
}

// NewDailyBuildJob creates a new daily build job
func NewDailyBuildJob(
	col *collector.Collector,
	store *s0_data.Store,
	engine *s2_breadth.Engine,
	archive contracts.BreadthArchive,
	cfg *config.Config,
	log *logger.Logger,
) *DailyBuildJob {
	return &DailyBuildJob{
		collector: col,
		store:     store,
		engine:    engine,
		archive:   archive,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *DailyBuildJob) Name() string {
	return "daily_build"
}

// Schedule returns the cron schedule (default: weekdays after the close)
func (j *DailyBuildJob) Schedule() string {
	return j.config.Data.BuildCron
}

// Run executes the daily build
func (j *DailyBuildJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled daily build")

	// 1. Rebuild hard data for every universe
	stats, err := j.collector.BuildAll(ctx)
	if err != nil {
		return fmt.Errorf("build hard data: %w", err)
	}

	// 2. Snapshot each built universe and archive the complete ones
	archived := 0
	incomplete := 0
	for _, universe := range j.store.Universes() {
		set, err := j.store.Get(universe)
		if err != nil {
			j.logger.WithError(err).WithField("universe", universe).Warn("Hard data vanished between build and snapshot")
			continue
		}

		snapshot, err := j.engine.Snapshot(ctx, set)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", universe, err)
		}

		row, ok := snapshot.HistoricalRow()
		if !ok {
			incomplete++
			j.logger.WithField("universe", universe).Warn("Snapshot incomplete, not archived")
			continue
		}

		if err := j.archive.Upsert(ctx, universe, row); err != nil {
			return fmt.Errorf("archive %s: %w", universe, err)
		}
		archived++
	}

	j.logger.WithFields(map[string]interface{}{
		"universes":  len(stats),
		"archived":   archived,
		"incomplete": incomplete,
	}).Info("Scheduled daily build completed successfully")

	return nil
}
