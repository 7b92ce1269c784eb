package jobs

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/pulse/backend/internal/s1_universe"
	"github.com/wonny/pulse/backend/pkg/config"
	"github.com/wonny/pulse/backend/pkg/logger"
	"github.com/wonny/pulse/backend/pkg/redis"
)

// UniverseRefreshJob re-scrapes the constituents page of every configured
// universe and rewrites its CSV. Registered only when refresh is enabled
// ⭐ SSOT: 구성종목 갱신 스케줄은 이 Job에서만
type UniverseRefreshJob struct {
	scraper *s1_universe.Scraper
	source  *s1_universe.Source
	cache   *redis.Cache
	config  *config.Config
	logger  *logger.Logger
}

// NewUniverseRefreshJob creates a new universe refresh job
func NewUniverseRefreshJob(
	scraper *s1_universe.Scraper,
	source *s1_universe.Source,
	cache *redis.Cache,
	cfg *config.Config,
	log *logger.Logger,
) *UniverseRefreshJob {
	return &UniverseRefreshJob{
		scraper: scraper,
		source:  source,
		cache:   cache,
		config:  cfg,
		logger:  log,
	}
}

// Name returns the job name
func (j *UniverseRefreshJob) Name() string {
	return "universe_refresh"
}

// Schedule returns the cron schedule (default: Sunday morning)
func (j *UniverseRefreshJob) Schedule() string {
	return j.config.Data.RefreshCron
}

// Run executes the constituents refresh
func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled universe refresh")

	universes := j.scraper.Universes()
	sort.Strings(universes)

	refreshed := 0
	for _, universe := range universes {
		symbols, err := j.scraper.FetchConstituents(ctx, universe)
		if err != nil {
			return fmt.Errorf("fetch constituents for %s: %w", universe, err)
		}

		if err := j.source.Save(universe, symbols); err != nil {
			return fmt.Errorf("save universe %s: %w", universe, err)
		}

		j.logger.WithFields(map[string]interface{}{
			"universe": universe,
			"symbols":  len(symbols),
		}).Info("Universe refreshed")
		refreshed++
	}

	if err := j.cache.Delete(ctx, redis.UniverseListKey()); err != nil {
		j.logger.WithError(err).Warn("Failed to invalidate universe list cache")
	}

	j.logger.WithField("universes", refreshed).Info("Scheduled universe refresh completed successfully")
	return nil
}
