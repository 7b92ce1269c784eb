package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/pulse/backend/internal/calendar"
	"github.com/wonny/pulse/backend/internal/external/yahoo"
	"github.com/wonny/pulse/backend/internal/s0_data"
	"github.com/wonny/pulse/backend/internal/s0_data/collector"
	"github.com/wonny/pulse/backend/internal/s0_data/quality"
	"github.com/wonny/pulse/backend/internal/s1_universe"
	"github.com/wonny/pulse/backend/internal/s2_breadth"
	"github.com/wonny/pulse/backend/pkg/config"
	"github.com/wonny/pulse/backend/pkg/database"
	"github.com/wonny/pulse/backend/pkg/httputil"
	"github.com/wonny/pulse/backend/pkg/logger"
	"github.com/wonny/pulse/backend/pkg/redis"
)

// appDeps bundles the wiring shared by every command that touches data.
// One-shot commands build it, use it, and Close it.
type appDeps struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	redis     *redis.Client
	cache     *redis.Cache
	calendar  *calendar.Calendar
	source    *s1_universe.Source
	scraper   *s1_universe.Scraper
	store     *s0_data.Store
	collector *collector.Collector
	engine    *s2_breadth.Engine
	archive   *s2_breadth.Repository
}

// initDeps wires the full dependency chain from config
func initDeps() (*appDeps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "pulse")

	// 5. Create rate-limited HTTP clients, one per upstream
	limiter := redis.NewRateLimiter(redisClient, "pulse")
	yahooHTTP := httputil.New(cfg, log).
		WithHeaders(map[string]string{"User-Agent": cfg.Yahoo.UserAgent}).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	scrapeHTTP := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.WikipediaRateLimit)

	// 6. Create market data client
	yahooClient := yahoo.NewClient(cfg, yahooHTTP, log)

	// 7. Load holiday calendar
	cal, err := calendar.Load(cfg.Data.HolidayFile)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("load holiday calendar: %w", err)
	}

	// 8. Create universe source and scraper
	source := s1_universe.NewSource(cfg.Data.UniverseDir, log)
	scraper := s1_universe.NewScraper(scrapeHTTP, log, cfg.Data.ConstituentsURLs)

	// 9. Create hard data pipeline
	builder := s0_data.NewBuilder(cal)
	store := s0_data.NewStore()
	checker := quality.NewChecker(quality.Config{MaxAnomalyRatio: 0.1})
	col := collector.NewCollector(source, yahooClient, builder, store, checker, log, collector.Config{
		Workers:     cfg.Data.Workers,
		HistoryDays: cfg.Data.HistoryDays,
	})

	// 10. Create breadth engine and archive
	engine := s2_breadth.NewEngine(yahooClient, log)
	archive := s2_breadth.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.EnsureSchema(ctx); err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}

	return &appDeps{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     redisClient,
		cache:     cache,
		calendar:  cal,
		source:    source,
		scraper:   scraper,
		store:     store,
		collector: col,
		engine:    engine,
		archive:   archive,
	}, nil
}

// Close releases the connections held by the dependency chain
func (d *appDeps) Close() {
	d.db.Close()
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close redis client")
	}
}
