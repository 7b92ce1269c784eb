package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/backend/internal/api"
	"github.com/wonny/pulse/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 브레드스 스냅샷 엔드포인트 제공
- 하드 데이터 빌드 트리거 제공

Endpoints:
  GET  /health                         - Health check
  GET  /api/breadth/{universe}         - 라이브 브레드스 스냅샷
  POST /api/data/build                 - 하드 데이터 빌드 트리거
  GET  /api/data/status                - 빌드 상태 조회
  GET  /api/history/{universe}         - 아카이브 시계열
  GET  /api/universes                  - 유니버스 목록

Example:
  go run ./cmd/pulse api
  go run ./cmd/pulse api --port 10000`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pulse API Server ===")

	// 1. Wire shared dependencies (config, logger, DB, redis, provider, stages)
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	// Override port if flag is set
	if apiPort != "" {
		deps.cfg.Port = apiPort
	}

	log := deps.log
	log.WithFields(map[string]interface{}{
		"port": deps.cfg.Port,
		"env":  deps.cfg.Env,
	}).Info("Initializing API server")

	// 2. Create handlers
	breadthHandler := handlers.NewBreadthHandler(deps.store, deps.engine, deps.archive, deps.source, deps.cache, log)
	dataHandler := handlers.NewDataHandler(deps.collector, deps.store, log)
	historyHandler := handlers.NewHistoryHandler(deps.archive, deps.source, deps.cache, log)
	universeHandler := handlers.NewUniverseHandler(deps.source, deps.scraper, deps.cache, log)

	// 3. Create router
	router := api.NewRouter(breadthHandler, dataHandler, historyHandler, universeHandler, log)

	// 4. Create server
	server := api.New(deps.cfg, log, router)

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", deps.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/breadth/{universe}")
	fmt.Println("  POST /api/data/build")
	fmt.Println("  GET  /api/data/status")
	fmt.Println("  GET  /api/history/{universe}")
	fmt.Println("  GET  /api/history/{universe}/latest")
	fmt.Println("  GET  /api/universes")
	fmt.Println("  GET  /api/universes/{name}")
	fmt.Println("  POST /api/universes/{name}/refresh")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
