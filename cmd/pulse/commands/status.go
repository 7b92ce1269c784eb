package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "시스템 상태 점검",
	Long: `설정, 데이터베이스, Redis, 데이터 파일, 아카이브 상태를 점검합니다.

표시 정보:
- 설정 요약 (환경, 포트, 배치 설정)
- 데이터베이스 연결과 풀 상태
- 유니버스 파일과 휴장일 수
- 유니버스별 최근 아카이브 행

Example:
  go run ./cmd/pulse status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Pulse System Status ===")

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Configuration
	fmt.Println("\n⚙️  Configuration")
	PrintSeparator()
	PrintKeyValue("Environment", deps.cfg.Env, 14)
	PrintKeyValue("Port", deps.cfg.Port, 14)
	PrintKeyValue("Universe dir", deps.cfg.Data.UniverseDir, 14)
	PrintKeyValue("History days", fmt.Sprintf("%d", deps.cfg.Data.HistoryDays), 14)
	PrintKeyValue("Build workers", fmt.Sprintf("%d", deps.cfg.Data.Workers), 14)
	PrintKeyValue("Build cron", deps.cfg.Data.BuildCron, 14)

	// Database
	fmt.Println("\n🗄️  Database")
	PrintSeparator()
	health, err := deps.db.HealthCheck(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Health check failed: %v", err))
	} else {
		PrintKeyValue("Healthy", fmt.Sprintf("%v", health.Healthy), 14)
		PrintKeyValue("Response time", health.ResponseTime.String(), 14)
		PrintKeyValue("Connections", fmt.Sprintf("%d/%d", health.Stats.TotalConns, health.Stats.MaxConns), 14)
	}

	// Redis
	fmt.Println("\n🧰 Redis")
	PrintSeparator()
	if deps.redis.Enabled() {
		PrintKeyValue("Enabled", "true", 14)
	} else {
		PrintKeyValue("Enabled", "false (caching disabled)", 14)
	}

	// Data files
	fmt.Println("\n📁 Data Files")
	PrintSeparator()
	PrintKeyValue("Holidays", fmt.Sprintf("%d dates (%d rows skipped)", deps.calendar.Size(), deps.calendar.Skipped()), 14)

	names, err := deps.source.List()
	if err != nil {
		PrintError(fmt.Sprintf("Failed to list universes: %v", err))
		return nil
	}
	PrintKeyValue("Universes", fmt.Sprintf("%d", len(names)), 14)

	// Archive
	fmt.Println("\n📊 Archive (latest row per universe)")
	PrintSeparator()
	if len(names) == 0 {
		PrintWarning("No universe files found")
		return nil
	}
	for _, name := range names {
		row, err := deps.archive.Latest(ctx, name)
		if err != nil {
			PrintKeyValue(name, fmt.Sprintf("error: %v", err), 14)
			continue
		}
		if row == nil {
			PrintKeyValue(name, "no rows archived yet", 14)
			continue
		}
		PrintKeyValue(name, fmt.Sprintf("%s (MA50 %.1f%%)", FormatDate(row.TradingDate), row.Pct50*100), 14)
	}

	fmt.Println()
	PrintSuccess("Status check complete")
	return nil
}
