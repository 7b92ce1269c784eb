package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/backend/internal/contracts"
)

// breadthCmd represents the breadth command
var breadthCmd = &cobra.Command{
	Use:   "breadth [universe]",
	Short: "브레드스 스냅샷 계산",
	Long: `하드 데이터를 빌드한 뒤 라이브 시세와 합쳐 브레드스 스냅샷을 계산합니다.

표시 정보:
- 이동평균선(20/50/100/200일) 상회 종목 수와 비율
- 52주 신고가 종목 수와 비율
- 완전한 스냅샷은 이력 테이블에 반영

Example:
  go run ./cmd/pulse breadth nifty50`,
	Args: cobra.ExactArgs(1),
	RunE: runBreadth,
}

func init() {
	rootCmd.AddCommand(breadthCmd)
}

func runBreadth(cmd *cobra.Command, args []string) error {
	universe := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx := context.Background()
	start := time.Now()

	// 1. Build hard data for the universe
	stats, err := deps.collector.BuildUniverse(ctx, universe)
	if err != nil {
		return fmt.Errorf("build hard data: %w", err)
	}

	set, err := deps.store.Get(universe)
	if err != nil {
		return err
	}

	// 2. Recombine with live quotes
	snapshot, err := deps.engine.Snapshot(ctx, set)
	if err != nil {
		return fmt.Errorf("compute breadth: %w", err)
	}

	// 3. Print the snapshot
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Breadth Snapshot: %s\n", universe)
	PrintSeparator()
	PrintKeyValue("As of", FormatDate(snapshot.AsOf), 10)
	PrintKeyValue("Symbols", fmt.Sprintf("%d built / %d attempted", stats.Built, stats.Attempted), 10)
	PrintSeparator()

	printSnapshot(snapshot)
	fmt.Println()

	// 4. Archive when complete
	if row, ok := snapshot.HistoricalRow(); ok {
		if err := deps.archive.Upsert(ctx, universe, row); err != nil {
			return fmt.Errorf("archive breadth row: %w", err)
		}
		PrintInfo(fmt.Sprintf("Archived row for %s", FormatDate(row.TradingDate)))
	} else {
		PrintWarning("Snapshot incomplete, not archived")
	}

	PrintJobCompletion(time.Since(start).Seconds())
	return nil
}

func printSnapshot(snapshot *contracts.BreadthSnapshot) {
	columns := []string{"INDICATOR", "ABOVE", "AVAILABLE", "PCT"}
	widths := []int{10, 6, 9, 8}

	PrintTableHeader(columns, widths)

	rows := []struct {
		label  string
		result contracts.MAResult
	}{
		{"MA20", snapshot.MA20},
		{"MA50", snapshot.MA50},
		{"MA100", snapshot.MA100},
		{"MA200", snapshot.MA200},
	}
	for _, r := range rows {
		PrintTableRow([]string{
			r.label,
			strconv.Itoa(r.result.AboveCount),
			strconv.Itoa(r.result.AvailableCount),
			FormatPct(r.result.Pct),
		}, widths)
	}

	PrintTableRow([]string{
		"52W HIGH",
		strconv.Itoa(snapshot.NewHighCount),
		strconv.Itoa(snapshot.NewHighAvailable),
		FormatPct(snapshot.NewHighPct),
	}, widths)
}
