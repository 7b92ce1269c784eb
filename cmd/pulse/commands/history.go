package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/backend/internal/contracts"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [universe]",
	Short: "아카이브된 브레드스 시계열 조회",
	Long: `아카이브된 브레드스 이력을 날짜순으로 표시합니다.

완전한 스냅샷만 아카이브되므로 모든 행은 다섯 개 지표를 전부 가집니다.

Example:
  go run ./cmd/pulse history nifty50
  go run ./cmd/pulse history nifty50 --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	historyLimit int
)

func init() {
	rootCmd.AddCommand(historyCmd)

	// Flags
	historyCmd.Flags().IntVar(&historyLimit, "limit", 30, "표시할 최근 행 수 (0 = 전체)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	universe := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx := context.Background()

	rows, err := deps.archive.Series(ctx, universe)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if len(rows) == 0 {
		PrintWarning(fmt.Sprintf("No archived rows for %s yet", universe))
		return nil
	}

	total := len(rows)
	if historyLimit > 0 && len(rows) > historyLimit {
		rows = rows[len(rows)-historyLimit:]
	}

	fmt.Println()
	fmt.Printf("Breadth history for %s (%d of %d rows)\n\n", universe, len(rows), total)
	printHistoryRows(rows)

	return nil
}

func printHistoryRows(rows []contracts.HistoricalRow) {
	columns := []string{"DATE", "MA20", "MA50", "MA100", "MA200", "52W"}
	widths := []int{10, 7, 7, 7, 7, 7}

	PrintTableHeader(columns, widths)
	for _, row := range rows {
		PrintTableRow([]string{
			FormatDate(row.TradingDate),
			FormatPct(contracts.Float(row.Pct20)),
			FormatPct(contracts.Float(row.Pct50)),
			FormatPct(contracts.Float(row.Pct100)),
			FormatPct(contracts.Float(row.Pct200)),
			FormatPct(contracts.Float(row.Pct52W)),
		}, widths)
	}
}
