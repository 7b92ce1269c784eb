package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/pulse/backend/internal/contracts"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [universe|all]",
	Short: "하드 데이터 일일 빌드 실행",
	Long: `유니버스의 하드 데이터(이동평균용 종가 합 + 52주 신고가)를 빌드합니다.

이 명령어는:
- 유니버스 CSV에서 심볼 목록 로드
- 심볼별 일봉 이력 수집 (휴장일 제거, 진행 중인 봉 제외)
- 19/49/99/199일 종가 합과 52주 신고가 계산
- 인메모리 스토어에 게시

Example:
  go run ./cmd/pulse build nifty50
  go run ./cmd/pulse build all`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	target := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	PrintJobHeader(JobMetadata{
		JobType:   "Hard Data Build",
		Target:    target,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	})

	ctx := context.Background()
	start := time.Now()

	var stats []*contracts.BuildStats
	if target == "all" {
		stats, err = deps.collector.BuildAll(ctx)
	} else {
		var stat *contracts.BuildStats
		stat, err = deps.collector.BuildUniverse(ctx, target)
		if stat != nil {
			stats = append(stats, stat)
		}
	}
	if err != nil {
		if errors.Is(err, contracts.ErrUniverseNotFound) {
			PrintError(fmt.Sprintf("Unknown universe: %s", target))
		}
		return err
	}

	fmt.Println()
	printBuildStats(stats)

	PrintJobCompletion(time.Since(start).Seconds())
	return nil
}

func printBuildStats(stats []*contracts.BuildStats) {
	columns := []string{"UNIVERSE", "ATTEMPTED", "BUILT", "EMPTY", "INSUFFICIENT", "TIMEOUT", "PROVIDER"}
	widths := []int{14, 9, 6, 6, 12, 8, 9}

	PrintTableHeader(columns, widths)
	for _, s := range stats {
		PrintTableRow([]string{
			s.Universe,
			strconv.Itoa(s.Attempted),
			strconv.Itoa(s.Built),
			strconv.Itoa(s.EmptyHistory),
			strconv.Itoa(s.InsufficientHistory),
			strconv.Itoa(s.Timeout),
			strconv.Itoa(s.ProviderError),
		}, widths)
	}
}
