package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse - 인도 증시 마켓 브레드스 백엔드",
	Long: `Pulse Unified CLI

니프티 유니버스의 이동평균선 상회 비율과 52주 신고가 비율을 계산하는
마켓 브레드스 백엔드.

하드 데이터(저장된 종가 합)는 일일 배치로 만들고, 요청 시점의 라이브
시세와 합쳐 브레드스 스냅샷을 만듭니다.

Usage:
  go run ./cmd/pulse [command]

Examples:
  go run ./cmd/pulse api
  go run ./cmd/pulse build all
  go run ./cmd/pulse breadth nifty50
  go run ./cmd/pulse scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
