package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "유니버스 관리",
	Long: `유니버스 CSV 파일을 조회하거나 갱신합니다.

Subcommands:
  list              - 설정된 유니버스 목록
  show [name]       - 유니버스의 정규화된 심볼 목록
  refresh [name]    - 구성종목 페이지를 다시 긁어 CSV 갱신

Example:
  go run ./cmd/pulse universe list
  go run ./cmd/pulse universe show nifty50
  go run ./cmd/pulse universe refresh nifty50`,
}

var (
	universeListCmd = &cobra.Command{
		Use:   "list",
		Short: "유니버스 목록",
		RunE:  listUniverses,
	}

	universeShowCmd = &cobra.Command{
		Use:   "show [name]",
		Short: "유니버스 심볼 목록",
		Args:  cobra.ExactArgs(1),
		RunE:  showUniverse,
	}

	universeRefreshCmd = &cobra.Command{
		Use:   "refresh [name]",
		Short: "구성종목 갱신",
		Args:  cobra.ExactArgs(1),
		RunE:  refreshUniverse,
	}
)

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd)
	universeCmd.AddCommand(universeShowCmd)
	universeCmd.AddCommand(universeRefreshCmd)
}

func listUniverses(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	names, err := deps.source.List()
	if err != nil {
		return fmt.Errorf("list universes: %w", err)
	}

	if len(names) == 0 {
		PrintWarning(fmt.Sprintf("No universe files in %s", deps.cfg.Data.UniverseDir))
		return nil
	}

	fmt.Printf("Universes (%d):\n", len(names))
	PrintList(names)
	return nil
}

func showUniverse(cmd *cobra.Command, args []string) error {
	name := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	symbols, err := deps.source.Load(name)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	fmt.Printf("Universe %s (%d symbols):\n", name, len(symbols))
	PrintList(symbols)
	return nil
}

func refreshUniverse(cmd *cobra.Command, args []string) error {
	name := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	fmt.Printf("Refreshing constituents for %s...\n", name)

	ctx := context.Background()

	symbols, err := deps.scraper.FetchConstituents(ctx, name)
	if err != nil {
		return fmt.Errorf("fetch constituents: %w", err)
	}

	if err := deps.source.Save(name, symbols); err != nil {
		return fmt.Errorf("save universe: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Universe %s refreshed with %d symbols", name, len(symbols)))
	return nil
}
