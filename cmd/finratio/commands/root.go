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
	Use:   "finratio",
	Short: "재무비율 분석 및 기업가치 평가",
	Long: `finratio CLI

재무제표 라인 아이템(xlsx/csv/json)에서 기간별 재무비율 표를 만들고,
YAML 시나리오로 WACC, 채권 수익률, 주식 가치, 잉여현금흐름(DCF)을 평가합니다.

Usage:
  go run ./cmd/finratio [command]

Examples:
  go run ./cmd/finratio analyze --input balance.xlsx --output calculated.csv
  go run ./cmd/finratio check --input balance.csv
  go run ./cmd/finratio value --scenario scenario.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
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
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
}
