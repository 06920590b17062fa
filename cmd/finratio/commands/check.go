package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/finratio/internal/analysis"
	"github.com/wonny/finratio/internal/contracts"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "입력 파일 검증 (S1 → S2)",
	Long: `입력 파일을 읽고 검증만 수행합니다. 비율 계산과 파일 쓰기는 하지 않습니다.

출력 정보:
- 기간 축 (날짜 문자열)
- 라인 아이템 수

Example:
  go run ./cmd/finratio check --input balance.xlsx
  go run ./cmd/finratio check --input balance.xlsx --sheet 2023`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&analyzeInput, "input", "", "입력 파일 경로 (.xlsx, .csv, .json)")
	checkCmd.Flags().StringVar(&analyzeSheet, "sheet", "", "xlsx 시트 이름")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	applyAnalysisFlags(cmd, &cfg.Analysis)
	if cfg.Analysis.InputPath == "" {
		return fail(log, "check", fmt.Errorf("--input or FINRATIO_INPUT is required"))
	}

	ctx, cancel := signalContext()
	defer cancel()

	PrintHeader("Input Check")
	PrintKeyValue("Input", cfg.Analysis.InputPath)

	rs, summary, err := analysis.NewFromConfig(cfg.Analysis, log).Check(ctx, cfg.Analysis.InputPath)
	if err != nil {
		return fail(log, "input check failed", err)
	}
	warnIgnored(summary.IgnoredColumns)

	PrintSeparator()
	PrintKeyValue("Periods", fmt.Sprintf("%d", rs.Len()))
	PrintList(rs.Periods())
	PrintKeyValue("Series", fmt.Sprintf("%d", len(contracts.NumericItems)))
	fmt.Println()
	PrintSuccess("Input is valid")
	return nil
}
