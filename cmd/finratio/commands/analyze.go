package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/finratio/internal/analysis"
	"github.com/wonny/finratio/pkg/config"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "재무비율 표 생성 (전체 파이프라인)",
	Long: `입력 파일을 읽어 검증한 뒤 모든 비율 그룹을 계산하여 CSV로 저장합니다.

S1 → S2 → S3 → S4

각 단계:
- S1: Read (xlsx/csv/json)
- S2: Validate (schema, length, date, type)
- S3: Aggregate (liquidity, solvency, operating performance, dupont, asset utilization)
- S4: Write (CSV)

Flags:
  --input      입력 파일 (기본: FINRATIO_INPUT)
  --output     출력 파일 (기본: calculated.csv)
  --sheet      xlsx 시트 이름 (기본: 첫 시트)
  --precision  소수점 자리수 (-1 = 최단 정확 표현)

Example:
  go run ./cmd/finratio analyze --input balance.xlsx
  go run ./cmd/finratio analyze --input balance.csv --output ratios.csv --precision 4`,
	RunE: runAnalyze,
}

var (
	analyzeInput     string
	analyzeOutput    string
	analyzeSheet     string
	analyzePrecision int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "입력 파일 경로 (.xlsx, .csv, .json)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "출력 CSV 경로")
	analyzeCmd.Flags().StringVar(&analyzeSheet, "sheet", "", "xlsx 시트 이름")
	analyzeCmd.Flags().IntVar(&analyzePrecision, "precision", -1, "소수점 자리수 (-1 = 최단 정확 표현)")
}

// applyAnalysisFlags lets command flags override environment configuration
func applyAnalysisFlags(cmd *cobra.Command, cfg *config.AnalysisConfig) {
	if analyzeInput != "" {
		cfg.InputPath = analyzeInput
	}
	if analyzeOutput != "" {
		cfg.OutputPath = analyzeOutput
	}
	if analyzeSheet != "" {
		cfg.Sheet = analyzeSheet
	}
	if cmd.Flags().Changed("precision") {
		cfg.Precision = analyzePrecision
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	applyAnalysisFlags(cmd, &cfg.Analysis)
	if cfg.Analysis.InputPath == "" {
		return fail(log, "analyze", fmt.Errorf("--input or FINRATIO_INPUT is required"))
	}

	ctx, cancel := signalContext()
	defer cancel()

	PrintHeader("Financial Ratio Analysis")
	PrintKeyValue("Input", cfg.Analysis.InputPath)
	PrintKeyValue("Output", cfg.Analysis.OutputPath)

	runner := analysis.NewFromConfig(cfg.Analysis, log)
	summary, err := runner.Run(ctx, analysis.Request{
		InputPath:  cfg.Analysis.InputPath,
		OutputPath: cfg.Analysis.OutputPath,
	})
	if err != nil {
		return fail(log, "analysis run failed", err)
	}

	warnIgnored(summary.IgnoredColumns)

	PrintSeparator()
	PrintKeyValue("Run ID", summary.RunID)
	PrintKeyValue("Periods", fmt.Sprintf("%d", summary.Periods))
	PrintKeyValue("Columns", fmt.Sprintf("%d", summary.Columns))
	PrintKeyValue("Stages", strings.Join(summary.CompletedStages, " → "))
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Wrote %s in %.2fs", summary.Output, summary.Duration.Seconds()))
	return nil
}

// warnIgnored lists input columns dropped under FINRATIO_ALLOW_EXTRA_COLUMNS
func warnIgnored(columns []string) {
	if len(columns) == 0 {
		return
	}
	PrintWarning(fmt.Sprintf("Ignored %d column(s) outside the line-item vocabulary: %s",
		len(columns), strings.Join(columns, ", ")))
}
