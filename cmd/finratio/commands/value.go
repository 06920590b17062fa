package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/finratio/internal/scenario"
)

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "기업가치 평가 (YAML 시나리오)",
	Long: `YAML 시나리오 파일의 각 섹션을 평가합니다.

섹션 (하나 이상 필수):
- wacc: 가중평균자본비용
- bond: 채권 만기수익률
- stock: 배당할인모형 (Gordon)
- free_cash_flow: 잉여현금흐름 할인 (잔존가치 포함)

Example:
  go run ./cmd/finratio value --scenario scenario.yaml`,
	RunE: runValue,
}

var valueScenario string

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVar(&valueScenario, "scenario", "", "시나리오 YAML 경로")
	_ = valueCmd.MarkFlagRequired("scenario")
}

func runValue(cmd *cobra.Command, args []string) error {
	_, log, err := loadRuntime(cmd)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	s, _, err := scenario.Load(valueScenario)
	if err != nil {
		return fail(log, "load scenario failed", err)
	}
	hash, err := scenario.Hash(s)
	if err != nil {
		return fail(log, "hash scenario failed", err)
	}
	log.WithFields(map[string]interface{}{
		"scenario": valueScenario,
		"hash":     hash,
		"sections": s.Sections(),
	}).Info("Scenario loaded")

	res, err := scenario.Evaluate(s)
	if err != nil {
		return fail(log, "valuation failed", err)
	}

	title := "Valuation"
	if s.Name != "" {
		title += ": " + s.Name
	}
	PrintHeader(title)
	PrintKeyValue("Scenario", valueScenario)
	PrintKeyValue("Hash", hash[:12])

	if res.WACC != nil {
		printWACC(res.WACC)
	}
	if res.Bond != nil {
		printBond(res.Bond)
	}
	if res.Stock != nil {
		printStock(res.Stock)
	}
	if res.FreeCashFlow != nil {
		printFreeCashFlow(res.FreeCashFlow)
	}

	fmt.Println()
	if missing := absentSections(s); len(missing) > 0 {
		PrintInfo(fmt.Sprintf("Not in scenario: %s", strings.Join(missing, ", ")))
	}
	PrintSuccess(fmt.Sprintf("Evaluated %s", strings.Join(s.Sections(), ", ")))
	log.Infof("Evaluated %d scenario section(s)", len(s.Sections()))
	return nil
}

func printWACC(r *scenario.WACCResult) {
	PrintSection("WACC")
	PrintKeyValue("Equity (E)", FormatAmount(r.Structure.Equity))
	PrintKeyValue("Preferred (P)", FormatAmount(r.Structure.Preferred))
	PrintKeyValue("Debt (D)", FormatAmount(r.Structure.Debt))
	PrintKeyValue("Firm (V)", FormatAmount(r.Structure.Firm))
	PrintKeyValue("E/V", FormatPercent(r.Structure.EquityWeight))
	PrintKeyValue("P/V", FormatPercent(r.Structure.PreferredWeight))
	PrintKeyValue("D/V", FormatPercent(r.Structure.DebtWeight))
	PrintKeyValue("Cost of equity (Ke)", FormatPercent(r.CostOfEquity))
	PrintKeyValue("Cost of preferred (Kp)", FormatPercent(r.CostOfPreferred))
	PrintKeyValue("Cost of debt (Kd)", FormatPercent(r.CostOfDebt))
	PrintKeyValue("Tax shield (1-T)", FormatPercent(r.TaxShield))
	PrintKeyValue("WACC", FormatPercent(r.WACC))
}

func printBond(r *scenario.BondResult) {
	PrintSection("Bond")
	PrintKeyValue("Coupon", FormatAmount(r.Coupon))
	PrintKeyValue("Cash flows", FormatSeries(r.CashFlows))
	PrintKeyValue("Yield to maturity", FormatPercent(r.YieldToMaturity))
}

func printStock(r *scenario.StockResult) {
	PrintSection("Common stock")
	PrintKeyValue("Period", fmt.Sprintf("%d", r.Period))
	PrintKeyValue("Value", FormatAmount(r.Value))
	PrintKeyValue("Capital gain", FormatAmount(r.CapitalGain))
	for _, f := range r.Forecast {
		PrintKeyValue("Value @ g="+FormatPercent(f.GrowthRate), FormatAmount(f.Value))
	}
}

func printFreeCashFlow(r *scenario.FreeCashFlowResult) {
	b := r.Breakdown

	PrintSection("Free cash flow")
	if len(r.EBITDA) > 0 {
		PrintKeyValue("EBITDA", FormatSeries(r.EBITDA))
	}
	PrintKeyValue("Free cash flow", FormatSeries(r.FreeCashFlow))
	PrintKeyValue("Residual value", FormatAmount(r.ResidualValue))
	PrintKeyValue("PV of FCF", FormatAmount(r.NPV))
	PrintKeyValue("PV with residual", FormatAmount(r.NPVWithResidual))
	PrintSeparator()
	PrintKeyValue(fmt.Sprintf("Forecast (%d years) %s", b.ForecastYears, FormatPercent(b.ForecastShare)), FormatAmount(b.ForecastPV))
	PrintKeyValue(fmt.Sprintf("Perpetuity (>%d years) %s", b.ForecastYears, FormatPercent(b.PerpetuityShare)), FormatAmount(b.PerpetuityPV))
	PrintKeyValue("Total", FormatAmount(b.Total))
}

// absentSections lists the calculators the scenario does not configure
func absentSections(s *scenario.Scenario) []string {
	present := make(map[string]bool)
	for _, name := range s.Sections() {
		present[name] = true
	}
	var out []string
	for _, name := range []string{scenario.SectionWACC, scenario.SectionBond, scenario.SectionStock, scenario.SectionFreeCashFlow} {
		if !present[name] {
			out = append(out, name)
		}
	}
	return out
}
