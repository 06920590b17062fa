package ratios

import "github.com/wonny/finratio/internal/contracts"

// Solvency ratio names
const (
	NonCurrentLiabilitiesToAssets = "non_current_liabilities_to_assets"
	NonCurrentLiabilitiesToEquity = "non_current_liabilities_to_equity"
	LiabilitiesToAssets           = "liabilities_to_assets"
	EquityToAssets                = "equity_to_assets"
	InterestCoverage              = "interest_coverage"
	CashFlowRatio                 = "cash_flow_ratio"
)

// Solvency covers leverage and the capacity to service debt.
func Solvency() Group {
	return Group{
		Name: "solvency",
		Ratios: []Ratio{
			{NonCurrentLiabilitiesToAssets, ratioOf(contracts.NonCurrentLiabilities, contracts.TotalAssets)},
			{NonCurrentLiabilitiesToEquity, ratioOf(contracts.NonCurrentLiabilities, contracts.Equity)},
			{LiabilitiesToAssets, ratioOf(contracts.TotalLiabilities, contracts.TotalAssets)},
			{EquityToAssets, ratioOf(contracts.Equity, contracts.TotalAssets)},
			{InterestCoverage, ratioOf(contracts.OperatingIncome, contracts.FinancialExpenses)},
			{CashFlowRatio, cashFlowRatio},
		},
	}
}

// (net_income - other_provisions) / current_liabilities
func cashFlowRatio(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	flow := subtract(rs.Series(contracts.NetIncome), rs.Series(contracts.OtherProvisions))
	return divide(flow, rs.Series(contracts.CurrentLiabilities))
}
