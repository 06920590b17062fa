package ratios

import "github.com/wonny/finratio/internal/contracts"

// Operating performance ratio names
const (
	PretaxMargin    = "pretax_margin"
	GrossMargin     = "gross_margin"
	NetProfitMargin = "net_profit_margin"
	OperatingMargin = "operating_margin"
)

// OperatingPerformance expresses income statement lines as a share of sales.
func OperatingPerformance() Group {
	return Group{
		Name: "operating_performance",
		Ratios: []Ratio{
			{PretaxMargin, ratioOf(contracts.PretaxIncome, contracts.Sales)},
			{GrossMargin, grossMargin},
			{NetProfitMargin, ratioOf(contracts.NetIncome, contracts.Sales)},
			{OperatingMargin, ratioOf(contracts.OperatingIncome, contracts.Sales)},
		},
	}
}

func grossMargin(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	sales := rs.Series(contracts.Sales)
	return divide(subtract(sales, rs.Series(contracts.CostOfSales)), sales)
}
