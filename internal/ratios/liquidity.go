package ratios

import "github.com/wonny/finratio/internal/contracts"

const daysPerYear = 365

// Liquidity ratio names
const (
	DaysReceivable  = "days_receivable"
	DaysInventory   = "days_inventory"
	QuickRatio      = "quick_ratio"
	SuperQuickRatio = "super_quick_ratio"
	CurrentRatio    = "current_ratio"
	ConversionRatio = "conversion_ratio"
)

// Liquidity measures short-term solvency and the working-capital cycle.
func Liquidity() Group {
	return Group{
		Name: "liquidity",
		Ratios: []Ratio{
			{DaysReceivable, daysReceivable},
			{DaysInventory, daysInventory},
			{QuickRatio, quickRatio},
			{SuperQuickRatio, superQuickRatio},
			{CurrentRatio, ratioOf(contracts.CurrentAssets, contracts.CurrentLiabilities)},
			{ConversionRatio, conversionRatio},
		},
	}
}

// receivables * 365 / sales
func daysReceivable(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	return divide(scale(rs.Series(contracts.Receivables), daysPerYear), rs.Series(contracts.Sales))
}

// |inventory * 365 / cost_of_sales|; cost of sales is often booked negative
func daysInventory(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	days, err := divide(scale(rs.Series(contracts.Inventory), daysPerYear), rs.Series(contracts.CostOfSales))
	if err != nil {
		return nil, err
	}
	return absolute(days), nil
}

func quickRatio(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	liquid := subtract(rs.Series(contracts.CurrentAssets), rs.Series(contracts.Inventory))
	return divide(liquid, rs.Series(contracts.CurrentLiabilities))
}

func superQuickRatio(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
	liquid := subtract(
		subtract(rs.Series(contracts.CurrentAssets), rs.Series(contracts.Inventory)),
		rs.Series(contracts.Receivables),
	)
	return divide(liquid, rs.Series(contracts.CurrentLiabilities))
}

func conversionRatio(_ *contracts.RecordSet, prior *contracts.RatioResult) (contracts.Series, error) {
	receivable, err := fromPrior(prior, DaysReceivable)
	if err != nil {
		return nil, err
	}
	inventory, err := fromPrior(prior, DaysInventory)
	if err != nil {
		return nil, err
	}
	return divide(receivable, inventory)
}
