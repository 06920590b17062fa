package ratios

import "github.com/wonny/finratio/internal/contracts"

// Asset utilization ratio names
const (
	InventoryTurnover    = "inventory_turnover"
	ReceivablesTurnover  = "receivables_turnover"
	PPETurnover          = "ppe_turnover"
	AverageAssetTurnover = "average_asset_turnover"
)

// AssetUtilization divides a flow by the running average of a stock, so period i
// reads periods 0..i of the denominator.
func AssetUtilization() Group {
	return Group{
		Name: "asset_utilization",
		Ratios: []Ratio{
			{InventoryTurnover, inventoryTurnover},
			{ReceivablesTurnover, turnoverOf(contracts.Sales, contracts.Receivables)},
			{PPETurnover, turnoverOf(contracts.Sales, contracts.PropertyPlantEquipment)},
			{AverageAssetTurnover, turnoverOf(contracts.Sales, contracts.TotalAssets)},
		},
	}
}

// |cost_of_sales / cummean(inventory)|
func inventoryTurnover(rs *contracts.RecordSet, prior *contracts.RatioResult) (contracts.Series, error) {
	turnover, err := turnoverOf(contracts.CostOfSales, contracts.Inventory)(rs, prior)
	if err != nil {
		return nil, err
	}
	return absolute(turnover), nil
}

func turnoverOf(flow, stock contracts.LineItem) ComputeFunc {
	return func(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
		return divide(rs.Series(flow), CumulativeMean(rs.Series(stock)))
	}
}
