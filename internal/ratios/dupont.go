package ratios

import "github.com/wonny/finratio/internal/contracts"

// DuPont ratio names
const (
	EquityMultiplier      = "equity_multiplier"
	AssetTurnover         = "asset_turnover"
	NetMargin             = "net_margin"
	TaxEffect             = "tax_effect"
	DuPontOperatingMargin = "dupont_operating_margin"
	FinancialLeverage     = "financial_leverage"
	ROE                   = "roe"
	ExtendedROE           = "extended_roe"
)

// DuPont decomposes return on equity. The last three entries are built from the
// first five, so the order here is load-bearing.
//
//	roe          = net_margin * asset_turnover * equity_multiplier
//	extended_roe = tax_effect * operating_margin * asset_turnover * financial_leverage
func DuPont() Group {
	return Group{
		Name: "dupont",
		Ratios: []Ratio{
			{EquityMultiplier, ratioOf(contracts.TotalAssets, contracts.Equity)},
			{AssetTurnover, ratioOf(contracts.Sales, contracts.TotalAssets)},
			{NetMargin, ratioOf(contracts.NetIncome, contracts.Sales)},
			{TaxEffect, ratioOf(contracts.NetIncome, contracts.PretaxIncome)},
			{DuPontOperatingMargin, ratioOf(contracts.OperatingIncome, contracts.Sales)},
			{FinancialLeverage, financialLeverage},
			{ROE, productOf(NetMargin, AssetTurnover, EquityMultiplier)},
			{ExtendedROE, productOf(TaxEffect, DuPontOperatingMargin, AssetTurnover, FinancialLeverage)},
		},
	}
}

// (pretax_income / operating_income) * equity_multiplier
func financialLeverage(rs *contracts.RecordSet, prior *contracts.RatioResult) (contracts.Series, error) {
	interestBurden, err := divide(rs.Series(contracts.PretaxIncome), rs.Series(contracts.OperatingIncome))
	if err != nil {
		return nil, err
	}
	multiplier, err := fromPrior(prior, EquityMultiplier)
	if err != nil {
		return nil, err
	}
	return multiply(interestBurden, multiplier), nil
}

// productOf multiplies earlier ratios of the group.
func productOf(first string, rest ...string) ComputeFunc {
	return func(_ *contracts.RecordSet, prior *contracts.RatioResult) (contracts.Series, error) {
		out, err := fromPrior(prior, first)
		if err != nil {
			return nil, err
		}
		for _, name := range rest {
			s, err := fromPrior(prior, name)
			if err != nil {
				return nil, err
			}
			out = multiply(out, s)
		}
		return out, nil
	}
}
