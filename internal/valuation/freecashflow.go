package valuation

import (
	"github.com/wonny/finratio/internal/contracts"
)

// FreeCashFlowConfig holds the per-year projection used for a DCF valuation.
// Empty series count as zeros; Override replaces the computed free cash flow.
type FreeCashFlowConfig struct {
	OperatingIncome          []float64 `yaml:"operating_income,omitempty" json:"operating_income,omitempty"`
	DepreciationAmortization []float64 `yaml:"depreciation_amortization,omitempty" json:"depreciation_amortization,omitempty"`
	Capex                    []float64 `yaml:"capex,omitempty" json:"capex,omitempty"`
	WorkingCapitalChange     []float64 `yaml:"working_capital_change,omitempty" json:"working_capital_change,omitempty"`
	IncomeTax                []float64 `yaml:"income_tax,omitempty" json:"income_tax,omitempty"`

	GrowthRate   float64   `yaml:"growth_rate" json:"growth_rate"`
	DiscountRate float64   `yaml:"discount_rate" json:"discount_rate" validate:"gt=0"`
	Override     []float64 `yaml:"fcf_override,omitempty" json:"fcf_override,omitempty"`
}

// Breakdown splits the enterprise value into the explicit forecast and the perpetuity.
type Breakdown struct {
	ForecastYears   int
	ForecastPV      float64
	PerpetuityPV    float64
	Total           float64
	ForecastShare   float64
	PerpetuityShare float64
}

// FreeCashFlow discounts projected free cash flows plus a growing residual value.
type FreeCashFlow struct {
	cfg     FreeCashFlowConfig
	periods int
}

// NewFreeCashFlow validates cfg. Every non-empty series must match the operating income length.
func NewFreeCashFlow(cfg FreeCashFlowConfig) (*FreeCashFlow, error) {
	if err := checkConfig(CalculatorFreeCashFlow, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Override) > 0 {
		return &FreeCashFlow{cfg: cloneFCFConfig(cfg), periods: len(cfg.Override)}, nil
	}

	n := len(cfg.OperatingIncome)
	if n == 0 {
		return nil, &contracts.MissingConfigurationError{
			Calculator: CalculatorFreeCashFlow,
			Fields:     []string{"operating_income", "fcf_override"},
		}
	}

	series := []struct {
		name   string
		values []float64
	}{
		{"depreciation_amortization", cfg.DepreciationAmortization},
		{"capex", cfg.Capex},
		{"working_capital_change", cfg.WorkingCapitalChange},
		{"income_tax", cfg.IncomeTax},
	}
	for _, s := range series {
		if len(s.values) != 0 && len(s.values) != n {
			return nil, &contracts.LengthMismatchError{Field: s.name, Expected: n, Got: len(s.values)}
		}
	}

	return &FreeCashFlow{cfg: cloneFCFConfig(cfg), periods: n}, nil
}

func cloneFCFConfig(cfg FreeCashFlowConfig) FreeCashFlowConfig {
	out := cfg
	out.OperatingIncome = append([]float64(nil), cfg.OperatingIncome...)
	out.DepreciationAmortization = append([]float64(nil), cfg.DepreciationAmortization...)
	out.Capex = append([]float64(nil), cfg.Capex...)
	out.WorkingCapitalChange = append([]float64(nil), cfg.WorkingCapitalChange...)
	out.IncomeTax = append([]float64(nil), cfg.IncomeTax...)
	out.Override = append([]float64(nil), cfg.Override...)
	return out
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// EBITDA = operating income + depreciation and amortization
func (f *FreeCashFlow) EBITDA() []float64 {
	out := make([]float64, len(f.cfg.OperatingIncome))
	for i, oi := range f.cfg.OperatingIncome {
		out[i] = oi + at(f.cfg.DepreciationAmortization, i)
	}
	return out
}

// RawFreeCashFlow is the uncorrected series: the override, or EBITDA - capex - working capital change - tax.
func (f *FreeCashFlow) RawFreeCashFlow() []float64 {
	if len(f.cfg.Override) > 0 {
		return append([]float64(nil), f.cfg.Override...)
	}
	ebitda := f.EBITDA()
	out := make([]float64, f.periods)
	for i := range out {
		out[i] = ebitda[i] - at(f.cfg.Capex, i) - at(f.cfg.WorkingCapitalChange, i) - at(f.cfg.IncomeTax, i)
	}
	return out
}

// FreeCashFlow is the series ready for NPV, see CorrectFreeCashFlow.
func (f *FreeCashFlow) FreeCashFlow() []float64 {
	return CorrectFreeCashFlow(f.RawFreeCashFlow())
}

// CorrectFreeCashFlow aligns a yearly series with NPV's undiscounted t=0 slot.
// A negative first value is the initial investment and is zeroed; otherwise a zero is prepended.
func CorrectFreeCashFlow(flows []float64) []float64 {
	if len(flows) == 0 {
		return []float64{0}
	}
	if flows[0] < 0 {
		out := append([]float64(nil), flows...)
		out[0] = 0
		return out
	}
	return append([]float64{0}, flows...)
}

// ResidualValue = last FCF * (1+g) / (k-g)
func (f *FreeCashFlow) ResidualValue() (float64, error) {
	k, g := f.cfg.DiscountRate, f.cfg.GrowthRate
	if k <= g {
		return 0, &contracts.InvalidGrowthAssumptionError{DiscountRate: k, GrowthRate: g}
	}
	fcf := f.FreeCashFlow()
	return fcf[len(fcf)-1] * (1 + g) / (k - g), nil
}

// NPV of the forecast years only
func (f *FreeCashFlow) NPV() float64 {
	return NPV(f.cfg.DiscountRate, f.FreeCashFlow())
}

// NPVWithResidual discounts the residual value as one more period after the forecast.
func (f *FreeCashFlow) NPVWithResidual() (float64, error) {
	rv, err := f.ResidualValue()
	if err != nil {
		return 0, err
	}
	flows := append(f.FreeCashFlow(), rv)
	return NPV(f.cfg.DiscountRate, flows), nil
}

// Breakdown returns the forecast and perpetuity present values with their shares of the total.
func (f *FreeCashFlow) Breakdown() (Breakdown, error) {
	total, err := f.NPVWithResidual()
	if err != nil {
		return Breakdown{}, err
	}
	if total == 0 {
		return Breakdown{}, &contracts.DivisionByZeroError{Ratio: "free_cash_flow_share"}
	}

	forecast := f.NPV()
	perpetuity := total - forecast
	return Breakdown{
		ForecastYears:   len(f.FreeCashFlow()) - 1,
		ForecastPV:      forecast,
		PerpetuityPV:    perpetuity,
		Total:           total,
		ForecastShare:   forecast / total,
		PerpetuityShare: perpetuity / total,
	}, nil
}
