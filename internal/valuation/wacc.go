package valuation

import (
	"fmt"

	"github.com/wonny/finratio/internal/contracts"
)

// BondHolding is one issue in the firm's bond portfolio
type BondHolding struct {
	Quantity        float64  `yaml:"quantity" json:"quantity" validate:"gte=0"`
	NominalPrice    float64  `yaml:"nominal_price" json:"nominal_price" validate:"gte=0"`
	MarketPrice     float64  `yaml:"market_price" json:"market_price" validate:"gte=0"`
	YieldToMaturity *float64 `yaml:"yield_to_maturity,omitempty" json:"yield_to_maturity,omitempty"`

	// Totals replace quantity * price when the issue is reported in aggregate
	NominalTotal *float64 `yaml:"nominal_total,omitempty" json:"nominal_total,omitempty" validate:"omitempty,gte=0"`
	MarketTotal  *float64 `yaml:"market_total,omitempty" json:"market_total,omitempty" validate:"omitempty,gte=0"`
}

// MarketValue of the issue
func (h BondHolding) MarketValue() float64 {
	if h.MarketTotal != nil {
		return *h.MarketTotal
	}
	return h.Quantity * h.MarketPrice
}

// NominalValue of the issue
func (h BondHolding) NominalValue() float64 {
	if h.NominalTotal != nil {
		return *h.NominalTotal
	}
	return h.Quantity * h.NominalPrice
}

// WACCConfig holds the financing structure of the firm
type WACCConfig struct {
	CommonPrice    float64  `yaml:"common_price" json:"common_price" validate:"gt=0"`
	CommonQuantity float64  `yaml:"common_quantity" json:"common_quantity" validate:"gt=0"`
	MarketPremium  *float64 `yaml:"market_premium" json:"market_premium" validate:"required"`
	TaxRate        *float64 `yaml:"tax_rate" json:"tax_rate" validate:"required,gte=0,lt=1"`
	RiskFreeRate   *float64 `yaml:"risk_free_rate" json:"risk_free_rate" validate:"required"`
	Beta           *float64 `yaml:"beta" json:"beta" validate:"required"`

	// Preferred shares: all three or none
	PreferredPrice    *float64 `yaml:"preferred_price,omitempty" json:"preferred_price,omitempty" validate:"omitempty,gt=0"`
	PreferredQuantity *float64 `yaml:"preferred_quantity,omitempty" json:"preferred_quantity,omitempty" validate:"omitempty,gt=0"`
	PreferredDividend *float64 `yaml:"preferred_dividend,omitempty" json:"preferred_dividend,omitempty" validate:"omitempty,gte=0"`

	// Cost of debt comes from the portfolio YTMs, else ReferenceBondIRR, else ReferenceBond
	Bonds            []BondHolding `yaml:"bonds,omitempty" json:"bonds,omitempty" validate:"dive"`
	ReferenceBondIRR *float64      `yaml:"reference_bond_irr,omitempty" json:"reference_bond_irr,omitempty"`
	ReferenceBond    *BondConfig   `yaml:"reference_bond,omitempty" json:"reference_bond,omitempty"`

	DebtMarketValueOverride *float64 `yaml:"debt_market_value_override,omitempty" json:"debt_market_value_override,omitempty" validate:"omitempty,gte=0"`
}

// CapitalStructure is the market value and weight of each financing source
type CapitalStructure struct {
	Equity    float64
	Preferred float64
	Debt      float64
	Firm      float64

	EquityWeight    float64
	PreferredWeight float64
	DebtWeight      float64
}

// WACC computes the weighted average cost of capital.
//
//	WACC = E/V*Ke + P/V*Kp + (D/V*Kd)*(1-T)
type WACC struct {
	cfg        WACCConfig
	costOfDebt float64
}

// NewWACC validates cfg and resolves the cost of debt.
func NewWACC(cfg WACCConfig) (*WACC, error) {
	if err := checkConfig(CalculatorWACC, cfg); err != nil {
		return nil, err
	}
	if err := checkPreferred(cfg); err != nil {
		return nil, err
	}

	w := &WACC{cfg: cfg}
	w.cfg.Bonds = append([]BondHolding(nil), cfg.Bonds...)

	kd, err := w.resolveCostOfDebt()
	if err != nil {
		return nil, err
	}
	w.costOfDebt = kd
	return w, nil
}

func checkPreferred(cfg WACCConfig) error {
	set := map[string]bool{
		"preferred_price":    cfg.PreferredPrice != nil,
		"preferred_quantity": cfg.PreferredQuantity != nil,
		"preferred_dividend": cfg.PreferredDividend != nil,
	}
	if !set["preferred_price"] && !set["preferred_quantity"] && !set["preferred_dividend"] {
		return nil
	}
	var missing []string
	for _, name := range []string{"preferred_price", "preferred_quantity", "preferred_dividend"} {
		if !set[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &contracts.MissingConfigurationError{Calculator: CalculatorWACC, Fields: missing}
	}
	return nil
}

func (w *WACC) resolveCostOfDebt() (float64, error) {
	if kd, ok, err := w.portfolioYield(); err != nil || ok {
		return kd, err
	}
	if w.cfg.ReferenceBondIRR != nil {
		return *w.cfg.ReferenceBondIRR, nil
	}
	if w.cfg.ReferenceBond != nil {
		bond, err := NewBond(*w.cfg.ReferenceBond)
		if err != nil {
			return 0, err
		}
		ytm, err := bond.YieldToMaturity()
		if err != nil {
			return 0, fmt.Errorf("%s reference bond: %w", CalculatorWACC, err)
		}
		return ytm, nil
	}
	if w.DebtMarketValue() == 0 {
		// all-equity firm: the debt term vanishes
		return 0, nil
	}
	return 0, &contracts.MissingConfigurationError{
		Calculator: CalculatorWACC,
		Fields:     []string{"bonds.yield_to_maturity", "reference_bond_irr", "reference_bond"},
	}
}

// portfolioYield is the market-value weighted YTM, available when every holding has one.
func (w *WACC) portfolioYield() (float64, bool, error) {
	if len(w.cfg.Bonds) == 0 {
		return 0, false, nil
	}
	total := 0.0
	for _, h := range w.cfg.Bonds {
		if h.YieldToMaturity == nil {
			return 0, false, nil
		}
		total += h.MarketValue()
	}
	if total == 0 {
		return 0, false, &contracts.DivisionByZeroError{Ratio: "cost_of_debt"}
	}

	kd := 0.0
	for _, h := range w.cfg.Bonds {
		kd += h.MarketValue() / total * *h.YieldToMaturity
	}
	return kd, true, nil
}

// EquityMarketValue is E
func (w *WACC) EquityMarketValue() float64 {
	return w.cfg.CommonPrice * w.cfg.CommonQuantity
}

// PreferredMarketValue is P, zero without preferred shares
func (w *WACC) PreferredMarketValue() float64 {
	if w.cfg.PreferredPrice == nil {
		return 0
	}
	return *w.cfg.PreferredPrice * *w.cfg.PreferredQuantity
}

// DebtMarketValue is D: the override when set, else the portfolio at market prices
func (w *WACC) DebtMarketValue() float64 {
	if w.cfg.DebtMarketValueOverride != nil {
		return *w.cfg.DebtMarketValueOverride
	}
	total := 0.0
	for _, h := range w.cfg.Bonds {
		total += h.MarketValue()
	}
	return total
}

// DebtNominalValue is the portfolio at face value
func (w *WACC) DebtNominalValue() float64 {
	total := 0.0
	for _, h := range w.cfg.Bonds {
		total += h.NominalValue()
	}
	return total
}

// FirmMarketValue is V = E + P + D
func (w *WACC) FirmMarketValue() float64 {
	return w.EquityMarketValue() + w.PreferredMarketValue() + w.DebtMarketValue()
}

// CostOfEquity is Ke = rf + beta * premium (CAPM)
func (w *WACC) CostOfEquity() float64 {
	return *w.cfg.RiskFreeRate + *w.cfg.Beta**w.cfg.MarketPremium
}

// CostOfPreferred is Kp = dividend / price, zero without preferred shares
func (w *WACC) CostOfPreferred() float64 {
	if w.cfg.PreferredPrice == nil {
		return 0
	}
	return *w.cfg.PreferredDividend / *w.cfg.PreferredPrice
}

// CostOfDebt is Kd before tax. Holding YTMs are weighted by market value over the sum of the
// holdings, not over DebtMarketValue, so an override does not change Kd.
// With zero debt and no rate source Kd is 0; with debt and no source NewWACC fails.
func (w *WACC) CostOfDebt() float64 {
	return w.costOfDebt
}

// TaxShield is 1 - T
func (w *WACC) TaxShield() float64 {
	return 1 - *w.cfg.TaxRate
}

// Structure returns market values and their weights in V
func (w *WACC) Structure() CapitalStructure {
	e, p, d, v := w.EquityMarketValue(), w.PreferredMarketValue(), w.DebtMarketValue(), w.FirmMarketValue()
	return CapitalStructure{
		Equity:          e,
		Preferred:       p,
		Debt:            d,
		Firm:            v,
		EquityWeight:    e / v,
		PreferredWeight: p / v,
		DebtWeight:      d / v,
	}
}

// Result is the weighted average cost of capital. The tax shield applies to the debt term only.
func (w *WACC) Result() float64 {
	s := w.Structure()
	return s.EquityWeight*w.CostOfEquity() +
		s.PreferredWeight*w.CostOfPreferred() +
		(s.DebtWeight*w.CostOfDebt())*w.TaxShield()
}
