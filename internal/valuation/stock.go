package valuation

import (
	"math"

	"github.com/wonny/finratio/internal/contracts"
)

// StockConfig drives the Gordon growth valuation of a common share
type StockConfig struct {
	ExpectedDividend float64   `yaml:"expected_dividend" json:"expected_dividend" validate:"gt=0"`
	DiscountRate     float64   `yaml:"discount_rate" json:"discount_rate" validate:"gt=0"`
	GrowthRate       float64   `yaml:"growth_rate" json:"growth_rate"`
	Period           *int      `yaml:"period,omitempty" json:"period,omitempty" validate:"omitempty,gte=0"` // nil means 1
	GrowthScenarios  []float64 `yaml:"growth_scenarios,omitempty" json:"growth_scenarios,omitempty"`
}

// GrowthValue is the share value under one alternative growth rate
type GrowthValue struct {
	GrowthRate float64
	Value      float64
}

// CommonStock values a share as a growing perpetuity of dividends
type CommonStock struct {
	cfg    StockConfig
	period int
}

// NewCommonStock validates cfg
func NewCommonStock(cfg StockConfig) (*CommonStock, error) {
	if err := checkConfig(CalculatorStock, cfg); err != nil {
		return nil, err
	}
	period := 1
	if cfg.Period != nil {
		period = *cfg.Period
	}
	cfg.Period = nil
	cfg.GrowthScenarios = append([]float64(nil), cfg.GrowthScenarios...)
	return &CommonStock{cfg: cfg, period: period}, nil
}

// Period is the number of growth periods applied to the dividend
func (s *CommonStock) Period() int {
	return s.period
}

// Value = D * (1+g)^period / (k - g)
func (s *CommonStock) Value() (float64, error) {
	return s.valueAt(s.cfg.GrowthRate, s.cfg.GrowthRate)
}

// CapitalGain is the value change over one more period of growth.
func (s *CommonStock) CapitalGain() (float64, error) {
	v, err := s.Value()
	if err != nil {
		return 0, err
	}
	return v*(1+s.cfg.GrowthRate) - v, nil
}

// Forecast values the share under each alternative growth rate.
// The dividend keeps growing at the base rate; only the denominator uses the alternative.
func (s *CommonStock) Forecast() ([]GrowthValue, error) {
	out := make([]GrowthValue, 0, len(s.cfg.GrowthScenarios))
	for _, g := range s.cfg.GrowthScenarios {
		v, err := s.valueAt(s.cfg.GrowthRate, g)
		if err != nil {
			return nil, err
		}
		out = append(out, GrowthValue{GrowthRate: g, Value: v})
	}
	return out, nil
}

// valueAt = D * (1+dividendGrowth)^period / (k - discountGrowth)
func (s *CommonStock) valueAt(dividendGrowth, discountGrowth float64) (float64, error) {
	k := s.cfg.DiscountRate
	if k <= discountGrowth {
		return 0, &contracts.InvalidGrowthAssumptionError{DiscountRate: k, GrowthRate: discountGrowth}
	}
	return s.cfg.ExpectedDividend * math.Pow(1+dividendGrowth, float64(s.period)) / (k - discountGrowth), nil
}
