package scenario

import (
	"fmt"

	"github.com/wonny/finratio/internal/valuation"
)

// WACCResult is the evaluated wacc section
type WACCResult struct {
	Structure       valuation.CapitalStructure
	CostOfEquity    float64
	CostOfPreferred float64
	CostOfDebt      float64
	TaxShield       float64
	WACC            float64
}

// BondResult is the evaluated bond section
type BondResult struct {
	Coupon          float64
	CashFlows       []float64
	YieldToMaturity float64
}

// StockResult is the evaluated stock section
type StockResult struct {
	Period      int
	Value       float64
	CapitalGain float64
	Forecast    []valuation.GrowthValue
}

// FreeCashFlowResult is the evaluated free_cash_flow section
type FreeCashFlowResult struct {
	EBITDA          []float64
	FreeCashFlow    []float64
	ResidualValue   float64
	NPV             float64
	NPVWithResidual float64
	Breakdown       valuation.Breakdown
}

// Result holds one entry per section present in the scenario
type Result struct {
	WACC         *WACCResult
	Bond         *BondResult
	Stock        *StockResult
	FreeCashFlow *FreeCashFlowResult
}

// Evaluate runs every calculator whose section is present. The first failure aborts.
func Evaluate(s *Scenario) (*Result, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	res := &Result{}
	var err error
	if s.WACC != nil {
		if res.WACC, err = evaluateWACC(*s.WACC); err != nil {
			return nil, fmt.Errorf("%s: %w", SectionWACC, err)
		}
	}
	if s.Bond != nil {
		if res.Bond, err = evaluateBond(*s.Bond); err != nil {
			return nil, fmt.Errorf("%s: %w", SectionBond, err)
		}
	}
	if s.Stock != nil {
		if res.Stock, err = evaluateStock(*s.Stock); err != nil {
			return nil, fmt.Errorf("%s: %w", SectionStock, err)
		}
	}
	if s.FreeCashFlow != nil {
		if res.FreeCashFlow, err = evaluateFreeCashFlow(*s.FreeCashFlow); err != nil {
			return nil, fmt.Errorf("%s: %w", SectionFreeCashFlow, err)
		}
	}
	return res, nil
}

func evaluateWACC(cfg valuation.WACCConfig) (*WACCResult, error) {
	w, err := valuation.NewWACC(cfg)
	if err != nil {
		return nil, err
	}
	return &WACCResult{
		Structure:       w.Structure(),
		CostOfEquity:    w.CostOfEquity(),
		CostOfPreferred: w.CostOfPreferred(),
		CostOfDebt:      w.CostOfDebt(),
		TaxShield:       w.TaxShield(),
		WACC:            w.Result(),
	}, nil
}

func evaluateBond(cfg valuation.BondConfig) (*BondResult, error) {
	b, err := valuation.NewBond(cfg)
	if err != nil {
		return nil, err
	}
	ytm, err := b.YieldToMaturity()
	if err != nil {
		return nil, err
	}
	return &BondResult{Coupon: b.Coupon(), CashFlows: b.CashFlows(), YieldToMaturity: ytm}, nil
}

func evaluateStock(cfg valuation.StockConfig) (*StockResult, error) {
	s, err := valuation.NewCommonStock(cfg)
	if err != nil {
		return nil, err
	}
	value, err := s.Value()
	if err != nil {
		return nil, err
	}
	gain, err := s.CapitalGain()
	if err != nil {
		return nil, err
	}
	forecast, err := s.Forecast()
	if err != nil {
		return nil, err
	}
	return &StockResult{Period: s.Period(), Value: value, CapitalGain: gain, Forecast: forecast}, nil
}

func evaluateFreeCashFlow(cfg valuation.FreeCashFlowConfig) (*FreeCashFlowResult, error) {
	f, err := valuation.NewFreeCashFlow(cfg)
	if err != nil {
		return nil, err
	}
	rv, err := f.ResidualValue()
	if err != nil {
		return nil, err
	}
	withResidual, err := f.NPVWithResidual()
	if err != nil {
		return nil, err
	}
	breakdown, err := f.Breakdown()
	if err != nil {
		return nil, err
	}
	return &FreeCashFlowResult{
		EBITDA:          f.EBITDA(),
		FreeCashFlow:    f.FreeCashFlow(),
		ResidualValue:   rv,
		NPV:             f.NPV(),
		NPVWithResidual: withResidual,
		Breakdown:       breakdown,
	}, nil
}
