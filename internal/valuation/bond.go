package valuation

import "fmt"

// BondConfig describes a plain coupon bond bought at MarketPrice
type BondConfig struct {
	CouponRate  float64 `yaml:"coupon_rate" json:"coupon_rate" validate:"gte=0"`
	FaceValue   float64 `yaml:"face_value" json:"face_value" validate:"gt=0"`
	Periods     int     `yaml:"periods" json:"periods" validate:"gte=1"`
	MarketPrice float64 `yaml:"market_price" json:"market_price" validate:"gt=0"`
}

// Bond prices a coupon bond and finds its yield
type Bond struct {
	cfg BondConfig
}

// NewBond validates cfg
func NewBond(cfg BondConfig) (*Bond, error) {
	if err := checkConfig(CalculatorBond, cfg); err != nil {
		return nil, err
	}
	return &Bond{cfg: cfg}, nil
}

// Coupon is the payment per period
func (b *Bond) Coupon() float64 {
	return b.cfg.FaceValue * b.cfg.CouponRate
}

// CashFlows returns -price at t=0, a coupon each period, and coupon plus face value at maturity.
func (b *Bond) CashFlows() []float64 {
	flows := make([]float64, 0, b.cfg.Periods+1)
	flows = append(flows, -b.cfg.MarketPrice)
	for t := 1; t < b.cfg.Periods; t++ {
		flows = append(flows, b.Coupon())
	}
	return append(flows, b.cfg.FaceValue*(1+b.cfg.CouponRate))
}

// PriceAt is the present value of the coupon and face payments at rate.
func (b *Bond) PriceAt(rate float64) float64 {
	flows := b.CashFlows()
	flows[0] = 0
	return NPV(rate, flows)
}

// YieldToMaturity is the internal rate of return of CashFlows.
func (b *Bond) YieldToMaturity() (float64, error) {
	ytm, err := IRR(b.CashFlows())
	if err != nil {
		return 0, fmt.Errorf("%s yield to maturity: %w", CalculatorBond, err)
	}
	return ytm, nil
}
