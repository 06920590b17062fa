package valuation

import (
	"math"

	"github.com/wonny/finratio/internal/contracts"
)

const (
	irrGuess         = 0.1
	irrTolerance     = 1e-12
	irrMaxIterations = 100
	bisectMaxIter    = 500
)

// NPV discounts flows at rate with the first flow at t=0 (undiscounted),
// the spreadsheet convention.
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	factor := 1.0
	for _, f := range flows {
		total += f / factor
		factor *= 1 + rate
	}
	return total
}

// npvDerivative is d(NPV)/d(rate).
func npvDerivative(rate float64, flows []float64) float64 {
	total := 0.0
	for t, f := range flows {
		if t == 0 {
			continue
		}
		total -= float64(t) * f / math.Pow(1+rate, float64(t+1))
	}
	return total
}

// IRR returns the rate at which NPV(rate, flows) is zero.
// Newton's method runs first; bisection over a widening bracket is the fallback.
func IRR(flows []float64) (float64, error) {
	if !changesSign(flows) {
		return 0, &contracts.ConvergenceError{Reason: "cash flows never change sign"}
	}

	if rate, ok := newton(flows); ok {
		return rate, nil
	}
	return bisect(flows)
}

func changesSign(flows []float64) bool {
	pos, neg := false, false
	for _, f := range flows {
		switch {
		case f > 0:
			pos = true
		case f < 0:
			neg = true
		}
	}
	return pos && neg
}

func newton(flows []float64) (float64, bool) {
	rate := irrGuess
	for i := 0; i < irrMaxIterations; i++ {
		value := NPV(rate, flows)
		slope := npvDerivative(rate, flows)
		if slope == 0 || math.IsNaN(slope) {
			return 0, false
		}
		next := rate - value/slope
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-rate) < irrTolerance {
			return next, true
		}
		rate = next
	}
	return 0, false
}

func bisect(flows []float64) (float64, error) {
	lo, hi := -0.999999, 1.0
	fLo, fHi := NPV(lo, flows), NPV(hi, flows)
	for fLo*fHi > 0 && hi < 1e6 {
		hi *= 2
		fHi = NPV(hi, flows)
	}
	if fLo*fHi > 0 {
		return 0, &contracts.ConvergenceError{Reason: "no rate in (-1, 1e6) brackets a root"}
	}

	for i := 0; i < bisectMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if fMid == 0 || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, &contracts.ConvergenceError{Iterations: bisectMaxIter, Reason: "bisection did not narrow the bracket"}
}
