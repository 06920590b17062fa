package ratios

import (
	"math"

	"github.com/wonny/finratio/internal/contracts"
)

// Element-wise helpers. All inputs come from one RecordSet, so lengths always match.

func divide(num, den contracts.Series) (contracts.Series, error) {
	out := make(contracts.Series, len(num))
	for i := range num {
		if den[i] == 0 {
			return nil, &contracts.DivisionByZeroError{Period: i}
		}
		out[i] = num[i] / den[i]
	}
	return out, nil
}

func multiply(first contracts.Series, rest ...contracts.Series) contracts.Series {
	out := first.Clone()
	for _, s := range rest {
		for i := range out {
			out[i] *= s[i]
		}
	}
	return out
}

func subtract(a, b contracts.Series) contracts.Series {
	out := make(contracts.Series, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func scale(s contracts.Series, k float64) contracts.Series {
	out := make(contracts.Series, len(s))
	for i, v := range s {
		out[i] = v * k
	}
	return out
}

func absolute(s contracts.Series) contracts.Series {
	out := make(contracts.Series, len(s))
	for i, v := range s {
		out[i] = math.Abs(v)
	}
	return out
}

// CumulativeMean returns the running average over periods 0..i for each i.
func CumulativeMean(s contracts.Series) contracts.Series {
	out := make(contracts.Series, len(s))
	sum := 0.0
	for i, v := range s {
		sum += v
		out[i] = sum / float64(i+1)
	}
	return out
}

// ratioOf builds a ComputeFunc for num/den over two line items.
func ratioOf(num, den contracts.LineItem) ComputeFunc {
	return func(rs *contracts.RecordSet, _ *contracts.RatioResult) (contracts.Series, error) {
		return divide(rs.Series(num), rs.Series(den))
	}
}
