package ratios

import (
	"errors"
	"fmt"

	"github.com/wonny/finratio/internal/contracts"
)

// ComputeFunc computes one ratio for every period.
// prior holds the outputs of the ratios listed earlier in the same group.
type ComputeFunc func(rs *contracts.RecordSet, prior *contracts.RatioResult) (contracts.Series, error)

// Ratio is a named entry of the catalog
type Ratio struct {
	Name    string
	Compute ComputeFunc
}

// Group is an ordered set of ratios. Later ratios may read earlier ones from prior.
type Group struct {
	Name   string
	Ratios []Ratio
}

// Evaluate runs the group's ratios in order.
// The first failing ratio aborts the group; division errors carry the ratio name.
func (g Group) Evaluate(rs *contracts.RecordSet) (*contracts.RatioResult, error) {
	result := contracts.NewRatioResult(g.Name)
	for _, r := range g.Ratios {
		values, err := r.Compute(rs, result)
		if err != nil {
			var divErr *contracts.DivisionByZeroError
			if errors.As(err, &divErr) && divErr.Ratio == "" {
				divErr.Ratio = r.Name
			}
			return nil, fmt.Errorf("%s group: %w", g.Name, err)
		}
		if len(values) != rs.Len() {
			return nil, fmt.Errorf("%s group: %w", g.Name,
				&contracts.LengthMismatchError{Field: r.Name, Expected: rs.Len(), Got: len(values)})
		}
		if err := result.Set(r.Name, values); err != nil {
			return nil, fmt.Errorf("%s group: %w", g.Name, err)
		}
	}
	return result, nil
}

// Catalog is the explicit registry of ratio groups, evaluated in construction order.
// ⭐ SSOT: 비율 이름은 입력 항목 및 다른 그룹과 절대 중복되지 않음
type Catalog struct {
	groups []Group
}

// NewCatalog checks that every ratio name is non-empty and unique across the
// input vocabulary and all groups.
func NewCatalog(groups ...Group) (*Catalog, error) {
	taken := make(map[string]bool)
	for _, item := range contracts.Vocabulary() {
		taken[string(item)] = true
	}

	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("ratio group without a name")
		}
		for _, r := range g.Ratios {
			if r.Name == "" || r.Compute == nil {
				return nil, fmt.Errorf("%s group: ratio %q is incomplete", g.Name, r.Name)
			}
			if taken[r.Name] {
				return nil, fmt.Errorf("%s group: %w", g.Name, &contracts.DuplicateColumnError{Name: r.Name})
			}
			taken[r.Name] = true
		}
	}

	return &Catalog{groups: append([]Group(nil), groups...)}, nil
}

// Default returns the standard five groups:
// liquidity, solvency, operating performance, DuPont and asset utilization.
func Default() *Catalog {
	c, err := NewCatalog(
		Liquidity(),
		Solvency(),
		OperatingPerformance(),
		DuPont(),
		AssetUtilization(),
	)
	if err != nil {
		panic(fmt.Sprintf("default ratio catalog: %v", err))
	}
	return c
}

// Groups returns the groups in evaluation order.
func (c *Catalog) Groups() []Group {
	return append([]Group(nil), c.groups...)
}

// Names returns every ratio name in group-then-function order.
func (c *Catalog) Names() []string {
	var names []string
	for _, g := range c.groups {
		for _, r := range g.Ratios {
			names = append(names, r.Name)
		}
	}
	return names
}

// Evaluate runs every group in order and stops at the first error.
func (c *Catalog) Evaluate(rs *contracts.RecordSet) ([]*contracts.RatioResult, error) {
	results := make([]*contracts.RatioResult, 0, len(c.groups))
	for _, g := range c.groups {
		res, err := g.Evaluate(rs)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// fromPrior reads an already computed ratio of the same group.
func fromPrior(prior *contracts.RatioResult, name string) (contracts.Series, error) {
	s, ok := prior.Get(name)
	if !ok {
		return nil, fmt.Errorf("%s has not been computed yet", name)
	}
	return s, nil
}
