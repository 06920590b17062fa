package ratios

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finratio/internal/contracts"
)

const tolerance = 1e-9

// newRecordSet fills every line item with ones, then applies overrides.
func newRecordSet(t *testing.T, n int, overrides map[contracts.LineItem]contracts.Series) *contracts.RecordSet {
	t.Helper()
	periods := make([]string, n)
	series := make(map[contracts.LineItem]contracts.Series, len(contracts.NumericItems))
	for _, item := range contracts.NumericItems {
		s := make(contracts.Series, n)
		for i := range s {
			s[i] = 1
		}
		series[item] = s
	}
	for i := range periods {
		periods[i] = "31-12-20" + string(rune('0'+i%10)) + "0"
	}
	for item, s := range overrides {
		series[item] = s
	}
	rs, err := contracts.NewRecordSet(periods, series)
	require.NoError(t, err)
	return rs
}

func evaluate(t *testing.T, g Group, rs *contracts.RecordSet) *contracts.RatioResult {
	t.Helper()
	res, err := g.Evaluate(rs)
	require.NoError(t, err)
	return res
}

func get(t *testing.T, res *contracts.RatioResult, name string) contracts.Series {
	t.Helper()
	s, ok := res.Get(name)
	require.True(t, ok, "ratio %s missing", name)
	return s
}

func assertSeries(t *testing.T, want, got contracts.Series) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "period %d", i)
	}
}

func TestCumulativeMean(t *testing.T) {
	assertSeries(t, contracts.Series{10, 15, 20}, CumulativeMean(contracts.Series{10, 20, 30}))
	assert.Empty(t, CumulativeMean(contracts.Series{}))
}

func TestCurrentRatio(t *testing.T) {
	rs := newRecordSet(t, 3, map[contracts.LineItem]contracts.Series{
		contracts.CurrentAssets:      {300, 150, 90},
		contracts.CurrentLiabilities: {100, 60, 45},
	})

	res := evaluate(t, Liquidity(), rs)
	assertSeries(t, contracts.Series{3, 2.5, 2}, get(t, res, CurrentRatio))
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		name      string
		group     Group
		item      contracts.LineItem
		wantRatio string
	}{
		{"current liabilities", Liquidity(), contracts.CurrentLiabilities, QuickRatio},
		{"sales", Liquidity(), contracts.Sales, DaysReceivable},
		{"financial expenses", Solvency(), contracts.FinancialExpenses, InterestCoverage},
		{"pretax income", DuPont(), contracts.PretaxIncome, TaxEffect},
		{"inventory", AssetUtilization(), contracts.Inventory, InventoryTurnover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordSet(t, 2, map[contracts.LineItem]contracts.Series{
				tt.item: {5, 0},
			})
			if tt.item == contracts.Inventory {
				// cumulative mean of {5, -5} is zero at period 1
				rs = newRecordSet(t, 2, map[contracts.LineItem]contracts.Series{
					tt.item: {5, -5},
				})
			}

			_, err := tt.group.Evaluate(rs)
			require.Error(t, err)
			assert.ErrorIs(t, err, contracts.ErrDivisionByZero)

			var divErr *contracts.DivisionByZeroError
			require.True(t, errors.As(err, &divErr))
			assert.Equal(t, tt.wantRatio, divErr.Ratio)
			assert.Equal(t, 1, divErr.Period)
		})
	}
}

func TestLiquidity(t *testing.T) {
	rs := newRecordSet(t, 2, map[contracts.LineItem]contracts.Series{
		contracts.Receivables:        {100, 73},
		contracts.Sales:              {1000, 365},
		contracts.Inventory:          {50, 20},
		contracts.CostOfSales:        {-730, 365},
		contracts.CurrentAssets:      {400, 200},
		contracts.CurrentLiabilities: {200, 100},
	})

	res := evaluate(t, Liquidity(), rs)

	assert.Equal(t, []string{
		DaysReceivable, DaysInventory, QuickRatio, SuperQuickRatio, CurrentRatio, ConversionRatio,
	}, res.Names())
	assertSeries(t, contracts.Series{36.5, 73}, get(t, res, DaysReceivable))
	assertSeries(t, contracts.Series{25, 20}, get(t, res, DaysInventory))
	assertSeries(t, contracts.Series{1.75, 1.8}, get(t, res, QuickRatio))
	assertSeries(t, contracts.Series{1.25, 1.07}, get(t, res, SuperQuickRatio))
	assertSeries(t, contracts.Series{2, 2}, get(t, res, CurrentRatio))
	assertSeries(t, contracts.Series{1.46, 3.65}, get(t, res, ConversionRatio))
}

func TestAssetUtilization(t *testing.T) {
	rs := newRecordSet(t, 3, map[contracts.LineItem]contracts.Series{
		contracts.Inventory:              {10, 20, 30},
		contracts.CostOfSales:            {5, 10, 15},
		contracts.Sales:                  {100, 100, 100},
		contracts.Receivables:            {50, 150, 100},
		contracts.PropertyPlantEquipment: {200, 200, 200},
		contracts.TotalAssets:            {100, 300, 500},
	})

	res := evaluate(t, AssetUtilization(), rs)

	assertSeries(t, contracts.Series{0.5, 10.0 / 15, 0.75}, get(t, res, InventoryTurnover))
	assertSeries(t, contracts.Series{2, 1, 1}, get(t, res, ReceivablesTurnover))
	assertSeries(t, contracts.Series{0.5, 0.5, 0.5}, get(t, res, PPETurnover))
	assertSeries(t, contracts.Series{1, 0.5, 1.0 / 3}, get(t, res, AverageAssetTurnover))

	t.Run("negative cost of sales", func(t *testing.T) {
		rs := newRecordSet(t, 1, map[contracts.LineItem]contracts.Series{
			contracts.Inventory:   {10},
			contracts.CostOfSales: {-5},
		})
		res := evaluate(t, AssetUtilization(), rs)
		assertSeries(t, contracts.Series{0.5}, get(t, res, InventoryTurnover))
	})
}

func TestDuPontIdentity(t *testing.T) {
	rs := newRecordSet(t, 4, map[contracts.LineItem]contracts.Series{
		contracts.TotalAssets:     {1200, 950, 1800, 2400},
		contracts.Equity:          {400, 500, 300, 1600},
		contracts.Sales:           {900, 1100, 700, 3000},
		contracts.NetIncome:       {45, -20, 12.5, 310},
		contracts.PretaxIncome:    {60, -25, 20, 400},
		contracts.OperatingIncome: {80, 10, 35, 420},
	})

	res := evaluate(t, DuPont(), rs)

	netIncome := rs.Series(contracts.NetIncome)
	equity := rs.Series(contracts.Equity)
	roe := get(t, res, ROE)
	extended := get(t, res, ExtendedROE)
	for i := range netIncome {
		assert.InDelta(t, netIncome[i]/equity[i], roe[i], tolerance, "roe period %d", i)
		assert.InDelta(t, netIncome[i]/equity[i], extended[i], tolerance, "extended roe period %d", i)
	}
}

func TestSolvencyAndPerformance(t *testing.T) {
	rs := newRecordSet(t, 1, map[contracts.LineItem]contracts.Series{
		contracts.NonCurrentLiabilities: {300},
		contracts.TotalLiabilities:      {500},
		contracts.TotalAssets:           {1000},
		contracts.Equity:                {500},
		contracts.OperatingIncome:       {120},
		contracts.FinancialExpenses:     {30},
		contracts.NetIncome:             {80},
		contracts.OtherProvisions:       {20},
		contracts.CurrentLiabilities:    {200},
		contracts.Sales:                 {800},
		contracts.CostOfSales:           {600},
		contracts.PretaxIncome:          {100},
	})

	solvency := evaluate(t, Solvency(), rs)
	assertSeries(t, contracts.Series{0.3}, get(t, solvency, NonCurrentLiabilitiesToAssets))
	assertSeries(t, contracts.Series{0.6}, get(t, solvency, NonCurrentLiabilitiesToEquity))
	assertSeries(t, contracts.Series{0.5}, get(t, solvency, LiabilitiesToAssets))
	assertSeries(t, contracts.Series{0.5}, get(t, solvency, EquityToAssets))
	assertSeries(t, contracts.Series{4}, get(t, solvency, InterestCoverage))
	assertSeries(t, contracts.Series{0.3}, get(t, solvency, CashFlowRatio))

	performance := evaluate(t, OperatingPerformance(), rs)
	assertSeries(t, contracts.Series{0.125}, get(t, performance, PretaxMargin))
	assertSeries(t, contracts.Series{0.25}, get(t, performance, GrossMargin))
	assertSeries(t, contracts.Series{0.1}, get(t, performance, NetProfitMargin))
	assertSeries(t, contracts.Series{0.15}, get(t, performance, OperatingMargin))
}

func TestCatalog(t *testing.T) {
	t.Run("default names are unique", func(t *testing.T) {
		c := Default()
		seen := make(map[string]bool)
		for _, item := range contracts.Vocabulary() {
			seen[string(item)] = true
		}
		for _, name := range c.Names() {
			assert.False(t, seen[name], "duplicate column %s", name)
			seen[name] = true
		}
		assert.Len(t, c.Names(), 28)
		assert.Len(t, c.Groups(), 5)
	})

	t.Run("collision with vocabulary", func(t *testing.T) {
		_, err := NewCatalog(Group{
			Name:   "custom",
			Ratios: []Ratio{{string(contracts.Sales), ratioOf(contracts.Sales, contracts.Sales)}},
		})
		assert.ErrorIs(t, err, contracts.ErrDuplicateColumn)
	})

	t.Run("collision across groups", func(t *testing.T) {
		_, err := NewCatalog(OperatingPerformance(), Group{
			Name:   "custom",
			Ratios: []Ratio{{GrossMargin, grossMargin}},
		})
		var dup *contracts.DuplicateColumnError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, GrossMargin, dup.Name)
	})

	t.Run("incomplete ratio", func(t *testing.T) {
		_, err := NewCatalog(Group{Name: "custom", Ratios: []Ratio{{Name: "x"}}})
		assert.Error(t, err)
	})

	t.Run("evaluate stops at first error", func(t *testing.T) {
		rs := newRecordSet(t, 1, map[contracts.LineItem]contracts.Series{
			contracts.Equity: {0},
		})
		_, err := Default().Evaluate(rs)
		var divErr *contracts.DivisionByZeroError
		require.True(t, errors.As(err, &divErr))
		assert.Equal(t, NonCurrentLiabilitiesToEquity, divErr.Ratio)
	})
}

func TestPriorDependency(t *testing.T) {
	// conversion ratio without its inputs earlier in the group
	g := Group{Name: "broken", Ratios: []Ratio{{ConversionRatio, conversionRatio}}}
	_, err := g.Evaluate(newRecordSet(t, 1, nil))
	assert.Error(t, err)
}
