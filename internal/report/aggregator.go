package report

import (
	"fmt"

	"github.com/wonny/finratio/internal/contracts"
	"github.com/wonny/finratio/internal/ratios"
	"github.com/wonny/finratio/pkg/logger"
)

// Aggregator merges the record set and every ratio group into one table.
// ⭐ SSOT: 결과 테이블 컬럼 순서 = period → 입력 항목 → 그룹 순서의 비율
type Aggregator struct {
	catalog *ratios.Catalog
	log     *logger.Logger
}

// NewAggregator creates an Aggregator. A nil catalog means ratios.Default().
func NewAggregator(catalog *ratios.Catalog, log *logger.Logger) *Aggregator {
	if catalog == nil {
		catalog = ratios.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		catalog: catalog,
		log:     log.WithComponent("report"),
	}
}

// Aggregate implements contracts.TableAggregator.
func (a *Aggregator) Aggregate(rs *contracts.RecordSet) (*contracts.UnifiedTable, error) {
	table := contracts.NewUnifiedTable(rs.Len())

	if err := table.AddText(string(contracts.Period), rs.Periods()); err != nil {
		return nil, err
	}
	for _, item := range contracts.NumericItems {
		if err := table.AddSeries(string(item), rs.Series(item)); err != nil {
			return nil, err
		}
	}

	for _, g := range a.catalog.Groups() {
		result, err := g.Evaluate(rs)
		if err != nil {
			return nil, err
		}
		for _, entry := range result.Entries() {
			if err := table.AddSeries(entry.Name, entry.Values); err != nil {
				return nil, fmt.Errorf("%s group: %w", g.Name, err)
			}
		}
		a.log.WithFields(map[string]interface{}{
			"group":  g.Name,
			"ratios": len(result.Names()),
		}).Debug("ratio group evaluated")
	}

	return table, nil
}

// Compile-time check
var _ contracts.TableAggregator = (*Aggregator)(nil)
