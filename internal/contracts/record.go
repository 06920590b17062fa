package contracts

import "sort"

// LineItem names one accounting line item (one input column).
type LineItem string

// Period is the date axis; everything else is a numeric series.
const (
	Period LineItem = "period"

	// Balance sheet: assets
	Receivables            LineItem = "receivables"
	Cash                   LineItem = "cash"
	Inventory              LineItem = "inventory"
	PropertyPlantEquipment LineItem = "property_plant_equipment"
	CurrentAssets          LineItem = "current_assets"
	NonCurrentAssets       LineItem = "non_current_assets"
	TotalAssets            LineItem = "total_assets"

	// Balance sheet: liabilities and equity
	OtherProvisions       LineItem = "other_provisions"
	CurrentLiabilities    LineItem = "current_liabilities"
	NonCurrentLiabilities LineItem = "non_current_liabilities"
	TotalLiabilities      LineItem = "total_liabilities"
	Equity                LineItem = "equity"

	// Income statement
	Sales             LineItem = "sales"
	CostOfSales       LineItem = "cost_of_sales"
	FinancialExpenses LineItem = "financial_expenses"
	OperatingIncome   LineItem = "operating_income"
	PretaxIncome      LineItem = "pretax_income"
	NetIncome         LineItem = "net_income"
)

// NumericItems lists the numeric line items in construction order.
// The output table uses this order for its raw columns.
var NumericItems = []LineItem{
	Receivables,
	Cash,
	Inventory,
	PropertyPlantEquipment,
	CurrentAssets,
	NonCurrentAssets,
	TotalAssets,
	OtherProvisions,
	CurrentLiabilities,
	NonCurrentLiabilities,
	TotalLiabilities,
	Equity,
	Sales,
	CostOfSales,
	FinancialExpenses,
	OperatingIncome,
	PretaxIncome,
	NetIncome,
}

// Vocabulary returns the full input schema: period first, then NumericItems.
func Vocabulary() []LineItem {
	items := make([]LineItem, 0, len(NumericItems)+1)
	items = append(items, Period)
	return append(items, NumericItems...)
}

// IsLineItem reports whether name belongs to the input vocabulary.
func IsLineItem(name string) bool {
	for _, item := range Vocabulary() {
		if string(item) == name {
			return true
		}
	}
	return false
}

// RawTable is the untyped output of a tabular source: column name to ordered cell values.
// Cells are float64 for numbers and string for everything else (empty cells are "").
type RawTable struct {
	columns []string
	values  map[string][]any
}

// NewRawTable creates an empty table
func NewRawTable() *RawTable {
	return &RawTable{values: make(map[string][]any)}
}

// Add appends a column, or replaces the values of an existing one keeping its position.
func (t *RawTable) Add(name string, values []any) {
	if _, exists := t.values[name]; !exists {
		t.columns = append(t.columns, name)
	}
	t.values[name] = values
}

// Columns returns column names in read order.
func (t *RawTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the raw values of one column.
func (t *RawTable) Column(name string) ([]any, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Rows returns the length of the longest column.
func (t *RawTable) Rows() int {
	rows := 0
	for _, v := range t.values {
		if len(v) > rows {
			rows = len(v)
		}
	}
	return rows
}

// RecordSet is a validated, immutable set of line-item series sharing one period axis.
// ⭐ SSOT: 검증된 재무제표 데이터는 이 타입으로만 전달
type RecordSet struct {
	periods []string
	series  map[LineItem]Series
}

// NewRecordSet checks that every numeric line item is present and aligned with periods.
func NewRecordSet(periods []string, series map[LineItem]Series) (*RecordSet, error) {
	var missing []string
	for _, item := range NumericItems {
		if _, ok := series[item]; !ok {
			missing = append(missing, string(item))
		}
	}
	var extra []string
	for item := range series {
		if !IsLineItem(string(item)) || item == Period {
			extra = append(extra, string(item))
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return nil, &SchemaValidationError{Missing: missing, Extra: extra}
	}

	if len(periods) == 0 {
		return nil, &LengthMismatchError{Field: string(Period), Expected: 1, Got: 0}
	}

	rs := &RecordSet{
		periods: append([]string(nil), periods...),
		series:  make(map[LineItem]Series, len(series)),
	}
	for _, item := range NumericItems {
		s := series[item]
		if len(s) != len(periods) {
			return nil, &LengthMismatchError{Field: string(item), Expected: len(periods), Got: len(s)}
		}
		rs.series[item] = s.Clone()
	}
	return rs, nil
}

// Len returns the number of periods.
func (r *RecordSet) Len() int {
	return len(r.periods)
}

// Periods returns the calendar-date labels of each period.
func (r *RecordSet) Periods() []string {
	return append([]string(nil), r.periods...)
}

// Series returns a copy of one line item's values (nil for unknown items).
func (r *RecordSet) Series(item LineItem) Series {
	return r.series[item].Clone()
}
