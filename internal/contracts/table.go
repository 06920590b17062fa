package contracts

// Column is one column of the unified table. Text columns (the period axis) carry Text;
// numeric columns carry Values.
type Column struct {
	Name   string
	Text   []string
	Values Series
}

// IsText reports whether the column holds labels rather than numbers.
func (c Column) IsText() bool {
	return c.Text != nil
}

// UnifiedTable is the terminal artifact: raw fields then computed ratios, one row per period.
// Column names are unique; adding an existing name is an error rather than an overwrite.
type UnifiedTable struct {
	rows    int
	columns []Column
	index   map[string]int
}

// NewUnifiedTable creates an empty table with a fixed number of rows
func NewUnifiedTable(rows int) *UnifiedTable {
	return &UnifiedTable{
		rows:  rows,
		index: make(map[string]int),
	}
}

// AddText appends a label column.
func (t *UnifiedTable) AddText(name string, values []string) error {
	if err := t.checkColumn(name, len(values)); err != nil {
		return err
	}
	t.append(Column{Name: name, Text: append([]string{}, values...)})
	return nil
}

// AddSeries appends a numeric column.
func (t *UnifiedTable) AddSeries(name string, values Series) error {
	if err := t.checkColumn(name, len(values)); err != nil {
		return err
	}
	v := values.Clone()
	if v == nil {
		v = Series{}
	}
	t.append(Column{Name: name, Values: v})
	return nil
}

func (t *UnifiedTable) checkColumn(name string, n int) error {
	if _, exists := t.index[name]; exists {
		return &DuplicateColumnError{Name: name}
	}
	if n != t.rows {
		return &LengthMismatchError{Field: name, Expected: t.rows, Got: n}
	}
	return nil
}

func (t *UnifiedTable) append(c Column) {
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
}

// Rows returns the number of periods.
func (t *UnifiedTable) Rows() int {
	return t.rows
}

// Names returns column names in output order.
func (t *UnifiedTable) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in output order.
func (t *UnifiedTable) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by name.
func (t *UnifiedTable) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Value returns a numeric cell; ok is false for unknown or text columns and out-of-range rows.
func (t *UnifiedTable) Value(name string, row int) (float64, bool) {
	c, ok := t.Column(name)
	if !ok || c.IsText() || row < 0 || row >= len(c.Values) {
		return 0, false
	}
	return c.Values[row], true
}
