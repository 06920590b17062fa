package contracts

// Series is an ordered sequence of values, one per reporting period.
// Index i refers to the same period across every series of a dataset.
type Series []float64

// Clone returns an independent copy
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// NamedSeries pairs a column name with its values.
type NamedSeries struct {
	Name   string
	Values Series
}

// RatioResult holds one group's outputs in function order.
type RatioResult struct {
	Group   string
	entries []NamedSeries
	index   map[string]int
}

// NewRatioResult creates an empty result for a group
func NewRatioResult(group string) *RatioResult {
	return &RatioResult{
		Group: group,
		index: make(map[string]int),
	}
}

// Set records a ratio's output. Names must be unique within the group.
func (r *RatioResult) Set(name string, values Series) error {
	if _, exists := r.index[name]; exists {
		return &DuplicateColumnError{Name: name}
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, NamedSeries{Name: name, Values: values.Clone()})
	return nil
}

// Get returns a copy of a previously computed ratio.
func (r *RatioResult) Get(name string) (Series, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Values.Clone(), true
}

// Names returns ratio names in function order.
func (r *RatioResult) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns the ratios in function order.
func (r *RatioResult) Entries() []NamedSeries {
	out := make([]NamedSeries, len(r.entries))
	for i, e := range r.entries {
		out[i] = NamedSeries{Name: e.Name, Values: e.Values.Clone()}
	}
	return out
}
