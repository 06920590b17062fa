package validate

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/finratio/internal/contracts"
	"github.com/wonny/finratio/pkg/logger"
)

// Epoch-millisecond bounds of years 1..9999 in UTC.
const (
	minEpochMillis = -62135596800000
	maxEpochMillis = 253402300799999
)

// Options controls date rendering and schema strictness
type Options struct {
	DateLayout        string
	Location          *time.Location
	AllowExtraColumns bool
}

// DefaultOptions renders periods as DD-MM-YYYY in UTC and rejects unknown columns.
func DefaultOptions() Options {
	return Options{
		DateLayout: "02-01-2006",
		Location:   time.UTC,
	}
}

// Validator turns a RawTable into a RecordSet.
// ⭐ SSOT: 스키마 → 길이 → 날짜 → 숫자 순서로 검증
type Validator struct {
	opts Options
	log  *logger.Logger
}

// New creates a Validator. Zero-valued options fall back to DefaultOptions.
func New(opts Options, log *logger.Logger) *Validator {
	def := DefaultOptions()
	if opts.DateLayout == "" {
		opts.DateLayout = def.DateLayout
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Validator{
		opts: opts,
		log:  log.WithComponent("validate"),
	}
}

// Validate implements contracts.RecordValidator.
func (v *Validator) Validate(raw *contracts.RawTable) (*contracts.RecordSet, error) {
	if err := v.checkSchema(raw); err != nil {
		return nil, err
	}

	periodCells, _ := raw.Column(string(contracts.Period))
	n := len(periodCells)
	if n == 0 {
		return nil, &contracts.LengthMismatchError{Field: string(contracts.Period), Expected: 1, Got: 0}
	}
	for _, item := range contracts.NumericItems {
		cells, _ := raw.Column(string(item))
		if len(cells) != n {
			return nil, &contracts.LengthMismatchError{Field: string(item), Expected: n, Got: len(cells)}
		}
	}

	periods, err := v.convertPeriods(periodCells)
	if err != nil {
		return nil, err
	}

	series := make(map[contracts.LineItem]contracts.Series, len(contracts.NumericItems))
	for _, item := range contracts.NumericItems {
		cells, _ := raw.Column(string(item))
		s, err := coerceSeries(string(item), cells)
		if err != nil {
			return nil, err
		}
		series[item] = s
	}

	rs, err := contracts.NewRecordSet(periods, series)
	if err != nil {
		return nil, err
	}

	v.log.WithFields(map[string]interface{}{
		"periods": rs.Len(),
		"first":   periods[0],
		"last":    periods[len(periods)-1],
	}).Debug("record set validated")

	return rs, nil
}

func (v *Validator) checkSchema(raw *contracts.RawTable) error {
	present := make(map[string]bool)
	var extra []string
	for _, name := range raw.Columns() {
		present[name] = true
		if !contracts.IsLineItem(name) {
			extra = append(extra, name)
		}
	}

	var missing []string
	for _, item := range contracts.Vocabulary() {
		if !present[string(item)] {
			missing = append(missing, string(item))
		}
	}

	if v.opts.AllowExtraColumns && len(extra) > 0 {
		v.log.WithField("columns", extra).Debug("ignoring columns outside the vocabulary")
		extra = nil
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return &contracts.SchemaValidationError{Missing: missing, Extra: extra}
}

// convertPeriods renders epoch-millisecond timestamps as calendar dates.
func (v *Validator) convertPeriods(cells []any) ([]string, error) {
	field := string(contracts.Period)
	out := make([]string, len(cells))
	for row, cell := range cells {
		ms, ok := toNumber(cell)
		if !ok {
			return nil, &contracts.DateConversionError{Field: field, Row: row, Value: cell, Reason: "not a number"}
		}
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return nil, &contracts.DateConversionError{Field: field, Row: row, Value: cell, Reason: "not finite"}
		}
		if ms < minEpochMillis || ms > maxEpochMillis {
			return nil, &contracts.DateConversionError{Field: field, Row: row, Value: cell, Reason: "outside years 1..9999"}
		}

		t := time.UnixMilli(int64(math.Floor(ms))).In(v.opts.Location)
		if y := t.Year(); y < 1 || y > 9999 {
			return nil, &contracts.DateConversionError{Field: field, Row: row, Value: cell, Reason: "outside years 1..9999"}
		}
		out[row] = t.Format(v.opts.DateLayout)
	}
	return out, nil
}

func coerceSeries(field string, cells []any) (contracts.Series, error) {
	out := make(contracts.Series, len(cells))
	for row, cell := range cells {
		f, ok := toNumber(cell)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &contracts.TypeCoercionError{Field: field, Row: row, Value: cell}
		}
		out[row] = f
	}
	return out, nil
}

// toNumber accepts numbers and plain numeric text. Thousands separators and blanks are rejected.
func toNumber(cell any) (float64, bool) {
	switch x := cell.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Compile-time check
var _ contracts.RecordValidator = (*Validator)(nil)
