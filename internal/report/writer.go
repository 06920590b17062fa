package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wonny/finratio/internal/contracts"
)

// WriteOptions controls the delimited output
type WriteOptions struct {
	Delimiter rune
	Precision int // decimal places; negative means shortest exact form
}

// DefaultWriteOptions writes comma-separated values at full precision.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: ',', Precision: -1}
}

// FormatValue renders one numeric cell.
func FormatValue(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	d := decimal.NewFromFloat(v)
	if precision < 0 {
		return d.String()
	}
	return d.StringFixed(int32(precision))
}

// WriteCSV writes a header row and one row per period.
func WriteCSV(w io.Writer, table *contracts.UnifiedTable, opts WriteOptions) error {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	writer := csv.NewWriter(w)
	writer.Comma = opts.Delimiter

	columns := table.Columns()
	if err := writer.Write(table.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for row := 0; row < table.Rows(); row++ {
		for c, col := range columns {
			if col.IsText() {
				record[c] = col.Text[row]
			} else {
				record[c] = FormatValue(col.Values[row], opts.Precision)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to path, replacing any existing file.
func WriteFile(path string, table *contracts.UnifiedTable, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, table, opts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
