package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wonny/finratio/internal/contracts"
)

// parseCell turns a text cell into float64 when it is a finite number, "" when blank,
// and the trimmed text otherwise.
func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	return v
}

func checkHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("header column %q appears at positions %d and %d", name, prev+1, i+1)
		}
		seen[name] = i
		names[i] = name
	}
	return names, nil
}

func isBlankRow(row []any) bool {
	for _, v := range row {
		if s, ok := v.(string); !ok || s != "" {
			return false
		}
	}
	return true
}

// buildTable assembles row-major cells into a column table.
// Short rows are padded with "", trailing blank rows are dropped.
func buildTable(header []string, rows [][]any) (*contracts.RawTable, error) {
	names, err := checkHeader(header)
	if err != nil {
		return nil, err
	}

	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	columns := make([][]any, len(names))
	for c := range columns {
		columns[c] = make([]any, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(names) && !isBlankRow(row[len(names):]) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", r+2, len(row), len(names))
		}
		for c := range names {
			if c < len(row) {
				columns[c][r] = row[c]
			} else {
				columns[c][r] = ""
			}
		}
	}

	table := contracts.NewRawTable()
	for c, name := range names {
		table.Add(name, columns[c])
	}
	return table, nil
}
