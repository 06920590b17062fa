package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/finratio/internal/contracts"
)

const utf8BOM = "\ufeff"

func (r *Reader) decodeCSV(in io.Reader) (*contracts.RawTable, error) {
	reader := csv.NewReader(in)
	reader.Comma = r.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	rows := make([][]any, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = parseCell(cell)
		}
		rows[i] = row
	}

	return buildTable(header, rows)
}
