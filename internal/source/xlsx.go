package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/finratio/internal/contracts"
)

// builtinDateFormats are the built-in number format IDs that render a date or time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// decodeXLSX reads the configured sheet. Numeric cells carrying a date format are
// returned as epoch milliseconds, the same shape a spreadsheet JSON export gives.
func (r *Reader) decodeXLSX(in io.Reader) (*contracts.RawTable, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := r.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: no header row", sheet)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := &dateStyles{file: f, known: make(map[int]bool)}
	cells := make([][]any, len(rows)-1)
	for i, row := range rows[1:] {
		cells[i] = make([]any, len(row))
		for j, text := range row {
			v := parseCell(text)
			if serial, ok := v.(float64); ok {
				ref, err := excelize.CoordinatesToCellName(j+1, i+2)
				if err != nil {
					return nil, err
				}
				if dates.isDate(sheet, ref) {
					if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
						v = float64(t.UnixMilli())
					}
				}
			}
			cells[i][j] = v
		}
	}

	r.log.WithFields(map[string]interface{}{
		"sheet":     sheet,
		"date_1904": date1904,
	}).Debug("workbook sheet loaded")

	return buildTable(rows[0], cells)
}

func (r *Reader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if r.opts.Sheet == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == r.opts.Sheet {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (have %s)", r.opts.Sheet, strings.Join(sheets, ", "))
}

// dateStyles caches the date/non-date decision per style ID.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d *dateStyles) isDate(sheet, ref string) bool {
	id, err := d.file.GetCellStyle(sheet, ref)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := d.known[id]; ok {
		return v
	}

	isDate := false
	if style, err := d.file.GetStyle(id); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			isDate = isDateFormatCode(*style.CustomNumFmt)
		default:
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	d.known[id] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format renders a date.
// Quoted literals, escaped characters and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	runes := []rune(strings.ToLower(code))
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		default:
			b.WriteRune(c)
		}
	}
	return strings.ContainsAny(b.String(), "ydm")
}
