package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/finratio/internal/contracts"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func column(t *testing.T, table *contracts.RawTable, name string) []any {
	t.Helper()
	v, ok := table.Column(name)
	require.True(t, ok, "column %s missing", name)
	return v
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data.xlsx", FormatXLSX, false},
		{"DATA.XLSM", FormatXLSX, false},
		{"data.csv", FormatCSV, false},
		{"export.json", FormatJSON, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_CSV(t *testing.T) {
	path := writeFile(t, "balance.csv",
		"\ufeffperiod,sales,note\n"+
			"1672531200000,100.5,first\n"+
			"1704067200000,-20\n"+
			",,\n")

	table, err := NewReader(Options{}, nil).Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"period", "sales", "note"}, table.Columns())
	assert.Equal(t, 2, table.Rows(), "trailing blank row is dropped")
	assert.Equal(t, []any{1672531200000.0, 1704067200000.0}, column(t, table, "period"))
	assert.Equal(t, []any{100.5, -20.0}, column(t, table, "sales"))
	assert.Equal(t, []any{"first", ""}, column(t, table, "note"), "short rows are padded")
}

func TestReader_CSVDelimiter(t *testing.T) {
	path := writeFile(t, "balance.csv", "period;sales\n1;NaN\n")

	table, err := NewReader(Options{Delimiter: ';'}, nil).Read(path)
	require.NoError(t, err)

	assert.Equal(t, []any{1.0}, column(t, table, "period"))
	assert.Equal(t, []any{"NaN"}, column(t, table, "sales"), "non-finite text stays text")
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"duplicate header", "dup.csv", "period,sales,sales\n1,2,3\n"},
		{"empty header", "blank.csv", "period,,sales\n1,2,3\n"},
		{"empty file", "empty.csv", ""},
		{"row wider than header", "wide.csv", "period,sales\n1,2,3\n"},
		{"unsupported extension", "data.txt", "period\n1\n"},
		{"json not an object", "list.json", `[1,2,3]`},
		{"json bad row key", "key.json", `{"sales": {"a": 1}}`},
		{"json row keys with a gap", "gap.json", `{"period": {"0": 1, "1": 2, "2": 3}, "sales": {"0": 1, "2": 2, "3": 3}}`},
		{"json row keys not from zero", "offset.json", `{"sales": {"1": 1, "2": 2}}`},
		{"json row key repeated", "repeat.json", `{"sales": {"1": 1, "01": 2}}`},
		{"json nested value", "nested.json", `{"sales": [[1]]}`},
		{"corrupt workbook", "broken.xlsx", "not a zip archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewReader(Options{}, nil).Read(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrSourceRead))

			var readErr *contracts.SourceReadError
			require.True(t, errors.As(err, &readErr))
			assert.Equal(t, path, readErr.Path)
		})
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(Options{}, nil).Read(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, contracts.ErrSourceRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_JSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "row keyed",
			content: `{"period": {"0": 1672531200000, "1": 1704067200000, "3": 1735689600000, "2": 1704153600000},
			           "sales": {"3": 4, "2": 3, "1": 2, "0": 1}}`,
		},
		{
			name:    "list",
			content: `{"period": [1672531200000, 1704067200000, 1704153600000, 1735689600000], "sales": [1, 2, 3, 4]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "export.json", tt.content)
			table, err := NewReader(Options{}, nil).Read(path)
			require.NoError(t, err)

			assert.Equal(t, []string{"period", "sales"}, table.Columns())
			assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, column(t, table, "sales"))
			assert.Equal(t, 1735689600000.0, column(t, table, "period")[3])
		})
	}
}

func TestReader_JSONRowKeyOrder(t *testing.T) {
	// "10" must sort after "9", not after "1"
	var b strings.Builder
	b.WriteString(`{"sales": {`)
	for i := 10; i >= 0; i-- {
		fmt.Fprintf(&b, `"%d": %d`, i, i*10)
		if i > 0 {
			b.WriteString(", ")
		}
	}
	b.WriteString("}}")

	table, err := NewReader(Options{}, nil).Decode(strings.NewReader(b.String()), FormatJSON)
	require.NoError(t, err)

	sales := column(t, table, "sales")
	require.Len(t, sales, 11)
	for i, v := range sales {
		assert.Equal(t, float64(i*10), v, "row %d", i)
	}
}

func TestReader_JSONCells(t *testing.T) {
	table, err := NewReader(Options{}, nil).Decode(
		strings.NewReader(`{"sales": [null, "12", true, 1.5]}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []any{"", "12", "true", 1.5}, column(t, table, "sales"))
}

func TestReader_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Balance"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	custom := "dd/mm/yyyy"
	customStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(sheet, "A1", "period"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "sales"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "label"))

	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "B2", 100.5))
	require.NoError(t, f.SetCellValue(sheet, "C2", "audited"))

	// serial 45292 = 2024-01-01 under a custom date format
	require.NoError(t, f.SetCellValue(sheet, "A3", 45292))
	require.NoError(t, f.SetCellStyle(sheet, "A3", "A3", customStyle))
	require.NoError(t, f.SetCellValue(sheet, "B3", 45292))

	path := filepath.Join(t.TempDir(), "balance.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := NewReader(Options{Sheet: sheet}, nil).Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"period", "sales", "label"}, table.Columns())
	assert.Equal(t, []any{1672531200000.0, 1704067200000.0}, column(t, table, "period"))
	assert.Equal(t, []any{100.5, 45292.0}, column(t, table, "sales"), "plain numbers are not dates")
	assert.Equal(t, []any{"audited", ""}, column(t, table, "label"))

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := NewReader(Options{Sheet: "Income"}, nil).Read(path)
		assert.ErrorIs(t, err, contracts.ErrSourceRead)
	})

	t.Run("first sheet by default", func(t *testing.T) {
		table, err := NewReader(Options{}, nil).Read(path)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Rows())
	})
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"dd/mm/yyyy", true},
		{"yyyy-mm-dd hh:mm", true},
		{"mmm-yy", true},
		{"#,##0.00", false},
		{`0.00" days"`, false},
		{"[Red]0.00", false},
		{`\d0`, false},
		{"General", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
}
