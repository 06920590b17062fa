package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/finratio/internal/contracts"
	"github.com/wonny/finratio/pkg/logger"
)

// Format identifies an input file layout
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension (case-insensitive).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// Options controls how spreadsheet files are read
type Options struct {
	Sheet     string // xlsx only; empty means the first sheet
	Delimiter rune   // csv only; zero means ','
}

// Reader reads spreadsheet-like files into a RawTable.
// ⭐ SSOT: 입력 파일 파싱은 이 패키지에서만
type Reader struct {
	opts Options
	log  *logger.Logger
}

// NewReader creates a Reader. A nil logger discards output.
func NewReader(opts Options, log *logger.Logger) *Reader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{
		opts: opts,
		log:  log.WithComponent("source"),
	}
}

// Read implements contracts.TabularSource.
// Row order in the file is the period order of the result.
func (r *Reader) Read(path string) (*contracts.RawTable, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &contracts.SourceReadError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &contracts.SourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := r.decode(f, format)
	if err != nil {
		return nil, &contracts.SourceReadError{Path: path, Err: err}
	}

	r.log.WithFields(map[string]interface{}{
		"path":    path,
		"format":  string(format),
		"columns": len(table.Columns()),
		"rows":    table.Rows(),
	}).Debug("source read")

	return table, nil
}

// Decode reads an already opened stream in the given format.
func (r *Reader) Decode(in io.Reader, format Format) (*contracts.RawTable, error) {
	table, err := r.decode(in, format)
	if err != nil {
		return nil, &contracts.SourceReadError{Err: err}
	}
	return table, nil
}

func (r *Reader) decode(in io.Reader, format Format) (*contracts.RawTable, error) {
	switch format {
	case FormatXLSX:
		return r.decodeXLSX(in)
	case FormatCSV:
		return r.decodeCSV(in)
	case FormatJSON:
		return decodeJSON(in)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Compile-time check
var _ contracts.TabularSource = (*Reader)(nil)
