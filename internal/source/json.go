package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/wonny/finratio/internal/contracts"
)

// decodeJSON reads the column-oriented export:
//
//	{"sales": {"0": 100, "1": 120}, ...}  or  {"sales": [100, 120], ...}
//
// Column order follows the document; row keys are ordered numerically and must be contiguous from 0.
func decodeJSON(in io.Reader) (*contracts.RawTable, error) {
	dec := json.NewDecoder(in)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parse json: top level must be an object of columns")
	}

	table := contracts.NewRawTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		name, _ := tok.(string)
		if name == "" {
			return nil, fmt.Errorf("parse json: empty column name")
		}
		if _, dup := table.Column(name); dup {
			return nil, fmt.Errorf("parse json: column %q appears twice", name)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json column %q: %w", name, err)
		}
		values, err := decodeColumn(raw)
		if err != nil {
			return nil, fmt.Errorf("parse json column %q: %w", name, err)
		}
		table.Add(name, values)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(table.Columns()) == 0 {
		return nil, fmt.Errorf("no columns")
	}
	return table, nil
}

func decodeColumn(raw json.RawMessage) ([]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	switch trimmed[0] {
	case '[':
		var list []any
		if err := dec.Decode(&list); err != nil {
			return nil, err
		}
		return convertCells(list)

	case '{':
		var byRow map[string]any
		if err := dec.Decode(&byRow); err != nil {
			return nil, err
		}
		type indexed struct {
			row   int
			value any
		}
		cells := make([]indexed, 0, len(byRow))
		for key, v := range byRow {
			row, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("row key %q is not an integer", key)
			}
			cells = append(cells, indexed{row: row, value: v})
		}
		sort.Slice(cells, func(i, j int) bool { return cells[i].row < cells[j].row })

		// row keys are period indices: 0..n-1 with no gaps, or columns would misalign
		list := make([]any, len(cells))
		for i, c := range cells {
			if c.row != i {
				return nil, fmt.Errorf("row keys must run 0..%d without gaps, found %d at position %d", len(cells)-1, c.row, i)
			}
			list[i] = c.value
		}
		return convertCells(list)

	default:
		return nil, fmt.Errorf("column must be an object keyed by row or a list")
	}
}

func convertCells(list []any) ([]any, error) {
	out := make([]any, len(list))
	for i, v := range list {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				out[i] = x.String()
				continue
			}
			out[i] = f
		case string:
			out[i] = x
		case bool:
			out[i] = strconv.FormatBool(x)
		default:
			return nil, fmt.Errorf("row %d: nested values are not supported", i)
		}
	}
	return out, nil
}
