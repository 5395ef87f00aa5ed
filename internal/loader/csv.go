package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func (csvParser) Format() string { return "csv" }

func (csvParser) Parse(content []byte, name string, opt Options) (*table.Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xEF\xBB\xBF"))
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	if opt.Delimiter != 0 {
		r.Comma = opt.Delimiter
	}

	rawHeader, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, table.ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header, err := headerFrom(rawHeader)
	if err != nil {
		return nil, err
	}
	ncol := len(header)
	vp := table.NewParser(opt.MissingTokens)

	var rows [][]table.Value
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", len(rows)+1, len(rec), ncol)
		}
		row := make([]table.Value, ncol)
		for j := 0; j < ncol; j++ {
			if j < len(rec) {
				row[j] = vp.Parse(rec[j])
			} else {
				row[j] = table.MissingValue()
			}
		}
		rows = append(rows, row)
	}
	return table.FromRows(name, header, rows)
}
