package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxParser) Format() string { return "xlsx" }

// Parse reads the selected sheet. The first row is the header; rows shorter
// than the header are padded with missing cells.
func (xlsxParser) Parse(content []byte, name string, opt Options) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	// Stored values, not display strings: "1,234.50" and "25.00%" would read as text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, table.ErrNoColumns
	}
	header, err := headerFrom(rows[0])
	if err != nil {
		return nil, err
	}
	ncol := len(header)
	vp := table.NewParser(opt.MissingTokens)

	out := make([][]table.Value, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		if len(rec) > ncol {
			if !blankTail(rec[ncol:]) {
				return nil, fmt.Errorf("row %d has %d cells, header has %d", i+2, len(rec), ncol)
			}
			rec = rec[:ncol]
		}
		row := make([]table.Value, ncol)
		for j := 0; j < ncol; j++ {
			if j < len(rec) {
				row[j] = vp.Parse(rec[j])
			} else {
				row[j] = table.MissingValue()
			}
		}
		out = append(out, row)
	}
	opt.logger().Debug("xlsx sheet selected", "sheet", sheet, "rows", len(out))
	return table.FromRows(name, header, out)
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}

func blankTail(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
