package catalog

import (
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the named sheet, or the first sheet when sheet is empty.
func loadXLSX(path, sheet string) ([]contractx.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Raw values: number formats such as percent or accounting would
	// otherwise come back as display text ("15%", "$ 25.50 ").
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return itemsFromRows(rows)
}
