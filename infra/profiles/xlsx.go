package profiles

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/evfleet/core/model"
)

// readXLSX reads the given sheet, or the first sheet when name is empty.
// Cells are read with their display format, so time-formatted cells arrive
// as "HH:MM:SS" strings.
func readXLSX(r io.Reader, sheet string) ([]model.Profile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	return fromRows(rows)
}
