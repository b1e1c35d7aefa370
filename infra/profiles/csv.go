package profiles

import (
	"encoding/csv"
	"io"

	"github.com/kilianp07/evfleet/core/model"
)

// ReadCSV parses comma separated profiles with a header row.
func ReadCSV(r io.Reader) ([]model.Profile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}
