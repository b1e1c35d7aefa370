package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/timeofday"
)

const sampleCSV = `ID,arrivalAtHome,departureFromHome,consumption,notes
veh-a,2024-01-01 18:30:00,2024-01-02 07:15:00,3000,commuter
veh-b,22,6.5,1500.5,

,,,,
,19:45,08:00,0,no id
`

func TestReadCSV(t *testing.T) {
	ps, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, ps, 3)

	assert.Equal(t, model.Profile{
		ID:                "veh-a",
		ArrivalAtHome:     "2024-01-01 18:30:00",
		DepartureFromHome: "2024-01-02 07:15:00",
		Consumption:       3000.0,
	}, ps[0])
	assert.Equal(t, 22.0, ps[1].ArrivalAtHome)
	assert.Equal(t, 6.5, ps[1].DepartureFromHome)
	assert.Equal(t, 1500.5, ps[1].Consumption)
	assert.Equal(t, "19:45", ps[2].ArrivalAtHome)
	// row number fallback, counted over data rows
	assert.Equal(t, "4", ps[2].ID)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("arrivalAtHome,consumption\n18,3000\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), ColumnDeparture)
}

func TestReadCSVCaseInsensitiveHeader(t *testing.T) {
	ps, err := ReadCSV(strings.NewReader("ARRIVALATHOME, DepartureFromHome ,Consumption\n18,7,10\n"))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, 18.0, ps[0].ArrivalAtHome)
}

func TestReadCSVNonFiniteCellsStayText(t *testing.T) {
	ps, err := ReadCSV(strings.NewReader("arrivalAtHome,departureFromHome,consumption\nNaN,Inf,100\n"))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "NaN", ps[0].ArrivalAtHome)
	assert.Equal(t, "Inf", ps[0].DepartureFromHome)

	_, err = timeofday.ExtractHour(ps[0].ArrivalAtHome)
	assert.True(t, errors.Is(err, timeofday.ErrUnsupportedTimeFormat))
}

func TestDecodeJSON(t *testing.T) {
	ps, err := DecodeJSON([]byte(`[
		{"arrivalAtHome": "18:00", "departureFromHome": 7.5, "consumption": 2500},
		{"id": "x", "arrivalAtHome": "2024-01-01T21:00:00Z", "departureFromHome": "06:00", "consumption": "1200"}
	]`))
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "1", ps[0].ID)
	assert.Equal(t, 7.5, ps[0].DepartureFromHome)
	assert.Equal(t, "x", ps[1].ID)
	assert.Equal(t, "1200", ps[1].Consumption)

	_, err = DecodeJSON([]byte(`{"not": "a list"}`))
	assert.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	ps, err := DecodeYAML([]byte(`
- arrivalAtHome: "18:30"
  departureFromHome: 07:15
  consumption: 3000
- id: night
  arrivalAtHome: 22
  departureFromHome: 6
  consumption: 1500.5
`))
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "18:30", ps[0].ArrivalAtHome)
	assert.Equal(t, "07:15", ps[0].DepartureFromHome)
	assert.Equal(t, 3000, ps[0].Consumption)
	assert.Equal(t, "night", ps[1].ID)
	assert.Equal(t, 22, ps[1].ArrivalAtHome)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "profiles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))
	ps, err := Load(csvPath, Options{})
	require.NoError(t, err)
	assert.Len(t, ps, 3)

	jsonPath := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"arrivalAtHome":18,"departureFromHome":7,"consumption":1}]`), 0o600))
	ps, err = Load(jsonPath, Options{})
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	ymlPath := filepath.Join(dir, "profiles.yml")
	require.NoError(t, os.WriteFile(ymlPath, []byte("- arrivalAtHome: 18\n  departureFromHome: 7\n  consumption: 1\n"), 0o600))
	ps, err = Load(ymlPath, Options{})
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	_, err = Load(filepath.Join(dir, "profiles.parquet"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	emptyPath := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyPath, []byte("arrivalAtHome,departureFromHome,consumption\n"), 0o600))
	_, err = Load(emptyPath, Options{})
	assert.ErrorIs(t, err, ErrNoProfiles)

	_, err = Load(filepath.Join(dir, "missing.csv"), Options{})
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Profiles"))
	rows := [][]any{
		{"arrivalAtHome", "departureFromHome", "consumption"},
		{"18:30:00", "07:15:00", 3000},
		{"2024-01-01 22:00:00", 6.5, 1500.25},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Profiles", cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ps, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "18:30:00", ps[0].ArrivalAtHome)
	assert.Equal(t, 3000.0, ps[0].Consumption)
	assert.Equal(t, 6.5, ps[1].DepartureFromHome)
	assert.Equal(t, 1500.25, ps[1].Consumption)

	ps, err = Load(path, Options{Sheet: "Profiles"})
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	_, err = Load(path, Options{Sheet: "Nope"})
	assert.Error(t, err)
}
