// Package profiles loads the vehicle schedule population from tabular files
// or HTTP endpoints.
//
// Supported formats are chosen by extension: .xlsx, .csv, .json, .yaml and
// .yml. Remote sources may instead announce their format by Content-Type.
// Tabular formats need a header row naming the arrivalAtHome,
// departureFromHome and consumption columns (case-insensitive); other
// columns are ignored. Cells that parse as finite numbers become float64, so
// plain hour values reach timeofday.ExtractHour as numbers.
package profiles

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/evfleet/core/model"
)

const (
	ColumnArrival     = "arrivalAtHome"
	ColumnDeparture   = "departureFromHome"
	ColumnConsumption = "consumption"
	columnID          = "id"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported profile format")
	// ErrNoProfiles is returned when the source holds no data rows.
	ErrNoProfiles = errors.New("no profiles found")
)

// Options tunes how a profile source is read.
type Options struct {
	// Sheet selects the worksheet of an xlsx file. Empty means the first one.
	Sheet string
}

// Load reads all profiles from the file at path.
func Load(path string, opts Options) ([]model.Profile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeNamed(path, ext, data, opts)
}

// Decode parses data in the format named by ext (".csv", ".xlsx", ".json",
// ".yaml" or ".yml").
func Decode(ext string, data []byte, opts Options) ([]model.Profile, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".xlsx":
		return readXLSX(bytes.NewReader(data), opts.Sheet)
	case ".csv":
		return ReadCSV(bytes.NewReader(data))
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func decodeNamed(name, ext string, data []byte, opts Options) ([]model.Profile, error) {
	profiles, err := Decode(ext, data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoProfiles)
	}
	return profiles, nil
}

func supported(ext string) bool {
	switch ext {
	case ".xlsx", ".csv", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// fromRows converts a header row plus data rows into profiles.
func fromRows(rows [][]string) ([]model.Profile, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}
	profiles := make([]model.Profile, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		p := model.Profile{
			ArrivalAtHome:     cell(row, idx[ColumnArrival]),
			DepartureFromHome: cell(row, idx[ColumnDeparture]),
			Consumption:       cell(row, idx[ColumnConsumption]),
		}
		if i, ok := idx[columnID]; ok {
			if s, ok := cell(row, i).(string); ok {
				p.ID = s
			}
		}
		if p.ID == "" {
			p.ID = strconv.Itoa(n + 1)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, 4)
	for i, h := range header {
		name := strings.TrimSpace(h)
		for _, want := range []string{ColumnArrival, ColumnDeparture, ColumnConsumption, columnID} {
			if strings.EqualFold(name, want) {
				if _, dup := idx[want]; !dup {
					idx[want] = i
				}
			}
		}
	}
	for _, want := range []string{ColumnArrival, ColumnDeparture, ColumnConsumption} {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
	}
	return idx, nil
}

// cell returns the typed value of row[i]: float64 when finite numeric, the
// trimmed string otherwise, nil when absent or empty.
func cell(row []string, i int) any {
	if i >= len(row) {
		return nil
	}
	s := strings.TrimSpace(row[i])
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
