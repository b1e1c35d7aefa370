package profiles

import (
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evfleet/core/model"
)

// DecodeJSON parses a JSON array of profile objects.
func DecodeJSON(data []byte) ([]model.Profile, error) {
	var ps []model.Profile
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return normalize(ps), nil
}

// DecodeYAML parses a YAML sequence of profile mappings. Unquoted times such
// as 07:30 are kept as strings.
func DecodeYAML(data []byte) ([]model.Profile, error) {
	var ps []model.Profile
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return normalize(ps), nil
}

// normalize fills missing identifiers with the 1-based row number.
func normalize(ps []model.Profile) []model.Profile {
	for i := range ps {
		if ps[i].ID == "" {
			ps[i].ID = strconv.Itoa(i + 1)
		}
	}
	return ps
}
