package timeofday

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evfleet/core/model"
)

func TestExtractHour(t *testing.T) {
	ts := time.Date(2024, 3, 4, 18, 45, 59, 0, time.UTC)
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"datetime string", "2024-01-01 07:30:00", 7.5},
		{"rfc3339", "2024-01-01T22:15:00Z", 22.25},
		{"time only", "06:45", 6.75},
		{"time with seconds", "06:45:30", 6.75},
		{"single digit hour", "7:30", 7.5},
		{"twelve hour clock", "7:30 PM", 19.5},
		{"date only", "2024-01-01", 0},
		{"time.Time", ts, 18.75},
		{"*time.Time", &ts, 18.75},
		{"clock", model.Clock{Hour: 8, Minute: 15}, 8.25},
		{"float", 6.25, 6.25},
		{"float32", float32(6.5), 6.5},
		{"int", 7, 7},
		{"uint8", uint8(23), 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractHour(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestExtractHourUnsupported(t *testing.T) {
	var nilTime *time.Time
	inputs := []any{
		"not a time",
		"",
		"6.25",
		nil,
		true,
		[]int{7},
		model.Clock{Hour: 25},
		nilTime,
	}
	for _, in := range inputs {
		_, err := ExtractHour(in)
		require.Error(t, err, "input %#v", in)
		assert.True(t, errors.Is(err, ErrUnsupportedTimeFormat))
		var uerr *UnsupportedTimeFormatError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, in, uerr.Value)
	}
}

func TestExtractHourRejectsNonFinite(t *testing.T) {
	for _, in := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1))} {
		_, err := ExtractHour(in)
		require.Error(t, err, "input %v", in)
		assert.True(t, errors.Is(err, ErrUnsupportedTimeFormat))
	}
}

func TestUnsupportedTimeFormatErrorMessage(t *testing.T) {
	_, err := ExtractHour("garbage")
	require.Error(t, err)
	assert.Equal(t, "unsupported time format: garbage", err.Error())
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime(" 2024-05-06 13:20 ")
	require.NoError(t, err)
	assert.Equal(t, 13, got.Hour())
	assert.Equal(t, 20, got.Minute())

	_, err = ParseDateTime("13h20")
	assert.Error(t, err)
}
