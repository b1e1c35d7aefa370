package timeofday

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/kilianp07/evfleet/core/model"
)

// ErrUnsupportedTimeFormat is matched by every error returned by ExtractHour.
var ErrUnsupportedTimeFormat = errors.New("unsupported time format")

// UnsupportedTimeFormatError carries the value that could not be converted.
type UnsupportedTimeFormatError struct {
	Value any
}

func (e *UnsupportedTimeFormatError) Error() string {
	return fmt.Sprintf("unsupported time format: %v", e.Value)
}

// Is makes errors.Is(err, ErrUnsupportedTimeFormat) succeed.
func (e *UnsupportedTimeFormatError) Is(target error) bool {
	return target == ErrUnsupportedTimeFormat
}

// Layouts lists the string layouts tried, in order, by the string parser.
var Layouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// parser converts v to an hour. ok is false when v is not of the parser's type.
type parser func(v any) (hour float64, ok bool, err error)

var chain = []parser{
	parseString,
	parseTime,
	parseClock,
	parseNumber,
}

// ExtractHour returns v as a fractional hour (hour + minute/60). Numeric
// values are returned unchanged.
func ExtractHour(v any) (float64, error) {
	for _, p := range chain {
		h, ok, err := p(v)
		if err != nil {
			return 0, &UnsupportedTimeFormatError{Value: v}
		}
		if ok {
			return h, nil
		}
	}
	return 0, &UnsupportedTimeFormatError{Value: v}
}

func parseString(v any) (float64, bool, error) {
	s, ok := v.(string)
	if !ok {
		return 0, false, nil
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return 0, false, err
	}
	return fromClock(model.ClockOf(t)), true, nil
}

func parseTime(v any) (float64, bool, error) {
	switch t := v.(type) {
	case time.Time:
		return fromClock(model.ClockOf(t)), true, nil
	case *time.Time:
		if t == nil {
			return 0, false, errors.New("nil time")
		}
		return fromClock(model.ClockOf(*t)), true, nil
	}
	return 0, false, nil
}

func parseClock(v any) (float64, bool, error) {
	c, ok := v.(model.Clock)
	if !ok {
		return 0, false, nil
	}
	if !c.Valid() {
		return 0, false, fmt.Errorf("invalid clock %v", c)
	}
	return fromClock(c), true, nil
}

func parseNumber(v any) (float64, bool, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, fmt.Errorf("non-finite hour %v", f)
		}
		return f, true, nil
	}
	return 0, false, nil
}

// ParseDateTime parses s with the first matching entry of Layouts.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", s)
}

func fromClock(c model.Clock) float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}
