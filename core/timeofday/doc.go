// Package timeofday converts the heterogeneous schedule values found in
// vehicle profiles into fractional hours of the day.
//
// A value is offered to an ordered chain of typed parsers: date/time strings,
// time.Time, model.Clock and finally plain numbers. The first parser that
// accepts the value wins. When none does, ExtractHour returns an
// *UnsupportedTimeFormatError.
package timeofday
