package model

// Profile is one schedule row of the vehicle population.
//
// ArrivalAtHome and DepartureFromHome accept any representation understood by
// timeofday.ExtractHour (string, time.Time, Clock or a numeric hour).
// Consumption is the daily energy used away from home and must convert to a
// non-negative number.
type Profile struct {
	ID                string `json:"id,omitempty" yaml:"id,omitempty"`
	ArrivalAtHome     any    `json:"arrivalAtHome" yaml:"arrivalAtHome"`
	DepartureFromHome any    `json:"departureFromHome" yaml:"departureFromHome"`
	Consumption       any    `json:"consumption" yaml:"consumption"`
}
