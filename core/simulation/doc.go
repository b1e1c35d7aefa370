// Package simulation runs the home-charging model of an EV fleet.
//
// A Vehicle depletes its battery by a fixed daily consumption, then recharges
// at a constant rate between its arrival and departure hours. A Fleet samples
// vehicles from a profile population and drives them through consecutive
// days, collecting one model.DaySummary per vehicle and day.
//
// Everything here is synchronous and allocation-light; randomness always comes
// from an injected *rand.Rand so runs are reproducible with a seed.
package simulation
