// Package infra holds the adapters around the simulation core: result sinks,
// stores, profile loaders, the live feed and logging. These packages depend
// only on the interfaces defined in the core packages.
package infra
