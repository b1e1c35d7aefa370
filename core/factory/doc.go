// Package factory builds pluggable modules (result sinks, stores) from their
// configuration entries. Implementations register a constructor under a type
// name; configuration files then select them with a `type` key and pass the
// remaining `conf` map through Decode.
package factory
