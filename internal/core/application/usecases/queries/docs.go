// Package queries contains read operations. Handlers either delegate to a domain
// service or read the database directly with raw SQL, bypassing aggregates.
package queries
