// Package station models the Indian Railways station catalogue used for fee
// estimation and journey matching.
//
// The package includes:
//   - Station: a railway station identified by its unique upper-case code
//   - Distance: a precomputed rail distance between two stations
//
// Stations are seeded through bulk CSV import and are read-only at runtime.
// Distances are symmetric; lookups try both directions.
package station
