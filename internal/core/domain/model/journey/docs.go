// Package journey provides the Journey aggregate: a carrier's registered train
// trip during which they can carry parcels.
//
// Key business rules:
//   - A journey belongs to exactly one carrier; only that carrier may change it
//   - Source and destination codes are required and must differ
//   - The PNR is the 10-digit Indian Railways booking reference
//   - Departure and arrival are wall-clock "HH:MM" times on the journey date
//   - Only active journeys are eligible for parcel matching
package journey
