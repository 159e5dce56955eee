// Package kernel holds the value objects shared by every Parcel Bridge aggregate:
// UUID identifiers and GeoPoint coordinates.
package kernel
