// Package parcel provides the ParcelRequest aggregate: a sender's request to move
// a parcel between two stations with a train-passenger carrier.
//
// The package includes:
//   - ParcelRequest: the aggregate root holding route, weight, fee and assignment
//   - Status: a state machine enforcing valid lifecycle transitions
//
// Status workflow:
//
//	PENDING -> ACCEPTED -> IN_TRANSIT -> DELIVERED
//	PENDING | ACCEPTED -> CANCELLED
//	ACCEPTED | IN_TRANSIT -> FAILED_BY_CARRIER
//
// A parcel has a carrier and a journey exactly when it has left PENDING through
// acceptance (ACCEPTED, IN_TRANSIT, DELIVERED, FAILED_BY_CARRIER).
package parcel
