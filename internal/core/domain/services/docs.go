// Package services provides the Parcel Bridge domain services. These are business
// rules that span several aggregates or lean on lookups the aggregates do not own.
//
// The package includes:
//   - FeeEstimator: prices a parcel from its weight tier and the station distance
//   - StationMatcher: ranks stations against free text typed by users
//   - RouteVerifier: decides whether a carrier's journey can carry a parcel
//   - VerificationChecker: scores how close a carrier is to accepting parcels
//
// Estimator and verifier report expected failures inside their result values and
// never return errors or panic to the caller.
package services
