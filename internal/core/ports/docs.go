// Package ports defines the contracts between the Parcel Bridge core and its
// adapters: repositories, lookups used by domain services, identity checks and
// event publishing.
package ports
