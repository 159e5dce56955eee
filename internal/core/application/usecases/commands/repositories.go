// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"parcelbridge/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	StationRepoFactory interface {
		StationRepository() ports.StationRepository
	}

	JourneyRepoFactory interface {
		JourneyRepository() ports.JourneyRepository
	}

	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	WalletTransactionRepoFactory interface {
		WalletTransactionRepository() ports.WalletTransactionRepository
	}

	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	IdentityRepoFactory interface {
		IdentityVerificationRepository() ports.IdentityVerificationRepository
	}

	// StationUoW is used by catalogue imports.
	StationUoW interface {
		TxManager
		StationRepoFactory
	}

	StationUoWFactory interface {
		Create() StationUoW
	}

	// JourneyUoW is used by operations that only modify journeys.
	JourneyUoW interface {
		TxManager
		JourneyRepoFactory
	}

	JourneyUoWFactory interface {
		Create() JourneyUoW
	}

	// ParcelUoW covers parcel changes that read or check the carrier's journey.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   p, err := uow.ParcelRepository().GetForUpdate(ctx, parcelID)
	//   j, err := uow.JourneyRepository().Get(ctx, journeyID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
		JourneyRepoFactory
	}

	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// PaymentUoW is used by webhook processing.
	PaymentUoW interface {
		TxManager
		WalletTransactionRepoFactory
	}

	PaymentUoWFactory interface {
		Create() PaymentUoW
	}

	SessionUoW interface {
		TxManager
		SessionRepoFactory
	}

	SessionUoWFactory interface {
		Create() SessionUoW
	}

	IdentityUoW interface {
		TxManager
		IdentityRepoFactory
	}

	IdentityUoWFactory interface {
		Create() IdentityUoW
	}
)

// Clock returns the current time. Handlers that depend on wall time take one so
// tests can pin it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}
