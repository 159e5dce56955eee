package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction. Every repository it returns shares
// that transaction once Begin has been called; before Begin they run against
// the pool directly.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit fails when Begin was not called.
	Commit(ctx context.Context) error
	// Rollback after Commit returns an error; deferred rollbacks discard it.
	Rollback(ctx context.Context) error

	StationRepository() StationRepository
	JourneyRepository() JourneyRepository
	ParcelRepository() ParcelRepository
	WalletTransactionRepository() WalletTransactionRepository
	SessionRepository() SessionRepository
	IdentityVerificationRepository() IdentityVerificationRepository
}
