// Package postgres implements the Unit of Work over a GORM transaction and the
// schema migration for every repository table.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, stationrepo.NewCache())
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.ParcelRepository().Update(ctx, p); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork holds one transaction. Goroutines must not share an instance.
package postgres

import (
	"context"

	"parcelbridge/internal/adapters/out/postgres/identityrepo"
	"parcelbridge/internal/adapters/out/postgres/journeyrepo"
	"parcelbridge/internal/adapters/out/postgres/parcelrepo"
	"parcelbridge/internal/adapters/out/postgres/sessionrepo"
	"parcelbridge/internal/adapters/out/postgres/stationrepo"
	"parcelbridge/internal/adapters/out/postgres/wallettxrepo"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/ports"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Models lists every table the repositories use, in migration order.
func Models() []any {
	return []any{
		&stationrepo.StationDTO{},
		&stationrepo.DistanceDTO{},
		&journeyrepo.JourneyDTO{},
		&parcelrepo.ParcelRequestDTO{},
		&wallettxrepo.WalletTransactionDTO{},
		&sessionrepo.SessionDTO{},
		&identityrepo.CarrierVerificationDTO{},
	}
}

// Migrate creates or alters the tables behind Models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}

// trackedAggregate is an aggregate added or updated during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one station cache.
type GormUnitOfWorkFactory struct {
	db           *gorm.DB
	stationCache *cache.Cache
}

// NewGormUnitOfWorkFactory creates the factory. A nil stationCache disables
// station search and distance caching.
func NewGormUnitOfWorkFactory(db *gorm.DB, stationCache *cache.Cache) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, stationCache: stationCache}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		stationCache:      f.stationCache,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// Stations returns a station repository outside any transaction. Read paths
// (fee estimation, route verification, search) use it directly.
func (f *GormUnitOfWorkFactory) Stations() *stationrepo.GormStationRepository {
	return stationrepo.NewGormStationRepository(f.db, f.stationCache)
}

// Journeys returns a journey repository outside any transaction.
func (f *GormUnitOfWorkFactory) Journeys() *journeyrepo.GormJourneyRepository {
	return journeyrepo.NewGormJourneyRepository(f.db, noopTracker{})
}

// Parcels returns a parcel repository outside any transaction. Read-only
// queries use it; writes go through a UnitOfWork.
func (f *GormUnitOfWorkFactory) Parcels() *parcelrepo.GormParcelRepository {
	return parcelrepo.NewGormParcelRepository(f.db, noopTracker{})
}

// Identity returns an identity repository outside any transaction.
func (f *GormUnitOfWorkFactory) Identity() *identityrepo.GormIdentityRepository {
	return identityrepo.NewGormIdentityRepository(f.db)
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	stationCache      *cache.Cache
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. A second Begin on the same instance is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit returns gorm.ErrInvalidTransaction without an active transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback returns gorm.ErrInvalidTransaction without an active transaction,
// which is the normal outcome of the deferred rollback after a commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) StationRepository() ports.StationRepository {
	return stationrepo.NewGormStationRepository(uow.conn(), uow.stationCache)
}

func (uow *GormUnitOfWork) JourneyRepository() ports.JourneyRepository {
	return journeyrepo.NewGormJourneyRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ParcelRepository() ports.ParcelRepository {
	return parcelrepo.NewGormParcelRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) WalletTransactionRepository() ports.WalletTransactionRepository {
	return wallettxrepo.NewGormWalletTransactionRepository(uow.conn())
}

func (uow *GormUnitOfWork) SessionRepository() ports.SessionRepository {
	return sessionrepo.NewGormSessionRepository(uow.conn())
}

func (uow *GormUnitOfWork) IdentityVerificationRepository() ports.IdentityVerificationRepository {
	return identityrepo.NewGormIdentityRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount reports how many aggregates were written through this unit of work.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

// conn is the transaction when one is active, otherwise the pool.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}
