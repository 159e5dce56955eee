package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	postgres_adapter "parcelbridge/internal/adapters/out/postgres"
	"parcelbridge/internal/adapters/out/postgres/pgtest"
	"parcelbridge/internal/adapters/out/postgres/stationrepo"
	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/ports"
	"parcelbridge/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, db, err := pgtest.Start(ctx)
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, stationrepo.NewCache())
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE journeys, parcel_requests, wallet_transactions").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.ParcelRepository())
	suite.NotNil(uow1.JourneyRepository())
	suite.NotNil(uow2.StationRepository())
	suite.NotNil(uow2.WalletTransactionRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryCommit() {
	ctx := context.Background()
	j, p := suite.acceptedPair()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.JourneyRepository().Add(ctx, j))
	suite.Require().NoError(uow.ParcelRepository().Add(ctx, p))
	suite.Require().NoError(uow.Commit(ctx))

	tracked, ok := uow.(*postgres_adapter.GormUnitOfWork)
	suite.Require().True(ok)
	suite.Equal(2, tracked.TrackedCount())

	got, err := suite.factory.Create().ParcelRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Accepted, got.Status())
	suite.Equal(j.ID(), *got.JourneyID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsAllWrites() {
	ctx := context.Background()
	j, p := suite.acceptedPair()

	err := suite.inTransaction(ctx, func(uow ports.UnitOfWork) error {
		if addErr := uow.JourneyRepository().Add(ctx, j); addErr != nil {
			return addErr
		}
		if addErr := uow.ParcelRepository().Add(ctx, p); addErr != nil {
			return addErr
		}
		return errors.New("verification failed")
	})
	suite.Require().Error(err)

	_, err = suite.factory.Journeys().Get(ctx, j.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.factory.Create().ParcelRepository().Get(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_UncommittedWritesInvisibleOutside() {
	ctx := context.Background()
	j, _ := suite.acceptedPair()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(uow.JourneyRepository().Add(ctx, j))

	_, err := suite.factory.Journeys().Get(ctx, j.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	inside, err := uow.JourneyRepository().Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(j.ID(), inside.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) inTransaction(ctx context.Context, fn func(ports.UnitOfWork) error) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) acceptedPair() (*journey.Journey, *parcel.ParcelRequest) {
	carrierID := kernel.NewUUID()
	j, err := journey.NewJourney(kernel.NewUUID(), carrierID, journey.Params{
		PNR:             "4521789630",
		SourceCode:      "CSMT",
		DestinationCode: "PUNE",
		JourneyDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		DepartureTime:   "06:40",
		ArrivalTime:     "09:57",
	})
	suite.Require().NoError(err)

	p, err := parcel.NewParcelRequest(kernel.NewUUID(), kernel.NewUUID(), parcel.Params{
		PickupStation: "Thane",
		DropStation:   "Lonavala",
		WeightKg:      1,
		PickupTime:    time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Fee:           120,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(p.Accept(carrierID, j.ID()))
	return j, p
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
