package parcelrepo_test

import (
	"context"
	"testing"
	"time"

	"parcelbridge/internal/adapters/out/postgres/parcelrepo"
	"parcelbridge/internal/adapters/out/postgres/pgtest"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type ParcelRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *parcelrepo.GormParcelRepository
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), &parcelrepo.ParcelRequestDTO{})
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE parcel_requests").Error)
	suite.repository = parcelrepo.NewGormParcelRepository(suite.db, pgtest.NoopTracker{})
}

func (suite *ParcelRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	p := suite.newParcel()

	suite.Require().NoError(suite.repository.Add(ctx, p))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Pending, got.Status())
	suite.Equal("Thane", got.PickupStation())
	suite.Equal("Lonavala", got.DropStation())
	suite.InDelta(2.5, got.WeightKg(), 1e-9)
	suite.Equal(243, got.Fee())
	suite.True(got.PickupTime().Equal(p.PickupTime()))
	suite.Nil(got.CarrierID())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGet_NonExistent_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestUpdate_AcceptThenCancelClearsAssignment() {
	ctx := context.Background()
	p := suite.newParcel()
	suite.Require().NoError(suite.repository.Add(ctx, p))

	carrierID, journeyID := kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(p.Accept(carrierID, journeyID))
	suite.Require().NoError(suite.repository.Update(ctx, p))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Accepted, got.Status())
	suite.Require().NotNil(got.CarrierID())
	suite.Equal(carrierID, *got.CarrierID())
	suite.Equal(journeyID, *got.JourneyID())

	suite.Require().NoError(p.Cancel())
	suite.Require().NoError(suite.repository.Update(ctx, p))

	got, err = suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Cancelled, got.Status())
	suite.Nil(got.CarrierID())
	suite.Nil(got.JourneyID())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestUpdate_NonExistent_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newParcel())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := context.Background()
	p := suite.newParcel()
	suite.Require().NoError(suite.repository.Add(ctx, p))

	first := suite.db.Begin()
	suite.Require().NoError(first.Error)
	_, err := parcelrepo.NewGormParcelRepository(first, pgtest.NoopTracker{}).GetForUpdate(ctx, p.ID())
	suite.Require().NoError(err)

	locked := make(chan error, 1)
	go func() {
		second := suite.db.Begin()
		if second.Error != nil {
			locked <- second.Error
			return
		}
		defer second.Rollback()
		_, lockErr := parcelrepo.NewGormParcelRepository(second, pgtest.NoopTracker{}).GetForUpdate(ctx, p.ID())
		locked <- lockErr
	}()

	select {
	case <-locked:
		suite.Fail("second transaction acquired the row lock while the first held it")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit().Error)

	select {
	case err = <-locked:
		suite.Require().NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("second transaction never acquired the row lock")
	}
}

func (suite *ParcelRepositoryIntegrationTestSuite) newParcel() *parcel.ParcelRequest {
	p, err := parcel.NewParcelRequest(kernel.NewUUID(), kernel.NewUUID(), parcel.Params{
		PickupStation: "Thane",
		DropStation:   "Lonavala",
		WeightKg:      2.5,
		PickupTime:    time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Fee:           243,
	})
	suite.Require().NoError(err)
	return p
}

func TestParcelRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ParcelRepositoryIntegrationTestSuite))
}
