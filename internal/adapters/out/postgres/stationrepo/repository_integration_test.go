package stationrepo_test

import (
	"context"
	"fmt"
	"testing"

	"parcelbridge/internal/adapters/out/postgres/pgtest"
	"parcelbridge/internal/adapters/out/postgres/stationrepo"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/pkg/errs"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type StationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	cache      *cache.Cache
	repository *stationrepo.GormStationRepository
}

func (suite *StationRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), &stationrepo.StationDTO{}, &stationrepo.DistanceDTO{})
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *StationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE stations, station_distances").Error)
	suite.cache = stationrepo.NewCache()
	suite.repository = stationrepo.NewGormStationRepository(suite.db, suite.cache)
	suite.seed()
}

func (suite *StationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *StationRepositoryIntegrationTestSuite) TestGetByCode() {
	ctx := context.Background()

	s, err := suite.repository.GetByCode(ctx, " lnl ")
	suite.Require().NoError(err)
	suite.Equal("Lonavala", s.Name())
	suite.InDelta(18.7546, s.Location().Lat(), 1e-9)

	_, err = suite.repository.GetByCode(ctx, "XYZ")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *StationRepositoryIntegrationTestSuite) TestUpsertStations_OverwritesExistingCode() {
	ctx := context.Background()
	renamed := suite.station("LNL", "Lonavla", 18.7546, 73.4062)

	suite.Require().NoError(suite.repository.UpsertStations(ctx, []station.Station{renamed}))

	s, err := suite.repository.GetByCode(ctx, "LNL")
	suite.Require().NoError(err)
	suite.Equal("Lonavla", s.Name())
	suite.assertCount("stations", 4)
}

func (suite *StationRepositoryIntegrationTestSuite) TestSearch_ReturnsSubsequenceCandidates() {
	ctx := context.Background()

	got, err := suite.repository.Search(ctx, "lonav")
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("LNL", got[0].Code())

	got, err = suite.repository.Search(ctx, "tna")
	suite.Require().NoError(err)
	codes := make([]string, 0, len(got))
	for _, s := range got {
		codes = append(codes, s.Code())
	}
	suite.Contains(codes, "TNA")

	got, err = suite.repository.Search(ctx, "%_")
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *StationRepositoryIntegrationTestSuite) TestSearch_KeepsExactCodeBeyondLimit() {
	ctx := context.Background()
	crowd := make([]station.Station, 0, stationrepo.SearchLimit+50)
	for i := range stationrepo.SearchLimit + 50 {
		crowd = append(crowd, suite.station(fmt.Sprintf("AD%03d", i), fmt.Sprintf("Adra %03d", i), 23.5, 86.6))
	}
	crowd = append(crowd, suite.station("DR", "Dadar", 19.0186, 72.8424))
	suite.Require().NoError(suite.repository.UpsertStations(ctx, crowd))

	got, err := suite.repository.Search(ctx, "dr")
	suite.Require().NoError(err)
	suite.Require().Len(got, stationrepo.SearchLimit)
	suite.Equal("DR", got[0].Code())

	best, ok := services.NewStationMatcher().Best("dr", got)
	suite.Require().True(ok)
	suite.Equal("DR", best.Station.Code())
}

func (suite *StationRepositoryIntegrationTestSuite) TestSearch_OrdersPrefixBeforeContains() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.UpsertStations(ctx, []station.Station{
		suite.station("SVJR", "Shivajinagar Pune", 18.5314, 73.8446),
	}))

	got, err := suite.repository.Search(ctx, "pune")
	suite.Require().NoError(err)
	suite.Require().GreaterOrEqual(len(got), 2)
	suite.Equal("PUNE", got[0].Code())
	suite.Equal("SVJR", got[1].Code())
}

func (suite *StationRepositoryIntegrationTestSuite) TestDistanceKm() {
	ctx := context.Background()

	testCases := []struct {
		name     string
		from, to string
		km       float64
		found    bool
	}{
		{"by code", "TNA", "LNL", 95, true},
		{"reverse direction", "LNL", "TNA", 95, true},
		{"by name", "Thane", "lonavala", 95, true},
		{"same station", "PUNE", "Pune", 0, true},
		{"unknown pair", "CSMT", "PUNE", 0, false},
		{"unknown station", "TNA", "Nowhere", 0, false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			km, found, err := suite.repository.DistanceKm(ctx, tc.from, tc.to)
			suite.Require().NoError(err)
			suite.Equal(tc.found, found)
			suite.InDelta(tc.km, km, 1e-9)
		})
	}
}

func (suite *StationRepositoryIntegrationTestSuite) TestDistanceKm_CacheFlushedByImport() {
	ctx := context.Background()

	_, found, err := suite.repository.DistanceKm(ctx, "CSMT", "PUNE")
	suite.Require().NoError(err)
	suite.False(found)

	d, err := station.NewDistance("CSMT", "PUNE", 192)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpsertDistances(ctx, []station.Distance{d}))

	km, found, err := suite.repository.DistanceKm(ctx, "CSMT", "PUNE")
	suite.Require().NoError(err)
	suite.True(found)
	suite.InDelta(192.0, km, 1e-9)
}

func (suite *StationRepositoryIntegrationTestSuite) seed() {
	stations := []station.Station{
		suite.station("CSMT", "Mumbai CSMT", 18.9402, 72.8356),
		suite.station("TNA", "Thane", 19.1860, 72.9759),
		suite.station("LNL", "Lonavala", 18.7546, 73.4062),
		suite.station("PUNE", "Pune Junction", 18.5284, 73.8743),
	}
	d, err := station.NewDistance("TNA", "LNL", 95)
	suite.Require().NoError(err)

	ctx := context.Background()
	suite.Require().NoError(suite.repository.UpsertStations(ctx, stations))
	suite.Require().NoError(suite.repository.UpsertDistances(ctx, []station.Distance{d}))
}

func (suite *StationRepositoryIntegrationTestSuite) station(code, name string, lat, lng float64) station.Station {
	loc, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	s, err := station.NewStation(code, name, loc, "Maharashtra", "CR")
	suite.Require().NoError(err)
	return s
}

func (suite *StationRepositoryIntegrationTestSuite) assertCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestStationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StationRepositoryIntegrationTestSuite))
}
